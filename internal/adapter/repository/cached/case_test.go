package cached

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"court-service/internal/adapter/cache"
	domain "court-service/internal/domain/casefile"
	apperrors "court-service/pkg/errors"
)

// stubRepo counts GetByID calls and serves a fixed case.
type stubRepo struct {
	calls   atomic.Int32
	delay   time.Duration
	updated []int64
}

func (s *stubRepo) Create(context.Context, *domain.Case) error { return nil }

func (s *stubRepo) GetByID(_ context.Context, id int64) (*domain.Case, error) {
	s.calls.Add(1)
	time.Sleep(s.delay)
	if id != 1 {
		return nil, apperrors.NewNotFoundError("case", "")
	}
	return &domain.Case{
		ID:         1,
		CaseNumber: "CR/1/2024",
		Title:      "State v. Ade",
		Charges:    []string{"armed robbery"},
		Keywords:   []string{"robbery", "ikeja"},
	}, nil
}

func (s *stubRepo) GetByNumber(context.Context, string) (*domain.Case, error) { return nil, nil }

func (s *stubRepo) Update(_ context.Context, c *domain.Case) error {
	s.updated = append(s.updated, c.ID)
	return nil
}

func (s *stubRepo) List(context.Context, domain.Filter) ([]domain.Case, int64, error) {
	return nil, 0, nil
}

func (s *stubRepo) AddDocument(context.Context, *domain.Document) error { return nil }

func (s *stubRepo) ListDocuments(context.Context, int64) ([]domain.Document, error) { return nil, nil }

func setup(t *testing.T, delay time.Duration) (*stubRepo, *CaseRepository, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	log := zaptest.NewLogger(t)
	db := &stubRepo{delay: delay}
	repo := NewCaseRepository(db, cache.NewRedisCaseCache(client, time.Minute, log, nil), log).(*CaseRepository)
	return db, repo, mr
}

func TestCaseRepository_CacheAside(t *testing.T) {
	db, repo, mr := setup(t, 0)
	ctx := context.Background()

	c, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "CR/1/2024", c.CaseNumber)
	assert.True(t, mr.Exists("case:1"))

	_, err = repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int32(1), db.calls.Load(), "second read is served from cache")

	require.NoError(t, repo.Update(ctx, c))
	assert.False(t, mr.Exists("case:1"), "update invalidates")
}

func TestCaseRepository_SingleFlight(t *testing.T) {
	db, repo, _ := setup(t, 50*time.Millisecond)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.GetByID(context.Background(), 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Less(t, db.calls.Load(), int32(10))
}

func TestCaseRepository_NotFoundIsNotCached(t *testing.T) {
	db, repo, mr := setup(t, 0)

	_, err := repo.GetByID(context.Background(), 2)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.False(t, mr.Exists("case:2"))
	assert.Equal(t, int32(1), db.calls.Load())
}

func TestCaseRepository_WithoutCache(t *testing.T) {
	db := &stubRepo{}
	repo := NewCaseRepository(db, nil, zaptest.NewLogger(t))

	_, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	_, err = repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int32(2), db.calls.Load())
}

func TestCaseRepository_SharedResultIsDetached(t *testing.T) {
	db := &stubRepo{delay: 50 * time.Millisecond}
	repo := NewCaseRepository(db, nil, zaptest.NewLogger(t))

	results := make([]*domain.Case, 8)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := repo.GetByID(context.Background(), 1)
			assert.NoError(t, err)
			results[i] = c
		}()
	}
	wg.Wait()

	results[0].Charges[0] = "stealing"
	results[0].Keywords = append(results[0].Keywords[:0], "amended")
	for _, c := range results[1:] {
		require.NotNil(t, c)
		assert.Equal(t, []string{"armed robbery"}, c.Charges)
		assert.Equal(t, []string{"robbery", "ikeja"}, c.Keywords)
	}
}

func TestDetach(t *testing.T) {
	judge := int64(7)
	src := &domain.Case{ID: 1, Charges: []string{"fraud"}, Keywords: []string{"bank"}, JudgeID: &judge}

	c := detach(src)
	c.Charges[0] = "forgery"
	c.Keywords[0] = "atm"
	*c.JudgeID = 9

	assert.Equal(t, []string{"fraud"}, src.Charges)
	assert.Equal(t, []string{"bank"}, src.Keywords)
	assert.Equal(t, int64(7), *src.JudgeID)
	assert.Nil(t, detach(&domain.Case{}).Charges)
}
