package virtualcourt

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"court-service/internal/domain/auth"
	"court-service/internal/domain/casefile"
	domain "court-service/internal/domain/courtsession"
	apperrors "court-service/pkg/errors"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, s *domain.Session) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	s := *args.Get(0).(*domain.Session)
	codes := make(map[string]string, len(s.AccessCodes))
	for k, v := range s.AccessCodes {
		codes[k] = v
	}
	s.AccessCodes = codes
	return &s, args.Error(1)
}

func (m *MockRepository) UpdateStatus(ctx context.Context, s *domain.Session, from domain.Status) error {
	return m.Called(ctx, s, from).Error(0)
}

// UpdateParticipants hands the stored row to apply, the way the locked
// repository update does.
func (m *MockRepository) UpdateParticipants(ctx context.Context, id string, apply func(*domain.Session) error) (*domain.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	s := *args.Get(0).(*domain.Session)
	s.Participants = append([]domain.Participant(nil), s.Participants...)
	if err := apply(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (m *MockRepository) List(ctx context.Context, caseID int64, status string, page, limit int64) ([]domain.Session, int64, error) {
	args := m.Called(ctx, caseID, status, page, limit)
	return args.Get(0).([]domain.Session), args.Get(1).(int64), args.Error(2)
}

type MockCases struct {
	mock.Mock
}

func (m *MockCases) GetByID(ctx context.Context, id int64) (*casefile.Case, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*casefile.Case), args.Error(1)
}

var (
	presiding = auth.Principal{UserID: 1, Role: auth.RoleJudge, Name: "Hon. Justice Okafor"}
	otherJdg  = auth.Principal{UserID: 2, Role: auth.RoleJudge}
	counsel   = auth.Principal{UserID: 5, Role: auth.RoleDefenseCounsel, Name: "Barr. Ade"}
	admin     = auth.Principal{UserID: 9, Role: auth.RoleAdmin}
)

func setupTestUsecase(t *testing.T) (*Usecase, *MockRepository, *MockCases) {
	repo := new(MockRepository)
	cases := new(MockCases)
	uc := New(repo, cases, zaptest.NewLogger(t))
	uc.now = func() time.Time { return time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC) }
	return uc, repo, cases
}

func scheduled() *domain.Session {
	return &domain.Session{
		ID:      "vc-1",
		CaseID:  7,
		Status:  domain.StatusScheduled,
		JudgeID: 1,
		AccessCodes: map[string]string{
			"judge": "JJJJJJ", "counsel": "CCCCCC", "witness": "WWWWWW", "public": "PPPPPP",
		},
	}
}

func TestCreateSession(t *testing.T) {
	uc, repo, cases := setupTestUsecase(t)
	ctx := context.Background()

	cases.On("GetByID", ctx, int64(7)).Return(&casefile.Case{ID: 7}, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*courtsession.Session")).Return(nil)

	s, err := uc.CreateSession(ctx, presiding, CreateSessionRequest{
		CaseID: 7, Title: "Bail hearing", ScheduledAt: time.Date(2026, 6, 2, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusScheduled, s.Status)
	assert.Equal(t, 60, s.DurationMinutes)
	assert.Equal(t, int64(1), s.JudgeID)
	require.Len(t, s.AccessCodes, 4)
	for _, role := range domain.AccessRoles {
		assert.Regexp(t, `^[A-Z0-9]{6}$`, s.AccessCodes[role])
	}
}

func TestCreateSession_Errors(t *testing.T) {
	uc, repo, cases := setupTestUsecase(t)
	ctx := context.Background()

	_, err := uc.CreateSession(ctx, presiding, CreateSessionRequest{Title: "x"})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	cases.On("GetByID", ctx, int64(99)).Return(nil, apperrors.NewNotFoundError("case", ""))
	_, err = uc.CreateSession(ctx, presiding, CreateSessionRequest{CaseID: 99, Title: "x", ScheduledAt: time.Now()})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGetSession_HidesCodes(t *testing.T) {
	uc, repo, _ := setupTestUsecase(t)
	ctx := context.Background()
	repo.On("GetByID", ctx, "vc-1").Return(scheduled(), nil)

	s, err := uc.GetSession(ctx, presiding, "vc-1")
	require.NoError(t, err)
	assert.Len(t, s.AccessCodes, 4)

	s, err = uc.GetSession(ctx, admin, "vc-1")
	require.NoError(t, err)
	assert.Len(t, s.AccessCodes, 4)

	s, err = uc.GetSession(ctx, counsel, "vc-1")
	require.NoError(t, err)
	assert.Nil(t, s.AccessCodes)
}

func TestListSessions(t *testing.T) {
	uc, repo, _ := setupTestUsecase(t)
	ctx := context.Background()
	repo.On("List", ctx, int64(7), "scheduled", int64(1), int64(10)).Return([]domain.Session{*scheduled()}, int64(1), nil)

	res, err := uc.ListSessions(ctx, otherJdg, ListSessionsRequest{CaseID: 7, Status: "scheduled"})
	require.NoError(t, err)
	require.Len(t, res.Sessions, 1)
	assert.Nil(t, res.Sessions[0].AccessCodes)
	assert.Equal(t, int64(1), res.Pagination.Total)

	_, err = uc.ListSessions(ctx, otherJdg, ListSessionsRequest{Status: "paused"})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestJoin(t *testing.T) {
	ctx := context.Background()

	t.Run("valid code", func(t *testing.T) {
		uc, repo, _ := setupTestUsecase(t)
		repo.On("UpdateParticipants", ctx, "vc-1").Return(scheduled(), nil)

		res, err := uc.Join(ctx, counsel, "vc-1", JoinRequest{Role: "Counsel", AccessCode: "cccccc"})
		require.NoError(t, err)
		assert.Equal(t, "counsel", res.Participant.Role)
		assert.Equal(t, "Barr. Ade", res.Participant.Name)
		assert.Equal(t, domain.StatusScheduled, res.Status)
		repo.AssertExpectations(t)
		repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("code for another role", func(t *testing.T) {
		uc, repo, _ := setupTestUsecase(t)
		repo.On("UpdateParticipants", ctx, "vc-1").Return(scheduled(), nil)

		_, err := uc.Join(ctx, counsel, "vc-1", JoinRequest{Role: "counsel", AccessCode: "PPPPPP"})
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("unknown role", func(t *testing.T) {
		uc, repo, _ := setupTestUsecase(t)
		_, err := uc.Join(ctx, counsel, "vc-1", JoinRequest{Role: "juror", AccessCode: "PPPPPP"})
		assert.ErrorIs(t, err, apperrors.ErrBadRequest)
		repo.AssertNotCalled(t, "UpdateParticipants", mock.Anything, mock.Anything)
	})

	t.Run("session ended under the lock", func(t *testing.T) {
		uc, repo, _ := setupTestUsecase(t)
		s := scheduled()
		s.Status = domain.StatusCompleted
		repo.On("UpdateParticipants", ctx, "vc-1").Return(s, nil)

		_, err := uc.Join(ctx, counsel, "vc-1", JoinRequest{Role: "public", AccessCode: "PPPPPP"})
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})

	t.Run("missing session", func(t *testing.T) {
		uc, repo, _ := setupTestUsecase(t)
		repo.On("UpdateParticipants", ctx, "vc-9").Return(nil, apperrors.NewNotFoundError("court session", "vc-9"))

		_, err := uc.Join(ctx, counsel, "vc-9", JoinRequest{Role: "public", AccessCode: "PPPPPP"})
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestLeave(t *testing.T) {
	ctx := context.Background()

	t.Run("attending", func(t *testing.T) {
		uc, repo, _ := setupTestUsecase(t)
		s := scheduled()
		s.Status = domain.StatusInProgress
		s.Participants = []domain.Participant{{UserID: 5, Name: "Barr. Ade", Role: "counsel", JoinedAt: time.Date(2026, 6, 1, 8, 30, 0, 0, time.UTC)}}
		repo.On("UpdateParticipants", ctx, "vc-1").Return(s, nil)

		res, err := uc.Leave(ctx, counsel, "vc-1")
		require.NoError(t, err)
		require.NotNil(t, res.Participant.LeftAt)
		assert.Equal(t, time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC), *res.Participant.LeftAt)
	})

	t.Run("not attending", func(t *testing.T) {
		uc, repo, _ := setupTestUsecase(t)
		repo.On("UpdateParticipants", ctx, "vc-1").Return(scheduled(), nil)

		_, err := uc.Leave(ctx, counsel, "vc-1")
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})
}

func TestTransitions(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		from    domain.Status
		start   bool
		p       auth.Principal
		want    domain.Status
		wantErr error
	}{
		{name: "start scheduled", from: domain.StatusScheduled, start: true, p: presiding, want: domain.StatusInProgress},
		{name: "start postponed", from: domain.StatusPostponed, start: true, p: admin, want: domain.StatusInProgress},
		{name: "start in progress", from: domain.StatusInProgress, start: true, p: presiding, wantErr: apperrors.ErrConflict},
		{name: "end in progress", from: domain.StatusInProgress, p: presiding, want: domain.StatusCompleted},
		{name: "end scheduled", from: domain.StatusScheduled, p: presiding, wantErr: apperrors.ErrConflict},
		{name: "other judge", from: domain.StatusScheduled, start: true, p: otherJdg, wantErr: apperrors.ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, repo, _ := setupTestUsecase(t)
			s := scheduled()
			s.Status = tt.from
			repo.On("GetByID", ctx, "vc-1").Return(s, nil)
			repo.On("UpdateStatus", ctx, mock.Anything, tt.from).Return(nil)

			var (
				got *domain.Session
				err error
			)
			if tt.start {
				got, err = uc.StartSession(ctx, tt.p, "vc-1")
			} else {
				got, err = uc.EndSession(ctx, tt.p, "vc-1")
			}

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Status)
		})
	}
}

func TestTransitions_StatusChangedConcurrently(t *testing.T) {
	uc, repo, _ := setupTestUsecase(t)
	ctx := context.Background()
	s := scheduled()
	s.Status = domain.StatusInProgress
	repo.On("GetByID", ctx, "vc-1").Return(s, nil)
	repo.On("UpdateStatus", ctx, mock.Anything, domain.StatusInProgress).
		Return(apperrors.With(apperrors.ErrConflict, "court session vc-1 is no longer in_progress"))

	_, err := uc.EndSession(ctx, presiding, "vc-1")
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestPostponeSession(t *testing.T) {
	ctx := context.Background()
	later := time.Date(2026, 6, 9, 10, 0, 0, 0, time.UTC)

	t.Run("scheduled", func(t *testing.T) {
		uc, repo, _ := setupTestUsecase(t)
		repo.On("GetByID", ctx, "vc-1").Return(scheduled(), nil)
		repo.On("UpdateStatus", ctx, mock.MatchedBy(func(s *domain.Session) bool {
			return s.Status == domain.StatusPostponed && s.ScheduledAt.Equal(later) && s.StatusReason == "Counsel is indisposed"
		}), domain.StatusScheduled).Return(nil)

		got, err := uc.PostponeSession(ctx, presiding, "vc-1", PostponeRequest{ScheduledAt: later, Reason: " Counsel is indisposed "})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPostponed, got.Status)
		repo.AssertExpectations(t)
	})

	t.Run("date already passed", func(t *testing.T) {
		uc, repo, _ := setupTestUsecase(t)
		repo.On("GetByID", ctx, "vc-1").Return(scheduled(), nil)

		_, err := uc.PostponeSession(ctx, presiding, "vc-1", PostponeRequest{ScheduledAt: time.Date(2026, 5, 30, 10, 0, 0, 0, time.UTC), Reason: "late"})
		assert.ErrorIs(t, err, apperrors.ErrBadRequest)
		repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("in progress", func(t *testing.T) {
		uc, repo, _ := setupTestUsecase(t)
		s := scheduled()
		s.Status = domain.StatusInProgress
		repo.On("GetByID", ctx, "vc-1").Return(s, nil)

		_, err := uc.PostponeSession(ctx, presiding, "vc-1", PostponeRequest{ScheduledAt: later, Reason: "late"})
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})

	t.Run("reason required", func(t *testing.T) {
		uc, repo, _ := setupTestUsecase(t)
		_, err := uc.PostponeSession(ctx, presiding, "vc-1", PostponeRequest{ScheduledAt: later})
		assert.ErrorIs(t, err, apperrors.ErrBadRequest)
		repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})
}

func TestCancelSession(t *testing.T) {
	ctx := context.Background()

	t.Run("postponed", func(t *testing.T) {
		uc, repo, _ := setupTestUsecase(t)
		s := scheduled()
		s.Status = domain.StatusPostponed
		repo.On("GetByID", ctx, "vc-1").Return(s, nil)
		repo.On("UpdateStatus", ctx, mock.Anything, domain.StatusPostponed).Return(nil)

		got, err := uc.CancelSession(ctx, admin, "vc-1", CancelRequest{Reason: "Matter settled out of court"})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCancelled, got.Status)
		assert.Equal(t, "Matter settled out of court", got.StatusReason)
	})

	t.Run("completed", func(t *testing.T) {
		uc, repo, _ := setupTestUsecase(t)
		s := scheduled()
		s.Status = domain.StatusCompleted
		repo.On("GetByID", ctx, "vc-1").Return(s, nil)

		_, err := uc.CancelSession(ctx, presiding, "vc-1", CancelRequest{Reason: "x"})
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})

	t.Run("other judge", func(t *testing.T) {
		uc, repo, _ := setupTestUsecase(t)
		repo.On("GetByID", ctx, "vc-1").Return(scheduled(), nil)

		_, err := uc.CancelSession(ctx, otherJdg, "vc-1", CancelRequest{Reason: "x"})
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})
}
