package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	apperrors "court-service/pkg/errors"
)

type MockProcessor struct {
	mock.Mock
}

func (m *MockProcessor) ProcessJob(ctx context.Context, id string, finalAttempt bool) error {
	return m.Called(ctx, id, finalAttempt).Error(0)
}

func (m *MockProcessor) Deliver(ctx context.Context, id string, finalAttempt bool) error {
	return m.Called(ctx, id, finalAttempt).Error(0)
}

func transcriptionJob(attempt, maxAttempts int) *river.Job[TranscriptionArgs] {
	return &river.Job[TranscriptionArgs]{
		JobRow: &rivertype.JobRow{ID: 1, Attempt: attempt, MaxAttempts: maxAttempts},
		Args:   TranscriptionArgs{JobID: "j-1"},
	}
}

func TestTranscriptionWorker(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		p := new(MockProcessor)
		p.On("ProcessJob", ctx, "j-1", false).Return(nil)
		require.NoError(t, NewTranscriptionWorker(p, 0).Work(ctx, transcriptionJob(1, 3)))
	})

	t.Run("final attempt flag", func(t *testing.T) {
		p := new(MockProcessor)
		p.On("ProcessJob", ctx, "j-1", true).Return(errors.New("provider down"))
		err := NewTranscriptionWorker(p, 0).Work(ctx, transcriptionJob(3, 3))
		require.Error(t, err)

		var cancelErr *river.JobCancelError
		assert.False(t, errors.As(err, &cancelErr))
	})

	t.Run("deleted job is cancelled", func(t *testing.T) {
		p := new(MockProcessor)
		p.On("ProcessJob", ctx, "j-1", false).Return(apperrors.NewNotFoundError("transcription job", ""))
		err := NewTranscriptionWorker(p, 0).Work(ctx, transcriptionJob(1, 3))

		var cancelErr *river.JobCancelError
		require.ErrorAs(t, err, &cancelErr)
	})
}

func TestTranscriptionWorker_Timeout(t *testing.T) {
	w := NewTranscriptionWorker(new(MockProcessor), 5*time.Minute)
	assert.Equal(t, 5*time.Minute, w.Timeout(transcriptionJob(1, 1)))
}

func TestDeliveryWorker(t *testing.T) {
	ctx := context.Background()
	p := new(MockProcessor)
	p.On("Deliver", ctx, "t-1", true).Return(nil)

	job := &river.Job[DeliveryArgs]{
		JobRow: &rivertype.JobRow{ID: 2, Attempt: 5, MaxAttempts: 5},
		Args:   DeliveryArgs{TransferID: "t-1"},
	}
	require.NoError(t, NewDeliveryWorker(p).Work(ctx, job))
	p.AssertExpectations(t)
}

type fakeInserter struct {
	args []river.JobArgs
	opts []*river.InsertOpts
}

func (f *fakeInserter) Insert(_ context.Context, args river.JobArgs, opts *river.InsertOpts) (*rivertype.JobInsertResult, error) {
	f.args = append(f.args, args)
	f.opts = append(f.opts, opts)
	return &rivertype.JobInsertResult{Job: &rivertype.JobRow{ID: int64(len(f.args))}}, nil
}

func TestQueue_Enqueue(t *testing.T) {
	ins := &fakeInserter{}
	q := New(ins, 4, zaptest.NewLogger(t))

	require.NoError(t, q.EnqueueTranscription(context.Background(), "j-1"))
	require.NoError(t, q.EnqueueDelivery(context.Background(), "t-1"))

	require.Len(t, ins.args, 2)
	assert.Equal(t, TranscriptionArgs{JobID: "j-1"}, ins.args[0])
	assert.Equal(t, DeliveryArgs{TransferID: "t-1"}, ins.args[1])
	assert.Equal(t, 4, ins.opts[0].MaxAttempts)
	assert.Equal(t, QueueDelivery, DeliveryArgs{}.InsertOpts().Queue)
}
