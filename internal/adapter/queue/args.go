package queue

import (
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
)

// uniqueStates keeps a single live job per argument set.
var uniqueStates = []rivertype.JobState{
	rivertype.JobStateAvailable,
	rivertype.JobStatePending,
	rivertype.JobStateRunning,
	rivertype.JobStateRetryable,
	rivertype.JobStateScheduled,
}

// TranscriptionArgs transcribes an uploaded recording.
type TranscriptionArgs struct {
	JobID string `json:"job_id" river:"unique"`
}

// Kind implements river.JobArgs.
func (TranscriptionArgs) Kind() string { return "transcription" }

// InsertOpts implements river.JobArgsWithInsertOpts.
func (TranscriptionArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		Queue:      QueueTranscription,
		UniqueOpts: river.UniqueOpts{ByArgs: true, ByState: uniqueStates},
	}
}

// DeliveryArgs delivers a warrant transfer to its agency.
type DeliveryArgs struct {
	TransferID string `json:"transfer_id" river:"unique"`
}

// Kind implements river.JobArgs.
func (DeliveryArgs) Kind() string { return "warrant_delivery" }

// InsertOpts implements river.JobArgsWithInsertOpts.
func (DeliveryArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		Queue:      QueueDelivery,
		UniqueOpts: river.UniqueOpts{ByArgs: true, ByState: uniqueStates},
	}
}
