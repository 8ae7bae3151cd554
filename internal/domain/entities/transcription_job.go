package entities

import (
	"time"

	"github.com/google/uuid"
)

// TranscriptionJobStatus tracks the async audit transcription lifecycle
type TranscriptionJobStatus string

const (
	TranscriptionJobStatusPending   TranscriptionJobStatus = "pending"
	TranscriptionJobStatusSubmitted TranscriptionJobStatus = "submitted"
	TranscriptionJobStatusCompleted TranscriptionJobStatus = "completed"
	TranscriptionJobStatusFailed    TranscriptionJobStatus = "failed"
)

// TranscriptionJob is one async request to transcribe a full-session
// recording for compliance review. The turn path never depends on these.
type TranscriptionJob struct {
	ID            uuid.UUID              `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	InterviewID   uuid.UUID              `gorm:"type:uuid;not null;index" json:"interview_id"`
	RecordingURL  string                 `gorm:"type:text;not null" json:"recording_url"`
	ExternalJobID *string                `gorm:"type:varchar(255);index" json:"external_job_id,omitempty"`
	Status        TranscriptionJobStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	RetryCount    int                    `gorm:"default:0" json:"retry_count"`
	MaxRetries    int                    `gorm:"default:3" json:"max_retries"`
	LastError     *string                `gorm:"type:text" json:"last_error,omitempty"`
	Text          string                 `gorm:"type:text" json:"text"`
	StartedAt     *time.Time             `json:"started_at,omitempty"`
	CompletedAt   *time.Time             `json:"completed_at,omitempty"`
	CreatedAt     time.Time              `gorm:"default:now()" json:"created_at"`
	UpdatedAt     time.Time              `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for TranscriptionJob
func (TranscriptionJob) TableName() string {
	return "transcription_jobs"
}

// NewTranscriptionJob creates a pending audit transcription job
func NewTranscriptionJob(interviewID uuid.UUID, recordingURL string) *TranscriptionJob {
	return &TranscriptionJob{
		ID:           uuid.New(),
		InterviewID:  interviewID,
		RecordingURL: recordingURL,
		Status:       TranscriptionJobStatusPending,
		MaxRetries:   3,
		CreatedAt:    time.Now(),
	}
}

// CanRetry reports whether the job may be retried after a failure
func (j *TranscriptionJob) CanRetry() bool {
	return j.RetryCount < j.MaxRetries
}
