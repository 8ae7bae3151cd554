package entities

import (
	"time"

	"github.com/google/uuid"
)

// InterviewStatus represents the lifecycle of an interview
type InterviewStatus string

const (
	InterviewStatusScheduled  InterviewStatus = "scheduled"
	InterviewStatusOngoing    InterviewStatus = "ongoing"     // open for the candidate to join
	InterviewStatusInProgress InterviewStatus = "in_progress" // session started
	InterviewStatusCompleted  InterviewStatus = "completed"
	InterviewStatusCancelled  InterviewStatus = "cancelled"
)

// Interview is one scheduled voice interview for one candidate
type Interview struct {
	ID             uuid.UUID          `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	TemplateID     uuid.UUID          `gorm:"type:uuid;not null;index" json:"template_id"`
	Template       *InterviewTemplate `gorm:"foreignKey:TemplateID" json:"template,omitempty"`
	CandidateName  string             `gorm:"type:varchar(255);not null" json:"candidate_name"`
	CandidateEmail string             `gorm:"type:varchar(255);not null;index" json:"candidate_email"`
	Status         InterviewStatus    `gorm:"type:varchar(20);not null;default:'scheduled';index" json:"status"`
	MediaRoomName  string             `gorm:"type:varchar(255)" json:"media_room_name"`
	RecordingURL   *string            `gorm:"type:text" json:"recording_url,omitempty"`
	ScheduledAt    *time.Time         `gorm:"index" json:"scheduled_at,omitempty"`
	StartedAt      *time.Time         `json:"started_at,omitempty"`
	CompletedAt    *time.Time         `json:"completed_at,omitempty"`
	CreatedAt      time.Time          `gorm:"default:now()" json:"created_at"`
	UpdatedAt      time.Time          `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for Interview
func (Interview) TableName() string {
	return "interviews"
}

// NewInterview creates a new interview against a template
func NewInterview(templateID uuid.UUID, candidateName, candidateEmail string, scheduledAt *time.Time) *Interview {
	return &Interview{
		ID:             uuid.New(),
		TemplateID:     templateID,
		CandidateName:  candidateName,
		CandidateEmail: candidateEmail,
		Status:         InterviewStatusOngoing,
		ScheduledAt:    scheduledAt,
		CreatedAt:      time.Now(),
	}
}

// IsJoinable reports whether a candidate session may be created or resumed
func (i *Interview) IsJoinable() bool {
	return i.Status == InterviewStatusOngoing || i.Status == InterviewStatusInProgress
}

// IsTerminal reports whether the interview reached a final state
func (i *Interview) IsTerminal() bool {
	return i.Status == InterviewStatusCompleted || i.Status == InterviewStatusCancelled
}
