package entities

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// QuestionType categorizes how a question should be answered and scored
type QuestionType string

const (
	QuestionTypeBehavioral QuestionType = "behavioral"
	QuestionTypeTechnical  QuestionType = "technical"
	QuestionTypeSituation  QuestionType = "situational"
	QuestionTypeGeneral    QuestionType = "general"
)

// InterviewTemplate defines the assessments and questions an interview is built from.
// Authoring happens upstream; this service only reads templates.
type InterviewTemplate struct {
	ID                uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name              string         `gorm:"type:varchar(255);not null" json:"name"`
	Position          string         `gorm:"type:varchar(255)" json:"position"`
	Description       *string        `gorm:"type:text" json:"description,omitempty"`
	Assessments       datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'" json:"assessments"`
	EstimatedDuration int            `gorm:"default:30" json:"estimated_duration"` // minutes
	CreatedAt         time.Time      `gorm:"default:now()" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for InterviewTemplate
func (InterviewTemplate) TableName() string {
	return "interview_templates"
}

// AssessmentSpec is the JSONB shape of one assessment inside a template
type AssessmentSpec struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Weight    int            `json:"weight"` // 0..100, all weights sum to 100
	Questions []QuestionSpec `json:"questions"`
}

// QuestionSpec is the JSONB shape of one question inside an assessment
type QuestionSpec struct {
	ID               string       `json:"id"`
	Text             string       `json:"text"`
	Type             QuestionType `json:"type"`
	TimeLimitSeconds int          `json:"time_limit_seconds"`
	ScoringKeyPoints []string     `json:"scoring_key_points"`
}

// DecodeAssessments unmarshals the stored assessment specs
func (t *InterviewTemplate) DecodeAssessments() ([]AssessmentSpec, error) {
	if len(t.Assessments) == 0 {
		return nil, nil
	}
	var specs []AssessmentSpec
	if err := json.Unmarshal(t.Assessments, &specs); err != nil {
		return nil, err
	}
	return specs, nil
}
