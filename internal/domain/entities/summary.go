package entities

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// FinalSummary is the immutable outcome of a completed interview
type FinalSummary struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	InterviewID    uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"interview_id"`
	OverallScore   int            `gorm:"not null" json:"overall_score"`
	ScoreBreakdown datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"score_breakdown"` // assessmentID -> score
	TrustScore     int            `gorm:"not null" json:"trust_score"`
	Recommendation Recommendation `gorm:"type:varchar(10);not null;default:'maybe'" json:"recommendation"`
	Strengths      datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"strengths"`
	Weaknesses     datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"weaknesses"`
	Insights       datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"insights"`
	Narrative      string         `gorm:"type:text" json:"narrative"`
	Transcript     datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"transcript"`
	CreatedAt      time.Time      `gorm:"default:now()" json:"created_at"`
}

// TableName specifies the table name for FinalSummary
func (FinalSummary) TableName() string {
	return "final_summaries"
}

// NewFinalSummary assembles a summary entity from computed scores and the
// parsed narrative. JSONB fields marshal from in-memory values; marshal
// failures degrade to empty containers rather than failing completion.
func NewFinalSummary(
	interviewID uuid.UUID,
	overallScore int,
	breakdown map[string]int,
	trustScore int,
	narrative string,
	assessment NarrativeAssessment,
	transcript []TranscriptEntry,
) *FinalSummary {
	s := &FinalSummary{
		ID:             uuid.New(),
		InterviewID:    interviewID,
		OverallScore:   overallScore,
		TrustScore:     trustScore,
		Recommendation: assessment.Recommendation,
		Narrative:      narrative,
		ScoreBreakdown: datatypes.JSON("{}"),
		Strengths:      datatypes.JSON("[]"),
		Weaknesses:     datatypes.JSON("[]"),
		Insights:       datatypes.JSON("[]"),
		Transcript:     datatypes.JSON("[]"),
		CreatedAt:      time.Now(),
	}
	if s.Recommendation == "" {
		s.Recommendation = RecommendationMaybe
	}

	if b, err := json.Marshal(breakdown); err == nil {
		s.ScoreBreakdown = b
	}
	if b, err := json.Marshal(orEmpty(assessment.Strengths)); err == nil {
		s.Strengths = b
	}
	if b, err := json.Marshal(orEmpty(assessment.Weaknesses)); err == nil {
		s.Weaknesses = b
	}
	if b, err := json.Marshal(orEmpty(assessment.Insights)); err == nil {
		s.Insights = b
	}
	if b, err := json.Marshal(transcript); err == nil && transcript != nil {
		s.Transcript = b
	}
	return s
}

// DecodeBreakdown unmarshals the per-assessment score map
func (s *FinalSummary) DecodeBreakdown() (map[string]int, error) {
	breakdown := make(map[string]int)
	if len(s.ScoreBreakdown) == 0 {
		return breakdown, nil
	}
	if err := json.Unmarshal(s.ScoreBreakdown, &breakdown); err != nil {
		return nil, err
	}
	return breakdown, nil
}

func orEmpty(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
