package entities

// Recommendation is the hiring signal attached to evaluations and summaries
type Recommendation string

const (
	RecommendationHire   Recommendation = "hire"
	RecommendationNoHire Recommendation = "no-hire"
	RecommendationMaybe  Recommendation = "maybe"
)

// Evaluation is the evaluator collaborator's verdict on one answer
type Evaluation struct {
	Score          int            `json:"score"` // 0..100
	Strengths      []string       `json:"strengths"`
	Weaknesses     []string       `json:"weaknesses"`
	Recommendation Recommendation `json:"recommendation"`
	Summary        string         `json:"summary"`
}

// ClampScore bounds a score to [0,100]
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// NarrativeAssessment is the parsed form of the closing narrative the chat
// collaborator produces at completion. Parsing is best-effort; missing
// fields default to empty lists and RecommendationMaybe.
type NarrativeAssessment struct {
	Strengths      []string       `json:"strengths"`
	Weaknesses     []string       `json:"weaknesses"`
	Insights       []string       `json:"insights"`
	Recommendation Recommendation `json:"recommendation"`
}
