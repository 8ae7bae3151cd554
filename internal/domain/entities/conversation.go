package entities

import (
	"time"

	"github.com/google/uuid"
)

// SessionState represents the orchestrator state machine position
type SessionState string

const (
	SessionStateCreated     SessionState = "created"
	SessionStateActive      SessionState = "active"
	SessionStateInterrupted SessionState = "interrupted"
	SessionStateComplete    SessionState = "complete"
)

// Speaker labels for transcript entries
const (
	SpeakerInterviewer = "interviewer"
	SpeakerCandidate   = "candidate"
)

// TranscriptEntry is one line of the session transcript, append-only
type TranscriptEntry struct {
	Speaker   string    `json:"speaker"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// QuestionResponse tracks the candidate's answer to one plan question.
// Re-answers after a follow-up overwrite the previous evaluation; only the
// last persisted response counts toward scoring.
type QuestionResponse struct {
	QuestionID     string   `json:"question_id"`
	Text           string   `json:"text"`
	Score          int      `json:"score"`
	FollowUpsAsked int      `json:"follow_ups_asked"`
	Strengths      []string `json:"strengths"`
	Weaknesses     []string `json:"weaknesses"`
	Summary        string   `json:"summary"`
	Final          bool     `json:"final"`
}

// ProctorEventKind identifies a proctoring anomaly category
type ProctorEventKind string

const (
	ProctorEventFaceDetection      ProctorEventKind = "face-detection"
	ProctorEventTabSwitch          ProctorEventKind = "tab-switch"
	ProctorEventFullscreenExit     ProctorEventKind = "fullscreen-exit"
	ProctorEventSuspiciousActivity ProctorEventKind = "suspicious-activity"
)

// ProctorSeverity grades how alarming an event is
type ProctorSeverity string

const (
	ProctorSeverityLow    ProctorSeverity = "low"
	ProctorSeverityMedium ProctorSeverity = "medium"
	ProctorSeverityHigh   ProctorSeverity = "high"
)

// ProctorEvent is one observed proctoring anomaly, append-only
type ProctorEvent struct {
	Kind      ProctorEventKind `json:"kind"`
	Severity  ProctorSeverity  `json:"severity"`
	FaceCount int              `json:"face_count,omitempty"` // face-detection events only
	Timestamp time.Time        `json:"timestamp"`
}

// ConversationState is the per-session mutable record, owned exclusively by
// the orchestrator. All mutation happens under the session's lock.
type ConversationState struct {
	SessionID   uuid.UUID
	InterviewID uuid.UUID
	Plan        *QuestionPlan
	State       SessionState

	// denormalized from the interview for prompt generation
	CandidateName string
	Position      string

	AssessmentIndex int
	QuestionIndex   int

	// the exact phrasing last spoken for the current question, replayed
	// verbatim when a candidate reconnects
	LastQuestionText string

	Responses     map[string]*QuestionResponse
	Transcript    []TranscriptEntry
	TrustScore    int
	ProctorEvents []ProctorEvent

	CreatedAt time.Time
}

// NewConversationState creates session state at cursor (0,0)
func NewConversationState(interviewID uuid.UUID, plan *QuestionPlan) *ConversationState {
	return &ConversationState{
		SessionID:   uuid.New(),
		InterviewID: interviewID,
		Plan:        plan,
		State:       SessionStateCreated,
		Responses:   make(map[string]*QuestionResponse),
		TrustScore:  100,
		CreatedAt:   time.Now(),
	}
}

// CurrentQuestion returns the question under the cursor, or false when the
// cursor is past the end of the plan.
func (cs *ConversationState) CurrentQuestion() (PlanAssessment, PlanQuestion, bool) {
	return cs.Plan.QuestionAt(cs.AssessmentIndex, cs.QuestionIndex)
}

// AppendTranscript appends one line to the session transcript
func (cs *ConversationState) AppendTranscript(speaker, text string) {
	cs.Transcript = append(cs.Transcript, TranscriptEntry{
		Speaker:   speaker,
		Text:      text,
		Timestamp: time.Now(),
	})
}

// Progress reports the 1-based display position within the plan
type Progress struct {
	CurrentAssessment int `json:"current_assessment"`
	TotalAssessments  int `json:"total_assessments"`
	CurrentQuestion   int `json:"current_question"`
	TotalQuestions    int `json:"total_questions"`
}

// CurrentProgress computes display progress for the cursor position.
// Past-the-end cursors clamp to the plan totals.
func (cs *ConversationState) CurrentProgress() Progress {
	p := Progress{
		CurrentAssessment: cs.AssessmentIndex + 1,
		TotalAssessments:  len(cs.Plan.Assessments),
		CurrentQuestion:   cs.Plan.QuestionNumber(cs.AssessmentIndex, cs.QuestionIndex),
		TotalQuestions:    cs.Plan.TotalQuestions(),
	}
	if p.CurrentAssessment > p.TotalAssessments {
		p.CurrentAssessment = p.TotalAssessments
	}
	if p.CurrentQuestion > p.TotalQuestions {
		p.CurrentQuestion = p.TotalQuestions
	}
	return p
}

// Age returns how long the session has existed
func (cs *ConversationState) Age() time.Duration {
	return time.Since(cs.CreatedAt)
}
