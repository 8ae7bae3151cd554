package interview

import (
	"time"

	"github.com/voxhire/interview-engine/internal/domain/entities"
)

// Outbound event types delivered over the live channel
const (
	EventConnected            = "connected"
	EventInterviewReady       = "interviewReady"
	EventMediaRoom            = "mediaRoom"
	EventMessage              = "message"
	EventQuestion             = "question"
	EventProgressUpdate       = "progressUpdate"
	EventProctorAlert         = "proctorAlert"
	EventTrustScoreUpdate     = "trustScoreUpdate"
	EventInterviewInterrupted = "interviewInterrupted"
	EventInterviewComplete    = "interviewComplete"
	EventInterviewCompleted   = "interviewCompleted"
	EventError                = "error"
	EventHeartbeatAck         = "heartbeatAck"
)

// Event is the outbound envelope broadcast to live connections
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// NewEvent wraps a payload in the outbound envelope
func NewEvent(eventType string, payload interface{}) Event {
	return Event{Type: eventType, Payload: payload}
}

// InterviewReadyPayload confirms a session exists and may be started
type InterviewReadyPayload struct {
	SessionID         string                `json:"session_id"`
	EstimatedDuration int                   `json:"estimated_duration"`
	Status            entities.SessionState `json:"status"`
	Resumed           bool                  `json:"resumed"`
}

// MessagePayload carries a spoken interviewer line that is not a question
type MessagePayload struct {
	Text     string `json:"text"`
	AudioRef string `json:"audio_ref,omitempty"`
}

// QuestionPayload carries one question or follow-up turn
type QuestionPayload struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	AudioRef   string `json:"audio_ref,omitempty"`
	Type       string `json:"type"`
	Order      int    `json:"order"`
	IsFollowUp bool   `json:"is_follow_up,omitempty"`
}

// ProgressUpdatePayload informs observers about a completed turn
type ProgressUpdatePayload struct {
	Progress   entities.Progress `json:"progress"`
	Score      int               `json:"score"`
	Evaluation string            `json:"evaluation"`
}

// ProctorAlertPayload is sent to observers for high-severity events only
type ProctorAlertPayload struct {
	Kind     entities.ProctorEventKind `json:"kind"`
	Severity entities.ProctorSeverity  `json:"severity"`
}

// TrustScorePayload carries the recomputed proctoring trust score
type TrustScorePayload struct {
	TrustScore int `json:"trust_score"`
}

// InterruptedPayload explains why a session paused
type InterruptedPayload struct {
	Reason string `json:"reason"`
}

// CompletePayload carries the final summary at interview end
type CompletePayload struct {
	Summary *entities.FinalSummary `json:"summary"`
}

// ErrorPayload carries a caller-facing error message
type ErrorPayload struct {
	Message string `json:"message"`
}

// HeartbeatAckPayload answers a heartbeat
type HeartbeatAckPayload struct {
	Timestamp time.Time `json:"timestamp"`
}
