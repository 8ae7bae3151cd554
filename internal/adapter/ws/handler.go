package ws

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/voxhire/interview-engine/internal/domain/entities"
	"github.com/voxhire/interview-engine/internal/usecase/access"
	uerrors "github.com/voxhire/interview-engine/internal/usecase/errors"
	"github.com/voxhire/interview-engine/internal/usecase/interview"
	"github.com/voxhire/interview-engine/internal/usecase/media"
	"github.com/voxhire/interview-engine/pkg/jwt"
)

const turnTimeout = 2 * time.Minute

// Handler serves the live interview channel. One websocket per
// participant; the candidate drives the conversation, observers receive
// the broadcast stream.
type Handler struct {
	orchestrator *interview.Orchestrator
	registry     *interview.SessionRegistry
	access       *access.Service
	transcriber  interview.Transcriber
	media        *media.Service
	logger       *zap.Logger

	upgrader websocket.Upgrader
}

// NewHandler constructs the live channel handler
func NewHandler(
	orchestrator *interview.Orchestrator,
	registry *interview.SessionRegistry,
	accessSvc *access.Service,
	transcriber interview.Transcriber,
	mediaSvc *media.Service,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		orchestrator: orchestrator,
		registry:     registry,
		access:       accessSvc,
		transcriber:  transcriber,
		media:        mediaSvc,
		logger:       logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// inboundMessage is the client-to-server envelope
type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type joinPayload struct {
	InterviewID string `json:"interview_id"`
}

type startPayload struct {
	SessionID string `json:"session_id"`
}

type responsePayload struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
}

type audioChunkPayload struct {
	SessionID string `json:"session_id"`
	Audio     string `json:"audio"` // base64
}

type proctorPayload struct {
	SessionID string `json:"session_id"`
	Kind      string `json:"kind"`
	Severity  string `json:"severity"`
	FaceCount int    `json:"face_count"`
}

// Serve upgrades the request and runs the connection until it drops.
// Authentication happens before the upgrade via the token query parameter.
func (h *Handler) Serve(c echo.Context) error {
	claims, err := h.access.Authenticate(c.QueryParam("token"))
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid access token"})
	}

	ws, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	conn := NewConn(ws, h.logger)
	defer conn.Close()

	conn.Send(interview.NewEvent(interview.EventConnected, map[string]string{
		"interview_id": claims.InterviewID.String(),
		"role":         claims.Role,
	}))

	if h.logger != nil {
		h.logger.Info("live connection opened",
			zap.String("conn_id", conn.ID()),
			zap.String("interview_id", claims.InterviewID.String()),
			zap.String("role", claims.Role),
		)
	}

	h.readLoop(conn, claims)

	wasCandidate := h.registry.Leave(claims.InterviewID, conn.ID())
	if wasCandidate {
		if state, ok := h.orchestrator.Session(claims.InterviewID); ok {
			h.orchestrator.Interrupt(state.SessionID, "candidate_disconnected")
		}
	}

	if h.logger != nil {
		h.logger.Info("live connection closed",
			zap.String("conn_id", conn.ID()),
			zap.Bool("was_candidate", wasCandidate),
		)
	}
	return nil
}

func (h *Handler) readLoop(conn *Conn, claims *jwt.Claims) {
	for {
		_, data, err := conn.ws.ReadMessage()
		if err != nil {
			return
		}

		var msg inboundMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			conn.Send(interview.NewEvent(interview.EventError, interview.ErrorPayload{Message: "malformed message"}))
			continue
		}

		// turns are serialized per session inside the orchestrator, so
		// handling messages inline keeps ordering without extra machinery
		h.dispatch(conn, claims, msg)
	}
}

func (h *Handler) dispatch(conn *Conn, claims *jwt.Claims, msg inboundMessage) {
	ctx, cancel := context.WithTimeout(context.Background(), turnTimeout)
	defer cancel()

	switch msg.Type {
	case "join":
		h.handleJoin(ctx, conn, claims, msg.Payload)

	case "observe":
		h.handleObserve(conn, claims)

	case "start":
		h.candidateOnly(conn, claims, func(sessionID uuid.UUID) {
			if _, err := h.orchestrator.Start(ctx, sessionID); err != nil {
				h.sendError(conn, err)
			}
		}, msg.Payload)

	case "responseComplete":
		var p responsePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			h.sendError(conn, errors.New("malformed payload"))
			return
		}
		h.requireCandidate(conn, claims, p.SessionID, func(sessionID uuid.UUID) {
			h.handleAnswer(ctx, conn, claims.InterviewID, sessionID, p.Text)
		})

	case "audioChunk":
		var p audioChunkPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			h.sendError(conn, errors.New("malformed payload"))
			return
		}
		h.requireCandidate(conn, claims, p.SessionID, func(sessionID uuid.UUID) {
			audio, err := base64.StdEncoding.DecodeString(p.Audio)
			if err != nil {
				h.sendError(conn, errors.New("malformed audio payload"))
				return
			}
			text, err := h.transcriber.Transcribe(ctx, audio)
			if err != nil {
				h.sendError(conn, err)
				return
			}
			h.handleAnswer(ctx, conn, claims.InterviewID, sessionID, text)
		})

	case "resume":
		h.candidateOnly(conn, claims, func(sessionID uuid.UUID) {
			if _, err := h.orchestrator.Resume(ctx, sessionID); err != nil {
				h.sendError(conn, err)
			}
		}, msg.Payload)

	case "proctorEvent":
		var p proctorPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			h.sendError(conn, errors.New("malformed payload"))
			return
		}
		h.requireCandidate(conn, claims, p.SessionID, func(sessionID uuid.UUID) {
			h.handleProctorEvent(conn, sessionID, p)
		})

	case "heartbeat":
		conn.Send(interview.NewEvent(interview.EventHeartbeatAck, interview.HeartbeatAckPayload{
			Timestamp: time.Now(),
		}))

	default:
		h.sendError(conn, errors.New("unknown message type"))
	}
}

// handleJoin registers the connection and creates or resumes the session.
// The interview in the payload must match the one the token was issued for.
func (h *Handler) handleJoin(ctx context.Context, conn *Conn, claims *jwt.Claims, payload json.RawMessage) {
	var p joinPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		h.sendError(conn, errors.New("malformed payload"))
		return
	}
	if p.InterviewID != "" && p.InterviewID != claims.InterviewID.String() {
		h.sendError(conn, errors.New("token not valid for this interview"))
		return
	}

	if claims.Role == jwt.RoleObserver {
		h.handleObserve(conn, claims)
		return
	}

	info, err := h.orchestrator.Join(ctx, claims.InterviewID)
	if err != nil {
		h.sendError(conn, err)
		return
	}

	h.registry.JoinCandidate(claims.InterviewID, conn.ID(), conn)

	conn.Send(interview.NewEvent(interview.EventInterviewReady, interview.InterviewReadyPayload{
		SessionID:         info.SessionID.String(),
		EstimatedDuration: info.EstimatedDuration,
		Status:            info.State,
		Resumed:           info.Resumed,
	}))

	if h.media != nil {
		if _, err := h.media.OpenRoom(ctx, claims.InterviewID); err != nil {
			h.sendError(conn, err)
			return
		}
		grant, err := h.media.JoinToken(claims.InterviewID, conn.ID(), "Candidate", claims.Role)
		if err != nil {
			h.sendError(conn, err)
			return
		}
		conn.Send(interview.NewEvent(interview.EventMediaRoom, grant))
	}
}

// handleObserve attaches an observer to the broadcast stream. Idempotent,
// and valid even before the candidate has joined.
func (h *Handler) handleObserve(conn *Conn, claims *jwt.Claims) {
	h.registry.JoinObserver(claims.InterviewID, conn.ID(), conn)

	if state, ok := h.orchestrator.Session(claims.InterviewID); ok {
		conn.Send(interview.NewEvent(interview.EventInterviewReady, interview.InterviewReadyPayload{
			SessionID: state.SessionID.String(),
			Status:    state.State,
		}))
	}

	if h.media != nil {
		if grant, err := h.media.JoinToken(claims.InterviewID, conn.ID(), "Observer", jwt.RoleObserver); err == nil {
			conn.Send(interview.NewEvent(interview.EventMediaRoom, grant))
		}
	}
}

// handleAnswer runs one turn and completes the interview when the plan
// is exhausted
func (h *Handler) handleAnswer(ctx context.Context, conn *Conn, interviewID, sessionID uuid.UUID, text string) {
	result, err := h.orchestrator.ProcessResponse(ctx, sessionID, text)
	if err != nil {
		h.sendError(conn, err)
		return
	}

	if result.IsComplete {
		if _, err := h.orchestrator.Complete(ctx, sessionID); err != nil {
			h.sendError(conn, err)
			return
		}
		if h.media != nil {
			if err := h.media.CloseRoom(ctx, interviewID); err != nil && h.logger != nil {
				h.logger.Warn("failed to close media room",
					zap.String("interview_id", interviewID.String()),
					zap.Error(err),
				)
			}
		}
	}
}

func (h *Handler) handleProctorEvent(conn *Conn, sessionID uuid.UUID, p proctorPayload) {
	_, err := h.orchestrator.RecordProctorEvent(
		sessionID,
		entities.ProctorEventKind(p.Kind),
		entities.ProctorSeverity(p.Severity),
		p.FaceCount,
	)
	if err != nil {
		h.sendError(conn, err)
	}
}

// candidateOnly parses a session id payload and runs fn for candidates
func (h *Handler) candidateOnly(conn *Conn, claims *jwt.Claims, fn func(uuid.UUID), payload json.RawMessage) {
	var p startPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		h.sendError(conn, errors.New("malformed payload"))
		return
	}
	h.requireCandidate(conn, claims, p.SessionID, fn)
}

func (h *Handler) requireCandidate(conn *Conn, claims *jwt.Claims, rawSessionID string, fn func(uuid.UUID)) {
	if claims.Role != jwt.RoleCandidate {
		h.sendError(conn, uerrors.ErrNotCandidate)
		return
	}
	sessionID, err := uuid.Parse(rawSessionID)
	if err != nil {
		h.sendError(conn, errors.New("invalid session id"))
		return
	}
	fn(sessionID)
}

func (h *Handler) sendError(conn *Conn, err error) {
	conn.Send(interview.NewEvent(interview.EventError, interview.ErrorPayload{Message: err.Error()}))
}
