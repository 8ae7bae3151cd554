package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/voxhire/interview-engine/errors"
	"github.com/voxhire/interview-engine/internal/domain/entities"
	"github.com/voxhire/interview-engine/internal/domain/repositories"
	"github.com/voxhire/interview-engine/internal/usecase/access"
	uerrors "github.com/voxhire/interview-engine/internal/usecase/errors"
	"github.com/voxhire/interview-engine/internal/usecase/interview"
	"github.com/voxhire/interview-engine/internal/usecase/media"
)

// Interview handles the REST surface: scheduling, state queries, tickets,
// and summaries. The live conversation itself runs over the websocket.
type Interview struct {
	orchestrator *interview.Orchestrator
	interviews   repositories.InterviewRepository
	templates    repositories.TemplateRepository
	summaries    repositories.SummaryRepository
	access       *access.Service
	media        *media.Service
	logger       *zap.Logger
}

// NewInterview creates the interview handler
func NewInterview(
	orchestrator *interview.Orchestrator,
	interviews repositories.InterviewRepository,
	templates repositories.TemplateRepository,
	summaries repositories.SummaryRepository,
	accessSvc *access.Service,
	mediaSvc *media.Service,
	logger *zap.Logger,
) *Interview {
	return &Interview{
		orchestrator: orchestrator,
		interviews:   interviews,
		templates:    templates,
		summaries:    summaries,
		access:       accessSvc,
		media:        mediaSvc,
		logger:       logger,
	}
}

// CreateInterviewRequest schedules one interview against a template
type CreateInterviewRequest struct {
	TemplateID     string     `json:"template_id" validate:"required,uuid"`
	CandidateName  string     `json:"candidate_name" validate:"required,max=255"`
	CandidateEmail string     `json:"candidate_email" validate:"required,email"`
	ScheduledAt    *time.Time `json:"scheduled_at,omitempty"`
}

// IssueTicketRequest asks for a one-time join ticket
type IssueTicketRequest struct {
	Role string `json:"role" validate:"required,oneof=candidate observer"`
}

// ExchangeTicketRequest swaps a join ticket for an access token
type ExchangeTicketRequest struct {
	Ticket string `json:"ticket" validate:"required"`
}

// Create schedules a new interview
func (h *Interview) Create(c echo.Context) error {
	var req CreateInterviewRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	templateID, err := uuid.Parse(req.TemplateID)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid template_id"))
	}

	template, err := h.templates.FindByID(c.Request().Context(), templateID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	if template == nil {
		return HandleError(h.logger, c, uerrors.ErrTemplateNotFound)
	}

	iv := entities.NewInterview(templateID, req.CandidateName, req.CandidateEmail, req.ScheduledAt)
	if err := h.interviews.Create(c.Request().Context(), iv); err != nil {
		return HandleError(h.logger, c, err)
	}

	if h.logger != nil {
		h.logger.Info("interview scheduled",
			zap.String("interview_id", iv.ID.String()),
			zap.String("template_id", templateID.String()),
		)
	}
	return HandleSuccess(h.logger, c, iv)
}

// Get returns one interview, including its live session state if any
func (h *Interview) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid interview id"))
	}

	iv, err := h.interviews.FindByID(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	if iv == nil {
		return HandleError(h.logger, c, uerrors.ErrInterviewNotFound)
	}

	resp := map[string]interface{}{
		"interview": iv,
	}
	if state, ok := h.orchestrator.Session(id); ok {
		resp["session"] = map[string]interface{}{
			"session_id":  state.SessionID,
			"state":       state.State,
			"progress":    state.CurrentProgress(),
			"trust_score": state.TrustScore,
		}
	}
	return HandleSuccess(h.logger, c, resp)
}

// Summary returns the final summary of a completed interview
func (h *Interview) Summary(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid interview id"))
	}

	summary, err := h.summaries.FindByInterviewID(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	if summary == nil {
		return HandleError(h.logger, c, errors.ErrNotFound("Summary"))
	}
	return HandleSuccess(h.logger, c, summary)
}

// Cancel terminates an interview. A live session is torn down; a scheduled
// interview is just marked cancelled.
func (h *Interview) Cancel(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid interview id"))
	}

	iv, err := h.interviews.FindByID(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	if iv == nil {
		return HandleError(h.logger, c, uerrors.ErrInterviewNotFound)
	}
	if iv.IsTerminal() {
		return HandleError(h.logger, c, errors.ErrInterviewInvalidState(id.String(), string(iv.Status), "active"))
	}

	if state, ok := h.orchestrator.Session(id); ok {
		if err := h.orchestrator.Cancel(c.Request().Context(), state.SessionID); err != nil {
			return HandleError(h.logger, c, err)
		}
	} else if err := h.interviews.UpdateStatus(c.Request().Context(), id, entities.InterviewStatusCancelled); err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, map[string]string{"status": string(entities.InterviewStatusCancelled)})
}

// IssueTicket creates a one-time join ticket for the interview
func (h *Interview) IssueTicket(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid interview id"))
	}

	var req IssueTicketRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	ticket, err := h.access.IssueTicket(c.Request().Context(), id, req.Role)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, map[string]string{"ticket": ticket, "role": req.Role})
}

// ExchangeTicket swaps a one-time ticket for a signed access token
func (h *Interview) ExchangeTicket(c echo.Context) error {
	var req ExchangeTicketRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	token, err := h.access.ExchangeTicket(req.Ticket)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, map[string]string{"access_token": token})
}

// Participants lists everyone currently in the interview's media room
func (h *Interview) Participants(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid interview id"))
	}

	iv, err := h.interviews.FindByID(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	if iv == nil {
		return HandleError(h.logger, c, uerrors.ErrInterviewNotFound)
	}

	participants, err := h.media.Participants(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, map[string]interface{}{
		"participants": participants,
		"total":        len(participants),
	})
}

// EjectParticipant removes one participant from the interview's media room.
// Proctoring escalation path: the back office kicks a flagged connection
// without tearing down the interview itself.
func (h *Interview) EjectParticipant(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid interview id"))
	}
	identity := c.Param("identity")
	if identity == "" {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("missing participant identity"))
	}

	iv, err := h.interviews.FindByID(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	if iv == nil {
		return HandleError(h.logger, c, uerrors.ErrInterviewNotFound)
	}

	if err := h.media.EjectParticipant(c.Request().Context(), id, identity); err != nil {
		return HandleError(h.logger, c, err)
	}

	if h.logger != nil {
		h.logger.Warn("participant ejected",
			zap.String("interview_id", id.String()),
			zap.String("identity", identity),
		)
	}
	return HandleSuccess(h.logger, c, map[string]string{"ejected": identity})
}

// ListTemplates returns available interview templates
func (h *Interview) ListTemplates(c echo.Context) error {
	limit, offset := 50, 0
	templates, total, err := h.templates.List(c.Request().Context(), limit, offset)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, map[string]interface{}{
		"templates": templates,
		"total":     total,
	})
}
