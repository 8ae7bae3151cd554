package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/voxhire/interview-engine/errors"
	"github.com/voxhire/interview-engine/internal/usecase/audit"
)

// Webhook receives transcription provider callbacks for audit jobs
type Webhook struct {
	audit  audit.Service
	logger *zap.Logger
}

// NewWebhook creates the webhook handler
func NewWebhook(auditSvc audit.Service, logger *zap.Logger) *Webhook {
	return &Webhook{
		audit:  auditSvc,
		logger: logger,
	}
}

// HandleTranscription processes an AssemblyAI transcript status callback.
// The provider retries on non-2xx, so processing failures surface as 500.
func (h *Webhook) HandleTranscription(c echo.Context) error {
	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}

	signature := c.Request().Header.Get("X-Signature")
	if err := h.audit.HandleWebhook(c.Request().Context(), payload, signature); err != nil {
		return HandleError(h.logger, c, errors.ErrProcessingFailed(err))
	}

	return c.NoContent(http.StatusOK)
}
