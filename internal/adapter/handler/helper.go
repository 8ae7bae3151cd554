package handler

import (
	stdErrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/voxhire/interview-engine/errors"
	"github.com/voxhire/interview-engine/internal/domain/entities"
	uerrors "github.com/voxhire/interview-engine/internal/usecase/errors"
)

// Response shapes
type success struct {
	Code    interface{} `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type errs struct {
	Code    interface{} `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Info    string      `json:"info,omitempty"`
}

// getRequestID tries to read X-Request-ID from the request
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	return c.Request().Header.Get("X-Request-ID")
}

// HandleSuccess writes a standardized success response
func HandleSuccess(logger *zap.Logger, c echo.Context, data interface{}) error {
	resp := success{
		Code:    int(errors.ErrorCode_HTTP_OK),
		Message: "success",
		Data:    data,
	}

	if logger != nil {
		logger.Info("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
		)
	}

	return c.JSON(http.StatusOK, resp)
}

// HandleError centralizes error handling and logging
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	reqID := getRequestID(c)
	appErr := toAppError(err)

	if logger != nil {
		logger.Error("http.response.error",
			zap.String("request_id", reqID),
			zap.String("path", c.Path()),
			zap.Any("app_code", appErr.Code),
			zap.Error(err),
		)
	}

	info := ""
	if appErr.Raw != nil {
		info = appErr.Raw.Error()
	}

	body := errs{
		Code:    appErr.Code,
		Message: appErr.Message,
		Info:    info,
	}

	return c.JSON(appErr.HTTPCode, body)
}

// toAppError maps usecase sentinel errors onto HTTP app errors
func toAppError(err error) errors.AppError {
	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		return appErr
	}

	switch {
	case stdErrors.Is(err, uerrors.ErrInterviewNotFound), stdErrors.Is(err, entities.ErrInterviewNotFound):
		return errors.ErrInterviewNotFound("")
	case stdErrors.Is(err, uerrors.ErrTemplateNotFound), stdErrors.Is(err, entities.ErrTemplateNotFound):
		return errors.ErrNotFound("Template")
	case stdErrors.Is(err, uerrors.ErrSessionNotFound):
		return errors.ErrSessionNotFound("")
	case stdErrors.Is(err, uerrors.ErrSessionComplete), stdErrors.Is(err, uerrors.ErrAlreadyCompleted):
		return errors.ErrSessionCompleted("")
	case stdErrors.Is(err, uerrors.ErrInvalidState):
		return errors.ErrInterviewInvalidState("", "", "")
	case stdErrors.Is(err, uerrors.ErrPlanEmpty):
		return errors.ErrPlanEmpty("")
	case stdErrors.Is(err, entities.ErrInvalidWeights):
		return errors.ErrInvalidArgument(entities.ErrInvalidWeights.Error())
	case stdErrors.Is(err, uerrors.ErrTicketInvalid):
		return errors.ErrInvalidTicket()
	case stdErrors.Is(err, uerrors.ErrTokenInvalid), stdErrors.Is(err, uerrors.ErrTokenExpired):
		return errors.ErrInvalidToken()
	// transcription and synthesis failures wrap ErrCollaboratorUnavailable,
	// so the specific cases must come first
	case stdErrors.Is(err, uerrors.ErrTranscriptionFailed):
		return errors.ErrTranscriptionFailed(err)
	case stdErrors.Is(err, uerrors.ErrSynthesisFailed):
		return errors.ErrSynthesisFailed(err)
	case stdErrors.Is(err, uerrors.ErrCollaboratorUnavailable):
		return errors.ErrCollaboratorUnavailable("external", err)
	case stdErrors.Is(err, uerrors.ErrMediaRoom), stdErrors.Is(err, uerrors.ErrMediaToken):
		return errors.ErrCollaboratorUnavailable("livekit", err)
	case stdErrors.Is(err, uerrors.ErrNotCandidate), stdErrors.Is(err, uerrors.ErrUnauthorized):
		return errors.ErrUnauthenticated()
	case stdErrors.Is(err, uerrors.ErrInvalidInput):
		return errors.ErrInvalidArgument(err.Error())
	case stdErrors.Is(err, uerrors.ErrNotFound):
		return errors.ErrNotFound("Resource")
	default:
		return errors.ErrInternal(err)
	}
}
