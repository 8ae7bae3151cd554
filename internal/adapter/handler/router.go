package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/voxhire/interview-engine/internal/adapter/ws"
	"github.com/voxhire/interview-engine/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg              *config.Config
	interviewHandler *Interview
	webhookHandler   *Webhook
	liveHandler      *ws.Handler
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, interviewHandler *Interview, webhookHandler *Webhook, liveHandler *ws.Handler) *Router {
	return &Router{
		cfg:              cfg,
		interviewHandler: interviewHandler,
		webhookHandler:   webhookHandler,
		liveHandler:      liveHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	// API v1 group
	v1 := e.Group("/v1")

	rt.setupInterviewRoutes(v1)
	rt.setupAccessRoutes(v1)
	rt.setupWebhookRoutes(v1)
	rt.setupLiveRoutes(v1)
}

// setupInterviewRoutes configures interview lifecycle routes
func (rt *Router) setupInterviewRoutes(g *echo.Group) {
	interviews := g.Group("/interviews")

	if rt.interviewHandler != nil {
		interviews.POST("", rt.interviewHandler.Create)
		interviews.GET("/:id", rt.interviewHandler.Get)
		interviews.GET("/:id/summary", rt.interviewHandler.Summary)
		interviews.POST("/:id/cancel", rt.interviewHandler.Cancel)
		interviews.POST("/:id/tickets", rt.interviewHandler.IssueTicket)
		interviews.GET("/:id/participants", rt.interviewHandler.Participants)
		interviews.DELETE("/:id/participants/:identity", rt.interviewHandler.EjectParticipant)
		g.GET("/templates", rt.interviewHandler.ListTemplates)
	} else {
		interviews.POST("", rt.notImplemented)
		interviews.GET("/:id", rt.notImplemented)
		interviews.GET("/:id/summary", rt.notImplemented)
		interviews.POST("/:id/cancel", rt.notImplemented)
		interviews.POST("/:id/tickets", rt.notImplemented)
		g.GET("/templates", rt.notImplemented)
	}
}

// setupAccessRoutes configures the ticket-for-token exchange
func (rt *Router) setupAccessRoutes(g *echo.Group) {
	auth := g.Group("/auth")

	if rt.interviewHandler != nil {
		auth.POST("/token", rt.interviewHandler.ExchangeTicket)
	} else {
		auth.POST("/token", rt.notImplemented)
	}
}

// setupWebhookRoutes configures external provider callbacks
func (rt *Router) setupWebhookRoutes(g *echo.Group) {
	webhooks := g.Group("/webhooks")

	if rt.webhookHandler != nil {
		webhooks.POST("/assemblyai", rt.webhookHandler.HandleTranscription)
	} else {
		webhooks.POST("/assemblyai", rt.notImplemented)
	}
}

// setupLiveRoutes configures the websocket interview channel
func (rt *Router) setupLiveRoutes(g *echo.Group) {
	if rt.liveHandler != nil {
		g.GET("/live", rt.liveHandler.Serve)
	} else {
		g.GET("/live", rt.notImplemented)
	}
}

// notImplemented returns 501 Not Implemented response
func (rt *Router) notImplemented(c echo.Context) error {
	return c.JSON(http.StatusNotImplemented, map[string]interface{}{
		"error":  "This endpoint is not yet implemented",
		"path":   c.Request().URL.Path,
		"method": c.Request().Method,
	})
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Environment,
	})
}
