package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/distributor/backend/internal/infrastructure/sap"
	"github.com/distributor/backend/internal/interfaces/http/router"
)

// SessionClient manages the ERP service session.
type SessionClient interface {
	Login(ctx context.Context) error
	Logout(ctx context.Context)
	HasSession() bool
}

// SessionHandler lets an operator force a new ERP session or drop the
// current one.
type SessionHandler struct {
	BaseHandler
	client SessionClient
}

// NewSessionHandler creates a session handler for client.
func NewSessionHandler(client SessionClient) *SessionHandler {
	return &SessionHandler{client: client}
}

// SessionStatus is returned by the session endpoints.
type SessionStatus struct {
	Active bool `json:"active"`
}

// Routes returns the /Session route group.
func (h *SessionHandler) Routes() *router.DomainGroup {
	return router.NewDomainGroup("Session", "/Session").
		GET("", h.Status).
		POST("/Login", h.Login).
		DELETE("", h.Logout)
}

// Status reports whether a session cookie is held.
func (h *SessionHandler) Status(c *gin.Context) {
	h.Success(c, SessionStatus{Active: h.client.HasSession()})
}

// Login discards the current session and logs in again.
func (h *SessionHandler) Login(c *gin.Context) {
	if err := h.client.Login(c.Request.Context()); err != nil {
		h.HandleError(c, sap.TranslateError(err, "Session", ""))
		return
	}
	h.Success(c, SessionStatus{Active: h.client.HasSession()})
}

// Logout ends the session. Upstream failures are only logged by the client.
func (h *SessionHandler) Logout(c *gin.Context) {
	h.client.Logout(c.Request.Context())
	h.NoContent(c)
}
