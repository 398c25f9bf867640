package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/distributor/backend/internal/infrastructure/logger"
)

// Pinger checks that a dependency is reachable.
type Pinger interface {
	Ping() error
}

// HealthHandler reports the backend mode and the state of the database
// and, in remote mode, of the ERP session.
type HealthHandler struct {
	mode    string
	db      Pinger
	session SessionClient
}

// NewHealthHandler creates a health handler. session may be nil in local
// mode.
func NewHealthHandler(mode string, db Pinger, session SessionClient) *HealthHandler {
	return &HealthHandler{mode: mode, db: db, session: session}
}

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status   string `json:"status"`
	Backend  string `json:"backend"`
	Database string `json:"database"`
	Session  *bool  `json:"session,omitempty"`
}

// Check answers GET /health. A failed database ping yields 503; a missing
// ERP session does not, since the next call logs in.
func (h *HealthHandler) Check(c *gin.Context) {
	status := HealthStatus{Status: "ok", Backend: h.mode, Database: "up"}
	code := http.StatusOK

	if err := h.db.Ping(); err != nil {
		logger.GetGinLogger(c).Error("Database health check failed", zap.Error(err))
		status.Status = "unavailable"
		status.Database = "down"
		code = http.StatusServiceUnavailable
	}
	if h.session != nil {
		active := h.session.HasSession()
		status.Session = &active
	}
	c.JSON(code, status)
}
