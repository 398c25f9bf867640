// Package handler holds the gin handlers of the HTTP API.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/distributor/backend/internal/domain/shared"
	"github.com/distributor/backend/internal/infrastructure/logger"
	"github.com/distributor/backend/internal/interfaces/http/dto"
	"github.com/distributor/backend/internal/interfaces/http/middleware"
)

const internalErrorMessage = "An unexpected error occurred"

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := c.GetString(middleware.RequestIDKey); id != "" {
		return id
	}
	return c.GetHeader(middleware.RequestIDHeader)
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Page sends a page of results with its metadata
func (h *BaseHandler) Page(c *gin.Context, data any, count, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewListResponse(data, count, page, pageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response, deriving the status code from the error code
func (h *BaseHandler) Error(c *gin.Context, code, message string) {
	c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest sends a 400 validation response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, dto.ErrCodeValidation, message)
}

// HandleError converts errors to HTTP responses. Domain errors keep their
// message; upstream and internal ones are logged with their detail. Any
// other error is logged and answered with a generic 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	log := logger.GetGinLogger(c)

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		switch domainErr.Code {
		case shared.CodeUpstreamAuth, shared.CodeUpstreamFailure:
			log.Warn("ERP service error",
				zap.String("code", domainErr.Code),
				zap.String("detail", domainErr.Detail),
				zap.Error(err),
			)
		case shared.CodeInternal:
			log.Error("Internal error", zap.String("detail", domainErr.Detail), zap.Error(err))
			h.Error(c, code, internalErrorMessage)
			return
		}
		h.Error(c, code, domainErr.Message)
		return
	}

	log.Error("Unhandled error", zap.Error(err))
	_ = c.Error(err)
	h.Error(c, dto.ErrCodeInternal, internalErrorMessage)
}
