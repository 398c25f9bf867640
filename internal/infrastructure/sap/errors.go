package sap

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/distributor/backend/internal/domain/shared"
)

// ErrResponseTooLarge is returned when a response exceeds maxResponseSize.
var ErrResponseTooLarge = errors.New("sap: response exceeds size limit")

// UpstreamError is a non-2xx answer from the Service Layer.
type UpstreamError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
	// Message is the nested error message when the body could be unwrapped,
	// the raw body otherwise.
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("sap: %s %s returned %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

func newUpstreamError(method, path string, status int, body []byte) *UpstreamError {
	return &UpstreamError{
		Method:     method,
		Path:       path,
		StatusCode: status,
		Body:       string(body),
		Message:    ExtractMessage(body),
	}
}

// AuthError is returned when the Service Layer rejects the login. Body is
// the upstream response, verbatim.
type AuthError struct {
	StatusCode int
	Body       string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("sap: login failed with status %d: %s", e.StatusCode, e.Body)
}

// ExtractMessage unwraps {"error":{"message":{"value":"..."}}} (or a plain
// string message) and falls back to the trimmed body.
func ExtractMessage(body []byte) string {
	var env struct {
		Error struct {
			Message json.RawMessage `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &env); err == nil && len(env.Error.Message) > 0 {
		var nested struct {
			Value string `json:"value"`
		}
		if json.Unmarshal(env.Error.Message, &nested) == nil && nested.Value != "" {
			return nested.Value
		}
		var plain string
		if json.Unmarshal(env.Error.Message, &plain) == nil && plain != "" {
			return plain
		}
	}
	return strings.TrimSpace(string(body))
}

// TranslateError maps client errors onto the shared error taxonomy. entity
// and key only feed the not-found message.
func TranslateError(err error, entity, key string) error {
	if err == nil {
		return nil
	}

	var authErr *AuthError
	if errors.As(err, &authErr) {
		return shared.NewDomainError(shared.CodeUpstreamAuth,
			"Unable to authenticate with the ERP service: "+authErr.Body).WithCause(err, authErr.Body)
	}

	var upErr *UpstreamError
	if !errors.As(err, &upErr) {
		return shared.ErrUpstreamFailure.WithCause(err, err.Error())
	}

	switch upErr.StatusCode {
	case http.StatusNotFound:
		return shared.NewNotFoundError(entity, key).WithCause(err, upErr.Body)
	case http.StatusUnauthorized, http.StatusForbidden:
		return shared.ErrUpstreamAuth.WithCause(err, upErr.Body)
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		return shared.NewConflictError(upErr.Message).WithCause(err, upErr.Body)
	default:
		return shared.NewDomainError(shared.CodeUpstreamFailure,
			"ERP service error: "+upErr.Message).WithCause(err, upErr.Body)
	}
}
