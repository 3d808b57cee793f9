// Package httputil writes the JSON error bodies of the customers API and parses its query
// parameters.
package httputil

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/fieldcrypt/internal/errors"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// errorMapping ties a domain error kind to its response. An empty message echoes the error
// text, which is only done for kinds whose text is meant for the caller.
type errorMapping struct {
	kind    error
	status  int
	code    string
	message string
}

// errorMappings is checked in order; the first kind found in the error chain wins.
var errorMappings = []errorMapping{
	{apperrors.ErrNotFound, http.StatusNotFound, "not_found", "The requested resource was not found"},
	{apperrors.ErrConflict, http.StatusConflict, "conflict", "A conflict occurred with existing data"},
	{apperrors.ErrInvalidInput, http.StatusUnprocessableEntity, "invalid_input", ""},
	{
		apperrors.ErrSerialization,
		http.StatusUnprocessableEntity,
		"invalid_value",
		"The value could not be encoded for storage",
	},
	// keyset and master key details stay in the logs
	{apperrors.ErrConfiguration, http.StatusInternalServerError, "configuration_error", "An internal error occurred"},
	{
		apperrors.ErrCryptographic,
		http.StatusInternalServerError,
		"integrity_error",
		"Stored data failed an integrity check",
	},
}

var internalError = errorMapping{
	status:  http.StatusInternalServerError,
	code:    "internal_error",
	message: "An internal error occurred",
}

func mappingFor(err error) errorMapping {
	for _, m := range errorMappings {
		if apperrors.Is(err, m.kind) {
			return m
		}
	}
	return internalError
}

// HandleErrorGin writes the response for a domain error. Client errors are logged at warn
// level and server errors at error level, both with the full error chain.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	m := mappingFor(err)
	message := m.message
	if message == "" {
		message = err.Error()
	}
	writeError(c, logger, m.status, m.code, message, err)
}

// HandleBadRequestGin writes a 400 for bodies or parameters that could not be decoded.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	writeError(c, logger, http.StatusBadRequest, "bad_request", err.Error(), err)
}

// HandleValidationErrorGin writes a 422 for requests that decoded but failed validation.
func HandleValidationErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	writeError(c, logger, http.StatusUnprocessableEntity, "validation_error", err.Error(), err)
}

func writeError(c *gin.Context, logger *slog.Logger, status int, code, message string, err error) {
	id := requestid.Get(c)

	if logger != nil {
		level := slog.LevelWarn
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.LogAttrs(c.Request.Context(), level, "request failed",
			slog.Int("status_code", status),
			slog.String("error_code", code),
			slog.String("request_id", id),
			slog.Any("error", err),
		)
	}

	c.JSON(status, ErrorResponse{Error: code, Message: message, RequestID: id})
}
