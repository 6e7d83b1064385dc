package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// ErrorResponse is the wire shape for every failure response.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// RespondWithError sends an error response with a message only
func RespondWithError(w http.ResponseWriter, statusCode int, message string) {
	RespondWithJSON(w, statusCode, ErrorResponse{Message: message})
}

// RespondWithErrorCause sends an error response carrying the underlying
// error text alongside the message
func RespondWithErrorCause(w http.ResponseWriter, statusCode int, message string, err error) {
	response := ErrorResponse{Message: message}
	if err != nil {
		response.Error = err.Error()
	}
	RespondWithJSON(w, statusCode, response)
}

// RespondWithValidationErrors sends a 400 listing the failed fields
func RespondWithValidationErrors(w http.ResponseWriter, errors []ValidationError) {
	parts := make([]string, 0, len(errors))
	for _, e := range errors {
		parts = append(parts, e.Field+": "+e.Message)
	}

	RespondWithJSON(w, http.StatusBadRequest, ErrorResponse{
		Message: "validation failed",
		Error:   strings.Join(parts, "; "),
	})
}

// RespondWithJSON sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

// ErrorHandlingMiddleware catches panics and converts them to 500 errors
func ErrorHandlingMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("Panic recovered",
						zap.Any("error", err),
						zap.String("path", r.URL.Path),
						zap.String("method", r.Method),
					)

					RespondWithError(w, http.StatusInternalServerError, "internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
