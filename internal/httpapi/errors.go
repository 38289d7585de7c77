package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/rideright/storefront/pkg/logger"
)

// ErrorCategory classifies API errors so clients can route handling
// without parsing messages.
type ErrorCategory string

const (
	CategoryInputError   ErrorCategory = "INPUT_ERROR"
	CategoryNotFound     ErrorCategory = "NOT_FOUND"
	CategoryRateLimit    ErrorCategory = "RATE_LIMIT"
	CategoryAuthError    ErrorCategory = "AUTH_ERROR"
	CategoryServiceError ErrorCategory = "SERVICE_ERROR"
)

// APIError is the structured error carried in failed responses.
type APIError struct {
	Code     string            `json:"code"`
	Message  string            `json:"message"`
	Category ErrorCategory     `json:"category"`
	Details  map[string]string `json:"details,omitempty"`
}

// Response is the envelope for every JSON endpoint.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// httpStatusForCategory maps error categories to status codes.
func httpStatusForCategory(category ErrorCategory) int {
	switch category {
	case CategoryInputError:
		return http.StatusBadRequest
	case CategoryNotFound:
		return http.StatusNotFound
	case CategoryAuthError:
		return http.StatusUnauthorized
	case CategoryRateLimit:
		return http.StatusTooManyRequests
	case CategoryServiceError:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, Response{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, log logger.Logger, apiErr *APIError) {
	if log != nil {
		log.Warn("Request failed", map[string]interface{}{
			"operation": "api_error",
			"code":      apiErr.Code,
			"category":  string(apiErr.Category),
			"message":   apiErr.Message,
		})
	}
	writeJSON(w, httpStatusForCategory(apiErr.Category), Response{Success: false, Error: apiErr})
}
