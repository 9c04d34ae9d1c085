package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// sourceError is implemented by errors that know which catalog source failed.
type sourceError interface {
	error
	SourceName() string
}

// RespondJSON writes a JSON response with the given status code and data.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zap.L().Warn("Failed to encode JSON response", zap.Error(err))
	}
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`

	// Source names the catalog source when the catalog could not be loaded.
	Source string `json:"source,omitempty"`
}

// RespondError writes an error response with the given status code and error message.
func RespondError(w http.ResponseWriter, status int, err error) {
	RespondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: err.Error(),
	})
}

// RespondUnavailable answers 503 for a catalog that could not be loaded, so
// the viewer shows the failure state instead of an empty registry.
func RespondUnavailable(w http.ResponseWriter, err error) {
	response := ErrorResponse{
		Error:   http.StatusText(http.StatusServiceUnavailable),
		Message: err.Error(),
	}
	var se sourceError
	if errors.As(err, &se) {
		response.Source = se.SourceName()
	}
	RespondJSON(w, http.StatusServiceUnavailable, response)
}
