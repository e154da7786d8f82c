package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"mopra/internal/manager"
	"mopra/internal/remote"
	"mopra/pkg/types"
)

// now stamps every JSON response.
var now = func() time.Time { return time.Now().UTC() }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, types.ErrorResponse{Error: msg, Code: status, Timestamp: now()})
}

// runStatusCode maps a failed run to its HTTP status.
func runStatusCode(res manager.Result) int {
	switch {
	case manager.IsTooBusy(res.Err):
		return http.StatusTooManyRequests
	case manager.IsModelNotFound(res.Err):
		return http.StatusNotFound
	case res.Status == manager.StatusTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeRunError(w http.ResponseWriter, status int, res manager.Result) {
	writeJSON(w, status, types.ErrorResponse{
		Error:     res.Error,
		Code:      status,
		Status:    string(res.Status),
		Timestamp: now(),
	})
}

// remoteStatusCode maps a provider error to its HTTP status.
func remoteStatusCode(err error) int {
	switch {
	case remote.IsUnsupported(err):
		return http.StatusBadRequest
	case remote.IsRateLimited(err):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
