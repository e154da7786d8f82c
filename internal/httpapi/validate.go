package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// requiredMessages are the client-facing messages for missing fields.
var requiredMessages = map[string]string{
	"Prompt":       "No prompt provided",
	"CurrentModel": "No model specified",
	"Query":        "No query provided",
	"AIPlatform":   "No AI platform specified",
}

// decodeJSON enforces the JSON content type and body limit and decodes the
// body into v. It writes the error response and returns false on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Request must be JSON")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSONError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// validRequest validates v and writes a 400 for the first failing field.
func validRequest(w http.ResponseWriter, v any) bool {
	err := validate.Struct(v)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return false
	}
	fe := verrs[0]
	msg, ok := requiredMessages[fe.Field()]
	if !ok || fe.Tag() != "required" {
		msg = fmt.Sprintf("invalid %s: failed %q", fe.Field(), fe.Tag())
	}
	writeJSONError(w, http.StatusBadRequest, msg)
	return false
}
