package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

var errorMessages = map[string]string{
	"invalid_request":     "Request body is invalid",
	"missing_fields":      "Required fields are missing",
	"invalid_id":          "Identifier must be a positive integer",
	"invalid_rating":      "Rating must be between 1 and 5",
	"invalid_status":      "Status must be pending or completed",
	"invalid_reference":   "Referenced record does not exist",
	"password_too_long":   "Password must be at most 72 bytes",
	"already_exists":      "Username already exists",
	"invalid_credentials": "Invalid username or password",
	"missing_token":       "Authorization token is required",
	"invalid_token":       "Invalid or expired token",
	"forbidden":           "You do not have permission to perform this action",
	"not_found":           "Resource not found",
	"course_code_exists":  "Course code already exists",
	"server_error":        "Internal server error",
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func decodeJSON(r *http.Request, out interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, errorResponse{Error: code, Message: errorMessages[code]})
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func queryID(r *http.Request, name string) (*int64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, false
	}
	return &id, true
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.UTC().Format(time.RFC3339)
}
