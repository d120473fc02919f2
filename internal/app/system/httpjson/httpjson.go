// Package httpjson renders JSON responses and the API's error envelope.
//
// Error codes form a closed taxonomy, surfaced distinctly because they
// drive different client behavior:
//   - unauthenticated: no/invalid caller identity
//   - account_blocked: identity resolved but the account is blocked
//   - not_found:       target record does not exist
//   - forbidden:       permission rule denied the action (carries a reason)
//   - conflict:        uniqueness violated (duplicate name/email/member)
//   - bad_request:     malformed input
//   - rate_limited:    too many attempts, retry later
//   - internal:        a storage lookup failed; retryable server-side fault,
//     never conflated with a denial
package httpjson

import (
	"encoding/json"
	"net/http"

	"github.com/cardroomhq/stakehub/internal/app/policy/access"
	"go.uber.org/zap"
)

// Error codes.
const (
	CodeUnauthenticated = "unauthenticated"
	CodeAccountBlocked  = "account_blocked"
	CodeNotFound        = "not_found"
	CodeForbidden       = "forbidden"
	CodeConflict        = "conflict"
	CodeBadRequest      = "bad_request"
	CodeRateLimited     = "rate_limited"
	CodeInternal        = "internal"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

// Write renders v as JSON with the given status.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error renders the error envelope.
func Error(w http.ResponseWriter, status int, code, message string) {
	Write(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message}})
}

// Unauthenticated renders a 401.
func Unauthenticated(w http.ResponseWriter) {
	Error(w, http.StatusUnauthorized, CodeUnauthenticated, "sign in required")
}

// AccountBlocked renders a 403 with the distinct blocked code. Takes
// precedence over any role check upstream.
func AccountBlocked(w http.ResponseWriter) {
	Error(w, http.StatusForbidden, CodeAccountBlocked, "this account is blocked")
}

// NotFound renders a 404.
func NotFound(w http.ResponseWriter, message string) {
	if message == "" {
		message = "not found"
	}
	Error(w, http.StatusNotFound, CodeNotFound, message)
}

// Forbidden renders a 403 with a human-readable reason.
func Forbidden(w http.ResponseWriter, message string) {
	if message == "" {
		message = "forbidden"
	}
	Error(w, http.StatusForbidden, CodeForbidden, message)
}

// BadRequest renders a 400.
func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, CodeBadRequest, message)
}

// TooManyRequests renders a 429.
func TooManyRequests(w http.ResponseWriter, message string) {
	Error(w, http.StatusTooManyRequests, CodeRateLimited, message)
}

// Conflict renders a 409.
func Conflict(w http.ResponseWriter, message string) {
	Error(w, http.StatusConflict, CodeConflict, message)
}

// Internal logs the underlying error and renders an opaque 500. Used for
// lookup/storage failures, which must surface as server faults rather
// than denials.
func Internal(w http.ResponseWriter, logger *zap.Logger, op string, err error) {
	if logger != nil {
		logger.Warn(op, zap.Error(err))
	}
	Error(w, http.StatusInternalServerError, CodeInternal, "a database error occurred")
}

// Denied maps a denying access verdict onto the error envelope:
// not-found denials become 404s, everything else a 403 with the verdict's
// reason.
func Denied(w http.ResponseWriter, v access.Verdict) {
	if v.Reason == access.DenyNotFound {
		NotFound(w, "")
		return
	}
	Forbidden(w, v.Reason.Message())
}
