package web

// errors.go provides unified error response handling for the web layer.
//
// Handlers call respondError with whatever error they hit; sentinel errors
// from the store and import pipeline are mapped to the right status code and
// a client-safe message, and the technical error is logged server-side with
// the request ID for correlation.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/koshanqari/kanYini-connect-sub000/internal/importer"
	"github.com/koshanqari/kanYini-connect-sub000/internal/logging"
	"github.com/koshanqari/kanYini-connect-sub000/internal/store"
)

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// errBadJSON marks request bodies that failed to decode.
var errBadJSON = errors.New("invalid JSON body")

// respondError logs err and writes the mapped status and client-safe message.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := mapError(err)

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"request_id", middleware.GetReqID(r.Context()),
	)

	writeJSON(w, status, ErrorResponse{Error: msg})
}

// respondErrorMsg writes an explicit status and message, for cases where the
// handler already knows exactly what went wrong.
func respondErrorMsg(w http.ResponseWriter, r *http.Request, status int, msg string) {
	logging.FromContext(r.Context()).Warn("request rejected",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"reason", msg,
	)
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// mapError translates internal errors into a status code and a message safe
// to show clients. Unknown errors become an opaque 500.
func mapError(err error) (int, string) {
	var vErrs validator.ValidationErrors
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, store.ErrDuplicateEmail):
		return http.StatusConflict, store.ErrDuplicateEmail.Error()
	case errors.Is(err, importer.ErrEmptyFile):
		return http.StatusBadRequest, importer.ErrEmptyFile.Error()
	case errors.Is(err, importer.ErrNoDataRows):
		return http.StatusBadRequest, importer.ErrNoDataRows.Error()
	case errors.Is(err, errBadJSON):
		return http.StatusBadRequest, errBadJSON.Error()
	case errors.As(err, &vErrs):
		return http.StatusBadRequest, validationMessage(vErrs)
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

// validationMessage flattens validator errors into one readable line.
func validationMessage(errs validator.ValidationErrors) string {
	if len(errs) == 0 {
		return "invalid request"
	}
	fe := errs[0]
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "min":
		return fe.Field() + " is too short"
	case "max":
		return fe.Field() + " is too long"
	default:
		return fe.Field() + " is invalid"
	}
}

// writeJSON encodes v with the given status. Encoding errors are logged
// since headers are already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err.Error())
	}
}
