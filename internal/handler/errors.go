package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/packlist/internal/domain"
)

// errorBody is the JSON error shape of the export endpoints.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel error.
// e.g. "service.ChecklistService.AddItem: validation error: item title is required"
// becomes "item title is required".
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, sentinel := range []error{domain.ErrValidation, domain.ErrNotFound} {
		marker := sentinel.Error() + ": "
		if i := strings.LastIndex(msg, marker); i >= 0 {
			return msg[i+len(marker):]
		}
	}
	return msg
}

// notice turns a service error into the message shown on the edit view.
func notice(err error) string {
	switch {
	case errors.Is(err, domain.ErrValidation):
		m := unwrapMessage(err)
		if m == "" {
			return "Invalid input."
		}
		return strings.ToUpper(m[:1]) + m[1:] + "."
	case errors.Is(err, domain.ErrNotFound):
		return "Not found."
	default:
		return "Something went wrong."
	}
}

// checklistID parses the {id} URL parameter. An unparseable ID is treated
// like a missing checklist.
func checklistID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	return id, err == nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		s.log.Error("json encode failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// writeJSONError maps err to a status and a JSON error body.
func (s *Server) writeJSONError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		s.writeJSON(w, http.StatusNotFound, errorBody{errorDetail{Code: "not_found", Message: "checklist not found"}})
	case errors.Is(err, domain.ErrValidation):
		s.writeJSON(w, http.StatusUnprocessableEntity, errorBody{errorDetail{Code: "validation_error", Message: unwrapMessage(err)}})
	default:
		s.log.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		s.writeJSON(w, http.StatusInternalServerError, errorBody{errorDetail{Code: "internal", Message: "internal error"}})
	}
}

// writePageError renders the not-found page or a plain 500.
func (s *Server) writePageError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		s.notFound(w, r)
		return
	}
	s.log.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusNotFound, "404", nil)
}
