package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/goliatone/go-bookingform/pkg/form"
	"github.com/goliatone/go-bookingform/pkg/model"
	"github.com/goliatone/go-bookingform/pkg/render"
	"github.com/goliatone/go-bookingform/pkg/validation"
)

// Submission is the JSON body returned for an accepted booking.
type Submission struct {
	Status string       `json:"status"`
	Values model.Values `json:"values"`
}

// Submission statuses.
const (
	SubmissionAccepted   = "accepted"
	SubmissionSubmitting = "submitting"
)

// Problem is the JSON body returned when a submission is refused.
type Problem struct {
	Errors []validation.Issue `json:"errors"`
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	session := s.sessions.Create(s.mount(nil))
	s.writePage(w, r, session, http.StatusOK)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	wantsJSON := isJSON(r.Header.Get("Content-Type"))

	raw, sessionID, err := readSubmission(r)
	if err != nil {
		s.writeBadRequest(w, wantsJSON, err)
		return
	}

	// Without a live session the submission stands alone: fields it omits
	// start empty rather than at their mount defaults.
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		session = s.sessions.Create(s.mount(model.RawValues{}))
	}

	for _, name := range s.registry.Names() {
		value, ok := raw[name]
		if !ok {
			continue
		}
		if err := session.Controller.Change(ctx, name, value); err != nil {
			s.writeBadRequest(w, wantsJSON, err)
			return
		}
	}

	err = session.Controller.Submit(ctx)
	status := submitStatus(err)
	if status == http.StatusBadRequest {
		s.writeBadRequest(w, wantsJSON, err)
		return
	}

	if wantsJSON {
		s.writeSubmissionJSON(w, session, status, err)
		return
	}
	s.writePage(w, r, session, status)
}

func (s *Server) handleOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(s.openapi)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"version":  s.version,
		"sessions": s.sessions.Len(),
	})
}

func (s *Server) writePage(w http.ResponseWriter, r *http.Request, session *Session, status int) {
	out, err := s.render(r.Context(), session, false)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "render page", "session", session.ID, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", s.html.ContentType())
	w.WriteHeader(status)
	_, _ = w.Write(out)
}

func (s *Server) writeSubmissionJSON(w http.ResponseWriter, session *Session, status int, err error) {
	if status != http.StatusOK {
		writeJSON(w, status, Problem{Errors: s.issues(err)})
		return
	}

	values, decodeErr := session.Controller.Values()
	if decodeErr != nil {
		writeJSON(w, http.StatusUnprocessableEntity, Problem{Errors: s.issues(decodeErr)})
		return
	}
	result := SubmissionAccepted
	if session.Controller.State().Submitting {
		result = SubmissionSubmitting
	}
	writeJSON(w, http.StatusOK, Submission{Status: result, Values: values})
}

func (s *Server) writeBadRequest(w http.ResponseWriter, wantsJSON bool, err error) {
	if wantsJSON {
		writeJSON(w, http.StatusBadRequest, Problem{Errors: []validation.Issue{{Message: err.Error()}}})
		return
	}
	http.Error(w, err.Error(), http.StatusBadRequest)
}

func (s *Server) issues(err error) []validation.Issue {
	if result, ok := form.IsValidationError(err); ok {
		return result.Issues(s.registry.Names())
	}
	return []validation.Issue{{Message: err.Error()}}
}

func submitStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, form.ErrSubmitInFlight):
		return http.StatusConflict
	case errors.Is(err, form.ErrUnknownField), errors.Is(err, form.ErrUnknownEvent):
		return http.StatusBadRequest
	}
	if _, ok := form.IsValidationError(err); ok {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// readSubmission accepts url-encoded forms and JSON objects. JSON numbers are
// kept in their literal form so "4" and 4 reach validation identically.
func readSubmission(r *http.Request) (model.RawValues, string, error) {
	raw := make(model.RawValues)

	if isJSON(r.Header.Get("Content-Type")) {
		var body map[string]any
		decoder := json.NewDecoder(r.Body)
		decoder.UseNumber()
		if err := decoder.Decode(&body); err != nil {
			return nil, "", fmt.Errorf("decode json body: %w", err)
		}
		for key, value := range body {
			switch v := value.(type) {
			case nil:
				raw[key] = ""
			case string:
				raw[key] = v
			case json.Number:
				raw[key] = v.String()
			case bool:
				raw[key] = fmt.Sprint(v)
			default:
				return nil, "", fmt.Errorf("field %q: unsupported json value", key)
			}
		}
		session := raw[render.SessionFieldName]
		delete(raw, render.SessionFieldName)
		return raw, session, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, "", fmt.Errorf("parse form: %w", err)
	}
	for key := range r.PostForm {
		if key == render.SessionFieldName {
			continue
		}
		raw[key] = r.PostForm.Get(key)
	}
	return raw, r.PostForm.Get(render.SessionFieldName), nil
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
