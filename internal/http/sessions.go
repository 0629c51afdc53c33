package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/fairyhunter13/slope-calculator/internal/model"
	"github.com/fairyhunter13/slope-calculator/internal/obs"
	"github.com/fairyhunter13/slope-calculator/internal/session"
)

const sessionsPath = "/api/v1/sessions"

func (a *App) sessionView(ss session.Session) model.View {
	v := a.compute(ss.Inputs)
	v.SessionID = ss.ID
	v.Sequence = ss.LastSequence
	return v
}

// createSessionHandler starts a form session. An optional JSON body seeds
// some of the inputs; the rest come from the defaults.
func (a *App) createSessionHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	if a.closing.Load() {
		WriteJSONError(w, http.StatusServiceUnavailable, "shutting_down", "")
		return
	}
	var patch model.InputsPatch
	if r.ContentLength != 0 {
		if !isJSON(r) {
			WriteJSONError(w, http.StatusUnsupportedMediaType, "unsupported_media_type", "expected application/json")
			return
		}
		if err := decodeJSON(r, &patch); err != nil {
			WriteJSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
			return
		}
	}
	ss := a.Sessions.Create(patch.Apply(a.Defaults()))
	w.Header().Set("Location", sessionsPath+"/"+ss.ID)
	writeJSON(w, http.StatusCreated, a.sessionView(ss))
	obs.Logger.Info("session_created",
		"request_id", RequestIDFromContext(r.Context()),
		"session_id", ss.ID,
	)
}

// sessionHandler serves /api/v1/sessions/{id} and /api/v1/sessions/{id}/events.
func (a *App) sessionHandler(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, sessionsPath+"/")
	id, sub, _ := strings.Cut(rest, "/")
	if id == "" {
		a.createSessionHandler(w, r)
		return
	}
	switch sub {
	case "":
		a.sessionResource(w, r, id)
	case "events":
		a.sessionEventsHandler(w, r, id)
	default:
		WriteJSONError(w, http.StatusNotFound, "not_found", "")
	}
}

func (a *App) sessionResource(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		ss, ok := a.Sessions.Get(id)
		if !ok {
			WriteJSONError(w, http.StatusNotFound, "not_found", "session not found")
			return
		}
		writeJSON(w, http.StatusOK, a.sessionView(ss))
	case http.MethodDelete:
		a.Sessions.Delete(id)
		w.WriteHeader(http.StatusNoContent)
		obs.Logger.Info("session_deleted", "request_id", RequestIDFromContext(r.Context()), "session_id", id)
	default:
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
	}
}

// sessionEventsHandler applies one input-changed event and returns the
// recomputed view.
func (a *App) sessionEventsHandler(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	if !isJSON(r) {
		WriteJSONError(w, http.StatusUnsupportedMediaType, "unsupported_media_type", "expected application/json")
		return
	}
	var ev session.Event
	if err := decodeJSON(r, &ev); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if ev.Field == "" {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "field is required")
		return
	}
	ss, applied, err := a.Sessions.Apply(id, ev)
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		WriteJSONError(w, http.StatusNotFound, "not_found", "session not found")
		return
	case errors.Is(err, session.ErrUnknownField), errors.Is(err, session.ErrInvalidValue):
		WriteJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	case err != nil:
		WriteJSONError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	sessionEvents.Add(1)
	if !applied {
		staleEvents.Add(1)
	}
	v := a.sessionView(ss)
	writeJSON(w, http.StatusOK, v)
	obs.Logger.Info("session_event",
		"request_id", RequestIDFromContext(r.Context()),
		"session_id", id,
		"field", ev.Field,
		"sequence", ss.LastSequence,
		"applied", applied,
		"status", v.Result.Status,
	)
}
