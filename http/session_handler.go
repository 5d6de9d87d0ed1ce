package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/prathibha999-pd/realvalueAI/internal/session"
	"github.com/prathibha999-pd/realvalueAI/internal/store"
)

type SessionDeps struct {
	Manager *session.Manager
	Store   *store.Store // optional; /history serves empty without it
}

type InputRequest struct {
	SquareFootage     *string `json:"square_footage,omitempty"`
	Location          *string `json:"location,omitempty"`
	PropertyType      *string `json:"property_type,omitempty"`
	TransactionStatus *string `json:"transaction_status,omitempty"`
}

func RegisterSessions(r chi.Router, d SessionDeps) {
	r.Post("/sessions", func(w http.ResponseWriter, req *http.Request) {
		s := d.Manager.Create()
		view, err := s.View(req.Context())
		if err != nil {
			writeSessionError(w, req, err)
			return
		}
		render.Status(req, http.StatusCreated)
		render.JSON(w, req, map[string]any{"ok": true, "session_id": s.ID, "state": view})
	})

	r.Route("/sessions/{sessionID}", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			s, ok := lookup(w, req, d)
			if !ok {
				return
			}
			view, err := s.View(req.Context())
			if err != nil {
				writeSessionError(w, req, err)
				return
			}
			render.JSON(w, req, map[string]any{"ok": true, "state": view})
		})

		r.Patch("/input", func(w http.ResponseWriter, req *http.Request) {
			s, ok := lookup(w, req, d)
			if !ok {
				return
			}
			var body InputRequest
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				render.Status(req, http.StatusBadRequest)
				render.JSON(w, req, map[string]any{"error": "invalid_json", "detail": err.Error()})
				return
			}
			view, err := s.ApplyInput(req.Context(), session.InputPatch{
				SquareFootage:     body.SquareFootage,
				Location:          body.Location,
				PropertyType:      body.PropertyType,
				TransactionStatus: body.TransactionStatus,
			})
			if err != nil {
				writeSessionError(w, req, err)
				return
			}
			render.JSON(w, req, map[string]any{"ok": true, "state": view})
		})

		r.Post("/predict", func(w http.ResponseWriter, req *http.Request) {
			s, ok := lookup(w, req, d)
			if !ok {
				return
			}
			view, err := s.Submit(req.Context())
			if err != nil {
				writeSessionError(w, req, err)
				return
			}
			render.JSON(w, req, map[string]any{"ok": true, "state": view})
		})

		r.Post("/image-error", func(w http.ResponseWriter, req *http.Request) {
			s, ok := lookup(w, req, d)
			if !ok {
				return
			}
			view, err := s.ReportImageError(req.Context())
			if err != nil {
				writeSessionError(w, req, err)
				return
			}
			render.JSON(w, req, map[string]any{"ok": true, "state": view})
		})

		r.Get("/history", func(w http.ResponseWriter, req *http.Request) {
			s, ok := lookup(w, req, d)
			if !ok {
				return
			}
			if d.Store == nil {
				render.JSON(w, req, map[string]any{"ok": true, "persistence": false, "history": []any{}})
				return
			}
			records, err := d.Store.FetchSessionPredictions(req.Context(), s.ID, 20)
			if err != nil {
				render.Status(req, http.StatusInternalServerError)
				render.JSON(w, req, map[string]any{"error": "history_error", "detail": err.Error()})
				return
			}
			if records == nil {
				records = []store.PredictionRecord{}
			}
			render.JSON(w, req, map[string]any{"ok": true, "persistence": true, "history": records})
		})
	})
}

func lookup(w http.ResponseWriter, req *http.Request, d SessionDeps) (*session.Session, bool) {
	id := chi.URLParam(req, "sessionID")
	s, ok := d.Manager.Get(id)
	if !ok {
		render.Status(req, http.StatusNotFound)
		render.JSON(w, req, map[string]any{"error": "session_not_found"})
		return nil, false
	}
	return s, true
}

func writeSessionError(w http.ResponseWriter, req *http.Request, err error) {
	if errors.Is(err, session.ErrSessionClosed) {
		render.Status(req, http.StatusGone)
		render.JSON(w, req, map[string]any{"error": "session_expired"})
		return
	}
	render.Status(req, http.StatusInternalServerError)
	render.JSON(w, req, map[string]any{"error": "session_error", "detail": err.Error()})
}
