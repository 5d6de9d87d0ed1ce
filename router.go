package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-chi/render"

	httpapi "github.com/prathibha999-pd/realvalueAI/http"
	"github.com/prathibha999-pd/realvalueAI/internal/session"
	"github.com/prathibha999-pd/realvalueAI/internal/store"
	"github.com/prathibha999-pd/realvalueAI/valuation"
)

func BuildRouter(manager *session.Manager, backend *valuation.Client, st *store.Store) http.Handler {
	r := chi.NewRouter()
	r.Use(httprate.LimitByIP(120, 1*time.Minute)) // protect the model backend
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`{"ok":true}`)) })

	httpapi.RegisterSessions(r, httpapi.SessionDeps{Manager: manager, Store: st})
	httpapi.RegisterModelMetrics(r, httpapi.MetricsDeps{Backend: backend})

	return r
}
