package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/prathibha999-pd/realvalueAI/valuation"
)

type MetricsDeps struct {
	Backend *valuation.Client
}

// RegisterModelMetrics proxies the backend's per-status evaluation metrics.
func RegisterModelMetrics(r chi.Router, d MetricsDeps) {
	r.Get("/model-metrics", func(w http.ResponseWriter, req *http.Request) {
		raw, err := d.Backend.ModelMetrics(req.Context())
		if err != nil {
			render.Status(req, http.StatusBadGateway)
			render.JSON(w, req, map[string]any{"error": "upstream_error", "detail": err.Error()})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(raw)
	})
}
