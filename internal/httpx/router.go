package httpx

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AngelCh415/voyage-analytics/internal/analytics"
	"github.com/AngelCh415/voyage-analytics/internal/models"
	"github.com/AngelCh415/voyage-analytics/internal/utils"
)

const maxDays = 90

// Analytics is what the router needs from analytics.Service.
type Analytics interface {
	Summary(ctx context.Context) models.Summary
	Series(ctx context.Context, metric models.Metric, days int) models.Series
	Dashboard(ctx context.Context, days int) models.Dashboard
}

var _ Analytics = (*analytics.Service)(nil)

func NewRouter(log *slog.Logger, svc Analytics) http.Handler {
	mux := chi.NewRouter()
	mux.Use(utils.RequestID)
	mux.Use(utils.Logger(log))
	mux.Use(middleware.Recoverer)

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	mux.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ready")) })
	mux.Handle("/metrics", promhttp.Handler())

	mux.Route("/analytics", func(r chi.Router) {
		r.Get("/summary", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, svc.Summary(r.Context()))
		})

		r.Get("/series", func(w http.ResponseWriter, r *http.Request) {
			metric := models.MetricCount
			if q := r.URL.Query().Get("metric"); q != "" {
				m, ok := models.ParseMetric(q)
				if !ok {
					writeError(w, http.StatusBadRequest, "metric must be count or revenue")
					return
				}
				metric = m
			}
			days, ok := parseDays(r.URL.Query().Get("days"))
			if !ok {
				writeError(w, http.StatusBadRequest, "days must be between 1 and "+strconv.Itoa(maxDays))
				return
			}
			writeJSON(w, http.StatusOK, svc.Series(r.Context(), metric, days))
		})

		r.Get("/dashboard", func(w http.ResponseWriter, r *http.Request) {
			days, ok := parseDays(r.URL.Query().Get("days"))
			if !ok {
				writeError(w, http.StatusBadRequest, "days must be between 1 and "+strconv.Itoa(maxDays))
				return
			}
			writeJSON(w, http.StatusOK, svc.Dashboard(r.Context(), days))
		})
	})

	return mux
}

func parseDays(q string) (int, bool) {
	if q == "" {
		return analytics.DefaultDays, true
	}
	n, err := strconv.Atoi(q)
	if err != nil || n < 1 || n > maxDays {
		return 0, false
	}
	return n, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
