package app

import (
	"context"
	"net/http"
	"time"

	"github.com/Whitenz/next-train-telegram-bot/internal/metrics"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// newHTTPHandler serves liveness, readiness and Prometheus metrics.
func newHTTPHandler(db pinger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/metrics", metrics.Handler())
	return mux
}
