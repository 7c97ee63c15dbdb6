package server

import (
	"context"
	"net/http"

	"foodprint/internal/handlers"
	applog "foodprint/internal/log"
)

func newRouter() http.Handler {
	mux := http.NewServeMux()
	applog.Debug(context.Background(), "registering http routes")
	mux.HandleFunc("/healthz", handlers.Health)
	mux.HandleFunc("/api/donations", handlers.DonationResource)
	mux.HandleFunc("/api/donations/", handlers.DonationResource)
	mux.HandleFunc("/api/footprint/recompute", handlers.RecomputeFootprints)
	return mux
}
