package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	logger "github.com/sirupsen/logrus"

	"crashreporter/src/auth"
	"crashreporter/src/forward"
	"crashreporter/src/handler"
	"crashreporter/src/repository"
)

// StartServer runs the report ingest service until SIGINT/SIGTERM.
func StartServer(config *Config) {
	repo := repository.NewReportRepository()
	hub := handler.NewStreamHub()

	// A typed nil forwarder would still look non-nil behind the handler's
	// interface, so only hand one over when forwarding is configured.
	var ingest http.HandlerFunc
	if config.ForwardURL != "" {
		ingest = handler.IngestReportHandler(repo, forward.NewForwarder(config.ForwardURL), hub)
	} else {
		ingest = handler.IngestReportHandler(repo, nil, hub)
	}

	// Router with middleware
	r := chi.NewRouter()

	// Public routes
	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.WithError(err).Error("\"/healthcheck\" error")
		}
	})

	// Authenticated report routes
	r.Group(func(r chi.Router) {
		r.Use(auth.TokenMiddleware(config.IngestTokenHash))
		r.Post("/reports", ingest)
		r.Get("/reports", handler.SearchReportsHandler(repo))
		r.Get("/reports/stream", handler.StreamReportsHandler(hub))
	})

	// Graceful server
	addr := ":" + config.Port
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	// Start server in goroutine
	go func() {
		logger.Infof("Listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server crashed")
		}
	}()

	// Shutdown on SIGINT or SIGTERM
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Shutdown error")
	}
}
