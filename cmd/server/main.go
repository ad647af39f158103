package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/communityforge/ingest/internal/config"
	"github.com/communityforge/ingest/internal/pipeline"
	"github.com/communityforge/ingest/internal/scheduler"
	"github.com/communityforge/ingest/internal/scraper"
	"github.com/communityforge/ingest/internal/storage"
)

type Server struct {
	scheduler *scheduler.Scheduler
	store     *storage.Client
}

func main() {
	slog.Info("Starting community content ingestion server...")

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Critical error loading configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	store, err := storage.New(ctx, cfg.ProjectID)
	if err != nil {
		slog.Error("Critical error initializing Firestore client", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	selectors := scraper.LoadConfig()
	scrapers := scraper.NewAll(cfg, selectors)
	orchestrator := pipeline.New(scrapers, store, store, cfg.DefaultMaxPosts)

	sched := scheduler.New(orchestrator, store, cfg.CronSpec)
	if err := sched.Start(); err != nil {
		slog.Error("Critical error starting scheduler", "error", err, "schedule", cfg.CronSpec)
		os.Exit(1)
	}
	defer sched.Stop()

	srv := &Server{scheduler: sched, store: store}

	mux := http.NewServeMux()
	mux.HandleFunc("/run", srv.RunCommunityHandler)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, `{"status":"ok"}`)
	})

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGTERM/SIGINT
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
		sig := <-sigCh
		slog.Info("Received signal, shutting down gracefully...", "signal", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("HTTP server shutdown error", "error", err)
		}
	}()

	slog.Info("Listening on port", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("Failed to listen and serve", "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped.")
}

// RunCommunityHandler triggers one community's scrape run out of cadence.
// The run happens asynchronously so the response isn't held open across
// scraping and persistence.
func (s *Server) RunCommunityHandler(w http.ResponseWriter, r *http.Request) {
	communityID := r.URL.Query().Get("community")
	if communityID == "" {
		http.Error(w, "missing community query parameter", http.StatusBadRequest)
		return
	}

	community, err := s.store.GetCommunityByID(r.Context(), communityID)
	if err != nil {
		slog.Error("Failed to load community", "community", communityID, "error", err)
		http.Error(w, "failed to load community", http.StatusInternalServerError)
		return
	}
	if community == nil || !community.IsActive {
		http.Error(w, "community not found or inactive", http.StatusNotFound)
		return
	}

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("Panic in manual community run", "community", communityID, "panic", rec)
			}
		}()
		if _, started := s.scheduler.RunCommunity(context.Background(), community); !started {
			slog.Info("Manual trigger skipped, run already in progress", "community", communityID)
		}
	}()

	w.WriteHeader(http.StatusAccepted)
	fmt.Fprintln(w, "Scrape run started.")
}
