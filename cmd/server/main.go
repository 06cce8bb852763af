package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/muresults/gazette"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (JSON or YAML)")
	addr := flag.String("addr", ":8080", "Listen address")
	flag.Parse()

	// Structured JSON logging.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	cfg := gazette.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = gazette.LoadConfig(*configPath)
		if err != nil {
			slog.Error("loading config", "error", err)
			os.Exit(1)
		}
	}

	// Override from environment variables.
	if v := os.Getenv("GAZETTE_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("GAZETTE_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			slog.Error("parsing GAZETTE_WORKERS", "value", v, "error", err)
			os.Exit(1)
		}
		cfg.Workers = n
	}
	if v := os.Getenv("GAZETTE_EXAM_SESSION"); v != "" {
		cfg.ExamSession = v
	}
	if v := os.Getenv("GAZETTE_UNIVERSITY"); v != "" {
		cfg.University = v
	}

	apiKey := os.Getenv("GAZETTE_API_KEY")
	corsOrigins := os.Getenv("GAZETTE_CORS_ORIGINS")

	engine, err := gazette.New(cfg)
	if err != nil {
		slog.Error("creating engine", "error", err)
		os.Exit(1)
	}
	defer engine.Close()

	h := newHandler(engine, cfg)
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", h.handleRoot)
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.Handle("POST /parse", parseLimitMiddleware(maxConcurrentParses, http.HandlerFunc(h.handleParse)))
	mux.HandleFunc("GET /runs", h.handleListRuns)
	mux.HandleFunc("GET /runs/{id}", h.handleGetRun)
	mux.HandleFunc("DELETE /runs/{id}", h.handleDeleteRun)

	// Middleware chain: recovery -> cors -> auth -> logging -> mux
	var handler http.Handler = mux
	handler = logMiddleware(handler)
	handler = authMiddleware(apiKey, handler)
	handler = corsMiddleware(corsOrigins, handler)
	handler = recoveryMiddleware(handler)

	srv := &http.Server{
		Addr:         *addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown on SIGTERM/SIGINT.
	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", *addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-done
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("server stopped")
}
