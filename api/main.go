package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Agrayne/Ranobot/api/adapters/events"
	"github.com/Agrayne/Ranobot/api/adapters/metrics"
	"github.com/Agrayne/Ranobot/api/adapters/ranobedb"
	"github.com/Agrayne/Ranobot/api/adapters/rest"
	"github.com/Agrayne/Ranobot/api/adapters/rest/middleware"
	"github.com/Agrayne/Ranobot/api/config"
	"github.com/Agrayne/Ranobot/api/core"
)

type publisher interface {
	core.EventPublisher
	Close() error
}

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "server configuration file")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	log := mustMakeLogger(cfg.LogLevel)
	log.Info("starting api server")
	log.Debug("debug messages are enabled")

	catalog, err := ranobedb.NewClient(cfg.Catalog.URL, cfg.Catalog.Timeout, cfg.Catalog.RPS, log)
	if err != nil {
		log.Error("cannot init catalog adapter", "error", err)
		return err
	}

	var pub publisher = events.Noop{}
	if cfg.NatsAddress != "" {
		nats, err := events.NewNatsPublisher(cfg.NatsAddress, log)
		if err != nil {
			log.Error("cannot connect to broker", "address", cfg.NatsAddress, "error", err)
			return err
		}
		pub = nats
	}
	defer func() {
		if err := pub.Close(); err != nil {
			log.Error("cannot close publisher", "error", err)
		}
	}()

	m := metrics.New()

	svc, err := core.NewService(log, catalog, pub, m, cfg.Catalog.ImagesURL, cfg.Search.Concurrency)
	if err != nil {
		log.Error("cannot init search service", "error", err)
		return err
	}

	limit := func(route string, h http.HandlerFunc) http.HandlerFunc {
		h = middleware.Concurrency(log, h, cfg.APIConcurrency)
		h = middleware.Rate(log, h, cfg.APIRate)
		return m.Instrument(route, h)
	}

	mux := http.NewServeMux()
	mux.Handle("GET /api/search", limit("search", rest.NewSearchHandler(log, svc, cfg.Search.Timeout)))
	mux.Handle("GET /api/series/{id}", limit("series", rest.NewSeriesHandler(log, svc, cfg.Search.Timeout)))
	mux.Handle("GET /ping", m.Instrument("ping", rest.NewPingHandler(log, map[string]core.Pinger{"catalog": catalog})))
	mux.Handle("GET /metrics", m.Handler())

	server := &http.Server{
		Addr:              cfg.HTTPServer.Address,
		Handler:           middleware.RequestID(mux),
		ReadTimeout:       cfg.HTTPServer.Timeout,
		ReadHeaderTimeout: cfg.HTTPServer.Timeout,
		WriteTimeout:      cfg.HTTPServer.Timeout,
		IdleTimeout:       2 * cfg.HTTPServer.Timeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		log.Debug("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("erroneous shutdown", "error", err)
		}
	}()

	log.Info("listening", "address", cfg.HTTPServer.Address)
	if err := server.ListenAndServe(); err != nil {
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error("server closed unexpectedly", "error", err)
			return err
		}
	}
	return nil
}

func mustMakeLogger(level string) *slog.Logger {
	var slogLevel slog.Level
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		slogLevel = slog.LevelDebug
	case "INFO":
		slogLevel = slog.LevelInfo
	case "WARN", "WARNING":
		slogLevel = slog.LevelWarn
	case "ERROR":
		slogLevel = slog.LevelError
	default:
		panic("unknown log level: " + level)
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level:     slogLevel,
		AddSource: false,
	}))
}
