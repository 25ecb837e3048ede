package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Agrayne/Ranobot/telegramBot/adapters/rest"
	"github.com/Agrayne/Ranobot/telegramBot/adapters/tg"
	"github.com/Agrayne/Ranobot/telegramBot/config"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg := config.MustLoad()

	log := mustMakeLogger(cfg.LogLevel)

	log.Info("starting telegram bot", "api", cfg.APIBaseURL)

	apiClient := rest.NewClient(cfg.APIBaseURL, cfg.RequestTimeout, log)

	bot, err := tg.NewBot(cfg.TelegramToken, apiClient, cfg.RequestTimeout, cfg.Debug, log)
	if err != nil {
		log.Error("cannot create telegram bot", "error", err)
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.Info("telegram bot started")
	if err := bot.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("bot stopped with error", "error", err)
		return err
	}
	log.Info("telegram bot stopped")

	return nil
}

func mustMakeLogger(logLevel string) *slog.Logger {
	var level slog.Level
	switch strings.ToUpper(logLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		panic("unknown log level: " + logLevel)
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level, AddSource: true})
	return slog.New(handler)
}
