package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"JokeBot/internal/app"
	"JokeBot/internal/config"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(2)
	}

	// создаём регистратор zap
	logger, err := app.NewLogger(cfg.DebugMode)
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	//сброс буфера логгера
	defer func() {
		_ = logger.Sync()
	}()

	sugar.Infow(
		"Starting app",
		"DebugMode", cfg.DebugMode,
		"Model", cfg.DefaultModel,
		"Style", cfg.DefaultStyle,
		"Language", cfg.DefaultLanguage,
	)

	a, err := app.New(cfg, sugar)
	if err != nil {
		sugar.Errorw("failed to init app", "error", err)
		return
	}

	// Graceful shutdown по Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Run(ctx); err != nil {
		sugar.Errorw("app stopped with error", "error", err)
		return
	}
	sugar.Infow("app stopped")
}
