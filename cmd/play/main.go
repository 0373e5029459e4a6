package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/muesli/termenv"
	"go.uber.org/zap"

	"github.com/jaminalder/moving-tic-tac-toe/internal/app"
	"github.com/jaminalder/moving-tic-tac-toe/internal/config"
	"github.com/jaminalder/moving-tic-tac-toe/internal/logger"
	"github.com/jaminalder/moving-tic-tac-toe/internal/term"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.LogLevel, cfg.LogJSON)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to build logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := app.NewService(app.WithLogger(log.Named("app")))
	defer svc.Close()

	fmt.Println("Type a cell number (0-8), n for a new game, r to reset counts, q to quit.")
	if err := term.Run(ctx, svc, os.Stdin, term.NewRenderer(os.Stdout, termenv.WithColorCache(true))); err != nil {
		log.Error("play stopped", zap.Error(err))
		os.Exit(1)
	}
}
