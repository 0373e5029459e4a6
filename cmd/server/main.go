package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/jaminalder/moving-tic-tac-toe/internal/app"
	"github.com/jaminalder/moving-tic-tac-toe/internal/config"
	"github.com/jaminalder/moving-tic-tac-toe/internal/logger"
	"github.com/jaminalder/moving-tic-tac-toe/internal/metrics"
	"github.com/jaminalder/moving-tic-tac-toe/internal/web"
)

func main() {
	cfg := config.Load()
	addr := flag.String("addr", cfg.Addr, "Address to serve the game on")
	logLevel := flag.String("log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flag.Parse()

	log, err := logger.New(*logLevel, cfg.LogJSON)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to build logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	svc := app.NewService(
		app.WithLogger(log.Named("app")),
		app.WithMetrics(metrics.New(reg)),
	)
	defer svc.Close()

	srv := &http.Server{
		Addr:              *addr,
		Handler:           web.NewServer(svc, reg, log.Named("web")),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server started", zap.String("addr", *addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	log.Info("server exited")
}
