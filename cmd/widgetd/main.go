package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jask/widgetd/internal/config"
	"github.com/jask/widgetd/internal/httpapi"
	"github.com/jask/widgetd/internal/logutil"
	"github.com/jask/widgetd/internal/seed"
	"github.com/jask/widgetd/internal/service"
	"github.com/jask/widgetd/internal/spatial"
	"github.com/jask/widgetd/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logutil.New(cfg.Log, os.Stderr)

	st, err := store.Open(cfg.Storage)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer st.Close()

	filter, err := spatial.New(cfg.Filter.Engine)
	if err != nil {
		log.Fatalf("filter: %v", err)
	}

	opts := service.OptionsFromConfig(cfg.Widget)
	opts.Filter = filter
	opts.Logger = logger
	svc := service.NewWidgetService(st, opts)

	if cfg.Seed.Path != "" {
		f, err := seed.Load(cfg.Seed.Path)
		if err != nil {
			log.Fatalf("load seed: %v", err)
		}
		n, err := seed.Apply(ctx, svc, f)
		if err != nil {
			log.Fatalf("apply seed: %v", err)
		}
		logger.Info("seeded widgets", "count", n, "path", cfg.Seed.Path)
	}

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           httpapi.New(svc, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown", "err", err)
		}
	}()

	logger.Info("listening",
		slog.String("addr", cfg.HTTP.Addr),
		slog.String("backend", cfg.Storage.Backend),
		slog.String("filter", cfg.Filter.Engine),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("serve: %v", err)
	}
}
