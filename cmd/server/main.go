package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	router "github.com/dkeye/mirror/internal/adapters/http"
	"github.com/dkeye/mirror/internal/adapters/kurento"
	"github.com/dkeye/mirror/internal/adapters/rtc"
	wsignal "github.com/dkeye/mirror/internal/adapters/signal"
	"github.com/dkeye/mirror/internal/app"
	"github.com/dkeye/mirror/internal/config"
	"github.com/dkeye/mirror/internal/core"
)

const shutdownTimeout = 5 * time.Second

func newEngine(cfg *config.Config) (core.MediaEngine, error) {
	var engine core.MediaEngine
	switch cfg.Media.Driver {
	case config.DriverLoopback:
		e, err := rtc.NewEngine(cfg.Loopback)
		if err != nil {
			return nil, fmt.Errorf("loopback engine: %w", err)
		}
		engine = e
	default:
		engine = kurento.NewEngine(cfg.Kurento)
	}
	return app.Limit(engine, cfg.Media.MaxSessions), nil
}

func main() {
	configPath := pflag.StringP("config", "c", "", "config file (default config/config.$CONFIG_ENV.yaml)")
	pflag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	} else {
		log.Warn().Str("log_level", cfg.LogLevel).Msg("unknown log level, keeping info")
	}
	if cfg.Mode == "release" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	engine, err := newEngine(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create media engine")
	}

	reg := app.NewRegistry()
	ctl := wsignal.NewSignalWSController(cfg.WS)
	dispatcher := app.NewDispatcher(reg, engine, ctl, cfg.Overlay)
	dispatcher.StartTimeout = cfg.Media.StartTimeout
	ctl.Handler = dispatcher

	r := router.SetupRouter(ctx, cfg, ctl, reg)
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", addr).Str("driver", cfg.Media.Driver).Msg("Magic mirror server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen %s: %w", addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server forced to shutdown")
		}
		// closing sockets releases every live session through the dispatcher
		if err := ctl.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("signaling shutdown timed out")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server error")
		os.Exit(1)
	}
	log.Info().Int("sessions_left", reg.Len()).Msg("Server exited gracefully")
}
