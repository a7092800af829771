package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/haasonsaas/scout/pkg/quota"
	"github.com/haasonsaas/scout/pkg/recommend"
	"github.com/haasonsaas/scout/pkg/telemetry"
	"github.com/rs/zerolog"
)

var Version = "dev"

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "scout-server").Logger()

	cfg, err := loadServerConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid configuration")
	}
	logger.Info().Str("version", Version).Str("listen", cfg.Listen).Msg("Scout server starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, err := telemetry.Setup(ctx, telemetry.Config{
		ServiceName:    "scout-server",
		ServiceVersion: Version,
		Endpoint:       cfg.TracingEndpoint,
		Insecure:       cfg.TracingInsecure,
		SampleRatio:    cfg.SampleRatio,
		LogSpans:       cfg.LogSpans,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to configure tracing")
	}

	gate := NewAdmissionGate(quota.Config{
		MaxRequests: cfg.MaxRequests,
		Window:      cfg.Window,
		StorageKey:  "scout_search_quota",
	}, nil)

	srv := &Server{
		cfg:  cfg,
		gate: gate,
		upstream: recommend.NewClient(cfg.UpstreamURL, recommend.Options{
			Timeout:           cfg.UpstreamTimeout,
			MaxRetries:        cfg.UpstreamRetries,
			RequestsPerSecond: cfg.UpstreamRPS,
			Logger:            logger.With().Str("component", "upstream").Logger(),
		}),
		logger: logger,
		clock:  time.Now,
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), withRequestContext(logger))
	srv.registerRoutes(r)

	httpSrv := &http.Server{Addr: cfg.Listen, Handler: r}

	go gate.Run(ctx)
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()
	logger.Info().Str("upstream", cfg.UpstreamURL).Int("max_requests", cfg.MaxRequests).Dur("window", cfg.Window).Msg("Listening")

	<-ctx.Done()
	logger.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP shutdown failed")
	}
	if err := provider.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Tracer shutdown failed")
	}
}
