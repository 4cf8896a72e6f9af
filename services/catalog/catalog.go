// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package catalog provides the film catalog web service as a library.
//
// # Description
//
// The package wires the HTML handlers, middleware, metrics and tracing
// around a catalog store and runs the HTTP server until its context is
// cancelled.
//
// # Usage
//
//	gw, _ := store.Open(store.Config{})
//	svc, err := catalog.New(catalog.Config{Port: 8080, EnableMetrics: true}, gw)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer stop()
//	if err := svc.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/AleutianAI/filmcatalog/services/catalog/handlers"
	"github.com/AleutianAI/filmcatalog/services/catalog/middleware"
	"github.com/AleutianAI/filmcatalog/services/catalog/observability"
	"github.com/AleutianAI/filmcatalog/services/catalog/routes"
	"github.com/AleutianAI/filmcatalog/services/catalog/views"
)

// ServiceName identifies the service in traces.
const ServiceName = "filmcatalog"

// =============================================================================
// Service Interface
// =============================================================================

// Service is the catalog web service.
type Service interface {
	// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
	// Returns nil after a clean shutdown.
	Run(ctx context.Context) error

	// Router returns the configured router, for tests and embedding.
	Router() *gin.Engine
}

// =============================================================================
// Configuration
// =============================================================================

// Config configures the catalog service.
//
// # Fields
//
//   - Port: HTTP port. Default: 8080.
//   - GinMode: "debug", "release" or "test". Default: "release".
//   - OTelEndpoint: OTLP gRPC collector address. Empty disables tracing.
//   - EnableMetrics: Serve /metrics and record request metrics.
//   - CSRF: Require anti-forgery tokens on POST forms.
//   - SecureCookies: Mark cookies Secure (behind TLS).
//   - WriteRateLimit: Sustained POSTs per second across all clients. Zero disables limiting.
//   - WriteBurst: Burst allowance for WriteRateLimit. Default: 20.
//   - ShutdownTimeout: Grace period for in-flight requests. Default: 10s.
//   - Logger: Service logger. Default: slog.Default().
type Config struct {
	Port            int
	GinMode         string
	OTelEndpoint    string
	EnableMetrics   bool
	CSRF            bool
	SecureCookies   bool
	WriteRateLimit  float64
	WriteBurst      int
	ShutdownTimeout time.Duration
	Logger          *slog.Logger
}

func applyConfigDefaults(cfg Config) Config {
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.GinMode == "" {
		cfg.GinMode = gin.ReleaseMode
	}
	if cfg.WriteBurst <= 0 {
		cfg.WriteBurst = 20
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return cfg
}

// =============================================================================
// Service Implementation
// =============================================================================

type service struct {
	config        Config
	store         handlers.CatalogStore
	router        *gin.Engine
	metrics       *observability.Metrics
	tracerCleanup func(context.Context)
}

// New creates the catalog service around an open store.
//
// # Inputs
//
//   - cfg: Service configuration; zero fields take defaults.
//   - store: Catalog store, typically *store.Gateway. Must not be nil.
//
// # Outputs
//
//   - Service: Ready to Run.
//   - error: Template or tracer initialisation failed.
//
// # Limitations
//
//   - gin's mode is process global; the last New wins.
func New(cfg Config, store handlers.CatalogStore) (Service, error) {
	if store == nil {
		return nil, errors.New("catalog store is required")
	}
	s := &service{
		config: applyConfigDefaults(cfg),
		store:  store,
	}
	gin.SetMode(s.config.GinMode)

	if s.config.OTelEndpoint != "" {
		cleanup, err := s.initTracer()
		if err != nil {
			return nil, fmt.Errorf("failed to initialize tracer: %w", err)
		}
		s.tracerCleanup = cleanup
	}

	if s.config.EnableMetrics {
		s.metrics = observability.NewMetrics(prometheus.NewRegistry())
	}

	if err := s.initRouter(); err != nil {
		s.cleanup()
		return nil, err
	}
	return s, nil
}

func (s *service) Router() *gin.Engine {
	return s.router
}

// Run serves until ctx is done. A listen failure is returned immediately.
func (s *service) Run(ctx context.Context) error {
	defer s.cleanup()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.config.Logger.Info("starting film catalog server", "port", s.config.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()
		s.config.Logger.Info("shutting down film catalog server")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *service) initRouter() error {
	renderer, err := views.New()
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}

	router := gin.New()
	router.RedirectFixedPath = true
	router.HTMLRender = renderer

	router.Use(gin.Recovery(), middleware.RequestID())
	if s.tracerCleanup != nil {
		router.Use(otelgin.Middleware(ServiceName))
	}
	if s.metrics != nil {
		router.Use(s.metrics.Middleware())
	}
	router.Use(middleware.AccessLog(s.config.Logger))
	if s.config.WriteRateLimit > 0 {
		router.Use(middleware.RateLimit(rate.NewLimiter(rate.Limit(s.config.WriteRateLimit), s.config.WriteBurst)))
	}
	router.Use(middleware.CSRF(middleware.CSRFConfig{
		Enabled: s.config.CSRF,
		Secure:  s.config.SecureCookies,
	}))

	routes.SetupRoutes(router, handlers.Deps{
		Store:   s.store,
		Metrics: s.metrics,
		Logger:  s.config.Logger,
	})
	s.router = router
	return nil
}

// initTracer exports spans over OTLP gRPC. The returned cleanup flushes
// pending spans.
func (s *service) initTracer() (func(context.Context), error) {
	ctx := context.Background()

	conn, err := grpc.NewClient(s.config.OTelEndpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection: %w", err)
	}

	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String(ServiceName)))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(traceExporter))

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))

	logger := s.config.Logger
	cleanup := func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			logger.Error("failed to shutdown tracer provider", "error", err)
		}
		_ = conn.Close()
	}
	return cleanup, nil
}

func (s *service) cleanup() {
	if s.tracerCleanup != nil {
		s.tracerCleanup(context.Background())
		s.tracerCleanup = nil
	}
}
