package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"github.com/quillzy/quillzy/ai/core/llm"
	"github.com/quillzy/quillzy/ai/metrics"
	"github.com/quillzy/quillzy/ai/writing"
	"github.com/quillzy/quillzy/internal/profile"
	"github.com/quillzy/quillzy/internal/util"
	apiv1 "github.com/quillzy/quillzy/server/router/api/v1"
	"github.com/quillzy/quillzy/store"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer *echo.Echo
	metrics    *metrics.PrometheusExporter
	assistant  *writing.Assistant
}

func NewServer(ctx context.Context, profile *profile.Profile, store *store.Store) (*Server, error) {
	metricsConfig := metrics.DefaultConfig()
	metricsConfig.RuntimeCollectors = true
	s := &Server{
		Profile: profile,
		Store:   store,
		metrics: metrics.NewPrometheusExporter(metricsConfig),
	}

	assistant, err := s.newAssistant(ctx)
	if err != nil {
		return nil, err
	}
	s.assistant = assistant

	echoServer := echo.New()
	echoServer.HideBanner = true
	echoServer.HidePort = true
	echoServer.HTTPErrorHandler = apiv1.ErrorHandler
	echoServer.Pre(middleware.RemoveTrailingSlash())
	echoServer.Use(middleware.Recover())
	echoServer.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: util.GenShortID,
	}))
	echoServer.Use(newRequestLogger())
	echoServer.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	echoServer.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			// promhttp negotiates its own compression.
			return util.HasPrefixes(c.Path(), "/metrics", "/healthz")
		},
	}))
	s.echoServer = echoServer

	echoServer.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "version": profile.Version})
	})
	echoServer.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))

	apiV1Service := apiv1.NewAPIV1Service(profile, store, assistant)
	apiV1Service.RegisterRoutes(echoServer, s.aiMiddleware()...)

	return s, nil
}

// newAssistant connects the remote AI provider when a key is configured.
// Without one every AI request is answered locally.
func (s *Server) newAssistant(ctx context.Context) (*writing.Assistant, error) {
	opts := []writing.Option{
		writing.WithRecorder(s.metrics),
		writing.WithMaxConcurrency(s.Profile.AIMaxConcurrency),
	}

	if !s.Profile.IsAIEnabled() {
		slog.Info("AI API key not set, using local writing fallbacks")
		return writing.NewAssistant(nil, opts...), nil
	}

	llmConfig := &llm.Config{
		Provider: s.Profile.AIProvider,
		Models:   s.Profile.AIModels,
		APIKey:   s.Profile.AIAPIKey,
		BaseURL:  s.Profile.AIBaseURL,
		Timeout:  time.Duration(s.Profile.AITimeout) * time.Second,
		Observer: s.metrics,
	}
	llmService, err := llm.NewService(llmConfig)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create llm service")
	}
	go llmService.Warmup(ctx)

	// AITimeout applies to each model, so the request deadline must cover the
	// whole fallback list.
	opts = append(opts, writing.WithTimeout(llm.ChatBudget(llmConfig)))

	slog.Info("AI assistant enabled", "provider", s.Profile.AIProvider, "models", s.Profile.AIModels)
	return writing.NewAssistant(llmService, opts...), nil
}

func (s *Server) aiMiddleware() []echo.MiddlewareFunc {
	mws := []echo.MiddlewareFunc{
		func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				done := s.metrics.TrackActive()
				defer done()
				return next(c)
			}
		},
	}
	if s.Profile.AIRateLimit > 0 {
		limiterStore := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(s.Profile.AIRateLimit),
			Burst:     int(s.Profile.AIRateLimit) + 1,
			ExpiresIn: 3 * time.Minute,
		})
		mws = append([]echo.MiddlewareFunc{middleware.RateLimiter(limiterStore)}, mws...)
	}
	return mws
}

func newRequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID,
			}
			if v.Error != nil {
				slog.Warn("request", append(attrs, "error", v.Error)...)
				return nil
			}
			slog.Debug("request", attrs...)
			return nil
		},
	})
}

// Start binds the listener and serves in the background.
func (s *Server) Start(_ context.Context) error {
	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", address)
	}
	s.echoServer.Listener = listener

	go func() {
		if err := s.echoServer.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to start echo server", "error", err)
		}
	}()
	return nil
}

func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	slog.Info("server shutting down")
	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}
	if err := s.Store.Close(); err != nil {
		slog.Error("failed to close database", "error", err)
	}
	slog.Info("server stopped properly")
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echoServer
}
