// Package server assembles the echo engine: middleware, routes and probes.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/GabrielASF2/lead-cental/config"
	"github.com/GabrielASF2/lead-cental/internal/handlers"
	"github.com/GabrielASF2/lead-cental/pkg/auth"
	"github.com/GabrielASF2/lead-cental/pkg/health"
	appmw "github.com/GabrielASF2/lead-cental/pkg/middleware"
)

// Server wraps the echo engine
type Server struct {
	echo   *echo.Echo
	cfg    *config.Config
	logger ectologger.Logger
}

// New assembles the server with all middleware and routes
func New(
	cfg *config.Config,
	logger ectologger.Logger,
	issuer *auth.TokenIssuer,
	checker *health.Checker,
	authHandler *handlers.AuthHandler,
	connectionHandler *handlers.ConnectionHandler,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = appmw.Error(logger)

	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: cfg.AllowMethods,
	}))
	e.Use(otelecho.Middleware(cfg.AppName))
	e.Use(appmw.Context())
	e.Use(appmw.Logger(logger))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.GET("/health/live", checker.LivenessHandler)
	e.GET("/health/ready", checker.ReadinessHandler)
	e.GET("/api/v1/health", checker.HealthHandler)

	authHandler.RegisterRoutes(e.Group("/auth"))

	api := e.Group("/api", appmw.Authentication(logger, issuer))
	connectionHandler.RegisterRoutes(api)

	return &Server{
		echo:   e,
		cfg:    cfg,
		logger: logger,
	}
}

// Start runs the HTTP server and blocks until it stops
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.logger.WithField("addr", addr).Infof("Starting HTTP server on %s", addr)

	server := &http.Server{
		Addr:           addr,
		ReadTimeout:    time.Duration(s.cfg.HttpServerReadTimeoutSeconds) * time.Second,
		WriteTimeout:   time.Duration(s.cfg.HttpServerWriteTimeoutSeconds) * time.Second,
		IdleTimeout:    time.Duration(s.cfg.HttpServerIdleTimeoutSeconds) * time.Second,
		MaxHeaderBytes: s.cfg.MaxHeaderBytes,
	}

	err := s.echo.StartServer(server)
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Echo exposes the engine for tests
func (s *Server) Echo() *echo.Echo {
	return s.echo
}
