package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/deepakkt/bitsaiml-mlops-group-114/internal/logging"
)

// Server is the prediction API: health, predict and the metrics exposition
// over the currently loaded model.
type Server struct {
	e       *echo.Echo
	state   *ModelState
	metrics *Metrics
	logger  *slog.Logger
}

func NewServer(state *ModelState, metrics *Metrics, logger *slog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		e:       e,
		state:   state,
		metrics: metrics,
		logger:  logging.ForSubsystem(logger, logging.Server),
	}

	e.Use(middleware.RequestID())
	e.Use(s.observe)

	e.GET("/health", s.getHealth)
	e.POST("/predict", s.postPredict)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	return s
}

// observe logs every request with its id and books it into the metrics.
// The exposition endpoint itself is excluded from tracking.
func (s *Server) observe(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := c.Path()
		if path == "/metrics" {
			return next(c)
		}

		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}

		status := c.Response().Status
		elapsed := time.Since(start)
		s.metrics.Record(c.Request().Method, path, status, elapsed.Seconds())
		s.logger.Info("request",
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			"method", c.Request().Method,
			"path", path,
			"status", status,
			"latency_ms", elapsed.Milliseconds())
		return nil
	}
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}

// Echo exposes the router for handler tests.
func (s *Server) Echo() *echo.Echo {
	return s.e
}
