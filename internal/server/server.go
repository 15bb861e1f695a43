// Package server exposes the handler over HTTP for local development.
// Production invocations come from the Lambda runtime instead.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/akave-ai/patientingest/internal/response"
)

// Invoker runs one ingestion for an S3 notification payload.
type Invoker interface {
	Handle(ctx context.Context, payload json.RawMessage) (events.APIGatewayProxyResponse, error)
}

// Server holds the Echo app and the invoker behind it.
type Server struct {
	Echo    *echo.Echo
	invoker Invoker
	logger  zerolog.Logger
}

// New builds the Echo server and registers routes:
//
//	POST /invoke   body is an S3 notification event; replies with the handler's status and body
//	GET  /healthz  liveness
func New(invoker Invoker, logger zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	}))

	s := &Server{Echo: e, invoker: invoker, logger: logger}
	e.POST("/invoke", s.invoke)
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	return s
}

func (s *Server) invoke(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return response.Write(c, response.Error(http.StatusBadRequest, "Invalid request", err.Error()))
	}
	resp, err := s.invoker.Handle(c.Request().Context(), body)
	if err != nil {
		return response.Write(c, response.InternalError("Internal processing error", err.Error()))
	}
	return response.Write(c, resp)
}

// Start serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Echo.Shutdown(shutdownCtx); err != nil {
			s.logger.Error().Err(err).Msg("shutdown local server")
		}
	}()

	s.logger.Info().Str("addr", addr).Msg("local invoke server listening")
	if err := s.Echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
