// Package diagnostics serves /metrics and /health on a separate port.
package diagnostics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	readTimeout  = 5 * time.Second
	writeTimeout = 10 * time.Second
)

// Check reports whether a dependency is usable.
type Check func(ctx context.Context) error

type Server struct {
	e    *echo.Echo
	addr string
}

func NewServer(addr string, metrics http.Handler, checks map[string]Check) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = readTimeout
	e.Server.WriteTimeout = writeTimeout

	e.GET("/metrics", echo.WrapHandler(metrics))
	e.GET("/health", health(checks))

	return &Server{e: e, addr: addr}
}

func health(checks map[string]Check) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		out := map[string]string{}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				out[name] = err.Error()
				continue
			}
			out[name] = "up"
		}
		state := "UP"
		if status != http.StatusOK {
			state = "DOWN"
		}
		return c.JSON(status, map[string]any{"status": state, "components": out})
	}
}

func (s *Server) Handler() http.Handler { return s.e }

// Start blocks until the server stops. A graceful shutdown is not an error.
func (s *Server) Start() error {
	if err := s.e.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}
