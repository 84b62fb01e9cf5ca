// Package server assembles the gin engine and runs the HTTP listener.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"market-sentiment/internal/handlers"
	"market-sentiment/internal/store"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	engine *gin.Engine
	http   *http.Server
	log    *zap.Logger
}

// New builds the router. gin's mode must be set before calling it.
func New(cfg *store.Config, h *handlers.Handler, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	uploadLimit := int64(cfg.Server.MaxUploadMB) << 20

	r := gin.New()
	r.MaxMultipartMemory = uploadLimit
	r.Use(
		gin.Recovery(),
		requestID(),
		accessLog(log),
		cors.New(cors.Config{
			AllowAllOrigins: true,
			AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders:    []string{"Origin", "Content-Type", requestIDHeader},
			ExposeHeaders:   []string{requestIDHeader},
			MaxAge:          12 * time.Hour,
		}),
	)

	// Multipart framing adds a little on top of the image itself.
	api := r.Group("/api", maxBody(uploadLimit+1<<20))
	h.Register(r, api)

	return &Server{
		engine: r,
		log:    log,
		http: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           r,
			ReadTimeout:       time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		s.log.Info("HTTP server listening", zap.String("addr", s.http.Addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("HTTP server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return <-errc
}
