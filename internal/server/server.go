// Package server exposes the animation engine over HTTP: a JSON poll
// endpoint, a server-sent event stream, the symbol catalog and a health
// check, all under /api.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/san-kum/symcycle/internal/anim"
	"github.com/san-kum/symcycle/internal/logging"
)

const shutdownTimeout = 5 * time.Second

// Source is the engine surface the API reads from.
type Source interface {
	Snapshot() anim.State
	Subscribe() (<-chan anim.State, func())
}

type Server struct {
	src       Source
	log       *slog.Logger
	startTime time.Time
	version   string
	now       func() time.Time
}

func NewServer(src Source, log *slog.Logger, version string) *Server {
	if log == nil {
		log = logging.Discard()
	}
	return &Server{
		src:       src,
		log:       log,
		startTime: time.Now(),
		version:   version,
		now:       time.Now,
	}
}

func (s *Server) SetupRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.GET("/state", s.handleGetState)
		api.GET("/stream", s.handleStream)
		api.GET("/symbols", s.handleGetSymbols)
		api.GET("/health", s.handleHealthCheck)
	}
	r.NoRoute(s.handleNotFound)
}

// Router builds a gin engine with recovery, request logging, CORS and the
// API routes.
func (s *Server) Router(allowOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	r.Use(cors.New(corsConfig(allowOrigins)))
	s.SetupRoutes(r)
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string, allowOrigins []string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(allowOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	// Open streams only end when the client goes away, so a timeout here is
	// expected and the server is closed outright.
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return srv.Close()
	}
	return nil
}

func corsConfig(allowOrigins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Length", "Content-Type", "Cache-Control"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(allowOrigins) == 0 || (len(allowOrigins) == 1 && allowOrigins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowOrigins
	}
	return cfg
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
