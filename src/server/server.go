package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lost-woods/racerandom/src/api"
	"github.com/lost-woods/racerandom/src/config"
	"github.com/lost-woods/racerandom/src/rng"
)

type Server struct {
	cfg    config.Config
	r      io.Reader
	health *rng.Health
	router *gin.Engine
	log    *zap.SugaredLogger
}

// New wires the routes. r must already be safe for concurrent reads.
func New(cfg config.Config, r io.Reader, h *rng.Health, stats api.Emitter, log *zap.SugaredLogger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))

	router.Use(cors.New(cors.Config{
		AllowMethods:     []string{"GET"},
		AllowHeaders:     []string{"X-API-KEY", "Accept"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowAllOrigins:  true,
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(api.CheckHeader("X-API-KEY", cfg.APIKey))

	handlers := api.NewHandlers(r, h, stats, log)
	router.GET("/", handlers.RandomNumber)
	router.GET("/bytes", handlers.RandomBytes)
	router.GET("/stream", handlers.RandomStream)
	router.GET("/health", handlers.Health)

	return &Server{cfg: cfg, r: r, health: h, router: router, log: log}
}

func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx is cancelled, then drains in-flight requests for at
// most ShutdownTimeout. Background health monitoring stops with it.
func (s *Server) Run(ctx context.Context) error {
	monitorCtx, stopMonitor := context.WithCancel(ctx)
	defer stopMonitor()
	go rng.PeriodicHealthCheck(monitorCtx, s.r, s.health, s.cfg.HealthInterval)

	srv := &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infow("listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	s.log.Infow("shutting down", "timeout", s.cfg.ShutdownTimeout)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func requestLogger(log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debugw("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
