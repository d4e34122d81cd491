// Package server exposes the HTTP control surface of the update loop.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ibs-source/champions-bot/internal/config"
	"github.com/ibs-source/champions-bot/internal/log"
	"github.com/ibs-source/champions-bot/internal/poller"
)

// Controller is the part of the update loop driven over HTTP
type Controller interface {
	Enable() error
	RequestStop()
	Status() poller.Status
}

// CachePurger drops cached pages
type CachePurger interface {
	Purge(ctx context.Context) (int, error)
}

// Server serves the control endpoints
type Server struct {
	http  *http.Server
	loop  Controller
	cache CachePurger
	log   *log.Logger
}

// New creates a Server. A nil cache disables DELETE /cache.
func New(cfg *config.ServerConfig, loop Controller, cache CachePurger, logger *log.Logger) *Server {
	s := &Server{loop: loop, cache: cache, log: logger}
	s.http = &http.Server{
		Addr:              cfg.Address,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the router, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

func (s *Server) routes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	router.GET("/enable", s.enable)
	router.GET("/status", s.status)
	router.POST("/stop", s.stop)
	router.DELETE("/cache", s.purgeCache)
	return router
}

// Start listens until Shutdown is called
func (s *Server) Start() error {
	s.log.Info("Control server listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) enable(c *gin.Context) {
	if err := s.loop.Enable(); err != nil {
		s.log.Warn("Enable rejected: %v", err)
		c.String(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}
	c.String(http.StatusOK, http.StatusText(http.StatusOK))
}

func (s *Server) status(c *gin.Context) {
	c.JSON(http.StatusOK, s.loop.Status())
}

func (s *Server) stop(c *gin.Context) {
	s.loop.RequestStop()
	c.JSON(http.StatusAccepted, s.loop.Status())
}

func (s *Server) purgeCache(c *gin.Context) {
	if s.cache == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "page cache disabled"})
		return
	}
	n, err := s.cache.Purge(c.Request.Context())
	if err != nil {
		s.log.Error("Cache purge failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "purged": n})
		return
	}
	c.JSON(http.StatusOK, gin.H{"purged": n})
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.DebugWithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		}, "HTTP request")
	}
}
