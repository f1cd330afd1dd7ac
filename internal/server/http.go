// Copyright (c) 2025 Webrex Studio. All Rights Reserved.
// This is licensed software from Webrex Studio, for limitations
// and restrictions contact your company contract manager.

package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/webrexstudio/review-engagement/pkg/handler"
)

// HTTPServer manages the engagement API server lifecycle.
type HTTPServer struct {
	server      *http.Server
	router      *gin.Engine
	port        int
	serviceName string
	environment string
	engagement  *handler.Engagement
	health      func(ctx context.Context) error
}

// NewHTTPServer creates a new API server instance. The health function is
// probed by the liveness endpoint; nil means always healthy.
func NewHTTPServer(port int, serviceName, environment string, engagement *handler.Engagement, health func(ctx context.Context) error) *HTTPServer {
	return &HTTPServer{
		port:        port,
		serviceName: serviceName,
		environment: environment,
		engagement:  engagement,
		health:      health,
	}
}

// Setup configures the router, middleware and routes.
func (s *HTTPServer) Setup() error {
	if s.environment != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(s.serviceName))
	router.Use(requestLogger())

	router.GET("/healthz", func(c *gin.Context) {
		if s.health != nil {
			if err := s.health(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	s.engagement.RegisterRoutes(router)

	s.router = router
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return nil
}

// Start begins serving the API on the configured port.
func (s *HTTPServer) Start(ctx context.Context) error {
	go func() {
		logrus.Infof("API server listening on port %d", s.port)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("API server failed: %v", err)
		}
	}()
	return nil
}

// Shutdown gracefully stops the API server.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	logrus.Info("shutting down API server...")
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	logrus.Info("API server stopped")
	return nil
}

// requestLogger logs each request with method, path, status and latency.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logrus.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.FullPath(),
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}).Info("request handled")
	}
}
