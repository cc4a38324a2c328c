package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server is the terminal's local HTTP API, the surface the checkout UI talks to.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
}

// New builds the terminal API on addr: checkout sessions, the cached product
// catalog, inventory admin and account routes, plus /healthz and a /readyz
// that reports 503 while the backend circuit breaker is open. Requests from
// corsOrigins are allowed cross-origin. It fails if a required service in
// deps is missing.
func New(addr string, logger *zap.Logger, deps Deps, corsOrigins []string) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	router, err := buildRouter(logger, deps, corsOrigins)
	if err != nil {
		return nil, err
	}

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &Server{
		httpServer: httpSrv,
		logger:     logger,
	}, nil
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	s.logger.Info("http server listening", zap.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown stops accepting connections and waits for in-flight requests,
// including sale submissions still waiting on the backend, until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func readyHandler(b BackendStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		if b == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "backend not configured"})
			return
		}
		if !b.Available() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "backend circuit open"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}
