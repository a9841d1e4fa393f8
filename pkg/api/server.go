// Package api serves the coordinator's admin JSON API over gin.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/schema"
	"go.uber.org/zap"

	"github.com/jakechorley/relief-coordinator/pkg/core/services"
)

const (
	healthCheckTimeout = 2 * time.Second
	shutdownTimeout    = 10 * time.Second
	overviewReports    = 3
)

// Store is everything the API reads and writes
type Store interface {
	services.AssignmentStore
	services.RegistrationStore
	services.DeletionStore
	Ping(ctx context.Context) error
}

// Options configures a Server
type Options struct {
	// ReportSchedule is an optional recurrence rule shown on the overview
	ReportSchedule string
	// Now overrides the clock, for tests
	Now func() time.Time
}

// Server routes admin requests to the services
type Server struct {
	router   *gin.Engine
	store    Store
	logger   *zap.Logger
	metrics  *Metrics
	decoder  *schema.Decoder
	schedule string
	now      func() time.Time
}

// NewServer builds the router. gin's mode is left to the caller.
func NewServer(store Store, logger *zap.Logger, metrics *Metrics, opts Options) *Server {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	s := &Server{
		router:   gin.New(),
		store:    store,
		logger:   logger,
		metrics:  metrics,
		decoder:  decoder,
		schedule: opts.ReportSchedule,
		now:      now,
	}
	s.routes()
	return s
}

// Handler returns the root http.Handler
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	s.router.Use(gin.Recovery(), requestLogger(s.logger), instrument(s.metrics))

	s.router.GET("/healthz", s.handleHealth)
	s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	s.router.GET("/overview", s.handleOverview)
	s.router.GET("/operations/capacity", s.handleCapacity)

	volunteers := s.router.Group("/volunteers")
	volunteers.GET("", s.handleListVolunteers)
	volunteers.POST("", s.handleRegisterVolunteer)
	volunteers.GET("/stats", s.handleStatistics)
	volunteers.DELETE("/:id", s.handleDeleteVolunteer)
	volunteers.PUT("/:id/assignment", s.handleAssignment)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errorCh := make(chan error, 1)
	go func() {
		s.logger.Info("API server starting", zap.String("addr", addr))
		errorCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("API server stopped")
		return nil
	case err := <-errorCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}
}
