package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jakechorley/relief-coordinator/pkg/core/engine"
	"github.com/jakechorley/relief-coordinator/pkg/core/model"
	"github.com/jakechorley/relief-coordinator/pkg/core/services"
	"github.com/jakechorley/relief-coordinator/pkg/db"
)

type errorResponse struct {
	Error  string             `json:"error"`
	Fields []model.FieldError `json:"fields,omitempty"`
}

type listResponse struct {
	Volunteers []model.Volunteer `json:"volunteers"`
	Count      int               `json:"count"`
}

type assignmentRequest struct {
	Status       string     `json:"status" binding:"required"`
	AssignedTo   string     `json:"assignedTo"`
	AssignedBy   string     `json:"assignedBy"`
	AssignedDate *time.Time `json:"assignedDate"`
	Notes        string     `json:"notes"`
}

type transitionResponse struct {
	Volunteer  model.Volunteer          `json:"volunteer"`
	Changed    bool                     `json:"changed"`
	Affected   []model.CapacitySnapshot `json:"affected"`
	Statistics model.Statistics         `json:"statistics"`
	Warnings   []engine.Warning         `json:"warnings,omitempty"`
}

func (s *Server) handleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "degraded",
			"error":  err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleListVolunteers(c *gin.Context) {
	var params services.FilterParams
	if err := s.decoder.Decode(&params, c.Request.URL.Query()); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	spec, err := params.Spec()
	if err != nil {
		s.writeError(c, err)
		return
	}

	volunteers, err := services.ListVolunteers(c.Request.Context(), s.store, s.logger, spec)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if volunteers == nil {
		volunteers = []model.Volunteer{}
	}

	c.JSON(http.StatusOK, listResponse{Volunteers: volunteers, Count: len(volunteers)})
}

func (s *Server) handleStatistics(c *gin.Context) {
	stats, err := services.Statistics(c.Request.Context(), s.store, s.logger)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) handleCapacity(c *gin.Context) {
	report, err := services.CapacityReport(c.Request.Context(), s.store, s.logger)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleOverview(c *gin.Context) {
	overview, err := services.BuildOverview(c.Request.Context(), s.store, s.logger, s.schedule, overviewReports, s.now())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

func (s *Server) handleRegisterVolunteer(c *gin.Context) {
	var raw engine.Record
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error()})
		return
	}

	volunteer, err := services.RegisterVolunteer(c.Request.Context(), s.store, s.logger, raw, s.now())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, volunteer)
}

func (s *Server) handleDeleteVolunteer(c *gin.Context) {
	if err := services.DeleteVolunteer(c.Request.Context(), s.store, s.logger, c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleAssignment(c *gin.Context) {
	var req assignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid assignment: " + err.Error()})
		return
	}

	target := model.AssignmentStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	result, err := services.TransitionVolunteer(c.Request.Context(), s.store, s.logger, engine.Command{
		VolunteerID:  c.Param("id"),
		TargetState:  target,
		AssignedTo:   req.AssignedTo,
		AssignedBy:   req.AssignedBy,
		AssignedDate: req.AssignedDate,
		Notes:        req.Notes,
	}, s.now())
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.metrics.observeTransition(target, result.Changed)

	c.JSON(http.StatusOK, transitionResponse{
		Volunteer:  result.After,
		Changed:    result.Changed,
		Affected:   result.Affected,
		Statistics: result.Statistics,
		Warnings:   result.Warnings,
	})
}

// writeError maps service errors onto status codes. Unexpected errors are logged
// and hidden from the client.
func (s *Server) writeError(c *gin.Context, err error) {
	_ = c.Error(err)

	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, errorResponse{Error: "validation failed", Fields: verr.Fields})
	case errors.Is(err, engine.ErrVolunteerNotFound), errors.Is(err, db.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: "volunteer not found"})
	case errors.Is(err, engine.ErrInvalidState), errors.Is(err, engine.ErrNilRecord):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		s.logger.Error("Request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
