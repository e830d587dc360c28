package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/ErlanBelekov/job-tracker/internal/domain"
	"github.com/ErlanBelekov/job-tracker/internal/metrics"
	"github.com/ErlanBelekov/job-tracker/internal/usecase"
	"github.com/ErlanBelekov/job-tracker/internal/validation"
	"github.com/gin-gonic/gin"
)

type applicationUsecaser interface {
	CreateApplication(ctx context.Context, input usecase.CreateApplicationInput) (*domain.Application, error)
	GetApplication(ctx context.Context, id, userID string) (*domain.Application, error)
	ListApplications(ctx context.Context, input usecase.ListApplicationsInput) ([]*domain.Application, error)
	UpdateApplication(ctx context.Context, input usecase.UpdateApplicationInput) (*domain.Application, error)
	DeleteApplication(ctx context.Context, id, userID string) error
	Stats(ctx context.Context, userID string) (domain.ApplicationStats, error)
}

type ApplicationHandler struct {
	applications applicationUsecaser
	logger       *slog.Logger
}

func NewApplicationHandler(applications applicationUsecaser, logger *slog.Logger) *ApplicationHandler {
	return &ApplicationHandler{
		applications: applications,
		logger:       logger.With("component", "application_handler"),
	}
}

type applicationResponse struct {
	ID           string        `json:"id"`
	Company      string        `json:"company"`
	Position     string        `json:"position"`
	Status       domain.Status `json:"status"`
	Notes        string        `json:"notes"`
	AppliedDate  time.Time     `json:"appliedDate"`
	FollowUpDate *time.Time    `json:"followUpDate,omitempty"`
	Version      int           `json:"version"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

type statsResponse struct {
	Total    int                   `json:"total"`
	ByStatus map[domain.Status]int `json:"byStatus"`
}

func toApplicationResponse(a *domain.Application) applicationResponse {
	return applicationResponse{
		ID:           a.ID,
		Company:      a.Company,
		Position:     a.Position,
		Status:       a.Status,
		Notes:        a.Notes,
		AppliedDate:  a.AppliedDate,
		FollowUpDate: a.FollowUpDate,
		Version:      a.Version,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

// GET /api/applications?status=
func (h *ApplicationHandler) List(c *gin.Context) {
	apps, err := h.applications.ListApplications(c.Request.Context(), usecase.ListApplicationsInput{
		UserID: c.GetString("userID"),
		Status: c.Query("status"),
	})
	if err != nil {
		writeError(c, h.logger, "list applications", err)
		return
	}

	items := make([]applicationResponse, len(apps))
	for i, a := range apps {
		items[i] = toApplicationResponse(a)
	}
	c.JSON(http.StatusOK, items)
}

// GET /api/applications/:id
func (h *ApplicationHandler) GetByID(c *gin.Context) {
	app, err := h.applications.GetApplication(c.Request.Context(), c.Param("id"), c.GetString("userID"))
	if err != nil {
		writeError(c, h.logger, "get application", err)
		return
	}
	c.JSON(http.StatusOK, toApplicationResponse(app))
}

// POST /api/applications
func (h *ApplicationHandler) Create(c *gin.Context) {
	var input usecase.CreateApplicationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		writeError(c, h.logger, "create application", validation.Translate(err))
		return
	}
	input.UserID = c.GetString("userID")

	app, err := h.applications.CreateApplication(c.Request.Context(), input)
	if err != nil {
		writeError(c, h.logger, "create application", err)
		return
	}

	metrics.ApplicationMutationsTotal.WithLabelValues("create").Inc()
	c.JSON(http.StatusCreated, toApplicationResponse(app))
}

// PUT /api/applications/:id
func (h *ApplicationHandler) Update(c *gin.Context) {
	var input usecase.UpdateApplicationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		writeError(c, h.logger, "update application", validation.Translate(err))
		return
	}
	input.ID = c.Param("id")
	input.UserID = c.GetString("userID")

	app, err := h.applications.UpdateApplication(c.Request.Context(), input)
	if err != nil {
		writeError(c, h.logger, "update application", err)
		return
	}

	metrics.ApplicationMutationsTotal.WithLabelValues("update").Inc()
	c.JSON(http.StatusOK, toApplicationResponse(app))
}

// DELETE /api/applications/:id
func (h *ApplicationHandler) Delete(c *gin.Context) {
	err := h.applications.DeleteApplication(c.Request.Context(), c.Param("id"), c.GetString("userID"))
	if err != nil {
		writeError(c, h.logger, "delete application", err)
		return
	}

	metrics.ApplicationMutationsTotal.WithLabelValues("delete").Inc()
	c.JSON(http.StatusOK, gin.H{"message": "Application deleted successfully"})
}

// GET /api/applications/stats
func (h *ApplicationHandler) Stats(c *gin.Context) {
	stats, err := h.applications.Stats(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		writeError(c, h.logger, "application stats", err)
		return
	}
	c.JSON(http.StatusOK, statsResponse{Total: stats.Total, ByStatus: stats.ByStatus})
}
