package handlers

import (
	"net/http"

	"cataloghub/internal/repo"
	"cataloghub/pkg/models"

	"github.com/labstack/echo/v4"
)

// DashboardHandler aggregates counts across the catalog for the overview page
type DashboardHandler struct {
	productRepo *repo.ProductRepository
	jobRepo     *repo.ImportJobRepository
	webhookRepo *repo.WebhookRepository
}

func NewDashboardHandler(productRepo *repo.ProductRepository, jobRepo *repo.ImportJobRepository, webhookRepo *repo.WebhookRepository) *DashboardHandler {
	return &DashboardHandler{
		productRepo: productRepo,
		jobRepo:     jobRepo,
		webhookRepo: webhookRepo,
	}
}

// Stats godoc
// @Summary Get dashboard statistics
// @Tags dashboard
// @Produce json
// @Success 200 {object} models.DashboardStats
// @Failure 500 {object} map[string]string
// @Router /dashboard/stats [get]
func (h *DashboardHandler) Stats(c echo.Context) error {
	active := true

	totalProducts, err := h.productRepo.Count(repo.ProductFilter{})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to compute stats"})
	}
	activeProducts, err := h.productRepo.Count(repo.ProductFilter{IsActive: &active})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to compute stats"})
	}
	recentImports, err := h.jobRepo.CountByStatus(models.ImportJobStatusCompleted)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to compute stats"})
	}
	configuredWebhooks, err := h.webhookRepo.CountEnabled()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to compute stats"})
	}
	eventsSent, err := h.webhookRepo.CountLogs(true)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to compute stats"})
	}
	failedEvents, err := h.webhookRepo.CountLogs(false)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to compute stats"})
	}

	return c.JSON(http.StatusOK, models.DashboardStats{
		TotalProducts:      totalProducts,
		ActiveProducts:     activeProducts,
		RecentImports:      recentImports,
		ConfiguredWebhooks: configuredWebhooks,
		TotalEventsSent:    eventsSent,
		FailedEvents:       failedEvents,
	})
}
