package handlers

import (
	"net/http"
	"strconv"

	"cataloghub/internal/repo"
	"cataloghub/internal/services"
	"cataloghub/pkg/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/lib/pq"
)

type WebhookHandler struct {
	webhookRepo    *repo.WebhookRepository
	webhookService *services.WebhookService
}

func NewWebhookHandler(webhookRepo *repo.WebhookRepository, webhookService *services.WebhookService) *WebhookHandler {
	return &WebhookHandler{
		webhookRepo:    webhookRepo,
		webhookService: webhookService,
	}
}

// WebhookRequest is the create/update payload.
type WebhookRequest struct {
	URL        string   `json:"url" validate:"required,url"`
	EventTypes []string `json:"event_types" validate:"required,min=1,dive,oneof=product.created product.updated product.deleted"`
	IsEnabled  *bool    `json:"is_enabled"`
}

// List godoc
// @Summary List webhook subscriptions
// @Tags webhooks
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]string
// @Router /webhooks [get]
func (h *WebhookHandler) List(c echo.Context) error {
	subs, err := h.webhookRepo.List()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to fetch webhooks"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"data": subs})
}

// GetByID godoc
// @Summary Get webhook subscription by ID
// @Tags webhooks
// @Produce json
// @Param id path string true "Webhook ID"
// @Success 200 {object} models.WebhookSubscription
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /webhooks/{id} [get]
func (h *WebhookHandler) GetByID(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid webhook ID"})
	}

	sub, err := h.webhookRepo.GetByID(id)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "webhook not found"})
	}

	return c.JSON(http.StatusOK, sub)
}

// Create godoc
// @Summary Create webhook subscription
// @Tags webhooks
// @Accept json
// @Produce json
// @Param webhook body WebhookRequest true "Webhook data"
// @Success 201 {object} models.WebhookSubscription
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /webhooks [post]
func (h *WebhookHandler) Create(c echo.Context) error {
	var req WebhookRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	isEnabled := true
	if req.IsEnabled != nil {
		isEnabled = *req.IsEnabled
	}

	sub := &models.WebhookSubscription{
		URL:        req.URL,
		EventTypes: pq.StringArray(req.EventTypes),
		IsEnabled:  isEnabled,
	}
	if err := h.webhookRepo.Create(sub); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to create webhook"})
	}

	return c.JSON(http.StatusCreated, sub)
}

// Update godoc
// @Summary Update webhook subscription
// @Tags webhooks
// @Accept json
// @Produce json
// @Param id path string true "Webhook ID"
// @Param webhook body WebhookRequest true "Webhook data"
// @Success 200 {object} models.WebhookSubscription
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /webhooks/{id} [put]
func (h *WebhookHandler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid webhook ID"})
	}

	sub, err := h.webhookRepo.GetByID(id)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "webhook not found"})
	}

	var req WebhookRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	sub.URL = req.URL
	sub.EventTypes = pq.StringArray(req.EventTypes)
	if req.IsEnabled != nil {
		sub.IsEnabled = *req.IsEnabled
	}

	if err := h.webhookRepo.Update(sub); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to update webhook"})
	}

	return c.JSON(http.StatusOK, sub)
}

// Delete godoc
// @Summary Delete webhook subscription and its delivery logs
// @Tags webhooks
// @Param id path string true "Webhook ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /webhooks/{id} [delete]
func (h *WebhookHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid webhook ID"})
	}

	if err := h.webhookRepo.Delete(id); err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "webhook not found"})
	}

	return c.NoContent(http.StatusNoContent)
}

// Test godoc
// @Summary Send a test delivery to one webhook
// @Description Perform a synchronous test POST; the result is returned and not persisted
// @Tags webhooks
// @Produce json
// @Param id path string true "Webhook ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /webhooks/{id}/test [post]
func (h *WebhookHandler) Test(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid webhook ID"})
	}

	sub, err := h.webhookRepo.GetByID(id)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "webhook not found"})
	}

	result := h.webhookService.Test(c.Request().Context(), sub)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": result.Message,
		"result":  result,
	})
}

// ListLogs godoc
// @Summary List recent delivery logs for one webhook
// @Tags webhooks
// @Produce json
// @Param id path string true "Webhook ID"
// @Param limit query int false "Max log entries" default(50)
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /webhooks/{id}/logs [get]
func (h *WebhookHandler) ListLogs(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid webhook ID"})
	}

	if _, err := h.webhookRepo.GetByID(id); err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "webhook not found"})
	}

	limit := 50
	if l, err := strconv.Atoi(c.QueryParam("limit")); err == nil && l > 0 && l <= 500 {
		limit = l
	}

	logs, err := h.webhookRepo.ListLogs(id, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to fetch delivery logs"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"data": logs})
}
