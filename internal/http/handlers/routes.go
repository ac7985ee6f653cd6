package handlers

import (
	"cataloghub/internal/app"

	"github.com/labstack/echo/v4"
)

// SetupRoutes sets up all API routes
func SetupRoutes(api *echo.Group, services *app.Services) {
	productHandler := NewProductHandler(services.ProductRepo)
	api.GET("/products", productHandler.List)
	api.POST("/products", productHandler.Create)
	api.DELETE("/products/bulk-delete", productHandler.BulkDelete)
	api.GET("/products/:id", productHandler.GetByID)
	api.PUT("/products/:id", productHandler.Update)
	api.DELETE("/products/:id", productHandler.Delete)

	importJobHandler := NewImportJobHandler(services.ImportService, services.ImportJobRepo)
	api.POST("/upload", importJobHandler.Upload)
	api.GET("/jobs", importJobHandler.List)
	api.GET("/jobs/:job_id", importJobHandler.Get)

	webhookHandler := NewWebhookHandler(services.WebhookRepo, services.WebhookService)
	api.GET("/webhooks", webhookHandler.List)
	api.POST("/webhooks", webhookHandler.Create)
	api.GET("/webhooks/:id", webhookHandler.GetByID)
	api.PUT("/webhooks/:id", webhookHandler.Update)
	api.DELETE("/webhooks/:id", webhookHandler.Delete)
	api.POST("/webhooks/:id/test", webhookHandler.Test)
	api.GET("/webhooks/:id/logs", webhookHandler.ListLogs)

	dashboardHandler := NewDashboardHandler(services.ProductRepo, services.ImportJobRepo, services.WebhookRepo)
	api.GET("/dashboard/stats", dashboardHandler.Stats)
}
