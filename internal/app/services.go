package app

import (
	"cataloghub/internal/config"
	"cataloghub/internal/repo"
	"cataloghub/internal/services"
	"cataloghub/internal/tasks"

	"gorm.io/gorm"
)

// Services holds all application services
type Services struct {
	DB             *gorm.DB
	ProductRepo    *repo.ProductRepository
	ImportJobRepo  *repo.ImportJobRepository
	WebhookRepo    *repo.WebhookRepository
	Queue          *tasks.Queue
	ImportService  *services.ImportService
	WebhookService *services.WebhookService
}

// NewServices creates a new services container
func NewServices(db *gorm.DB, cfg config.Config) *Services {
	productRepo := repo.NewProductRepository(db)
	importJobRepo := repo.NewImportJobRepository(db)
	webhookRepo := repo.NewWebhookRepository(db)

	queue := tasks.NewQueue(cfg)

	importService := services.NewImportService(importJobRepo, productRepo, queue, cfg.UploadDir)
	webhookService := services.NewWebhookService(productRepo, webhookRepo)

	return &Services{
		DB:             db,
		ProductRepo:    productRepo,
		ImportJobRepo:  importJobRepo,
		WebhookRepo:    webhookRepo,
		Queue:          queue,
		ImportService:  importService,
		WebhookService: webhookService,
	}
}
