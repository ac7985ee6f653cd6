package repo

import (
	"cataloghub/pkg/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WebhookRepository struct {
	db *gorm.DB
}

func NewWebhookRepository(db *gorm.DB) *WebhookRepository {
	return &WebhookRepository{db: db}
}

func (r *WebhookRepository) Create(sub *models.WebhookSubscription) error {
	return r.db.Create(sub).Error
}

func (r *WebhookRepository) GetByID(id uuid.UUID) (*models.WebhookSubscription, error) {
	var sub models.WebhookSubscription
	if err := r.db.First(&sub, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *WebhookRepository) Update(sub *models.WebhookSubscription) error {
	return r.db.Save(sub).Error
}

// Delete removes a subscription and its delivery logs.
func (r *WebhookRepository) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("subscription_id = ?", id).Delete(&models.WebhookDeliveryLog{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.WebhookSubscription{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// List returns all subscriptions, newest first
func (r *WebhookRepository) List() ([]models.WebhookSubscription, error) {
	var subs []models.WebhookSubscription
	if err := r.db.Order("created_at DESC").Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

// ListEnabled returns subscriptions eligible for dispatch
func (r *WebhookRepository) ListEnabled() ([]models.WebhookSubscription, error) {
	var subs []models.WebhookSubscription
	if err := r.db.Where("is_enabled = ?", true).Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *WebhookRepository) CountEnabled() (int64, error) {
	var total int64
	err := r.db.Model(&models.WebhookSubscription{}).Where("is_enabled = ?", true).Count(&total).Error
	return total, err
}

// CreateLog appends one immutable delivery-attempt record
func (r *WebhookRepository) CreateLog(log *models.WebhookDeliveryLog) error {
	return r.db.Create(log).Error
}

// ListLogs returns the most recent delivery logs for a subscription
func (r *WebhookRepository) ListLogs(subscriptionID uuid.UUID, limit int) ([]models.WebhookDeliveryLog, error) {
	var logs []models.WebhookDeliveryLog
	err := r.db.Where("subscription_id = ?", subscriptionID).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *WebhookRepository) CountLogs(success bool) (int64, error) {
	var total int64
	err := r.db.Model(&models.WebhookDeliveryLog{}).Where("success = ?", success).Count(&total).Error
	return total, err
}
