package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Event types carried in webhook payloads and subscription filters.
const (
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"
)

// WebhookSubscription is an outbound notification target. Only enabled
// subscriptions are considered by the dispatcher.
type WebhookSubscription struct {
	BaseModel
	URL        string               `gorm:"not null" json:"url" validate:"required,url"`
	EventTypes pq.StringArray       `gorm:"type:text[]" json:"event_types" validate:"required,min=1,dive,oneof=product.created product.updated product.deleted"`
	IsEnabled  bool                 `gorm:"default:true;index" json:"is_enabled"`
	Logs       []WebhookDeliveryLog `gorm:"foreignKey:SubscriptionID;constraint:OnDelete:CASCADE" json:"-"`
}

// Subscribed reports whether the subscription listens for the given event
// type. Exact set membership, not substring matching.
func (s *WebhookSubscription) Subscribed(eventType string) bool {
	for _, et := range s.EventTypes {
		if et == eventType {
			return true
		}
	}
	return false
}

// WebhookDeliveryLog records one delivery attempt. Written exactly once per
// attempt and never mutated.
type WebhookDeliveryLog struct {
	BaseModel
	SubscriptionID uuid.UUID `gorm:"type:uuid;not null;index" json:"subscription_id"`
	EventType      string    `gorm:"size:50;not null" json:"event_type"`
	Payload        string    `gorm:"type:jsonb" json:"payload"`
	StatusCode     *int      `json:"status_code"`
	ResponseBody   string    `gorm:"type:text" json:"response_body"`
	ResponseTime   float64   `json:"response_time"` // seconds
	Success        bool      `gorm:"default:false;index" json:"success"`
	ErrorMessage   string    `gorm:"type:text" json:"error_message,omitempty"`
}

// WebhookEventPayload is the wire format POSTed to webhook targets.
type WebhookEventPayload struct {
	EventType string             `json:"event_type"`
	Timestamp string             `json:"timestamp"`
	Data      WebhookProductData `json:"data"`
}

// WebhookProductData mirrors the product's public fields.
type WebhookProductData struct {
	ID          uuid.UUID `json:"id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	IsActive    bool      `json:"is_active"`
}

// WebhookTestResult summarizes a synchronous test delivery. It is returned
// to the caller and never persisted.
type WebhookTestResult struct {
	Success      bool    `json:"success"`
	StatusCode   *int    `json:"status_code,omitempty"`
	ResponseTime float64 `json:"response_time"`
	ResponseBody string  `json:"response_body,omitempty"`
	ErrorMessage string  `json:"error_message,omitempty"`
	Message      string  `json:"message"`
}
