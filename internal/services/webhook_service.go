package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"cataloghub/internal/telemetry"
	"cataloghub/pkg/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	dispatchTimeout = 30 * time.Second
	testTimeout     = 10 * time.Second

	// Response bodies are truncated before logging.
	maxLoggedBody = 1000
	maxTestBody   = 500
)

// ProductGetter is the product snapshot lookup the dispatcher needs.
type ProductGetter interface {
	GetByID(id uuid.UUID) (*models.Product, error)
}

// SubscriptionStore selects dispatch targets and records outcomes.
type SubscriptionStore interface {
	ListEnabled() ([]models.WebhookSubscription, error)
	CreateLog(log *models.WebhookDeliveryLog) error
}

// WebhookService delivers product lifecycle events to subscribed endpoints.
type WebhookService struct {
	products   ProductGetter
	subs       SubscriptionStore
	client     *http.Client
	testClient *http.Client
}

func NewWebhookService(products ProductGetter, subs SubscriptionStore) *WebhookService {
	return &WebhookService{
		products:   products,
		subs:       subs,
		client:     &http.Client{Timeout: dispatchTimeout},
		testClient: &http.Client{Timeout: testTimeout},
	}
}

// Dispatch delivers one event to every enabled subscription listening for
// it. Each delivery is independent and logged unconditionally; nothing is
// retried and no error reaches the caller. A product that no longer exists
// drops the event silently: the snapshot must reflect current state.
func (s *WebhookService) Dispatch(ctx context.Context, eventType string, productID uuid.UUID) {
	product, err := s.products.GetByID(productID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error().Err(err).Str("product_id", productID.String()).Msg("Failed to load product for webhook dispatch")
		}
		return
	}

	payload := models.WebhookEventPayload{
		EventType: eventType,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Data: models.WebhookProductData{
			ID:          product.ID,
			SKU:         product.SKU,
			Name:        product.Name,
			Description: product.Description,
			Price:       product.Price,
			IsActive:    product.IsActive,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal webhook payload")
		return
	}

	subs, err := s.subs.ListEnabled()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list webhook subscriptions")
		return
	}

	for i := range subs {
		sub := &subs[i]
		if !sub.Subscribed(eventType) {
			continue
		}
		s.deliver(ctx, sub, eventType, body)
	}
}

// deliver performs one HTTP POST and records exactly one delivery log,
// whatever the outcome.
func (s *WebhookService) deliver(ctx context.Context, sub *models.WebhookSubscription, eventType string, body []byte) {
	entry := &models.WebhookDeliveryLog{
		SubscriptionID: sub.ID,
		EventType:      eventType,
		Payload:        string(body),
	}

	start := time.Now()
	resp, err := s.post(ctx, s.client, sub.URL, body)
	entry.ResponseTime = time.Since(start).Seconds()

	if err != nil {
		entry.ErrorMessage = err.Error()
		telemetry.WebhookDeliveries.WithLabelValues("error").Inc()
	} else {
		code := resp.StatusCode
		entry.StatusCode = &code
		entry.ResponseBody = truncate(readBody(resp), maxLoggedBody)
		entry.Success = code >= 200 && code < 300
		if entry.Success {
			telemetry.WebhookDeliveries.WithLabelValues("success").Inc()
		} else {
			telemetry.WebhookDeliveries.WithLabelValues("failed").Inc()
		}
	}

	if err := s.subs.CreateLog(entry); err != nil {
		log.Error().Err(err).Str("subscription_id", sub.ID.String()).Msg("Failed to record webhook delivery log")
	}
}

// Test sends a fixed payload to one subscription synchronously and returns
// the outcome directly. No delivery log is written.
func (s *WebhookService) Test(ctx context.Context, sub *models.WebhookSubscription) *models.WebhookTestResult {
	payload := map[string]interface{}{
		"event_type": "test",
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"data": map[string]string{
			"message": "This is a test webhook",
		},
	}
	body, _ := json.Marshal(payload)

	start := time.Now()
	resp, err := s.post(ctx, s.testClient, sub.URL, body)
	elapsed := time.Since(start).Seconds()

	if err != nil {
		return &models.WebhookTestResult{
			Success:      false,
			ResponseTime: elapsed,
			ErrorMessage: err.Error(),
			Message:      "Test webhook failed",
		}
	}

	code := resp.StatusCode
	result := &models.WebhookTestResult{
		Success:      code >= 200 && code < 300,
		StatusCode:   &code,
		ResponseTime: elapsed,
		ResponseBody: truncate(readBody(resp), maxTestBody),
	}
	if result.Success {
		result.Message = "Test webhook sent successfully"
	} else {
		result.Message = "Test webhook failed"
	}
	return result
}

func (s *WebhookService) post(ctx context.Context, client *http.Client, url string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return client.Do(req)
}

func readBody(resp *http.Response) string {
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return ""
	}
	return string(data)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
