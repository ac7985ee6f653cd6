package models

import (
	"testing"

	"github.com/lib/pq"
)

func TestNormalizeSKU(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"abc-123", "ABC-123"},
		{"ABC-123", "ABC-123"},
		{"  sku-9 ", "SKU-9"},
		{"", ""},
	}

	for _, test := range tests {
		if got := NormalizeSKU(test.input); got != test.expected {
			t.Errorf("NormalizeSKU(%q) = %q, expected %q", test.input, got, test.expected)
		}
	}
}

func TestWebhookSubscriptionSubscribed(t *testing.T) {
	sub := WebhookSubscription{
		EventTypes: pq.StringArray{EventProductCreated, EventProductDeleted},
	}

	tests := []struct {
		eventType string
		expected  bool
	}{
		{EventProductCreated, true},
		{EventProductDeleted, true},
		{EventProductUpdated, false},
		{"product", false},
		{"", false},
	}

	for _, test := range tests {
		if got := sub.Subscribed(test.eventType); got != test.expected {
			t.Errorf("Subscribed(%q) = %v, expected %v", test.eventType, got, test.expected)
		}
	}
}
