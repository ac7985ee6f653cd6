package models

// PaginationResult represents paginated results
type PaginationResult[T any] struct {
	Data       []T   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	TotalPages int   `json:"total_pages"`
}

// DashboardStats aggregates catalog-wide counters for the dashboard view.
type DashboardStats struct {
	TotalProducts      int64 `json:"total_products"`
	ActiveProducts     int64 `json:"active_products"`
	RecentImports      int64 `json:"recent_imports"`
	ConfiguredWebhooks int64 `json:"configured_webhooks"`
	TotalEventsSent    int64 `json:"total_events_sent"`
	FailedEvents       int64 `json:"failed_events"`
}
