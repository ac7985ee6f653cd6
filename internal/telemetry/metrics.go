package telemetry

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	once sync.Once

	TasksEnqueued = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "cataloghub_tasks_enqueued_total", Help: "Tasks pushed to the queue"},
		[]string{"type"},
	)
	TasksProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "cataloghub_tasks_processed_total", Help: "Tasks consumed by workers"},
		[]string{"type", "result"},
	)
	ImportRows = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "cataloghub_import_rows_total", Help: "CSV rows processed by the import pipeline"},
		[]string{"result"},
	)
	WebhookDeliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "cataloghub_webhook_deliveries_total", Help: "Webhook delivery attempts"},
		[]string{"result"},
	)
	QueueDepthGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "cataloghub_tasks_queue_depth", Help: "Pending tasks in the queue"},
	)
)

// MetricsHandler exposes the /metrics HTTP handler with a singleton registry.
func MetricsHandler() http.Handler {
	once.Do(func() {
		prometheus.MustRegister(
			TasksEnqueued,
			TasksProcessed,
			ImportRows,
			WebhookDeliveries,
			QueueDepthGauge,
		)
	})
	return promhttp.Handler()
}
