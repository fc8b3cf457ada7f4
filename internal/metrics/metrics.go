// Package metrics содержит Prometheus-метрики сервиса.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// WebhookEvents счётчик обработанных вебхуков по намерениям.
var WebhookEvents = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "profilehub",
	Name:      "webhook_events_total",
	Help:      "Processed payment webhook events by normalized intent.",
}, []string{"intent"})

// UnmappedWebhookEvents счётчик событий без ключа сопоставления с аккаунтом.
var UnmappedWebhookEvents = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "profilehub",
	Name:      "webhook_events_unmapped_total",
	Help:      "Webhook events accepted without an account correlation key.",
})
