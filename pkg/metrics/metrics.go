package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	messagesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_messages_sent_total",
			Help: "Total number of POST /send attempts by outcome",
		},
		[]string{"status"},
	)

	messagesReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gateway_messages_received_total",
			Help: "Total number of inbound WhatsApp messages handed to the webhook fan-out",
		},
	)

	webhookDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_webhook_deliveries_total",
			Help: "Total number of webhook POSTs by outcome",
		},
		[]string{"status"},
	)

	webhookDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gateway_webhook_delivery_duration_seconds",
			Help:    "Duration of webhook POSTs in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	sessionReady = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gateway_session_ready",
			Help: "1 when the WhatsApp session is logged in and usable",
		},
	)
)

func RecordSend(err error) {
	if err != nil {
		messagesSent.WithLabelValues("failed").Inc()
		return
	}
	messagesSent.WithLabelValues("sent").Inc()
}

func RecordInbound() {
	messagesReceived.Inc()
}

func RecordWebhookDelivery(status string, took time.Duration) {
	webhookDeliveries.WithLabelValues(status).Inc()
	webhookDuration.Observe(took.Seconds())
}

func SetSessionReady(ready bool) {
	if ready {
		sessionReady.Set(1)
		return
	}
	sessionReady.Set(0)
}
