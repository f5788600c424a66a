package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Значения метки result для CartOperations.
const (
	ResultOK       = "ok"
	ResultRejected = "rejected" // бизнес-отказ (нет в корзине, нет на складе)
	ResultFailed   = "failed"   // сбой склада или хранилища
	ResultNoop     = "noop"
)

var (
	CartOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cart_operations_total",
			Help: "Cart operations by outcome",
		},
		[]string{"op", "result"},
	)
	CartEntries = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "cart_entries",
			Help: "Number of entries currently in cart",
		},
	)
	CartNotices = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cart_notices_total",
			Help: "User-facing notices emitted by the cart",
		},
		[]string{"notice"},
	)
)

var (
	InventoryRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_requests_total",
			Help: "Requests to the inventory service",
		},
		[]string{"endpoint", "status"}, // endpoint: stock|products; status: HTTP-код или error
	)
	InventoryLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "inventory_request_duration_seconds",
			Help:    "Inventory request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)
)

var (
	KafkaMessagesConsumed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_consumed_total",
			Help: "Number of messages fetched from Kafka",
		},
		[]string{"topic"},
	)
	KafkaMessagesProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_processed_total",
			Help: "Number of messages processed successfully",
		},
		[]string{"topic"},
	)
	KafkaMessagesFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_failed_total",
			Help: "Number of messages failed to process",
		},
		[]string{"topic"},
	)
)

var registerOnce sync.Once

// MustRegister — регистрирует метрики в дефолтном реестре; повторный вызов безопасен.
func MustRegister() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			CartOperations, CartEntries, CartNotices,
			InventoryRequests, InventoryLatency,
			KafkaMessagesConsumed, KafkaMessagesProcessed, KafkaMessagesFailed,
		)
	})
}
