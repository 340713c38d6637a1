package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus метрики worker'а. Экспортируются на /metrics
// (см. cmd/stevedore-worker).
var (
	// OrdersConsumed — всего сообщений, принятых из очереди приказов.
	OrdersConsumed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "stevedore",
		Name:      "orders_consumed_total",
		Help:      "Messages consumed from the order queue.",
	})

	// OrdersDropped — недекодируемые приказы, выброшенные без результата.
	OrdersDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "stevedore",
		Name:      "orders_dropped_total",
		Help:      "Orders dropped because the message body could not be decoded.",
	})

	// ResolutionFailures — ошибки резолва по классам
	// (unknown_project, manifest_unreadable, unknown_command).
	ResolutionFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stevedore",
		Name:      "resolution_failures_total",
		Help:      "Orders that failed before execution, by failure kind.",
	}, []string{"kind"})

	// ExecutionsTotal — запуски команд по исходу (ok / failed).
	ExecutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stevedore",
		Name:      "executions_total",
		Help:      "Commands executed, by outcome.",
	}, []string{"outcome"})

	// ExecutionDuration — длительность выполнения команды.
	ExecutionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "stevedore",
		Name:      "execution_duration_seconds",
		Help:      "Wall-clock duration of command execution.",
		Buckets:   prometheus.ExponentialBuckets(0.01, 4, 10),
	})

	// ResultsPublished — успешно опубликованные результаты.
	ResultsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "stevedore",
		Name:      "results_published_total",
		Help:      "Result messages published to log queues.",
	})

	// PublishFailures — неудачные публикации результатов.
	PublishFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "stevedore",
		Name:      "publish_failures_total",
		Help:      "Failed attempts to publish a result message.",
	})
)
