package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	WebhookRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_requests_total",
			Help: "Total number of inbound webhook requests (count)",
		},
		[]string{"status"},
	)

	ProcessingMessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "processing_messages_total",
			Help: "Total number of messages run through receipt processing (count)",
		},
		[]string{"status"},
	)

	ProcessingDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "processing_duration_ms",
			Help:    "End-to-end receipt processing duration in milliseconds",
			Buckets: []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		},
		[]string{"status"},
	)

	ExtractionSourceTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "extraction_source_total",
			Help: "Total number of extractions by winning source (count)",
		},
		[]string{"source"},
	)

	ExtractionConfidence = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "extraction_confidence",
			Help:    "Confidence of the extraction result used for the receipt (ratio, 0.0 to 1.0)",
			Buckets: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
		},
		[]string{"source"},
	)

	DocAIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docai_requests_total",
			Help: "Total number of requests to the document understanding provider (count)",
		},
		[]string{"status"},
	)

	DocAIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "docai_request_duration_ms",
			Help:    "Duration of document understanding requests in milliseconds",
			Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
		},
		[]string{"status"},
	)

	DedupChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dedup_checks_total",
			Help: "Total number of duplicate checks by outcome (count)",
		},
		[]string{"outcome"},
	)

	ReceiptsCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "receipts_created_total",
			Help: "Total number of receipts persisted (count)",
		},
		[]string{"category"},
	)

	RateLimitRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limit_requests_total",
			Help: "Total number of requests checked against rate limit (count)",
		},
		[]string{"status"},
	)

	FallbackUsageTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fallback_usage_total",
			Help: "Total number of times fallback strategies were used (count)",
		},
		[]string{"component", "strategy", "reason"},
	)

	CircuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open) (state code)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker (count)",
		},
		[]string{"name", "state"},
	)

	CircuitBreakerFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_failures_total",
			Help: "Total number of failures through circuit breaker (count)",
		},
		[]string{"name"},
	)

	RetryAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retry_attempts_total",
			Help: "Total number of retry attempts (count)",
		},
		[]string{"component", "operation"},
	)

	KafkaMessagesWrittenTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_written_total",
			Help: "Total number of messages written to Kafka (count)",
		},
		[]string{"topic"},
	)

	KafkaWriteDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kafka_write_duration_ms",
			Help:    "Duration of writing messages to Kafka in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"topic"},
	)

	DatabaseQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "database_queries_total",
			Help: "Total number of database queries (count)",
		},
		[]string{"database", "operation", "status"},
	)

	DatabaseQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "database_query_duration_ms",
			Help:    "Duration of database queries in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		},
		[]string{"database", "operation"},
	)
)

func RegisterIngestMetrics() {
	prometheus.MustRegister(WebhookRequestsTotal)
	prometheus.MustRegister(ProcessingMessagesTotal)
	prometheus.MustRegister(ProcessingDuration)
	prometheus.MustRegister(ExtractionSourceTotal)
	prometheus.MustRegister(ExtractionConfidence)
	prometheus.MustRegister(DocAIRequestsTotal)
	prometheus.MustRegister(DocAIRequestDuration)
	prometheus.MustRegister(DedupChecksTotal)
	prometheus.MustRegister(ReceiptsCreatedTotal)
	prometheus.MustRegister(RateLimitRequestsTotal)
	prometheus.MustRegister(FallbackUsageTotal)
	prometheus.MustRegister(RetryAttemptsTotal)
	prometheus.MustRegister(DatabaseQueriesTotal)
	prometheus.MustRegister(DatabaseQueryDuration)
}

func RegisterBrokerMetrics() {
	prometheus.MustRegister(KafkaMessagesWrittenTotal)
	prometheus.MustRegister(KafkaWriteDuration)
}

func RegisterCircuitBreakerMetrics() {
	prometheus.MustRegister(CircuitBreakerState)
	prometheus.MustRegister(CircuitBreakerRequests)
	prometheus.MustRegister(CircuitBreakerFailures)
}

func ObserveProcessingDuration(duration time.Duration, status string) {
	ProcessingDuration.WithLabelValues(status).Observe(float64(duration.Milliseconds()))
}

func ObserveDocAIDuration(duration time.Duration, status string) {
	DocAIRequestDuration.WithLabelValues(status).Observe(float64(duration.Milliseconds()))
}

func IncExtractionSource(source string, confidence float64) {
	ExtractionSourceTotal.WithLabelValues(source).Inc()
	ExtractionConfidence.WithLabelValues(source).Observe(confidence)
}

func IncDedupCheck(outcome string) {
	DedupChecksTotal.WithLabelValues(outcome).Inc()
}

func IncReceiptCreated(category string) {
	ReceiptsCreatedTotal.WithLabelValues(category).Inc()
}

func IncKafkaMessagesWritten(topic string) {
	KafkaMessagesWrittenTotal.WithLabelValues(topic).Inc()
}

func ObserveKafkaWriteDuration(topic string, duration time.Duration) {
	KafkaWriteDuration.WithLabelValues(topic).Observe(float64(duration.Milliseconds()))
}

func IncDatabaseQuery(database, operation, status string) {
	DatabaseQueriesTotal.WithLabelValues(database, operation, status).Inc()
}

func ObserveDatabaseQueryDuration(database, operation string, duration time.Duration) {
	DatabaseQueryDuration.WithLabelValues(database, operation).Observe(float64(duration.Milliseconds()))
}
