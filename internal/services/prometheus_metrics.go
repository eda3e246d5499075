package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type PrometheusMetrics struct {
	memoryRecomputes    *prometheus.CounterVec
	memoryDuration      prometheus.Histogram
	adviceRequests      *prometheus.CounterVec
	adviceDuration      prometheus.Histogram
	anomaliesDetected   prometheus.Counter
	alertsGenerated     *prometheus.CounterVec
	actionItemsParsed   prometheus.Histogram
	circuitBreakerState *prometheus.GaugeVec
	promptLength        prometheus.Histogram
}

func NewPrometheusMetrics() MetricsRecorderInterface {
	return &PrometheusMetrics{
		memoryRecomputes: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "financial_memory_recomputes_total",
				Help: "Total number of financial memory recomputations",
			},
			[]string{"trigger", "status"},
		),
		memoryDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "financial_memory_compute_duration_milliseconds",
				Help:    "Financial memory computation duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		adviceRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "advice_requests_total",
				Help: "Total number of advice generation requests",
			},
			[]string{"status"},
		),
		adviceDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "advice_request_duration_seconds",
				Help:    "Advice generation duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		anomaliesDetected: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "expense_anomalies_detected_total",
				Help: "Total number of expense anomalies detected",
			},
		),
		alertsGenerated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "alerts_generated_total",
				Help: "Total number of alerts generated by severity",
			},
			[]string{"severity"},
		),
		actionItemsParsed: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "action_items_parsed",
				Help:    "Number of action items extracted per advisor reply",
				Buckets: prometheus.LinearBuckets(0, 2, 10),
			},
		),
		circuitBreakerState: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "circuit_breaker_state",
				Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
			},
			[]string{"service"},
		),
		promptLength: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "advisor_prompt_length_bytes",
				Help:    "Length of assembled advisor prompts in bytes",
				Buckets: prometheus.ExponentialBuckets(256, 2, 10),
			},
		),
	}
}

func (m *PrometheusMetrics) ObserveMemoryRecompute(trigger, status string, duration time.Duration) {
	m.memoryRecomputes.WithLabelValues(trigger, status).Inc()
	m.memoryDuration.Observe(float64(duration.Milliseconds()))
}

func (m *PrometheusMetrics) ObserveAdviceRequest(status string, duration time.Duration) {
	m.adviceRequests.WithLabelValues(status).Inc()
	m.adviceDuration.Observe(duration.Seconds())
}

func (m *PrometheusMetrics) AddAnomaliesDetected(count int) {
	m.anomaliesDetected.Add(float64(count))
}

func (m *PrometheusMetrics) AddAlertGenerated(severity string) {
	m.alertsGenerated.WithLabelValues(severity).Inc()
}

func (m *PrometheusMetrics) ObserveActionItemsParsed(count int) {
	m.actionItemsParsed.Observe(float64(count))
}

func (m *PrometheusMetrics) SetCircuitBreakerState(service string, state float64) {
	m.circuitBreakerState.WithLabelValues(service).Set(state)
}

func (m *PrometheusMetrics) ObservePromptLength(bytes int) {
	m.promptLength.Observe(float64(bytes))
}
