package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kisan_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"route", "code"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kisan_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	serviceCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kisan_service_calls_total",
		Help: "Outbound calls to external services.",
	}, []string{"service", "status"})

	serviceDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kisan_service_call_duration_seconds",
		Help:    "Outbound call latency by service.",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	}, []string{"service"})

	circuitState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "kisan_circuit_breaker_state",
		Help: "Circuit breaker state per service (0 closed, 1 half-open, 2 open).",
	}, []string{"service"})

	circuitFailures = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "kisan_circuit_breaker_failures",
		Help: "Consecutive failures seen by the circuit breaker.",
	}, []string{"service"})

	generations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kisan_generations_total",
		Help: "Reply generations by provider and outcome.",
	}, []string{"provider", "status"})

	generationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kisan_generation_duration_seconds",
		Help:    "Reply generation latency by provider.",
		Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 15},
	}, []string{"provider"})

	dialogueTurns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kisan_dialogue_turns_total",
		Help: "Spoken responses rendered, by kind (welcome, reply, fallback, error, language).",
	}, []string{"kind"})

	callStatuses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kisan_call_status_total",
		Help: "Call status callbacks received.",
	}, []string{"status"})
)

// RecordRequest records an HTTP request
func RecordRequest(route string, code int, latency time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	requestsTotal.WithLabelValues(route, strconv.Itoa(code)).Inc()
	requestDuration.WithLabelValues(route).Observe(latency.Seconds())
}

// RecordServiceCall records an outbound service call
func RecordServiceCall(service string, success bool, latency time.Duration) {
	serviceCalls.WithLabelValues(service, outcome(success)).Inc()
	serviceDuration.WithLabelValues(service).Observe(latency.Seconds())
}

// UpdateCircuitBreaker updates circuit breaker metrics
func UpdateCircuitBreaker(service, state string, failures int64) {
	v := 0.0
	switch state {
	case "half-open":
		v = 1
	case "open":
		v = 2
	}
	circuitState.WithLabelValues(service).Set(v)
	circuitFailures.WithLabelValues(service).Set(float64(failures))
}

// RecordGeneration records one provider attempt at generating a reply
func RecordGeneration(provider string, success bool, latency time.Duration) {
	generations.WithLabelValues(provider, outcome(success)).Inc()
	generationDuration.WithLabelValues(provider).Observe(latency.Seconds())
}

// RecordTurn counts a rendered spoken response
func RecordTurn(kind string) {
	dialogueTurns.WithLabelValues(kind).Inc()
}

// RecordCallStatus counts a status callback
func RecordCallStatus(status string) {
	callStatuses.WithLabelValues(status).Inc()
}

// Handler exposes the default registry in Prometheus text format
func Handler() http.Handler {
	return promhttp.Handler()
}

func outcome(success bool) string {
	if success {
		return "success"
	}
	return "error"
}
