// Package metrics содержит Prometheus-метрики HTTP-слоя и жизненного цикла проката.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "vidly"

// HTTPMetrics считает запросы и их длительность по шаблону маршрута.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewHTTPMetrics регистрирует HTTP-метрики в переданном регистраторе.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		return &HTTPMetrics{}
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})
	reg.MustRegister(requests, duration)
	return &HTTPMetrics{
		requests: requests,
		duration: duration,
	}
}

// ObserveRequest фиксирует завершённый запрос.
func (m *HTTPMetrics) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	if m == nil || m.requests == nil {
		return
	}
	route = normalizeLabel(route)
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// RentalMetrics считает выдачи, возвраты и отказы.
type RentalMetrics struct {
	created  prometheus.Counter
	returned prometheus.Counter
	fees     prometheus.Histogram
	rejected *prometheus.CounterVec
}

// NewRentalMetrics регистрирует метрики проката в переданном регистраторе.
func NewRentalMetrics(reg prometheus.Registerer) *RentalMetrics {
	if reg == nil {
		return &RentalMetrics{}
	}
	created := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rentals_created_total",
		Help:      "Rentals checked out.",
	})
	returned := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rentals_returned_total",
		Help:      "Rentals returned.",
	})
	fees := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "rental_fee",
		Help:      "Fees charged on return.",
		Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rentals_rejected_total",
		Help:      "Rental checkouts and returns rejected by business rules.",
	}, []string{"reason"})
	reg.MustRegister(created, returned, fees, rejected)
	return &RentalMetrics{
		created:  created,
		returned: returned,
		fees:     fees,
		rejected: rejected,
	}
}

func (m *RentalMetrics) RentalCreated() {
	if m == nil || m.created == nil {
		return
	}
	m.created.Inc()
}

func (m *RentalMetrics) RentalReturned(fee float64) {
	if m == nil || m.returned == nil {
		return
	}
	m.returned.Inc()
	m.fees.Observe(fee)
}

func (m *RentalMetrics) RentalRejected(reason string) {
	if m == nil || m.rejected == nil {
		return
	}
	m.rejected.WithLabelValues(normalizeLabel(reason)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
