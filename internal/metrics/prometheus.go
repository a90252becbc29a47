// Package metrics реализует экспорт метрик в Prometheus
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus метрики
var (
	// RequestsTotal общее количество запросов
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "runaway_requests_total",
			Help: "Total number of requests processed",
		},
		[]string{"endpoint", "method", "status"},
	)

	// RequestDuration длительность запросов
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "runaway_request_duration_seconds",
			Help:    "Request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"endpoint", "method"},
	)

	// EstimationsTotal количество запусков оценки по исходу
	EstimationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "runaway_estimations_total",
			Help: "Total number of trigger temperature estimations by outcome",
		},
		[]string{"outcome"},
	)

	// EstimationLatency время построения KDE и поиска моды
	EstimationLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "runaway_estimation_latency_seconds",
			Help:    "Estimation computation latency in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .025, .05, .1},
		},
	)

	// RiskQueriesTotal количество запросов риска по уровню
	RiskQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "runaway_risk_queries_total",
			Help: "Total number of exceedance probability queries by risk tier",
		},
		[]string{"tier"},
	)

	// ModelUnavailable запросы, для которых не нашлось модели
	ModelUnavailable = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "runaway_model_unavailable_total",
			Help: "Total number of queries answered without a usable model",
		},
		[]string{"reason"},
	)

	// ModeTemperature последняя оценка наиболее вероятной температуры
	ModeTemperature = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "runaway_mode_temperature_celsius",
			Help: "Most likely trigger temperature from the last successful estimation",
		},
	)

	// Bandwidth ширина окна последней модели
	Bandwidth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "runaway_bandwidth_celsius",
			Help: "KDE bandwidth of the last successful estimation",
		},
	)

	// SampleSize размер выборки последней модели
	SampleSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "runaway_sample_size",
			Help: "Number of temperatures in the last successful estimation",
		},
	)

	// SnapshotReloads сбросы закэшированного результата
	SnapshotReloads = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "runaway_snapshot_reloads_total",
			Help: "Total number of result snapshot invalidations",
		},
	)

	// ActiveGoroutines количество активных горутин
	ActiveGoroutines = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "runaway_active_goroutines",
			Help: "Number of active goroutines",
		},
	)
)

// UpdateEstimationMetrics обновляет метрики после успешной оценки
func UpdateEstimationMetrics(mode, bandwidth float64, sampleSize int) {
	EstimationsTotal.WithLabelValues("ok").Inc()
	ModeTemperature.Set(mode)
	Bandwidth.Set(bandwidth)
	SampleSize.Set(float64(sampleSize))
}
