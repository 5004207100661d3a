package main

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// simulationsTotal counts finished simulations by outcome.
	simulationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evacuation_simulations_total",
			Help: "Total number of simulations processed",
		},
		[]string{"outcome"},
	)

	simulationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "evacuation_simulation_seconds",
			Help:    "Time spent augmenting and searching one query",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		},
	)

	simulationSteps = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "evacuation_simulation_steps",
			Help:    "Number of trace steps recorded per simulation",
			Buckets: prometheus.ExponentialBuckets(4, 2, 12),
		},
	)

	blockedEdgesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "evacuation_blocked_edges_total",
			Help: "Edges skipped because they cross a disaster zone",
		},
	)

	sensorReadingsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "evacuation_sensor_readings_total",
			Help: "Sensor readings accepted",
		},
	)
)

func init() {
	prometheus.MustRegister(simulationsTotal)
	prometheus.MustRegister(simulationSeconds)
	prometheus.MustRegister(simulationSteps)
	prometheus.MustRegister(blockedEdgesTotal)
	prometheus.MustRegister(sensorReadingsTotal)
}
