// Package metrics exposes node client and classification activity to Prometheus.
package metrics

import (
	"math"
	"net/http"
	"time"

	"github.com/NethermindEth/accountcheck/checker"
	"github.com/NethermindEth/accountcheck/clients/starknet"
	"github.com/NethermindEth/accountcheck/db"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRegistry returns a registry with the Go runtime and build info collectors.
func NewRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewBuildInfoCollector())
	registry.MustRegister(collectors.NewGoCollector())
	return registry
}

func Handler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
}

func MakeGatewayMetrics(registerer prometheus.Registerer) starknet.EventListener {
	requestLatencies := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "starknet",
		Subsystem: "client",
		Name:      "request_latency",
	}, []string{"method", "status"})
	registerer.MustRegister(requestLatencies)
	return &starknet.SelectiveListener{
		OnResponseCb: func(method string, err error, took time.Duration) {
			status := "ok"
			if err != nil {
				status = "error"
			}
			requestLatencies.WithLabelValues(method, status).Observe(took.Seconds())
		},
	}
}

func MakeCheckerMetrics(registerer prometheus.Registerer) checker.EventListener {
	classifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "checker",
		Name:      "classifications_total",
	}, []string{"type"})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "checker",
		Name:      "classification_latency",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
	})
	registerer.MustRegister(classifications, latency)
	return &checker.SelectiveListener{
		OnClassifiedCb: func(kind checker.Kind, took time.Duration) {
			classifications.WithLabelValues(kind.String()).Inc()
			latency.Observe(took.Seconds())
		},
	}
}

func MakeDBMetrics(registerer prometheus.Registerer) db.EventListener {
	latencyBuckets := []float64{
		25,
		50,
		75,
		100,
		250,
		500,
		1000, // 1ms
		2000,
		5000,
		10000,
		50000,
		500000,
		math.Inf(0),
	}
	readLatencyHistogram := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "db",
		Name:      "read_latency",
		Buckets:   latencyBuckets,
	})
	writeLatencyHistogram := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "db",
		Name:      "write_latency",
		Buckets:   latencyBuckets,
	})
	registerer.MustRegister(readLatencyHistogram, writeLatencyHistogram)
	return &db.SelectiveListener{
		OnIOCb: func(write bool, duration time.Duration) {
			if write {
				writeLatencyHistogram.Observe(float64(duration.Microseconds()))
			} else {
				readLatencyHistogram.Observe(float64(duration.Microseconds()))
			}
		},
	}
}
