package rpc

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const resultOK = "ok"

type Metrics struct {
	registry      *prometheus.Registry
	verifications *prometheus.CounterVec
	cacheHits     prometheus.Counter
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "verifier",
			Name:      "verifications_total",
			Help:      "Number of verification requests by result (ok or error kind).",
		}, []string{"result"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "verifier",
			Name:      "cache_hits_total",
			Help:      "Number of verification requests answered from the result cache.",
		}),
	}
	m.registry.MustRegister(m.verifications, m.cacheHits)

	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
