package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pthm/listctl"
)

// metrics counts list requests by view and selected layout.
type metrics struct {
	registry *prometheus.Registry
	binds    *prometheus.CounterVec
	failures *prometheus.CounterVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		binds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "listctl_binds_total",
				Help: "Total number of list control trees bound, by view and selected layout.",
			}, []string{"view", "layout"}),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "listctl_bind_failures_total",
				Help: "Total number of list control trees that failed to bind.",
			}, []string{"view"}),
	}
	m.registry.MustRegister(m.binds, m.failures)
	return m
}

func (m *metrics) observe(view string, b *listctl.Binder, err error) {
	if err != nil {
		m.failures.WithLabelValues(view).Inc()
		return
	}
	layout := "none"
	if l := b.SelectedLayout(); l != nil {
		layout = l.Value()
	}
	m.binds.WithLabelValues(view, layout).Inc()
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
