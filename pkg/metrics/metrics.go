// Package metrics exposes the correlator's Prometheus counters.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Observer records a value under optional label values.
type Observer interface {
	Observe(val float64, labels ...string)
	prometheus.Collector
}

// Metrics groups the counters updated by the correlator.
type Metrics struct {
	AlertsSent     Observer
	AlertsDropped  Observer
	WarningsAdded  Observer
	MutesApplied   Observer
	AFKPurges      Observer
	MessagesCached Observer
}

// Collectors returns every collector for registration.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.AlertsSent,
		m.AlertsDropped,
		m.WarningsAdded,
		m.MutesApplied,
		m.AFKPurges,
		m.MessagesCached,
	}
}

// New builds the correlator metrics. They are not registered anywhere.
func New() *Metrics {
	return &Metrics{
		AlertsSent: NewPromCounterVec(
			prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "pancymod",
					Subsystem: "alerts",
					Name:      "sent",
					Help:      "Alerts delivered to a log channel, by kind.",
				},
				[]string{"kind"},
			),
		),
		AlertsDropped: NewPromCounterVec(
			prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "pancymod",
					Subsystem: "alerts",
					Name:      "dropped",
					Help:      "Alerts that were not delivered, by reason.",
				},
				[]string{"reason"},
			),
		),
		WarningsAdded: NewPromCounter(
			prometheus.NewCounter(
				prometheus.CounterOpts{
					Namespace: "pancymod",
					Subsystem: "ledger",
					Name:      "warnings",
					Help:      "Warnings appended to member ledgers.",
				},
			),
		),
		MutesApplied: NewPromCounter(
			prometheus.NewCounter(
				prometheus.CounterOpts{
					Namespace: "pancymod",
					Subsystem: "ledger",
					Name:      "mutes",
					Help:      "Mutes applied after a ledger crossed the warning threshold.",
				},
			),
		),
		AFKPurges: NewPromCounter(
			prometheus.NewCounter(
				prometheus.CounterOpts{
					Namespace: "pancymod",
					Subsystem: "voice",
					Name:      "afk_purges",
					Help:      "Members disconnected after idling muted or deafened.",
				},
			),
		),
		MessagesCached: NewPromCounter(
			prometheus.NewCounter(
				prometheus.CounterOpts{
					Namespace: "pancymod",
					Subsystem: "cache",
					Name:      "messages",
					Help:      "Messages recorded in the event cache.",
				},
			),
		),
	}
}
