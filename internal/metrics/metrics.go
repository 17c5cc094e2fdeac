// Package metrics holds the Prometheus counters for the bot.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups every counter the command layer updates. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	// Answers counts submissions. Labels: outcome (correct, already-answered,
	// incorrect, locked, not-found)
	Answers *prometheus.CounterVec

	// Unlocks counts announced unlocks. Labels: kind (mainline, hidden, special)
	Unlocks *prometheus.CounterVec

	// ChannelBusy counts commands refused because a channel was streaming.
	ChannelBusy prometheus.Counter

	// DeliveryFailures counts messages that could not be sent.
	DeliveryFailures prometheus.Counter
}

// New registers the counters with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Answers: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inference",
			Name:      "answers_total",
			Help:      "Answer submissions by outcome",
		}, []string{"outcome"}),
		Unlocks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inference",
			Name:      "unlocks_total",
			Help:      "Chapter unlocks announced by kind",
		}, []string{"kind"}),
		ChannelBusy: f.NewCounter(prometheus.CounterOpts{
			Namespace: "inference",
			Name:      "channel_busy_total",
			Help:      "Commands refused while a channel was streaming",
		}),
		DeliveryFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: "inference",
			Name:      "delivery_failures_total",
			Help:      "Messages that failed to reach the channel",
		}),
	}
}

func (m *Metrics) Answer(outcome string) {
	if m == nil {
		return
	}
	m.Answers.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Unlock(kind string) {
	if m == nil {
		return
	}
	m.Unlocks.WithLabelValues(kind).Inc()
}

func (m *Metrics) Busy() {
	if m == nil {
		return
	}
	m.ChannelBusy.Inc()
}

func (m *Metrics) DeliveryFailed() {
	if m == nil {
		return
	}
	m.DeliveryFailures.Inc()
}

// Handler serves the registry in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
