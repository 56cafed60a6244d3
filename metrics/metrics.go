// Package metrics exports decoder diagnostics to Prometheus.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "altusrx"

// Metrics counts frames and resynchronizations per channel. It satisfies
// channel.Observer and is safe for concurrent use by every channel worker.
type Metrics struct {
	frames  *prometheus.CounterVec // complete messages by checksum result
	resyncs *prometheus.CounterVec // resynchronize requests, by whether a message was dropped
}

// New registers the collectors with reg. A nil reg uses the default
// registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		frames: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Decoded messages by carrier frequency and checksum result",
		}, []string{"freq", "result"}),
		resyncs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resyncs_total",
			Help:      "Resynchronize requests by carrier frequency and whether a message in progress was abandoned",
		}, []string{"freq", "abandoned"}),
	}
}

// FreqLabel formats a carrier frequency in MHz.
func FreqLabel(freq float64) string {
	return strconv.FormatFloat(freq/1e6, 'f', 3, 64)
}

func (m *Metrics) Frame(freq float64, valid bool) {
	result := "fail"
	if valid {
		result = "pass"
	}
	m.frames.WithLabelValues(FreqLabel(freq), result).Inc()
}

func (m *Metrics) Resync(freq float64, abandoned bool) {
	m.resyncs.WithLabelValues(FreqLabel(freq), strconv.FormatBool(abandoned)).Inc()
}
