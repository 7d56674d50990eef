package led

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "graylogic_led"

var (
	commandsAccepted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "commands",
		Name:      "accepted_total",
		Help:      "Commands decoded and enqueued, per command kind",
	}, []string{"kind"})

	commandsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "commands",
		Name:      "rejected_total",
		Help:      "Commands dropped as malformed or out of range, per command kind",
	}, []string{"kind"})

	channelFull = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "channel",
		Name:      "full_total",
		Help:      "Updates dropped because the update channel was full",
	})

	updatesApplied = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "render",
		Name:      "updates_applied_total",
		Help:      "Updates taken from the channel and committed",
	})

	persistFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "persistence",
		Name:      "failures_total",
		Help:      "SaveAll calls with at least one failed write or commit",
	})

	publishFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "publish",
		Name:      "failures_total",
		Help:      "State publishes that failed, per state field",
	}, []string{"field"})

	// Current canonical state.
	statePower = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: "state",
		Name:      "power",
		Help:      "1 when the light is on",
	})

	stateHue = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: "state",
		Name:      "hue",
		Help:      "Configured hue in degrees",
	})

	stateBrightness = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: "state",
		Name:      "brightness",
		Help:      "Configured brightness",
	})

	stateMode = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: "state",
		Name:      "mode",
		Help:      "Configured mode (1 blink, 2 hue_rainbow)",
	})
)

// recordState updates the state gauges.
func recordState(s LightState) {
	statePower.Set(float64(boolU8(s.Power)))
	stateHue.Set(float64(s.Hue))
	stateBrightness.Set(float64(s.Brightness))
	stateMode.Set(float64(s.Mode))
}
