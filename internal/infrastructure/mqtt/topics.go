package mqtt

import (
	"strings"

	"github.com/nerrad567/gray-logic-led/internal/infrastructure/config"
)

// Default topic segments.
const (
	DefaultCommandPrefix = "cmnd"
	DefaultStatePrefix   = "stat"
	DefaultDevice        = "led"
)

// availabilityField is the state field carrying online/offline.
const availabilityField = "availability"

// Topics builds the controller's topic names.
//
// Topics follow the scheme {prefix}/{device}/{field}:
//
//	topics := mqtt.NewTopics(cfg.MQTT.Topics)
//	topics.Command("power") // "cmnd/led/power"
//	topics.State("hsb")     // "stat/led/hsb"
type Topics struct {
	CommandPrefix string
	StatePrefix   string
	Device        string
}

// NewTopics creates a Topics builder from configuration, filling empty
// segments with the defaults.
func NewTopics(cfg config.MQTTTopicsConfig) Topics {
	t := Topics{
		CommandPrefix: cfg.CommandPrefix,
		StatePrefix:   cfg.StatePrefix,
		Device:        cfg.Device,
	}
	if t.CommandPrefix == "" {
		t.CommandPrefix = DefaultCommandPrefix
	}
	if t.StatePrefix == "" {
		t.StatePrefix = DefaultStatePrefix
	}
	if t.Device == "" {
		t.Device = DefaultDevice
	}
	return t
}

// Command returns the inbound command topic for a field.
//
// Example: cmnd/led/power
func (t Topics) Command(field string) string {
	return join(t.CommandPrefix, t.Device, field)
}

// State returns the outbound state topic for a field.
//
// Example: stat/led/power
func (t Topics) State(field string) string {
	return join(t.StatePrefix, t.Device, field)
}

// Availability returns the retained online/offline topic.
//
// Example: stat/led/availability
func (t Topics) Availability() string {
	return t.State(availabilityField)
}

func join(segments ...string) string {
	return strings.Join(segments, "/")
}
