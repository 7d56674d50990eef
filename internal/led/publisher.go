package led

import (
	"errors"
	"fmt"

	"github.com/nerrad567/gray-logic-led/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-led/internal/infrastructure/mqtt"
)

// State topic fields, in publish order.
const (
	fieldHSB   = "hsb"
	fieldPower = "power"
	fieldMode  = "mode"
)

// stateQoS is used for every state message. State messages are retained.
const stateQoS byte = 1

// StatePublisher is the part of the MQTT client the publisher needs.
// *mqtt.Client implements it.
type StatePublisher interface {
	PublishAsync(topic string, payload []byte, qos byte, retained bool, done mqtt.PublishCallback) error
}

// Publisher emits the canonical state on the retained state topics.
type Publisher struct {
	client StatePublisher
	topics mqtt.Topics
	logger *logging.Logger
}

// NewPublisher creates a publisher writing to topics through client.
func NewPublisher(client StatePublisher, topics mqtt.Topics, logger *logging.Logger) *Publisher {
	return &Publisher{
		client: client,
		topics: topics,
		logger: logger.With("component", "publisher"),
	}
}

// PublishState sends hsb, power and mode without waiting for the broker.
//
// Messages the client refuses outright are reported in the returned error,
// wrapped in ErrPublish. Acknowledgement failures arrive later and are only
// logged. Nothing is retried; the next update or reconnect republishes.
func (p *Publisher) PublishState(s LightState) error {
	msgs := []struct {
		field   string
		payload string
	}{
		{fieldHSB, s.HSBPayload()},
		{fieldPower, s.PowerPayload()},
		{fieldMode, s.ModePayload()},
	}

	var errs []error
	for _, m := range msgs {
		topic := p.topics.State(m.field)
		field := m.field
		err := p.client.PublishAsync(topic, []byte(m.payload), stateQoS, true, func(err error) {
			if err != nil {
				publishFailures.WithLabelValues(field).Inc()
				p.logger.Error("state publish not acknowledged", "topic", topic, "error", err)
			}
		})
		if err != nil {
			publishFailures.WithLabelValues(field).Inc()
			p.logger.Error("failed to publish state", "topic", topic, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", field, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrPublish, errors.Join(errs...))
	}
	return nil
}
