package led

import (
	"errors"
	"fmt"
	"time"

	"github.com/nerrad567/gray-logic-led/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-led/internal/infrastructure/mqtt"
)

// commandQoS is the subscription QoS for command topics.
const commandQoS byte = 0

// CommandSource is the part of the MQTT client the controller needs.
// *mqtt.Client implements it.
type CommandSource interface {
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
	SetOnConnect(callback func())
}

// Subscription binds a command topic to its kind.
type Subscription struct {
	Topic string
	Kind  CommandKind
}

// Subscriptions returns the command topic table in subscription order.
func Subscriptions(topics mqtt.Topics) []Subscription {
	subs := make([]Subscription, 0, len(Kinds))
	for _, k := range Kinds {
		subs = append(subs, Subscription{Topic: topics.Command(string(k)), Kind: k})
	}
	return subs
}

// Controller turns inbound commands into full-state updates on the channel.
//
// Submit may be called from any goroutine. Each call reads one snapshot of
// the canonical state, so two commands decoded before the render loop takes
// either will both start from the same snapshot and the later one wins.
type Controller struct {
	tick      time.Duration
	store     *Store
	channel   *Channel
	publisher *Publisher
	topics    mqtt.Topics
	logger    *logging.Logger
}

// NewController creates a controller feeding channel from store snapshots.
func NewController(tick time.Duration, store *Store, channel *Channel,
	publisher *Publisher, topics mqtt.Topics, logger *logging.Logger) *Controller {
	if tick <= 0 {
		tick = DefaultTick
	}
	return &Controller{
		tick:      tick,
		store:     store,
		channel:   channel,
		publisher: publisher,
		topics:    topics,
		logger:    logger.With("component", "controller"),
	}
}

// Submit decodes payload for kind, applies it to a snapshot of the
// canonical state and offers the result to the render loop.
//
// Returns:
//   - ErrUnknownCommand or ErrDecode (possibly with ErrOutOfRange) for bad input
//   - ErrChannelFull if the render loop has not drained the channel
func (c *Controller) Submit(kind CommandKind, payload []byte) error {
	cmd, err := Decode(kind, payload)
	if err != nil {
		commandsRejected.WithLabelValues(string(kind)).Inc()
		return err
	}

	next := cmd.Apply(c.store.Snapshot(), c.tick)
	if !c.channel.TryEnqueue(next) {
		channelFull.Inc()
		return fmt.Errorf("%w: %d pending", ErrChannelFull, c.channel.Len())
	}

	commandsAccepted.WithLabelValues(string(kind)).Inc()
	return nil
}

// Start subscribes to every command topic and publishes the current state
// once. Afterwards the state is republished on every reconnect.
func (c *Controller) Start(source CommandSource) error {
	for _, sub := range Subscriptions(c.topics) {
		if err := source.Subscribe(sub.Topic, commandQoS, c.handler(sub.Kind)); err != nil {
			return fmt.Errorf("%w: subscribing to %s: %w", ErrInitialization, sub.Topic, err)
		}
		c.logger.Info("subscribed", "topic", sub.Topic)
	}

	source.SetOnConnect(func() {
		c.logger.Info("broker connected, republishing state")
		c.Republish()
	})
	c.Republish()
	return nil
}

// Republish publishes the current canonical state.
func (c *Controller) Republish() {
	s := c.store.Snapshot()
	if err := c.publisher.PublishState(s); err != nil {
		c.logger.Warn("state sync incomplete", "error", err)
	}
}

// handler returns the MQTT callback for one command kind. Failures are
// logged here and never reach the sender.
func (c *Controller) handler(kind CommandKind) mqtt.MessageHandler {
	return func(topic string, payload []byte) error {
		err := c.Submit(kind, payload)
		switch {
		case err == nil:
		case errors.Is(err, ErrChannelFull):
			c.logger.Error("update dropped", "topic", topic, "error", err)
		default:
			c.logger.Warn("command rejected", "topic", topic, "payload", logPayload(payload), "error", err)
		}
		return nil
	}
}

func logPayload(p []byte) string {
	if len(p) > maxPayloadLen {
		return string(p[:maxPayloadLen]) + "..."
	}
	return string(p)
}
