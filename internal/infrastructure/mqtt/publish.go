package mqtt

import (
	"fmt"
)

// Maximum payload size for MQTT messages (1MB).
const maxPayloadSize = 1 << 20

// PublishCallback receives the outcome of an asynchronous publish.
// err is nil once the broker has acknowledged the message (or, for QoS 0,
// once it has been written to the network).
type PublishCallback func(err error)

// PublishAsync hands a message to the client without waiting for
// acknowledgement.
//
// Validation and connection errors are returned immediately. Delivery
// errors (broker rejection, timeout) are reported to done from a separate
// goroutine, or logged via the client logger when done is nil.
//
// Use from latency-sensitive callers that must never block on the network.
func (c *Client) PublishAsync(topic string, payload []byte, qos byte, retained bool, done PublishCallback) error {
	if err := c.validatePublish(topic, payload, qos); err != nil {
		return err
	}

	token := c.client.Publish(topic, qos, retained, payload)

	go func() {
		var err error
		if !token.WaitTimeout(defaultPublishTimeout) {
			err = fmt.Errorf("%w: timeout after %v", ErrPublishFailed, defaultPublishTimeout)
		} else if tokenErr := token.Error(); tokenErr != nil {
			err = fmt.Errorf("%w: %w", ErrPublishFailed, tokenErr)
		}

		if done != nil {
			done(err)
			return
		}
		if err != nil {
			if logger := c.getLogger(); logger != nil {
				logger.Error("MQTT async publish failed", "topic", topic, "error", err)
			}
		}
	}()

	return nil
}

func (c *Client) validatePublish(topic string, payload []byte, qos byte) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if qos > maxQoS {
		return ErrInvalidQoS
	}
	if len(payload) > maxPayloadSize {
		return fmt.Errorf("%w: payload size %d exceeds maximum %d bytes", ErrPublishFailed, len(payload), maxPayloadSize)
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}
	return nil
}
