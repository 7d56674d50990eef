package led

import "fmt"

// DefaultQueueCapacity is the update channel size used when none is configured.
const DefaultQueueCapacity = 10

// Channel is the bounded FIFO handoff between command producers and the
// render loop. Both ends are non-blocking.
type Channel struct {
	ch chan LightState
}

// NewChannel creates a channel holding up to capacity pending updates.
func NewChannel(capacity int) (*Channel, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: channel capacity %d", ErrInitialization, capacity)
	}
	return &Channel{ch: make(chan LightState, capacity)}, nil
}

// TryEnqueue offers a full replacement state. It returns false when the
// channel is full; the update is then dropped.
func (c *Channel) TryEnqueue(s LightState) bool {
	select {
	case c.ch <- s:
		return true
	default:
		return false
	}
}

// TryDequeue takes the oldest pending update, if any.
func (c *Channel) TryDequeue() (LightState, bool) {
	select {
	case s := <-c.ch:
		return s, true
	default:
		return LightState{}, false
	}
}

// Len returns the number of pending updates.
func (c *Channel) Len() int {
	return len(c.ch)
}

// Cap returns the channel capacity.
func (c *Channel) Cap() int {
	return cap(c.ch)
}
