package led

import (
	"context"
	"time"

	"github.com/nerrad567/gray-logic-led/internal/driver"
	"github.com/nerrad567/gray-logic-led/internal/infrastructure/logging"
)

// DefaultTick is the render tick used when none is configured.
const DefaultTick = 10 * time.Millisecond

// Observer is notified with each committed state, on the loop goroutine.
// It must not block.
type Observer func(LightState)

// Loop is the single consumer of the update channel. It owns the renderer,
// the light driver and every canonical state change.
type Loop struct {
	tick      time.Duration
	channel   *Channel
	store     *Store
	renderer  *Renderer
	driver    driver.Driver
	persister *Persister
	publisher *Publisher
	observers []Observer
	logger    *logging.Logger

	driverFailing bool
}

// NewLoop creates the render loop. The renderer starts from the store's
// current state.
//
// Parameters:
//   - tick: Render tick length (DefaultTick if zero)
//   - subsample: Ticks between rainbow advances (DefaultRainbowSubsample if zero)
//   - channel, store: Shared with the Controller
//   - drv: Light output (driver.Nop if nil)
//   - persister: Durable state writer
//   - publisher: State topic publisher
//   - logger: Logger instance
func NewLoop(tick time.Duration, subsample int, channel *Channel, store *Store,
	drv driver.Driver, persister *Persister, publisher *Publisher, logger *logging.Logger) *Loop {
	if tick <= 0 {
		tick = DefaultTick
	}
	if drv == nil {
		drv = driver.Nop{}
	}
	return &Loop{
		tick:      tick,
		channel:   channel,
		store:     store,
		renderer:  NewRenderer(tick, subsample, store.Snapshot()),
		driver:    drv,
		persister: persister,
		publisher: publisher,
		logger:    logger.With("component", "render"),
	}
}

// AddObserver registers fn for committed states. Call before Run.
func (l *Loop) AddObserver(fn Observer) {
	l.observers = append(l.observers, fn)
}

// Renderer exposes the state machine for inspection.
func (l *Loop) Renderer() *Renderer {
	return l.renderer
}

// Run ticks until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.tick)
	defer ticker.Stop()

	l.logger.Info("render loop started", "tick", l.tick.String())

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("render loop stopped")
			return ctx.Err()
		case <-ticker.C:
			l.Tick(ctx)
		}
	}
}

// Tick performs one render cycle.
//
// At most one update is taken per tick. The frame is always driven from the
// renderer, which has already been reset when an update arrived. Only then
// is the update made canonical, saved and published, in that order.
func (l *Loop) Tick(ctx context.Context) {
	next, arrived := l.channel.TryDequeue()
	if arrived {
		l.renderer.Reset(next)
	}

	l.drive(l.renderer.Step())

	if !arrived {
		return
	}

	l.store.Replace(next)
	updatesApplied.Inc()
	recordState(next)

	if err := l.persister.SaveAll(ctx, next); err != nil {
		persistFailures.Inc()
	}
	// Publish failures are logged and metered by the publisher.
	_ = l.publisher.PublishState(next) //nolint:errcheck // best effort

	for _, fn := range l.observers {
		fn(next)
	}
}

func (l *Loop) drive(f driver.Frame) {
	err := l.driver.SetPixel(f.Hue, f.Saturation, f.Brightness)
	if err == nil {
		err = l.driver.Flush()
	}

	switch {
	case err != nil && !l.driverFailing:
		l.driverFailing = true
		l.logger.Error("light driver failed", "error", err)
	case err == nil && l.driverFailing:
		l.driverFailing = false
		l.logger.Info("light driver recovered")
	}
}
