package led

import (
	"time"

	"github.com/nerrad567/gray-logic-led/internal/driver"
)

// DefaultRainbowSubsample is the number of ticks between rainbow advances.
const DefaultRainbowSubsample = 3

// Phase is the renderer's current state.
type Phase uint8

const (
	PhaseOff Phase = iota
	PhaseBlinkLit
	PhaseBlinkDark
	PhaseRainbow
)

func (p Phase) String() string {
	switch p {
	case PhaseOff:
		return "off"
	case PhaseBlinkLit:
		return "blink_lit"
	case PhaseBlinkDark:
		return "blink_dark"
	case PhaseRainbow:
		return "rainbow"
	default:
		return "unknown"
	}
}

// Renderer is the tick-driven light state machine. It has no timers and
// no I/O; each Step is one tick.
//
// In blink phases ticksRemaining counts down the current half-period. In
// the rainbow phase it counts down to the next cursor advance.
type Renderer struct {
	tick      time.Duration
	subsample int

	state          LightState
	phase          Phase
	ticksRemaining int
	cursor         uint16
}

// NewRenderer creates a renderer for the given tick length and rainbow
// subsampling factor, starting from initial.
func NewRenderer(tick time.Duration, subsample int, initial LightState) *Renderer {
	if subsample < 1 {
		subsample = DefaultRainbowSubsample
	}
	r := &Renderer{tick: tick, subsample: subsample}
	r.Reset(initial)
	return r
}

// Reset installs a new state and restarts every cycle: blink starts lit
// with a full on half-period, rainbow starts at hue 0.
func (r *Renderer) Reset(s LightState) {
	r.state = s
	r.cursor = 0

	switch {
	case !s.Power:
		r.phase = PhaseOff
		r.ticksRemaining = 0
	case s.Mode == ModeBlink:
		r.phase = PhaseBlinkLit
		r.ticksRemaining = r.halfPeriodTicks(s.OnTimeMS)
	default:
		r.phase = PhaseRainbow
		r.ticksRemaining = r.subsample
	}
}

// Step renders one tick and advances the machine.
func (r *Renderer) Step() driver.Frame {
	s := r.state

	switch r.phase {
	case PhaseBlinkLit, PhaseBlinkDark:
		f := driver.Frame{Hue: s.Hue, Saturation: s.Saturation}
		if r.phase == PhaseBlinkLit {
			f.Brightness = s.Brightness
		}
		r.ticksRemaining--
		if r.ticksRemaining <= 0 {
			if r.phase == PhaseBlinkLit {
				r.phase = PhaseBlinkDark
				r.ticksRemaining = r.halfPeriodTicks(s.OffTimeMS)
			} else {
				r.phase = PhaseBlinkLit
				r.ticksRemaining = r.halfPeriodTicks(s.OnTimeMS)
			}
		}
		return f

	case PhaseRainbow:
		f := driver.Frame{Hue: r.cursor, Saturation: s.Saturation, Brightness: s.Brightness}
		r.ticksRemaining--
		if r.ticksRemaining <= 0 {
			r.cursor += uint16(s.Speed)
			if r.cursor >= HueLimit {
				r.cursor = 0
			}
			r.ticksRemaining = r.subsample
		}
		return f

	default:
		return driver.Frame{Hue: s.Hue, Saturation: s.Saturation}
	}
}

// Phase returns the current phase.
func (r *Renderer) Phase() Phase {
	return r.phase
}

// TicksRemaining returns the ticks left in the current blink half-period or
// until the next rainbow advance.
func (r *Renderer) TicksRemaining() int {
	return r.ticksRemaining
}

// Cursor returns the rainbow hue cursor.
func (r *Renderer) Cursor() uint16 {
	return r.cursor
}

// halfPeriodTicks converts a half-period to ticks. A zero half-period
// lasts exactly one tick.
func (r *Renderer) halfPeriodTicks(ms uint16) int {
	n := int(ms / tickMS(r.tick))
	if n < 1 {
		return 1
	}
	return n
}
