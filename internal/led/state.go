package led

import (
	"fmt"
	"time"
)

// HueLimit is the exclusive upper bound of the hue domain.
const HueLimit = 360

// Mode selects the rendering behaviour. Values are persisted as u8.
type Mode uint8

const (
	ModeBlink      Mode = 1
	ModeHueRainbow Mode = 2
)

// String returns the wire name used in mode payloads.
func (m Mode) String() string {
	switch m {
	case ModeBlink:
		return "blink"
	case ModeHueRainbow:
		return "hue_rainbow"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeBlink || m == ModeHueRainbow
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: mode %d", ErrOutOfRange, uint8(m))
	}
	return []byte(m.String()), nil
}

// Speed is the rainbow hue step per advance. Values are persisted as u8.
type Speed uint8

const (
	SpeedSlow   Speed = 1
	SpeedNormal Speed = 4
	SpeedQuick  Speed = 12
)

// String returns the wire name used in mode payloads.
func (s Speed) String() string {
	switch s {
	case SpeedSlow:
		return "slow"
	case SpeedNormal:
		return "normal"
	case SpeedQuick:
		return "quick"
	default:
		return fmt.Sprintf("speed(%d)", uint8(s))
	}
}

// Valid reports whether s is a known speed.
func (s Speed) Valid() bool {
	return s == SpeedSlow || s == SpeedNormal || s == SpeedQuick
}

// MarshalText implements encoding.TextMarshaler.
func (s Speed) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: speed %d", ErrOutOfRange, uint8(s))
	}
	return []byte(s.String()), nil
}

// parseSpeed maps a wire name to a Speed.
func parseSpeed(name string) (Speed, bool) {
	switch name {
	case "slow":
		return SpeedSlow, true
	case "normal":
		return SpeedNormal, true
	case "quick":
		return SpeedQuick, true
	default:
		return 0, false
	}
}

// LightState is the complete light configuration.
//
// It is always passed by value; a LightState obtained from the Store is an
// owned copy.
type LightState struct {
	Power      bool   `json:"power"`
	Hue        uint16 `json:"hue"`
	Saturation uint8  `json:"saturation"`
	Brightness uint8  `json:"brightness"`
	Mode       Mode   `json:"mode"`
	OnTimeMS   uint16 `json:"on_time_ms"`
	OffTimeMS  uint16 `json:"off_time_ms"`
	Speed      Speed  `json:"speed"`
}

// DefaultState returns the built-in state used for fields with no
// persisted value.
func DefaultState() LightState {
	return LightState{
		Power:      true,
		Hue:        359,
		Saturation: 255,
		Brightness: 255,
		Mode:       ModeHueRainbow,
		OnTimeMS:   500,
		OffTimeMS:  500,
		Speed:      SpeedNormal,
	}
}

// Validate checks the state invariants for a render tick of the given length.
func (s LightState) Validate(tick time.Duration) error {
	if s.Hue >= HueLimit {
		return fmt.Errorf("%w: hue %d", ErrOutOfRange, s.Hue)
	}
	if !s.Mode.Valid() {
		return fmt.Errorf("%w: mode %d", ErrOutOfRange, uint8(s.Mode))
	}
	if !s.Speed.Valid() {
		return fmt.Errorf("%w: speed %d", ErrOutOfRange, uint8(s.Speed))
	}
	if step := tickMS(tick); step > 1 {
		if s.OnTimeMS%step != 0 || s.OffTimeMS%step != 0 {
			return fmt.Errorf("%w: blink times %d/%d not multiples of %dms",
				ErrOutOfRange, s.OnTimeMS, s.OffTimeMS, step)
		}
	}
	return nil
}

// PowerPayload formats the power field as published on the state topic.
func (s LightState) PowerPayload() string {
	if s.Power {
		return powerOn
	}
	return powerOff
}

// HSBPayload formats hue, saturation and brightness as "H,S,B".
func (s LightState) HSBPayload() string {
	return fmt.Sprintf("%d,%d,%d", s.Hue, s.Saturation, s.Brightness)
}

// ModePayload formats the mode with its parameters.
func (s LightState) ModePayload() string {
	if s.Mode == ModeBlink {
		return fmt.Sprintf("%s,%d,%d", ModeBlink, s.OnTimeMS, s.OffTimeMS)
	}
	return fmt.Sprintf("%s,%s", ModeHueRainbow, s.Speed)
}

// tickMS returns the tick length in whole milliseconds, at least 1.
func tickMS(tick time.Duration) uint16 {
	ms := tick / time.Millisecond
	switch {
	case ms < 1:
		return 1
	case ms > 0xFFFF:
		return 0xFFFF
	default:
		return uint16(ms)
	}
}

// floorToTick truncates ms to a multiple of the tick length.
func floorToTick(ms uint16, tick time.Duration) uint16 {
	step := tickMS(tick)
	return ms - ms%step
}
