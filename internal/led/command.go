package led

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// maxPayloadLen bounds command payloads. The longest valid payload,
// "blink,65535,65535", is 17 bytes.
const maxPayloadLen = 64

const (
	powerOn  = "on"
	powerOff = "off"
)

// CommandKind identifies one of the fixed command topics.
type CommandKind string

const (
	KindPower CommandKind = "power"
	KindHue   CommandKind = "hue"
	KindHSB   CommandKind = "hsb"
	KindMode  CommandKind = "mode"
)

// Kinds lists every command kind in subscription order.
var Kinds = []CommandKind{KindPower, KindHue, KindHSB, KindMode}

// ParseKind resolves a command name such as "hsb".
func ParseKind(name string) (CommandKind, error) {
	for _, k := range Kinds {
		if string(k) == name {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCommand, name)
}

// Command is a decoded, validated state change.
//
// The set of implementations is closed: PowerCommand, HueCommand,
// HSBCommand and ModeCommand.
type Command interface {
	// Kind returns the topic kind this command was decoded from.
	Kind() CommandKind

	// Apply returns s with only the fields this command owns replaced.
	Apply(s LightState, tick time.Duration) LightState

	command()
}

// PowerCommand switches the light on or off.
type PowerCommand struct {
	On bool
}

// HueCommand sets hue only.
type HueCommand struct {
	Hue uint16
}

// HSBCommand sets hue, saturation and brightness together.
type HSBCommand struct {
	Hue        uint16
	Saturation uint8
	Brightness uint8
}

// ModeCommand selects blink (with half-periods) or hue rainbow (with speed).
// OnTimeMS and OffTimeMS are the raw requested values; Apply floors them to
// the tick.
type ModeCommand struct {
	Mode      Mode
	OnTimeMS  uint16
	OffTimeMS uint16
	Speed     Speed
}

func (PowerCommand) Kind() CommandKind { return KindPower }
func (HueCommand) Kind() CommandKind   { return KindHue }
func (HSBCommand) Kind() CommandKind   { return KindHSB }
func (ModeCommand) Kind() CommandKind  { return KindMode }

func (PowerCommand) command() {}
func (HueCommand) command()   {}
func (HSBCommand) command()   {}
func (ModeCommand) command()  {}

// Apply implements Command.
func (c PowerCommand) Apply(s LightState, _ time.Duration) LightState {
	s.Power = c.On
	return s
}

// Apply implements Command.
func (c HueCommand) Apply(s LightState, _ time.Duration) LightState {
	s.Hue = c.Hue
	return s
}

// Apply implements Command.
func (c HSBCommand) Apply(s LightState, _ time.Duration) LightState {
	s.Hue = c.Hue
	s.Saturation = c.Saturation
	s.Brightness = c.Brightness
	return s
}

// Apply implements Command. Blink leaves Speed untouched and rainbow leaves
// the half-periods untouched.
func (c ModeCommand) Apply(s LightState, tick time.Duration) LightState {
	s.Mode = c.Mode
	switch c.Mode {
	case ModeBlink:
		s.OnTimeMS = floorToTick(c.OnTimeMS, tick)
		s.OffTimeMS = floorToTick(c.OffTimeMS, tick)
	case ModeHueRainbow:
		s.Speed = c.Speed
	}
	return s
}

// Decode parses a raw payload for the given kind.
//
// The payload is an exact byte span; it need not be NUL-terminated and any
// bytes beyond its length are never read. Matching is exact and
// case-sensitive: "on" is a power command, " on" and "ON" are not.
func Decode(kind CommandKind, payload []byte) (Command, error) {
	if len(payload) > maxPayloadLen {
		return nil, fmt.Errorf("%w: %s payload of %d bytes", ErrDecode, kind, len(payload))
	}
	text := string(payload)

	switch kind {
	case KindPower:
		return decodePower(text)
	case KindHue:
		return decodeHue(text)
	case KindHSB:
		return decodeHSB(text)
	case KindMode:
		return decodeMode(text)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, kind)
	}
}

func decodePower(text string) (Command, error) {
	switch text {
	case powerOn:
		return PowerCommand{On: true}, nil
	case powerOff:
		return PowerCommand{On: false}, nil
	default:
		return nil, fmt.Errorf("%w: power %q", ErrDecode, text)
	}
}

func decodeHue(text string) (Command, error) {
	hue, err := parseHue(text)
	if err != nil {
		return nil, err
	}
	return HueCommand{Hue: hue}, nil
}

func decodeHSB(text string) (Command, error) {
	fields := strings.Split(text, ",")
	if len(fields) != 3 {
		return nil, fmt.Errorf("%w: hsb %q needs 3 fields", ErrDecode, text)
	}

	hue, err := parseHue(fields[0])
	if err != nil {
		return nil, err
	}
	sat, err := parseUint(fields[1], 8, "saturation")
	if err != nil {
		return nil, err
	}
	bri, err := parseUint(fields[2], 8, "brightness")
	if err != nil {
		return nil, err
	}

	return HSBCommand{Hue: hue, Saturation: uint8(sat), Brightness: uint8(bri)}, nil
}

func decodeMode(text string) (Command, error) {
	name, args, _ := strings.Cut(text, ",")

	switch name {
	case ModeBlink.String():
		on, off, ok := strings.Cut(args, ",")
		if !ok {
			return nil, fmt.Errorf("%w: mode %q needs on and off times", ErrDecode, text)
		}
		onMS, err := parseUint(on, 16, "on_time")
		if err != nil {
			return nil, err
		}
		offMS, err := parseUint(off, 16, "off_time")
		if err != nil {
			return nil, err
		}
		return ModeCommand{Mode: ModeBlink, OnTimeMS: uint16(onMS), OffTimeMS: uint16(offMS)}, nil

	case ModeHueRainbow.String():
		speed, ok := parseSpeed(args)
		if !ok {
			return nil, fmt.Errorf("%w: rainbow speed %q", ErrDecode, args)
		}
		return ModeCommand{Mode: ModeHueRainbow, Speed: speed}, nil

	default:
		return nil, fmt.Errorf("%w: mode %q", ErrDecode, text)
	}
}

func parseHue(field string) (uint16, error) {
	v, err := parseUint(field, 16, "hue")
	if err != nil {
		return 0, err
	}
	if v >= HueLimit {
		return 0, fmt.Errorf("%w: %w: hue %d", ErrDecode, ErrOutOfRange, v)
	}
	return uint16(v), nil
}

// parseUint accepts only unsigned decimal digits.
func parseUint(field string, bits int, name string) (uint64, error) {
	v, err := strconv.ParseUint(field, 10, bits)
	if err == nil {
		return v, nil
	}
	if errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("%w: %w: %s %q exceeds u%d", ErrDecode, ErrOutOfRange, name, field, bits)
	}
	return 0, fmt.Errorf("%w: %s %q", ErrDecode, name, field)
}
