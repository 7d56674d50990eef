package led

import "errors"

// Sentinel errors for the LED engine. Check with errors.Is().
var (
	// ErrDecode is returned for malformed command payloads.
	ErrDecode = errors.New("led: malformed command")

	// ErrOutOfRange is returned alongside ErrDecode when a numeric field is outside its domain.
	ErrOutOfRange = errors.New("led: value out of range")

	// ErrUnknownCommand is returned for command kinds outside the fixed set.
	ErrUnknownCommand = errors.New("led: unknown command")

	// ErrChannelFull is returned when the update channel has no free slot.
	// It means the render loop is starved or the tick is misconfigured.
	ErrChannelFull = errors.New("led: update channel full")

	// ErrPersistence wraps durable store read and write failures.
	ErrPersistence = errors.New("led: persistence failed")

	// ErrPublish wraps state publish failures.
	ErrPublish = errors.New("led: publish failed")

	// ErrInitialization is returned when the engine cannot be constructed.
	ErrInitialization = errors.New("led: initialisation failed")
)
