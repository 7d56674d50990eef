// Package driver defines the light output boundary and the software
// drivers shipped with the controller.
//
// A Driver receives one HSB pixel per render tick. Hardware strip drivers
// implement the same two methods; the render loop never talks to hardware
// directly.
package driver

import (
	"log/slog"
	"sync"
)

// Driver sets the colour of a single-pixel light.
//
// SetPixel stages a colour; Flush makes it visible. Both are called from the
// render loop goroutine only.
type Driver interface {
	SetPixel(hue uint16, saturation, brightness uint8) error
	Flush() error
}

// Frame is one HSB colour as last sent to a driver.
type Frame struct {
	Hue        uint16 `json:"hue"`
	Saturation uint8  `json:"saturation"`
	Brightness uint8  `json:"brightness"`
}

// Nop discards every frame.
type Nop struct{}

// SetPixel implements Driver.
func (Nop) SetPixel(uint16, uint8, uint8) error { return nil }

// Flush implements Driver.
func (Nop) Flush() error { return nil }

// LogDriver logs frames at debug level whenever the flushed colour changes.
// It stands in for a strip on hosts without LED hardware.
type LogDriver struct {
	logger *slog.Logger

	mu      sync.Mutex
	staged  Frame
	shown   Frame
	flushed bool
}

// NewLogDriver creates a LogDriver writing to logger.
func NewLogDriver(logger *slog.Logger) *LogDriver {
	return &LogDriver{logger: logger}
}

// SetPixel implements Driver.
func (d *LogDriver) SetPixel(hue uint16, saturation, brightness uint8) error {
	d.mu.Lock()
	d.staged = Frame{Hue: hue, Saturation: saturation, Brightness: brightness}
	d.mu.Unlock()
	return nil
}

// Flush implements Driver.
func (d *LogDriver) Flush() error {
	d.mu.Lock()
	changed := !d.flushed || d.staged != d.shown
	d.shown = d.staged
	d.flushed = true
	f := d.shown
	d.mu.Unlock()

	if changed {
		d.logger.Debug("led frame",
			"hue", f.Hue,
			"saturation", f.Saturation,
			"brightness", f.Brightness,
		)
	}
	return nil
}

// Current returns the last flushed frame and whether any frame has been flushed.
func (d *LogDriver) Current() (Frame, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.shown, d.flushed
}
