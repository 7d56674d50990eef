package led

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nerrad567/gray-logic-led/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-led/internal/storage"
)

// Persisted keys, one per LightState field.
const (
	keyPower      = "power"
	keyHue        = "hue"
	keySaturation = "saturation"
	keyBrightness = "brightness"
	keyMode       = "mode"
	keyOnTime     = "on_time"
	keyOffTime    = "off_time"
	keySpeed      = "speed"
)

// KV is the typed key/value handle the persister writes through.
// *storage.Handle implements it.
type KV interface {
	GetU8(ctx context.Context, key string) (uint8, error)
	GetU16(ctx context.Context, key string) (uint16, error)
	SetU8(key string, v uint8) error
	SetU16(key string, v uint16) error
	Commit(ctx context.Context) error
}

// Persister loads and saves LightState field by field.
//
// Persistence is best effort: reads fall back to defaults and write
// failures are logged, never rolled back and never retried.
type Persister struct {
	kv     KV
	logger *logging.Logger
}

// NewPersister creates a persister over kv.
func NewPersister(kv KV, logger *logging.Logger) *Persister {
	return &Persister{kv: kv, logger: logger.With("component", "persistence")}
}

// Load reads every field, substituting the built-in default for any key
// that is missing, unreadable or outside its domain. Blink half-periods are
// floored to tick, which may differ from the tick they were saved under.
func (p *Persister) Load(ctx context.Context, tick time.Duration) LightState {
	def := DefaultState()
	s := def

	if v, ok := p.loadU8(ctx, keyPower, boolU8(def.Power), func(v uint8) bool { return v <= 1 }); ok {
		s.Power = v == 1
	}
	if v, ok := p.loadU16(ctx, keyHue, def.Hue, func(v uint16) bool { return v < HueLimit }); ok {
		s.Hue = v
	}
	if v, ok := p.loadU8(ctx, keySaturation, def.Saturation, nil); ok {
		s.Saturation = v
	}
	if v, ok := p.loadU8(ctx, keyBrightness, def.Brightness, nil); ok {
		s.Brightness = v
	}
	if v, ok := p.loadU8(ctx, keyMode, uint8(def.Mode), func(v uint8) bool { return Mode(v).Valid() }); ok {
		s.Mode = Mode(v)
	}
	if v, ok := p.loadU16(ctx, keyOnTime, def.OnTimeMS, nil); ok {
		s.OnTimeMS = v
	}
	if v, ok := p.loadU16(ctx, keyOffTime, def.OffTimeMS, nil); ok {
		s.OffTimeMS = v
	}
	if v, ok := p.loadU8(ctx, keySpeed, uint8(def.Speed), func(v uint8) bool { return Speed(v).Valid() }); ok {
		s.Speed = Speed(v)
	}

	on, off := floorToTick(s.OnTimeMS, tick), floorToTick(s.OffTimeMS, tick)
	if on != s.OnTimeMS || off != s.OffTimeMS {
		p.logger.Warn("blink times not tick multiples, flooring",
			"stored", fmt.Sprintf("%d/%d", s.OnTimeMS, s.OffTimeMS),
			"value", fmt.Sprintf("%d/%d", on, off),
		)
		s.OnTimeMS, s.OffTimeMS = on, off
	}

	if err := s.Validate(tick); err != nil {
		p.logger.Warn("restored state invalid, using defaults", "error", err)
		def.OnTimeMS = floorToTick(def.OnTimeMS, tick)
		def.OffTimeMS = floorToTick(def.OffTimeMS, tick)
		return def
	}
	return s
}

// SaveAll writes every field and then commits once. It returns the first
// failure, wrapped in ErrPersistence, after attempting every write and the
// commit; callers only log it.
func (p *Persister) SaveAll(ctx context.Context, s LightState) error {
	var errs []error

	set := func(key string, err error) {
		if err != nil {
			p.logger.Warn("failed to write field", "key", key, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
	}

	set(keyPower, p.kv.SetU8(keyPower, boolU8(s.Power)))
	set(keyHue, p.kv.SetU16(keyHue, s.Hue))
	set(keySaturation, p.kv.SetU8(keySaturation, s.Saturation))
	set(keyBrightness, p.kv.SetU8(keyBrightness, s.Brightness))
	set(keyMode, p.kv.SetU8(keyMode, uint8(s.Mode)))
	set(keyOnTime, p.kv.SetU16(keyOnTime, s.OnTimeMS))
	set(keyOffTime, p.kv.SetU16(keyOffTime, s.OffTimeMS))
	set(keySpeed, p.kv.SetU8(keySpeed, uint8(s.Speed)))

	if err := p.kv.Commit(ctx); err != nil {
		p.logger.Warn("failed to commit state", "error", err)
		errs = append(errs, fmt.Errorf("commit: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrPersistence, errors.Join(errs...))
	}
	return nil
}

func (p *Persister) loadU8(ctx context.Context, key string, def uint8, valid func(uint8) bool) (uint8, bool) {
	v, err := p.kv.GetU8(ctx, key)
	if !p.accept(key, int(def), int(v), err, valid == nil || err != nil || valid(v)) {
		return 0, false
	}
	return v, true
}

func (p *Persister) loadU16(ctx context.Context, key string, def uint16, valid func(uint16) bool) (uint16, bool) {
	v, err := p.kv.GetU16(ctx, key)
	if !p.accept(key, int(def), int(v), err, valid == nil || err != nil || valid(v)) {
		return 0, false
	}
	return v, true
}

// accept logs the outcome of one field read and reports whether the stored
// value should be used.
func (p *Persister) accept(key string, def, got int, err error, inDomain bool) bool {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		p.logger.Info("using default value", "key", key, "value", def)
		return false
	case err != nil:
		p.logger.Warn("failed to read field, using default", "key", key, "value", def, "error", err)
		return false
	case !inDomain:
		p.logger.Warn("stored value out of range, using default", "key", key, "stored", got, "value", def)
		return false
	default:
		p.logger.Info("using stored value", "key", key, "value", got)
		return true
	}
}

func boolU8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
