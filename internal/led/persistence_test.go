package led

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/nerrad567/gray-logic-led/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-led/internal/storage"
)

func TestPersister_LoadEmptyUsesDefaults(t *testing.T) {
	backends(t, func(t *testing.T, fresh storage.Backend, _ func() storage.Backend) {
		p := NewPersister(openHandle(t, fresh), logging.Discard())
		if got := p.Load(context.Background(), testTick); got != DefaultState() {
			t.Errorf("Load() = %+v, want defaults", got)
		}
	})
}

func TestPersister_SaveAllLoadRoundTrip(t *testing.T) {
	backends(t, func(t *testing.T, fresh storage.Backend, reopen func() storage.Backend) {
		ctx := context.Background()
		want := LightState{
			Power:      false,
			Hue:        42,
			Saturation: 7,
			Brightness: 99,
			Mode:       ModeBlink,
			OnTimeMS:   100,
			OffTimeMS:  50,
			Speed:      SpeedQuick,
		}

		if err := NewPersister(openHandle(t, fresh), logging.Discard()).SaveAll(ctx, want); err != nil {
			t.Fatalf("SaveAll() error = %v", err)
		}

		got := NewPersister(openHandle(t, reopen()), logging.Discard()).Load(ctx, testTick)
		if got != want {
			t.Errorf("Load() = %+v, want %+v", got, want)
		}
	})
}

func TestPersister_LoadRejectsOutOfDomainValues(t *testing.T) {
	ctx := context.Background()
	h := openHandle(t, storage.NewMemoryBackend())

	for _, err := range []error{
		h.SetU16("hue", 360),
		h.SetU8("power", 2),
		h.SetU8("mode", 9),
		h.SetU8("speed", 3),
		h.SetU8("brightness", 10),
	} {
		if err != nil {
			t.Fatalf("set error = %v", err)
		}
	}
	if err := h.Commit(ctx); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}

	got := NewPersister(h, logging.Discard()).Load(ctx, testTick)
	want := DefaultState()
	want.Brightness = 10
	if got != want {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}
}

func TestPersister_LoadWrongWidthUsesDefault(t *testing.T) {
	ctx := context.Background()
	h := openHandle(t, storage.NewMemoryBackend())

	// hue stored as u8 instead of u16
	if err := h.SetU8("hue", 10); err != nil {
		t.Fatalf("SetU8() error = %v", err)
	}
	if err := h.Commit(ctx); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}

	if got := NewPersister(h, logging.Discard()).Load(ctx, testTick); got.Hue != DefaultState().Hue {
		t.Errorf("Hue = %d, want default", got.Hue)
	}
}

func TestPersister_FailedFieldLeavesStaleValue(t *testing.T) {
	backends(t, func(t *testing.T, fresh storage.Backend, reopen func() storage.Backend) {
		ctx := context.Background()

		before := DefaultState()
		before.Hue = 10
		if err := NewPersister(openHandle(t, fresh), logging.Discard()).SaveAll(ctx, before); err != nil {
			t.Fatalf("SaveAll() error = %v", err)
		}

		after := before
		after.Hue = 20
		after.Brightness = 30
		after.Power = false

		kv := &failingKV{KV: openHandle(t, fresh), failKeys: map[string]bool{"hue": true}}
		err := NewPersister(kv, logging.Discard()).SaveAll(ctx, after)
		if !errors.Is(err, ErrPersistence) || !errors.Is(err, errInjected) {
			t.Fatalf("SaveAll() error = %v, want ErrPersistence wrapping the failure", err)
		}

		got := NewPersister(openHandle(t, reopen()), logging.Discard()).Load(ctx, testTick)
		want := after
		want.Hue = before.Hue
		if got != want {
			t.Errorf("Load() after restart = %+v, want %+v", got, want)
		}
	})
}

func TestPersister_FailedCommitKeepsPreviousState(t *testing.T) {
	backends(t, func(t *testing.T, fresh storage.Backend, reopen func() storage.Backend) {
		ctx := context.Background()

		kv := &failingKV{KV: openHandle(t, fresh), failCommit: true}
		changed := DefaultState()
		changed.Hue = 1

		err := NewPersister(kv, logging.Discard()).SaveAll(ctx, changed)
		if !errors.Is(err, ErrPersistence) {
			t.Fatalf("SaveAll() error = %v, want ErrPersistence", err)
		}

		if got := NewPersister(openHandle(t, reopen()), logging.Discard()).Load(ctx, testTick); got != DefaultState() {
			t.Errorf("Load() = %+v, want defaults", got)
		}
	})
}

func TestPersister_LoadFloorsBlinkTimesToTick(t *testing.T) {
	tests := []struct {
		name    string
		on, off uint16
		tick    time.Duration
		wantOn  uint16
		wantOff uint16
	}{
		{"saved off-grid", 105, 57, 10 * time.Millisecond, 100, 50},
		{"tick grew since save", 100, 50, 40 * time.Millisecond, 80, 40},
		{"already aligned", 500, 250, 10 * time.Millisecond, 500, 250},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backends(t, func(t *testing.T, fresh storage.Backend, reopen func() storage.Backend) {
				ctx := context.Background()
				saved := DefaultState()
				saved.Mode = ModeBlink
				saved.OnTimeMS = tt.on
				saved.OffTimeMS = tt.off

				if err := NewPersister(openHandle(t, fresh), logging.Discard()).SaveAll(ctx, saved); err != nil {
					t.Fatalf("SaveAll() error = %v", err)
				}

				got := NewPersister(openHandle(t, reopen()), logging.Discard()).Load(ctx, tt.tick)
				if got.OnTimeMS != tt.wantOn || got.OffTimeMS != tt.wantOff {
					t.Errorf("blink times = %d/%d, want %d/%d", got.OnTimeMS, got.OffTimeMS, tt.wantOn, tt.wantOff)
				}
				if err := got.Validate(tt.tick); err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				want := fmt.Sprintf("blink,%d,%d", tt.wantOn, tt.wantOff)
				if p := got.ModePayload(); p != want {
					t.Errorf("ModePayload() = %q, want %q", p, want)
				}
			})
		})
	}
}
