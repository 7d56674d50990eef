package led

import (
	"testing"

	"github.com/nerrad567/gray-logic-led/internal/driver"
)

func rainbowState(speed Speed) LightState {
	s := DefaultState()
	s.Mode = ModeHueRainbow
	s.Speed = speed
	return s
}

func blinkState(onMS, offMS uint16) LightState {
	s := DefaultState()
	s.Mode = ModeBlink
	s.Hue, s.Saturation, s.Brightness = 200, 100, 180
	s.OnTimeMS, s.OffTimeMS = onMS, offMS
	return s
}

func TestRenderer_RainbowAdvancesEverySubsample(t *testing.T) {
	r := NewRenderer(testTick, DefaultRainbowSubsample, rainbowState(SpeedNormal))

	if r.Phase() != PhaseRainbow || r.Cursor() != 0 {
		t.Fatalf("after reset phase=%s cursor=%d", r.Phase(), r.Cursor())
	}

	want := []uint16{0, 0, 0, 4, 4, 4, 8}
	for i, hue := range want {
		f := r.Step()
		if f.Hue != hue {
			t.Errorf("tick %d hue = %d, want %d", i+1, f.Hue, hue)
		}
		if f.Saturation != 255 || f.Brightness != 255 {
			t.Errorf("tick %d sat/bri = %d/%d", i+1, f.Saturation, f.Brightness)
		}
	}
}

func TestRenderer_RainbowWrapsBeforeLimit(t *testing.T) {
	for _, speed := range []Speed{SpeedSlow, SpeedNormal, SpeedQuick} {
		t.Run(speed.String(), func(t *testing.T) {
			r := NewRenderer(testTick, DefaultRainbowSubsample, rainbowState(speed))
			advances := HueLimit / int(speed)
			for i := 0; i < advances*DefaultRainbowSubsample; i++ {
				if f := r.Step(); f.Hue >= HueLimit {
					t.Fatalf("tick %d rendered hue %d", i+1, f.Hue)
				}
			}
			if r.Cursor() != 0 {
				t.Errorf("cursor after full cycle = %d, want 0", r.Cursor())
			}
		})
	}
}

func TestRenderer_BlinkHalfPeriods(t *testing.T) {
	r := NewRenderer(testTick, DefaultRainbowSubsample, blinkState(100, 50))

	if r.Phase() != PhaseBlinkLit || r.TicksRemaining() != 10 {
		t.Fatalf("after reset phase=%s remaining=%d", r.Phase(), r.TicksRemaining())
	}

	lit := driver.Frame{Hue: 200, Saturation: 100, Brightness: 180}
	dark := driver.Frame{Hue: 200, Saturation: 100}

	for cycle := 0; cycle < 2; cycle++ {
		for i := 0; i < 10; i++ {
			if f := r.Step(); f != lit {
				t.Fatalf("cycle %d lit tick %d = %+v", cycle, i, f)
			}
		}
		for i := 0; i < 5; i++ {
			if f := r.Step(); f != dark {
				t.Fatalf("cycle %d dark tick %d = %+v", cycle, i, f)
			}
		}
	}
}

func TestRenderer_BlinkZeroHalfPeriods(t *testing.T) {
	tests := []struct {
		name    string
		on, off uint16
		pattern []uint8
	}{
		{"zero on", 0, 20, []uint8{180, 0, 0, 180, 0, 0, 180}},
		{"zero off", 20, 0, []uint8{180, 180, 0, 180, 180, 0}},
		{"both zero", 0, 0, []uint8{180, 0, 180, 0, 180, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRenderer(testTick, DefaultRainbowSubsample, blinkState(tt.on, tt.off))
			for i, want := range tt.pattern {
				if f := r.Step(); f.Brightness != want {
					t.Errorf("tick %d brightness = %d, want %d", i+1, f.Brightness, want)
				}
			}
		})
	}
}

func TestRenderer_PowerOff(t *testing.T) {
	s := blinkState(100, 100)
	s.Power = false
	r := NewRenderer(testTick, DefaultRainbowSubsample, s)

	if r.Phase() != PhaseOff {
		t.Fatalf("Phase() = %s, want off", r.Phase())
	}
	for i := 0; i < 5; i++ {
		f := r.Step()
		if f.Brightness != 0 || f.Hue != s.Hue || f.Saturation != s.Saturation {
			t.Errorf("tick %d frame = %+v", i+1, f)
		}
	}
	if r.TicksRemaining() != 0 {
		t.Errorf("TicksRemaining() = %d, counters advanced while off", r.TicksRemaining())
	}
}

func TestRenderer_ResetRestartsCycle(t *testing.T) {
	r := NewRenderer(testTick, DefaultRainbowSubsample, rainbowState(SpeedQuick))
	for i := 0; i < 7; i++ {
		r.Step()
	}
	if r.Cursor() == 0 {
		t.Fatal("cursor did not advance")
	}

	r.Reset(rainbowState(SpeedQuick))
	if r.Cursor() != 0 || r.TicksRemaining() != DefaultRainbowSubsample {
		t.Errorf("after Reset cursor=%d remaining=%d", r.Cursor(), r.TicksRemaining())
	}

	r.Reset(blinkState(30, 30))
	r.Step()
	r.Reset(blinkState(30, 30))
	if r.Phase() != PhaseBlinkLit || r.TicksRemaining() != 3 {
		t.Errorf("after Reset phase=%s remaining=%d", r.Phase(), r.TicksRemaining())
	}
}
