package led

// MeasurementState is the telemetry measurement written per committed update.
const MeasurementState = "led_state"

// EventStateChanged is the live event name carrying a committed state.
const EventStateChanged = "led.state_changed"

// PointWriter is the telemetry sink. *influxdb.Client implements it.
type PointWriter interface {
	WritePoint(measurement string, tags map[string]string, fields map[string]any)
}

// Broadcaster fans events out to live clients. The API WebSocket hub
// implements it.
type Broadcaster interface {
	Broadcast(event string, payload any)
}

// TelemetryObserver writes every committed state as one point.
// The write is buffered by the sink and never blocks the loop.
func TelemetryObserver(w PointWriter, deviceID string) Observer {
	tags := map[string]string{"device_id": deviceID}
	return func(s LightState) {
		w.WritePoint(MeasurementState, tags, map[string]any{
			"power":       s.Power,
			"hue":         int64(s.Hue),
			"saturation":  int64(s.Saturation),
			"brightness":  int64(s.Brightness),
			"mode":        s.Mode.String(),
			"speed":       s.Speed.String(),
			"on_time_ms":  int64(s.OnTimeMS),
			"off_time_ms": int64(s.OffTimeMS),
		})
	}
}

// BroadcastObserver pushes every committed state to live clients.
func BroadcastObserver(b Broadcaster) Observer {
	return func(s LightState) {
		b.Broadcast(EventStateChanged, s)
	}
}
