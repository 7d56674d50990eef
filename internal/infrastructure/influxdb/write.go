package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WritePoint queues a point stamped with the current time.
//
// The write is non-blocking; points are batched and sent asynchronously.
// Calls on a closed or unconnected client are dropped.
//
// Example:
//
//	client.WritePoint("led_state",
//	    map[string]string{"device_id": "led-01"},
//	    map[string]any{"power": true, "hue": 120})
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]any) {
	c.WritePointWithTime(measurement, tags, fields, time.Now())
}

// WritePointWithTime queues a point with an explicit timestamp.
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]any, ts time.Time) {
	if !c.IsConnected() {
		return
	}

	c.writeAPI.WritePoint(write.NewPoint(measurement, tags, fields, ts))
}
