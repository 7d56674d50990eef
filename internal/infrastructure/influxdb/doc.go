// Package influxdb provides InfluxDB connectivity for the LED controller.
//
// It wraps the official influxdb-client-go v2 library for connection
// management, batched point writes and health monitoring. The controller
// records one "led_state" point per committed light state change.
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	client.WritePoint("led_state",
//	    map[string]string{"device_id": cfg.Device.ID},
//	    map[string]any{"power": true})
//
// # Error Handling
//
// Writes never block and never return errors. Batch failures are delivered
// to the SetOnError callback. Connection and health check errors are
// returned directly.
package influxdb
