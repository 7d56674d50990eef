// Package api provides the local HTTP API and WebSocket server for the LED
// controller.
//
// It exposes the canonical light state, accepts commands in the same text
// grammar as the MQTT command topics, streams committed states to WebSocket
// clients and serves Prometheus metrics.
//
// The server follows the same lifecycle pattern as other infrastructure components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
//
// # Endpoints
//
//	GET  /api/v1/health          status, version, mqtt_connected
//	GET  /api/v1/led             canonical LightState as JSON
//	POST /api/v1/led/{command}   raw command body (power|hue|hsb|mode)
//	GET  /api/v1/metrics         JSON system metrics
//	GET  /api/v1/ws              WebSocket, channel "led.state_changed"
//	GET  /metrics                Prometheus exposition
//
// # Origin Checks
//
// There is no authentication. Command POSTs and WebSocket handshakes that
// carry an Origin header for another host are refused with 403, so a web
// page cannot drive the light from a visitor's browser.
//
// # Graceful Degradation
//
// The server runs without a broker connection. Commands are still queued
// and applied locally; only state publication to MQTT is missing.
package api
