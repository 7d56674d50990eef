// Package led is the light state synchronisation engine.
//
// Commands arrive on MQTT command topics (or the local HTTP API), are
// decoded against a snapshot of the canonical state and handed to the
// render loop as complete replacement states. The render loop is the only
// writer of canonical state: it drives the light every tick and, when an
// update arrives, commits it, saves it and republishes it.
//
// Architecture:
//
//	 cmnd/led/{power,hue,hsb,mode}
//	             │
//	             ▼
//	┌─────────────────────────┐   Snapshot   ┌──────────────┐
//	│ Controller              │◀─────────────│    Store     │
//	│ Decode → Apply → Submit │              │  (store.go)  │
//	└────────────┬────────────┘              └──────▲───────┘
//	             │ TryEnqueue                       │ Replace
//	             ▼                                  │
//	┌─────────────────────────┐  TryDequeue  ┌──────┴───────┐
//	│ Channel (cap 10)        │─────────────▶│ Loop (10 ms) │
//	└─────────────────────────┘              │  Renderer    │
//	                                         └──┬───┬───┬───┘
//	                          driver.Driver ◀───┘   │   └──▶ Publisher
//	                                      Persister ┘        stat/led/{hsb,power,mode}
//
// # Key Types
//
//   - LightState: The complete light configuration, always copied by value
//   - Command: Decoded command (PowerCommand, HueCommand, HSBCommand, ModeCommand)
//   - Renderer: Tick-driven FSM with phases off, blink lit, blink dark, rainbow
//   - Persister: Field-by-field durable state over a storage.Handle
//
// # Thread Safety
//
// Controller.Submit and Store are safe for concurrent use. Loop.Tick and the
// Renderer must only be used from the loop goroutine.
package led
