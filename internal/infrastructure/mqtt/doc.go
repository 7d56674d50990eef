// Package mqtt provides MQTT client connectivity for the LED controller.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Fire-and-forget publishing with an acknowledgement callback
//   - Command topic subscriptions, restored on every connect
//   - Availability reporting via Last Will and Testament
//
// # Topics
//
// All topics follow {prefix}/{device}/{field}. Commands arrive on the
// command prefix ("cmnd/led/power") and state leaves on the state prefix
// ("stat/led/power"). The availability topic "stat/led/availability"
// carries a retained "online" or "offline".
//
// # Sessions
//
// The client always connects with a clean session, so the broker never
// resumes subscriptions. Tracked subscriptions are re-sent on every
// connect before the OnConnect callback runs.
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	topics := client.Topics()
//	err = client.Subscribe(topics.Command("power"), 0,
//	    func(topic string, payload []byte) error {
//	        return handle(payload)
//	    })
//
//	client.PublishAsync(topics.State("power"), []byte("on"), 1, true, nil)
package mqtt
