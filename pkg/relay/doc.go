// Package relay maintains the message channel between an application and a
// remote GUI host.
//
// A Relay owns one WebSocket connection to the host. Outbound commands are
// JSON objects tagged with a "type" field; inbound messages of the same shape
// are published on a local event bus keyed by their "type". The connection is
// re-established after a fixed delay whenever it closes or fails to open.
//
// # Running
//
//	r := relay.New(relay.WithURL("ws://127.0.0.1:9001"))
//	r.SubscribeFunc("slider_change", func(ev *relay.Event) {
//	    fmt.Println("slider:", ev.Float("value"))
//	})
//	go r.Run(ctx)
//
// # Sending
//
// Send is fire-and-forget. Failures (not connected, encode errors, write
// errors) are logged and counted in Stats, never returned:
//
//	r.SendCommand("op_set_label", map[string]any{"text": "hello"})
//
// Request sends a command tagged with a request_id and waits for the matching
// reply or the request timeout:
//
//	ev, err := r.Request(ctx, relay.NewCommand("op_stop_recording", nil))
//
// A reply matches a pending request when it echoes the request_id, or, for
// hosts that do not echo it, when its type equals the command name (oldest
// pending request first). Matched replies are not dispatched to subscribers.
//
// # Dispatch
//
// Events are dispatched synchronously on the connection's read goroutine.
// Handlers for one event run sequentially in registration order. Messages
// that are not JSON objects with a non-empty string "type" are dropped.
package relay
