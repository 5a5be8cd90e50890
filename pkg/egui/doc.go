// Package egui is a fluent builder for UIs rendered by a remote eGUI host.
//
// Builder methods turn into commands sent through a Relay, and handler
// registrations turn into subscriptions on the relay's event bus. Element
// handles hold nothing but their id; all UI state lives in the host.
//
//	b := egui.New(r)
//	w := b.AddWindow("Dashboard")
//	w.AddSlider("volume", 0, 100).
//	    SetValue(50).
//	    OnChange(func(v float64) { fmt.Println("volume", v) }).
//	    AddButton("reset", "Reset").
//	    OnClick(func() { fmt.Println("reset") })
//
// Events are namespaced by element id ("slider_volume", "button_reset").
// WithLegacyEventNames switches buttons, sliders, inputs and scenes to the
// shared names "button_click", "slider_change", "input_change" and
// "rotate_3d", so every handler of that kind fires on any such event.
package egui
