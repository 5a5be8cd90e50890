package egui_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/haivivi/pioneer/pkg/egui"
	"github.com/haivivi/pioneer/pkg/relay"
	"github.com/haivivi/pioneer/pkg/relay/relaytest"
)

func runRelay(t *testing.T, host *relaytest.Host, opts ...relay.Option) (*relay.Relay, *relaytest.Conn) {
	t.Helper()
	connected := make(chan struct{}, 1)
	opts = append([]relay.Option{
		relay.WithURL(host.URL()),
		relay.WithReconnectDelay(100 * time.Millisecond),
		relay.WithOnConnected(func() {
			select {
			case connected <- struct{}{}:
			default:
			}
		}),
	}, opts...)
	r := relay.New(opts...)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	c := host.Accept(t)
	c.ExpectHello(t)
	select {
	case <-connected:
	case <-time.After(relaytest.Timeout):
		t.Fatal("relay did not connect")
	}
	return r, c
}

func TestBuilderOverRelay_Slider(t *testing.T) {
	host := relaytest.NewHost(t)
	r, c := runRelay(t, host)

	values := make(chan float64, 4)
	egui.New(r, egui.WithLegacyEventNames()).
		AddWindow("Dashboard").
		AddSlider("volume", 0, 100).
		OnChange(func(v float64) { values <- v }).
		AddInput("ready").
		SetText("subscribed")

	c.ReadType(t, egui.OpSetInput)
	c.MustWrite(t, map[string]any{"type": "slider_change", "value": 42})

	select {
	case v := <-values:
		if v != 42 {
			t.Errorf("value = %v, want 42", v)
		}
	case <-time.After(relaytest.Timeout):
		t.Fatal("slider handler not invoked")
	}
}

func TestBuilderOverRelay_StopRecording(t *testing.T) {
	host := relaytest.NewHost(t)
	r, c := runRelay(t, host)

	errc := make(chan error, 1)
	go func() {
		for {
			cmd, err := c.Read()
			if err != nil {
				errc <- err
				return
			}
			if cmd["type"] != egui.OpStopRecording {
				continue
			}
			errc <- c.Write(map[string]any{
				"type": egui.OpStopRecording,
				"events": []map[string]any{
					{"eventType": "slider_change", "componentId": "volume", "eventData": 42, "timestamp": 1000},
					{"eventType": "button_click", "componentId": "rec", "eventData": nil, "timestamp": 2000},
				},
			})
			return
		}
	}()

	scene := egui.New(r).Add3DScene("mainScene").StartRecording()
	events, err := scene.StopRecording(context.Background())
	if err != nil {
		t.Fatalf("StopRecording: %v", err)
	}
	if err := <-errc; err != nil {
		t.Fatalf("host: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("len(events) = %d, want 2", len(events))
	}
	if events[0].ComponentID != "volume" || events[1].Timestamp != 2000 {
		t.Errorf("events = %+v", events)
	}
}

func TestBuilderOverRelay_SilentHost(t *testing.T) {
	host := relaytest.NewHost(t)
	r, _ := runRelay(t, host, relay.WithRequestTimeout(100*time.Millisecond))

	start := time.Now()
	_, err := egui.New(r).Add3DScene("mainScene").StopRecording(context.Background())
	if !errors.Is(err, relay.ErrRequestTimeout) {
		t.Fatalf("err = %v, want ErrRequestTimeout", err)
	}
	if elapsed := time.Since(start); elapsed < 100*time.Millisecond {
		t.Errorf("returned after %v", elapsed)
	}
}
