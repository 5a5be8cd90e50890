package relay

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseEvent(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    string
		wantErr bool
	}{
		{"typed object", `{"type":"slider_change","value":42}`, "slider_change", false},
		{"type only", `{"type":"button_click"}`, "button_click", false},
		{"plain text", `Connected to Pioneer eGUI`, "", true},
		{"no type", `{"value":1}`, "", true},
		{"empty type", `{"type":""}`, "", true},
		{"numeric type", `{"type":5}`, "", true},
		{"array", `[{"type":"x"}]`, "", true},
		{"null", `null`, "", true},
		{"truncated", `{"type":"x"`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := ParseEvent([]byte(tt.data))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseEvent(%q) = %+v, want error", tt.data, ev)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseEvent(%q) error: %v", tt.data, err)
			}
			if ev.Type != tt.want {
				t.Errorf("Type = %q, want %q", ev.Type, tt.want)
			}
			if string(ev.Raw) != tt.data {
				t.Errorf("Raw = %q, want %q", ev.Raw, tt.data)
			}
		})
	}
}

func TestParseEvent_MissingType(t *testing.T) {
	_, err := ParseEvent([]byte(`{"value":1}`))
	if !errors.Is(err, ErrMissingType) {
		t.Errorf("err = %v, want ErrMissingType", err)
	}
}

func TestEvent_Accessors(t *testing.T) {
	ev, err := ParseEvent([]byte(`{"type":"t","value":42,"text":"hi","checked":true,"request_id":"req_1"}`))
	if err != nil {
		t.Fatal(err)
	}
	if got := ev.Float("value"); got != 42 {
		t.Errorf("Float(value) = %v, want 42", got)
	}
	if got := ev.String("text"); got != "hi" {
		t.Errorf("String(text) = %q, want %q", got, "hi")
	}
	if !ev.Bool("checked") {
		t.Error("Bool(checked) = false, want true")
	}
	if got := ev.RequestID(); got != "req_1" {
		t.Errorf("RequestID() = %q, want %q", got, "req_1")
	}

	// Mistyped and missing fields yield zero values.
	if got := ev.Float("text"); got != 0 {
		t.Errorf("Float(text) = %v, want 0", got)
	}
	if got := ev.String("missing"); got != "" {
		t.Errorf("String(missing) = %q, want empty", got)
	}
	if ev.Bool("value") {
		t.Error("Bool(value) = true, want false")
	}
}

func TestNewEvent(t *testing.T) {
	ev := NewEvent("slider_change", map[string]any{"value": 7.0})
	if ev.Type != "slider_change" {
		t.Errorf("Type = %q", ev.Type)
	}
	parsed, err := ParseEvent(ev.Raw)
	if err != nil {
		t.Fatalf("Raw does not parse: %v", err)
	}
	if parsed.Float("value") != 7 {
		t.Errorf("value = %v, want 7", parsed.Float("value"))
	}
}

func TestCommand_MarshalJSON(t *testing.T) {
	type args struct {
		ID    string  `json:"id"`
		Value float64 `json:"value"`
	}

	tests := []struct {
		name string
		cmd  Command
		want map[string]any
	}{
		{
			name: "struct args",
			cmd:  NewCommand("op_set_slider", args{ID: "vol", Value: 50}),
			want: map[string]any{"type": "op_set_slider", "id": "vol", "value": 50.0},
		},
		{
			name: "map args",
			cmd:  NewCommand("hello", map[string]any{"message": "hi"}),
			want: map[string]any{"type": "hello", "message": "hi"},
		},
		{
			name: "nil args",
			cmd:  NewCommand("op_start_recording", nil),
			want: map[string]any{"type": "op_start_recording"},
		},
		{
			name: "type in args is overridden",
			cmd:  NewCommand("op_set_label", map[string]any{"type": "bogus", "text": "x"}),
			want: map[string]any{"type": "op_set_label", "text": "x"},
		},
		{
			name: "request id",
			cmd:  Command{Type: "op_stop_recording", RequestID: "req_abc"},
			want: map[string]any{"type": "op_stop_recording", "request_id": "req_abc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(tt.cmd)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			var got map[string]any
			if err := json.Unmarshal(b, &got); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("%s = %v, want %v", k, got[k], v)
				}
			}
		})
	}
}

func TestCommand_MarshalJSON_NotObject(t *testing.T) {
	_, err := json.Marshal(NewCommand("op_set_label", []string{"a"}))
	if !errors.Is(err, ErrNotObject) {
		t.Errorf("err = %v, want ErrNotObject", err)
	}
}
