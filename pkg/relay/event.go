package relay

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
)

// Reserved envelope fields.
const (
	fieldType      = "type"
	fieldRequestID = "request_id"
)

// CommandHello is the greeting sent on every successful connect.
const CommandHello = "hello"

var (
	// ErrMissingType is returned by ParseEvent for records without a
	// non-empty string "type" field.
	ErrMissingType = errors.New("relay: message has no type")

	// ErrNotObject is returned when a command payload does not encode to a
	// JSON object.
	ErrNotObject = errors.New("relay: payload is not a JSON object")
)

// Command is an outbound instruction for the host.
//
// Args is encoded as a JSON object and flattened into the envelope next to
// "type", so Args must be nil, a map, or a struct. Keys named "type" or
// "request_id" in Args are overridden by the envelope.
type Command struct {
	Type      string
	Args      any
	RequestID string
}

// NewCommand creates a command with the given name and arguments.
func NewCommand(name string, args any) Command {
	return Command{Type: name, Args: args}
}

// MarshalJSON implements json.Marshaler.
func (c Command) MarshalJSON() ([]byte, error) {
	fields := make(map[string]json.RawMessage)
	if c.Args != nil {
		b, err := json.Marshal(c.Args)
		if err != nil {
			return nil, err
		}
		if string(b) != "null" {
			if err := json.Unmarshal(b, &fields); err != nil {
				return nil, fmt.Errorf("%w: %s", ErrNotObject, c.Type)
			}
		}
	}
	typ, err := json.Marshal(c.Type)
	if err != nil {
		return nil, err
	}
	fields[fieldType] = typ
	if c.RequestID != "" {
		id, err := json.Marshal(c.RequestID)
		if err != nil {
			return nil, err
		}
		fields[fieldRequestID] = id
	}
	return json.Marshal(fields)
}

// Event is an inbound notification from the host.
type Event struct {
	// Type is the routing key, copied from the "type" field.
	Type string

	// Fields is the full decoded record, including "type".
	Fields map[string]any

	// Raw is the message as received.
	Raw []byte
}

// ParseEvent decodes a raw message. The message must be a JSON object with
// a non-empty string "type" field.
func ParseEvent(data []byte) (*Event, error) {
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("relay: parse message: %w", err)
	}
	typ, ok := fields[fieldType].(string)
	if !ok || typ == "" {
		return nil, ErrMissingType
	}
	return &Event{Type: typ, Fields: fields, Raw: data}, nil
}

// NewEvent builds an event from a type and fields, as if received from the
// host: Fields hold the JSON-decoded form of the input, so numbers become
// float64. It is mostly useful for tests and replays.
func NewEvent(typ string, fields map[string]any) *Event {
	all := make(map[string]any, len(fields)+1)
	maps.Copy(all, fields)
	all[fieldType] = typ
	raw, err := json.Marshal(all)
	if err != nil {
		return &Event{Type: typ, Fields: all}
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return &Event{Type: typ, Fields: all, Raw: raw}
	}
	return &Event{Type: typ, Fields: decoded, Raw: raw}
}

// RequestID returns the echoed request_id, if any.
func (e *Event) RequestID() string {
	return e.String(fieldRequestID)
}

// Decode unmarshals the raw message into v.
func (e *Event) Decode(v any) error {
	return json.Unmarshal(e.Raw, v)
}

// String returns the string field key, or "" if absent or not a string.
func (e *Event) String(key string) string {
	s, _ := e.Fields[key].(string)
	return s
}

// Float returns the numeric field key, or 0 if absent or not a number.
func (e *Event) Float(key string) float64 {
	f, _ := e.Fields[key].(float64)
	return f
}

// Bool returns the boolean field key, or false if absent or not a bool.
func (e *Event) Bool(key string) bool {
	b, _ := e.Fields[key].(bool)
	return b
}

// Handler responds to an inbound event.
type Handler interface {
	HandleEvent(*Event)
}

// HandlerFunc adapts an ordinary function to a Handler.
type HandlerFunc func(*Event)

// HandleEvent calls f(ev).
func (f HandlerFunc) HandleEvent(ev *Event) {
	f(ev)
}
