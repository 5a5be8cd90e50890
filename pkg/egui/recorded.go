package egui

import "time"

// RecordedEvent is one UI interaction captured by the host while recording.
type RecordedEvent struct {
	EventType   string `json:"eventType" yaml:"eventType" msgpack:"eventType"`
	ComponentID string `json:"componentId" yaml:"componentId" msgpack:"componentId"`
	EventData   any    `json:"eventData" yaml:"eventData" msgpack:"eventData"`

	// Timestamp is in milliseconds since the Unix epoch.
	Timestamp uint64 `json:"timestamp" yaml:"timestamp" msgpack:"timestamp"`
}

// Time returns Timestamp as a time.Time.
func (e RecordedEvent) Time() time.Time {
	return time.UnixMilli(int64(e.Timestamp))
}
