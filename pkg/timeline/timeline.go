// Package timeline archives recordings returned by the eGUI host.
//
// A Timeline is a named list of recorded events. Stores keep timelines as
// msgpack values under keys of the form "timeline:<name>". The Badger store
// is used by the CLI; Memory is for tests. An Exporter writes a timeline as
// JSON to a local directory or an S3 bucket.
package timeline

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/haivivi/pioneer/pkg/egui"
)

// Sentinel errors.
var (
	// ErrNotFound is returned when a timeline does not exist.
	ErrNotFound = errors.New("timeline: not found")

	// ErrInvalidName is returned for empty names or names containing a
	// separator.
	ErrInvalidName = errors.New("timeline: invalid name")
)

// Timeline is an archived recording.
type Timeline struct {
	Name    string               `json:"name" yaml:"name" msgpack:"name"`
	Scene   string               `json:"scene,omitempty" yaml:"scene,omitempty" msgpack:"scene,omitempty"`
	SavedAt time.Time            `json:"saved_at" yaml:"saved_at" msgpack:"saved_at"`
	Events  []egui.RecordedEvent `json:"events" yaml:"events" msgpack:"events"`
}

// New creates a timeline named after savedAt.
func New(scene string, events []egui.RecordedEvent, savedAt time.Time) *Timeline {
	return &Timeline{
		Name:    NameAt(savedAt),
		Scene:   scene,
		SavedAt: savedAt,
		Events:  events,
	}
}

// NameAt returns the default timeline name for a recording saved at t.
func NameAt(t time.Time) string {
	return "rec-" + t.UTC().Format("20060102-150405")
}

// SaveNew stores tl without replacing an existing timeline. If tl.Name is
// taken, "-2", "-3", ... is appended until a free name is found, and
// tl.Name is updated to the name used.
func SaveNew(ctx context.Context, s Store, tl *Timeline) error {
	base := tl.Name
	for n := 2; ; n++ {
		_, err := s.Load(ctx, tl.Name)
		if errors.Is(err, ErrNotFound) {
			return s.Save(ctx, tl)
		}
		if err != nil {
			return err
		}
		tl.Name = fmt.Sprintf("%s-%d", base, n)
	}
}

// Span returns the time between the first and last event.
func (t *Timeline) Span() time.Duration {
	if len(t.Events) < 2 {
		return 0
	}
	first, last := t.Events[0].Timestamp, t.Events[len(t.Events)-1].Timestamp
	if last < first {
		return 0
	}
	return time.Duration(last-first) * time.Millisecond
}

// Store is the interface for timeline archives.
type Store interface {
	// Save stores tl, replacing any timeline with the same name.
	Save(ctx context.Context, tl *Timeline) error

	// Load returns the named timeline, or ErrNotFound.
	Load(ctx context.Context, name string) (*Timeline, error)

	// List iterates over all timelines in name order.
	List(ctx context.Context) iter.Seq2[*Timeline, error]

	// Delete removes the named timeline, or returns ErrNotFound.
	Delete(ctx context.Context, name string) error

	// Close releases any resources held by the store.
	Close() error
}

func validName(name string) error {
	if name == "" || strings.ContainsAny(name, ":/\\") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
