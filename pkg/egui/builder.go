package egui

import (
	"context"
	"log/slog"

	"github.com/haivivi/pioneer/pkg/relay"
)

// Relay is the part of *relay.Relay the builder needs.
type Relay interface {
	Send(cmd relay.Command)
	Subscribe(name string, h relay.Handler)
	Request(ctx context.Context, cmd relay.Command) (*relay.Event, error)
}

var _ Relay = (*relay.Relay)(nil)

// Option configures a Builder.
type Option func(*Builder)

// WithLegacyEventNames makes buttons, sliders, inputs and scenes subscribe
// to the shared event names instead of per-id names.
func WithLegacyEventNames() Option {
	return func(b *Builder) {
		b.legacy = true
	}
}

// Builder is the root of a fluent UI chain.
type Builder struct {
	r      Relay
	legacy bool
}

// New creates a Builder sending through r.
func New(r Relay, opts ...Option) *Builder {
	b := &Builder{r: r}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// AddWindow announces a window with the given title. Hosts without a window
// command render the title as a label.
func (b *Builder) AddWindow(title string) *Window {
	b.send(OpSetLabel, LabelArgs{Text: `Window titled "` + title + `"`})
	return &Window{b: b, title: title}
}

// Add3DScene returns a handle for the scene with the given id. No command is
// sent.
func (b *Builder) Add3DScene(id string) *Scene3D {
	return &Scene3D{b: b, id: id}
}

// SaveRecordedEvents asks the host to write its last recording to filename.
func (b *Builder) SaveRecordedEvents(filename string) *Builder {
	b.send(OpSaveRecordedEvents, FileArgs{Filename: filename})
	return b
}

// LoadRecordedEvents asks the host to read a recording from filename.
func (b *Builder) LoadRecordedEvents(filename string) *Builder {
	b.send(OpLoadRecordedEvents, FileArgs{Filename: filename})
	return b
}

// Build marks the end of UI construction. Commands have already been sent
// by then; Build only logs.
func (b *Builder) Build() {
	slog.Info("egui: UI build is complete")
}

// LegacyEventNames reports whether shared event names are in use.
func (b *Builder) LegacyEventNames() bool {
	return b.legacy
}

func (b *Builder) send(name string, args any) {
	b.r.Send(relay.NewCommand(name, args))
}

func (b *Builder) on(kind Kind, id string, fn func(*relay.Event)) {
	b.r.Subscribe(EventName(kind, id, b.legacy), relay.HandlerFunc(fn))
}
