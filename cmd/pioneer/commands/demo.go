package commands

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/haivivi/pioneer/pkg/egui"
	"github.com/haivivi/pioneer/pkg/relay"
	"github.com/haivivi/pioneer/pkg/timeline"
)

const (
	demoScene    = "mainScene"
	demoFile     = "timeline.json"
	demoRotation = 15.0
)

var (
	demoInterval time.Duration
	demoFilename string
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the Timeline Dashboard",
	Long: `Build the Timeline Dashboard on the host and serve its events.

The dashboard has recording and playback buttons, a volume slider, a
username input, a notifications checkbox, theme and language selectors, an
upload progress bar, and a 3-D scene that turns by 15 degrees every 5s.

Stopping a recording archives it in the local timeline store (see
"pioneer timeline list") and asks the host to save it to timeline.json.
The layout is redrawn whenever the host reconnects. Runs until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadProfile()
		if err != nil {
			return err
		}
		store, err := p.openTimelines()
		if err != nil {
			return err
		}
		defer store.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		d := newDashboard(store, p.builderOptions()...)
		d.file = demoFilename

		var r *relay.Relay
		r = p.newRelay(relay.WithOnConnected(func() { d.draw(ctx, r) }))
		go d.spin(ctx, r, demoInterval)

		slog.Info("demo: serving dashboard", "url", r.URL(), "context", p.Context)
		if err := r.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

// dashboard is the Timeline Dashboard UI.
type dashboard struct {
	store timeline.Store
	opts  []egui.Option
	file  string
	now   func() time.Time

	// onArchive is called after a recording has been stored.
	onArchive func(*timeline.Timeline)

	mu    sync.Mutex
	drawn bool
}

func newDashboard(store timeline.Store, opts ...egui.Option) *dashboard {
	return &dashboard{
		store: store,
		opts:  opts,
		file:  demoFile,
		now:   time.Now,
	}
}

// draw sends the layout. Handlers are registered on the first call only;
// later calls repaint a host that reconnected.
func (d *dashboard) draw(ctx context.Context, r egui.Relay) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.drawn {
		d.build(ctx, layoutOnly{r})
		return
	}
	d.build(ctx, r)
	d.drawn = true
}

func (d *dashboard) build(ctx context.Context, r egui.Relay) {
	b := egui.New(r, d.opts...)
	scene := b.Add3DScene(demoScene)

	w := b.AddWindow("Timeline Dashboard")
	w.AddLabel("welcomeLabel").
		SetText("Welcome to Pioneer eGUI with Timeline!").
		AddButton("recordButton", "Start Recording").
		OnClick(func() {
			slog.Info("demo: start recording")
			scene.StartRecording()
		}).
		AddButton("stopRecordButton", "Stop Recording").
		OnClick(func() {
			slog.Info("demo: stop recording")
			// Handlers run on the read loop, which must stay free to
			// deliver the reply.
			go d.archive(ctx, b, scene)
		}).
		AddButton("loadButton", "Load Recording").
		OnClick(func() {
			slog.Info("demo: load recording", "file", d.file)
			b.LoadRecordedEvents(d.file)
		}).
		AddButton("playbackButton", "Start Playback").
		OnClick(func() {
			slog.Info("demo: start playback")
			scene.StartPlayback()
		}).
		AddButton("stopPlaybackButton", "Stop Playback").
		OnClick(func() {
			slog.Info("demo: stop playback")
			scene.StopPlayback()
		})

	w.AddSlider("volumeSlider", 0, 100).
		SetValue(50).
		OnChange(func(v float64) { slog.Info("demo: slider changed", "id", "volumeSlider", "value", v) })

	w.AddInput("usernameInput").
		SetText("John Doe").
		OnInput(func(text string) { slog.Info("demo: input changed", "id", "usernameInput", "text", text) })

	w.AddCheckbox("notificationsCheckbox").
		SetChecked(true).
		OnToggle(func(checked bool) { slog.Info("demo: checkbox toggled", "id", "notificationsCheckbox", "checked", checked) })

	w.AddComboBox("themeCombo", []string{"Light", "Dark", "System"}).
		SetSelected("Dark").
		OnChange(func(s string) { slog.Info("demo: combo box selected", "id", "themeCombo", "selected", s) })

	w.AddRadioGroup("languageRadio", []string{"English", "Spanish", "French"}).
		SetSelected("English").
		OnChange(func(s string) { slog.Info("demo: radio selected", "id", "languageRadio", "selected", s) })

	w.AddProgressBar("uploadProgress").
		SetProgress(0).
		OnUpdate(func(v float64) { slog.Info("demo: progress updated", "id", "uploadProgress", "value", v) })

	scene.AddCube("cube1", 1.0).
		AddSphere("sphere1", 0.5).
		Rotate(45).
		OnRotate(func(angle float64) { slog.Info("demo: scene rotated", "scene", demoScene, "angle", angle) })

	b.Build()
}

// archive stops the recording, stores what the host returned and asks the
// host to save its copy.
func (d *dashboard) archive(ctx context.Context, b *egui.Builder, scene *egui.Scene3D) {
	events, err := scene.StopRecording(ctx)
	if err != nil {
		slog.Error("demo: stop recording failed", "error", err)
		return
	}
	tl := timeline.New(scene.ID(), events, d.now())
	if err := timeline.SaveNew(ctx, d.store, tl); err != nil {
		slog.Error("demo: archive recording failed", "name", tl.Name, "error", err)
		return
	}
	slog.Info("demo: recording archived", "name", tl.Name, "events", len(events))

	b.SaveRecordedEvents(d.file)
	slog.Info("demo: saved on host", "file", d.file)

	if d.onArchive != nil {
		d.onArchive(tl)
	}
}

// spin rotates the scene every interval while connected.
func (d *dashboard) spin(ctx context.Context, r *relay.Relay, interval time.Duration) {
	if interval <= 0 {
		return
	}
	scene := egui.New(r, d.opts...).Add3DScene(demoScene)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if r.State() == relay.StateConnected {
				scene.Rotate(demoRotation)
			}
		}
	}
}

// layoutOnly forwards commands and drops subscriptions.
type layoutOnly struct {
	egui.Relay
}

func (layoutOnly) Subscribe(string, relay.Handler) {}

func init() {
	demoCmd.Flags().DurationVar(&demoInterval, "rotate-every", 5*time.Second, "scene rotation interval (0 disables)")
	demoCmd.Flags().StringVar(&demoFilename, "file", demoFile, "recording file name on the host")

	rootCmd.AddCommand(demoCmd)
}
