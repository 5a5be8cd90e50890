package commands

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/haivivi/pioneer/cmd/pioneer/internal/config"
	"github.com/haivivi/pioneer/pkg/egui"
	"github.com/haivivi/pioneer/pkg/relay"
	"github.com/haivivi/pioneer/pkg/timeline"
)

// profile is the resolved configuration of one invocation: the selected
// context, its relay.yaml and the command-line overrides.
type profile struct {
	Context string
	Relay   *config.RelayConfig
	DataDir string
}

func loadProfile() (*profile, error) {
	cfg, err := GetConfig()
	if err != nil {
		return nil, err
	}
	name, err := cfg.ResolveContext(contextName)
	if err != nil {
		return nil, err
	}
	rc, err := cfg.LoadRelay(name)
	if err != nil {
		return nil, err
	}
	if relayURL != "" {
		rc.URL = relayURL
	}
	return &profile{
		Context: name,
		Relay:   rc,
		DataDir: cfg.DataDir(name, rc),
	}, nil
}

func (p *profile) newRelay(opts ...relay.Option) *relay.Relay {
	all := append(p.Relay.RelayOptions(), relay.WithLogger(relay.SlogLogger(slog.Default())))
	return relay.New(append(all, opts...)...)
}

func (p *profile) builderOptions() []egui.Option {
	if p.Relay.LegacyEventNames {
		return []egui.Option{egui.WithLegacyEventNames()}
	}
	return nil
}

func (p *profile) openTimelines() (*timeline.Badger, error) {
	return timeline.NewBadger(timeline.BadgerOptions{
		Dir:    filepath.Join(p.DataDir, "timeline"),
		Logger: slog.Default(),
	})
}

// session is a relay running in the background for a short-lived command.
type session struct {
	*relay.Relay
	cancel context.CancelFunc
	done   chan struct{}
}

// dial starts a relay and waits up to wait for the first connection. The
// relay keeps reconnecting in the background until Close.
func (p *profile) dial(ctx context.Context, wait time.Duration, opts ...relay.Option) (*session, error) {
	connected := make(chan struct{}, 1)
	opts = append(opts, relay.WithOnConnected(func() {
		select {
		case connected <- struct{}{}:
		default:
		}
	}))
	r := p.newRelay(opts...)

	ctx, cancel := context.WithCancel(ctx)
	s := &session{Relay: r, cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(s.done)
		r.Run(ctx)
	}()

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-connected:
		return s, nil
	case <-timer.C:
		s.Close()
		return nil, fmt.Errorf("no connection to %s within %v", r.URL(), wait)
	case <-ctx.Done():
		s.Close()
		return nil, ctx.Err()
	}
}

// Close stops the relay and waits for Run to return.
func (s *session) Close() {
	s.cancel()
	<-s.done
}
