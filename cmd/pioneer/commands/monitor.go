package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/haivivi/pioneer/pkg/cli"
	"github.com/haivivi/pioneer/pkg/relay"
)

var (
	monitorFilter   string
	monitorTypes    []string
	monitorMaxValue int
	monitorStats    bool
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Print every event the host sends",
	Long: `Connect to the host and print every event it sends, one per line.

--type keeps only the named events. --filter runs a jq expression on each
event; every result is printed, and an expression that yields nothing
hides the event. With -o json each result is printed as one JSON line.

Examples:
  pioneer monitor
  pioneer monitor --type slider_volumeSlider
  pioneer monitor --filter 'select(.value > 50) | {id, value}'
  pioneer monitor -o json | tee events.jsonl`,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, err := cli.NewFilter(monitorFilter)
		if err != nil {
			return err
		}
		p, err := loadProfile()
		if err != nil {
			return err
		}
		jsonLines := cmd.Flags().Changed("output") && outputFormat == string(cli.FormatJSON)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		m := &monitor{
			w:        os.Stdout,
			styles:   cli.NewStyles(cli.DefaultTheme),
			filter:   filter,
			types:    monitorTypes,
			maxValue: monitorMaxValue,
			json:     jsonLines,
		}
		r := p.newRelay()
		r.Observe(m.handle)

		slog.Info("monitor: watching", "url", r.URL())
		err = r.Run(ctx)
		if monitorStats {
			fmt.Fprintln(os.Stderr)
			printOutput(r.Stats())
		}
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

// monitor renders observed events.
type monitor struct {
	w        io.Writer
	styles   cli.Styles
	filter   *cli.Filter
	types    []string
	maxValue int
	json     bool

	mu sync.Mutex
}

func (m *monitor) handle(ev *relay.Event) {
	if len(m.types) > 0 && !slices.Contains(m.types, ev.Type) {
		return
	}
	results, err := m.filter.Apply(ev.Fields)
	if err != nil {
		slog.Warn("monitor: filter failed", "type", ev.Type, "error", err)
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	for _, v := range results {
		if m.json {
			cli.Output(v, cli.OutputOptions{Format: cli.FormatJSON, Compact: true, Writer: m.w})
			continue
		}
		fields, ok := v.(map[string]any)
		if !ok {
			fields = map[string]any{"value": v}
		}
		fmt.Fprintln(m.w, m.styles.EventLine(now, ev.Type, fields, m.maxValue))
	}
}

func init() {
	monitorCmd.Flags().StringVar(&monitorFilter, "filter", "", "jq expression applied to each event")
	monitorCmd.Flags().StringSliceVarP(&monitorTypes, "type", "t", nil, "only show these event types")
	monitorCmd.Flags().IntVar(&monitorMaxValue, "max-value", 80, "truncate field values longer than this (0 for no limit)")
	monitorCmd.Flags().BoolVar(&monitorStats, "stats", false, "print relay counters on exit")

	rootCmd.AddCommand(monitorCmd)
}
