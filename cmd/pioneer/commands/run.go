package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/haivivi/pioneer/pkg/cli"
	"github.com/haivivi/pioneer/pkg/egui"
	"github.com/haivivi/pioneer/pkg/relay"
)

var (
	runFile    string
	runDryRun  bool
	runWait    time.Duration
	runTimeout time.Duration
)

var runCmd = &cobra.Command{
	Use:   "run -f <script>",
	Short: "Send a scripted list of commands",
	Long: `Send the commands of a YAML or JSON script in order.

Each step names a command and its arguments. "delay" waits before the step
is sent; "await" sends it as a request and prints the reply.

  steps:
    - type: op_set_label
      args: {id: status, text: Recording}
    - type: op_start_recording
    - type: op_rotate_3d
      args: {scene_id: mainScene, angle: 90}
      delay: 2s
    - type: op_stop_recording
      await: true

--dry-run prints the encoded commands without connecting.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if runFile == "" {
			return fmt.Errorf("a script is required: -f <file> (or -f - for stdin)")
		}
		script, err := cli.LoadScript(runFile)
		if err != nil {
			return err
		}
		for _, step := range script.Steps {
			if !egui.IsCommand(step.Type) {
				cli.PrintWarning("%q is not a known eGUI command", step.Type)
			}
		}
		if runDryRun {
			return dryRun(os.Stdout, script)
		}

		p, err := loadProfile()
		if err != nil {
			return err
		}
		s, err := p.dial(cmd.Context(), runWait)
		if err != nil {
			return err
		}
		defer s.Close()

		res, err := runScript(cmd.Context(), s.Relay, script, runTimeout)
		if err != nil {
			return err
		}
		cli.PrintSuccess("Ran %d steps (%d sent, %d failed)", len(script.Steps), res.Sent, res.Failed)
		return nil
	},
}

// runResult counts script steps by outcome. Greetings sent on reconnect
// are not steps and are not counted.
type runResult struct {
	Sent   int
	Failed int
}

// runScript plays script through r. Replies to awaited steps are printed
// with the global output options.
func runScript(ctx context.Context, r *relay.Relay, script *cli.Script, timeout time.Duration) (runResult, error) {
	var res runResult
	for i, step := range script.Steps {
		d, _ := step.DelayDuration()
		if d > 0 {
			select {
			case <-ctx.Done():
				return res, ctx.Err()
			case <-time.After(d):
			}
		}

		c := relay.NewCommand(step.Type, step.Args)
		if !step.Await {
			slog.Debug("run: step", "n", i+1, "type", step.Type)
			failures := r.Stats().SendFailures
			r.Send(c)
			if r.Stats().SendFailures > failures {
				res.Failed++
			} else {
				res.Sent++
			}
			continue
		}

		rctx, cancel := context.WithTimeout(ctx, timeout)
		ev, err := r.Request(rctx, c)
		cancel()
		if err != nil {
			return res, fmt.Errorf("step %d (%s): %w", i+1, step.Type, err)
		}
		res.Sent++
		if err := printOutput(ev.Fields); err != nil {
			return res, err
		}
	}
	return res, nil
}

func dryRun(w io.Writer, script *cli.Script) error {
	enc := json.NewEncoder(w)
	for _, step := range script.Steps {
		if err := enc.Encode(relay.NewCommand(step.Type, step.Args)); err != nil {
			return fmt.Errorf("encode %s: %w", step.Type, err)
		}
	}
	return nil
}

func init() {
	runCmd.Flags().StringVarP(&runFile, "file", "f", "", "script file (YAML or JSON, - for stdin)")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "print the commands instead of sending them")
	runCmd.Flags().DurationVar(&runWait, "wait", 5*time.Second, "how long to wait for a connection")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", relay.DefaultRequestTimeout, "reply timeout for awaited steps")

	rootCmd.AddCommand(runCmd)
}
