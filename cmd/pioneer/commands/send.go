package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/haivivi/pioneer/pkg/cli"
	"github.com/haivivi/pioneer/pkg/egui"
	"github.com/haivivi/pioneer/pkg/relay"
)

var (
	sendFile    string
	sendAwait   bool
	sendWait    time.Duration
	sendTimeout time.Duration
)

var sendCmd = &cobra.Command{
	Use:   "send <type> [payload]",
	Short: "Send one command to the host",
	Long: `Connect, send one command and disconnect.

The payload is a JSON object. It may also be written loosely (unquoted
keys, single quotes, trailing commas) and is repaired before sending. Use
-f to read it from a YAML or JSON file, or -f - for stdin.

With --await the command carries a request_id and the reply is printed.

Examples:
  pioneer send op_set_label '{"id": "welcomeLabel", "text": "Hi"}'
  pioneer send op_rotate_3d '{scene_id: mainScene, angle: 90}'
  pioneer send op_stop_recording --await -o json`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		typ := args[0]
		payload, err := sendPayload(args[1:])
		if err != nil {
			return err
		}
		if !egui.IsCommand(typ) {
			cli.PrintWarning("%q is not a known eGUI command; sending anyway", typ)
		}

		p, err := loadProfile()
		if err != nil {
			return err
		}
		s, err := p.dial(cmd.Context(), sendWait)
		if err != nil {
			return err
		}
		defer s.Close()

		c := relay.NewCommand(typ, payload)
		if sendAwait {
			ctx, cancel := context.WithTimeout(cmd.Context(), sendTimeout)
			defer cancel()
			ev, err := s.Request(ctx, c)
			if err != nil {
				return err
			}
			return printOutput(ev.Fields)
		}

		s.Send(c)
		if s.Stats().SendFailures > 0 {
			return fmt.Errorf("send %s failed", typ)
		}
		cli.PrintSuccess("Sent %s to %s", typ, s.URL())
		return nil
	},
}

func sendPayload(args []string) (map[string]any, error) {
	if sendFile != "" {
		if len(args) > 0 {
			return nil, fmt.Errorf("payload given both inline and with -f")
		}
		var m map[string]any
		if sendFile == "-" {
			if err := cli.LoadRequestFromStdin(&m); err != nil {
				return nil, err
			}
			return m, nil
		}
		if err := cli.LoadRequest(sendFile, &m); err != nil {
			return nil, err
		}
		return m, nil
	}
	if len(args) == 0 {
		return nil, nil
	}
	return cli.ParsePayload(args[0])
}

func init() {
	sendCmd.Flags().StringVarP(&sendFile, "file", "f", "", "payload file (YAML or JSON, - for stdin)")
	sendCmd.Flags().BoolVar(&sendAwait, "await", false, "wait for the host's reply and print it")
	sendCmd.Flags().DurationVar(&sendWait, "wait", 5*time.Second, "how long to wait for a connection")
	sendCmd.Flags().DurationVar(&sendTimeout, "timeout", relay.DefaultRequestTimeout, "how long to wait for a reply with --await")

	rootCmd.AddCommand(sendCmd)
}
