package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/haivivi/pioneer/cmd/pioneer/internal/config"
	"github.com/haivivi/pioneer/pkg/cli"
)

var (
	// Global flags
	verbose      bool
	logLevel     string
	contextName  string
	relayURL     string
	outputFormat string
	outputFile   string

	// Global configuration (loaded at init time)
	globalConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "pioneer",
	Short: "Drive an eGUI host over its WebSocket channel",
	Long: `pioneer - build and drive immediate-mode UIs hosted by an eGUI process.

The host listens on a local WebSocket (ws://127.0.0.1:9001 by default).
pioneer sends it JSON commands ("op_set_label", "op_rotate_3d", ...) and
reacts to the events it emits ("button_click", "slider_change", ...).

Configuration is stored in the OS config directory:
  macOS:   ~/Library/Application Support/pioneer/
  Linux:   ~/.config/pioneer/
  Windows: %AppData%/pioneer/

Examples:
  # Run the Timeline Dashboard against a local host
  pioneer demo

  # Watch everything the host sends
  pioneer monitor --filter 'select(.type | startswith("slider"))'

  # One-shot command
  pioneer send op_rotate_3d '{scene_id: mainScene, angle: 90}'

  # Point at another host through a context
  pioneer config add-context lab
  pioneer config set lab url ws://10.0.0.2:9001
  pioneer -c lab monitor`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	pf.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	pf.StringVarP(&contextName, "context", "c", "", "config context (default: current context)")
	pf.StringVar(&relayURL, "url", "", "host WebSocket URL (overrides the context)")
	pf.StringVarP(&outputFormat, "output", "o", "yaml", "output format: yaml, json, raw")
	pf.StringVar(&outputFile, "output-file", "", "write output to a file instead of stdout")
}

// configLoadErr stores the error from config.Load() for deferred reporting.
var configLoadErr error

func initConfig() {
	cfg, err := config.Load()
	if err != nil {
		// Reported by GetConfig so that 'pioneer version' still works.
		configLoadErr = err
		return
	}
	globalConfig = cfg
}

func setupLogging(cmd *cobra.Command, args []string) error {
	logger, err := cli.NewLogger(os.Stderr, logLevel, verbose)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	return nil
}

// GetConfig returns the global configuration.
// Returns an error if the config could not be loaded (e.g., HOME not set).
func GetConfig() (*config.Config, error) {
	if globalConfig == nil {
		if configLoadErr != nil {
			return nil, fmt.Errorf("config not available: %w", configLoadErr)
		}
		cfg, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("config not available: %w", err)
		}
		globalConfig = cfg
	}
	return globalConfig, nil
}

// IsVerbose returns whether verbose mode is enabled.
func IsVerbose() bool {
	return verbose
}

func getOutputOptions() (cli.OutputOptions, error) {
	format, err := cli.ParseFormat(outputFormat)
	if err != nil {
		return cli.OutputOptions{}, err
	}
	return cli.OutputOptions{Format: format, File: outputFile}, nil
}

func printOutput(v any) error {
	opts, err := getOutputOptions()
	if err != nil {
		return err
	}
	return cli.Output(v, opts)
}
