// Package cli provides terminal helpers shared by the pioneer command.
//
// This package includes:
//   - Output formatting (YAML, JSON, raw)
//   - Command script loading (YAML/JSON)
//   - Lenient JSON payload parsing
//   - slog setup for command-line use
//   - lipgloss styles for event output
//
// Example usage:
//
//	log, err := cli.NewLogger(os.Stderr, "info", false)
//
//	script, err := cli.LoadScript("demo.yaml")
//
//	cli.Output(stats, cli.OutputOptions{Format: cli.FormatJSON})
package cli
