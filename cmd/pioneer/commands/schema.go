package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haivivi/pioneer/pkg/cli"
	"github.com/haivivi/pioneer/pkg/egui"
)

var schemaList bool

var schemaCmd = &cobra.Command{
	Use:   "schema [command]",
	Short: "Print command payload schemas",
	Long: `Print the JSON Schema of a command's payload, or of every command.

Output is JSON unless -o is given.

Examples:
  pioneer schema --list
  pioneer schema op_rotate_3d
  pioneer schema -o yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if schemaList {
			for _, name := range egui.Commands() {
				fmt.Println(name)
			}
			return nil
		}

		var v any
		var err error
		if len(args) == 1 {
			v, err = egui.Schema(args[0])
		} else {
			v, err = egui.Schemas()
		}
		if err != nil {
			return err
		}

		// The schema type only knows how to encode itself as JSON.
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		var doc any
		if err := json.Unmarshal(data, &doc); err != nil {
			return err
		}

		opts, err := getOutputOptions()
		if err != nil {
			return err
		}
		if !cmd.Flags().Changed("output") {
			opts.Format = cli.FormatJSON
		}
		return cli.Output(doc, opts)
	},
}

func init() {
	schemaCmd.Flags().BoolVar(&schemaList, "list", false, "list command names only")

	rootCmd.AddCommand(schemaCmd)
}
