package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/haivivi/pioneer/cmd/pioneer/internal/config"
	"github.com/haivivi/pioneer/pkg/cli"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long: `Manage contexts and their relay settings.

A context is a named directory holding relay.yaml: the host URL, greeting,
reconnect delay, request timeout, event naming, data directory and the S3
target used by "timeline export".

Examples:
  pioneer config list
  pioneer config add-context lab
  pioneer config use-context lab
  pioneer config set lab url ws://10.0.0.2:9001
  pioneer config set lab reconnect_delay 2s
  pioneer config show lab`,
}

var configListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "list-contexts"},
	Short:   "List all contexts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		names, err := cfg.ListContexts()
		if err != nil {
			return err
		}

		if len(names) == 0 {
			fmt.Println("No contexts configured.")
			fmt.Println("Create one with: pioneer config add-context <name>")
			return nil
		}

		t := cli.NewTable(os.Stdout, "CURRENT", "NAME", "URL")
		for _, name := range names {
			current := ""
			if name == cfg.CurrentContext {
				current = "*"
			}
			url := "(default)"
			if rc, err := cfg.LoadRelay(name); err != nil {
				url = "(invalid relay.yaml)"
			} else if rc.URL != "" {
				url = rc.URL
			}
			t.Row(current, name, url)
		}
		return t.Flush()
	},
}

var configAddContextCmd = &cobra.Command{
	Use:   "add-context <name>",
	Short: "Create a new context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		name := args[0]
		if err := cfg.AddContext(name); err != nil {
			return err
		}
		fmt.Printf("Context %q created.\n", name)
		fmt.Printf("Configure it with: pioneer config set %s <key> <value>\n", name)
		return nil
	},
}

var configDeleteContextCmd = &cobra.Command{
	Use:   "delete-context <name>",
	Short: "Delete a context and its settings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		if err := cfg.DeleteContext(args[0]); err != nil {
			return err
		}
		fmt.Printf("Context %q deleted.\n", args[0])
		return nil
	},
}

var configUseContextCmd = &cobra.Command{
	Use:   "use-context <name>",
	Short: "Set the current context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		if err := cfg.UseContext(args[0]); err != nil {
			return err
		}
		fmt.Printf("Switched to context %q.\n", args[0])
		return nil
	},
}

var configCurrentContextCmd = &cobra.Command{
	Use:   "current-context",
	Short: "Display the current context name",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		if cfg.CurrentContext == "" {
			fmt.Println("No current context set.")
			return nil
		}
		fmt.Println(cfg.CurrentContext)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <context> <key> <value>",
	Short: "Set a relay setting",
	Long: `Set a key in a context's relay.yaml.

Keys:
  ` + strings.Join(config.Keys, "\n  "),
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		ctxName, key, value := args[0], args[1], args[2]
		if err := config.ValidateContextName(ctxName); err != nil {
			return err
		}
		rc, err := cfg.LoadRelay(ctxName)
		if err != nil {
			return err
		}
		if err := rc.Set(key, value); err != nil {
			return err
		}
		if err := cfg.SaveRelay(ctxName, rc); err != nil {
			return err
		}
		if strings.Contains(key, "secret") {
			value = mask(value)
		}
		fmt.Printf("Set %s = %s (context: %s)\n", key, value, ctxName)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show [context]",
	Short: "Show the relay settings of a context",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		name := contextName
		if len(args) == 1 {
			name = args[0]
		}
		name, err = cfg.ResolveContext(name)
		if err != nil {
			return err
		}
		rc, err := cfg.LoadRelay(name)
		if err != nil {
			return err
		}
		shown := *rc
		shown.S3.SecretAccessKey = mask(shown.S3.SecretAccessKey)
		return printOutput(shown)
	},
}

// mask hides all but the last four characters of a secret.
func mask(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}

func init() {
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configAddContextCmd)
	configCmd.AddCommand(configDeleteContextCmd)
	configCmd.AddCommand(configUseContextCmd)
	configCmd.AddCommand(configCurrentContextCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configShowCmd)

	rootCmd.AddCommand(configCmd)
}
