package commands

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/haivivi/pioneer/pkg/cli"
	"github.com/haivivi/pioneer/pkg/timeline"
)

var timelineCmd = &cobra.Command{
	Use:     "timeline",
	Aliases: []string{"tl"},
	Short:   "Manage archived recordings",
	Long: `Manage recordings archived by "pioneer demo".

Timelines live in a BadgerDB under the context's data directory.

Examples:
  pioneer timeline list
  pioneer timeline show rec-20261017-150405 -o json
  pioneer timeline export rec-20261017-150405 ./exports
  pioneer timeline export --all s3://recordings/lab
  pioneer timeline import ./exports/rec-20261017-150405.json
  pioneer timeline delete rec-20261017-150405`,
}

// timelineSummary is one row of "timeline list".
type timelineSummary struct {
	Name    string    `json:"name" yaml:"name"`
	Scene   string    `json:"scene,omitempty" yaml:"scene,omitempty"`
	Events  int       `json:"events" yaml:"events"`
	Span    string    `json:"span" yaml:"span"`
	SavedAt time.Time `json:"saved_at" yaml:"saved_at"`
}

var timelineListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List archived timelines",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		var rows []timelineSummary
		for tl, err := range store.List(cmd.Context()) {
			if err != nil {
				return err
			}
			rows = append(rows, timelineSummary{
				Name:    tl.Name,
				Scene:   tl.Scene,
				Events:  len(tl.Events),
				Span:    cli.FormatSpan(tl.Span()),
				SavedAt: tl.SavedAt,
			})
		}

		if cmd.Flags().Changed("output") {
			return printOutput(rows)
		}
		if len(rows) == 0 {
			fmt.Println("No timelines archived.")
			return nil
		}
		t := cli.NewTable(os.Stdout, "NAME", "SCENE", "EVENTS", "SPAN", "SAVED")
		for _, r := range rows {
			t.Row(r.Name, r.Scene, r.Events, r.Span, r.SavedAt.Local().Format(time.DateTime))
		}
		return t.Flush()
	},
}

var timelineShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a timeline",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		tl, err := store.Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printOutput(tl)
	},
}

var timelineDeleteCmd = &cobra.Command{
	Use:     "delete <name>...",
	Aliases: []string{"rm"},
	Short:   "Delete timelines",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		for _, name := range args {
			if err := store.Delete(cmd.Context(), name); err != nil {
				return err
			}
			cli.PrintSuccess("Deleted %s", name)
		}
		return nil
	},
}

var timelineImportCmd = &cobra.Command{
	Use:   "import <file>...",
	Short: "Archive exported timeline files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		for _, path := range args {
			var tl timeline.Timeline
			if err := cli.LoadRequest(path, &tl); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			if err := store.Save(cmd.Context(), &tl); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			cli.PrintSuccess("Imported %s (%d events)", tl.Name, len(tl.Events))
		}
		return nil
	},
}

var (
	exportAll       bool
	exportOverwrite bool
	exportS3        timeline.S3Config
)

var timelineExportCmd = &cobra.Command{
	Use:   "export [name...] <dir | s3://bucket/prefix>",
	Short: "Export timelines as JSON",
	Long: `Write timelines as "<name>.json" into a directory or an S3 bucket.

S3 settings come from the context's relay.yaml (s3.*), then the AWS_REGION,
AWS_ENDPOINT_URL_S3, AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY
environment variables, then the --s3-* flags, later ones winning.

Existing files are kept unless --overwrite is given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		names, dest := args[:len(args)-1], args[len(args)-1]
		if len(names) == 0 && !exportAll {
			return fmt.Errorf("name the timelines to export or pass --all")
		}
		if len(names) > 0 && exportAll {
			return fmt.Errorf("--all does not take names")
		}

		p, err := loadProfile()
		if err != nil {
			return err
		}
		sink, err := newSink(cmd, p, dest)
		if err != nil {
			return err
		}
		var opts []timeline.ExportOption
		if exportOverwrite {
			opts = append(opts, timeline.WithOverwrite())
		}
		exp := timeline.NewExporter(sink, opts...)

		store, err := p.openTimelines()
		if err != nil {
			return err
		}
		defer store.Close()

		var tls []*timeline.Timeline
		if exportAll {
			for tl, err := range store.List(cmd.Context()) {
				if err != nil {
					return err
				}
				tls = append(tls, tl)
			}
		} else {
			for _, name := range names {
				tl, err := store.Load(cmd.Context(), name)
				if err != nil {
					return err
				}
				tls = append(tls, tl)
			}
		}

		for _, tl := range tls {
			loc, err := exp.Export(cmd.Context(), tl)
			if err != nil {
				return err
			}
			cli.PrintSuccess("Exported %s to %s", tl.Name, loc)
		}
		if len(tls) == 0 {
			cli.PrintInfo("Nothing to export.")
		}
		return nil
	},
}

func newSink(cmd *cobra.Command, p *profile, dest string) (timeline.Sink, error) {
	if !strings.HasPrefix(dest, "s3://") {
		return timeline.NewLocalSink(dest)
	}
	bucket, prefix, err := timeline.ParseS3URL(dest)
	if err != nil {
		return nil, err
	}

	cfg := p.Relay.TimelineS3()
	envOverride(&cfg.Region, "AWS_REGION")
	envOverride(&cfg.Endpoint, "AWS_ENDPOINT_URL_S3")
	envOverride(&cfg.AccessKeyID, "AWS_ACCESS_KEY_ID")
	envOverride(&cfg.SecretAccessKey, "AWS_SECRET_ACCESS_KEY")

	flags := cmd.Flags()
	if flags.Changed("s3-region") {
		cfg.Region = exportS3.Region
	}
	if flags.Changed("s3-endpoint") {
		cfg.Endpoint = exportS3.Endpoint
	}
	if flags.Changed("s3-path-style") {
		cfg.UsePathStyle = exportS3.UsePathStyle
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("no S3 region: set s3.region, AWS_REGION or --s3-region")
	}
	return timeline.NewS3Sink(timeline.NewS3Client(cfg), bucket, prefix), nil
}

func envOverride(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func openStore() (*timeline.Badger, error) {
	p, err := loadProfile()
	if err != nil {
		return nil, err
	}
	return p.openTimelines()
}

func init() {
	f := timelineExportCmd.Flags()
	f.BoolVar(&exportAll, "all", false, "export every timeline")
	f.BoolVar(&exportOverwrite, "overwrite", false, "replace existing files")
	f.StringVar(&exportS3.Region, "s3-region", "", "S3 region")
	f.StringVar(&exportS3.Endpoint, "s3-endpoint", "", "S3-compatible endpoint URL")
	f.BoolVar(&exportS3.UsePathStyle, "s3-path-style", false, "use path-style bucket addressing")

	timelineCmd.AddCommand(timelineListCmd)
	timelineCmd.AddCommand(timelineShowCmd)
	timelineCmd.AddCommand(timelineDeleteCmd)
	timelineCmd.AddCommand(timelineImportCmd)
	timelineCmd.AddCommand(timelineExportCmd)

	rootCmd.AddCommand(timelineCmd)
}
