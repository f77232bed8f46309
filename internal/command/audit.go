package command

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/stolasapp/facet/internal/audit"
	"github.com/stolasapp/facet/internal/slugconv"
)

func auditCommand() *cobra.Command {
	var (
		depth int
		probe string
	)
	cmd := &cobra.Command{
		Use:   "audit [URL]",
		Short: "Crawl a running site and check its widget markup",
		Long: "Crawls the pages reachable from URL, mounting every widget and probing every\n" +
			"remote search endpoint. URL defaults to the configured web address.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := configFrom(cmd.Context())
			if err != nil {
				return err
			}
			base := "http://" + cfg.WebAddress + "/"
			if len(args) > 0 {
				base = args[0]
			}

			auditor, err := audit.New(base, logger, audit.WithMaxDepth(depth), audit.WithProbe(probe))
			if err != nil {
				return err
			}
			report, err := auditor.Run(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "%d pages, %d search endpoints\n", report.Pages, report.Searches)
			for _, name := range slices.Sorted(maps.Keys(report.Widgets)) {
				_, _ = fmt.Fprintf(out, "  %-14s %d\n", slugconv.ToTitle(name), report.Widgets[name])
			}
			for _, finding := range report.Findings {
				_, _ = fmt.Fprintln(out, finding)
			}
			if !report.OK() {
				return fmt.Errorf("audit found %d problems", len(report.Findings))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&depth, "depth", audit.DefaultMaxDepth, "maximum link depth to crawl")
	cmd.Flags().StringVar(&probe, "probe", audit.DefaultProbe, "query sent to remote search endpoints")
	return cmd
}
