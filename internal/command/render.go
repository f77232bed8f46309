package command

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/stolasapp/facet/internal/app"
	"github.com/stolasapp/facet/internal/catalog"
	"github.com/stolasapp/facet/internal/content"
)

const (
	formatHTML     = "html"
	formatMarkdown = "markdown"
)

func renderCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "render COMPONENT",
		Short: "Render a component's demo markup",
		Long: "Renders the server-side markup of a component demo to stdout, either as\n" +
			"HTML or as a Markdown approximation of its text content.",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: app.Components(),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains([]string{formatHTML, formatMarkdown}, format) {
				return fmt.Errorf("unknown format %q", format)
			}
			cfg, _, err := configFrom(cmd.Context())
			if err != nil {
				return err
			}
			cat, err := catalog.New(catalog.Seed(cfg.Catalog.Seed), cfg.Catalog.Size)
			if err != nil {
				return err
			}
			component, err := app.Fragment(args[0], cat, app.SearchPath)
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err = component.Render(cmd.Context(), &buf); err != nil {
				return err
			}
			out := buf.Bytes()
			if format == formatMarkdown {
				if out, err = content.ExportMarkdown(out); err != nil {
					return err
				}
			}
			out = append(bytes.TrimRight(out, "\n"), '\n')
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatHTML, "output format, html or markdown")
	return cmd
}
