package command

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/stolasapp/facet/internal/app"
	"github.com/stolasapp/facet/internal/catalog"
	"github.com/stolasapp/facet/internal/server"
)

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "serve the component showcase and its search endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (runErr error) {
			cfg, logger, err := configFrom(cmd.Context())
			if err != nil {
				return err
			}
			store, err := openStore(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := store.Close(); err != nil {
					runErr = errors.Join(runErr, err)
				}
			}()

			seed := catalog.Seed(cfg.Catalog.Seed)
			cat, err := catalog.New(seed, cfg.Catalog.Size)
			if err != nil {
				return err
			}
			logger.DebugContext(cmd.Context(), "catalog generated",
				slog.Uint64("seed", seed),
				slog.Int("entries", cat.Len()),
			)

			grp, ctx := errgroup.WithContext(cmd.Context())
			if _, err = server.Start(ctx, grp, logger, "app", cfg.WebAddress, app.New(cfg, logger, store, cat)); err != nil {
				return err
			}
			return grp.Wait()
		},
	}
}
