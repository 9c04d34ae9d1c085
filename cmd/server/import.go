package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/phoenix4012/souchier/pkg/config"
	"github.com/phoenix4012/souchier/pkg/server"
	"github.com/phoenix4012/souchier/pkg/storage"
)

func newImportCmd(flags *globalFlags) *cobra.Command {
	var from, name string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Save a registry source as a named snapshot",
		Long: `Load any registry source and store it in the snapshot store under the data
directory. Serve or export it later with --source store:<name>.`,
		Example: `  souchier import --from https://example.org/souchier.csv --name 2024-06
  souchier serve --source store:2024-06`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := flags.load()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck
			if from != "" {
				cfg.Source = from
			}

			store, err := server.InitializeStorage(cfg, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			info, err := runImport(cmd.Context(), cfg, store, name, logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved snapshot %q: %d records from %s\n", info.Name, info.Records, info.Source)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "source to import (default: configured source)")
	cmd.Flags().StringVar(&name, "name", "", "snapshot name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func runImport(ctx context.Context, cfg config.Config, store storage.Storage, name string, logger *zap.Logger) (storage.Info, error) {
	if name == "" {
		return storage.Info{}, fmt.Errorf("snapshot name must not be empty")
	}

	loader, err := server.InitializeLoader(cfg, store, nil, logger)
	if err != nil {
		return storage.Info{}, err
	}
	loadCtx, cancel := context.WithTimeout(ctx, config.LoadTimeout)
	defer cancel()
	cat, err := loader.Load(loadCtx)
	if err != nil {
		return storage.Info{}, err
	}

	snap := storage.Snapshot{
		Name:    name,
		Source:  loader.SourceName(),
		SavedAt: time.Now().UTC(),
		Records: cat,
	}
	if err := store.Save(ctx, snap); err != nil {
		return storage.Info{}, fmt.Errorf("failed to save snapshot: %w", err)
	}
	return snap.Info(), nil
}
