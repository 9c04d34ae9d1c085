package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/phoenix4012/souchier/pkg/catalog"
	"github.com/phoenix4012/souchier/pkg/config"
	"github.com/phoenix4012/souchier/pkg/export"
	"github.com/phoenix4012/souchier/pkg/server"
	"github.com/phoenix4012/souchier/pkg/storage"
)

type exportOptions struct {
	criteria catalog.Criteria
	output   string
	format   string
}

func newExportCmd(flags *globalFlags) *cobra.Command {
	opts := &exportOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the filtered registry to a file",
		Long: `Load the registry, apply the filters and write the matching strains.

An empty filter set exports the whole registry. Use -o - to write to stdout.`,
		Example: `  souchier export --type Levure --repiquage Oui
  souchier export --search coli -o coli.csv
  souchier export --format json -o -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := flags.load()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck
			return runExport(cmd.Context(), cfg, opts, cmd.OutOrStdout(), logger)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.criteria.Types, "type", "t", nil, "strain type to keep (repeatable)")
	cmd.Flags().StringVarP(&opts.criteria.Repiquage, "repiquage", "r", catalog.RepiquageAll, "Tous, Oui or Non")
	cmd.Flags().StringVarP(&opts.criteria.Search, "search", "s", "", "case-insensitive name fragment")
	cmd.Flags().StringVarP(&opts.output, "output", "o", config.DefaultExportCSV, "output file, - for stdout")
	cmd.Flags().StringVar(&opts.format, "format", export.FormatCSV, "csv or json")
	return cmd
}

func runExport(ctx context.Context, cfg config.Config, opts *exportOptions, stdout io.Writer, logger *zap.Logger) error {
	if opts.format != export.FormatCSV && opts.format != export.FormatJSON {
		return fmt.Errorf("unsupported format %q (expected %s or %s)", opts.format, export.FormatCSV, export.FormatJSON)
	}
	if err := opts.criteria.Validate(); err != nil {
		return err
	}

	var store storage.Storage
	if server.NeedsStore(cfg.Source) {
		s, err := server.InitializeStorage(cfg, logger)
		if err != nil {
			return err
		}
		defer s.Close()
		store = s
	}

	loader, err := server.InitializeLoader(cfg, store, nil, logger)
	if err != nil {
		return err
	}
	loadCtx, cancel := context.WithTimeout(ctx, config.LoadTimeout)
	defer cancel()
	cat, err := loader.Load(loadCtx)
	if err != nil {
		return err
	}

	summary := catalog.Summarize(cat, opts.criteria)

	var result *export.Result
	write := func(w io.Writer) error {
		var err error
		if opts.format == export.FormatJSON {
			result, err = export.WriteJSON(w, summary)
		} else {
			result, err = export.WriteCSV(w, summary.Records)
		}
		return err
	}

	if opts.output == "-" {
		err = write(stdout)
	} else {
		err = writeFile(opts.output, write)
	}
	if err != nil {
		return err
	}

	logger.Info("Export complete",
		zap.String("output", opts.output),
		zap.String("format", result.Format),
		zap.Int("records", result.RecordsExported),
		zap.Int("total", summary.Total))
	return nil
}

// writeFile creates path and fills it with write. The file is removed when
// write or Close fails, so a failed export leaves nothing behind.
func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			os.Remove(path)
		}
	}()

	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
