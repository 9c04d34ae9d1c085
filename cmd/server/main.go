// Command souchier serves and exports the laboratory strain registry.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/phoenix4012/souchier/pkg/config"
	"github.com/phoenix4012/souchier/pkg/logging"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	source     string
	dataDir    string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "souchier",
		Short: "Browse, filter and export the strain registry",
		Long: `souchier loads the laboratory strain registry (souchier) once and lets you
filter it by type, re-plating need and name, then download the result as CSV.

The registry source is one of:
  literal                      built-in reference collection
  file:<path>                  local CSV file
  http(s)://...                remote CSV file
  s3://<bucket>/<key>          CSV object in S3 or MinIO
  sqlite://<path>?table=<t>    SQLite table
  postgres://...?table=<t>     Postgres table
  store:<name>                 snapshot saved with "souchier import"`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "YAML configuration file")
	root.PersistentFlags().StringVar(&flags.source, "source", "", "registry source (overrides config)")
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "data directory for snapshots (overrides config)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "debug, info, warn or error (overrides config)")

	root.AddCommand(newServeCmd(flags))
	root.AddCommand(newExportCmd(flags))
	root.AddCommand(newImportCmd(flags))
	root.AddCommand(newSnapshotsCmd(flags))
	return root
}

// load resolves the configuration (file, env, then flags) and builds the logger.
func (f *globalFlags) load() (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return cfg, nil, err
	}
	if f.source != "" {
		cfg.Source = f.source
	}
	if f.dataDir != "" {
		cfg.DataDir = f.dataDir
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return cfg, nil, err
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return cfg, nil, err
	}
	zap.ReplaceGlobals(logger)
	return cfg, logger, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
