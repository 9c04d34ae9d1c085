package server

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/phoenix4012/souchier/pkg/config"
	"github.com/phoenix4012/souchier/pkg/export"
	"github.com/phoenix4012/souchier/pkg/session"
	"github.com/phoenix4012/souchier/pkg/source"
	"github.com/phoenix4012/souchier/pkg/storage"
	"github.com/phoenix4012/souchier/pkg/storage/badger"
	"github.com/phoenix4012/souchier/pkg/telemetry"
)

// SnapshotDir is the snapshot store directory under the data dir.
const SnapshotDir = "snapshots"

// NeedsStore reports whether the configured source reads from the snapshot store.
func NeedsStore(spec string) bool {
	return strings.HasPrefix(strings.TrimSpace(spec), "store:")
}

// InitializeStorage opens the BadgerDB snapshot store under cfg.DataDir.
func InitializeStorage(cfg config.Config, logger *zap.Logger) (storage.Storage, error) {
	dir := filepath.Join(cfg.DataDir, SnapshotDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	logger.Info("Opening snapshot store", zap.String("path", dir))
	store, err := badger.New(badger.Config{Path: dir})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// SourceOptions maps the configuration onto source options.
func SourceOptions(cfg config.Config, store storage.Storage) source.Options {
	return source.Options{
		HTTPTimeout: config.HTTPSourceTimeout,
		S3: source.S3Config{
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			PathStyle:       cfg.S3.PathStyle,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
		},
		Store: store,
	}
}

// InitializeLoader resolves the configured source and wraps it in a
// memoizing loader that reports to metrics.
func InitializeLoader(
	cfg config.Config,
	store storage.Storage,
	metrics *telemetry.Metrics,
	logger *zap.Logger,
) (*source.Loader, error) {
	src, err := source.ParseSpec(cfg.Source, SourceOptions(cfg, store))
	if err != nil {
		return nil, err
	}
	loader := source.NewLoader(src, logger)
	if metrics != nil {
		loader.OnLoad = metrics.ObserveLoad
	}
	logger.Info("Catalog source configured", zap.String("source", src.Name()))
	return loader, nil
}

// Preload performs the single catalog load with a bounded context. A load
// error is logged and returned; the server keeps running and answers 503.
func Preload(ctx context.Context, loader *source.Loader) error {
	ctx, cancel := context.WithTimeout(ctx, config.LoadTimeout)
	defer cancel()
	_, err := loader.Load(ctx)
	return err
}

// InitializeHandlers creates and configures all request handlers.
func InitializeHandlers(
	loader *source.Loader,
	metrics *telemetry.Metrics,
	logger *zap.Logger,
) (
	*Handler,
	*export.Handler,
	*session.Handler,
	*session.Hub,
) {
	api := NewHandler(loader, metrics, logger.Named("api"))
	exportHandler := export.NewHandler(loader, metrics, logger.Named("export"))

	hub := session.NewHub(metrics, logger.Named("session"))
	sessionHandler := session.NewHandler(loader, hub, logger.Named("session"))

	return api, exportHandler, sessionHandler, hub
}
