package source

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/phoenix4012/souchier/pkg/catalog"
)

// Source produces the full catalog from one backing location.
type Source interface {
	// Name identifies the source in logs and health output
	Name() string

	// Load fetches and decodes the catalog
	Load(ctx context.Context) (catalog.Catalog, error)
}

// ErrEmptyCatalog is wrapped in a LoadError when a source yields no records.
var ErrEmptyCatalog = errors.New("catalog is empty")

// LoadError reports that no catalog could be produced: the source is
// unreachable, the payload could not be decoded, a column is missing, or the
// table has no rows.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load catalog from %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// SourceName returns the source that failed.
func (e *LoadError) SourceName() string { return e.Source }

// IsLoadError reports whether err is (or wraps) a *LoadError.
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}

// Loader memoizes the first Load of its source. Later calls return the same
// catalog, or the same error, without touching the source again.
type Loader struct {
	src    Source
	logger *zap.Logger

	once     sync.Once
	cat      catalog.Catalog
	err      error
	duration time.Duration

	// OnLoad, when set, is called once after the load attempt.
	OnLoad func(cat catalog.Catalog, err error, took time.Duration)
}

// NewLoader wraps src. A nil logger disables logging.
func NewLoader(src Source, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{src: src, logger: logger}
}

// Load returns the catalog, fetching it on first use. Errors are always
// *LoadError. The returned catalog is shared and must not be modified.
func (l *Loader) Load(ctx context.Context) (catalog.Catalog, error) {
	l.once.Do(func() {
		start := time.Now()
		cat, err := l.src.Load(ctx)
		l.duration = time.Since(start)
		if err == nil && len(cat) == 0 {
			err = ErrEmptyCatalog
		}

		if err != nil {
			if !IsLoadError(err) {
				err = &LoadError{Source: l.src.Name(), Err: err}
			}
			l.err = err
			l.logger.Error("Catalog load failed",
				zap.String("source", l.src.Name()),
				zap.Duration("took", l.duration),
				zap.Error(err))
		} else {
			l.cat = cat
			l.logger.Info("Catalog loaded",
				zap.String("source", l.src.Name()),
				zap.Int("records", len(cat)),
				zap.Duration("took", l.duration))
		}

		if l.OnLoad != nil {
			l.OnLoad(l.cat, l.err, l.duration)
		}
	})
	return l.cat, l.err
}

// SourceName returns the wrapped source name.
func (l *Loader) SourceName() string {
	return l.src.Name()
}
