// Package service composes the dataset loader, the global filter engine and
// the analytics into the page-level operations the HTTP API serves.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-gota/gota/dataframe"
	"github.com/okian/podium/internal/adapters/dataset"
	"github.com/okian/podium/internal/domain/filter"
	"github.com/okian/podium/pkg/logger"
	"github.com/okian/podium/pkg/metrics"
)

// Service errors; callers match them with errors.Is.
var (
	ErrNotStarted       = errors.New("service not started")
	ErrUnknownReference = errors.New("table cannot be used as a filter reference")
	ErrAthleteNotFound  = errors.New("athlete not found")
)

const (
	defaultDataDir     = "data"
	defaultMaxTopLimit = 50
)

// Source supplies canonical tables. *dataset.Loader implements it.
type Source interface {
	PrepareMedalsDatasets(ctx context.Context) (total, medallists, medals dataframe.DataFrame, err error)
	Table(ctx context.Context, t dataset.Table) (dataframe.DataFrame, error)
	Preload(ctx context.Context) error
	Reset()
}

// Service implements the API dependencies for the dashboard pages.
type Service struct {
	mu sync.RWMutex

	source      Source
	dataDir     string
	maxTopLimit int
	preload     bool

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(lg logger.Logger) Option {
	return func(s *Service) {
		if lg != nil {
			s.logger = lg
		}
	}
}

// WithLoader sets the table source. Without it Start builds a loader over the data directory.
func WithLoader(src Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithDataDir sets the directory the default loader reads.
func WithDataDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.dataDir = dir
		}
	}
}

// WithMaxTopLimit caps every top-N request.
func WithMaxTopLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxTopLimit = n
		}
	}
}

// WithPreload loads every table during Start.
func WithPreload(enabled bool) Option {
	return func(s *Service) {
		s.preload = enabled
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		dataDir:     defaultDataDir,
		maxTopLimit: defaultMaxTopLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start prepares the table source and, when preload is enabled, loads every
// table so a missing or malformed file fails the start.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Named("service")
	}
	if s.source == nil {
		s.source = dataset.NewLoader(s.dataDir)
	}

	s.logger.Info(ctx, "starting dashboard service...",
		logger.String("dataDir", s.sourceDir()),
		logger.Bool("preload", s.preload),
	)
	if s.preload {
		if err := s.source.Preload(ctx); err != nil {
			s.logger.Error(ctx, "preload failed", logger.Error(err))
			return fmt.Errorf("preload: %w", err)
		}
	}

	s.started = true
	s.logger.Info(ctx, "dashboard service started", logger.Int("maxTopLimit", s.maxTopLimit))
	return nil
}

// Stop drops the cached tables.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.source.Reset()
	s.started = false
	s.logger.Info(context.Background(), "dashboard service stopped")
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":     s.started,
		"dataDir":     s.sourceDir(),
		"maxTopLimit": s.maxTopLimit,
		"preload":     s.preload,
	}
	if c, ok := s.source.(interface{ Cache() *dataset.Cache }); ok && s.started {
		n := c.Cache().Len()
		stats["cachedTables"] = n
		metrics.UpdateCacheEntries(n)
	}
	return stats
}

// sourceDir is the directory the source reads: the catalog directory of an
// injected loader, or the configured data directory.
func (s *Service) sourceDir() string {
	if c, ok := s.source.(interface{ Catalog() dataset.Catalog }); ok {
		return c.Catalog().Dir()
	}
	return s.dataDir
}

// MaxTopLimit returns the cap applied to top-N requests.
func (s *Service) MaxTopLimit() int {
	return s.maxTopLimit
}

// limit clamps a requested top-N to (0, maxTopLimit], using def when n <= 0.
func (s *Service) limit(n, def int) int {
	if n <= 0 {
		n = def
	}
	if n > s.maxTopLimit {
		n = s.maxTopLimit
	}
	return n
}

func (s *Service) src() (Source, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.source, nil
}

// tables loads the named tables in order.
func (s *Service) tables(ctx context.Context, names ...dataset.Table) ([]dataframe.DataFrame, error) {
	src, err := s.src()
	if err != nil {
		return nil, err
	}
	out := make([]dataframe.DataFrame, 0, len(names))
	for _, t := range names {
		df, err := src.Table(ctx, t)
		if err != nil {
			return nil, err
		}
		out = append(out, df)
	}
	return out, nil
}

// apply filters df with st and records which predicates ran.
func (s *Service) apply(df dataframe.DataFrame, st filter.State) dataframe.DataFrame {
	out, res := filter.ApplyWithResult(df, st)
	for _, d := range res.Applied {
		metrics.RecordFilterApplication(string(d))
	}
	if len(res.Applied) > 0 {
		metrics.RecordFilterRetained(res.Kept, res.Total)
	}
	return out
}
