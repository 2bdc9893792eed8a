package dataset

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/okian/podium/internal/domain/continent"
	"github.com/okian/podium/pkg/logger"
	"github.com/okian/podium/pkg/metrics"
)

const referenceLayout = "2006-01-02"

// Loader reads and normalizes the extracts under a data directory.
type Loader struct {
	catalog   Catalog
	cache     *Cache
	resolver  *continent.Resolver
	reference time.Time
	logger    logger.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithCache shares a cache between loaders.
func WithCache(c *Cache) Option {
	return func(l *Loader) {
		if c != nil {
			l.cache = c
		}
	}
}

// WithResolver sets the continent resolver.
func WithResolver(r *continent.Resolver) Option {
	return func(l *Loader) {
		if r != nil {
			l.resolver = r
		}
	}
}

// WithReferenceDate sets the day athlete ages are computed at.
func WithReferenceDate(t time.Time) Option {
	return func(l *Loader) {
		if !t.IsZero() {
			l.reference = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		}
	}
}

// WithLogger sets a custom logger for the loader.
func WithLogger(lg logger.Logger) Option {
	return func(l *Loader) {
		if lg != nil {
			l.logger = lg
		}
	}
}

// NewLoader returns a loader reading CSV files from dir.
func NewLoader(dir string, opts ...Option) *Loader {
	now := time.Now().UTC()
	l := &Loader{
		catalog:   NewCatalog(dir),
		cache:     NewCache(),
		resolver:  continent.New(),
		reference: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Loader) log() logger.Logger {
	if l.logger == nil {
		l.logger = logger.Named("dataset")
	}
	return l.logger
}

// Catalog returns the loader's catalog.
func (l *Loader) Catalog() Catalog { return l.catalog }

// Cache returns the loader's cache.
func (l *Loader) Cache() *Cache { return l.cache }

// Resolver returns the continent resolver used for derived columns.
func (l *Loader) Resolver() *continent.Resolver { return l.resolver }

// ReferenceDate returns the day ages are computed at.
func (l *Loader) ReferenceDate() time.Time { return l.reference }

// Reset drops every cached table.
func (l *Loader) Reset() { l.cache.Reset() }

// PrepareMedalsDatasets returns the canonical medals_total, medallists and
// medals tables.
func (l *Loader) PrepareMedalsDatasets(ctx context.Context) (total, medallists, medals dataframe.DataFrame, err error) {
	if total, err = l.Table(ctx, MedalsTotal); err != nil {
		return total, medallists, medals, err
	}
	if medallists, err = l.Table(ctx, Medallists); err != nil {
		return total, medallists, medals, err
	}
	medals, err = l.Table(ctx, Medals)
	return total, medallists, medals, err
}

// Athletes returns the athletes table with name_norm, continent and age.
func (l *Loader) Athletes(ctx context.Context) (dataframe.DataFrame, error) {
	return l.Table(ctx, Athletes)
}

// Events returns the event to sport mapping.
func (l *Loader) Events(ctx context.Context) (dataframe.DataFrame, error) {
	return l.Table(ctx, Events)
}

// Schedules returns the event schedule.
func (l *Loader) Schedules(ctx context.Context) (dataframe.DataFrame, error) {
	return l.Table(ctx, Schedules)
}

// Venues returns the venues table.
func (l *Loader) Venues(ctx context.Context) (dataframe.DataFrame, error) {
	return l.Table(ctx, Venues)
}

// Teams returns the teams table.
func (l *Loader) Teams(ctx context.Context) (dataframe.DataFrame, error) {
	return l.Table(ctx, Teams)
}

// Coaches returns the coaches table.
func (l *Loader) Coaches(ctx context.Context) (dataframe.DataFrame, error) {
	return l.Table(ctx, Coaches)
}

// NOCs returns the NOC code to display name table.
func (l *Loader) NOCs(ctx context.Context) (dataframe.DataFrame, error) {
	return l.Table(ctx, NOCs)
}

// Preload loads every table, stopping at the first failure.
func (l *Loader) Preload(ctx context.Context) error {
	for _, t := range Tables {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := l.Table(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

// Table returns the canonical form of t, loading it on first use.
func (l *Loader) Table(ctx context.Context, t Table) (dataframe.DataFrame, error) {
	path, err := l.catalog.Path(t)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	stage := "canonical"
	if t == Athletes {
		stage += "@" + l.reference.Format(referenceLayout)
	}
	return l.cache.Get(t, path, stage, func() (dataframe.DataFrame, error) {
		return l.load(ctx, t, path)
	})
}

func (l *Loader) load(ctx context.Context, t Table, path string) (dataframe.DataFrame, error) {
	start := time.Now()
	df, q, err := l.build(t, path)
	ms := float64(time.Since(start).Microseconds()) / 1000
	if err != nil {
		metrics.RecordDatasetLoad(string(t), "error", ms)
		l.log().Error(ctx, "dataset load failed",
			logger.String("table", string(t)),
			logger.String("path", path),
			logger.Error(err),
		)
		return dataframe.DataFrame{}, err
	}

	metrics.RecordDatasetLoad(string(t), "ok", ms)
	metrics.UpdateDatasetRows(string(t), df.Nrow())
	metrics.RecordContinentFallbacks(string(t), q.continentFallbacks)
	for col, n := range q.badDates {
		metrics.RecordUnparseableDates(string(t), col, n)
		l.log().Debug(ctx, "unparseable dates", logger.String("table", string(t)), logger.String("column", col), logger.Int("count", n))
	}
	if q.badCounts > 0 {
		l.log().Debug(ctx, "unparseable medal counts read as zero", logger.String("table", string(t)), logger.Int("count", q.badCounts))
	}
	if q.truncatedRows > 0 {
		metrics.RecordTruncatedRows(string(t), q.truncatedRows)
		l.log().Warn(ctx, "rows longer than the header were truncated",
			logger.String("table", string(t)),
			logger.String("path", path),
			logger.Int("count", q.truncatedRows),
		)
	}
	l.log().Info(ctx, "dataset loaded",
		logger.String("table", string(t)),
		logger.Int("rows", df.Nrow()),
		logger.Int("continent_fallbacks", q.continentFallbacks),
		logger.Float64("duration_ms", ms),
	)
	return df, nil
}

// build reads path and applies the per-table normalization.
func (l *Loader) build(t Table, path string) (dataframe.DataFrame, quality, error) {
	var q quality
	df, truncated, err := readCSV(path)
	q.truncatedRows = truncated
	if err != nil {
		return dataframe.DataFrame{}, q, err
	}

	switch t {
	case MedalsTotal:
		if err := requireColumns(t, df, ColCountryCode); err != nil {
			return dataframe.DataFrame{}, q, err
		}
		df, q.badCounts = normalizeMedalCounts(df)
		df, q.continentFallbacks = addContinent(df, l.resolver)
	case Medallists, Medals:
		if err := requireColumns(t, df, ColCountryCode, ColMedalType); err != nil {
			return dataframe.DataFrame{}, q, err
		}
		df = CleanMedalTypes(df)
		df, q.continentFallbacks = addContinent(df, l.resolver)
		df = AddNameNorm(df)
	case Athletes:
		if err := requireColumns(t, df, ColName, ColCountryCode); err != nil {
			return dataframe.DataFrame{}, q, err
		}
		df = AddNameNorm(df)
		df, q.continentFallbacks = addContinent(df, l.resolver)
		df = addDiscipline(df)
		if hasColumn(df, ColBirthDate) {
			df = addAge(df, l.reference, &q)
		}
	case Events:
		if err := requireColumns(t, df, ColEvent, ColSport); err != nil {
			return dataframe.DataFrame{}, q, err
		}
	case Schedules:
		if err := requireColumns(t, df, ColEvent, ColStartDate, ColEndDate); err != nil {
			return dataframe.DataFrame{}, q, err
		}
		countBadDates(df, &q, ColStartDate, ColEndDate)
	case NOCs:
		if err := requireColumns(t, df, ColCode); err != nil {
			return dataframe.DataFrame{}, q, err
		}
	case Venues, Teams, Coaches:
	default:
		return dataframe.DataFrame{}, q, fmt.Errorf("%w: %q", ErrUnknownTable, string(t))
	}

	if df.Err != nil {
		return dataframe.DataFrame{}, q, fmt.Errorf("%w: %s: %v", ErrParseTable, path, df.Err)
	}
	return df, q, nil
}

// IsMissingFile reports whether err means a dataset file could not be opened.
func IsMissingFile(err error) bool {
	return errors.Is(err, ErrOpenFile)
}
