// Package main provides medals-report, a terminal view of the dashboard
// aggregates computed straight from the CSV extracts.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/okian/podium/internal/adapters/dataset"
	service "github.com/okian/podium/internal/app"
	"github.com/okian/podium/internal/domain/continent"
	"github.com/okian/podium/internal/domain/filter"
	"github.com/okian/podium/pkg/logger"
)

// Exit codes
const (
	ExitSuccess      = 0
	ExitRuntimeError = 1
)

const referenceDateLayout = "2006-01-02"

// options holds the flags shared by every subcommand.
type options struct {
	dataDir       string
	referenceDate string
	splitAmericas bool
	verbose       bool
	noColor       bool
	top           int

	continents []string
	countries  []string
	sports     []string
	medals     []string
	genders    []string
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(ExitRuntimeError)
	}
	os.Exit(ExitSuccess)
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:   "medals-report",
		Short: "Print Olympic results aggregates as terminal tables",
		Long: `medals-report loads the results extracts from a data directory and
prints the same aggregates the dashboard API serves.

Filter flags follow the API parameters: a flag left out keeps every
option, a flag given with an empty value selects nothing.

Examples:
  medals-report overview --data-dir ./data
  medals-report countries --continent Europe --medal Gold --top 5
  medals-report filters --reference athletes`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if o.noColor {
				color.NoColor = true
			}
			if err := logger.Init(logger.WithWriter(stderr)); err != nil {
				return err
			}
			if o.verbose {
				return logger.SetLevelString("debug")
			}
			return logger.SetLevelString("warn")
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&o.dataDir, "data-dir", "data", "Directory holding the CSV extracts")
	pf.StringVar(&o.referenceDate, "reference-date", "", "Day ages are computed at (YYYY-MM-DD, default today)")
	pf.BoolVar(&o.splitAmericas, "split-americas", false, "Report North and South America separately")
	pf.BoolVarP(&o.verbose, "verbose", "v", false, "Enable debug logging on stderr")
	pf.BoolVar(&o.noColor, "no-color", false, "Disable colored section titles")
	pf.IntVar(&o.top, "top", 0, "Rows in top-N tables (0 uses the default)")
	pf.StringSliceVar(&o.continents, string(filter.Continent), nil, "Continents to keep")
	pf.StringSliceVar(&o.countries, string(filter.Country), nil, "Country codes to keep")
	pf.StringSliceVar(&o.sports, string(filter.Sport), nil, "Disciplines to keep")
	pf.StringSliceVar(&o.medals, string(filter.Medal), nil, "Medal types to keep")
	pf.StringSliceVar(&o.genders, string(filter.Gender), nil, "Genders to keep")

	root.AddCommand(newOverviewCmd(o), newCountriesCmd(o), newFiltersCmd(o))
	return root
}

func newOverviewCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Print KPIs, the medal distribution and the top countries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.run(cmd, func(ctx context.Context, svc *service.Service, sel filter.Selector) error {
				page, err := svc.Overview(ctx, sel, o.top)
				if err != nil {
					return err
				}
				renderOverview(cmd.OutOrStdout(), page)
				return nil
			})
		},
	}
}

func newCountriesCmd(o *options) *cobra.Command {
	var rankBy string
	cmd := &cobra.Command{
		Use:   "countries",
		Short: "Print the per-country medal breakdown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.run(cmd, func(ctx context.Context, svc *service.Service, sel filter.Selector) error {
				page, err := svc.GlobalAnalysis(ctx, sel, rankBy, o.top)
				if err != nil {
					return err
				}
				renderCountries(cmd.OutOrStdout(), page)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&rankBy, "map-medal", "Gold", "Medal the country map ranks by: Total, Gold, Silver or Bronze")
	return cmd
}

func newFiltersCmd(o *options) *cobra.Command {
	var reference string
	cmd := &cobra.Command{
		Use:   "filters",
		Short: "Print the filter options discovered on a reference table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.run(cmd, func(ctx context.Context, svc *service.Service, sel filter.Selector) error {
				f, err := svc.Filters(ctx, dataset.Table(reference), sel)
				if err != nil {
					return err
				}
				renderFilters(cmd.OutOrStdout(), f)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&reference, "reference", string(dataset.Medallists), "Reference table: medallists, medals, medals_total or athletes")
	return cmd
}

// run starts a lazily loading service and hands it to fn.
func (o *options) run(cmd *cobra.Command, fn func(context.Context, *service.Service, filter.Selector) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ref, err := o.ageReference()
	if err != nil {
		return err
	}
	lg := logger.Get()
	loader := dataset.NewLoader(o.dataDir,
		dataset.WithReferenceDate(ref),
		dataset.WithResolver(continent.New(continent.WithSplitAmericas(o.splitAmericas))),
		dataset.WithLogger(lg.Named("dataset")),
	)
	svc := service.New(
		service.WithLogger(lg.Named("report")),
		service.WithLoader(loader),
		service.WithDataDir(o.dataDir),
	)
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	if err := fn(ctx, svc, o.selector(cmd)); err != nil {
		if dataset.IsMissingFile(err) {
			return fmt.Errorf("%w (is --data-dir %q right?)", err, o.dataDir)
		}
		return err
	}
	return nil
}

func (o *options) ageReference() (time.Time, error) {
	if o.referenceDate == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse(referenceDateLayout, o.referenceDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("--reference-date: %w", err)
	}
	return t, nil
}

// selector maps the filter flags onto a selection. Flags that were not
// set on the command line keep every option.
func (o *options) selector(cmd *cobra.Command) filter.Selector {
	values := map[filter.Dimension][]string{
		filter.Continent: o.continents,
		filter.Country:   o.countries,
		filter.Sport:     o.sports,
		filter.Medal:     o.medals,
		filter.Gender:    o.genders,
	}
	flags := cmd.Flags()
	return filter.SelectorFunc(func(dim filter.Dimension, _ []string) ([]string, bool) {
		if !flags.Changed(string(dim)) {
			return nil, false
		}
		out := []string{}
		for _, v := range values[dim] {
			if v != "" {
				out = append(out, v)
			}
		}
		return out, true
	})
}
