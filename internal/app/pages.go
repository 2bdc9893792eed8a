package service

import (
	"context"
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/okian/podium/internal/adapters/dataset"
	"github.com/okian/podium/internal/domain/analytics"
	"github.com/okian/podium/internal/domain/filter"
	"github.com/okian/podium/internal/domain/medal"
)

// Default top-N sizes per chart.
const (
	defaultTopCountries   = 10
	defaultTopPivot       = 20
	defaultTopDisciplines = 10
	defaultTopAthletes    = 10
	defaultTopInContinent = 10
)

// referenceTables may seed filter discovery.
var referenceTables = map[dataset.Table]bool{ //nolint:gochecknoglobals // fixed set
	dataset.MedalsTotal: true,
	dataset.Medallists:  true,
	dataset.Medals:      true,
	dataset.Athletes:    true,
}

// Filters is the sidebar: the discovered options and the captured selection.
type Filters struct {
	Reference string             `json:"reference"`
	Options   []filter.Option    `json:"options"`
	Criteria  []filter.Criterion `json:"criteria"`

	state filter.State
}

// State returns the captured selection.
func (f Filters) State() filter.State {
	return f.state
}

func capture(ref dataset.Table, df dataframe.DataFrame, sel filter.Selector) Filters {
	d := filter.Discover(df)
	st := filter.Capture(d, sel)
	return Filters{Reference: string(ref), Options: d.Options, Criteria: st.Criteria(), state: st}
}

// Filters discovers the filter options on a reference table and captures sel against them.
func (s *Service) Filters(ctx context.Context, ref dataset.Table, sel filter.Selector) (Filters, error) {
	if !referenceTables[ref] {
		return Filters{}, fmt.Errorf("%w: %q", ErrUnknownReference, string(ref))
	}
	dfs, err := s.tables(ctx, ref)
	if err != nil {
		return Filters{}, err
	}
	return capture(ref, dfs[0], sel), nil
}

// Overview is the landing page.
type Overview struct {
	Filters      Filters                                   `json:"filters"`
	KPIs         analytics.KPIs                            `json:"kpis"`
	Distribution analytics.Section[analytics.MedalCount]   `json:"medal_distribution"`
	TopCountries analytics.Section[analytics.CountryTotal] `json:"top_countries"`
}

// Overview computes the landing page with filters discovered on athletes.
func (s *Service) Overview(ctx context.Context, sel filter.Selector, top int) (Overview, error) {
	dfs, err := s.tables(ctx, dataset.Athletes, dataset.MedalsTotal, dataset.Events, dataset.NOCs)
	if err != nil {
		return Overview{}, err
	}
	athletes, totals, events, nocs := dfs[0], dfs[1], dfs[2], dfs[3]

	f := capture(dataset.Athletes, athletes, sel)
	st := f.State()
	filteredAthletes := s.apply(athletes, st)
	filteredTotals := s.apply(totals, st)

	countries, _ := st.Selected(filter.Country)
	medals, ok := st.Selected(filter.Medal)
	if !ok {
		medals = medal.Labels()
	}

	return Overview{
		Filters:      f,
		KPIs:         analytics.ComputeKPIs(filteredAthletes, filteredTotals, events, countries, !st.IsAll(filter.Country)),
		Distribution: analytics.MedalDistribution(filteredTotals, medals),
		TopCountries: analytics.TopCountries(filteredTotals, nocs, s.limit(top, defaultTopCountries)),
	}, nil
}

// Global is the global analysis page.
type Global struct {
	Filters        Filters                                      `json:"filters"`
	Empty          bool                                         `json:"empty"`
	MedalMap       analytics.Section[analytics.CountryValue]    `json:"medal_map"`
	Sunburst       analytics.Section[analytics.SunburstNode]    `json:"sunburst"`
	ByContinent    analytics.Section[analytics.GroupMedalCount] `json:"by_continent"`
	TopCountries   analytics.Section[analytics.CountryMedals]   `json:"top_countries"`
	ByGender       analytics.Section[analytics.GroupMedalCount] `json:"by_gender"`
	TopDisciplines analytics.Section[analytics.GroupMedalCount] `json:"top_disciplines"`
}

// GlobalAnalysis computes the global page from medallists filtered with
// options discovered on medallists. The medal map is drawn from medal
// totals ranked by mapMedal (Total, Gold, Silver or Bronze).
func (s *Service) GlobalAnalysis(ctx context.Context, sel filter.Selector, mapMedal string, top int) (Global, error) {
	if mapMedal == "" {
		mapMedal = string(medal.Gold)
	}
	if !analytics.ValidRanking(mapMedal) {
		return Global{}, analytics.ErrInvalidRanking
	}
	dfs, err := s.tables(ctx, dataset.Medallists, dataset.MedalsTotal)
	if err != nil {
		return Global{}, err
	}
	medallists, totals := dfs[0], dfs[1]

	f := capture(dataset.Medallists, medallists, sel)
	st := f.State()
	filtered := s.apply(medallists, st)
	medalMap, err := analytics.MedalMap(s.apply(totals, st), mapMedal)
	if err != nil {
		return Global{}, err
	}

	pivot := analytics.CountryPivot(filtered)
	if n := s.limit(top, defaultTopPivot); len(pivot.Rows) > n {
		pivot.Rows = pivot.Rows[:n]
	}
	return Global{
		Filters:        f,
		Empty:          filtered.Nrow() == 0,
		MedalMap:       medalMap,
		Sunburst:       analytics.Sunburst(filtered),
		ByContinent:    analytics.ContinentMedals(filtered),
		TopCountries:   pivot,
		ByGender:       analytics.GenderMedals(filtered),
		TopDisciplines: analytics.TopDisciplines(filtered, defaultTopDisciplines),
	}, nil
}

// Sports is the sports and events page.
type Sports struct {
	Filters  Filters                                        `json:"filters"`
	Sports   []string                                       `json:"sports"`
	Sport    string                                         `json:"sport,omitempty"`
	Timeline analytics.Section[analytics.TimelineEntry]     `json:"timeline"`
	Treemap  analytics.Section[analytics.SportCountryCount] `json:"treemap"`
	Venues   analytics.Section[analytics.VenueUsage]        `json:"venues"`
}

// SportsAndEvents computes the sports page. Schedules get their sport from
// the events table and only the sport selection, discovered on the
// medallists' discipline column, is applied to that sport column. The
// schedule gender codes (W, M, X, O) never match the medallist genders, so
// the other criteria only narrow the treemap. When sport is empty the first
// available sport is charted.
func (s *Service) SportsAndEvents(ctx context.Context, sel filter.Selector, sport string) (Sports, error) {
	dfs, err := s.tables(ctx, dataset.Medallists, dataset.Events, dataset.Schedules)
	if err != nil {
		return Sports{}, err
	}
	medallists, events, schedules := dfs[0], dfs[1], dfs[2]

	f := capture(dataset.Medallists, medallists, sel)
	st := f.State()

	joined := s.apply(analytics.JoinSport(schedules, events), st.Only(filter.Sport).Retarget(filter.Sport, filter.ColSport))

	page := Sports{
		Filters:  f,
		Sports:   analytics.Sports(joined),
		Treemap:  analytics.SportCountryTreemap(s.apply(medallists, st), events),
		Venues:   analytics.VenueIntensity(joined),
		Timeline: analytics.Section[analytics.TimelineEntry]{Rows: []analytics.TimelineEntry{}, Empty: true},
	}
	if sport == "" && len(page.Sports) > 0 {
		sport = page.Sports[0]
	}
	if sport != "" {
		page.Sport = sport
		page.Timeline = analytics.EventTimeline(joined, sport)
	}
	return page, nil
}

// AthleteNames lists the valid athlete names left after filtering athletes.
func (s *Service) AthleteNames(ctx context.Context, sel filter.Selector) ([]string, error) {
	dfs, err := s.tables(ctx, dataset.Athletes)
	if err != nil {
		return nil, err
	}
	st := capture(dataset.Athletes, dfs[0], sel).State()
	return analytics.ValidNames(s.apply(dfs[0], st)), nil
}

// AthleteProfile returns the card for name. Medals are counted across every
// medallist, regardless of the filters.
func (s *Service) AthleteProfile(ctx context.Context, name string) (analytics.Profile, error) {
	dfs, err := s.tables(ctx, dataset.Athletes, dataset.Medallists)
	if err != nil {
		return analytics.Profile{}, err
	}
	p, ok := analytics.AthleteProfile(dfs[0], dfs[1], name)
	if !ok {
		return analytics.Profile{}, fmt.Errorf("%w: %q", ErrAthleteNotFound, name)
	}
	return p, nil
}

// PerformanceQuery holds the per-chart choices of the performance page.
type PerformanceQuery struct {
	// AgeGroup is gender, discipline or country.
	AgeGroup string
	// GenderScope is empty for worldwide, or continent or country.
	GenderScope string
	GenderValue string
	TopAthletes int
	Continent   string
	// RankBy is Total, Gold, Silver or Bronze.
	RankBy string
	TopN   int
}

// Performance is the athlete performance page.
type Performance struct {
	Filters      Filters                                    `json:"filters"`
	Ages         analytics.Section[analytics.AgeStats]      `json:"ages"`
	Genders      analytics.Section[analytics.GenderCount]   `json:"genders"`
	TopAthletes  analytics.Section[analytics.AthleteMedals] `json:"top_athletes"`
	Continents   []string                                   `json:"continents"`
	Continent    string                                     `json:"continent,omitempty"`
	TopCountries analytics.Section[analytics.CountryMedals] `json:"top_countries"`
}

// Performance computes the athlete performance page with filters
// discovered on athletes.
func (s *Service) Performance(ctx context.Context, sel filter.Selector, q PerformanceQuery) (Performance, error) {
	if q.AgeGroup == "" {
		q.AgeGroup = "gender"
	}
	if q.RankBy == "" {
		q.RankBy = medal.Total
	}
	if !analytics.ValidRanking(q.RankBy) {
		return Performance{}, analytics.ErrInvalidRanking
	}
	switch q.GenderScope {
	case "", filter.ColContinent, filter.ColCountry:
	default:
		return Performance{}, fmt.Errorf("%w: gender scope %q", analytics.ErrInvalidGroup, q.GenderScope)
	}

	dfs, err := s.tables(ctx, dataset.Athletes, dataset.Medals, dataset.MedalsTotal)
	if err != nil {
		return Performance{}, err
	}
	athletes, medals, totals := dfs[0], dfs[1], dfs[2]

	f := capture(dataset.Athletes, athletes, sel)
	st := f.State()
	athletes = s.apply(athletes, st)
	totals = s.apply(totals, st)

	ages, err := analytics.AgeSummary(athletes, q.AgeGroup)
	if err != nil {
		return Performance{}, err
	}
	page := Performance{
		Filters:     f,
		Ages:        ages,
		Genders:     analytics.GenderDistribution(athletes, q.GenderScope, q.GenderValue),
		TopAthletes: analytics.TopAthletes(s.apply(medals, st), s.limit(q.TopAthletes, defaultTopAthletes)),
		Continents:  analytics.Distinct(totals, filter.ColContinent),
	}
	page.Continent = q.Continent
	if page.Continent == "" && len(page.Continents) > 0 {
		page.Continent = page.Continents[0]
	}
	page.TopCountries, err = analytics.TopCountriesInContinent(totals, page.Continent, q.RankBy, s.limit(q.TopN, defaultTopInContinent))
	if err != nil {
		return Performance{}, err
	}
	return page, nil
}
