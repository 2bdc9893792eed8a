package analytics

import (
	"sort"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/okian/podium/internal/domain/calendar"
)

// TimelineEntry is one scheduled event of a sport.
type TimelineEntry struct {
	Event string    `json:"event"`
	Sport string    `json:"sport"`
	Venue string    `json:"venue,omitempty"`
	Start time.Time `json:"start_date"`
	End   time.Time `json:"end_date"`
}

// VenueUsage is the total scheduled duration at one venue.
type VenueUsage struct {
	Venue        string  `json:"venue"`
	DurationDays float64 `json:"duration_days"`
}

// SportCountryCount is one treemap leaf.
type SportCountryCount struct {
	Sport   string `json:"sport"`
	Country string `json:"country"`
	Count   int    `json:"count"`
}

// JoinSport returns a copy of df with a sport column looked up from the
// events table by event name. The first mapping seen for an event wins and
// unmatched rows get a null sport. An existing sport column is replaced.
func JoinSport(df, events dataframe.DataFrame) dataframe.DataFrame {
	sports := lookup(events, "event", "sport")
	keys, ok := col(df, "event")
	if !ok {
		return df.Copy()
	}
	out := make([]string, len(keys.values))
	for i := range keys.values {
		out[i] = "NaN"
		if k, ok := keys.at(i); ok {
			if s, ok := sports[k]; ok {
				out[i] = s
			}
		}
	}
	return df.Mutate(series.New(out, series.String, "sport"))
}

// Sports returns the sorted distinct sports of a joined schedule.
func Sports(schedules dataframe.DataFrame) []string {
	return Distinct(schedules, "sport")
}

// EventTimeline lists the schedule rows of one sport sorted by start date.
// Rows with a missing or unparseable start or end date are dropped.
func EventTimeline(schedules dataframe.DataFrame, sport string) Section[TimelineEntry] {
	events, ok := col(schedules, "event")
	if !ok {
		return unavailable[TimelineEntry]()
	}
	sports, ok := col(schedules, "sport")
	if !ok {
		return unavailable[TimelineEntry]()
	}
	starts, ok := col(schedules, "start_date")
	if !ok {
		return unavailable[TimelineEntry]()
	}
	ends, ok := col(schedules, "end_date")
	if !ok {
		return unavailable[TimelineEntry]()
	}
	venues, hasVenue := col(schedules, "venue")

	rows := []TimelineEntry{}
	for i := range events.values {
		s, ok := sports.at(i)
		if !ok || s != sport {
			continue
		}
		start, ok := parseAt(starts, i)
		if !ok {
			continue
		}
		end, ok := parseAt(ends, i)
		if !ok {
			continue
		}
		e, _ := events.at(i)
		entry := TimelineEntry{Event: e, Sport: s, Start: start, End: end}
		if hasVenue {
			entry.Venue, _ = venues.at(i)
		}
		rows = append(rows, entry)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Start.Before(rows[j].Start) })
	return newSection(rows)
}

// VenueIntensity sums event durations in days per venue, rounded to two
// decimals and sorted busiest first. Rows without a venue, with an
// unparseable date or ending before they start are skipped.
func VenueIntensity(schedules dataframe.DataFrame) Section[VenueUsage] {
	venues, ok := col(schedules, "venue")
	if !ok {
		return unavailable[VenueUsage]()
	}
	starts, ok := col(schedules, "start_date")
	if !ok {
		return unavailable[VenueUsage]()
	}
	ends, ok := col(schedules, "end_date")
	if !ok {
		return unavailable[VenueUsage]()
	}

	sums := make(map[string]float64)
	for i := range venues.values {
		v, ok := venues.at(i)
		if !ok {
			continue
		}
		start, ok := parseAt(starts, i)
		if !ok {
			continue
		}
		end, ok := parseAt(ends, i)
		if !ok {
			continue
		}
		days, ok := calendar.DurationDays(start, end)
		if !ok {
			continue
		}
		sums[v] += days
	}

	rows := make([]VenueUsage, 0, len(sums))
	for v, d := range sums {
		rows = append(rows, VenueUsage{Venue: v, DurationDays: round(d, 2)})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].DurationDays != rows[j].DurationDays {
			return rows[i].DurationDays > rows[j].DurationDays
		}
		return rows[i].Venue < rows[j].Venue
	})
	return newSection(rows)
}

// SportCountryTreemap counts medallist rows per sport and country, taking
// the sport from the events table. Rows whose event has no sport are left out.
func SportCountryTreemap(medallists, events dataframe.DataFrame) Section[SportCountryCount] {
	if _, ok := col(events, "sport"); !ok {
		return unavailable[SportCountryCount]()
	}
	countries, ok := col(medallists, "country")
	if !ok {
		return unavailable[SportCountryCount]()
	}
	joined := JoinSport(medallists, events)
	sports, ok := col(joined, "sport")
	if !ok {
		return unavailable[SportCountryCount]()
	}

	type key struct{ sport, country string }
	counts := make(map[key]int)
	for i := range sports.values {
		s, ok := sports.at(i)
		if !ok {
			continue
		}
		c, ok := countries.at(i)
		if !ok {
			continue
		}
		counts[key{s, c}]++
	}
	rows := make([]SportCountryCount, 0, len(counts))
	for k, n := range counts {
		rows = append(rows, SportCountryCount{Sport: k.sport, Country: k.country, Count: n})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Sport != rows[j].Sport {
			return rows[i].Sport < rows[j].Sport
		}
		return rows[i].Country < rows[j].Country
	})
	return newSection(rows)
}

func parseAt(c column, i int) (time.Time, bool) {
	v, ok := c.at(i)
	if !ok {
		return time.Time{}, false
	}
	return calendar.Parse(v)
}
