package dataset

import (
	"strconv"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/okian/podium/internal/domain/calendar"
	"github.com/okian/podium/internal/domain/continent"
	"github.com/okian/podium/internal/domain/medal"
	"github.com/okian/podium/internal/domain/names"
)

// quality counts per-row degradations found while normalizing one table.
type quality struct {
	continentFallbacks int
	badCounts          int
	truncatedRows      int
	badDates           map[string]int
}

func (q *quality) addBadDate(col string) {
	if q.badDates == nil {
		q.badDates = make(map[string]int)
	}
	q.badDates[col]++
}

// NormalizeMedalCounts renames verbose medal columns ("Gold Medal") to the
// canonical labels, adds any missing label as all zero, stores the labels
// as integers and recomputes Total as their sum.
func NormalizeMedalCounts(df dataframe.DataFrame) dataframe.DataFrame {
	out, _ := normalizeMedalCounts(df)
	return out
}

func normalizeMedalCounts(df dataframe.DataFrame) (dataframe.DataFrame, int) {
	bad := 0
	out := df.Copy()
	for _, t := range medal.All {
		verbose := medal.VerboseColumn(t)
		if !hasColumn(out, string(t)) && hasColumn(out, verbose) {
			out = out.Rename(string(t), verbose)
		}
	}

	total := make([]int, out.Nrow())
	for _, t := range medal.All {
		col := string(t)
		counts := make([]int, out.Nrow())
		if hasColumn(out, col) {
			values, null := cells(out, col)
			for i, v := range values {
				n, ok := parseCount(v, null[i])
				if !ok {
					bad++
				}
				counts[i] = n
			}
		}
		for i, n := range counts {
			total[i] += n
		}
		out = out.Mutate(series.New(counts, series.Int, col))
	}
	out = out.Mutate(series.New(total, series.Int, medal.Total))
	return out, bad
}

// CleanMedalTypes canonicalizes the medal_type column when present.
func CleanMedalTypes(df dataframe.DataFrame) dataframe.DataFrame {
	if !hasColumn(df, ColMedalType) {
		return df.Copy()
	}
	return deriveString(df, ColMedalType, ColMedalType, func(v string, null bool) (string, bool) {
		if null {
			return "", false
		}
		return medal.Clean(v), true
	})
}

// AddContinent derives the continent column from country_code.
func AddContinent(df dataframe.DataFrame, r *continent.Resolver) dataframe.DataFrame {
	out, _ := addContinent(df, r)
	return out
}

func addContinent(df dataframe.DataFrame, r *continent.Resolver) (dataframe.DataFrame, int) {
	fallbacks := 0
	out := deriveString(df, ColCountryCode, ColContinent, func(v string, null bool) (string, bool) {
		if null {
			fallbacks++
			return continent.Other, true
		}
		label, ok := r.Lookup(v)
		if !ok {
			fallbacks++
		}
		return label, true
	})
	return out, fallbacks
}

// AddNameNorm derives name_norm from name. Null names map to "".
func AddNameNorm(df dataframe.DataFrame) dataframe.DataFrame {
	if !hasColumn(df, ColName) {
		return df.Copy()
	}
	return deriveString(df, ColName, ColNameNorm, func(v string, null bool) (string, bool) {
		if null {
			return "", true
		}
		return names.Normalize(v), true
	})
}

// addAge derives the nullable age column from birth_date at day ref.
func addAge(df dataframe.DataFrame, ref time.Time, q *quality) dataframe.DataFrame {
	values, null := cells(df, ColBirthDate)
	ages := make([]string, len(values))
	for i, v := range values {
		ages[i] = nullCell
		if null[i] {
			q.addBadDate(ColBirthDate)
			continue
		}
		birth, ok := calendar.Parse(v)
		if !ok {
			q.addBadDate(ColBirthDate)
			continue
		}
		age, ok := calendar.AgeAt(birth, ref)
		if !ok {
			q.addBadDate(ColBirthDate)
			continue
		}
		ages[i] = strconv.Itoa(age)
	}
	return df.Mutate(series.New(ages, series.Int, ColAge))
}

// addDiscipline fills discipline from the first entry of disciplines when
// the table only carries the list form.
func addDiscipline(df dataframe.DataFrame) dataframe.DataFrame {
	if hasColumn(df, ColDiscipline) || !hasColumn(df, ColDisciplines) {
		return df
	}
	return deriveString(df, ColDisciplines, ColDiscipline, func(v string, null bool) (string, bool) {
		if null {
			return "", false
		}
		first := firstListItem(v)
		return first, first != ""
	})
}

func countBadDates(df dataframe.DataFrame, q *quality, cols ...string) {
	for _, col := range cols {
		values, null := cells(df, col)
		for i, v := range values {
			if null[i] {
				q.addBadDate(col)
				continue
			}
			if _, ok := calendar.Parse(v); !ok {
				q.addBadDate(col)
			}
		}
	}
}
