// Package filter implements the global dashboard filters: it discovers which
// filter dimensions a table offers, captures a selection per dimension and
// applies that selection to any table carrying the same columns.
package filter

import (
	"github.com/go-gota/gota/dataframe"
)

// Dimension is a semantic filter axis.
type Dimension string

// Filter dimensions in sidebar order.
const (
	Continent Dimension = "continent"
	Country   Dimension = "country"
	Sport     Dimension = "sport"
	Medal     Dimension = "medal"
	Gender    Dimension = "gender"
)

// Dimensions lists every dimension in sidebar order.
var Dimensions = []Dimension{Continent, Country, Sport, Medal, Gender} //nolint:gochecknoglobals // fixed vocabulary

// Well-known column names.
const (
	ColContinent   = "continent"
	ColCountryCode = "country_code"
	ColCountry     = "country"
	ColDiscipline  = "discipline"
	ColSport       = "sport"
	ColMedalType   = "medal_type"
	ColGender      = "gender"
)

// candidates lists, per dimension, the columns that may carry it in order of preference.
var candidates = map[Dimension][]string{ //nolint:gochecknoglobals // fixed vocabulary
	Continent: {ColContinent},
	Country:   {ColCountryCode, ColCountry},
	Sport:     {ColDiscipline, ColSport},
	Medal:     {ColMedalType},
	Gender:    {ColGender},
}

// Schema is the capability set of one table: the column that carries each
// dimension present on it. A dimension missing from the map is unavailable.
type Schema map[Dimension]string

// Inspect computes the capability set of df. A table with no country_code
// and no country column has no country dimension.
func Inspect(df dataframe.DataFrame) Schema {
	return InspectColumns(df.Names())
}

// InspectColumns is Inspect over a bare column list.
func InspectColumns(names []string) Schema {
	present := make(map[string]struct{}, len(names))
	for _, n := range names {
		present[n] = struct{}{}
	}
	s := make(Schema, len(candidates))
	for dim, cols := range candidates {
		for _, c := range cols {
			if _, ok := present[c]; ok {
				s[dim] = c
				break
			}
		}
	}
	return s
}

// Column returns the column carrying d, if any.
func (s Schema) Column(d Dimension) (string, bool) {
	c, ok := s[d]
	return c, ok
}

// Has reports whether d is available.
func (s Schema) Has(d Dimension) bool {
	_, ok := s[d]
	return ok
}

// HasColumn reports whether the table carries column c for any dimension.
func (s Schema) HasColumn(c string) bool {
	for _, col := range s {
		if col == c {
			return true
		}
	}
	return false
}
