package analytics

import (
	"errors"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/okian/podium/internal/domain/continent"
	"github.com/okian/podium/internal/domain/medal"
)

// ErrInvalidRanking is returned for a ranking column other than Total, Gold, Silver or Bronze.
var ErrInvalidRanking = errors.New("invalid ranking column")

// MedalCount is one slice of a medal distribution.
type MedalCount struct {
	Medal string `json:"medal"`
	Count int    `json:"count"`
}

// CountryTotal is a country's medal total with its display name.
type CountryTotal struct {
	Code  string `json:"country_code"`
	Name  string `json:"country"`
	Total int    `json:"total"`
}

// CountryMedals is a country's per-medal breakdown.
type CountryMedals struct {
	Code   string `json:"country_code"`
	Name   string `json:"country"`
	Gold   int    `json:"gold"`
	Silver int    `json:"silver"`
	Bronze int    `json:"bronze"`
	Total  int    `json:"total"`
}

func (c CountryMedals) value(by string) int {
	switch by {
	case string(medal.Gold):
		return c.Gold
	case string(medal.Silver):
		return c.Silver
	case string(medal.Bronze):
		return c.Bronze
	default:
		return c.Total
	}
}

// GroupMedalCount counts medals of one type within a group.
type GroupMedalCount struct {
	Group string `json:"group"`
	Medal string `json:"medal"`
	Count int    `json:"count"`
}

// SunburstNode is one continent/country/discipline leaf.
type SunburstNode struct {
	Continent  string `json:"continent"`
	Country    string `json:"country"`
	Discipline string `json:"discipline"`
	Count      int    `json:"count"`
}

// CountryValue is one choropleth cell.
type CountryValue struct {
	Code  string `json:"country_code"`
	Value int    `json:"value"`
}

// ValidRanking reports whether by names a ranking column.
func ValidRanking(by string) bool {
	return by == medal.Total || medal.IsCanonical(by)
}

// MedalDistribution sums the canonical medal columns of a totals table,
// keeping only the selected medal types. The section is empty when every
// kept count is zero.
func MedalDistribution(totals dataframe.DataFrame, selected []string) Section[MedalCount] {
	keep := make(map[string]bool, len(selected))
	for _, s := range selected {
		keep[s] = true
	}
	rows := []MedalCount{}
	sum := 0
	for _, t := range medal.All {
		if !keep[string(t)] {
			continue
		}
		n := SumInt(totals, string(t))
		sum += n
		rows = append(rows, MedalCount{Medal: string(t), Count: n})
	}
	if sum == 0 {
		return Section[MedalCount]{Rows: rows, Empty: true}
	}
	return newSection(rows)
}

// TopCountries ranks countries of a totals table by Total, naming them from
// the NOC table when it has an entry.
func TopCountries(totals, nocs dataframe.DataFrame, n int) Section[CountryTotal] {
	codes, ok := col(totals, "country_code")
	if !ok {
		return unavailable[CountryTotal]()
	}
	totalCol, _ := col(totals, medal.Total)
	names := lookup(nocs, "code", "country")
	fallback := lookup(totals, "country_code", "country")

	sums := make(map[string]int)
	order := []string{}
	vals := totalCol.ints()
	for i := range codes.values {
		code, ok := codes.at(i)
		if !ok {
			continue
		}
		if _, seen := sums[code]; !seen {
			order = append(order, code)
		}
		if i < len(vals) {
			sums[code] += vals[i]
		}
	}

	rows := make([]CountryTotal, 0, len(order))
	for _, code := range order {
		name, ok := names[code]
		if !ok {
			name = fallback[code]
		}
		rows = append(rows, CountryTotal{Code: code, Name: name, Total: sums[code]})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Total > rows[j].Total })
	if n > 0 && len(rows) > n {
		rows = rows[:n]
	}
	return newSection(rows)
}

// CountryPivot counts canonical medals per country from a medallist table,
// sorted by Total descending.
func CountryPivot(medallists dataframe.DataFrame) Section[CountryMedals] {
	codes, ok := col(medallists, "country_code")
	if !ok {
		return unavailable[CountryMedals]()
	}
	types, ok := col(medallists, "medal_type")
	if !ok {
		return unavailable[CountryMedals]()
	}
	nameCol := "country_long"
	if _, ok := col(medallists, nameCol); !ok {
		nameCol = "country"
	}
	names := lookup(medallists, "country_code", nameCol)

	byCode := make(map[string]*CountryMedals)
	order := []string{}
	for i := range codes.values {
		code, ok := codes.at(i)
		if !ok {
			continue
		}
		t, _ := types.at(i)
		if !medal.IsCanonical(t) {
			continue
		}
		row, seen := byCode[code]
		if !seen {
			row = &CountryMedals{Code: code, Name: names[code]}
			byCode[code] = row
			order = append(order, code)
		}
		switch medal.Type(t) {
		case medal.Gold:
			row.Gold++
		case medal.Silver:
			row.Silver++
		case medal.Bronze:
			row.Bronze++
		}
		row.Total++
	}
	sort.Strings(order)

	rows := make([]CountryMedals, 0, len(order))
	for _, code := range order {
		rows = append(rows, *byCode[code])
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Total > rows[j].Total })
	return newSection(rows)
}

// medalsBy counts canonical medals per value of groupCol, skipping null groups.
func medalsBy(df dataframe.DataFrame, groupCol string) (map[string]map[string]int, []string, bool) {
	groups, ok := col(df, groupCol)
	if !ok {
		return nil, nil, false
	}
	types, ok := col(df, "medal_type")
	if !ok {
		return nil, nil, false
	}
	counts := make(map[string]map[string]int)
	for i := range groups.values {
		g, ok := groups.at(i)
		if !ok {
			continue
		}
		t, _ := types.at(i)
		if !medal.IsCanonical(t) {
			continue
		}
		if counts[g] == nil {
			counts[g] = make(map[string]int)
		}
		counts[g][t]++
	}
	keys := make([]string, 0, len(counts))
	for g := range counts {
		keys = append(keys, g)
	}
	sort.Strings(keys)
	return counts, keys, true
}

func flatten(counts map[string]map[string]int, keys []string) []GroupMedalCount {
	rows := []GroupMedalCount{}
	for _, g := range keys {
		for _, t := range medal.All {
			if n := counts[g][string(t)]; n > 0 {
				rows = append(rows, GroupMedalCount{Group: g, Medal: string(t), Count: n})
			}
		}
	}
	return rows
}

// ContinentMedals counts medals per continent and medal type.
func ContinentMedals(medallists dataframe.DataFrame) Section[GroupMedalCount] {
	counts, keys, ok := medalsBy(medallists, "continent")
	if !ok {
		return unavailable[GroupMedalCount]()
	}
	return newSection(flatten(counts, keys))
}

// GenderMedals counts medals per gender and medal type.
func GenderMedals(medallists dataframe.DataFrame) Section[GroupMedalCount] {
	counts, keys, ok := medalsBy(medallists, "gender")
	if !ok {
		return unavailable[GroupMedalCount]()
	}
	return newSection(flatten(counts, keys))
}

// TopDisciplines keeps the n disciplines with the most medals and returns
// their per-medal counts, busiest discipline first.
func TopDisciplines(medallists dataframe.DataFrame, n int) Section[GroupMedalCount] {
	counts, keys, ok := medalsBy(medallists, "discipline")
	if !ok {
		return unavailable[GroupMedalCount]()
	}
	totals := make(map[string]int, len(keys))
	for _, k := range keys {
		for _, c := range counts[k] {
			totals[k] += c
		}
	}
	sort.SliceStable(keys, func(i, j int) bool { return totals[keys[i]] > totals[keys[j]] })
	if n > 0 && len(keys) > n {
		keys = keys[:n]
	}
	return newSection(flatten(counts, keys))
}

// Sunburst counts medallist rows per continent, country and discipline.
// Rows without a discipline are grouped under Unknown.
func Sunburst(medallists dataframe.DataFrame) Section[SunburstNode] {
	conts, ok := col(medallists, "continent")
	if !ok {
		return unavailable[SunburstNode]()
	}
	countries, ok := col(medallists, "country")
	if !ok {
		return unavailable[SunburstNode]()
	}
	disciplines, hasDiscipline := col(medallists, "discipline")

	type key struct{ continent, country, discipline string }
	counts := make(map[key]int)
	for i := range conts.values {
		c, ok := conts.at(i)
		if !ok {
			continue
		}
		country, ok := countries.at(i)
		if !ok {
			continue
		}
		d := "Unknown"
		if hasDiscipline {
			if v, ok := disciplines.at(i); ok {
				d = v
			}
		}
		counts[key{c, country, d}]++
	}
	rows := make([]SunburstNode, 0, len(counts))
	for k, n := range counts {
		rows = append(rows, SunburstNode{Continent: k.continent, Country: k.country, Discipline: k.discipline, Count: n})
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Continent != b.Continent {
			return a.Continent < b.Continent
		}
		if a.Country != b.Country {
			return a.Country < b.Country
		}
		return a.Discipline < b.Discipline
	})
	return newSection(rows)
}

// countryRows reads a canonical totals table into per-country rows.
func countryRows(totals dataframe.DataFrame) ([]CountryMedals, []string, bool) {
	codes, ok := col(totals, "country_code")
	if !ok {
		return nil, nil, false
	}
	names, _ := col(totals, "country")
	conts, hasContinent := col(totals, "continent")
	read := func(name string) []int {
		c, ok := col(totals, name)
		if !ok {
			return make([]int, len(codes.values))
		}
		return c.ints()
	}
	gold, silver, bronze, total := read("Gold"), read("Silver"), read("Bronze"), read(medal.Total)

	rows := []CountryMedals{}
	continents := []string{}
	for i := range codes.values {
		code, ok := codes.at(i)
		if !ok {
			continue
		}
		name := ""
		if names.values != nil {
			name, _ = names.at(i)
		}
		cont := continent.Other
		if hasContinent {
			if v, ok := conts.at(i); ok {
				cont = v
			}
		}
		rows = append(rows, CountryMedals{Code: code, Name: name, Gold: gold[i], Silver: silver[i], Bronze: bronze[i], Total: total[i]})
		continents = append(continents, cont)
	}
	return rows, continents, true
}

// TopCountriesInContinent ranks the countries of one continent by the given
// column (Total, Gold, Silver or Bronze) and keeps the first n.
func TopCountriesInContinent(totals dataframe.DataFrame, cont, by string, n int) (Section[CountryMedals], error) {
	if !ValidRanking(by) {
		return Section[CountryMedals]{}, ErrInvalidRanking
	}
	all, continents, ok := countryRows(totals)
	if !ok {
		return unavailable[CountryMedals](), nil
	}
	rows := []CountryMedals{}
	for i, r := range all {
		if continents[i] == cont {
			rows = append(rows, r)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].value(by) > rows[j].value(by) })
	if n > 0 && len(rows) > n {
		rows = rows[:n]
	}
	return newSection(rows), nil
}

// MedalMap returns, per country code, the count in the given medal column
// of a totals table.
func MedalMap(totals dataframe.DataFrame, by string) (Section[CountryValue], error) {
	if !ValidRanking(by) {
		return Section[CountryValue]{}, ErrInvalidRanking
	}
	all, _, ok := countryRows(totals)
	if !ok {
		return unavailable[CountryValue](), nil
	}
	rows := make([]CountryValue, 0, len(all))
	for _, r := range all {
		rows = append(rows, CountryValue{Code: r.Code, Value: r.value(by)})
	}
	return newSection(rows), nil
}
