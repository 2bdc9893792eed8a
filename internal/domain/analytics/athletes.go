package analytics

import (
	"errors"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/okian/podium/internal/domain/medal"
	"github.com/okian/podium/internal/domain/names"
)

// ErrInvalidGroup is returned for an age grouping other than gender, discipline or country.
var ErrInvalidGroup = errors.New("invalid age grouping")

// AgeGroups are the columns AgeSummary can group by.
var AgeGroups = []string{"gender", "discipline", "country"} //nolint:gochecknoglobals // fixed choice list

// Profile is the card shown for one athlete.
type Profile struct {
	Name        string       `json:"name"`
	Country     string       `json:"country,omitempty"`
	CountryCode string       `json:"country_code,omitempty"`
	Continent   string       `json:"continent,omitempty"`
	Gender      string       `json:"gender,omitempty"`
	Discipline  string       `json:"discipline,omitempty"`
	Height      string       `json:"height,omitempty"`
	Weight      string       `json:"weight,omitempty"`
	Coach       string       `json:"coach,omitempty"`
	Age         *int         `json:"age,omitempty"`
	Medals      []MedalCount `json:"medals"`
	TotalMedals int          `json:"total_medals"`
}

// AgeStats summarizes the ages of one group.
type AgeStats struct {
	Group  string  `json:"group"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
}

// GenderCount is one slice of a gender distribution.
type GenderCount struct {
	Gender string `json:"gender"`
	Count  int    `json:"count"`
}

// AthleteMedals is an athlete's medal count.
type AthleteMedals struct {
	Name  string `json:"name"`
	Total int    `json:"total_medals"`
}

// ValidNames returns the sorted distinct athlete names, leaving out purely
// numeric ones.
func ValidNames(athletes dataframe.DataFrame) []string {
	out := []string{}
	for _, n := range Distinct(athletes, "name") {
		if names.IsValidAthleteName(n) {
			out = append(out, n)
		}
	}
	return out
}

// AthleteProfile builds the card for the first athlete row named name.
// Medals are matched on the normalized name across every medallist row, so
// "EVENEPOEL Remco" and "Remco Evenepoel" count as the same person.
func AthleteProfile(athletes, medallists dataframe.DataFrame, name string) (Profile, bool) {
	athleteNames, ok := col(athletes, "name")
	if !ok {
		return Profile{}, false
	}
	row := -1
	for i := range athleteNames.values {
		if v, ok := athleteNames.at(i); ok && v == name {
			row = i
			break
		}
	}
	if row < 0 {
		return Profile{}, false
	}

	cell := func(name string) string {
		c, ok := col(athletes, name)
		if !ok {
			return ""
		}
		v, _ := c.at(row)
		return v
	}
	p := Profile{
		Name:        name,
		Country:     cell("country"),
		CountryCode: cell("country_code"),
		Continent:   cell("continent"),
		Gender:      cell("gender"),
		Discipline:  cell("discipline"),
		Height:      cell("height"),
		Weight:      cell("weight"),
		Coach:       cell("coach"),
	}
	if ages, ok := col(athletes, "age"); ok {
		if _, present := ages.at(row); present {
			age := ages.ints()[row]
			p.Age = &age
		}
	}

	key := names.Normalize(name)
	counts := make(map[string]int)
	if norms, ok := col(medallists, "name_norm"); ok {
		types, _ := col(medallists, "medal_type")
		for i := range norms.values {
			if v, ok := norms.at(i); !ok || v != key {
				continue
			}
			if types.values == nil {
				continue
			}
			if t, ok := types.at(i); ok && medal.IsCanonical(t) {
				counts[t]++
			}
		}
	}
	p.Medals = make([]MedalCount, 0, len(medal.All))
	for _, t := range medal.All {
		n := counts[string(t)]
		p.Medals = append(p.Medals, MedalCount{Medal: string(t), Count: n})
		p.TotalMedals += n
	}
	return p, true
}

// AgeSummary reports count, mean and median age per value of group,
// rounded to one decimal. Rows with a null age or group are excluded.
func AgeSummary(athletes dataframe.DataFrame, group string) (Section[AgeStats], error) {
	valid := false
	for _, g := range AgeGroups {
		valid = valid || g == group
	}
	if !valid {
		return Section[AgeStats]{}, ErrInvalidGroup
	}
	groups, ok := col(athletes, group)
	if !ok {
		return unavailable[AgeStats](), nil
	}
	ages, ok := col(athletes, "age")
	if !ok {
		return unavailable[AgeStats](), nil
	}
	values := ages.ints()

	byGroup := make(map[string][]float64)
	for i := range groups.values {
		g, ok := groups.at(i)
		if !ok {
			continue
		}
		if _, ok := ages.at(i); !ok {
			continue
		}
		byGroup[g] = append(byGroup[g], float64(values[i]))
	}

	rows := make([]AgeStats, 0, len(byGroup))
	for g, xs := range byGroup {
		sort.Float64s(xs)
		sum := 0.0
		for _, x := range xs {
			sum += x
		}
		rows = append(rows, AgeStats{
			Group:  g,
			Count:  len(xs),
			Mean:   round(sum/float64(len(xs)), 1),
			Median: round(median(xs), 1),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Group < rows[j].Group })
	return newSection(rows), nil
}

// GenderDistribution counts athletes per gender. With an empty scope the
// whole table is counted; otherwise only rows whose scope column equals value.
func GenderDistribution(athletes dataframe.DataFrame, scope, value string) Section[GenderCount] {
	genders, ok := col(athletes, "gender")
	if !ok {
		return unavailable[GenderCount]()
	}
	var scoped column
	if scope != "" {
		if scoped, ok = col(athletes, scope); !ok {
			return unavailable[GenderCount]()
		}
	}

	counts := make(map[string]int)
	for i := range genders.values {
		if scope != "" {
			if v, ok := scoped.at(i); !ok || v != value {
				continue
			}
		}
		if g, ok := genders.at(i); ok {
			counts[g]++
		}
	}
	rows := make([]GenderCount, 0, len(counts))
	for g, n := range counts {
		rows = append(rows, GenderCount{Gender: g, Count: n})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Gender < rows[j].Gender
	})
	return newSection(rows)
}

// TopAthletes ranks athletes by their number of medal rows and keeps n.
// Ties keep the alphabetical order of the names.
func TopAthletes(medals dataframe.DataFrame, n int) Section[AthleteMedals] {
	athleteNames, ok := col(medals, "name")
	if !ok {
		return unavailable[AthleteMedals]()
	}
	counts := make(map[string]int)
	for i := range athleteNames.values {
		if v, ok := athleteNames.at(i); ok {
			counts[v]++
		}
	}
	rows := make([]AthleteMedals, 0, len(counts))
	for name, c := range counts {
		rows = append(rows, AthleteMedals{Name: name, Total: c})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Total != rows[j].Total {
			return rows[i].Total > rows[j].Total
		}
		return rows[i].Name < rows[j].Name
	})
	if n > 0 && len(rows) > n {
		rows = rows[:n]
	}
	return newSection(rows)
}
