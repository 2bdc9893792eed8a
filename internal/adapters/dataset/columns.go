package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Canonical column names.
const (
	ColCountryCode = "country_code"
	ColCountry     = "country"
	ColCountryLong = "country_long"
	ColContinent   = "continent"
	ColName        = "name"
	ColNameNorm    = "name_norm"
	ColMedalType   = "medal_type"
	ColGender      = "gender"
	ColDiscipline  = "discipline"
	ColDisciplines = "disciplines"
	ColEvent       = "event"
	ColSport       = "sport"
	ColVenue       = "venue"
	ColStartDate   = "start_date"
	ColEndDate     = "end_date"
	ColBirthDate   = "birth_date"
	ColAge         = "age"
	ColCode        = "code"
)

const nullCell = "NaN"

func hasColumn(df dataframe.DataFrame, col string) bool {
	for _, n := range df.Names() {
		if n == col {
			return true
		}
	}
	return false
}

func requireColumns(table Table, df dataframe.DataFrame, cols ...string) error {
	for _, c := range cols {
		if !hasColumn(df, c) {
			return fmt.Errorf("%w: %s.%s", ErrMissingColumn, table, c)
		}
	}
	return nil
}

// cells returns the string values of col and which of them are null.
func cells(df dataframe.DataFrame, col string) (values []string, null []bool) {
	s := df.Col(col)
	if s.Err != nil {
		return nil, nil
	}
	return s.Records(), s.IsNaN()
}

// deriveString adds or replaces dst with f applied to every cell of src.
// f returns ok=false for a null result.
func deriveString(df dataframe.DataFrame, src, dst string, f func(v string, null bool) (string, bool)) dataframe.DataFrame {
	values, null := cells(df, src)
	out := make([]string, len(values))
	for i, v := range values {
		r, ok := f(v, null[i])
		if !ok {
			r = nullCell
		}
		out[i] = r
	}
	return df.Mutate(series.New(out, series.String, dst))
}

// parseCount reads a medal count cell. Null cells count as zero; negative
// and unparseable cells count as zero and are reported as bad.
func parseCount(v string, null bool) (int, bool) {
	if null {
		return 0, true
	}
	v = strings.TrimSpace(v)
	if n, err := strconv.Atoi(v); err == nil {
		if n < 0 {
			return 0, false
		}
		return n, true
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		if f < 0 {
			return 0, false
		}
		return int(f), true
	}
	return 0, false
}

// IntColumn returns col as ints with nulls reported separately.
func IntColumn(df dataframe.DataFrame, col string) (values []int, null []bool) {
	raw, isNull := cells(df, col)
	values = make([]int, len(raw))
	null = make([]bool, len(raw))
	for i, v := range raw {
		if isNull[i] {
			null[i] = true
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			null[i] = true
			continue
		}
		values[i] = n
	}
	return values, null
}

// firstListItem extracts the first entry of a list-like cell such as "['Judo', 'Sambo']".
func firstListItem(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "[")
	v = strings.TrimSuffix(v, "]")
	if i := strings.Index(v, ","); i >= 0 {
		v = v[:i]
	}
	return strings.Trim(strings.TrimSpace(v), `'"`)
}
