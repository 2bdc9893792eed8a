// Package analytics computes the aggregates each dashboard page charts.
// Every function is pure: it reads already-filtered frames and returns
// typed rows, flagging empty results so a page can show an empty state for
// that section alone.
package analytics

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
)

// Section is one chart's worth of rows.
type Section[T any] struct {
	Rows  []T  `json:"rows"`
	Empty bool `json:"empty"`
	// Unavailable is set when the input lacks a column the section needs.
	Unavailable bool `json:"unavailable,omitempty"`
}

func newSection[T any](rows []T) Section[T] {
	if rows == nil {
		rows = []T{}
	}
	return Section[T]{Rows: rows, Empty: len(rows) == 0}
}

func unavailable[T any]() Section[T] {
	return Section[T]{Rows: []T{}, Empty: true, Unavailable: true}
}

// column is a string view of one frame column.
type column struct {
	values []string
	null   []bool
}

func (c column) at(i int) (string, bool) {
	if c.null[i] {
		return "", false
	}
	v := strings.TrimSpace(c.values[i])
	return v, v != ""
}

func col(df dataframe.DataFrame, name string) (column, bool) {
	for _, n := range df.Names() {
		if n == name {
			s := df.Col(name)
			return column{values: s.Records(), null: s.IsNaN()}, true
		}
	}
	return column{}, false
}

func (c column) ints() []int {
	out := make([]int, len(c.values))
	for i := range c.values {
		v, ok := c.at(i)
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(v); err == nil {
			out[i] = n
		} else if f, err := strconv.ParseFloat(v, 64); err == nil && !math.IsNaN(f) {
			out[i] = int(f)
		}
	}
	return out
}

// CountDistinct counts distinct non-null values of name; 0 when the column is absent.
func CountDistinct(df dataframe.DataFrame, name string) int {
	c, ok := col(df, name)
	if !ok {
		return 0
	}
	seen := make(map[string]struct{})
	for i := range c.values {
		if v, ok := c.at(i); ok {
			seen[v] = struct{}{}
		}
	}
	return len(seen)
}

// Distinct returns the sorted distinct non-null values of name.
func Distinct(df dataframe.DataFrame, name string) []string {
	c, ok := col(df, name)
	if !ok {
		return []string{}
	}
	seen := make(map[string]struct{})
	out := []string{}
	for i := range c.values {
		v, ok := c.at(i)
		if !ok {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// SumInt sums an integer column, treating null cells as zero.
func SumInt(df dataframe.DataFrame, name string) int {
	c, ok := col(df, name)
	if !ok {
		return 0
	}
	total := 0
	for _, n := range c.ints() {
		total += n
	}
	return total
}

// lookup maps keyCol to the first non-null valCol seen for it.
func lookup(df dataframe.DataFrame, keyCol, valCol string) map[string]string {
	out := make(map[string]string)
	keys, ok := col(df, keyCol)
	if !ok {
		return out
	}
	vals, ok := col(df, valCol)
	if !ok {
		return out
	}
	for i := range keys.values {
		k, ok := keys.at(i)
		if !ok {
			continue
		}
		if _, seen := out[k]; seen {
			continue
		}
		if v, ok := vals.at(i); ok {
			out[k] = v
		}
	}
	return out
}

func round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}

func median(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
