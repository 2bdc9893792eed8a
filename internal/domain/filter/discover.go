package filter

import (
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/okian/podium/internal/domain/medal"
)

// Option is one selectable dimension with its candidate values.
type Option struct {
	Dimension Dimension `json:"dimension"`
	Column    string    `json:"column"`
	Values    []string  `json:"values"`
}

// Discovery is the result of inspecting a reference table: the options for
// every available dimension, in sidebar order.
type Discovery struct {
	Schema  Schema   `json:"-"`
	Options []Option `json:"options"`
}

// Discover inspects the reference table and lists, for each available
// dimension, the sorted distinct non-null values. The medal toggle is always
// offered with the canonical labels, independent of the table.
func Discover(ref dataframe.DataFrame) Discovery {
	schema := Inspect(ref)
	d := Discovery{Schema: schema}
	for _, dim := range Dimensions {
		if dim == Medal {
			d.Options = append(d.Options, Option{Dimension: Medal, Column: ColMedalType, Values: medal.Labels()})
			continue
		}
		col, ok := schema.Column(dim)
		if !ok {
			continue
		}
		d.Options = append(d.Options, Option{Dimension: dim, Column: col, Values: distinct(ref, col)})
	}
	return d
}

// Option returns the option for dim, if available.
func (d Discovery) Option(dim Dimension) (Option, bool) {
	for _, o := range d.Options {
		if o.Dimension == dim {
			return o, true
		}
	}
	return Option{}, false
}

// Available reports whether dim was discovered.
func (d Discovery) Available(dim Dimension) bool {
	_, ok := d.Option(dim)
	return ok
}

func distinct(df dataframe.DataFrame, col string) []string {
	s := df.Col(col)
	if s.Err != nil {
		return []string{}
	}
	nan := s.IsNaN()
	seen := make(map[string]struct{})
	out := []string{}
	for i, v := range s.Records() {
		if nan[i] {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
