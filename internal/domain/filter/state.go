package filter

// Selector supplies the user's choice for one dimension. ok=false means the
// user made no choice, which selects every option.
type Selector interface {
	Select(dim Dimension, options []string) (chosen []string, ok bool)
}

// SelectorFunc adapts a function to Selector.
type SelectorFunc func(dim Dimension, options []string) ([]string, bool)

// Select implements Selector.
func (f SelectorFunc) Select(dim Dimension, options []string) ([]string, bool) {
	return f(dim, options)
}

// SelectAll is the default selection: every option on.
var SelectAll Selector = SelectorFunc(func(Dimension, []string) ([]string, bool) { //nolint:gochecknoglobals // stateless
	return nil, false
})

// Criterion is the selection for one dimension. All means every option is
// chosen and the predicate is a no-op.
type Criterion struct {
	Dimension Dimension `json:"dimension"`
	Column    string    `json:"column"`
	Values    []string  `json:"values"`
	All       bool      `json:"all"`
}

// State holds one criterion per available dimension.
type State struct {
	criteria map[Dimension]Criterion
}

// Capture builds a State from a discovery and the user's selections. Chosen
// values outside the option set are dropped; choosing every option is the
// same as choosing nothing.
func Capture(d Discovery, sel Selector) State {
	if sel == nil {
		sel = SelectAll
	}
	st := State{criteria: make(map[Dimension]Criterion, len(d.Options))}
	for _, opt := range d.Options {
		c := Criterion{Dimension: opt.Dimension, Column: opt.Column}
		chosen, ok := sel.Select(opt.Dimension, opt.Values)
		if !ok {
			c.All = true
			c.Values = append([]string(nil), opt.Values...)
		} else {
			c.Values = intersect(opt.Values, chosen)
			c.All = len(c.Values) == len(opt.Values)
		}
		st.criteria[opt.Dimension] = c
	}
	return st
}

// Criterion returns the criterion for dim, if the dimension is available.
func (s State) Criterion(dim Dimension) (Criterion, bool) {
	c, ok := s.criteria[dim]
	return c, ok
}

// Selected returns the chosen values for dim and whether the dimension is available.
func (s State) Selected(dim Dimension) ([]string, bool) {
	c, ok := s.criteria[dim]
	if !ok {
		return nil, false
	}
	return append([]string(nil), c.Values...), true
}

// IsAll reports whether dim is unavailable or fully selected.
func (s State) IsAll(dim Dimension) bool {
	c, ok := s.criteria[dim]
	return !ok || c.All
}

// Criteria returns every criterion in sidebar order.
func (s State) Criteria() []Criterion {
	out := make([]Criterion, 0, len(s.criteria))
	for _, dim := range Dimensions {
		if c, ok := s.criteria[dim]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Retarget returns a copy of s whose criterion for dim reads column instead.
// It lets a sport selection discovered on discipline apply to a sport column.
func (s State) Retarget(dim Dimension, column string) State {
	out := State{criteria: make(map[Dimension]Criterion, len(s.criteria))}
	for k, v := range s.criteria {
		out.criteria[k] = v
	}
	if c, ok := out.criteria[dim]; ok {
		c.Column = column
		out.criteria[dim] = c
	}
	return out
}

// Without returns a copy of s with dim removed.
func (s State) Without(dim Dimension) State {
	out := State{criteria: make(map[Dimension]Criterion, len(s.criteria))}
	for k, v := range s.criteria {
		if k != dim {
			out.criteria[k] = v
		}
	}
	return out
}

// Only returns a copy of s that keeps just the criterion for dim.
func (s State) Only(dim Dimension) State {
	out := State{criteria: make(map[Dimension]Criterion, 1)}
	if c, ok := s.criteria[dim]; ok {
		out.criteria[dim] = c
	}
	return out
}

// intersect keeps the options, in option order, that appear in chosen.
func intersect(options, chosen []string) []string {
	want := make(map[string]struct{}, len(chosen))
	for _, c := range chosen {
		want[c] = struct{}{}
	}
	out := []string{}
	for _, o := range options {
		if _, ok := want[o]; ok {
			out = append(out, o)
		}
	}
	return out
}
