package filter

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Result reports what Apply did.
type Result struct {
	// Applied lists the dimensions whose predicate ran against the table.
	Applied []Dimension
	// Kept and Total are the row counts after and before filtering.
	Kept  int
	Total int
}

// Apply returns the rows of df matching every non-trivial criterion in st.
// Criteria whose column is absent from df are skipped. An empty selection
// keeps no rows. df is never modified.
func Apply(df dataframe.DataFrame, st State) dataframe.DataFrame {
	out, _ := ApplyWithResult(df, st)
	return out
}

// ApplyWithResult is Apply plus a summary of the predicates that ran.
func ApplyWithResult(df dataframe.DataFrame, st State) (dataframe.DataFrame, Result) {
	res := Result{Total: df.Nrow()}
	out := df.Copy()
	present := make(map[string]struct{}, out.Ncol())
	for _, n := range out.Names() {
		present[n] = struct{}{}
	}
	for _, c := range st.Criteria() {
		if c.All {
			continue
		}
		if _, ok := present[c.Column]; !ok {
			continue
		}
		out = out.Filter(dataframe.F{
			Colname:    c.Column,
			Comparator: series.In,
			Comparando: append([]string{}, c.Values...),
		})
		res.Applied = append(res.Applied, c.Dimension)
	}
	res.Kept = out.Nrow()
	return out, res
}
