package api

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/okian/podium/internal/domain/filter"
)

// selectorFromQuery reads one parameter per filter dimension. A parameter
// may repeat and each value may hold a comma separated list. A value that
// is itself an option, such as "Hong Kong, China", is kept whole. An absent
// parameter selects every option; a present but empty one selects none.
func selectorFromQuery(q url.Values) filter.Selector {
	return filter.SelectorFunc(func(dim filter.Dimension, options []string) ([]string, bool) {
		raw, ok := q[string(dim)]
		if !ok {
			return nil, false
		}
		known := make(map[string]struct{}, len(options))
		for _, o := range options {
			known[o] = struct{}{}
		}
		out := []string{}
		for _, v := range raw {
			if whole := strings.TrimSpace(v); whole != "" {
				if _, found := known[whole]; found {
					out = append(out, whole)
					continue
				}
			}
			for _, part := range strings.Split(v, ",") {
				if part = strings.TrimSpace(part); part != "" {
					out = append(out, part)
				}
			}
		}
		return out, true
	})
}

// limitParam parses a positive top-N parameter capped at max. An absent
// parameter returns 0 so the service default applies.
func limitParam(q url.Values, name string, max int) (int, error) {
	s := strings.TrimSpace(q.Get(name))
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", ErrBadRequest, name)
	}
	if n > max {
		return 0, fmt.Errorf("%w: %s exceeds %d", ErrBadRequest, name, max)
	}
	return n, nil
}
