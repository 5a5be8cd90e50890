package cli

import (
	"fmt"

	"github.com/itchyny/gojq"
)

// Filter is a pre-parsed jq expression applied to decoded JSON values.
type Filter struct {
	Expr  string
	query *gojq.Query
}

// NewFilter parses expr. An empty expression yields a nil Filter, which
// passes every value through unchanged.
func NewFilter(expr string) (*Filter, error) {
	if expr == "" {
		return nil, nil
	}
	query, err := gojq.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid jq expression %q: %w", expr, err)
	}
	return &Filter{Expr: expr, query: query}, nil
}

// Apply runs the filter on input and returns every result. A filter that
// selects nothing returns no results and no error.
func (f *Filter) Apply(input any) ([]any, error) {
	if f == nil {
		return []any{input}, nil
	}
	var out []any
	iter := f.query.Run(input)
	for {
		v, ok := iter.Next()
		if !ok {
			return out, nil
		}
		if err, ok := v.(error); ok {
			if err, ok := err.(*gojq.HaltError); ok && err.Value() == nil {
				return out, nil
			}
			return nil, fmt.Errorf("jq error: %w", err)
		}
		out = append(out, v)
	}
}
