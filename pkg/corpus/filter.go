package corpus

import (
	"fmt"
	"strings"
)

// FilterOp is a comparison operator of one filter constraint.
type FilterOp string

const (
	OpEq       FilterOp = "="
	OpNotEq    FilterOp = "!="
	OpLt       FilterOp = "<"
	OpLte      FilterOp = "<="
	OpGt       FilterOp = ">"
	OpGte      FilterOp = ">="
	OpContains FilterOp = "contains" // case-insensitive substring match
)

// Filter is one typed (column, operator, value) constraint. Stores append
// filters instead of concatenating SQL fragments, keeping validation in
// one place and every value parameterized.
type Filter struct {
	Column string
	Op     FilterOp
	Value  any
}

// Filters accumulates constraints for one query.
type Filters struct {
	list []Filter
}

// Where appends a constraint and returns the receiver for chaining.
func (f *Filters) Where(column string, op FilterOp, value any) *Filters {
	f.list = append(f.list, Filter{Column: column, Op: op, Value: value})
	return f
}

// Len reports the number of accumulated constraints.
func (f *Filters) Len() int { return len(f.list) }

// SQL renders the constraints as an AND-joined clause with numbered
// placeholders starting at startArg, and the matching argument list.
// Returns an empty clause when no constraints were added. Column names
// come from store code, never from caller input; values are always
// passed as query arguments.
func (f *Filters) SQL(startArg int) (string, []any, error) {
	if len(f.list) == 0 {
		return "", nil, nil
	}

	parts := make([]string, 0, len(f.list))
	args := make([]any, 0, len(f.list))
	n := startArg

	for _, flt := range f.list {
		if flt.Column == "" {
			return "", nil, NewValidationError("filter", "empty column name")
		}
		switch flt.Op {
		case OpEq, OpNotEq, OpLt, OpLte, OpGt, OpGte:
			parts = append(parts,
				fmt.Sprintf("%s %s $%d", flt.Column, flt.Op, n))
			args = append(args, flt.Value)
		case OpContains:
			s, ok := flt.Value.(string)
			if !ok {
				return "", nil, NewValidationError("filter",
					"contains requires a string value for %s", flt.Column)
			}
			parts = append(parts,
				fmt.Sprintf("%s ILIKE $%d", flt.Column, n))
			args = append(args, "%"+escapeLike(s)+"%")
		default:
			return "", nil, NewValidationError("filter",
				"unknown operator %q", flt.Op)
		}
		n++
	}

	return strings.Join(parts, " AND "), args, nil
}

// escapeLike neutralizes LIKE metacharacters in user-supplied patterns.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
