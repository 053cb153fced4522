package dbx

import "strings"

// Filter accumulates optional exact-match predicates and produces a WHERE
// clause with positional placeholders. Empty values are skipped, so callers
// can feed it an entire filter struct without conditionals.
type Filter struct {
	conds []string
	args  []any
}

// Eq adds "col = ?" when value is non-empty.
func (f *Filter) Eq(col, value string) *Filter {
	if value != "" {
		f.conds = append(f.conds, col+" = ?")
		f.args = append(f.args, value)
	}
	return f
}

// EqInt adds "col = ?" for an integer predicate. A negative value is treated
// as "not set".
func (f *Filter) EqInt(col string, value int) *Filter {
	if value >= 0 {
		f.conds = append(f.conds, col+" = ?")
		f.args = append(f.args, value)
	}
	return f
}

// Where returns the assembled clause (including the leading " WHERE ") and
// its arguments. With no predicates it returns an empty clause.
func (f *Filter) Where() (string, []any) {
	if len(f.conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(f.conds, " AND "), f.args
}
