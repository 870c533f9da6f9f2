package sphinxql

import "strconv"

// paramPrefix is prepended to every generated placeholder name.
const paramPrefix = ":qp"

// Params maps placeholder names to the values bound under them. Keys carry
// the leading colon, matching the placeholders embedded in the statement
// text, so `SELECT ... WHERE MATCH(:qp0)` pairs with Params{":qp0": "..."}.
type Params map[string]any

// bind stores v under the next generated placeholder name and returns that
// name. The counter is the current map size, which keeps names unique only
// as long as every bind during one compilation goes through the same map.
// The builder threads a single accumulator through all clauses and
// sub-queries for exactly this reason.
func (p Params) bind(v any) string {
	name := paramPrefix + strconv.Itoa(len(p))
	p[name] = v
	return name
}

// merge copies the entries of other into p, keeping names as written.
// Callers own uniqueness of hand-named placeholders.
func (p Params) merge(other Params) {
	for name, value := range other {
		p[name] = value
	}
}
