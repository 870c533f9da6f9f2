package sphinxql

// Expr is a raw SQL fragment with the parameters it references. The builder
// splices the fragment into the statement verbatim, with no escaping, no
// typecasting and no placeholder renaming, and merges Params into the
// statement accumulator. Every place that accepts a value also accepts an
// *Expr: select fields, FROM entries, MATCH, condition operands, OPTION
// values, facet fields and SHOW META patterns.
type Expr struct {
	Fragment string
	Params   Params
}

// NewExpr returns a raw fragment carrying the given parameter maps.
//
//	sphinxql.NewExpr("weight() + :boost", sphinxql.Params{":boost": 100})
func NewExpr(fragment string, params ...Params) *Expr {
	e := &Expr{Fragment: fragment, Params: Params{}}
	for _, p := range params {
		e.Params.merge(p)
	}
	return e
}

func (e *Expr) String() string {
	return e.Fragment
}
