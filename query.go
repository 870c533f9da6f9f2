package sphinxql

// Aliased pairs a select field or FROM entry with an explicit alias.
type Aliased struct {
	Expr  any
	Alias string
}

// As aliases a column, raw expression or sub-query.
//
//	sphinxql.As(sphinxql.NewExpr("weight()"), "w")
func As(expr any, alias string) Aliased {
	return Aliased{Expr: expr, Alias: alias}
}

type joinSpec struct {
	kind  string
	index string
	on    any
}

// Query accumulates the parts of a SELECT statement. Methods return the
// receiver so calls chain; nothing is validated or rendered until the query
// is handed to a QueryBuilder.
type Query struct {
	selectCols   []any
	distinct     bool
	selectOption string
	from         []any
	match        any
	where        any
	groupBy      []string
	withinGroup  []string
	having       any
	orderBy      []string
	limit        *int
	offset       *int
	options      map[string]any
	facets       []*Facet
	showMeta     any
	params       Params
	joins        []joinSpec

	indexes []string
}

// NewQuery returns an empty query. With no select fields it compiles to
// SELECT *.
func NewQuery() *Query {
	return &Query{}
}

// Select replaces the select field list. Entries may be column names
// (optionally "col alias"), Aliased values, raw *Expr fragments, or strings
// containing parentheses which pass through untouched.
func (q *Query) Select(fields ...any) *Query {
	q.selectCols = fields
	return q
}

// AddSelect appends to the select field list.
func (q *Query) AddSelect(fields ...any) *Query {
	q.selectCols = append(q.selectCols, fields...)
	return q
}

// Distinct toggles SELECT DISTINCT.
func (q *Query) Distinct(on bool) *Query {
	q.distinct = on
	return q
}

// SelectOption injects a raw token between SELECT and the field list.
func (q *Query) SelectOption(option string) *Query {
	q.selectOption = option
	return q
}

// From replaces the index list. Entries may be index names (optionally
// "idx alias"), Aliased values, *Query sub-queries or raw *Expr fragments.
func (q *Query) From(indexes ...any) *Query {
	q.from = indexes
	return q
}

// Match sets the full-text condition. A plain string is escaped and bound
// as a parameter; a *MatchExpr compiles to escaped query syntax and is
// bound the same way; a raw *Expr is inlined verbatim.
func (q *Query) Match(match any) *Query {
	q.match = match
	return q
}

// Where replaces the attribute filter condition. Conditions are either
// hash maps (map[string]any) or operator trees ([]any{"AND", ...}); see
// the package documentation for both forms.
func (q *Query) Where(condition any) *Query {
	q.where = condition
	return q
}

// AndWhere combines condition with the existing filter via AND.
func (q *Query) AndWhere(condition any) *Query {
	if q.where == nil {
		q.where = condition
	} else {
		q.where = []any{"AND", q.where, condition}
	}
	return q
}

// OrWhere combines condition with the existing filter via OR.
func (q *Query) OrWhere(condition any) *Query {
	if q.where == nil {
		q.where = condition
	} else {
		q.where = []any{"OR", q.where, condition}
	}
	return q
}

// GroupBy replaces the grouping column list.
func (q *Query) GroupBy(columns ...string) *Query {
	q.groupBy = columns
	return q
}

// AddGroupBy appends grouping columns.
func (q *Query) AddGroupBy(columns ...string) *Query {
	q.groupBy = append(q.groupBy, columns...)
	return q
}

// WithinGroupOrderBy replaces the intra-group ordering. Specs are
// "column", "column ASC" or "column DESC".
func (q *Query) WithinGroupOrderBy(specs ...string) *Query {
	q.withinGroup = specs
	return q
}

// AddWithinGroupOrderBy appends intra-group ordering specs.
func (q *Query) AddWithinGroupOrderBy(specs ...string) *Query {
	q.withinGroup = append(q.withinGroup, specs...)
	return q
}

// Having replaces the post-aggregation condition. Accepts the same forms
// as Where.
func (q *Query) Having(condition any) *Query {
	q.having = condition
	return q
}

// AndHaving combines condition with the existing HAVING via AND.
func (q *Query) AndHaving(condition any) *Query {
	if q.having == nil {
		q.having = condition
	} else {
		q.having = []any{"AND", q.having, condition}
	}
	return q
}

// OrHaving combines condition with the existing HAVING via OR.
func (q *Query) OrHaving(condition any) *Query {
	if q.having == nil {
		q.having = condition
	} else {
		q.having = []any{"OR", q.having, condition}
	}
	return q
}

// OrderBy replaces the result ordering. Specs are "column", "column ASC"
// or "column DESC".
func (q *Query) OrderBy(specs ...string) *Query {
	q.orderBy = specs
	return q
}

// AddOrderBy appends ordering specs.
func (q *Query) AddOrderBy(specs ...string) *Query {
	q.orderBy = append(q.orderBy, specs...)
	return q
}

// Limit caps the result set. A negative value clears the limit.
func (q *Query) Limit(limit int) *Query {
	q.limit = &limit
	return q
}

// Offset skips leading rows. When set without a limit the builder emits the
// engine's implicit page size. A value of zero or less clears the offset.
func (q *Query) Offset(offset int) *Query {
	q.offset = &offset
	return q
}

// Options replaces the OPTION clause map.
func (q *Query) Options(options map[string]any) *Query {
	q.options = options
	return q
}

// AddOption sets a single OPTION entry.
func (q *Query) AddOption(name string, value any) *Query {
	if q.options == nil {
		q.options = map[string]any{}
	}
	q.options[name] = value
	return q
}

// Facet appends facet clauses to the statement.
func (q *Query) Facet(facets ...*Facet) *Query {
	q.facets = append(q.facets, facets...)
	return q
}

// ShowMeta controls the trailing SHOW META statement: true appends a bare
// SHOW META, a string or *Expr appends SHOW META LIKE with the value as the
// pattern, false or nil omits it.
func (q *Query) ShowMeta(value any) *Query {
	q.showMeta = value
	return q
}

// Params replaces the hand-bound parameters merged into every build of
// this query. Keys should carry their leading colon.
func (q *Query) Params(params Params) *Query {
	q.params = params
	return q
}

// AddParams merges additional hand-bound parameters.
func (q *Query) AddParams(params Params) *Query {
	if q.params == nil {
		q.params = Params{}
	}
	q.params.merge(params)
	return q
}

// Join records a join clause. The engine has no join support; a query with
// any recorded join fails at build time with ErrNotSupported.
func (q *Query) Join(kind, index string, on any) *Query {
	q.joins = append(q.joins, joinSpec{kind: kind, index: index, on: on})
	return q
}

// TouchedIndexes lists the plain index names of the FROM clause as of the
// last build. Sub-queries and raw fragments contribute nothing.
func (q *Query) TouchedIndexes() []string {
	return q.indexes
}

// Facet describes one FACET clause of a multi-result statement.
type Facet struct {
	name   string
	sel    []any
	order  []string
	limit  *int
	offset *int
}

// NewFacet declares a facet over the named expression. The name doubles as
// the facet's select list unless WithSelect overrides it.
func NewFacet(name string) *Facet {
	return &Facet{name: name}
}

// WithSelect sets the facet's explicit select list. Entries accept the same
// forms as Query.Select.
func (f *Facet) WithSelect(fields ...any) *Facet {
	f.sel = fields
	return f
}

// WithOrder sets the facet's intra-group ordering specs.
func (f *Facet) WithOrder(specs ...string) *Facet {
	f.order = specs
	return f
}

// WithLimit pages the facet result.
func (f *Facet) WithLimit(limit int) *Facet {
	f.limit = &limit
	return f
}

// WithOffset skips leading facet rows.
func (f *Facet) WithOffset(offset int) *Facet {
	f.offset = &offset
	return f
}
