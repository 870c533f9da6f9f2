// Package sphinxql compiles query definitions into SphinxQL, the SQL
// dialect the Sphinx and Manticore full-text engines speak over the MySQL
// wire protocol.
//
// The package separates what a search asks for from how the dialect spells
// it. A Query accumulates the pieces of a SELECT through a fluent API; a
// QueryBuilder renders them into a statement string plus the parameters to
// bind:
//
//	qb := sphinxql.NewQueryBuilder(nil)
//	q := sphinxql.NewQuery().
//		From("idx_article").
//		Match("hello world").
//		Limit(10)
//	sql, params, err := qb.Build(q)
//	// sql:    SELECT * FROM idx_article WHERE MATCH(:qp0) LIMIT 10
//	// params: Params{":qp0": "hello world"}
//
// # Values and parameters
//
// Every user value becomes a bound :qpN parameter, never inline SQL text.
// Placeholder numbers come from one accumulator per statement, so they stay
// unique across sub-queries and clause boundaries. Raw *Expr fragments are
// the single escape hatch: their text is spliced in verbatim and their
// parameter maps merge as written.
//
// # Conditions
//
// Where, Having and the DML methods accept condition trees in two forms.
// The hash form maps columns to values and joins all pairs with AND; slice
// values turn into IN tests and nil into IS NULL. The operator form is a
// slice whose first element names the operator: AND, OR, NOT, BETWEEN,
// NOT BETWEEN, IN, NOT IN and the LIKE family are interpreted, anything
// else renders as a binary comparison with the keyword as-is.
//
// # Full-text matching
//
// Query.Match folds a MATCH() member into the WHERE clause. Plain strings
// are escaped with EscapeMatch and bound as one parameter; MatchExpr trees
// compile field scopes, phrases, quorum and proximity operators into the
// engine's query syntax before binding; raw *Expr fragments pass through
// untouched.
//
// # Beyond SELECT
//
// QueryBuilder also compiles the write and introspection surface of the
// dialect: INSERT and REPLACE (single and batch), UPDATE, DELETE,
// TRUNCATE RTINDEX, CALL SNIPPETS, CALL KEYWORDS and the SHOW META
// statement appended after a query. Constructs the engine cannot run,
// joins and upserts among them, fail with ErrNotSupported instead of
// producing SQL that dies on the wire.
//
// Index schemas are optional. Give NewQueryBuilder a SchemaProvider, for
// example FromDBML over a DBML project, and bound values are coerced to
// the declared column types; without one, values bind exactly as given.
package sphinxql
