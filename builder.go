package sphinxql

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// defaultPageLimit caps a query that sets an offset without a limit; the
// dialect has no offset-only LIMIT form.
const defaultPageLimit = 1000

// aliasedEntry splits "expr alias" and "expr AS alias" select and FROM
// entries. Entries containing parentheses never reach this pattern.
var aliasedEntry = regexp.MustCompile(`(?i)^(.*?)(?:\s+AS\s+|\s+)([\w\-.]+)$`)

// QueryBuilder compiles Query values and DML arguments into SphinxQL
// statements with bound :qpN parameters.
type QueryBuilder struct {
	// Separator joins the rendered clauses. A newline gives readable
	// statements in logs; the default single space gives compact ones.
	Separator string

	provider SchemaProvider
}

// NewQueryBuilder returns a builder that resolves index schemas through
// provider. A nil provider disables value coercion and nothing else.
func NewQueryBuilder(provider SchemaProvider) *QueryBuilder {
	return &QueryBuilder{Separator: " ", provider: provider}
}

// Build compiles q into a statement and its bound parameters. Placeholder
// names are generated from one accumulator covering the whole statement,
// sub-queries included, so every :qpN is unique; hand-bound parameters keep
// their names. A Query must not be built from multiple goroutines at once:
// Build refreshes its TouchedIndexes list.
func (qb *QueryBuilder) Build(q *Query) (string, Params, error) {
	params := Params{}
	sql, err := qb.buildQuery(q, params)
	if err != nil {
		return "", nil, err
	}
	if meta := qb.buildShowMeta(q.showMeta, params); meta != "" {
		sql += "; " + meta
	}
	return sql, params, nil
}

// buildQuery renders the SELECT pipeline of q, merging every parameter into
// params. Clauses compile in emission order, which is what fixes the
// placeholder numbering; FROM sub-queries recurse through here with the
// same accumulator.
func (qb *QueryBuilder) buildQuery(q *Query, params Params) (string, error) {
	if len(q.joins) > 0 {
		return "", fmt.Errorf("JOIN over full-text indexes: %w", ErrNotSupported)
	}
	params.merge(q.params)

	q.indexes = collectIndexNames(q.from)
	schemas := resolveSchemas(qb.provider, q.indexes)

	clauses := make([]string, 0, 10)
	add := func(clause string) {
		if clause != "" {
			clauses = append(clauses, clause)
		}
	}

	selectSQL, err := qb.buildSelect(q.selectCols, q.distinct, q.selectOption, params)
	if err != nil {
		return "", err
	}
	add(selectSQL)

	fromSQL, err := qb.buildFrom(q.from, params)
	if err != nil {
		return "", err
	}
	add(fromSQL)

	whereSQL, err := qb.buildWhere(schemas, q.where, q.match, params)
	if err != nil {
		return "", err
	}
	add(whereSQL)

	add(qb.buildGroupBy(q.groupBy))
	add(qb.buildWithinGroupOrderBy(q.withinGroup))

	havingSQL, err := qb.buildHaving(schemas, q.having, params)
	if err != nil {
		return "", err
	}
	add(havingSQL)

	add(qb.buildOrderBy(q.orderBy))
	add(qb.buildLimit(q.limit, q.offset))
	add(qb.buildOption(q.options, params))

	facetSQL, err := qb.buildFacets(q.facets, params)
	if err != nil {
		return "", err
	}
	add(facetSQL)

	return strings.Join(clauses, qb.sep()), nil
}

func (qb *QueryBuilder) sep() string {
	if qb.Separator == "" {
		return " "
	}
	return qb.Separator
}

// collectIndexNames extracts the plain index names of a FROM list, in
// order and deduplicated. Sub-queries and raw fragments contribute none.
func collectIndexNames(from []any) []string {
	names := make([]string, 0, len(from))
	seen := make(map[string]bool, len(from))
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	for _, entry := range from {
		switch e := entry.(type) {
		case string:
			if strings.Contains(e, "(") {
				continue
			}
			if m := aliasedEntry.FindStringSubmatch(e); m != nil {
				add(m[1])
			} else {
				add(e)
			}
		case Aliased:
			if s, ok := e.Expr.(string); ok && !strings.Contains(s, "(") {
				add(s)
			}
		}
	}
	return names
}

// buildSelect renders the field list, or a bare * when none was given.
func (qb *QueryBuilder) buildSelect(fields []any, distinct bool, selectOption string, params Params) (string, error) {
	prefix := "SELECT"
	if distinct {
		prefix = "SELECT DISTINCT"
	}
	if selectOption != "" {
		prefix += " " + selectOption
	}
	if len(fields) == 0 {
		return prefix + " *", nil
	}
	rendered, err := qb.buildSelectFields(fields, params)
	if err != nil {
		return "", err
	}
	return prefix + " " + rendered, nil
}

// buildSelectFields renders select entries for SELECT and FACET clauses.
// Plain strings split on a trailing alias; strings containing parentheses
// pass through untouched.
func (qb *QueryBuilder) buildSelectFields(fields []any, params Params) (string, error) {
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		switch f := field.(type) {
		case string:
			if strings.Contains(f, "(") {
				parts = append(parts, f)
			} else if m := aliasedEntry.FindStringSubmatch(f); m != nil {
				parts = append(parts, m[1]+" AS "+m[2])
			} else {
				parts = append(parts, f)
			}
		case *Expr:
			params.merge(f.Params)
			parts = append(parts, f.Fragment)
		case Aliased:
			base, err := qb.aliasBase(f.Expr, params)
			if err != nil {
				return "", err
			}
			parts = append(parts, base+" AS "+f.Alias)
		default:
			return "", fmt.Errorf("unsupported select field type %T", field)
		}
	}
	return strings.Join(parts, ", "), nil
}

// aliasBase renders the expression side of an Aliased entry.
func (qb *QueryBuilder) aliasBase(expr any, params Params) (string, error) {
	switch e := expr.(type) {
	case string:
		return e, nil
	case *Expr:
		params.merge(e.Params)
		return e.Fragment, nil
	case *Query:
		sql, err := qb.buildQuery(e, params)
		if err != nil {
			return "", err
		}
		return "(" + sql + ")", nil
	}
	return "", fmt.Errorf("unsupported aliased expression type %T", expr)
}

// buildFrom renders the index list. Sub-queries compile recursively and
// always carry an alias, the given one or a positional fallback.
func (qb *QueryBuilder) buildFrom(from []any, params Params) (string, error) {
	if len(from) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(from))
	for i, entry := range from {
		switch e := entry.(type) {
		case string:
			if strings.Contains(e, "(") {
				parts = append(parts, e)
			} else if m := aliasedEntry.FindStringSubmatch(e); m != nil {
				parts = append(parts, m[1]+" "+m[2])
			} else {
				parts = append(parts, e)
			}
		case *Expr:
			params.merge(e.Params)
			parts = append(parts, e.Fragment)
		case *Query:
			sql, err := qb.buildQuery(e, params)
			if err != nil {
				return "", err
			}
			parts = append(parts, "("+sql+") sub"+strconv.Itoa(i))
		case Aliased:
			base, err := qb.aliasBase(e.Expr, params)
			if err != nil {
				return "", err
			}
			parts = append(parts, base+" "+e.Alias)
		default:
			return "", fmt.Errorf("unsupported FROM entry type %T", entry)
		}
	}
	return "FROM " + strings.Join(parts, ", "), nil
}

// buildWhere renders the WHERE clause, folding a full-text MATCH into the
// attribute condition with AND when both are present. The match value binds
// first, so its placeholder numbering precedes the condition's.
func (qb *QueryBuilder) buildWhere(schemas []*IndexSchema, condition, match any, params Params) (string, error) {
	matchSQL, err := qb.buildMatch(match, params)
	if err != nil {
		return "", err
	}
	condSQL, err := qb.buildCondition(schemas, condition, params)
	if err != nil {
		return "", err
	}
	switch {
	case matchSQL == "" && condSQL == "":
		return "", nil
	case condSQL == "":
		return "WHERE " + matchSQL, nil
	case matchSQL == "":
		return "WHERE " + condSQL, nil
	}
	return "WHERE (" + matchSQL + ") AND (" + condSQL + ")", nil
}

// buildMatch renders the MATCH() member. Plain strings and match
// expressions bind their escaped text as one parameter; raw expressions
// inline their fragment between the parentheses.
func (qb *QueryBuilder) buildMatch(match any, params Params) (string, error) {
	switch m := match.(type) {
	case nil:
		return "", nil
	case string:
		return "MATCH(" + params.bind(EscapeMatch(m)) + ")", nil
	case *MatchExpr:
		return "MATCH(" + params.bind(m.String()) + ")", nil
	case *Expr:
		params.merge(m.Params)
		return "MATCH(" + m.Fragment + ")", nil
	}
	return "", fmt.Errorf("unsupported match type %T", match)
}

func (qb *QueryBuilder) buildHaving(schemas []*IndexSchema, condition any, params Params) (string, error) {
	sql, err := qb.buildCondition(schemas, condition, params)
	if err != nil || sql == "" {
		return "", err
	}
	return "HAVING " + sql, nil
}

func (qb *QueryBuilder) buildGroupBy(columns []string) string {
	if len(columns) == 0 {
		return ""
	}
	return "GROUP BY " + strings.Join(columns, ", ")
}

// parseOrderSpec splits "column [ASC|DESC]". Anything except a trailing
// direction keyword counts as part of the column expression.
func parseOrderSpec(spec string) (column string, desc bool) {
	trimmed := strings.TrimSpace(spec)
	if i := strings.LastIndexByte(trimmed, ' '); i >= 0 {
		switch strings.ToUpper(trimmed[i+1:]) {
		case "DESC":
			return strings.TrimSpace(trimmed[:i]), true
		case "ASC":
			return strings.TrimSpace(trimmed[:i]), false
		}
	}
	return trimmed, false
}

// buildOrderBy renders ORDER BY with an explicit direction keyword on
// every column.
func (qb *QueryBuilder) buildOrderBy(specs []string) string {
	if len(specs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(specs))
	for _, spec := range specs {
		column, desc := parseOrderSpec(spec)
		if desc {
			parts = append(parts, column+" DESC")
		} else {
			parts = append(parts, column+" ASC")
		}
	}
	return "ORDER BY " + strings.Join(parts, ", ")
}

// buildWithinGroupOrderBy renders the intra-group ordering. The default
// direction stays implicit here; only DESC is spelled out.
func (qb *QueryBuilder) buildWithinGroupOrderBy(specs []string) string {
	if len(specs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(specs))
	for _, spec := range specs {
		column, desc := parseOrderSpec(spec)
		if desc {
			parts = append(parts, column+" DESC")
		} else {
			parts = append(parts, column)
		}
	}
	return "WITHIN GROUP ORDER BY " + strings.Join(parts, ", ")
}

// buildLimit renders LIMIT in the offset,limit form. An offset without a
// limit gets defaultPageLimit; a negative limit or non-positive offset
// counts as unset.
func (qb *QueryBuilder) buildLimit(limit, offset *int) string {
	hasLimit := limit != nil && *limit >= 0
	hasOffset := offset != nil && *offset > 0
	switch {
	case hasOffset:
		sql := "LIMIT " + strconv.Itoa(*offset) + ","
		if hasLimit {
			return sql + strconv.Itoa(*limit)
		}
		return sql + strconv.Itoa(defaultPageLimit)
	case hasLimit:
		return "LIMIT " + strconv.Itoa(*limit)
	}
	return ""
}

// buildOption renders the OPTION clause with names in sorted order. Scalar
// values bind as parameters; nested lists and maps render inline, the
// dialect's named-list option syntax; raw expressions inline their
// fragment.
func (qb *QueryBuilder) buildOption(options map[string]any, params Params) string {
	if len(options) == 0 {
		return ""
	}
	parts := make([]string, 0, len(options))
	for _, name := range sortedKeys(options) {
		value := options[name]
		var rendered string
		switch v := value.(type) {
		case *Expr:
			params.merge(v.Params)
			rendered = v.Fragment
		case map[string]any:
			inner := make([]string, 0, len(v))
			for _, k := range sortedKeys(v) {
				inner = append(inner, k+" = "+fmt.Sprint(v[k]))
			}
			rendered = "(" + strings.Join(inner, ", ") + ")"
		default:
			if list, ok := asSlice(value); ok {
				inner := make([]string, 0, len(list))
				for _, el := range list {
					inner = append(inner, fmt.Sprint(el))
				}
				rendered = "(" + strings.Join(inner, ", ") + ")"
			} else {
				rendered = composeValue(nil, name, value, params)
			}
		}
		parts = append(parts, name+" = "+rendered)
	}
	return "OPTION " + strings.Join(parts, ", ")
}

// buildFacets renders the trailing FACET clauses. A facet with neither a
// name nor an explicit select list selects nothing and fails with
// ErrInvalidFacet.
func (qb *QueryBuilder) buildFacets(facets []*Facet, params Params) (string, error) {
	if len(facets) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(facets))
	for _, facet := range facets {
		if facet == nil || (facet.name == "" && len(facet.sel) == 0) {
			return "", fmt.Errorf("facet needs a name or a select list: %w", ErrInvalidFacet)
		}
		fields := facet.sel
		if len(fields) == 0 {
			fields = []any{facet.name}
		}
		rendered, err := qb.buildSelectFields(fields, params)
		if err != nil {
			return "", err
		}
		sql := "FACET " + rendered
		if len(facet.order) > 0 {
			sql += " " + qb.buildWithinGroupOrderBy(facet.order)
		}
		if limitSQL := qb.buildLimit(facet.limit, facet.offset); limitSQL != "" {
			sql += " " + limitSQL
		}
		parts = append(parts, sql)
	}
	return strings.Join(parts, qb.sep()), nil
}

// buildShowMeta renders the trailing SHOW META statement. String patterns
// go through the LIKE escape table and bind wrapped in percent signs.
func (qb *QueryBuilder) buildShowMeta(value any, params Params) string {
	switch v := value.(type) {
	case bool:
		if v {
			return "SHOW META"
		}
	case string:
		if v != "" {
			return "SHOW META LIKE " + params.bind("%"+escapeLike(v, defaultLikeEscape)+"%")
		}
	case *Expr:
		params.merge(v.Params)
		return "SHOW META LIKE " + v.Fragment
	}
	return ""
}

// sortedKeys returns the keys of m sorted, the package's answer to map
// iteration order wherever SQL text is assembled.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
