package sphinxql

import (
	"fmt"
	"strings"
)

// Insert compiles a single-row INSERT. Columns render in sorted order and
// every value binds through the index schema when the provider knows one.
func (qb *QueryBuilder) Insert(index string, columns map[string]any) (string, Params, error) {
	return qb.insertRow("INSERT", index, columns)
}

// Replace compiles the engine's REPLACE form, which overwrites the row
// carrying the same document id.
func (qb *QueryBuilder) Replace(index string, columns map[string]any) (string, Params, error) {
	return qb.insertRow("REPLACE", index, columns)
}

func (qb *QueryBuilder) insertRow(verb, index string, columns map[string]any) (string, Params, error) {
	params := Params{}
	schemas := resolveSchemas(qb.provider, []string{index})

	names := sortedKeys(columns)
	values := make([]string, 0, len(names))
	for _, name := range names {
		values = append(values, composeValue(schemas, name, columns[name], params))
	}
	sql := verb + " INTO " + index +
		" (" + strings.Join(names, ", ") + ") VALUES (" + strings.Join(values, ", ") + ")"
	return sql, params, nil
}

// BatchInsert compiles a multi-row INSERT. Column order follows the given
// slice and every row must match its length.
func (qb *QueryBuilder) BatchInsert(index string, columns []string, rows [][]any) (string, Params, error) {
	return qb.insertRows("INSERT", index, columns, rows)
}

// BatchReplace is BatchInsert with REPLACE semantics.
func (qb *QueryBuilder) BatchReplace(index string, columns []string, rows [][]any) (string, Params, error) {
	return qb.insertRows("REPLACE", index, columns, rows)
}

func (qb *QueryBuilder) insertRows(verb, index string, columns []string, rows [][]any) (string, Params, error) {
	params := Params{}
	schemas := resolveSchemas(qb.provider, []string{index})

	tuples := make([]string, 0, len(rows))
	for i, row := range rows {
		if len(row) != len(columns) {
			return "", nil, fmt.Errorf("row %d has %d values, want %d", i, len(row), len(columns))
		}
		values := make([]string, 0, len(row))
		for j, value := range row {
			values = append(values, composeValue(schemas, columns[j], value, params))
		}
		tuples = append(tuples, "("+strings.Join(values, ", ")+")")
	}
	sql := verb + " INTO " + index +
		" (" + strings.Join(columns, ", ") + ") VALUES " + strings.Join(tuples, ", ")
	return sql, params, nil
}

// Update compiles UPDATE ... SET with an optional condition and OPTION
// map. Hand-bound params merge in ahead of generated ones, so generated
// numbering starts after them.
func (qb *QueryBuilder) Update(index string, columns map[string]any, condition any, options map[string]any, params Params) (string, Params, error) {
	merged := Params{}
	merged.merge(params)
	schemas := resolveSchemas(qb.provider, []string{index})

	names := sortedKeys(columns)
	sets := make([]string, 0, len(names))
	for _, name := range names {
		sets = append(sets, name+"="+composeValue(schemas, name, columns[name], merged))
	}
	sql := "UPDATE " + index + " SET " + strings.Join(sets, ", ")

	condSQL, err := qb.buildCondition(schemas, condition, merged)
	if err != nil {
		return "", nil, err
	}
	if condSQL != "" {
		sql += " WHERE " + condSQL
	}
	if optionSQL := qb.buildOption(options, merged); optionSQL != "" {
		sql += " " + optionSQL
	}
	return sql, merged, nil
}

// Delete compiles DELETE FROM with an optional condition.
func (qb *QueryBuilder) Delete(index string, condition any, params Params) (string, Params, error) {
	merged := Params{}
	merged.merge(params)
	schemas := resolveSchemas(qb.provider, []string{index})

	condSQL, err := qb.buildCondition(schemas, condition, merged)
	if err != nil {
		return "", nil, err
	}
	sql := "DELETE FROM " + index
	if condSQL != "" {
		sql += " WHERE " + condSQL
	}
	return sql, merged, nil
}

// TruncateIndex compiles the RT index truncate statement.
func (qb *QueryBuilder) TruncateIndex(index string) (string, error) {
	return "TRUNCATE RTINDEX " + index, nil
}

// CallSnippets compiles the excerpt-building call. The source text or
// texts, the index name and the match query all bind as parameters; option
// values do too unless they are raw expressions, and options render in
// sorted order as value AS name.
func (qb *QueryBuilder) CallSnippets(index string, source any, match string, options map[string]any) (string, Params, error) {
	params := Params{}

	var dataSQL string
	if list, ok := asSlice(source); ok {
		parts := make([]string, 0, len(list))
		for _, row := range list {
			parts = append(parts, params.bind(row))
		}
		dataSQL = "(" + strings.Join(parts, ", ") + ")"
	} else {
		dataSQL = params.bind(source)
	}

	args := []string{dataSQL, params.bind(index), params.bind(match)}
	for _, name := range sortedKeys(options) {
		value := options[name]
		var rendered string
		if e, ok := value.(*Expr); ok {
			params.merge(e.Params)
			rendered = e.Fragment
		} else {
			rendered = params.bind(value)
		}
		args = append(args, rendered+" AS "+name)
	}
	return "CALL SNIPPETS(" + strings.Join(args, ", ") + ")", params, nil
}

// CallKeywords compiles the keyword-tokenizing call. The statistics flag
// appends the literal third argument the engine expects.
func (qb *QueryBuilder) CallKeywords(index, text string, fetchStatistic bool) (string, Params, error) {
	params := Params{}
	sql := "CALL KEYWORDS(" + params.bind(text) + ", " + params.bind(index)
	if fetchStatistic {
		sql += ", 1"
	}
	return sql + ")", params, nil
}

// Upsert always returns ErrNotSupported; the engine's REPLACE covers the
// insert-or-update case.
func (qb *QueryBuilder) Upsert(index string, insertColumns map[string]any, updateColumns any) (string, Params, error) {
	return "", nil, fmt.Errorf("upsert: %w", ErrNotSupported)
}

// ResetSequence always returns ErrNotSupported; document ids are supplied
// by the caller, not a sequence.
func (qb *QueryBuilder) ResetSequence(index string, value any) (string, error) {
	return "", fmt.Errorf("reset sequence: %w", ErrNotSupported)
}
