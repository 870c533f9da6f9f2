package sphinxql

import (
	"fmt"
	"strings"
)

// buildCondition compiles a condition tree. Trees come in two forms. The
// hash form maps columns to values, all pairs joined by AND:
//
//	map[string]any{"status": 1, "category_id": []int{2, 3}}
//
// A slice value becomes an IN test and nil becomes IS NULL. The operator
// form is a slice whose first element names the operator:
//
//	[]any{"AND", cond1, cond2}
//	[]any{"BETWEEN", "price", 10, 100}
//	[]any{"NOT IN", "category_id", []int{2, 3}}
//	[]any{"LIKE", "title", "go"}
//	[]any{">=", "updated_at", 1700000000}
//
// Operators the compiler does not recognize fall back to a generic binary
// comparison with the keyword emitted as written. Strings pass through
// verbatim and raw expressions inline their fragment.
func (qb *QueryBuilder) buildCondition(schemas []*IndexSchema, condition any, params Params) (string, error) {
	switch c := condition.(type) {
	case nil:
		return "", nil
	case string:
		return c, nil
	case *Expr:
		params.merge(c.Params)
		return c.Fragment, nil
	case map[string]any:
		return qb.buildHashCondition(schemas, c, params)
	case []any:
		if len(c) == 0 {
			return "", nil
		}
		operator, ok := c[0].(string)
		if !ok {
			return "", fmt.Errorf("condition operator must be a string, got %T", c[0])
		}
		return qb.buildOperatorCondition(schemas, strings.ToUpper(operator), c[1:], params)
	}
	return fmt.Sprint(condition), nil
}

func (qb *QueryBuilder) buildOperatorCondition(schemas []*IndexSchema, operator string, operands []any, params Params) (string, error) {
	switch operator {
	case "AND", "OR":
		return qb.buildAndCondition(schemas, operator, operands, params)
	case "NOT":
		return qb.buildNotCondition(schemas, operator, operands, params)
	case "BETWEEN", "NOT BETWEEN":
		return qb.buildBetweenCondition(schemas, operator, operands, params)
	case "IN", "NOT IN":
		return qb.buildInCondition(schemas, operator, operands, params)
	case "LIKE", "NOT LIKE", "OR LIKE", "OR NOT LIKE":
		return qb.buildLikeCondition(schemas, operator, operands, params)
	}
	return qb.buildSimpleCondition(schemas, operator, operands, params)
}

// buildHashCondition renders a column-to-value map. Columns compile in
// sorted order so the same map always yields the same SQL.
func (qb *QueryBuilder) buildHashCondition(schemas []*IndexSchema, condition map[string]any, params Params) (string, error) {
	parts := make([]string, 0, len(condition))
	for _, column := range sortedKeys(condition) {
		value := condition[column]

		_, isQuery := value.(*Query)
		_, isList := asSlice(value)
		if isQuery || isList {
			part, err := qb.buildInCondition(schemas, "IN", []any{column, value}, params)
			if err != nil {
				return "", err
			}
			parts = append(parts, part)
			continue
		}
		if value == nil {
			parts = append(parts, column+" IS NULL")
			continue
		}
		parts = append(parts, column+"="+composeValue(schemas, column, value, params))
	}
	switch len(parts) {
	case 0:
		return "", nil
	case 1:
		return parts[0], nil
	}
	return "(" + strings.Join(parts, ") AND (") + ")", nil
}

// buildAndCondition joins the compiled operands with AND or OR, each in
// parentheses. Operands that compile to nothing are dropped.
func (qb *QueryBuilder) buildAndCondition(schemas []*IndexSchema, operator string, operands []any, params Params) (string, error) {
	parts := make([]string, 0, len(operands))
	for _, operand := range operands {
		part, err := qb.buildCondition(schemas, operand, params)
		if err != nil {
			return "", err
		}
		if part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return "", nil
	}
	return "(" + strings.Join(parts, ") "+operator+" (") + ")", nil
}

func (qb *QueryBuilder) buildNotCondition(schemas []*IndexSchema, operator string, operands []any, params Params) (string, error) {
	if len(operands) != 1 {
		return "", operandCountError(operator, "exactly one operand", len(operands))
	}
	operand, err := qb.buildCondition(schemas, operands[0], params)
	if err != nil {
		return "", err
	}
	if operand == "" {
		return "", nil
	}
	return operator + " (" + operand + ")", nil
}

func (qb *QueryBuilder) buildBetweenCondition(schemas []*IndexSchema, operator string, operands []any, params Params) (string, error) {
	if len(operands) != 3 {
		return "", operandCountError(operator, "exactly three operands", len(operands))
	}
	column, ok := operands[0].(string)
	if !ok {
		return "", fmt.Errorf("%s column must be a string, got %T", operator, operands[0])
	}
	low := composeValue(schemas, column, operands[1], params)
	high := composeValue(schemas, column, operands[2], params)
	return column + " " + operator + " " + low + " AND " + high, nil
}

// buildInCondition renders membership tests. An empty column spec or value
// list short-circuits: IN can never match, so it becomes the false literal,
// and NOT IN excludes nothing, so it vanishes. A single resolved value
// collapses to plain equality.
func (qb *QueryBuilder) buildInCondition(schemas []*IndexSchema, operator string, operands []any, params Params) (string, error) {
	if len(operands) != 2 {
		return "", operandCountError(operator, "exactly two operands", len(operands))
	}

	var columns []string
	switch c := operands[0].(type) {
	case string:
		if c != "" {
			columns = []string{c}
		}
	case []string:
		columns = c
	default:
		return "", fmt.Errorf("%s column must be a string or []string, got %T", operator, operands[0])
	}
	if len(columns) == 0 {
		return emptyInResult(operator), nil
	}

	values := operands[1]
	if sub, ok := values.(*Query); ok {
		sql, err := qb.buildQuery(sub, params)
		if err != nil {
			return "", err
		}
		return "(" + strings.Join(columns, ", ") + ") " + operator + " (" + sql + ")", nil
	}

	list, ok := asSlice(values)
	if !ok && values != nil {
		list = []any{values}
	}
	if len(list) == 0 {
		return emptyInResult(operator), nil
	}
	if len(columns) > 1 {
		return qb.buildCompositeInCondition(schemas, operator, columns, list, params)
	}
	column := columns[0]

	parts := make([]string, 0, len(list))
	for _, value := range list {
		if row, isRow := value.(map[string]any); isRow {
			value = row[column]
		}
		switch v := value.(type) {
		case nil:
			parts = append(parts, "NULL")
		case *Expr:
			params.merge(v.Params)
			parts = append(parts, v.Fragment)
		default:
			parts = append(parts, params.bind(typecastValue(schemas, column, v)))
		}
	}

	if len(parts) > 1 {
		return column + " " + operator + " (" + strings.Join(parts, ", ") + ")", nil
	}
	if operator == "IN" {
		return column + "=" + parts[0], nil
	}
	return column + "<>" + parts[0], nil
}

func emptyInResult(operator string) string {
	if operator == "IN" {
		return "0=1"
	}
	return ""
}

// buildCompositeInCondition renders multi-column membership over rows of
// keyed maps. Columns a row leaves unset compare against NULL.
func (qb *QueryBuilder) buildCompositeInCondition(schemas []*IndexSchema, operator string, columns []string, values []any, params Params) (string, error) {
	rows := make([]string, 0, len(values))
	for _, value := range values {
		row, ok := value.(map[string]any)
		if !ok {
			return "", fmt.Errorf("composite %s values must be map[string]any rows, got %T", operator, value)
		}
		parts := make([]string, 0, len(columns))
		for _, column := range columns {
			parts = append(parts, composeValue(schemas, column, row[column], params))
		}
		rows = append(rows, "("+strings.Join(parts, ", ")+")")
	}
	return "(" + strings.Join(columns, ", ") + ") " + operator + " (" + strings.Join(rows, ", ") + ")", nil
}

// buildLikeCondition renders the LIKE family. Plain values pass through the
// escape table and bind wrapped in percent signs; a third operand replaces
// the table, and false or nil disables escaping and wrapping entirely.
func (qb *QueryBuilder) buildLikeCondition(schemas []*IndexSchema, operator string, operands []any, params Params) (string, error) {
	if len(operands) < 2 {
		return "", operandCountError(operator, "at least two operands", len(operands))
	}

	escape := defaultLikeEscape
	if len(operands) > 2 {
		switch esc := operands[2].(type) {
		case nil:
			escape = nil
		case bool:
			if !esc {
				escape = nil
			}
		case map[string]string:
			escape = esc
		default:
			return "", fmt.Errorf("%s escape must be a map[string]string or false, got %T", operator, operands[2])
		}
	}

	joiner := " AND "
	if strings.HasPrefix(operator, "OR ") {
		joiner = " OR "
		operator = strings.TrimPrefix(operator, "OR ")
	}
	negative := strings.HasPrefix(operator, "NOT")

	column, ok := operands[0].(string)
	if !ok {
		return "", fmt.Errorf("%s column must be a string, got %T", operator, operands[0])
	}

	list, isList := asSlice(operands[1])
	if !isList && operands[1] != nil {
		list = []any{operands[1]}
	}
	if len(list) == 0 {
		if negative {
			return "", nil
		}
		return "0=1", nil
	}

	parts := make([]string, 0, len(list))
	for _, value := range list {
		var operand string
		if e, isRaw := value.(*Expr); isRaw {
			params.merge(e.Params)
			operand = e.Fragment
		} else if len(escape) == 0 {
			operand = params.bind(value)
		} else {
			s, isStr := toStringValue(value)
			if !isStr {
				s = fmt.Sprint(value)
			}
			operand = params.bind("%" + escapeLike(s, escape) + "%")
		}
		parts = append(parts, column+" "+operator+" "+operand)
	}
	return strings.Join(parts, joiner), nil
}

// buildSimpleCondition renders a binary comparison with the operator
// emitted exactly as written in the condition.
func (qb *QueryBuilder) buildSimpleCondition(schemas []*IndexSchema, operator string, operands []any, params Params) (string, error) {
	if len(operands) != 2 {
		return "", operandCountError(operator, "exactly two operands", len(operands))
	}
	column, ok := operands[0].(string)
	if !ok {
		return "", fmt.Errorf("%s column must be a string, got %T", operator, operands[0])
	}
	if operands[1] == nil {
		return column + " " + operator + " NULL", nil
	}
	return column + " " + operator + " " + composeValue(schemas, column, operands[1], params), nil
}
