package sphinxql

import (
	"strconv"
	"strings"
	"time"

	"github.com/zoobzio/dbml"
)

// ColumnType enumerates the attribute types the engine distinguishes.
// The builder uses it to coerce bound values toward the declared type.
type ColumnType string

const (
	TypeUint      ColumnType = "uint"
	TypeBool      ColumnType = "bool"
	TypeBigint    ColumnType = "bigint"
	TypeTimestamp ColumnType = "timestamp"
	TypeFloat     ColumnType = "float"
	TypeString    ColumnType = "string"
	TypeJSON      ColumnType = "json"
	TypeMVA       ColumnType = "mva"
	TypeMVA64     ColumnType = "mva64"
	TypeField     ColumnType = "field"
)

// Typecast coerces v toward the column type. Coercion is total: a value
// that does not convert is returned unchanged and bound as given.
func (t ColumnType) Typecast(v any) any {
	if v == nil {
		return nil
	}
	switch t {
	case TypeUint, TypeBigint, TypeMVA, TypeMVA64:
		if n, ok := toInt64(v); ok {
			return n
		}
	case TypeTimestamp:
		if ts, ok := v.(time.Time); ok {
			return ts.Unix()
		}
		if n, ok := toInt64(v); ok {
			return n
		}
	case TypeBool:
		if b, ok := toBool(v); ok {
			if b {
				return 1
			}
			return 0
		}
	case TypeFloat:
		if f, ok := toFloat64(v); ok {
			return f
		}
	case TypeString, TypeJSON, TypeField:
		if s, ok := toStringValue(v); ok {
			return s
		}
	}
	return v
}

// Column describes one attribute or full-text field of an index.
type Column struct {
	Name string
	Type ColumnType
}

// IndexSchema describes the columns of a single index.
type IndexSchema struct {
	Name    string
	Columns []Column

	byName map[string]int
}

// NewIndexSchema builds a schema with a column lookup table.
func NewIndexSchema(name string, columns ...Column) *IndexSchema {
	s := &IndexSchema{
		Name:    name,
		Columns: columns,
		byName:  make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		s.byName[c.Name] = i
	}
	return s
}

// Column returns the named column, reporting whether the schema has it.
func (s *IndexSchema) Column(name string) (Column, bool) {
	if s.byName != nil {
		if i, ok := s.byName[name]; ok {
			return s.Columns[i], true
		}
		return Column{}, false
	}
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// SchemaProvider resolves index names to schemas at build time. Both a nil
// provider and a nil result are tolerated; affected columns simply skip
// coercion.
type SchemaProvider interface {
	IndexSchema(name string) *IndexSchema
}

// SchemaSet is an in-memory SchemaProvider keyed by index name.
type SchemaSet map[string]*IndexSchema

func (s SchemaSet) IndexSchema(name string) *IndexSchema {
	return s[name]
}

// FromDBML maps each table of a DBML project to an index schema. Integer,
// boolean, timestamp, float, JSON and multi-value column types map to their
// engine counterparts; text maps to a full-text field and everything else to
// a string attribute.
func FromDBML(project *dbml.Project) SchemaSet {
	set := SchemaSet{}
	if project == nil {
		return set
	}
	for _, table := range project.Tables {
		cols := make([]Column, 0, len(table.Columns))
		for _, col := range table.Columns {
			cols = append(cols, Column{Name: col.Name, Type: columnTypeOf(col.Type)})
		}
		set[table.Name] = NewIndexSchema(table.Name, cols...)
	}
	return set
}

func columnTypeOf(dbType string) ColumnType {
	switch strings.ToLower(dbType) {
	case "int", "integer", "uint", "smallint", "tinyint":
		return TypeUint
	case "bigint":
		return TypeBigint
	case "bool", "boolean":
		return TypeBool
	case "timestamp", "datetime", "date":
		return TypeTimestamp
	case "float", "double", "real", "decimal", "numeric":
		return TypeFloat
	case "json", "jsonb":
		return TypeJSON
	case "multi", "mva":
		return TypeMVA
	case "multi64", "mva64":
		return TypeMVA64
	case "text", "field":
		return TypeField
	default:
		return TypeString
	}
}

// resolveSchemas looks up every index the query touches, keeping FROM order
// so that column lookups resolve first match wins.
func resolveSchemas(provider SchemaProvider, indexes []string) []*IndexSchema {
	if provider == nil {
		return nil
	}
	schemas := make([]*IndexSchema, 0, len(indexes))
	for _, name := range indexes {
		if s := provider.IndexSchema(name); s != nil {
			schemas = append(schemas, s)
		}
	}
	return schemas
}

// typecastValue coerces v using the first schema that knows the column.
// Unknown columns pass through untouched.
func typecastValue(schemas []*IndexSchema, column string, v any) any {
	for _, s := range schemas {
		if c, ok := s.Column(column); ok {
			return c.Type.Typecast(v)
		}
	}
	return v
}

func toInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint:
		return int64(x), true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		return int64(x), true
	case float32:
		return int64(x), true
	case float64:
		return int64(x), true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case string:
		n, err := strconv.ParseInt(x, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

func toFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float32:
		return float64(x), true
	case float64:
		return x, true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func toBool(v any) (bool, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case string:
		b, err := strconv.ParseBool(x)
		if err != nil {
			return false, false
		}
		return b, true
	}
	if n, ok := toInt64(v); ok {
		return n != 0, true
	}
	return false, false
}

func toStringValue(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case []byte:
		return string(x), true
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case uint64:
		return strconv.FormatUint(x, 10), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), true
	}
	return "", false
}
