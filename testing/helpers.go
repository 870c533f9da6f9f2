// Package testing provides test utilities for sphinxql.
package testing

import (
	"strings"
	"testing"

	"github.com/gosphinx/sphinxql"
	"github.com/zoobzio/dbml"
)

// TestSchemas creates a fully-featured schema set for testing.
// Includes article, comment, and product indexes.
func TestSchemas(t *testing.T) sphinxql.SchemaSet {
	t.Helper()

	project := dbml.NewProject("test")

	// Article index
	article := dbml.NewTable("idx_article")
	article.AddColumn(dbml.NewColumn("id", "bigint"))
	article.AddColumn(dbml.NewColumn("title", "text"))
	article.AddColumn(dbml.NewColumn("body", "text"))
	article.AddColumn(dbml.NewColumn("author_id", "int"))
	article.AddColumn(dbml.NewColumn("status", "int"))
	article.AddColumn(dbml.NewColumn("price", "float"))
	article.AddColumn(dbml.NewColumn("active", "bool"))
	article.AddColumn(dbml.NewColumn("created_at", "timestamp"))
	article.AddColumn(dbml.NewColumn("meta", "json"))
	article.AddColumn(dbml.NewColumn("category_ids", "multi"))
	article.AddColumn(dbml.NewColumn("ref_ids", "multi64"))
	project.AddTable(article)

	// Comment index
	comment := dbml.NewTable("idx_comment")
	comment.AddColumn(dbml.NewColumn("id", "bigint"))
	comment.AddColumn(dbml.NewColumn("article_id", "bigint"))
	comment.AddColumn(dbml.NewColumn("body", "text"))
	comment.AddColumn(dbml.NewColumn("status", "string"))
	comment.AddColumn(dbml.NewColumn("created_at", "timestamp"))
	project.AddTable(comment)

	// Product index
	product := dbml.NewTable("idx_product")
	product.AddColumn(dbml.NewColumn("id", "bigint"))
	product.AddColumn(dbml.NewColumn("name", "text"))
	product.AddColumn(dbml.NewColumn("price", "float"))
	product.AddColumn(dbml.NewColumn("category_id", "int"))
	product.AddColumn(dbml.NewColumn("stock", "int"))
	project.AddTable(product)

	return sphinxql.FromDBML(project)
}

// TestBuilder creates a QueryBuilder backed by TestSchemas.
func TestBuilder(t *testing.T) *sphinxql.QueryBuilder {
	t.Helper()
	return sphinxql.NewQueryBuilder(TestSchemas(t))
}

// AssertSQL compares expected and actual SQL, reporting detailed differences.
func AssertSQL(t *testing.T, expected, actual string) {
	t.Helper()
	if expected != actual {
		t.Errorf("SQL mismatch:\nExpected: %s\nActual:   %s", expected, actual)
	}
}

// AssertParams checks that exactly the expected parameter names were bound.
func AssertParams(t *testing.T, expected []string, actual sphinxql.Params) {
	t.Helper()
	if len(expected) != len(actual) {
		t.Errorf("Param count mismatch: expected %d, got %d\nExpected: %v\nActual: %v",
			len(expected), len(actual), expected, actual)
		return
	}

	for _, name := range expected {
		if _, ok := actual[name]; !ok {
			t.Errorf("Expected param %q not bound\nActual: %v", name, actual)
		}
	}
}

// AssertContainsParam checks that a specific param was bound.
func AssertContainsParam(t *testing.T, params sphinxql.Params, name string) {
	t.Helper()
	if _, ok := params[name]; !ok {
		t.Errorf("Expected param %q not found in %v", name, params)
	}
}

// AssertParamValue checks that a param was bound with a specific value.
func AssertParamValue(t *testing.T, params sphinxql.Params, name string, value any) {
	t.Helper()
	got, ok := params[name]
	if !ok {
		t.Errorf("Expected param %q not found in %v", name, params)
		return
	}
	if got != value {
		t.Errorf("Param %q = %v (%T), want %v (%T)", name, got, got, value, value)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("Expected error but got nil")
	}
}

// AssertErrorContains checks that error message contains substring.
func AssertErrorContains(t *testing.T, err error, substr string) {
	t.Helper()
	if err == nil {
		t.Fatalf("Expected error containing %q but got nil", substr)
	}
	if !strings.Contains(err.Error(), substr) {
		t.Errorf("Expected error containing %q, got: %v", substr, err)
	}
}
