package sphinxql

import (
	"testing"

	"github.com/zoobzio/dbml"
)

// testSchemas builds the schema set used across the package tests: an
// article index with the full spread of attribute types and a comment
// index that shadows a couple of article columns.
func testSchemas(t *testing.T) SchemaSet {
	t.Helper()

	project := dbml.NewProject("search")

	articles := dbml.NewTable("idx_article")
	articles.AddColumn(dbml.NewColumn("id", "bigint"))
	articles.AddColumn(dbml.NewColumn("author_id", "int"))
	articles.AddColumn(dbml.NewColumn("status", "int"))
	articles.AddColumn(dbml.NewColumn("price", "float"))
	articles.AddColumn(dbml.NewColumn("active", "boolean"))
	articles.AddColumn(dbml.NewColumn("created_at", "timestamp"))
	articles.AddColumn(dbml.NewColumn("meta", "json"))
	articles.AddColumn(dbml.NewColumn("category_ids", "multi"))
	articles.AddColumn(dbml.NewColumn("ref_ids", "multi64"))
	articles.AddColumn(dbml.NewColumn("title", "text"))
	articles.AddColumn(dbml.NewColumn("slug", "varchar"))
	project.AddTable(articles)

	comments := dbml.NewTable("idx_comment")
	comments.AddColumn(dbml.NewColumn("id", "bigint"))
	comments.AddColumn(dbml.NewColumn("status", "varchar"))
	comments.AddColumn(dbml.NewColumn("body", "text"))
	project.AddTable(comments)

	return FromDBML(project)
}
