package sphinxql

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func intp(n int) *int {
	return &n
}

func TestBuildEndToEnd(t *testing.T) {
	qb := NewQueryBuilder(nil)

	q := NewQuery().
		From("idx_article").
		Match("hello world").
		Limit(10).
		Offset(0)

	sql, params, err := qb.Build(q)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if want := "SELECT * FROM idx_article WHERE MATCH(:qp0) LIMIT 10"; sql != want {
		t.Errorf("SQL mismatch:\n got:  %q\n want: %q", sql, want)
	}
	if diff := cmp.Diff(Params{":qp0": "hello world"}, params); diff != "" {
		t.Errorf("Params mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildClauseOrder(t *testing.T) {
	qb := NewQueryBuilder(nil)

	q := NewQuery().
		Select("id", "author_id", NewExpr("WEIGHT() AS w")).
		From("idx_article").
		Match("golang").
		Where(map[string]any{"status": 1}).
		GroupBy("author_id").
		WithinGroupOrderBy("created_at DESC").
		Having([]any{">", "COUNT(*)", 3}).
		OrderBy("w DESC", "id").
		Limit(20).
		Offset(40).
		Options(map[string]any{"ranker": "bm25", "max_matches": 500}).
		Facet(NewFacet("author_id")).
		ShowMeta(true)

	sql, params, err := qb.Build(q)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	want := "SELECT id, author_id, WEIGHT() AS w" +
		" FROM idx_article" +
		" WHERE (MATCH(:qp0)) AND (status=:qp1)" +
		" GROUP BY author_id" +
		" WITHIN GROUP ORDER BY created_at DESC" +
		" HAVING COUNT(*) > :qp2" +
		" ORDER BY w DESC, id ASC" +
		" LIMIT 40,20" +
		" OPTION max_matches = :qp3, ranker = :qp4" +
		" FACET author_id" +
		"; SHOW META"
	if sql != want {
		t.Errorf("SQL mismatch:\n got:  %q\n want: %q", sql, want)
	}

	wantParams := Params{
		":qp0": "golang",
		":qp1": 1,
		":qp2": 3,
		":qp3": 500,
		":qp4": "bm25",
	}
	if diff := cmp.Diff(wantParams, params); diff != "" {
		t.Errorf("Params mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildSelect(t *testing.T) {
	qb := NewQueryBuilder(nil)

	tests := []struct {
		name string
		q    *Query
		sql  string
	}{
		{
			name: "no fields selects star",
			q:    NewQuery().From("idx_article"),
			sql:  "SELECT * FROM idx_article",
		},
		{
			name: "distinct",
			q:    NewQuery().Select("author_id").Distinct(true).From("idx_article"),
			sql:  "SELECT DISTINCT author_id FROM idx_article",
		},
		{
			name: "select option token",
			q:    NewQuery().SelectOption("SQL_NO_CACHE").From("idx_article"),
			sql:  "SELECT SQL_NO_CACHE * FROM idx_article",
		},
		{
			name: "bare alias splits",
			q:    NewQuery().Select("author_id aid").From("idx_article"),
			sql:  "SELECT author_id AS aid FROM idx_article",
		},
		{
			name: "as alias splits",
			q:    NewQuery().Select("author_id AS aid").From("idx_article"),
			sql:  "SELECT author_id AS aid FROM idx_article",
		},
		{
			name: "function call passes through",
			q:    NewQuery().Select("MAX(price)", "id").From("idx_article"),
			sql:  "SELECT MAX(price), id FROM idx_article",
		},
		{
			name: "aliased expression",
			q:    NewQuery().Select(As(NewExpr("WEIGHT()"), "w")).From("idx_article"),
			sql:  "SELECT WEIGHT() AS w FROM idx_article",
		},
		{
			name: "aliased sub-query",
			q: NewQuery().
				Select("id", As(NewQuery().Select("COUNT(*)").From("idx_comment"), "comments")).
				From("idx_article"),
			sql: "SELECT id, (SELECT COUNT(*) FROM idx_comment) AS comments FROM idx_article",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, _, err := qb.Build(tt.q)
			if err != nil {
				t.Fatalf("Build failed: %v", err)
			}
			if sql != tt.sql {
				t.Errorf("SQL mismatch:\n got:  %q\n want: %q", sql, tt.sql)
			}
		})
	}

	t.Run("unsupported field type", func(t *testing.T) {
		if _, _, err := qb.Build(NewQuery().Select(42).From("idx_article")); err == nil {
			t.Error("Expected error for numeric select field")
		}
	})
}

func TestBuildFrom(t *testing.T) {
	qb := NewQueryBuilder(nil)
	sub := func() *Query { return NewQuery().Select("id").From("idx_comment") }

	tests := []struct {
		name string
		q    *Query
		sql  string
	}{
		{
			name: "single index",
			q:    NewQuery().From("idx_article"),
			sql:  "SELECT * FROM idx_article",
		},
		{
			name: "multiple indexes",
			q:    NewQuery().From("idx_article", "idx_comment"),
			sql:  "SELECT * FROM idx_article, idx_comment",
		},
		{
			name: "bare alias",
			q:    NewQuery().From("idx_article a"),
			sql:  "SELECT * FROM idx_article a",
		},
		{
			name: "as alias",
			q:    NewQuery().From("idx_article AS a"),
			sql:  "SELECT * FROM idx_article a",
		},
		{
			name: "sub-query gets positional alias",
			q:    NewQuery().From(sub()),
			sql:  "SELECT * FROM (SELECT id FROM idx_comment) sub0",
		},
		{
			name: "later sub-query counts its position",
			q:    NewQuery().From("idx_article", sub()),
			sql:  "SELECT * FROM idx_article, (SELECT id FROM idx_comment) sub1",
		},
		{
			name: "aliased sub-query",
			q:    NewQuery().From(As(sub(), "recent")),
			sql:  "SELECT * FROM (SELECT id FROM idx_comment) recent",
		},
		{
			name: "raw fragment passes through",
			q:    NewQuery().From(NewExpr("idx_dist agent")),
			sql:  "SELECT * FROM idx_dist agent",
		},
		{
			name: "no from at all",
			q:    NewQuery().Select("1"),
			sql:  "SELECT 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, _, err := qb.Build(tt.q)
			if err != nil {
				t.Fatalf("Build failed: %v", err)
			}
			if sql != tt.sql {
				t.Errorf("SQL mismatch:\n got:  %q\n want: %q", sql, tt.sql)
			}
		})
	}

	t.Run("unsupported entry type", func(t *testing.T) {
		if _, _, err := qb.Build(NewQuery().From(42)); err == nil {
			t.Error("Expected error for numeric FROM entry")
		}
	})
}

func TestBuildWhereMatchFusion(t *testing.T) {
	qb := NewQueryBuilder(nil)

	t.Run("match only", func(t *testing.T) {
		sql, params, err := qb.Build(NewQuery().From("idx_article").Match("hello"))
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}
		if want := "SELECT * FROM idx_article WHERE MATCH(:qp0)"; sql != want {
			t.Errorf("SQL mismatch:\n got:  %q\n want: %q", sql, want)
		}
		if params[":qp0"] != "hello" {
			t.Errorf("Unexpected params: %v", params)
		}
	})

	t.Run("condition only", func(t *testing.T) {
		sql, _, err := qb.Build(NewQuery().From("idx_article").Where(map[string]any{"status": 1}))
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}
		if want := "SELECT * FROM idx_article WHERE status=:qp0"; sql != want {
			t.Errorf("SQL mismatch:\n got:  %q\n want: %q", sql, want)
		}
	})

	t.Run("match and condition fuse with and", func(t *testing.T) {
		sql, params, err := qb.Build(NewQuery().
			From("idx_article").
			Match("hello").
			Where(map[string]any{"status": 1}))
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}
		if want := "SELECT * FROM idx_article WHERE (MATCH(:qp0)) AND (status=:qp1)"; sql != want {
			t.Errorf("SQL mismatch:\n got:  %q\n want: %q", sql, want)
		}
		// The match value binds ahead of condition values.
		if params[":qp0"] != "hello" || params[":qp1"] != 1 {
			t.Errorf("Unexpected params: %v", params)
		}
	})

	t.Run("neither yields no where clause", func(t *testing.T) {
		sql, _, err := qb.Build(NewQuery().From("idx_article"))
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}
		if want := "SELECT * FROM idx_article"; sql != want {
			t.Errorf("SQL mismatch:\n got:  %q\n want: %q", sql, want)
		}
	})

	t.Run("raw match expression inlines", func(t *testing.T) {
		sql, _, err := qb.Build(NewQuery().From("idx_article").Match(NewExpr("@(title) hello")))
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}
		if want := "SELECT * FROM idx_article WHERE MATCH(@(title) hello)"; sql != want {
			t.Errorf("SQL mismatch:\n got:  %q\n want: %q", sql, want)
		}
	})

	t.Run("unsupported match type", func(t *testing.T) {
		if _, _, err := qb.Build(NewQuery().From("idx_article").Match(42)); err == nil {
			t.Error("Expected error for numeric match value")
		}
	})
}

func TestBuildLimit(t *testing.T) {
	qb := NewQueryBuilder(nil)

	tests := []struct {
		name   string
		limit  *int
		offset *int
		sql    string
	}{
		{"limit only", intp(10), intp(0), "LIMIT 10"},
		{"offset without limit uses implicit cap", nil, intp(5), "LIMIT 5,1000"},
		{"offset and limit", intp(10), intp(5), "LIMIT 5,10"},
		{"neither", nil, nil, ""},
		{"zero limit", intp(0), nil, "LIMIT 0"},
		{"negative limit clears it", intp(-1), intp(5), "LIMIT 5,1000"},
		{"negative limit alone", intp(-1), nil, ""},
		{"negative offset clears it", intp(10), intp(-3), "LIMIT 10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := qb.buildLimit(tt.limit, tt.offset); got != tt.sql {
				t.Errorf("buildLimit = %q, want %q", got, tt.sql)
			}
		})
	}
}

func TestBuildOption(t *testing.T) {
	qb := NewQueryBuilder(nil)

	t.Run("scalar values bind", func(t *testing.T) {
		sql, params, err := qb.Build(NewQuery().From("idx_article").AddOption("ranker", "bm25"))
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}
		if want := "SELECT * FROM idx_article OPTION ranker = :qp0"; sql != want {
			t.Errorf("SQL mismatch:\n got:  %q\n want: %q", sql, want)
		}
		if params[":qp0"] != "bm25" {
			t.Errorf("Unexpected params: %v", params)
		}
	})

	t.Run("names render sorted", func(t *testing.T) {
		sql, _, err := qb.Build(NewQuery().From("idx_article").Options(map[string]any{
			"retry_count": 2,
			"max_matches": 500,
		}))
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}
		if want := "SELECT * FROM idx_article OPTION max_matches = :qp0, retry_count = :qp1"; sql != want {
			t.Errorf("SQL mismatch:\n got:  %q\n want: %q", sql, want)
		}
	})

	t.Run("nested map renders a named list", func(t *testing.T) {
		sql, _, err := qb.Build(NewQuery().From("idx_article").
			AddOption("field_weights", map[string]any{"title": 10, "body": 3}))
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}
		if want := "SELECT * FROM idx_article OPTION field_weights = (body = 3, title = 10)"; sql != want {
			t.Errorf("SQL mismatch:\n got:  %q\n want: %q", sql, want)
		}
	})

	t.Run("list renders positional values", func(t *testing.T) {
		sql, _, err := qb.Build(NewQuery().From("idx_article").
			AddOption("comment", []string{"a", "b"}))
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}
		if want := "SELECT * FROM idx_article OPTION comment = (a, b)"; sql != want {
			t.Errorf("SQL mismatch:\n got:  %q\n want: %q", sql, want)
		}
	})

	t.Run("raw expression inlines", func(t *testing.T) {
		sql, _, err := qb.Build(NewQuery().From("idx_article").
			AddOption("ranker", NewExpr("expr('sum(lcs)*1000+bm25')")))
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}
		if want := "SELECT * FROM idx_article OPTION ranker = expr('sum(lcs)*1000+bm25')"; sql != want {
			t.Errorf("SQL mismatch:\n got:  %q\n want: %q", sql, want)
		}
	})
}

func TestBuildFacets(t *testing.T) {
	qb := NewQueryBuilder(nil)

	t.Run("bare facet selects its own name", func(t *testing.T) {
		sql, _, err := qb.Build(NewQuery().From("idx_article").Facet(NewFacet("author_id")))
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}
		if want := "SELECT * FROM idx_article FACET author_id"; sql != want {
			t.Errorf("SQL mismatch:\n got:  %q\n want: %q", sql, want)
		}
	})

	t.Run("facet with order and paging", func(t *testing.T) {
		sql, _, err := qb.Build(NewQuery().From("idx_article").
			Facet(NewFacet("author_id").WithOrder("COUNT(*) DESC").WithLimit(5).WithOffset(10)))
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}
		want := "SELECT * FROM idx_article FACET author_id WITHIN GROUP ORDER BY COUNT(*) DESC LIMIT 10,5"
		if sql != want {
			t.Errorf("SQL mismatch:\n got:  %q\n want: %q", sql, want)
		}
	})

	t.Run("facet with explicit select list", func(t *testing.T) {
		sql, _, err := qb.Build(NewQuery().From("idx_article").
			Facet(NewFacet("categories").WithSelect("category_id", "category_name")))
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}
		if want := "SELECT * FROM idx_article FACET category_id, category_name"; sql != want {
			t.Errorf("SQL mismatch:\n got:  %q\n want: %q", sql, want)
		}
	})

	t.Run("multiple facets join on the separator", func(t *testing.T) {
		sql, _, err := qb.Build(NewQuery().From("idx_article").
			Facet(NewFacet("author_id"), NewFacet("status")))
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}
		if want := "SELECT * FROM idx_article FACET author_id FACET status"; sql != want {
			t.Errorf("SQL mismatch:\n got:  %q\n want: %q", sql, want)
		}
	})

	t.Run("facet without name or select fails", func(t *testing.T) {
		_, _, err := qb.Build(NewQuery().From("idx_article").Facet(NewFacet("")))
		if !errors.Is(err, ErrInvalidFacet) {
			t.Errorf("Expected ErrInvalidFacet, got %v", err)
		}
	})
}

func TestBuildShowMeta(t *testing.T) {
	qb := NewQueryBuilder(nil)

	t.Run("true appends a bare statement", func(t *testing.T) {
		sql, _, err := qb.Build(NewQuery().From("idx_article").ShowMeta(true))
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}
		if want := "SELECT * FROM idx_article; SHOW META"; sql != want {
			t.Errorf("SQL mismatch:\n got:  %q\n want: %q", sql, want)
		}
	})

	t.Run("false appends nothing", func(t *testing.T) {
		sql, _, err := qb.Build(NewQuery().From("idx_article").ShowMeta(false))
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}
		if want := "SELECT * FROM idx_article"; sql != want {
			t.Errorf("SQL mismatch:\n got:  %q\n want: %q", sql, want)
		}
	})

	t.Run("string pattern binds escaped and wildcarded", func(t *testing.T) {
		sql, params, err := qb.Build(NewQuery().From("idx_article").ShowMeta("total_found"))
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}
		if want := "SELECT * FROM idx_article; SHOW META LIKE :qp0"; sql != want {
			t.Errorf("SQL mismatch:\n got:  %q\n want: %q", sql, want)
		}
		if want := `%total\_found%`; params[":qp0"] != want {
			t.Errorf("Pattern = %q, want %q", params[":qp0"], want)
		}
	})

	t.Run("raw expression pattern inlines", func(t *testing.T) {
		sql, _, err := qb.Build(NewQuery().From("idx_article").ShowMeta(NewExpr("'total%'")))
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}
		if want := "SELECT * FROM idx_article; SHOW META LIKE 'total%'"; sql != want {
			t.Errorf("SQL mismatch:\n got:  %q\n want: %q", sql, want)
		}
	})

	t.Run("sub-query show meta never surfaces", func(t *testing.T) {
		sub := NewQuery().Select("id").From("idx_comment").ShowMeta(true)
		sql, _, err := qb.Build(NewQuery().From(sub))
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}
		if want := "SELECT * FROM (SELECT id FROM idx_comment) sub0"; sql != want {
			t.Errorf("SQL mismatch:\n got:  %q\n want: %q", sql, want)
		}
	})
}

func TestBuildRejectsJoins(t *testing.T) {
	qb := NewQueryBuilder(nil)

	_, _, err := qb.Build(NewQuery().
		From("idx_article").
		Join("INNER", "idx_comment", "idx_article.id = idx_comment.article_id"))
	if !errors.Is(err, ErrNotSupported) {
		t.Errorf("Expected ErrNotSupported, got %v", err)
	}
}

func TestBuildSeparator(t *testing.T) {
	qb := NewQueryBuilder(nil)
	qb.Separator = "\n"

	sql, _, err := qb.Build(NewQuery().From("idx_article").Match("hello").Limit(10))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	want := "SELECT *\nFROM idx_article\nWHERE MATCH(:qp0)\nLIMIT 10"
	if sql != want {
		t.Errorf("SQL mismatch:\n got:  %q\n want: %q", sql, want)
	}
}

func TestBuildHandParamsKeepTheirNames(t *testing.T) {
	qb := NewQueryBuilder(nil)

	q := NewQuery().
		From("idx_article").
		Where(NewExpr("price > :min_price")).
		AndWhere(map[string]any{"status": 1}).
		Params(Params{":min_price": 100})

	sql, params, err := qb.Build(q)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	// Hand-bound parameters merge first; generated numbering starts past them.
	if want := "SELECT * FROM idx_article WHERE (price > :min_price) AND (status=:qp1)"; sql != want {
		t.Errorf("SQL mismatch:\n got:  %q\n want: %q", sql, want)
	}
	if diff := cmp.Diff(Params{":min_price": 100, ":qp1": 1}, params); diff != "" {
		t.Errorf("Params mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	qb := NewQueryBuilder(nil)

	q := NewQuery().
		From("idx_article").
		Where(map[string]any{"status": 1, "author_id": 2, "price": 3.5}).
		Options(map[string]any{"ranker": "bm25", "max_matches": 100})

	first, firstParams, err := qb.Build(q)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	for i := 0; i < 20; i++ {
		sql, params, err := qb.Build(q)
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}
		if sql != first {
			t.Fatalf("SQL changed between builds:\n first: %q\n later: %q", first, sql)
		}
		if len(params) != len(firstParams) {
			t.Fatalf("Param count changed between builds: %d vs %d", len(firstParams), len(params))
		}
	}
}

func BenchmarkBuild(b *testing.B) {
	qb := NewQueryBuilder(nil)
	q := NewQuery().
		From("idx_article").
		Match("hello world").
		Where(map[string]any{"status": 1, "category_id": []int{2, 3}}).
		OrderBy("id DESC").
		Limit(20)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := qb.Build(q); err != nil {
			b.Fatal(err)
		}
	}
}
