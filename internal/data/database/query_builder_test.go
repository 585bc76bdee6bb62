package database

import (
	"strings"
	"testing"
)

func TestBuildListQuery_BasicSelect(t *testing.T) {
	opts := NewListQueryOptions("recipes")
	query, args := BuildListQuery(opts)

	expected := `SELECT * FROM "recipes"`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
	if len(args) != 0 {
		t.Errorf("Expected 0 args, got %d", len(args))
	}
}

func TestBuildListQuery_WithColumns(t *testing.T) {
	opts := NewListQueryOptions("recipes",
		WithColumns("id", "title", "category"),
	)
	query, args := BuildListQuery(opts)

	expected := `SELECT "id", "title", "category" FROM "recipes"`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
	if len(args) != 0 {
		t.Errorf("Expected 0 args, got %d", len(args))
	}
}

func TestBuildListQuery_WithQualifiedColumns(t *testing.T) {
	opts := NewListQueryOptions("recipes",
		WithColumns("recipes.id", "users.display_name"),
	)
	query, _ := BuildListQuery(opts)

	expected := `SELECT "recipes"."id", "users"."display_name" FROM "recipes"`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
}

func TestBuildListQuery_CountOnly(t *testing.T) {
	opts := NewListQueryOptions("recipes",
		WithCountOnly(),
		WithCondition(WhereCond("is_favorite", Equal, true)),
	)
	query, args := BuildListQuery(opts)

	expected := `SELECT COUNT(*) FROM "recipes" WHERE "is_favorite" = $1`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
	if len(args) != 1 || args[0] != true {
		t.Errorf("Expected args [true], got %v", args)
	}
}

func TestBuildListQuery_ConjunctiveConditions(t *testing.T) {
	opts := NewListQueryOptions("recipes",
		WithConditions(
			WhereCond("user_id", Equal, "u1"),
			WhereCond("title", ILike, "%pasta%"),
			WhereCond("category", Equal, "Dinner"),
		),
		WithOrderBy("created_at", "desc"),
		WithLimit(11),
		WithOffset(0),
	)
	query, args := BuildListQuery(opts)

	expected := `SELECT * FROM "recipes" WHERE "user_id" = $1 AND "title" ILIKE $2 AND "category" = $3` +
		` ORDER BY "created_at" DESC LIMIT $4 OFFSET $5`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
	if len(args) != 5 {
		t.Fatalf("Expected 5 args, got %d: %v", len(args), args)
	}
	if args[0] != "u1" || args[1] != "%pasta%" || args[2] != "Dinner" || args[3] != 11 || args[4] != 0 {
		t.Errorf("Unexpected args: %v", args)
	}
}

func TestBuildListQuery_InvalidOrderDirOmitted(t *testing.T) {
	opts := NewListQueryOptions("recipes",
		WithOrderBy("created_at", "sideways"),
	)
	query, _ := BuildListQuery(opts)

	if strings.Contains(query, "sideways") {
		t.Errorf("invalid direction leaked into query: %q", query)
	}
	if !strings.Contains(query, `ORDER BY "created_at"`) {
		t.Errorf("order by column missing: %q", query)
	}
}

func TestBuildListQuery_RawCondition(t *testing.T) {
	opts := NewListQueryOptions("recipes",
		WithCondition(WhereCond("user_id", Equal, "u1")),
		WithCondition(WhereRawCond("ingredients && ARRAY[$1]", "basil")),
	)
	query, args := BuildListQuery(opts)

	expected := `SELECT * FROM "recipes" WHERE "user_id" = $1 AND ingredients && ARRAY[$2]`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
	if len(args) != 2 || args[1] != "basil" {
		t.Errorf("Unexpected args: %v", args)
	}
}

func TestBuildListQuery_IdentifierSanitization(t *testing.T) {
	opts := NewListQueryOptions(`recipes"; DROP TABLE users; --`)
	query, _ := BuildListQuery(opts)

	if strings.Contains(query, "DROP TABLE users; --\"") == false && !strings.Contains(query, `"""`) {
		// pgx.Identifier doubles embedded quotes; the statement must stay a single quoted identifier.
		t.Errorf("table identifier not sanitized: %q", query)
	}
}

func TestBuildListQuery_NilOptions(t *testing.T) {
	query, args := BuildListQuery(nil)
	if query != "" || args != nil {
		t.Errorf("expected empty result for nil options, got %q %v", query, args)
	}
}
