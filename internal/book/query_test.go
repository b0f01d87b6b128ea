package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildListQuery(t *testing.T) {
	t.Run("no criteria returns full catalog newest first", func(t *testing.T) {
		sql, args := buildListQuery(FilterQuery{})
		assert.Contains(t, sql, "WHERE 1=1")
		assert.Contains(t, sql, "ORDER BY created_at DESC, id DESC")
		assert.NotContains(t, sql, "book_blob")
		assert.NotContains(t, sql, "cover_blob")
		assert.Empty(t, args)
	})

	t.Run("search matches title or author case-insensitively", func(t *testing.T) {
		sql, args := buildListQuery(FilterQuery{Search: "dune"})
		assert.Contains(t, sql, "(title ILIKE $1 OR author ILIKE $2)")
		assert.Equal(t, []any{"%dune%", "%dune%"}, args)
	})

	t.Run("exact filters are conjunctive", func(t *testing.T) {
		sql, args := buildListQuery(FilterQuery{Language: "English", Category: "Sci-Fi"})
		assert.Contains(t, sql, "language = $1")
		assert.Contains(t, sql, "category = $2")
		assert.Contains(t, sql, " AND ")
		assert.Equal(t, []any{"English", "Sci-Fi"}, args)
	})

	t.Run("search combines with exact filters", func(t *testing.T) {
		sql, args := buildListQuery(FilterQuery{Search: "herbert", Language: "English", Category: "Sci-Fi"})
		assert.Contains(t, sql, "(title ILIKE $1 OR author ILIKE $2)")
		assert.Contains(t, sql, "language = $3")
		assert.Contains(t, sql, "category = $4")
		assert.Len(t, args, 4)
	})

	t.Run("like metacharacters are escaped", func(t *testing.T) {
		_, args := buildListQuery(FilterQuery{Search: "100%_done"})
		assert.Equal(t, []any{`%100\%\_done%`, `%100\%\_done%`}, args)
	})
}
