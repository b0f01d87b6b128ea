package book

import (
	"fmt"
	"strings"
)

// metadataColumns is the one projection used for every metadata read. Blob
// columns stay out of it so list and get operations never materialize
// payloads.
const metadataColumns = "id, title, author, COALESCE(language, ''), COALESCE(category, ''), COALESCE(description, ''), created_at"

// buildListQuery turns a FilterQuery into a SELECT over the books table with
// numbered placeholders. The free-text term matches case-insensitively as a
// substring of title or author; language and category match exactly; all
// clauses are conjunctive. Results order newest-first, id breaking ties.
func buildListQuery(q FilterQuery) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}
	argn := 1

	if q.Search != "" {
		clauses = append(clauses, fmt.Sprintf("(title ILIKE $%d OR author ILIKE $%d)", argn, argn+1))
		pattern := "%" + escapeLike(q.Search) + "%"
		args = append(args, pattern, pattern)
		argn += 2
	}

	if q.Language != "" {
		clauses = append(clauses, fmt.Sprintf("language = $%d", argn))
		args = append(args, q.Language)
		argn++
	}

	if q.Category != "" {
		clauses = append(clauses, fmt.Sprintf("category = $%d", argn))
		args = append(args, q.Category)
		argn++
	}

	sql := fmt.Sprintf(
		"SELECT %s FROM books WHERE %s ORDER BY created_at DESC, id DESC",
		metadataColumns, strings.Join(clauses, " AND "),
	)
	return sql, args
}

// escapeLike neutralizes LIKE metacharacters in a user term so "100%" only
// matches records literally containing "100%".
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
