package book

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) Insert(ctx context.Context, req CreateRequest, doc, cover Upload) (int64, error) {
	const sql = `
		INSERT INTO books (title, author, language, category, description, book_blob, cover_blob, cover_type)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), $6, $7, $8)
		RETURNING id`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var id int64
	err := r.db.QueryRow(timeoutCtx, sql,
		req.Title, req.Author, req.Language, req.Category, req.Description,
		doc.Data, cover.Data, StoredContentType(cover),
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (Book, error) {
	sql := `SELECT ` + metadataColumns + ` FROM books WHERE id = $1`

	var b Book
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, sql, id).Scan(
		&b.ID, &b.Title, &b.Author, &b.Language, &b.Category, &b.Description, &b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

func (r *PostgresRepo) List(ctx context.Context, q FilterQuery) ([]Book, error) {
	sql, args := buildListQuery(q)

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := []Book{}
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Language, &b.Category, &b.Description, &b.CreatedAt); err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

func (r *PostgresRepo) GetAsset(ctx context.Context, id int64, role Role) (Asset, error) {
	// octet_length in the WHERE clause makes an empty slot indistinguishable
	// from an absent row, per the retrieval contract.
	var sql string
	switch role {
	case RoleDocument:
		sql = `SELECT book_blob, 'application/pdf' FROM books WHERE id = $1 AND octet_length(book_blob) > 0`
	case RoleCover:
		sql = `SELECT cover_blob, cover_type FROM books WHERE id = $1 AND octet_length(cover_blob) > 0`
	default:
		return Asset{}, ErrNotFound
	}

	var a Asset
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, sql, id).Scan(&a.Data, &a.ContentType)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Asset{}, ErrNotFound
		}
		return Asset{}, err
	}
	return a, nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) (bool, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PostgresRepo) Facets(ctx context.Context) (Facets, error) {
	facets := Facets{Languages: []string{}, Categories: []string{}}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx,
		`SELECT DISTINCT language FROM books WHERE language IS NOT NULL ORDER BY language`)
	if err != nil {
		return Facets{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return Facets{}, err
		}
		facets.Languages = append(facets.Languages, v)
	}
	if err := rows.Err(); err != nil {
		return Facets{}, err
	}

	timeoutCtx2, cancel2 := r.withTimeout(ctx)
	defer cancel2()
	rows, err = r.db.Query(timeoutCtx2,
		`SELECT DISTINCT category FROM books WHERE category IS NOT NULL ORDER BY category`)
	if err != nil {
		return Facets{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return Facets{}, err
		}
		facets.Categories = append(facets.Categories, v)
	}
	return facets, rows.Err()
}
