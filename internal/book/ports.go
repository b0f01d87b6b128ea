package book

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=book

// Repository defines the contract for catalog persistence.
type Repository interface {
	// Insert stores a complete record and returns its assigned id.
	Insert(ctx context.Context, req CreateRequest, doc, cover Upload) (int64, error)
	// GetByID returns record metadata. Blob columns are never selected.
	GetByID(ctx context.Context, id int64) (Book, error)
	// List returns metadata for all records matching q, newest first.
	List(ctx context.Context, q FilterQuery) ([]Book, error)
	// GetAsset returns one blob with its content type. ErrNotFound covers
	// both an absent id and an empty blob slot.
	GetAsset(ctx context.Context, id int64, role Role) (Asset, error)
	// Delete removes the row and both blobs as one unit. It reports whether
	// a row was actually removed.
	Delete(ctx context.Context, id int64) (bool, error)
	// Facets returns the distinct non-empty languages and categories.
	Facets(ctx context.Context) (Facets, error)
}
