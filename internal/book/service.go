package book

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Service orchestrates catalog operations: it validates uploads before any
// persistence attempt and translates store results into the package's error
// vocabulary.
type Service struct {
	repo     Repository
	validate *validator.Validate
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

// Create validates metadata and both payloads, then inserts the record as a
// whole. The new id is returned. Nothing is persisted on any validation
// failure.
func (s *Service) Create(ctx context.Context, req CreateRequest, doc, cover Upload) (int64, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Author = strings.TrimSpace(req.Author)

	if err := s.validate.Struct(req); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
			return 0, &MissingFieldError{Field: strings.ToLower(fieldErrs[0].Field())}
		}
		return 0, err
	}

	doc.Role = RoleDocument
	if err := ValidateUpload(doc); err != nil {
		return 0, err
	}
	cover.Role = RoleCover
	if err := ValidateUpload(cover); err != nil {
		return 0, err
	}

	return s.repo.Insert(ctx, req, doc, cover)
}

// Get returns a record's metadata, never its blobs.
func (s *Service) Get(ctx context.Context, id int64) (Book, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns the metadata of every record matching q, newest first. An
// empty result is a nil-safe empty slice, not an error.
func (s *Service) List(ctx context.Context, q FilterQuery) ([]Book, error) {
	return s.repo.List(ctx, q)
}

// StreamAsset returns one of a record's blobs with its content type.
func (s *Service) StreamAsset(ctx context.Context, id int64, role Role) (Asset, error) {
	return s.repo.GetAsset(ctx, id, role)
}

// Remove deletes the record and both blobs as one unit. A second Remove on
// the same id reports ErrNotFound.
func (s *Service) Remove(ctx context.Context, id int64) error {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotFound
	}
	return nil
}

// Facets returns the filter values currently present in the catalog.
func (s *Service) Facets(ctx context.Context) (Facets, error) {
	return s.repo.Facets(ctx)
}
