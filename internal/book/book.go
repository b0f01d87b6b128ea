package book

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a book or one of its assets is not found.
var ErrNotFound = errors.New("book not found")

// Book is a catalog record. Blob payloads are never carried here; they are
// fetched separately by id and role through GetAsset.
type Book struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Language    string    `json:"language,omitempty"`
	Category    string    `json:"category,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Role selects one of a record's two blob slots.
type Role string

const (
	RoleDocument Role = "document"
	RoleCover    Role = "cover"
)

// Asset is one stored blob together with the content type it is served as.
type Asset struct {
	Data        []byte
	ContentType string
}

// FilterQuery defines the list/search criteria. An empty string means no
// constraint; criteria combine conjunctively.
type FilterQuery struct {
	Search   string
	Language string
	Category string
}

// Facets lists the distinct non-empty filter values present in the catalog.
type Facets struct {
	Languages  []string `json:"languages"`
	Categories []string `json:"categories"`
}

// CreateRequest carries the metadata fields of an upload.
type CreateRequest struct {
	Title       string `validate:"required"`
	Author      string `validate:"required"`
	Language    string
	Category    string
	Description string
}

// MissingFieldError reports a required metadata field that was blank.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

// MissingAssetError reports a required blob that was absent or empty.
type MissingAssetError struct {
	Role Role
}

func (e *MissingAssetError) Error() string {
	return fmt.Sprintf("missing %s payload", e.Role)
}

// ValidationError reports an upload whose declared content type is not
// allowed for its role.
type ValidationError struct {
	Role        Role
	ContentType string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("content type %q not allowed for %s", e.ContentType, e.Role)
}
