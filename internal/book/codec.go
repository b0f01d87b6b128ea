package book

import "strings"

// Upload is a labeled binary payload as received from a client, before any
// persistence attempt.
type Upload struct {
	Role        Role
	ContentType string
	Data        []byte
}

var allowedTypes = map[Role][]string{
	RoleDocument: {"application/pdf"},
	// image/jpg is not a registered type but browsers emit it.
	RoleCover: {"image/jpeg", "image/jpg", "image/png"},
}

// ValidateUpload gates an upload on its declared content type and a
// non-empty payload. It never inspects the bytes: declared type is trusted,
// so stored bytes round-trip unmodified.
func ValidateUpload(u Upload) error {
	if len(u.Data) == 0 {
		return &MissingAssetError{Role: u.Role}
	}
	declared := normalizeContentType(u.ContentType)
	for _, allowed := range allowedTypes[u.Role] {
		if declared == allowed {
			return nil
		}
	}
	return &ValidationError{Role: u.Role, ContentType: u.ContentType}
}

// StoredContentType is the canonical type persisted alongside a validated
// upload and later served back. The image/jpg alias collapses to image/jpeg
// so responses always carry a registered media type.
func StoredContentType(u Upload) string {
	ct := normalizeContentType(u.ContentType)
	if ct == "image/jpg" {
		return "image/jpeg"
	}
	return ct
}

// normalizeContentType strips media type parameters ("; charset=...") and
// lowercases, so "Application/PDF; q=1" matches "application/pdf".
func normalizeContentType(ct string) string {
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}
