package book

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"bookcatalog/internal/httpx"
)

// maxMultipartMemory bounds how much of a parsed upload stays in memory
// before spilling to temp files. The overall request size is capped by
// middleware.
const maxMultipartMemory = 32 << 20

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// Upload handles POST /api/books/upload (multipart form).
func (h *HTTPHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "bad_request", "malformed multipart body", nil)
		return
	}
	defer r.MultipartForm.RemoveAll()

	req := CreateRequest{
		Title:       r.FormValue("title"),
		Author:      r.FormValue("author"),
		Language:    r.FormValue("language"),
		Category:    r.FormValue("category"),
		Description: r.FormValue("description"),
	}

	doc, err := readUpload(r, "book", RoleDocument)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "bad_request", "unreadable book payload", nil)
		return
	}
	cover, err := readUpload(r, "cover", RoleCover)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "bad_request", "unreadable cover payload", nil)
		return
	}

	id, err := h.service.Create(r.Context(), req, doc, cover)
	if err != nil {
		writeCreateError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "id": id})
}

// List handles GET /api/books with optional search, language, and category
// query parameters.
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q := FilterQuery{
		Search:   query.Get("search"),
		Language: query.Get("language"),
		Category: query.Get("category"),
	}

	books, err := h.service.List(r.Context(), q)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "failed to fetch books", nil)
		return
	}
	writeJSON(w, http.StatusOK, books)
}

// GetByID handles GET /api/books/{id}.
func (h *HTTPHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusNotFound, "not_found", "book not found", nil)
		return
	}

	b, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", "book not found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "failed to fetch book", nil)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// GetDocument handles GET /api/books/{id}/pdf.
func (h *HTTPHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	h.streamAsset(w, r, RoleDocument)
}

// GetCover handles GET /api/books/{id}/cover.
func (h *HTTPHandler) GetCover(w http.ResponseWriter, r *http.Request) {
	h.streamAsset(w, r, RoleCover)
}

func (h *HTTPHandler) streamAsset(w http.ResponseWriter, r *http.Request, role Role) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusNotFound, "not_found", "asset not found", nil)
		return
	}

	a, err := h.service.StreamAsset(r.Context(), id, role)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", "asset not found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "failed to fetch asset", nil)
		return
	}

	// ServeContent handles range requests, so large documents transfer
	// incrementally when the client asks for chunks.
	w.Header().Set("Content-Type", a.ContentType)
	http.ServeContent(w, r, "", time.Time{}, bytes.NewReader(a.Data))
}

// Delete handles DELETE /api/books/{id}.
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusNotFound, "not_found", "book not found", nil)
		return
	}

	if err := h.service.Remove(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", "book not found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "failed to delete book", nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// Filters handles GET /api/books/filters.
func (h *HTTPHandler) Filters(w http.ResponseWriter, r *http.Request) {
	facets, err := h.service.Facets(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "failed to fetch filters", nil)
		return
	}
	writeJSON(w, http.StatusOK, facets)
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

func readUpload(r *http.Request, field string, role Role) (Upload, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			// Absent part: the codec reports the missing asset.
			return Upload{Role: role}, nil
		}
		return Upload{}, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return Upload{}, err
	}
	return Upload{Role: role, ContentType: partContentType(header), Data: data}, nil
}

func partContentType(h *multipart.FileHeader) string {
	if h == nil {
		return ""
	}
	return h.Header.Get("Content-Type")
}

func writeCreateError(w http.ResponseWriter, err error) {
	var missingField *MissingFieldError
	var missingAsset *MissingAssetError
	var invalid *ValidationError
	switch {
	case errors.As(err, &missingField):
		httpx.JSONError(w, http.StatusBadRequest, "missing_field", missingField.Error(), nil)
	case errors.As(err, &missingAsset):
		httpx.JSONError(w, http.StatusBadRequest, "missing_asset", missingAsset.Error(), nil)
	case errors.As(err, &invalid):
		httpx.JSONError(w, http.StatusBadRequest, "invalid_asset_type", invalid.Error(), nil)
	default:
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "failed to store book", nil)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
