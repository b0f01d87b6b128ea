package book

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"bookcatalog/internal/testutil"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUploadRequest(t *testing.T, fields map[string]string, parts []testutil.FilePart) *http.Request {
	return testutil.NewUploadRequest(t, "/api/books/upload", fields, parts)
}

func validParts() []testutil.FilePart {
	return []testutil.FilePart{
		{Field: "book", Filename: "dune.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.4 dune")},
		{Field: "cover", Filename: "dune.jpg", ContentType: "image/jpeg", Data: testutil.ValidJPEG()},
	}
}

func TestHTTPHandler_Upload(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	handler := NewHTTPHandler(NewService(mockRepo))

	t.Run("success", func(t *testing.T) {
		mockRepo.EXPECT().
			Insert(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req CreateRequest, doc, cover Upload) (int64, error) {
				assert.Equal(t, "Dune", req.Title)
				assert.Equal(t, "Frank Herbert", req.Author)
				assert.Equal(t, []byte("%PDF-1.4 dune"), doc.Data)
				return 42, nil
			})

		w := httptest.NewRecorder()
		r := newUploadRequest(t, map[string]string{"title": "Dune", "author": "Frank Herbert"}, validParts())
		handler.Upload(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, true, body["success"])
		assert.Equal(t, float64(42), body["id"])
	})

	t.Run("missing title", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := newUploadRequest(t, map[string]string{"author": "Frank Herbert"}, validParts())
		handler.Upload(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "missing_field")
	})

	t.Run("cover declared text/plain", func(t *testing.T) {
		parts := validParts()
		parts[1].ContentType = "text/plain"

		w := httptest.NewRecorder()
		r := newUploadRequest(t, map[string]string{"title": "Dune", "author": "Frank Herbert"}, parts)
		handler.Upload(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "invalid_asset_type")
	})

	t.Run("missing book part", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := newUploadRequest(t, map[string]string{"title": "Dune", "author": "Frank Herbert"}, validParts()[1:])
		handler.Upload(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "missing_asset")
	})

	t.Run("store failure", func(t *testing.T) {
		mockRepo.EXPECT().
			Insert(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(int64(0), errors.New("insert failed"))

		w := httptest.NewRecorder()
		r := newUploadRequest(t, map[string]string{"title": "Dune", "author": "Frank Herbert"}, validParts())
		handler.Upload(w, r)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestHTTPHandler_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	handler := NewHTTPHandler(NewService(mockRepo))

	t.Run("passes criteria through", func(t *testing.T) {
		mockRepo.EXPECT().
			List(gomock.Any(), FilterQuery{Search: "dune", Language: "English"}).
			Return([]Book{{ID: 1, Title: "Dune", Author: "Frank Herbert"}}, nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/books?search=dune&language=English", nil)
		handler.List(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		var books []Book
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &books))
		require.Len(t, books, 1)
		assert.Equal(t, "Dune", books[0].Title)
	})

	t.Run("empty result is a JSON array", func(t *testing.T) {
		mockRepo.EXPECT().List(gomock.Any(), FilterQuery{}).Return([]Book{}, nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/books", nil)
		handler.List(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	})

	t.Run("store failure", func(t *testing.T) {
		mockRepo.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, errors.New("query failed"))

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/books", nil)
		handler.List(w, r)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestHTTPHandler_GetByID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	handler := NewHTTPHandler(NewService(mockRepo))

	t.Run("success", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(gomock.Any(), int64(5)).Return(Book{ID: 5, Title: "Dune", Author: "Frank Herbert"}, nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/books/5", nil)
		r.SetPathValue("id", "5")
		handler.GetByID(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		var b Book
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b))
		assert.Equal(t, int64(5), b.ID)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(gomock.Any(), int64(99)).Return(Book{}, ErrNotFound)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/books/99", nil)
		r.SetPathValue("id", "99")
		handler.GetByID(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("non-numeric id", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/books/abc", nil)
		r.SetPathValue("id", "abc")
		handler.GetByID(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHTTPHandler_StreamAsset(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	handler := NewHTTPHandler(NewService(mockRepo))

	t.Run("document bytes round-trip", func(t *testing.T) {
		payload := []byte("%PDF-1.4 exact bytes back")
		mockRepo.EXPECT().
			GetAsset(gomock.Any(), int64(5), RoleDocument).
			Return(Asset{Data: payload, ContentType: "application/pdf"}, nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/books/5/pdf", nil)
		r.SetPathValue("id", "5")
		handler.GetDocument(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
		assert.Equal(t, payload, w.Body.Bytes())
	})

	t.Run("cover served with stored type", func(t *testing.T) {
		mockRepo.EXPECT().
			GetAsset(gomock.Any(), int64(5), RoleCover).
			Return(Asset{Data: []byte{0x89, 'P', 'N', 'G'}, ContentType: "image/png"}, nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/books/5/cover", nil)
		r.SetPathValue("id", "5")
		handler.GetCover(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	})

	t.Run("range request serves a chunk", func(t *testing.T) {
		payload := []byte("0123456789")
		mockRepo.EXPECT().
			GetAsset(gomock.Any(), int64(5), RoleDocument).
			Return(Asset{Data: payload, ContentType: "application/pdf"}, nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/books/5/pdf", nil)
		r.SetPathValue("id", "5")
		r.Header.Set("Range", "bytes=0-3")
		handler.GetDocument(w, r)

		assert.Equal(t, http.StatusPartialContent, w.Code)
		assert.Equal(t, "0123", w.Body.String())
	})

	t.Run("absent asset", func(t *testing.T) {
		mockRepo.EXPECT().GetAsset(gomock.Any(), int64(5), RoleCover).Return(Asset{}, ErrNotFound)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/books/5/cover", nil)
		r.SetPathValue("id", "5")
		handler.GetCover(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHTTPHandler_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	handler := NewHTTPHandler(NewService(mockRepo))

	t.Run("success then not found", func(t *testing.T) {
		gomock.InOrder(
			mockRepo.EXPECT().Delete(gomock.Any(), int64(5)).Return(true, nil),
			mockRepo.EXPECT().Delete(gomock.Any(), int64(5)).Return(false, nil),
		)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodDelete, "/api/books/5", nil)
		r.SetPathValue("id", "5")
		handler.Delete(w, r)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true}`, w.Body.String())

		w = httptest.NewRecorder()
		r = httptest.NewRequest(http.MethodDelete, "/api/books/5", nil)
		r.SetPathValue("id", "5")
		handler.Delete(w, r)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHTTPHandler_Filters(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	handler := NewHTTPHandler(NewService(mockRepo))

	t.Run("returns distinct values", func(t *testing.T) {
		mockRepo.EXPECT().Facets(gomock.Any()).Return(Facets{
			Languages:  []string{"English", "French"},
			Categories: []string{"Sci-Fi"},
		}, nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/books/filters", nil)
		handler.Filters(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"languages":["English","French"],"categories":["Sci-Fi"]}`, w.Body.String())
	})
}
