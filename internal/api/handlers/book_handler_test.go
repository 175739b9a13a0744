package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/isdelr/bookshelf-be/internal/auth"
	"github.com/isdelr/bookshelf-be/internal/common"
	"github.com/isdelr/bookshelf-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBooks struct {
	created   []models.Book
	createdBy int64
	err       error
}

func (s *stubBooks) GetAllBooks(context.Context) ([]models.Book, error) {
	return s.created, s.err
}

func (s *stubBooks) GetBookByID(_ context.Context, id int64) (models.Book, error) {
	return models.Book{}, common.ErrNotFound
}

func (s *stubBooks) CreateBook(_ context.Context, b models.Book, createdBy int64) (models.Book, error) {
	if s.err != nil {
		return models.Book{}, s.err
	}
	b.ID = int64(len(s.created) + 1)
	s.created = append(s.created, b)
	s.createdBy = createdBy
	return b, nil
}

func TestBookHandler_Create(t *testing.T) {
	stub := &stubBooks{}
	h := NewBookHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/books", strings.NewReader(`{"title":"Dune","author":"Herbert","niceCover":true}`))
	req = req.WithContext(context.WithValue(req.Context(), auth.UserCtxKey, models.User{ID: 7, Role: models.RoleAdmin}))
	rr := httptest.NewRecorder()
	h.Create(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	var got models.Book
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	assert.Equal(t, int64(1), got.ID)
	assert.True(t, got.NiceCover)
	assert.Equal(t, int64(7), stub.createdBy)
}

func TestBookHandler_StorageFailureIsMasked(t *testing.T) {
	h := NewBookHandler(&stubBooks{err: errors.New("SQL logic error: no such table: books")})

	rr := httptest.NewRecorder()
	h.GetAll(rr, httptest.NewRequest(http.MethodGet, "/books", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "no such table")
}
