package handlers

import (
	"net/http"

	"github.com/isdelr/bookshelf-be/internal/auth"
	"github.com/isdelr/bookshelf-be/internal/common"
	"github.com/isdelr/bookshelf-be/internal/models"
	"github.com/isdelr/bookshelf-be/internal/services"
	"github.com/isdelr/bookshelf-be/internal/validate"
	"github.com/rs/zerolog/log"
)

// BookHandler handles HTTP requests related to the catalog.
type BookHandler struct {
	service services.BookServiceProvider
}

// NewBookHandler creates a new BookHandler.
func NewBookHandler(service services.BookServiceProvider) *BookHandler {
	return &BookHandler{service: service}
}

// BookPayload defines the structure for book creation requests.
type BookPayload struct {
	Title     string `json:"title" validate:"required,max=500"`
	Author    string `json:"author" validate:"required,max=300"`
	NiceCover *bool  `json:"niceCover"`
}

// GetAll handles the request to list all books.
func (h *BookHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.GetAllBooks(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to retrieve books")
		common.RespondWithFailure(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, books)
}

// Get handles the request to get a single book by its ID.
func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		common.RespondWithFailure(w, err)
		return
	}

	book, err := h.service.GetBookByID(r.Context(), id)
	if err != nil {
		log.Warn().Err(err).Int64("book_id", id).Msg("Failed to get book by ID")
		common.RespondWithFailure(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, book)
}

// Create handles the request to add a new book.
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload BookPayload
	if err := validate.DecodeJSON(r.Body, &payload); err != nil {
		common.RespondWithFailure(w, err)
		return
	}

	user, _ := auth.UserFromContext(r.Context())
	book := models.Book{Title: payload.Title, Author: payload.Author}
	if payload.NiceCover != nil {
		book.NiceCover = *payload.NiceCover
	}

	created, err := h.service.CreateBook(r.Context(), book, user.ID)
	if err != nil {
		log.Error().Err(err).Str("title", payload.Title).Msg("Failed to create book")
		common.RespondWithFailure(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, created)
}
