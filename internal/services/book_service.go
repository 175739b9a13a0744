package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/isdelr/bookshelf-be/internal/common"
	"github.com/isdelr/bookshelf-be/internal/models"
)

// BookServiceProvider defines the interface for book services.
type BookServiceProvider interface {
	GetAllBooks(ctx context.Context) ([]models.Book, error)
	GetBookByID(ctx context.Context, id int64) (models.Book, error)
	CreateBook(ctx context.Context, book models.Book, createdBy int64) (models.Book, error)
}

// BookService provides business logic for the catalog.
type BookService struct {
	db     *sql.DB
	events EventServiceProvider
}

// NewBookService creates a new BookService.
func NewBookService(db *sql.DB, events EventServiceProvider) *BookService {
	return &BookService{db: db, events: events}
}

// scanBook is a helper to scan a book from a row or rows object.
func scanBook(scanner interface{ Scan(...interface{}) error }) (models.Book, error) {
	var book models.Book
	err := scanner.Scan(&book.ID, &book.Title, &book.Author, &book.NiceCover, &book.CreatedAt)
	return book, err
}

// GetAllBooks retrieves all books from the database, ordered by ID.
func (s *BookService) GetAllBooks(ctx context.Context) ([]models.Book, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, title, author, nice_cover, created_at FROM books ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := []models.Book{}
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	return books, rows.Err()
}

// GetBookByID retrieves a single book by its ID.
func (s *BookService) GetBookByID(ctx context.Context, id int64) (models.Book, error) {
	row := s.db.QueryRowContext(ctx, "SELECT id, title, author, nice_cover, created_at FROM books WHERE id = ?", id)
	book, err := scanBook(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Book{}, fmt.Errorf("book with ID %d: %w", id, common.ErrNotFound)
		}
		return models.Book{}, err
	}
	return book, nil
}

// CreateBook inserts a new book and returns it with its generated ID.
func (s *BookService) CreateBook(ctx context.Context, book models.Book, createdBy int64) (models.Book, error) {
	res, err := s.db.ExecContext(ctx, "INSERT INTO books(title, author, nice_cover) VALUES(?, ?, ?)", book.Title, book.Author, book.NiceCover)
	if err != nil {
		return models.Book{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Book{}, err
	}

	created, err := s.GetBookByID(ctx, id)
	if err != nil {
		return models.Book{}, err
	}
	recordEvent(ctx, s.events, EventBookCreated, fmt.Sprintf("Book %q by %s added", created.Title, created.Author), &createdBy)
	return created, nil
}
