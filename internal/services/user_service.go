package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/isdelr/bookshelf-be/internal/auth"
	"github.com/isdelr/bookshelf-be/internal/common"
	"github.com/isdelr/bookshelf-be/internal/database"
	"github.com/isdelr/bookshelf-be/internal/models"
	"github.com/rs/zerolog/log"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	GetUserByID(ctx context.Context, id int64) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	GetAllUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, email, password string) (models.User, error)
	AuthenticateUser(ctx context.Context, email, password string) (models.User, error)
	SetRole(ctx context.Context, id int64, role models.Role) (models.User, error)
}

// UserService provides business logic for user management.
type UserService struct {
	db         *sql.DB
	events     EventServiceProvider
	bcryptCost int
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB, events EventServiceProvider, bcryptCost int) *UserService {
	return &UserService{db: db, events: events, bcryptCost: bcryptCost}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(ctx context.Context, id int64) (models.User, error) {
	var user models.User
	row := s.db.QueryRowContext(ctx, "SELECT id, email, role, created_at FROM users WHERE id = ?", id)
	err := row.Scan(&user.ID, &user.Email, &user.Role, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, fmt.Errorf("user with ID %d: %w", id, common.ErrNotFound)
		}
		return models.User{}, err
	}
	return user, nil
}

// GetUserByEmail retrieves a single user by their email, including the password hash.
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	row := s.db.QueryRowContext(ctx, "SELECT id, email, password_hash, role, created_at FROM users WHERE email = ?", normalizeEmail(email))
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Role, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, fmt.Errorf("user with email %s: %w", email, common.ErrNotFound)
		}
		return models.User{}, err
	}
	return user, nil
}

// GetAllUsers retrieves every user, ordered by ID.
func (s *UserService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, email, role, created_at FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Email, &user.Role, &user.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// CreateUser registers a new USER account, hashing their password. Email
// uniqueness is checked up front and backed by the UNIQUE constraint for
// concurrent registrations.
func (s *UserService) CreateUser(ctx context.Context, email, password string) (models.User, error) {
	return s.createUser(ctx, email, password, models.RoleUser)
}

func (s *UserService) createUser(ctx context.Context, email, password string, role models.Role) (models.User, error) {
	email = normalizeEmail(email)

	if _, err := s.GetUserByEmail(ctx, email); err == nil {
		return models.User{}, common.ErrDuplicateEmail
	} else if !errors.Is(err, common.ErrNotFound) {
		return models.User{}, err
	}

	hashedPassword, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return models.User{}, err
	}

	res, err := s.db.ExecContext(ctx, "INSERT INTO users(email, password_hash, role) VALUES(?, ?, ?)", email, hashedPassword, int64(role))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return models.User{}, common.ErrDuplicateEmail
		}
		return models.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.User{}, err
	}

	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	recordEvent(ctx, s.events, EventUserRegistered, fmt.Sprintf("User %s registered", user.Email), &user.ID)
	return user, nil
}

// AuthenticateUser verifies a user's credentials. Unknown emails and wrong
// passwords both yield common.ErrInvalidCredentials.
func (s *UserService) AuthenticateUser(ctx context.Context, email, password string) (models.User, error) {
	user, err := s.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return models.User{}, common.ErrInvalidCredentials
		}
		return models.User{}, err
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		return models.User{}, common.ErrInvalidCredentials
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}

// SetRole changes a user's role. This is the only way a role changes after
// registration. Tokens already issued keep their embedded role claim.
func (s *UserService) SetRole(ctx context.Context, id int64, role models.Role) (models.User, error) {
	if !role.Valid() {
		return models.User{}, common.NewValidationError("role", "must be USER or ADMIN")
	}

	res, err := s.db.ExecContext(ctx, "UPDATE users SET role = ? WHERE id = ?", int64(role), id)
	if err != nil {
		return models.User{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return models.User{}, err
	}
	if n == 0 {
		return models.User{}, fmt.Errorf("user with ID %d: %w", id, common.ErrNotFound)
	}

	recordEvent(ctx, s.events, EventUserRole, fmt.Sprintf("User %d role set to %s", id, role), &id)
	return s.GetUserByID(ctx, id)
}

// EnsureAdmin makes sure an ADMIN account exists for email. A missing account
// is created with password; an existing one is promoted and keeps its
// password.
func (s *UserService) EnsureAdmin(ctx context.Context, email, password string) (models.User, error) {
	existing, err := s.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role == models.RoleAdmin {
			existing.PasswordHash = ""
			return existing, nil
		}
		log.Info().Str("email", existing.Email).Msg("Promoting bootstrap account to ADMIN")
		return s.SetRole(ctx, existing.ID, models.RoleAdmin)
	case errors.Is(err, common.ErrNotFound):
		log.Info().Str("email", normalizeEmail(email)).Msg("Creating bootstrap ADMIN account")
		return s.createUser(ctx, email, password, models.RoleAdmin)
	default:
		return models.User{}, err
	}
}
