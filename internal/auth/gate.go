package auth

import (
	"fmt"

	"github.com/isdelr/bookshelf-be/internal/common"
	"github.com/isdelr/bookshelf-be/internal/models"
)

// InsufficientRoleError is returned when an authenticated user ranks below
// the role an operation requires.
type InsufficientRoleError struct {
	Required models.Role
	Actual   models.Role
}

func (e *InsufficientRoleError) Error() string {
	return fmt.Sprintf("%s role required", e.Required)
}

func (e *InsufficientRoleError) Unwrap() error { return common.ErrInsufficientRole }

// Authorize returns user unchanged when its role ranks at or above required.
func Authorize(user models.User, required models.Role) (models.User, error) {
	if !user.Role.AtLeast(required) {
		return models.User{}, &InsufficientRoleError{Required: required, Actual: user.Role}
	}
	return user, nil
}
