package auth

import (
	"testing"

	"github.com/isdelr/bookshelf-be/internal/common"
	"github.com/isdelr/bookshelf-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorize(t *testing.T) {
	user := models.User{ID: 1, Role: models.RoleUser}
	admin := models.User{ID: 2, Role: models.RoleAdmin}

	got, err := Authorize(admin, models.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, admin, got)

	got, err = Authorize(user, models.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, user, got)

	_, err = Authorize(admin, models.RoleAdmin)
	assert.NoError(t, err)

	_, err = Authorize(user, models.RoleAdmin)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInsufficientRole)

	var roleErr *InsufficientRoleError
	require.ErrorAs(t, err, &roleErr)
	assert.Equal(t, models.RoleAdmin, roleErr.Required)
	assert.Equal(t, "ADMIN role required", err.Error())
}
