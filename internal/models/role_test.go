package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRole_AtLeast(t *testing.T) {
	assert.True(t, RoleAdmin.AtLeast(RoleUser))
	assert.True(t, RoleAdmin.AtLeast(RoleAdmin))
	assert.True(t, RoleUser.AtLeast(RoleUser))
	assert.False(t, RoleUser.AtLeast(RoleAdmin))
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, r)

	r, err = ParseRole(" USER ")
	require.NoError(t, err)
	assert.Equal(t, RoleUser, r)

	_, err = ParseRole("root")
	assert.Error(t, err)
}

func TestRole_JSON(t *testing.T) {
	u := User{ID: 7, Email: "a@x.com", PasswordHash: "secret", Role: RoleAdmin}
	b, err := json.Marshal(u)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"role":"ADMIN"`)
	assert.NotContains(t, string(b), "secret")

	var payload struct {
		Role Role `json:"role"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"role":"user"}`), &payload))
	assert.Equal(t, RoleUser, payload.Role)

	assert.Error(t, json.Unmarshal([]byte(`{"role":"owner"}`), &payload))

	_, err = json.Marshal(struct{ R Role }{R: Role(9)})
	assert.Error(t, err)
}
