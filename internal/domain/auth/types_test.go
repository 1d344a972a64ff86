package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleAtLeast(t *testing.T) {
	assert.True(t, RoleAdmin.AtLeast(RoleViewer))
	assert.True(t, RoleAdmin.AtLeast(RoleAdmin))
	assert.True(t, RoleStaff.AtLeast(RoleViewer))
	assert.False(t, RoleStaff.AtLeast(RoleAdmin))
	assert.False(t, RoleViewer.AtLeast(RoleStaff))

	// Roles outside the known set never satisfy or act as a requirement.
	assert.False(t, Role("root").AtLeast(RoleViewer))
	assert.False(t, RoleAdmin.AtLeast(Role("")))
}
