package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllows(t *testing.T) {
	// Admin is a super-role: it satisfies every requirement,
	// including roles that do not exist in the grants table.
	for _, want := range []string{RoleUser, "editor", RoleAdmin} {
		assert.True(t, Allows(RoleAdmin, want), "admin should pass %q", want)
	}

	// A regular user satisfies only the user requirement.
	assert.True(t, Allows(RoleUser, RoleUser))
	assert.False(t, Allows(RoleUser, "editor"))
	assert.False(t, Allows(RoleUser, RoleAdmin))

	// Unknown roles hold no grants at all.
	assert.False(t, Allows("guest", RoleUser))
	assert.False(t, Allows("", RoleUser))
}
