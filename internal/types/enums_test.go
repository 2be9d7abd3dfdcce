package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVisibility(t *testing.T) {
	for _, v := range []string{"public", "admin", "img", "private"} {
		assert.True(t, IsValidVisibility(v), v)
	}
	assert.False(t, IsValidVisibility("hidden"))

	// Creation never offers private; it only exists on pre-existing events.
	assert.True(t, IsCreateVisibility("public"))
	assert.False(t, IsCreateVisibility("private"))
}

func TestInviteRoles(t *testing.T) {
	assert.True(t, IsValidInviteRole("viewer"))
	assert.True(t, IsValidInviteRole("editor"))
	assert.False(t, IsValidInviteRole("owner"))
}

func TestOrderings(t *testing.T) {
	assert.True(t, IsValidPhotoOrdering("-uploadDate"))
	assert.True(t, IsValidPhotoOrdering("photoid"))
	assert.False(t, IsValidPhotoOrdering("likes"))

	assert.True(t, IsValidEventOrdering("-eventdate"))
	assert.False(t, IsValidEventOrdering("random"))
}

func TestCanEdit(t *testing.T) {
	assert.True(t, CanEdit([]int{2, 1}))
	assert.False(t, CanEdit([]int{2, 3}))
	assert.False(t, CanEdit(nil))
}
