package roles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	assert.True(t, Admin.HasPermission(Moderator))
	assert.True(t, Moderator.HasPermission(Moderator))
	assert.False(t, User.HasPermission(Moderator))
	assert.False(t, Moderator.HasPermission(Admin))
}

func TestIsValid(t *testing.T) {
	assert.True(t, User.IsValid())
	assert.False(t, Role("owner").IsValid())
}
