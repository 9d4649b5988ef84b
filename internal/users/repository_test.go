package users

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUserFromData(t *testing.T) {
	login := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	user := userFromData("uid-1", map[string]interface{}{
		"email":     "ops@example.com",
		"role":      "super_admin",
		"createdAt": "2023-09-10T12:00:00.000Z",
		"lastLogin": login,
	})

	assert.Equal(t, "uid-1", user.ID)
	assert.Equal(t, "ops@example.com", user.Email)
	assert.Equal(t, "super_admin", user.Role)
	assert.Equal(t, time.Date(2023, 9, 10, 12, 0, 0, 0, time.UTC), user.CreatedAt)
	assert.Equal(t, login, user.LastLogin)
}

func TestUserFromData_UnreadableTimestamps(t *testing.T) {
	user := userFromData("uid-2", map[string]interface{}{"createdAt": "n/a", "lastLogin": int64(3)})

	assert.True(t, user.CreatedAt.IsZero())
	assert.True(t, user.LastLogin.IsZero())
	assert.Empty(t, user.Role)
}
