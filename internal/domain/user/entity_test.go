package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("valid user", func(t *testing.T) {
		u, err := NewUser("alice", "alice@example.com", "s3cret-pass")

		require.NoError(t, err)
		assert.Equal(t, "alice", u.Username())
		assert.Equal(t, "alice@example.com", u.Email())
		assert.True(t, u.IsActive())
		assert.NotEqual(t, "s3cret-pass", u.PasswordHash())
	})

	t.Run("email is lowercased", func(t *testing.T) {
		u, err := NewUser("alice", "Alice@Example.COM", "s3cret-pass")

		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", u.Email())
	})

	t.Run("username too short", func(t *testing.T) {
		_, err := NewUser("ab", "alice@example.com", "s3cret-pass")
		assert.ErrorIs(t, err, ErrInvalidUsername)
	})

	t.Run("username with spaces", func(t *testing.T) {
		_, err := NewUser("a lice", "alice@example.com", "s3cret-pass")
		assert.ErrorIs(t, err, ErrInvalidUsername)
	})

	t.Run("malformed email", func(t *testing.T) {
		_, err := NewUser("alice", "not-an-email", "s3cret-pass")
		assert.ErrorIs(t, err, ErrInvalidEmail)
	})

	t.Run("short password", func(t *testing.T) {
		_, err := NewUser("alice", "alice@example.com", "short")
		assert.ErrorIs(t, err, ErrPasswordTooShort)
	})
}

func TestCheckPassword(t *testing.T) {
	u, err := NewUser("alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	assert.NoError(t, u.CheckPassword("s3cret-pass"))
	assert.ErrorIs(t, u.CheckPassword("wrong"), ErrWrongPassword)
}

func TestRecordLogin(t *testing.T) {
	u, err := NewUser("alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	require.Nil(t, u.LastLoginAt())
	u.RecordLogin()
	require.NotNil(t, u.LastLoginAt())
}
