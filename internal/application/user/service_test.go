package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/receptar/receptar/internal/ports/inbound"
	"github.com/receptar/receptar/pkg/errors"
	"github.com/receptar/receptar/test/testutils"
)

func newUserService(t *testing.T) (inbound.UserService, *testutils.FakeUserRepository) {
	t.Helper()
	users := testutils.NewFakeUserRepository()
	return NewService(users, zap.NewNop()), users
}

func registerCommand() inbound.RegisterCommand {
	return inbound.RegisterCommand{
		Username: "mari",
		Email:    "mari@example.com",
		Password: "correct-horse-battery",
	}
}

func TestRegister(t *testing.T) {
	service, users := newUserService(t)

	dto, err := service.Register(context.Background(), registerCommand())

	require.NoError(t, err)
	assert.Equal(t, "mari", dto.Username)
	assert.Equal(t, "mari@example.com", dto.Email)

	stored, err := users.FindByUsername(context.Background(), "mari")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.IsActive())
}

func TestRegister_DuplicateUsername(t *testing.T) {
	service, _ := newUserService(t)

	_, err := service.Register(context.Background(), registerCommand())
	require.NoError(t, err)

	cmd := registerCommand()
	cmd.Email = "other@example.com"
	_, err = service.Register(context.Background(), cmd)

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeUsernameAlreadyExists))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	service, _ := newUserService(t)

	_, err := service.Register(context.Background(), registerCommand())
	require.NoError(t, err)

	cmd := registerCommand()
	cmd.Username = "gabor"
	_, err = service.Register(context.Background(), cmd)

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeEmailAlreadyExists))
}

func TestRegister_WeakPassword(t *testing.T) {
	service, _ := newUserService(t)

	cmd := registerCommand()
	cmd.Password = "short"
	_, err := service.Register(context.Background(), cmd)

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeValidationFailed))
}

func TestAuthenticate(t *testing.T) {
	service, users := newUserService(t)

	_, err := service.Register(context.Background(), registerCommand())
	require.NoError(t, err)

	dto, err := service.Authenticate(context.Background(), "mari", "correct-horse-battery")

	require.NoError(t, err)
	assert.Equal(t, "mari", dto.Username)
	assert.Equal(t, "mari@example.com", dto.Email)

	stored, err := users.FindByUsername(context.Background(), "mari")
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLoginAt())
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	service, _ := newUserService(t)

	_, err := service.Register(context.Background(), registerCommand())
	require.NoError(t, err)

	_, err = service.Authenticate(context.Background(), "mari", "wrong-password")

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeInvalidCredentials))
}

func TestAuthenticate_UnknownUser(t *testing.T) {
	service, _ := newUserService(t)

	_, err := service.Authenticate(context.Background(), "nobody", "whatever")

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeInvalidCredentials))
}

func TestGetProfile_HidesEmail(t *testing.T) {
	service, _ := newUserService(t)

	_, err := service.Register(context.Background(), registerCommand())
	require.NoError(t, err)

	dto, err := service.GetProfile(context.Background(), "mari")

	require.NoError(t, err)
	assert.Equal(t, "mari", dto.Username)
	assert.Empty(t, dto.Email)
}

func TestGetProfile_UnknownUser(t *testing.T) {
	service, _ := newUserService(t)

	_, err := service.GetProfile(context.Background(), "nobody")

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeUserNotFound))
}
