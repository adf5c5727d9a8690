// Package user provides the application layer for account management
package user

import (
	"context"

	"go.uber.org/zap"

	"github.com/receptar/receptar/internal/domain/user"
	"github.com/receptar/receptar/internal/ports/inbound"
	"github.com/receptar/receptar/internal/ports/outbound"
	"github.com/receptar/receptar/pkg/errors"
)

// Service implements the user use cases
type Service struct {
	users  outbound.UserRepository
	logger *zap.Logger
}

// NewService creates a new user service
func NewService(users outbound.UserRepository, logger *zap.Logger) inbound.UserService {
	return &Service{
		users:  users,
		logger: logger.Named("user-service"),
	}
}

// Register creates a new account. Username and email must be unused.
func (s *Service) Register(ctx context.Context, cmd inbound.RegisterCommand) (*inbound.UserDTO, error) {
	if existing, err := s.users.FindByUsername(ctx, cmd.Username); err != nil {
		return nil, errors.NewDatabaseError("check username", err)
	} else if existing != nil {
		return nil, errors.NewUsernameAlreadyExistsError(cmd.Username)
	}

	if existing, err := s.users.FindByEmail(ctx, cmd.Email); err != nil {
		return nil, errors.NewDatabaseError("check email", err)
	} else if existing != nil {
		return nil, errors.NewEmailAlreadyExistsError(cmd.Email)
	}

	u, err := user.NewUser(cmd.Username, cmd.Email, cmd.Password)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := s.users.Create(ctx, u); err != nil {
		return nil, errors.NewDatabaseError("create user", err)
	}

	s.logger.Info("user registered", zap.String("username", u.Username()))
	return toDTO(u, true), nil
}

// Authenticate verifies credentials and stamps the login time
func (s *Service) Authenticate(ctx context.Context, username, password string) (*inbound.UserDTO, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, errors.NewDatabaseError("look up user", err)
	}
	if u == nil || !u.IsActive() {
		return nil, errors.NewInvalidCredentialsError()
	}
	if err := u.CheckPassword(password); err != nil {
		return nil, errors.NewInvalidCredentialsError()
	}

	if err := s.users.UpdateLastLogin(ctx, u.ID()); err != nil {
		s.logger.Warn("failed to record login time", zap.Error(err))
	}

	return toDTO(u, true), nil
}

// GetProfile returns the public profile for a username
func (s *Service) GetProfile(ctx context.Context, username string) (*inbound.UserDTO, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, errors.NewDatabaseError("look up user", err)
	}
	if u == nil {
		return nil, errors.NewUserNotFoundError(username)
	}
	return toDTO(u, false), nil
}

// toDTO converts the entity; the email is only exposed to its owner
func toDTO(u *user.User, includeEmail bool) *inbound.UserDTO {
	dto := &inbound.UserDTO{
		ID:        u.ID(),
		Username:  u.Username(),
		Bio:       u.Bio(),
		CreatedAt: u.CreatedAt(),
	}
	if includeEmail {
		dto.Email = u.Email()
	}
	return dto
}
