package gorm

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/receptar/receptar/internal/domain/user"
	"github.com/receptar/receptar/internal/ports/outbound"
)

// UserRepository implements the user repository interface using GORM
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) outbound.UserRepository {
	return &UserRepository{db: db}
}

// Create persists a new user
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	return dbFrom(ctx, r.db).Create(UserToModel(u)).Error
}

// Update writes a user's mutable fields
func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	db := dbFrom(ctx, r.db)
	result := db.Model(&UserModel{}).
		Where("id = ?", u.ID()).
		Select("email", "password_hash", "bio", "is_active", "updated_at", "last_login_at").
		Updates(UserToModel(u))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("user not found")
	}
	return nil
}

// FindByID finds a user by ID, nil when absent
func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByUsername finds a user by username, nil when absent
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	return r.findOne(ctx, "username = ?", username)
}

// FindByEmail finds a user by email, nil when absent
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

// Exists reports whether a user row with the given ID is present
func (r *UserRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := dbFrom(ctx, r.db).Model(&UserModel{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// UpdateLastLogin stamps the user's last successful authentication
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	return dbFrom(ctx, r.db).Model(&UserModel{}).
		Where("id = ?", id).
		Update("last_login_at", time.Now()).Error
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg any) (*user.User, error) {
	var model UserModel
	err := dbFrom(ctx, r.db).First(&model, query, arg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return ModelToUser(&model), nil
}
