package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/smokefree-kz/backend/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// UserModel handles database operations for user profiles.
type UserModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewUser creates a new user model.
func NewUser(db *bun.DB, logger *zap.Logger) *UserModel {
	return &UserModel{
		db:     db,
		logger: logger.Named("db_user"),
	}
}

// CreateUser inserts a new profile row. Account-creation events can be
// redelivered, so an existing row with the same id is left untouched.
func (r *UserModel) CreateUser(ctx context.Context, user *types.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.db.NewInsert().
		Model(user).
		On("CONFLICT (id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create user %s: %w", user.ID, err)
	}

	return nil
}

// GetUser retrieves a profile by id.
func (r *UserModel) GetUser(ctx context.Context, id string) (*types.User, error) {
	var user types.User

	err := r.db.NewSelect().
		Model(&user).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}

	return &user, nil
}

// ListUsers returns every profile. The rollover job walks the full user
// population each run.
func (r *UserModel) ListUsers(ctx context.Context) ([]*types.User, error) {
	var users []*types.User

	err := r.db.NewSelect().
		Model(&users).
		Order("id").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

// SetStreak updates the consecutive-smoke-free-day streak for a user.
func (r *UserModel) SetStreak(ctx context.Context, id string, streak int) error {
	_, err := r.db.NewUpdate().
		Model((*types.User)(nil)).
		Set("streak = ?", streak).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to set streak for user %s: %w", id, err)
	}

	return nil
}
