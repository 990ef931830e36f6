package database

import (
	"github.com/smokefree-kz/backend/internal/database/models"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// Repository provides access to all database models.
type Repository struct {
	user     *models.UserModel
	smokeLog *models.SmokeLogModel
	friend   *models.FriendModel
}

// NewRepository creates a new repository instance with all models.
func NewRepository(db *bun.DB, logger *zap.Logger) *Repository {
	return &Repository{
		user:     models.NewUser(db, logger),
		smokeLog: models.NewSmokeLog(db, logger),
		friend:   models.NewFriend(db, logger),
	}
}

// User returns the user model repository.
func (r *Repository) User() *models.UserModel {
	return r.user
}

// SmokeLog returns the smoke log model repository.
func (r *Repository) SmokeLog() *models.SmokeLogModel {
	return r.smokeLog
}

// Friend returns the friend model repository.
func (r *Repository) Friend() *models.FriendModel {
	return r.friend
}
