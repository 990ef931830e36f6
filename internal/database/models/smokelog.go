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

// SmokeLogModel handles database operations for daily smoke logs.
type SmokeLogModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewSmokeLog creates a new smoke log model.
func NewSmokeLog(db *bun.DB, logger *zap.Logger) *SmokeLogModel {
	return &SmokeLogModel{
		db:     db,
		logger: logger.Named("db_smoke_log"),
	}
}

// CreateSmokeLog inserts a log entry for one user and day. The rollover job
// may run many times per day, so an existing (user, day) row is left as is.
func (r *SmokeLogModel) CreateSmokeLog(ctx context.Context, log *types.SmokeLog) error {
	log.CreatedAt = time.Now()

	_, err := r.db.NewInsert().
		Model(log).
		On("CONFLICT (user_id, date) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create smoke log %s/%s: %w", log.UserID, log.Date, err)
	}

	return nil
}

// GetSmokeLog retrieves the entry for one user and calendar day.
func (r *SmokeLogModel) GetSmokeLog(ctx context.Context, userID, date string) (*types.SmokeLog, error) {
	var log types.SmokeLog

	err := r.db.NewSelect().
		Model(&log).
		Where("user_id = ?", userID).
		Where("date = ?", date).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrSmokeLogNotFound
		}
		return nil, fmt.Errorf("failed to get smoke log %s/%s: %w", userID, date, err)
	}

	return &log, nil
}

// HasSmokeLog reports whether an entry exists for one user and calendar day.
func (r *SmokeLogModel) HasSmokeLog(ctx context.Context, userID, date string) (bool, error) {
	exists, err := r.db.NewSelect().
		Model((*types.SmokeLog)(nil)).
		Where("user_id = ?", userID).
		Where("date = ?", date).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check smoke log %s/%s: %w", userID, date, err)
	}

	return exists, nil
}

// GetSmokeLogsSince returns a user's entries with date >= fromDate, oldest
// first. ISO dates compare correctly as strings.
func (r *SmokeLogModel) GetSmokeLogsSince(ctx context.Context, userID, fromDate string) ([]*types.SmokeLog, error) {
	var logs []*types.SmokeLog

	err := r.db.NewSelect().
		Model(&logs).
		Where("user_id = ?", userID).
		Where("date >= ?", fromDate).
		Order("date").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get smoke logs for user %s: %w", userID, err)
	}

	return logs, nil
}
