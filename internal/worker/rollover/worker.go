// Package rollover implements the daily streak rollover pass.
package rollover

import (
	"context"
	"errors"
	"fmt"

	"github.com/smokefree-kz/backend/internal/database"
	"github.com/smokefree-kz/backend/internal/database/models"
	"github.com/smokefree-kz/backend/internal/database/types"
	"github.com/smokefree-kz/backend/internal/metrics"
	"github.com/smokefree-kz/backend/internal/worker/core"
	"github.com/smokefree-kz/backend/pkg/utils"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// DefaultConcurrency bounds how many users are rolled over at once.
const DefaultConcurrency = 16

// Store is the database access the rollover pass needs.
type Store interface {
	ListUsers(ctx context.Context) ([]*types.User, error)
	HasSmokeLog(ctx context.Context, userID, date string) (bool, error)
	GetSmokeLog(ctx context.Context, userID, date string) (*types.SmokeLog, error)
	CreateSmokeLog(ctx context.Context, log *types.SmokeLog) error
	SetStreak(ctx context.Context, id string, streak int) error
}

// Metrics records rollover counters.
type Metrics interface {
	IncrementDailyStat(ctx context.Context, field string, count int) error
}

// repoStore adapts the repository to the Store interface.
type repoStore struct {
	users *models.UserModel
	logs  *models.SmokeLogModel
}

// NewStore wraps a repository for use by the rollover worker.
func NewStore(repo *database.Repository) Store {
	return &repoStore{
		users: repo.User(),
		logs:  repo.SmokeLog(),
	}
}

func (s *repoStore) ListUsers(ctx context.Context) ([]*types.User, error) {
	return s.users.ListUsers(ctx)
}

func (s *repoStore) HasSmokeLog(ctx context.Context, userID, date string) (bool, error) {
	return s.logs.HasSmokeLog(ctx, userID, date)
}

func (s *repoStore) GetSmokeLog(ctx context.Context, userID, date string) (*types.SmokeLog, error) {
	return s.logs.GetSmokeLog(ctx, userID, date)
}

func (s *repoStore) CreateSmokeLog(ctx context.Context, log *types.SmokeLog) error {
	return s.logs.CreateSmokeLog(ctx, log)
}

func (s *repoStore) SetStreak(ctx context.Context, id string, streak int) error {
	return s.users.SetStreak(ctx, id, streak)
}

// Worker performs the daily rollover: for every user it opens a fresh
// zero-count log for today and recomputes the streak from yesterday's log.
type Worker struct {
	store       Store
	metrics     Metrics
	reporter    *core.StatusReporter
	concurrency int
	logger      *zap.Logger
}

// New creates a rollover worker. The reporter may be nil in tests.
func New(store Store, m Metrics, reporter *core.StatusReporter, concurrency int, logger *zap.Logger) *Worker {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	return &Worker{
		store:       store,
		metrics:     m,
		reporter:    reporter,
		concurrency: concurrency,
		logger:      logger.Named("rollover"),
	}
}

// Run executes one rollover pass. Per-user failures are logged and do not
// stop the pass; the pass is safe to re-run, users that already have a log
// for today are skipped entirely.
func (w *Worker) Run(ctx context.Context) error {
	today := utils.Today()
	yesterday := utils.Yesterday()

	w.updateStatus("Listing users", 0)

	users, err := w.store.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	w.updateStatus("Processing users", 10)
	w.logger.Info("Starting rollover pass",
		zap.String("date", today),
		zap.Int("users", len(users)))

	p := pool.New().WithContext(ctx).WithMaxGoroutines(w.concurrency)
	for _, user := range users {
		p.Go(func(ctx context.Context) error {
			if err := w.processUser(ctx, user, today, yesterday); err != nil {
				w.logger.Error("Failed to roll over user",
					zap.String("userID", user.ID),
					zap.Error(err))
			}

			// One failed user never aborts the pass.
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		return fmt.Errorf("rollover pass interrupted: %w", err)
	}

	w.incrementStat(ctx, metrics.FieldUsersProcessed, len(users))
	w.updateStatus("Pass complete", 100)
	w.logger.Info("Finished rollover pass", zap.String("date", today))

	return nil
}

// processUser rolls a single user into the new day.
func (w *Worker) processUser(ctx context.Context, user *types.User, today, yesterday string) error {
	exists, err := w.store.HasSmokeLog(ctx, user.ID, today)
	if err != nil {
		return fmt.Errorf("failed to check today's log: %w", err)
	}

	// Already rolled over, either by a previous pass or a concurrent worker.
	if exists {
		return nil
	}

	streak := 0
	statField := metrics.FieldStreaksReset

	yesterdayLog, err := w.store.GetSmokeLog(ctx, user.ID, yesterday)

	switch {
	case errors.Is(err, types.ErrSmokeLogNotFound):
		// No log yesterday counts as a broken streak.
	case err != nil:
		return fmt.Errorf("failed to load yesterday's log: %w", err)
	case yesterdayLog.Cigarettes == 0:
		streak = user.Streak + 1
		statField = metrics.FieldStreaksExtended
	}

	todayLog := &types.SmokeLog{
		UserID: user.ID,
		Date:   today,
	}

	if err := w.store.CreateSmokeLog(ctx, todayLog); err != nil {
		return fmt.Errorf("failed to create today's log: %w", err)
	}

	if err := w.store.SetStreak(ctx, user.ID, streak); err != nil {
		return fmt.Errorf("failed to update streak: %w", err)
	}

	w.incrementStat(ctx, metrics.FieldLogsCreated, 1)
	w.incrementStat(ctx, statField, 1)

	return nil
}

func (w *Worker) updateStatus(task string, progress int) {
	if w.reporter != nil {
		w.reporter.UpdateStatus(task, progress)
	}
}

func (w *Worker) incrementStat(ctx context.Context, field string, count int) {
	if w.metrics == nil || count == 0 {
		return
	}

	if err := w.metrics.IncrementDailyStat(ctx, field, count); err != nil {
		w.logger.Warn("Failed to record rollover stat",
			zap.String("field", field),
			zap.Error(err))
	}
}
