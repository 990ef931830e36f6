package rollover_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/smokefree-kz/backend/internal/database/types"
	"github.com/smokefree-kz/backend/internal/worker/rollover"
	"github.com/smokefree-kz/backend/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeStore struct {
	mu      sync.Mutex
	users   []*types.User
	logs    map[string]map[string]*types.SmokeLog // userID -> date -> log
	streaks map[string]int
	listErr error
	logErrs map[string]error // per-user GetSmokeLog failures
}

func newFakeStore(users ...*types.User) *fakeStore {
	return &fakeStore{
		users:   users,
		logs:    make(map[string]map[string]*types.SmokeLog),
		streaks: make(map[string]int),
		logErrs: make(map[string]error),
	}
}

func (f *fakeStore) addLog(userID, date string, cigarettes int) {
	if f.logs[userID] == nil {
		f.logs[userID] = make(map[string]*types.SmokeLog)
	}

	f.logs[userID][date] = &types.SmokeLog{UserID: userID, Date: date, Cigarettes: cigarettes}
}

func (f *fakeStore) ListUsers(context.Context) ([]*types.User, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}

	return f.users, nil
}

func (f *fakeStore) HasSmokeLog(_ context.Context, userID, date string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, ok := f.logs[userID][date]

	return ok, nil
}

func (f *fakeStore) GetSmokeLog(_ context.Context, userID, date string) (*types.SmokeLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.logErrs[userID]; err != nil {
		return nil, err
	}

	log, ok := f.logs[userID][date]
	if !ok {
		return nil, types.ErrSmokeLogNotFound
	}

	return log, nil
}

func (f *fakeStore) CreateSmokeLog(_ context.Context, log *types.SmokeLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.logs[log.UserID] == nil {
		f.logs[log.UserID] = make(map[string]*types.SmokeLog)
	}

	if _, ok := f.logs[log.UserID][log.Date]; !ok {
		f.logs[log.UserID][log.Date] = log
	}

	return nil
}

func (f *fakeStore) SetStreak(_ context.Context, id string, streak int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.streaks[id] = streak

	return nil
}

type fakeMetrics struct {
	mu     sync.Mutex
	counts map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{counts: make(map[string]int)}
}

func (f *fakeMetrics) IncrementDailyStat(_ context.Context, field string, count int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.counts[field] += count

	return nil
}

func newWorker(store rollover.Store, m rollover.Metrics) *rollover.Worker {
	return rollover.New(store, m, nil, 4, zap.NewNop())
}

func TestRunExtendsStreakAfterSmokeFreeDay(t *testing.T) {
	t.Parallel()

	store := newFakeStore(&types.User{ID: "user-1", Streak: 4})
	store.addLog("user-1", utils.Yesterday(), 0)

	worker := newWorker(store, newFakeMetrics())
	require.NoError(t, worker.Run(t.Context()))

	assert.Equal(t, 5, store.streaks["user-1"])

	today, ok := store.logs["user-1"][utils.Today()]
	require.True(t, ok)
	assert.Zero(t, today.Cigarettes)
}

func TestRunResetsStreakAfterSmokingDay(t *testing.T) {
	t.Parallel()

	store := newFakeStore(&types.User{ID: "user-1", Streak: 9})
	store.addLog("user-1", utils.Yesterday(), 3)

	worker := newWorker(store, newFakeMetrics())
	require.NoError(t, worker.Run(t.Context()))

	assert.Zero(t, store.streaks["user-1"])
}

func TestRunResetsStreakOnMissingDay(t *testing.T) {
	t.Parallel()

	store := newFakeStore(&types.User{ID: "user-1", Streak: 2})

	worker := newWorker(store, newFakeMetrics())
	require.NoError(t, worker.Run(t.Context()))

	assert.Zero(t, store.streaks["user-1"])

	_, ok := store.logs["user-1"][utils.Today()]
	assert.True(t, ok)
}

func TestRunSkipsAlreadyRolledUsers(t *testing.T) {
	t.Parallel()

	store := newFakeStore(&types.User{ID: "user-1", Streak: 4})
	store.addLog("user-1", utils.Yesterday(), 0)
	store.addLog("user-1", utils.Today(), 0)

	worker := newWorker(store, newFakeMetrics())
	require.NoError(t, worker.Run(t.Context()))

	// A second pass on the same day must not touch the streak again.
	_, touched := store.streaks["user-1"]
	assert.False(t, touched)
}

func TestRunIsolatesUserFailures(t *testing.T) {
	t.Parallel()

	store := newFakeStore(
		&types.User{ID: "broken", Streak: 1},
		&types.User{ID: "fine", Streak: 1},
	)
	store.addLog("fine", utils.Yesterday(), 0)
	store.logErrs["broken"] = errors.New("connection reset")

	worker := newWorker(store, newFakeMetrics())
	require.NoError(t, worker.Run(t.Context()))

	assert.Equal(t, 2, store.streaks["fine"])
	_, touched := store.streaks["broken"]
	assert.False(t, touched)
}

func TestRunRecordsMetrics(t *testing.T) {
	t.Parallel()

	store := newFakeStore(
		&types.User{ID: "extended", Streak: 1},
		&types.User{ID: "reset"},
	)
	store.addLog("extended", utils.Yesterday(), 0)
	store.addLog("reset", utils.Yesterday(), 7)

	m := newFakeMetrics()
	worker := newWorker(store, m)
	require.NoError(t, worker.Run(t.Context()))

	assert.Equal(t, 2, m.counts["users_processed"])
	assert.Equal(t, 2, m.counts["logs_created"])
	assert.Equal(t, 1, m.counts["streaks_extended"])
	assert.Equal(t, 1, m.counts["streaks_reset"])
}

func TestRunListFailure(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.listErr = errors.New("connection refused")

	worker := newWorker(store, newFakeMetrics())
	require.Error(t, worker.Run(t.Context()))
}
