package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/smokefree-kz/backend/internal/database/service"
	"github.com/smokefree-kz/backend/internal/database/types"
	"github.com/smokefree-kz/backend/internal/rest/handler"
	"github.com/smokefree-kz/backend/internal/rest/middleware/identity"
	restTypes "github.com/smokefree-kz/backend/internal/rest/types"
	"github.com/smokefree-kz/backend/internal/worker/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

type fakeAccounts struct {
	initialized []*service.NewAccount
}

func (f *fakeAccounts) InitializeAccount(_ context.Context, account *service.NewAccount) {
	f.initialized = append(f.initialized, account)
}

type fakeFriends struct {
	result     *service.InviteResult
	err        error
	lastCaller string
	lastFriend string
	lastAccept bool
}

func (f *fakeFriends) SendInvitation(_ context.Context, callerID, friendID string) (*service.InviteResult, error) {
	f.lastCaller = callerID
	f.lastFriend = friendID

	return f.result, f.err
}

func (f *fakeFriends) RespondToInvitation(_ context.Context, callerID, friendID string, accept bool) (*service.InviteResult, error) {
	f.lastCaller = callerID
	f.lastFriend = friendID
	f.lastAccept = accept

	return f.result, f.err
}

type fakeStats struct {
	stats      *service.Stats
	err        error
	lastWindow string
}

func (f *fakeStats) GetStats(_ context.Context, _, window string) (*service.Stats, error) {
	f.lastWindow = window

	return f.stats, f.err
}

type fakeWorkerStatuses struct {
	statuses []core.Status
	err      error
}

func (f *fakeWorkerStatuses) GetAllStatuses(context.Context) ([]core.Status, error) {
	return f.statuses, f.err
}

func newStatusRouter(workers handler.WorkerStatusLister) http.Handler {
	logger := zap.NewNop()
	statusHandler := handler.NewStatusHandler(workers, logger)

	router := bunrouter.New()
	router.Use(identity.New(logger).AsRESTMiddleware).WithGroup("/v1", func(g *bunrouter.Group) {
		g.GET("/workers", statusHandler.Workers)
	})

	return router
}

func newRouter(accounts handler.AccountInitializer, friends handler.FriendInviter, stats handler.StatsProvider) http.Handler {
	logger := zap.NewNop()
	accountHandler := handler.NewAccountHandler(accounts, logger)
	friendHandler := handler.NewFriendHandler(friends, logger)
	dashboardHandler := handler.NewDashboardHandler(stats, logger)

	router := bunrouter.New()
	router.Use(identity.New(logger).AsRESTMiddleware).WithGroup("/v1", func(g *bunrouter.Group) {
		g.POST("/events/user-created", accountHandler.UserCreated)
		g.POST("/friends/invite", friendHandler.Invite)
		g.POST("/friends/respond", friendHandler.Respond)
		g.GET("/dashboard", dashboardHandler.Get)
	})

	return router
}

func doRequest(t *testing.T, router http.Handler, method, path, userID, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if userID != "" {
		req.Header.Set(identity.Header, userID)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) restTypes.ErrorResponse {
	t.Helper()

	var resp restTypes.ErrorResponse
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &resp))

	return resp
}

func TestUserCreated(t *testing.T) {
	t.Parallel()

	accounts := &fakeAccounts{}
	router := newRouter(accounts, &fakeFriends{}, &fakeStats{})

	rec := doRequest(t, router, http.MethodPost, "/v1/events/user-created", "",
		`{"id":"user-1","email":"u@example.com","displayName":"Dana","photoUrl":"https://example.com/p.png"}`)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.Len(t, accounts.initialized, 1)
	assert.Equal(t, "user-1", accounts.initialized[0].ID)
	assert.Equal(t, "Dana", accounts.initialized[0].DisplayName)
}

func TestUserCreatedMissingID(t *testing.T) {
	t.Parallel()

	accounts := &fakeAccounts{}
	router := newRouter(accounts, &fakeFriends{}, &fakeStats{})

	rec := doRequest(t, router, http.MethodPost, "/v1/events/user-created", "", `{"email":"u@example.com"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, restTypes.ErrorInvalidArgument, decodeError(t, rec).Kind)
	assert.Empty(t, accounts.initialized)
}

func TestUserCreatedMalformedBody(t *testing.T) {
	t.Parallel()

	router := newRouter(&fakeAccounts{}, &fakeFriends{}, &fakeStats{})

	rec := doRequest(t, router, http.MethodPost, "/v1/events/user-created", "", `{not json`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, restTypes.ErrorInvalidArgument, decodeError(t, rec).Kind)
}

func TestInvite(t *testing.T) {
	t.Parallel()

	friends := &fakeFriends{result: &service.InviteResult{Success: true, Message: "Invitation sent"}}
	router := newRouter(&fakeAccounts{}, friends, &fakeStats{})

	rec := doRequest(t, router, http.MethodPost, "/v1/friends/invite", "caller-1", `{"friendId":"friend-1"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "caller-1", friends.lastCaller)
	assert.Equal(t, "friend-1", friends.lastFriend)

	var resp restTypes.InviteResponse
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Invitation sent", resp.Message)
}

func TestInviteErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
	}{
		{"missing friend id", service.ErrFriendIDRequired, http.StatusBadRequest, restTypes.ErrorInvalidArgument},
		{"unauthenticated", service.ErrUnauthenticated, http.StatusUnauthorized, restTypes.ErrorUnauthenticated},
		{"unknown user", types.ErrUserNotFound, http.StatusNotFound, restTypes.ErrorNotFound},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, restTypes.ErrorUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			friends := &fakeFriends{err: tt.err}
			router := newRouter(&fakeAccounts{}, friends, &fakeStats{})

			rec := doRequest(t, router, http.MethodPost, "/v1/friends/invite", "caller-1", `{"friendId":"x"}`)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantKind, decodeError(t, rec).Kind)
		})
	}
}

func TestRespond(t *testing.T) {
	t.Parallel()

	friends := &fakeFriends{result: &service.InviteResult{Success: true, Message: "Invitation accepted"}}
	router := newRouter(&fakeAccounts{}, friends, &fakeStats{})

	rec := doRequest(t, router, http.MethodPost, "/v1/friends/respond", "invitee-1",
		`{"friendId":"inviter-1","accept":true}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "invitee-1", friends.lastCaller)
	assert.Equal(t, "inviter-1", friends.lastFriend)
	assert.True(t, friends.lastAccept)
}

func TestRespondFailureIsInternal(t *testing.T) {
	t.Parallel()

	friends := &fakeFriends{err: errors.New("deadlock detected")}
	router := newRouter(&fakeAccounts{}, friends, &fakeStats{})

	rec := doRequest(t, router, http.MethodPost, "/v1/friends/respond", "invitee-1",
		`{"friendId":"inviter-1","accept":false}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, restTypes.ErrorInternal, decodeError(t, rec).Kind)
}

func TestDashboard(t *testing.T) {
	t.Parallel()

	stats := &fakeStats{stats: &service.Stats{
		TotalSmoked:   25,
		SmokeFreeDays: 1,
		MoneySaved:    "875.00 ₸",
		Streak:        4,
		Achievements:  []string{"fresh_start"},
	}}
	router := newRouter(&fakeAccounts{}, &fakeFriends{}, stats)

	rec := doRequest(t, router, http.MethodGet, "/v1/dashboard?type=week", "user-1", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "week", stats.lastWindow)

	var resp restTypes.DashboardResponse
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 25, resp.TotalSmokedCigarettes)
	assert.Equal(t, 1, resp.TotalSmokeFreeDays)
	assert.Equal(t, "875.00 ₸", resp.MoneySaved)
	assert.Equal(t, 4, resp.Streak)
	assert.Equal(t, []string{"fresh_start"}, resp.Achievements)
}

func TestDashboardWindowParam(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path string
		want string
	}{
		{"type key", "/v1/dashboard?type=month", "month"},
		{"window alias", "/v1/dashboard?window=week", "week"},
		{"type wins over alias", "/v1/dashboard?type=month&window=week", "month"},
		{"absent", "/v1/dashboard", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			stats := &fakeStats{stats: &service.Stats{MoneySaved: "0.00 ₸"}}
			router := newRouter(&fakeAccounts{}, &fakeFriends{}, stats)

			rec := doRequest(t, router, http.MethodGet, tt.path, "user-1", "")

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, stats.lastWindow)
		})
	}
}

func TestDashboardNilAchievements(t *testing.T) {
	t.Parallel()

	stats := &fakeStats{stats: &service.Stats{MoneySaved: "0.00 ₸"}}
	router := newRouter(&fakeAccounts{}, &fakeFriends{}, stats)

	rec := doRequest(t, router, http.MethodGet, "/v1/dashboard", "user-1", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"achievements":[]`)
}

func TestWorkerStatuses(t *testing.T) {
	t.Parallel()

	now := time.Now()
	workers := &fakeWorkerStatuses{statuses: []core.Status{
		{WorkerID: "worker-1", WorkerType: "rollover", LastSeen: now, CurrentTask: "processing users", Progress: 50, IsHealthy: true},
		{WorkerID: "worker-2", WorkerType: "rollover", LastSeen: now.Add(-time.Hour), IsHealthy: true},
	}}
	router := newStatusRouter(workers)

	rec := doRequest(t, router, http.MethodGet, "/v1/workers", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp restTypes.WorkerStatusResponse
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Workers, 2)

	assert.Equal(t, "worker-1", resp.Workers[0].WorkerID)
	assert.Equal(t, "processing users", resp.Workers[0].CurrentTask)
	assert.Equal(t, 50, resp.Workers[0].Progress)
	assert.True(t, resp.Workers[0].Online)

	// A heartbeat past the stale threshold reads as offline
	assert.False(t, resp.Workers[1].Online)
}

func TestWorkerStatusesEmpty(t *testing.T) {
	t.Parallel()

	router := newStatusRouter(&fakeWorkerStatuses{})

	rec := doRequest(t, router, http.MethodGet, "/v1/workers", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"workers":[]`)
}

func TestWorkerStatusesFailure(t *testing.T) {
	t.Parallel()

	router := newStatusRouter(&fakeWorkerStatuses{err: errors.New("redis down")})

	rec := doRequest(t, router, http.MethodGet, "/v1/workers", "", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, restTypes.ErrorInternal, decodeError(t, rec).Kind)
}

func TestDashboardUnauthenticated(t *testing.T) {
	t.Parallel()

	stats := &fakeStats{err: service.ErrUnauthenticated}
	router := newRouter(&fakeAccounts{}, &fakeFriends{}, stats)

	rec := doRequest(t, router, http.MethodGet, "/v1/dashboard", "", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, restTypes.ErrorUnauthenticated, decodeError(t, rec).Kind)
}
