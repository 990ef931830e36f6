package service_test

import (
	"context"

	"github.com/smokefree-kz/backend/internal/database/types"
)

type fakeUserStore struct {
	users     map[string]*types.User
	created   []*types.User
	createErr error
}

func newFakeUserStore(users ...*types.User) *fakeUserStore {
	store := &fakeUserStore{users: make(map[string]*types.User)}
	for _, user := range users {
		store.users[user.ID] = user
	}

	return store
}

func (f *fakeUserStore) CreateUser(_ context.Context, user *types.User) error {
	if f.createErr != nil {
		return f.createErr
	}

	f.created = append(f.created, user)
	f.users[user.ID] = user

	return nil
}

func (f *fakeUserStore) GetUser(_ context.Context, id string) (*types.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, types.ErrUserNotFound
	}

	return user, nil
}

type fakeSmokeLogStore struct {
	logs      []*types.SmokeLog
	createErr error
	lastFrom  string
}

func (f *fakeSmokeLogStore) CreateSmokeLog(_ context.Context, log *types.SmokeLog) error {
	if f.createErr != nil {
		return f.createErr
	}

	f.logs = append(f.logs, log)

	return nil
}

func (f *fakeSmokeLogStore) GetSmokeLogsSince(_ context.Context, userID, fromDate string) ([]*types.SmokeLog, error) {
	f.lastFrom = fromDate

	var out []*types.SmokeLog
	for _, log := range f.logs {
		if log.UserID == userID && log.Date >= fromDate {
			out = append(out, log)
		}
	}

	return out, nil
}

type fakeFriendStore struct {
	friends     map[string]map[string]bool
	invitations map[string]map[string]bool
	resolveErr  error
}

func newFakeFriendStore() *fakeFriendStore {
	return &fakeFriendStore{
		friends:     make(map[string]map[string]bool),
		invitations: make(map[string]map[string]bool),
	}
}

func (f *fakeFriendStore) addFriend(userID, friendID string) {
	if f.friends[userID] == nil {
		f.friends[userID] = make(map[string]bool)
	}

	f.friends[userID][friendID] = true
}

func (f *fakeFriendStore) IsFriend(_ context.Context, userID, friendID string) (bool, error) {
	return f.friends[userID][friendID], nil
}

func (f *fakeFriendStore) AddInvitation(_ context.Context, inviteeID, inviterID string) error {
	if f.invitations[inviteeID] == nil {
		f.invitations[inviteeID] = make(map[string]bool)
	}

	f.invitations[inviteeID][inviterID] = true

	return nil
}

func (f *fakeFriendStore) ResolveInvitation(_ context.Context, inviteeID, inviterID string, accept bool) error {
	if f.resolveErr != nil {
		return f.resolveErr
	}

	delete(f.invitations[inviteeID], inviterID)

	if accept {
		f.addFriend(inviteeID, inviterID)
		f.addFriend(inviterID, inviteeID)
	}

	return nil
}

type sentPush struct {
	token string
	title string
	body  string
}

type fakeNotifier struct {
	sent []sentPush
	err  error
}

func (f *fakeNotifier) Send(_ context.Context, token, title, body string) error {
	if f.err != nil {
		return f.err
	}

	f.sent = append(f.sent, sentPush{token: token, title: title, body: body})

	return nil
}
