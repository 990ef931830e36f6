// Package service contains the business logic layered on top of the models.
// Services depend on narrow store interfaces so the logic can be exercised
// without a live database; the models package provides the implementations.
package service

import (
	"context"

	"github.com/smokefree-kz/backend/internal/database/types"
)

// UserStore is the profile access needed by the services.
type UserStore interface {
	CreateUser(ctx context.Context, user *types.User) error
	GetUser(ctx context.Context, id string) (*types.User, error)
}

// SmokeLogStore is the daily log access needed by the services.
type SmokeLogStore interface {
	CreateSmokeLog(ctx context.Context, log *types.SmokeLog) error
	GetSmokeLogsSince(ctx context.Context, userID, fromDate string) ([]*types.SmokeLog, error)
}

// FriendStore is the relationship access needed by the friend service.
// ResolveInvitation is the single all-or-nothing operation in the system.
type FriendStore interface {
	IsFriend(ctx context.Context, userID, friendID string) (bool, error)
	AddInvitation(ctx context.Context, inviteeID, inviterID string) error
	ResolveInvitation(ctx context.Context, inviteeID, inviterID string, accept bool) error
}

// Notifier delivers push notifications. Delivery is best effort everywhere
// it is used; callers log failures and move on.
type Notifier interface {
	Send(ctx context.Context, token, title, body string) error
}
