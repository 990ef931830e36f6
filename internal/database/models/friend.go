package models

import (
	"context"
	"fmt"
	"time"

	"github.com/smokefree-kz/backend/internal/database/dbretry"
	"github.com/smokefree-kz/backend/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// FriendModel handles database operations for friendships and invitations.
type FriendModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewFriend creates a new friend model.
func NewFriend(db *bun.DB, logger *zap.Logger) *FriendModel {
	return &FriendModel{
		db:     db,
		logger: logger.Named("db_friend"),
	}
}

// IsFriend reports whether friendID is in userID's friend set. Friendships
// are symmetric, so checking one direction is sufficient.
func (r *FriendModel) IsFriend(ctx context.Context, userID, friendID string) (bool, error) {
	exists, err := r.db.NewSelect().
		Model((*types.Friendship)(nil)).
		Where("user_id = ?", userID).
		Where("friend_id = ?", friendID).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check friendship %s/%s: %w", userID, friendID, err)
	}

	return exists, nil
}

// AddInvitation adds inviterID to inviteeID's pending-invitations set.
// Duplicate sends are absorbed by the conflict clause (set-union semantics).
func (r *FriendModel) AddInvitation(ctx context.Context, inviteeID, inviterID string) error {
	invitation := &types.Invitation{
		InviteeID: inviteeID,
		InviterID: inviterID,
		CreatedAt: time.Now(),
	}

	_, err := r.db.NewInsert().
		Model(invitation).
		On("CONFLICT (invitee_id, inviter_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to add invitation %s -> %s: %w", inviterID, inviteeID, err)
	}

	return nil
}

// ResolveInvitation removes inviterID from inviteeID's pending set and, when
// accept is true, inserts both directions of the friendship. Everything runs
// inside one retried transaction: a half-applied friendship would violate
// the symmetry invariant under concurrent modification.
func (r *FriendModel) ResolveInvitation(ctx context.Context, inviteeID, inviterID string, accept bool) error {
	return dbretry.Transaction(ctx, r.db, func(ctx context.Context, tx bun.Tx) error {
		// Both participants must still exist at resolution time
		for _, id := range []string{inviteeID, inviterID} {
			exists, err := tx.NewSelect().
				Model((*types.User)(nil)).
				Where("id = ?", id).
				Exists(ctx)
			if err != nil {
				return fmt.Errorf("failed to check user %s: %w", id, err)
			}
			if !exists {
				return types.ErrUserNotFound
			}
		}

		// Remove the pending invitation (set-difference, at most one row)
		if _, err := tx.NewDelete().
			Model((*types.Invitation)(nil)).
			Where("invitee_id = ?", inviteeID).
			Where("inviter_id = ?", inviterID).
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to remove invitation %s -> %s: %w", inviterID, inviteeID, err)
		}

		if !accept {
			return nil
		}

		now := time.Now()
		friendships := []*types.Friendship{
			{UserID: inviteeID, FriendID: inviterID, CreatedAt: now},
			{UserID: inviterID, FriendID: inviteeID, CreatedAt: now},
		}

		if _, err := tx.NewInsert().
			Model(&friendships).
			On("CONFLICT (user_id, friend_id) DO NOTHING").
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to create friendship %s <-> %s: %w", inviteeID, inviterID, err)
		}

		return nil
	})
}
