package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

var (
	// ErrFriendIDRequired is returned when a request is missing the friend ID.
	ErrFriendIDRequired = errors.New("friend id is required")
	// ErrUnauthenticated is returned when the caller identity is missing.
	ErrUnauthenticated = errors.New("caller is not authenticated")
)

// InviteResult is the outcome of an invitation operation.
type InviteResult struct {
	Success bool
	Message string
}

// FriendService manages invitations and friendships between users.
type FriendService struct {
	users    UserStore
	friends  FriendStore
	notifier Notifier
	logger   *zap.Logger
}

// NewFriend creates a new friend service.
func NewFriend(users UserStore, friends FriendStore, notifier Notifier, logger *zap.Logger) *FriendService {
	return &FriendService{
		users:    users,
		friends:  friends,
		notifier: notifier,
		logger:   logger.Named("friend_service"),
	}
}

// SendInvitation records a pending invitation from the caller to the given
// user. Sending to an existing friend is a soft success and changes nothing.
// Re-sending an identical invitation is idempotent.
func (s *FriendService) SendInvitation(ctx context.Context, callerID, friendID string) (*InviteResult, error) {
	if strings.TrimSpace(friendID) == "" {
		return nil, ErrFriendIDRequired
	}

	if strings.TrimSpace(callerID) == "" {
		return nil, ErrUnauthenticated
	}

	caller, err := s.users.GetUser(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load caller profile: %w", err)
	}

	invitee, err := s.users.GetUser(ctx, friendID)
	if err != nil {
		return nil, fmt.Errorf("failed to load invitee profile: %w", err)
	}

	// Friendship is symmetric, so one direction is enough to check.
	already, err := s.friends.IsFriend(ctx, friendID, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to check friendship: %w", err)
	}

	if already {
		return &InviteResult{Success: true, Message: "You are already friends"}, nil
	}

	if err := s.friends.AddInvitation(ctx, friendID, callerID); err != nil {
		return nil, fmt.Errorf("failed to record invitation: %w", err)
	}

	if invitee.FCMToken != "" {
		title := "New friend invitation"
		body := fmt.Sprintf("%s wants to be your friend", caller.Name)

		if err := s.notifier.Send(ctx, invitee.FCMToken, title, body); err != nil {
			s.logger.Warn("Failed to send invitation notification",
				zap.String("inviteeID", friendID),
				zap.Error(err))
		}
	}

	s.logger.Info("Invitation sent",
		zap.String("inviterID", callerID),
		zap.String("inviteeID", friendID))

	return &InviteResult{Success: true, Message: "Invitation sent"}, nil
}

// RespondToInvitation accepts or rejects a pending invitation addressed to
// the caller. Acceptance establishes the friendship in both directions and
// removes the invitation atomically; the notification to the inviter is sent
// only after the transaction commits.
func (s *FriendService) RespondToInvitation(ctx context.Context, callerID, friendID string, accept bool) (*InviteResult, error) {
	if strings.TrimSpace(friendID) == "" {
		return nil, ErrFriendIDRequired
	}

	if strings.TrimSpace(callerID) == "" {
		return nil, ErrUnauthenticated
	}

	if err := s.friends.ResolveInvitation(ctx, callerID, friendID, accept); err != nil {
		return nil, fmt.Errorf("failed to resolve invitation: %w", err)
	}

	if !accept {
		s.logger.Info("Invitation rejected",
			zap.String("inviteeID", callerID),
			zap.String("inviterID", friendID))

		return &InviteResult{Success: true, Message: "Invitation rejected"}, nil
	}

	s.notifyAcceptance(ctx, callerID, friendID)

	s.logger.Info("Invitation accepted",
		zap.String("inviteeID", callerID),
		zap.String("inviterID", friendID))

	return &InviteResult{Success: true, Message: "Invitation accepted"}, nil
}

// notifyAcceptance tells the inviter that their invitation was accepted.
// Failures here never affect the already committed friendship.
func (s *FriendService) notifyAcceptance(ctx context.Context, callerID, inviterID string) {
	inviter, err := s.users.GetUser(ctx, inviterID)
	if err != nil {
		s.logger.Warn("Failed to load inviter for notification",
			zap.String("inviterID", inviterID),
			zap.Error(err))
		return
	}

	if inviter.FCMToken == "" {
		return
	}

	caller, err := s.users.GetUser(ctx, callerID)
	if err != nil {
		s.logger.Warn("Failed to load accepter for notification",
			zap.String("userID", callerID),
			zap.Error(err))
		return
	}

	title := "Invitation accepted"
	body := fmt.Sprintf("%s accepted your friend invitation", caller.Name)

	if err := s.notifier.Send(ctx, inviter.FCMToken, title, body); err != nil {
		s.logger.Warn("Failed to send acceptance notification",
			zap.String("inviterID", inviterID),
			zap.Error(err))
	}
}
