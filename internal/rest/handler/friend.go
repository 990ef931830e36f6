package handler

import (
	"context"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/smokefree-kz/backend/internal/database/service"
	"github.com/smokefree-kz/backend/internal/rest/middleware/identity"
	restTypes "github.com/smokefree-kz/backend/internal/rest/types"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// FriendInviter is the service surface the friend handler needs.
type FriendInviter interface {
	SendInvitation(ctx context.Context, callerID, friendID string) (*service.InviteResult, error)
	RespondToInvitation(ctx context.Context, callerID, friendID string, accept bool) (*service.InviteResult, error)
}

// FriendHandler handles friend invitation endpoints.
type FriendHandler struct {
	friends FriendInviter
	logger  *zap.Logger
}

// NewFriendHandler creates a new friend handler.
func NewFriendHandler(friends FriendInviter, logger *zap.Logger) *FriendHandler {
	return &FriendHandler{
		friends: friends,
		logger:  logger,
	}
}

// Invite sends a friend invitation from the caller to another user.
func (h *FriendHandler) Invite(w http.ResponseWriter, req bunrouter.Request) error {
	var body restTypes.InviteFriendRequest
	if err := sonic.ConfigDefault.NewDecoder(req.Body).Decode(&body); err != nil {
		return respondError(w, http.StatusBadRequest, restTypes.ErrorInvalidArgument, "malformed request body")
	}

	result, err := h.friends.SendInvitation(req.Context(), identity.UserID(req.Context()), body.FriendID)
	if err != nil {
		h.logger.Error("Failed to send invitation", zap.Error(err))
		return mapServiceError(w, err, restTypes.ErrorUnknown)
	}

	return bunrouter.JSON(w, restTypes.InviteResponse{
		Success: result.Success,
		Message: result.Message,
	})
}

// Respond accepts or rejects a pending invitation addressed to the caller.
func (h *FriendHandler) Respond(w http.ResponseWriter, req bunrouter.Request) error {
	var body restTypes.HandleInvitationRequest
	if err := sonic.ConfigDefault.NewDecoder(req.Body).Decode(&body); err != nil {
		return respondError(w, http.StatusBadRequest, restTypes.ErrorInvalidArgument, "malformed request body")
	}

	result, err := h.friends.RespondToInvitation(req.Context(), identity.UserID(req.Context()), body.FriendID, body.Accept)
	if err != nil {
		h.logger.Error("Failed to respond to invitation", zap.Error(err))
		return mapServiceError(w, err, restTypes.ErrorInternal)
	}

	return bunrouter.JSON(w, restTypes.InviteResponse{
		Success: result.Success,
		Message: result.Message,
	})
}
