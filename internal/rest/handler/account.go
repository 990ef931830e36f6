package handler

import (
	"context"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/smokefree-kz/backend/internal/database/service"
	restTypes "github.com/smokefree-kz/backend/internal/rest/types"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// AccountInitializer is the service surface the account handler needs.
type AccountInitializer interface {
	InitializeAccount(ctx context.Context, account *service.NewAccount)
}

// AccountHandler handles account lifecycle events.
type AccountHandler struct {
	accounts AccountInitializer
	logger   *zap.Logger
}

// NewAccountHandler creates a new account handler.
func NewAccountHandler(accounts AccountInitializer, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{
		accounts: accounts,
		logger:   logger,
	}
}

// UserCreated consumes an account-creation event and initializes the profile.
// The endpoint is idempotent: replays of the same event change nothing.
func (h *AccountHandler) UserCreated(w http.ResponseWriter, req bunrouter.Request) error {
	var event restTypes.UserCreatedEvent
	if err := sonic.ConfigDefault.NewDecoder(req.Body).Decode(&event); err != nil {
		return respondError(w, http.StatusBadRequest, restTypes.ErrorInvalidArgument, "malformed request body")
	}

	if event.ID == "" {
		return respondError(w, http.StatusBadRequest, restTypes.ErrorInvalidArgument, "id is required")
	}

	h.accounts.InitializeAccount(req.Context(), &service.NewAccount{
		ID:          event.ID,
		Email:       event.Email,
		DisplayName: event.DisplayName,
		PhotoURL:    event.PhotoURL,
	})

	w.WriteHeader(http.StatusNoContent)

	return nil
}
