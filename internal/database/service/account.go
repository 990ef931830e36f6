package service

import (
	"context"

	"github.com/smokefree-kz/backend/internal/database/types"
	"github.com/smokefree-kz/backend/pkg/utils"
	"go.uber.org/zap"
)

// NewAccount carries the identity attributes of a freshly created account.
type NewAccount struct {
	ID          string
	Email       string
	DisplayName string
	PhotoURL    string
}

// AccountService initializes profiles for newly created accounts.
type AccountService struct {
	users  UserStore
	logs   SmokeLogStore
	logger *zap.Logger
}

// NewAccountService creates a new account service.
func NewAccountService(users UserStore, logs SmokeLogStore, logger *zap.Logger) *AccountService {
	return &AccountService{
		users:  users,
		logs:   logs,
		logger: logger.Named("account_service"),
	}
}

// InitializeAccount creates the profile document and the day-zero smoke log
// for a new account. The two writes are independent: a failure of either is
// logged but neither rolls the other back. A profile without a log entry (or
// vice versa) is recoverable state, healed by the rollover job or a replayed
// event.
func (s *AccountService) InitializeAccount(ctx context.Context, account *NewAccount) {
	name := account.DisplayName
	if name == "" {
		name = types.DefaultDisplayName
	}

	user := &types.User{
		ID:           account.ID,
		Email:        account.Email,
		Name:         name,
		PhotoURL:     account.PhotoURL,
		Achievements: []string{types.InitialAchievement},
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		s.logger.Error("Failed to create user profile",
			zap.String("userID", account.ID),
			zap.Error(err))
	}

	dayZero := &types.SmokeLog{
		UserID: account.ID,
		Date:   utils.Today(),
	}

	if err := s.logs.CreateSmokeLog(ctx, dayZero); err != nil {
		s.logger.Error("Failed to create day-zero smoke log",
			zap.String("userID", account.ID),
			zap.Error(err))
	}

	s.logger.Info("Initialized account",
		zap.String("userID", account.ID),
		zap.String("dayZero", dayZero.Date))
}
