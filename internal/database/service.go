package database

import (
	"github.com/smokefree-kz/backend/internal/database/service"
	"go.uber.org/zap"
)

// Service provides access to all business logic services.
type Service struct {
	account   *service.AccountService
	friend    *service.FriendService
	dashboard *service.DashboardService
}

// NewService creates a new service instance with all services.
func NewService(repository *Repository, notifier service.Notifier, logger *zap.Logger) *Service {
	userModel := repository.User()
	smokeLogModel := repository.SmokeLog()
	friendModel := repository.Friend()

	return &Service{
		account:   service.NewAccountService(userModel, smokeLogModel, logger),
		friend:    service.NewFriend(userModel, friendModel, notifier, logger),
		dashboard: service.NewDashboard(userModel, smokeLogModel, logger),
	}
}

// Account returns the account service.
func (s *Service) Account() *service.AccountService {
	return s.account
}

// Friend returns the friend service.
func (s *Service) Friend() *service.FriendService {
	return s.friend
}

// Dashboard returns the dashboard service.
func (s *Service) Dashboard() *service.DashboardService {
	return s.dashboard
}
