package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/smokefree-kz/backend/pkg/utils"
	"go.uber.org/zap"
)

// Aggregation windows accepted by GetStats. Anything else falls back to a year.
const (
	WindowYear  = "year"
	WindowMonth = "month"
	WindowWeek  = "week"
)

const (
	// CigarettesPerPack is the pack size used for savings math.
	CigarettesPerPack = 20
	// PackPriceTenge is the reference price of one pack in tenge.
	PackPriceTenge = 500.0
)

// pricePerCigarette is the per-cigarette cost derived from the pack price.
const pricePerCigarette = PackPriceTenge / CigarettesPerPack

// Stats is the aggregated dashboard view for one user.
type Stats struct {
	TotalSmoked   int
	SmokeFreeDays int
	MoneySaved    string
	Streak        int
	Achievements  []string
}

// DashboardService computes aggregate statistics over a user's smoke logs.
type DashboardService struct {
	users  UserStore
	logs   SmokeLogStore
	logger *zap.Logger
}

// NewDashboard creates a new dashboard service.
func NewDashboard(users UserStore, logs SmokeLogStore, logger *zap.Logger) *DashboardService {
	return &DashboardService{
		users:  users,
		logs:   logs,
		logger: logger.Named("dashboard_service"),
	}
}

// GetStats aggregates the caller's smoke logs over the requested window.
// Streak and achievements come straight off the profile and are not
// window-dependent.
func (s *DashboardService) GetStats(ctx context.Context, callerID, window string) (*Stats, error) {
	if strings.TrimSpace(callerID) == "" {
		return nil, ErrUnauthenticated
	}

	user, err := s.users.GetUser(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user profile: %w", err)
	}

	fromDate := utils.FormatDate(windowStart(time.Now(), window))

	logs, err := s.logs.GetSmokeLogsSince(ctx, callerID, fromDate)
	if err != nil {
		return nil, fmt.Errorf("failed to load smoke logs: %w", err)
	}

	var totalSmoked, freeDays int
	var saved float64

	for _, log := range logs {
		totalSmoked += log.Cigarettes
		if log.Cigarettes == 0 {
			freeDays++
		}

		saved += float64(CigarettesPerPack-log.Cigarettes) * pricePerCigarette
	}

	return &Stats{
		TotalSmoked:   totalSmoked,
		SmokeFreeDays: freeDays,
		MoneySaved:    FormatMoney(saved),
		Streak:        user.Streak,
		Achievements:  user.Achievements,
	}, nil
}

// windowStart returns the inclusive lower bound of the aggregation window,
// anchored to the start of the current day in the application time zone.
func windowStart(now time.Time, window string) time.Time {
	day := utils.DayStart(now)

	switch window {
	case WindowMonth:
		return day.AddDate(0, -1, 0)
	case WindowWeek:
		return day.AddDate(0, 0, -7)
	default:
		return day.AddDate(-1, 0, 0)
	}
}

// FormatMoney renders a tenge amount the way the dashboard displays it.
func FormatMoney(amount float64) string {
	return fmt.Sprintf("%.2f ₸", amount)
}
