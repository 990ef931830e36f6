package handler

import (
	"context"
	"net/http"

	"github.com/smokefree-kz/backend/internal/database/service"
	"github.com/smokefree-kz/backend/internal/rest/middleware/identity"
	restTypes "github.com/smokefree-kz/backend/internal/rest/types"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// StatsProvider is the service surface the dashboard handler needs.
type StatsProvider interface {
	GetStats(ctx context.Context, callerID, window string) (*service.Stats, error)
}

// DashboardHandler handles the dashboard endpoint.
type DashboardHandler struct {
	stats  StatsProvider
	logger *zap.Logger
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(stats StatsProvider, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		stats:  stats,
		logger: logger,
	}
}

// Get returns the caller's aggregated statistics. The type query parameter
// selects the aggregation period (window is accepted as an alias); unknown
// values fall back to a year.
func (h *DashboardHandler) Get(w http.ResponseWriter, req bunrouter.Request) error {
	query := req.URL.Query()

	window := query.Get("type")
	if window == "" {
		window = query.Get("window")
	}

	stats, err := h.stats.GetStats(req.Context(), identity.UserID(req.Context()), window)
	if err != nil {
		h.logger.Error("Failed to load dashboard stats", zap.Error(err))
		return mapServiceError(w, err, restTypes.ErrorInternal)
	}

	achievements := stats.Achievements
	if achievements == nil {
		achievements = []string{}
	}

	return bunrouter.JSON(w, restTypes.DashboardResponse{
		TotalSmokedCigarettes: stats.TotalSmoked,
		TotalSmokeFreeDays:    stats.SmokeFreeDays,
		MoneySaved:            stats.MoneySaved,
		Streak:                stats.Streak,
		Achievements:          achievements,
	})
}
