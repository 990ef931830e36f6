package handler

import (
	"context"
	"net/http"
	"time"

	restTypes "github.com/smokefree-kz/backend/internal/rest/types"
	"github.com/smokefree-kz/backend/internal/worker/core"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// WorkerStatusLister is the monitor surface the status handler needs.
type WorkerStatusLister interface {
	GetAllStatuses(ctx context.Context) ([]core.Status, error)
}

// StatusHandler exposes worker heartbeat state.
type StatusHandler struct {
	workers WorkerStatusLister
	logger  *zap.Logger
}

// NewStatusHandler creates a new worker status handler.
func NewStatusHandler(workers WorkerStatusLister, logger *zap.Logger) *StatusHandler {
	return &StatusHandler{
		workers: workers,
		logger:  logger,
	}
}

// Workers lists the workers that reported a heartbeat recently. A worker
// whose last heartbeat is older than the stale threshold is marked offline.
func (h *StatusHandler) Workers(w http.ResponseWriter, req bunrouter.Request) error {
	statuses, err := h.workers.GetAllStatuses(req.Context())
	if err != nil {
		h.logger.Error("Failed to load worker statuses", zap.Error(err))
		return respondError(w, http.StatusInternalServerError, restTypes.ErrorInternal, "something went wrong")
	}

	workers := make([]restTypes.WorkerStatus, 0, len(statuses))
	for _, status := range statuses {
		workers = append(workers, restTypes.WorkerStatus{
			WorkerID:    status.WorkerID,
			WorkerType:  status.WorkerType,
			LastSeen:    status.LastSeen,
			CurrentTask: status.CurrentTask,
			Progress:    status.Progress,
			IsHealthy:   status.IsHealthy,
			Online:      time.Since(status.LastSeen) < core.StaleThreshold,
		})
	}

	return bunrouter.JSON(w, restTypes.WorkerStatusResponse{Workers: workers})
}
