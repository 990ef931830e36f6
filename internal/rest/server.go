// Package rest assembles the HTTP API.
package rest

import (
	"net/http"

	"github.com/klauspost/compress/gzhttp"
	"github.com/redis/rueidis"
	"github.com/smokefree-kz/backend/internal/database"
	"github.com/smokefree-kz/backend/internal/rest/handler"
	"github.com/smokefree-kz/backend/internal/rest/middleware/identity"
	"github.com/smokefree-kz/backend/internal/rest/middleware/requestid"
	"github.com/smokefree-kz/backend/internal/worker/core"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// Server implements the REST API service.
type Server struct {
	accountHandler   *handler.AccountHandler
	friendHandler    *handler.FriendHandler
	dashboardHandler *handler.DashboardHandler
	statusHandler    *handler.StatusHandler
}

// NewServer creates a new REST API server. The status client reads the
// worker heartbeats reported by the worker binary.
func NewServer(db database.Client, statusClient rueidis.Client, logger *zap.Logger) (http.Handler, error) {
	// Create server instance with handlers
	server := &Server{
		accountHandler:   handler.NewAccountHandler(db.Service().Account(), logger),
		friendHandler:    handler.NewFriendHandler(db.Service().Friend(), logger),
		dashboardHandler: handler.NewDashboardHandler(db.Service().Dashboard(), logger),
		statusHandler:    handler.NewStatusHandler(core.NewMonitor(statusClient, logger), logger),
	}

	// Create middleware instances
	requestIDMiddleware := requestid.New(logger)
	identityMiddleware := identity.New(logger)

	// Create base router
	router := bunrouter.New()

	// Create API routes group
	router.Use(
		requestIDMiddleware.AsRESTMiddleware,
		identityMiddleware.AsRESTMiddleware,
	).WithGroup("/v1", func(g *bunrouter.Group) {
		g.POST("/events/user-created", server.accountHandler.UserCreated)
		g.POST("/friends/invite", server.friendHandler.Invite)
		g.POST("/friends/respond", server.friendHandler.Respond)
		g.GET("/dashboard", server.dashboardHandler.Get)
		g.GET("/workers", server.statusHandler.Workers)
	})

	// Liveness probe
	router.GET("/healthz", func(w http.ResponseWriter, _ bunrouter.Request) error {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("ok"))

		return err
	})

	// Add gzip compression
	return gzhttp.GzipHandler(router), nil
}
