// Package identity resolves the caller identity for REST requests.
package identity

import (
	"context"
	"net/http"

	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// Header carries the authenticated user ID, set by the gateway in front of
// this service after token verification.
const Header = "X-User-ID"

type contextKey struct{}

// Middleware attaches the caller identity to the request context.
type Middleware struct {
	logger *zap.Logger
}

// New creates a new identity middleware.
func New(logger *zap.Logger) *Middleware {
	return &Middleware{logger: logger.Named("identity")}
}

// AsRESTMiddleware wraps a bunrouter handler with identity resolution.
// Requests without the header still pass through; handlers decide whether
// an endpoint requires authentication.
func (m *Middleware) AsRESTMiddleware(next bunrouter.HandlerFunc) bunrouter.HandlerFunc {
	return func(w http.ResponseWriter, req bunrouter.Request) error {
		userID := req.Header.Get(Header)
		if userID != "" {
			ctx := context.WithValue(req.Context(), contextKey{}, userID)
			req.Request = req.Request.WithContext(ctx)
		}

		return next(w, req)
	}
}

// UserID returns the caller identity from the context, or an empty string
// when the request was not authenticated.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}
