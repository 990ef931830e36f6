// Package requestid tags every REST request with a unique ID for log
// correlation.
package requestid

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// Header carries the request ID on responses.
const Header = "X-Request-ID"

// Middleware assigns request IDs and logs request outlines.
type Middleware struct {
	logger *zap.Logger
}

// New creates a new request ID middleware.
func New(logger *zap.Logger) *Middleware {
	return &Middleware{logger: logger.Named("rest")}
}

// AsRESTMiddleware wraps a bunrouter handler. An incoming ID from a trusted
// proxy is reused; otherwise a new one is generated.
func (m *Middleware) AsRESTMiddleware(next bunrouter.HandlerFunc) bunrouter.HandlerFunc {
	return func(w http.ResponseWriter, req bunrouter.Request) error {
		requestID := req.Header.Get(Header)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		w.Header().Set(Header, requestID)

		err := next(w, req)
		if err != nil {
			m.logger.Error("Request failed",
				zap.String("requestId", requestID),
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.Error(err))
		} else {
			m.logger.Debug("Request handled",
				zap.String("requestId", requestID),
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path))
		}

		return err
	}
}
