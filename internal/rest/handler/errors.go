// Package handler implements the REST endpoint handlers.
package handler

import (
	"errors"
	"net/http"

	"github.com/smokefree-kz/backend/internal/database/service"
	"github.com/smokefree-kz/backend/internal/database/types"
	restTypes "github.com/smokefree-kz/backend/internal/rest/types"
	"github.com/uptrace/bunrouter"
)

// respondError writes a JSON error envelope with the given status.
func respondError(w http.ResponseWriter, status int, kind, message string) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	return bunrouter.JSON(w, restTypes.ErrorResponse{Kind: kind, Message: message})
}

// mapServiceError translates service errors into HTTP replies. Errors that
// do not match a known kind fall back to the provided kind with a generic
// message so internals never leak to clients.
func mapServiceError(w http.ResponseWriter, err error, fallbackKind string) error {
	switch {
	case errors.Is(err, service.ErrFriendIDRequired):
		return respondError(w, http.StatusBadRequest, restTypes.ErrorInvalidArgument, "friendId is required")
	case errors.Is(err, service.ErrUnauthenticated):
		return respondError(w, http.StatusUnauthorized, restTypes.ErrorUnauthenticated, "authentication required")
	case errors.Is(err, types.ErrUserNotFound):
		return respondError(w, http.StatusNotFound, restTypes.ErrorNotFound, "user not found")
	default:
		return respondError(w, http.StatusInternalServerError, fallbackKind, "something went wrong")
	}
}
