// Package types defines the REST API wire types.
package types

import "time"

// Error kinds returned in error responses.
const (
	ErrorInvalidArgument = "invalid_argument"
	ErrorUnauthenticated = "unauthenticated"
	ErrorNotFound        = "not_found"
	ErrorInternal        = "internal"
	ErrorUnknown         = "unknown"
)

// ErrorResponse is the envelope for all error replies.
type ErrorResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// UserCreatedEvent is the account-creation event delivered by the identity
// provider integration.
type UserCreatedEvent struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoUrl"`
}

// InviteFriendRequest asks to invite another user.
type InviteFriendRequest struct {
	FriendID string `json:"friendId"`
}

// HandleInvitationRequest accepts or rejects a pending invitation.
type HandleInvitationRequest struct {
	FriendID string `json:"friendId"`
	Accept   bool   `json:"accept"`
}

// InviteResponse reports the outcome of an invitation operation.
type InviteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// WorkerStatus is one worker's most recent heartbeat.
type WorkerStatus struct {
	WorkerID    string    `json:"workerId"`
	WorkerType  string    `json:"workerType"`
	LastSeen    time.Time `json:"lastSeen"`
	CurrentTask string    `json:"currentTask,omitempty"`
	Progress    int       `json:"progress"`
	IsHealthy   bool      `json:"isHealthy"`
	Online      bool      `json:"online"`
}

// WorkerStatusResponse lists the known workers.
type WorkerStatusResponse struct {
	Workers []WorkerStatus `json:"workers"`
}

// DashboardResponse is the aggregated dashboard view.
type DashboardResponse struct {
	TotalSmokedCigarettes int      `json:"totalSmokedCigarettes"`
	TotalSmokeFreeDays    int      `json:"totalSmokeFreeDays"`
	MoneySaved            string   `json:"moneySaved"`
	Streak                int      `json:"streak"`
	Achievements          []string `json:"achievements"`
}
