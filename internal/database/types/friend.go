package types

import "time"

// Invitation is a pending friend request addressed to InviteeID.
// The pair is the primary key, so re-sending the same invitation is a no-op.
type Invitation struct {
	InviteeID string    `bun:",pk"      json:"inviteeId"`
	InviterID string    `bun:",pk"      json:"inviterId"`
	CreatedAt time.Time `bun:",notnull" json:"createdAt"`
}

// Friendship is one direction of a symmetric relationship. Both directions
// are written in the same transaction, so either both rows exist or neither.
type Friendship struct {
	UserID    string    `bun:",pk"      json:"userId"`
	FriendID  string    `bun:",pk"      json:"friendId"`
	CreatedAt time.Time `bun:",notnull" json:"createdAt"`
}
