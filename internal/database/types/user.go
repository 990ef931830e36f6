package types

import (
	"errors"
	"time"
)

var ErrUserNotFound = errors.New("user not found")

// DefaultDisplayName is used when the identity provider sends no display name.
const DefaultDisplayName = "Anonymous"

// InitialAchievement is seeded into every new profile at signup.
const InitialAchievement = "fresh_start"

// User represents a tracked account profile.
// Created once at signup; the streak is mutated by the rollover job and the
// relationship tables by the invitation service. Rows are never deleted.
type User struct {
	ID             string    `bun:",pk"                 json:"id"`
	Email          string    `bun:",notnull"            json:"email"`
	Name           string    `bun:",notnull"            json:"name"`
	PhotoURL       string    `bun:",notnull,default:''" json:"photoUrl"`
	CigaretteLimit int       `bun:",notnull,default:0"  json:"cigaretteLimit"`
	MoneySaved     float64   `bun:",notnull,default:0"  json:"moneySaved"`
	Streak         int       `bun:",notnull,default:0"  json:"streak"`
	Achievements   []string  `bun:",notnull"            json:"achievements"`
	FCMToken       string    `bun:",notnull,default:''" json:"-"`
	CreatedAt      time.Time `bun:",notnull"            json:"createdAt"`
	UpdatedAt      time.Time `bun:",notnull"            json:"updatedAt"`
}
