package types

import (
	"errors"
	"time"
)

var ErrSmokeLogNotFound = errors.New("smoke log not found")

// SmokeLog is one user's cigarette count for one calendar day in the
// application time zone. Date uses the ISO layout, so lexical order is
// chronological order.
type SmokeLog struct {
	UserID     string    `bun:",pk"                json:"userId"`
	Date       string    `bun:",pk"                json:"date"`
	Cigarettes int       `bun:",notnull,default:0" json:"cigarettes"`
	CreatedAt  time.Time `bun:",notnull"           json:"createdAt"`
}
