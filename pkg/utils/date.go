package utils

import (
	"fmt"
	"time"
)

// DateLayout is the ISO calendar-day format used as the smoke log key.
const DateLayout = "2006-01-02"

// appZone is the fixed time zone all calendar arithmetic happens in.
// Day boundaries, the rollover schedule and dashboard windows are all
// anchored to local midnight in this zone.
var appZone = mustLoadZone()

func mustLoadZone() *time.Location {
	loc, err := time.LoadLocation("Asia/Almaty")
	if err != nil {
		panic(fmt.Sprintf("failed to load application time zone: %v", err))
	}

	return loc
}

// Zone returns the fixed application time zone.
func Zone() *time.Location {
	return appZone
}

// DayStart returns local midnight of the calendar day containing t.
func DayStart(t time.Time) time.Time {
	local := t.In(appZone)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, appZone)
}

// FormatDate renders t as an ISO calendar day in the application zone.
func FormatDate(t time.Time) string {
	return t.In(appZone).Format(DateLayout)
}

// Today returns the current calendar day in the application zone.
func Today() string {
	return FormatDate(time.Now())
}

// Yesterday returns the previous calendar day in the application zone.
func Yesterday() string {
	return FormatDate(time.Now().In(appZone).AddDate(0, 0, -1))
}
