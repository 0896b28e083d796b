package dateutil

import (
	"fmt"
	"math"
	"time"
)

// Urgency bands a contract by how close its end date is.
type Urgency string

const (
	UrgencyOverdue  Urgency = "OVERDUE"
	UrgencyCritical Urgency = "CRITICAL"
	UrgencyWarning  Urgency = "WARNING"
	UrgencyOK       Urgency = "OK"
)

// RemainingDays returns the number of whole calendar days between today and
// the end date, both normalized to midnight. The result is negative when the
// end date has passed and zero when it falls on today.
func RemainingDays(end, today time.Time) int {
	endMidnight := midnight(end)
	todayMidnight := midnight(today)

	diff := endMidnight.Sub(todayMidnight)
	return int(math.Ceil(diff.Hours() / 24))
}

// IsOverdue reports whether the end date lies strictly in the past.
// Permanent contracts have no end date and must be filtered out by the
// caller before invoking this.
func IsOverdue(end, today time.Time) bool {
	return RemainingDays(end, today) < 0
}

// ClassifyUrgency bands a remaining-day count for display and alerting.
// It never feeds back into stored state.
func ClassifyUrgency(days int) Urgency {
	switch {
	case days < 0:
		return UrgencyOverdue
	case days <= 7:
		return UrgencyCritical
	case days <= 30:
		return UrgencyWarning
	default:
		return UrgencyOK
	}
}

// FormatRemainingDays renders a remaining-day count for humans.
func FormatRemainingDays(days int) string {
	switch {
	case days < 0:
		return fmt.Sprintf("%d days overdue", -days)
	case days == 0:
		return "Expires today"
	case days == 1:
		return "1 day remaining"
	default:
		return fmt.Sprintf("%d days remaining", days)
	}
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
