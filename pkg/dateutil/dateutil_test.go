package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var refDate = time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)

func TestRemainingDays(t *testing.T) {
	cases := []struct {
		name  string
		end   time.Time
		today time.Time
		want  int
	}{
		{"end today", refDate, refDate, 0},
		{"end tomorrow", refDate.AddDate(0, 0, 1), refDate, 1},
		{"end yesterday", refDate.AddDate(0, 0, -1), refDate, -1},
		{"end next week", refDate.AddDate(0, 0, 7), refDate, 7},
		{"end last month", refDate.AddDate(0, -1, 0), refDate, -31},
		{"ignores time of day on end", refDate.AddDate(0, 0, 1).Add(23 * time.Hour), refDate, 1},
		{"ignores time of day on today", refDate.AddDate(0, 0, 1), refDate.Add(15 * time.Hour), 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, RemainingDays(tc.end, tc.today))
		})
	}
}

func TestIsOverdue(t *testing.T) {
	assert.False(t, IsOverdue(refDate, refDate))
	assert.False(t, IsOverdue(refDate.AddDate(0, 0, 1), refDate))
	assert.True(t, IsOverdue(refDate.AddDate(0, 0, -1), refDate))
	assert.True(t, IsOverdue(refDate.AddDate(-4, 0, 0), refDate))
}

func TestIsOverdueMatchesRemainingDays(t *testing.T) {
	for offset := -60; offset <= 60; offset++ {
		end := refDate.AddDate(0, 0, offset)
		assert.Equal(t, RemainingDays(end, refDate) < 0, IsOverdue(end, refDate), "offset %d", offset)
	}
}

func TestClassifyUrgency(t *testing.T) {
	assert.Equal(t, UrgencyOverdue, ClassifyUrgency(-1))
	assert.Equal(t, UrgencyCritical, ClassifyUrgency(0))
	assert.Equal(t, UrgencyCritical, ClassifyUrgency(7))
	assert.Equal(t, UrgencyWarning, ClassifyUrgency(8))
	assert.Equal(t, UrgencyWarning, ClassifyUrgency(30))
	assert.Equal(t, UrgencyOK, ClassifyUrgency(31))
}

func TestFormatRemainingDays(t *testing.T) {
	assert.Equal(t, "3 days overdue", FormatRemainingDays(-3))
	assert.Equal(t, "Expires today", FormatRemainingDays(0))
	assert.Equal(t, "1 day remaining", FormatRemainingDays(1))
	assert.Equal(t, "14 days remaining", FormatRemainingDays(14))
}
