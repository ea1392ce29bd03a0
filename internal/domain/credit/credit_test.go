package credit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWithinInstallmentWindow(t *testing.T) {
	now := time.Date(2025, time.March, 10, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		date     time.Time
		expected bool
	}{
		{"Today", now, true},
		{"Tomorrow", now.AddDate(0, 0, 1), true},
		{"One month ahead", now.AddDate(0, 1, 0), true},
		{"Exactly three months ahead", time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC), true},
		{"Three months ahead later in the day", time.Date(2025, time.June, 10, 23, 59, 0, 0, time.UTC), true},
		{"One day past the window", time.Date(2025, time.June, 11, 0, 0, 0, 0, time.UTC), false},
		{"Four months ahead", now.AddDate(0, 4, 0), false},
		{"Past date", now.AddDate(0, -1, 0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, WithinInstallmentWindow(tt.date, now))
		})
	}
}

func TestWithinInstallmentWindowClampsToMonthEnd(t *testing.T) {
	tests := []struct {
		name     string
		now      time.Time
		date     time.Time
		expected bool
	}{
		{
			"Jan 31 limit clamps to Apr 30",
			time.Date(2025, time.January, 31, 9, 0, 0, 0, time.UTC),
			time.Date(2025, time.April, 30, 0, 0, 0, 0, time.UTC),
			true,
		},
		{
			"Jan 31 does not spill into May",
			time.Date(2025, time.January, 31, 9, 0, 0, 0, time.UTC),
			time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC),
			false,
		},
		{
			"Nov 30 limit clamps to Feb 28",
			time.Date(2024, time.November, 30, 9, 0, 0, 0, time.UTC),
			time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC),
			true,
		},
		{
			"Nov 30 does not spill into March",
			time.Date(2024, time.November, 30, 9, 0, 0, 0, time.UTC),
			time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
			false,
		},
		{
			"Nov 29 to leap-year Feb 29",
			time.Date(2023, time.November, 29, 9, 0, 0, 0, time.UTC),
			time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC),
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, WithinInstallmentWindow(tt.date, tt.now))
		})
	}
}

func TestWithinInstallmentWindowIgnoresTimeZoneOfInput(t *testing.T) {
	now := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	loc := time.FixedZone("UTC-11", -11*60*60)

	// same calendar day in a different zone must compare by date only
	boundary := time.Date(2025, time.June, 10, 23, 0, 0, 0, loc)
	assert.True(t, WithinInstallmentWindow(boundary, now))
}

func TestCreditCustomerID(t *testing.T) {
	c := &Credit{}
	assert.Equal(t, int64(0), c.CustomerID())
}
