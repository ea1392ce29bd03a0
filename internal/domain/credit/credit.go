package credit

import (
	"time"

	"credit-engine/internal/domain/customer"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	MinInstallments = 1
	MaxInstallments = 48

	// MaxFutureMonths bounds how far in the future the first installment may
	// fall, counted in calendar months from the current date (inclusive).
	MaxFutureMonths = 3
)

type Status string

const (
	StatusInProgress Status = "IN_PROGRESS"
	StatusAccepted   Status = "ACCEPTED"
	StatusRejected   Status = "REJECTED"
)

type Credit struct {
	ID                   int64              `json:"id"`
	CreditCode           uuid.UUID          `json:"creditCode"`
	CreditValue          decimal.Decimal    `json:"creditValue"`
	DayFirstInstallment  time.Time          `json:"dayFirstInstallment"`
	NumberOfInstallments int                `json:"numberOfInstallments"`
	Status               Status             `json:"status"`
	Customer             *customer.Customer `json:"customer,omitempty"`
	CreatedAt            time.Time          `json:"createdAt"`
}

func (c *Credit) CustomerID() int64 {
	if c.Customer == nil {
		return 0
	}
	return c.Customer.CustomerID
}

// WithinInstallmentWindow reports whether the first-installment date falls on
// or before now + MaxFutureMonths, compared at calendar-date granularity.
// When the target month is shorter than the current day of month, the limit
// clamps to the last day of the target month (Jan 31 + 3 months = Apr 30).
func WithinInstallmentWindow(dayFirstInstallment, now time.Time) bool {
	return !toDate(dayFirstInstallment).After(installmentWindowLimit(now))
}

func installmentWindowLimit(now time.Time) time.Time {
	start := toDate(now)
	limit := start.AddDate(0, MaxFutureMonths, 0)
	if limit.Day() != start.Day() {
		// AddDate normalized an overflowed day into the following month.
		limit = limit.AddDate(0, 0, -limit.Day())
	}
	return limit
}

func toDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
