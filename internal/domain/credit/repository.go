package credit

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// CreateCredit persists a bound credit and returns it with the
	// store-assigned id and timestamps.
	CreateCredit(ctx context.Context, credit *Credit) (*Credit, error)

	// FindByCreditCode returns the credit with the given unique code, its
	// owning customer reference hydrated. apperrors.ErrNotFound when absent.
	FindByCreditCode(ctx context.Context, creditCode uuid.UUID) (*Credit, error)

	// FindAllByCustomer returns the credits owned by the customer in
	// store-defined order; empty slice when there are none.
	FindAllByCustomer(ctx context.Context, customerID int64) ([]*Credit, error)
}
