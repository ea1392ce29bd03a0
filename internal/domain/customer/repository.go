package customer

import (
	"context"
)

type CustomerRepository interface {
	// Save inserts when CustomerID is zero and updates otherwise. Duplicate
	// CPF or email surfaces as apperrors.ErrAlreadyExists.
	Save(ctx context.Context, customer *Customer) error

	FindByID(ctx context.Context, customerID int64) (*Customer, error)

	Delete(ctx context.Context, customerID int64) error
}
