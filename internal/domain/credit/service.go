package credit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"credit-engine/internal/domain/customer"
	"credit-engine/internal/event"
	"credit-engine/internal/infrastructure/monitoring"
	"credit-engine/internal/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const msgDateWindowExceeded = "the limit for the date of the first installment is up to 3 months from the current date"

type CreditService interface {
	// IssueCredit validates the proposal, resolves and binds the owning
	// customer, assigns a fresh credit code and persists the credit.
	IssueCredit(ctx context.Context, customerID int64, creditValue decimal.Decimal, dayFirstInstallment time.Time, numberOfInstallments int) (*Credit, error)

	// ListByCustomer returns all credits owned by the customer. Customer
	// existence is deliberately not checked: an unknown customer yields an
	// empty slice, not an error.
	ListByCustomer(ctx context.Context, customerID int64) ([]*Credit, error)

	// FindByCreditCode looks the credit up by code and verifies ownership
	// against the supplied customer id.
	FindByCreditCode(ctx context.Context, customerID int64, creditCode uuid.UUID) (*Credit, error)
}

var _ CreditService = (*creditService)(nil)

type creditService struct {
	repo            Repository
	customerService customer.CustomerService
	pub             event.EventPublisher
	logger          *slog.Logger
	now             func() time.Time
}

type Option func(*creditService)

// WithClock replaces the wall clock consulted by the date-window check.
func WithClock(now func() time.Time) Option {
	return func(s *creditService) {
		s.now = now
	}
}

func NewCreditService(repo Repository, cs customer.CustomerService, pub event.EventPublisher, logger *slog.Logger, opts ...Option) CreditService {
	if repo == nil {
		panic("credit repository cannot be nil")
	}
	if cs == nil {
		panic("customer service cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	if pub == nil {
		pub = event.NewNoopEventPublisher(logger)
	}

	s := &creditService{
		repo:            repo,
		customerService: cs,
		pub:             pub,
		logger:          logger.With(slog.String("component", "creditService")),
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *creditService) IssueCredit(ctx context.Context, customerID int64, creditValue decimal.Decimal, dayFirstInstallment time.Time, numberOfInstallments int) (*Credit, error) {
	logCtx := s.logger.With(slog.Int64("customerID", customerID))
	logCtx.InfoContext(ctx, "Attempting to issue new credit")

	if err := validateProposal(customerID, creditValue, numberOfInstallments); err != nil {
		logCtx.WarnContext(ctx, "Credit proposal failed field validation", slog.Any("error", err))
		monitoring.RecordIssuanceRejected("validation")
		return nil, err
	}

	// The window is evaluated against "now" at call time, never cached.
	if !WithinInstallmentWindow(dayFirstInstallment, s.now()) {
		logCtx.WarnContext(ctx, "First installment date exceeds the allowed window",
			slog.Time("dayFirstInstallment", dayFirstInstallment))
		monitoring.RecordIssuanceRejected("date_window")
		return nil, fmt.Errorf("%w: %s", apperrors.ErrBusinessRule, msgDateWindowExceeded)
	}

	logCtx.InfoContext(ctx, "Resolving owning customer")
	cust, err := s.customerService.GetCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logCtx.WarnContext(ctx, "Customer could not be resolved for issuance")
			monitoring.RecordIssuanceRejected("customer_unresolved")
			return nil, fmt.Errorf("%w: customer id %d not found", apperrors.ErrCustomerUnresolved, customerID)
		}
		logCtx.ErrorContext(ctx, "Failed to resolve customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to resolve customer %d: %w", customerID, err)
	}

	// The proposal is not mutated: a new credit value is bound to the fully
	// resolved customer, with a fresh code. The store's unique constraint on
	// the code is the authoritative backstop against collisions.
	bound := &Credit{
		CreditCode:           uuid.New(),
		CreditValue:          creditValue,
		DayFirstInstallment:  dayFirstInstallment,
		NumberOfInstallments: numberOfInstallments,
		Status:               StatusInProgress,
		Customer:             cust,
	}

	logCtx.InfoContext(ctx, "Calling repository CreateCredit", slog.String("creditCode", bound.CreditCode.String()))
	created, err := s.repo.CreateCredit(ctx, bound)
	if err != nil {
		logCtx.ErrorContext(ctx, "Repository failed to save credit", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save credit: %w", err)
	}

	issuedEvent := event.CreditIssuedEvent{
		Timestamp: time.Now(),
		Payload: event.CreditEventPayload{
			CreditID:             created.ID,
			CreditCode:           created.CreditCode.String(),
			CreditValue:          created.CreditValue,
			NumberOfInstallments: created.NumberOfInstallments,
			Status:               string(created.Status),
			CustomerID:           created.CustomerID(),
		},
	}
	if pubErr := s.pub.PublishCreditIssued(ctx, issuedEvent); pubErr != nil {
		logCtx.ErrorContext(ctx, "Credit issued, but FAILED to publish issuance event", slog.Any("error", pubErr))
	}

	monitoring.RecordCreditIssued()
	logCtx.InfoContext(ctx, "Successfully issued credit",
		slog.Int64("creditID", created.ID), slog.String("creditCode", created.CreditCode.String()))
	return created, nil
}

func (s *creditService) ListByCustomer(ctx context.Context, customerID int64) ([]*Credit, error) {
	logCtx := s.logger.With(slog.Int64("customerID", customerID))
	logCtx.InfoContext(ctx, "Listing credits by customer")

	credits, err := s.repo.FindAllByCustomer(ctx, customerID)
	if err != nil {
		logCtx.ErrorContext(ctx, "Repository error listing credits", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list credits for customer %d: %w", customerID, err)
	}

	logCtx.InfoContext(ctx, "Successfully listed credits", slog.Int("count", len(credits)))
	return credits, nil
}

func (s *creditService) FindByCreditCode(ctx context.Context, customerID int64, creditCode uuid.UUID) (*Credit, error) {
	logCtx := s.logger.With(slog.Int64("customerID", customerID), slog.String("creditCode", creditCode.String()))
	logCtx.InfoContext(ctx, "Looking up credit by code")

	cred, err := s.repo.FindByCreditCode(ctx, creditCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logCtx.WarnContext(ctx, "Credit code not found")
			return nil, fmt.Errorf("%w: credit code %s not found", apperrors.ErrNotFound, creditCode)
		}
		logCtx.ErrorContext(ctx, "Repository error finding credit by code", slog.Any("error", err))
		return nil, fmt.Errorf("failed to find credit %s: %w", creditCode, err)
	}

	// A structurally valid code presented with the wrong owner is a caller
	// error, not a missing resource.
	if cred.CustomerID() != customerID {
		logCtx.WarnContext(ctx, "Credit ownership mismatch", slog.Int64("ownerID", cred.CustomerID()))
		return nil, fmt.Errorf("%w: mismatched customer and credit, contact the administration", apperrors.ErrInvalidArgument)
	}

	logCtx.InfoContext(ctx, "Successfully found credit by code")
	return cred, nil
}

func validateProposal(customerID int64, creditValue decimal.Decimal, numberOfInstallments int) error {
	switch {
	case customerID <= 0:
		return apperrors.NewValidationError("customerId", "customer id must be positive")
	case !creditValue.IsPositive():
		return apperrors.NewValidationError("creditValue", "credit value must be positive")
	case numberOfInstallments < MinInstallments || numberOfInstallments > MaxInstallments:
		return apperrors.NewValidationError("numberOfInstallments",
			fmt.Sprintf("number of installments must be between %d and %d", MinInstallments, MaxInstallments))
	}
	return nil
}
