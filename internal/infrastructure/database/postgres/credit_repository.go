package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"credit-engine/internal/domain/credit"
	"credit-engine/internal/domain/customer"
	"credit-engine/internal/infrastructure/monitoring"
	"credit-engine/internal/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pashagolub/pgxmock/v4"
)

type DBPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Acquire(ctx context.Context) (*pgxpool.Conn, error)
	Close()
}

var _ DBPool = (*pgxpool.Pool)(nil)

var _ DBPool = (pgxmock.PgxPoolIface)(nil)

var errMsgFormat = "%w: %w"

type CreditRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ credit.Repository = (*CreditRepository)(nil)

func NewCreditRepository(db DBPool, logger *slog.Logger) *CreditRepository {
	return &CreditRepository{db: db, logger: logger.With("component", "CreditRepository")}
}

func (r *CreditRepository) CreateCredit(ctx context.Context, newCredit *credit.Credit) (*credit.Credit, error) {
	if newCredit == nil {
		return nil, fmt.Errorf("%w: credit cannot be nil", apperrors.ErrInvalidArgument)
	}

	query := `
        INSERT INTO credits (credit_code, credit_value, day_first_installment, number_of_installments, status, customer_id, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, NOW())
        RETURNING id, created_at`

	created := *newCredit
	err := r.db.QueryRow(ctx, query,
		newCredit.CreditCode,
		newCredit.CreditValue,
		newCredit.DayFirstInstallment,
		newCredit.NumberOfInstallments,
		newCredit.Status,
		newCredit.CustomerID(),
	).Scan(
		&created.ID,
		&created.CreatedAt,
	)

	if err != nil {
		translatedErr := translateDBError(err, r.logger)
		if errors.Is(translatedErr, apperrors.ErrCustomerUnresolved) {
			r.logger.WarnContext(ctx, "Failed to insert credit, customer row is gone", "customer_id", newCredit.CustomerID())
			return nil, translatedErr
		}
		r.logger.ErrorContext(ctx, "Failed to insert credit", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to insert credit: %w", apperrors.ErrDatabase, err)
	}

	r.logger.InfoContext(ctx, "Credit created in DB", "credit_id", created.ID, "credit_code", created.CreditCode.String())
	return &created, nil
}

func (r *CreditRepository) FindByCreditCode(ctx context.Context, creditCode uuid.UUID) (*credit.Credit, error) {
	query := `
        SELECT cr.id, cr.credit_code, cr.credit_value, cr.day_first_installment, cr.number_of_installments, cr.status, cr.created_at,
               cu.id, cu.first_name, cu.last_name, cu.cpf, cu.income, cu.email, cu.zip_code, cu.street
        FROM credits cr
        JOIN customers cu ON cu.id = cr.customer_id
        WHERE cr.credit_code = $1`
	status := "success"
	startTime := time.Now()

	var c credit.Credit
	var cust customer.Customer
	err := r.db.QueryRow(ctx, query, creditCode).Scan(
		&c.ID, &c.CreditCode, &c.CreditValue, &c.DayFirstInstallment,
		&c.NumberOfInstallments, &c.Status, &c.CreatedAt,
		&cust.CustomerID, &cust.FirstName, &cust.LastName, &cust.CPF,
		&cust.Income, &cust.Email, &cust.Address.ZipCode, &cust.Address.Street,
	)

	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("FindByCreditCode", status, time.Since(startTime))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Credit not found", "credit_code", creditCode.String())
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to get credit by code", "credit_code", creditCode.String(), "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}

	c.Customer = &cust
	return &c, nil
}

func (r *CreditRepository) FindAllByCustomer(ctx context.Context, customerID int64) ([]*credit.Credit, error) {
	query := `
        SELECT id, credit_code, credit_value, day_first_installment, number_of_installments, status, created_at
        FROM credits
        WHERE customer_id = $1
        ORDER BY id ASC`

	rows, err := r.db.Query(ctx, query, customerID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query credits by customer", "customer_id", customerID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	credits := make([]*credit.Credit, 0)
	for rows.Next() {
		var c credit.Credit
		err := rows.Scan(
			&c.ID, &c.CreditCode, &c.CreditValue, &c.DayFirstInstallment,
			&c.NumberOfInstallments, &c.Status, &c.CreatedAt,
		)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan credit row", "customer_id", customerID, "error", err)
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		credits = append(credits, &c)
	}

	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating credit rows", "customer_id", customerID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}

	r.logger.InfoContext(ctx, "Finished finding credits for customer", "customer_id", customerID, slog.Int("count", len(credits)))
	return credits, nil
}

func translateDBError(err error, contextLogger *slog.Logger) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {

		if pgErr.Code == "23505" {
			contextLogger.Warn("Database unique constraint violation", "detail", pgErr.Detail, "constraint", pgErr.ConstraintName)
			return fmt.Errorf("%w: %s", apperrors.ErrAlreadyExists, pgErr.ConstraintName)
		}

		if pgErr.Code == "23503" {
			contextLogger.Warn("Database foreign key violation", "detail", pgErr.Detail, "constraint", pgErr.ConstraintName)
			return fmt.Errorf("%w: %s", apperrors.ErrCustomerUnresolved, pgErr.ConstraintName)
		}

		contextLogger.Error("PostgreSQL specific error", "code", pgErr.Code, "message", pgErr.Message, "detail", pgErr.Detail)
		return fmt.Errorf("%w: db error code %s", apperrors.ErrDatabase, pgErr.Code)
	}

	contextLogger.Error("Generic database error", "error", err)
	return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
}
