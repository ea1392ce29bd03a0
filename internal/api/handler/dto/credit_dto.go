package dto

import (
	"time"

	"credit-engine/internal/domain/credit"

	"github.com/shopspring/decimal"
)

type CreateCreditRequest struct {
	CreditValue          decimal.Decimal `json:"creditValue"`
	FirstInstallmentDate string          `json:"firstInstallmentDate"`
	NumberOfInstallments int             `json:"numberOfInstallments"`
	CustomerID           int64           `json:"customerId"`
}

func (r *CreateCreditRequest) Validate() map[string]string {
	details := map[string]string{}
	if !r.CreditValue.IsPositive() {
		details["creditValue"] = "creditValue must be greater than zero"
	}
	if r.NumberOfInstallments < credit.MinInstallments || r.NumberOfInstallments > credit.MaxInstallments {
		details["numberOfInstallments"] = "numberOfInstallments must be between 1 and 48"
	}
	if r.CustomerID <= 0 {
		details["customerId"] = "customerId must be a positive number"
	}
	if _, err := r.ParseFirstInstallmentDate(); err != nil {
		details["firstInstallmentDate"] = "invalid firstInstallmentDate format (use YYYY-MM-DD)"
	}
	if len(details) == 0 {
		return nil
	}
	return details
}

func (r *CreateCreditRequest) ParseFirstInstallmentDate() (time.Time, error) {
	return time.Parse(time.RFC3339[:10], r.FirstInstallmentDate)
}

type CreditView struct {
	CreditCode           string          `json:"creditCode"`
	CreditValue          decimal.Decimal `json:"creditValue"`
	NumberOfInstallments int             `json:"numberOfInstallments"`
	Status               string          `json:"status"`
	EmailCustomer        string          `json:"emailCustomer"`
	IncomeCustomer       decimal.Decimal `json:"incomeCustomer"`
	CustomerID           int64           `json:"customerId"`
}

func NewCreditView(domainCredit *credit.Credit) CreditView {
	view := CreditView{
		CreditCode:           domainCredit.CreditCode.String(),
		CreditValue:          domainCredit.CreditValue,
		NumberOfInstallments: domainCredit.NumberOfInstallments,
		Status:               string(domainCredit.Status),
		CustomerID:           domainCredit.CustomerID(),
	}
	if domainCredit.Customer != nil {
		view.EmailCustomer = domainCredit.Customer.Email
		view.IncomeCustomer = domainCredit.Customer.Income
	}
	return view
}

type CreditViewList struct {
	CreditCode           string          `json:"creditCode"`
	CreditValue          decimal.Decimal `json:"creditValue"`
	NumberOfInstallments int             `json:"numberOfInstallments"`
}

func NewCreditViewList(domainCredit *credit.Credit) CreditViewList {
	return CreditViewList{
		CreditCode:           domainCredit.CreditCode.String(),
		CreditValue:          domainCredit.CreditValue,
		NumberOfInstallments: domainCredit.NumberOfInstallments,
	}
}

type ExceptionDetails struct {
	Title     string            `json:"title"`
	Timestamp time.Time         `json:"timestamp"`
	Status    int               `json:"status"`
	Exception string            `json:"exception"`
	Details   map[string]string `json:"details"`
}
