package dto

import (
	"net/mail"
	"strings"

	"credit-engine/internal/domain/customer"

	"github.com/shopspring/decimal"
)

type CreateCustomerRequest struct {
	FirstName string          `json:"firstName"`
	LastName  string          `json:"lastName"`
	CPF       string          `json:"cpf"`
	Income    decimal.Decimal `json:"income"`
	Email     string          `json:"email"`
	Password  string          `json:"password"`
	ZipCode   string          `json:"zipCode"`
	Street    string          `json:"street"`
}

// Validate returns a field-keyed map of messages, nil when the payload is clean.
func (r *CreateCustomerRequest) Validate() map[string]string {
	details := map[string]string{}
	requireNonBlank(details, "firstName", r.FirstName)
	requireNonBlank(details, "lastName", r.LastName)
	requireNonBlank(details, "cpf", r.CPF)
	requireNonBlank(details, "email", r.Email)
	requireNonBlank(details, "password", r.Password)
	requireNonBlank(details, "zipCode", r.ZipCode)
	requireNonBlank(details, "street", r.Street)
	if r.Income.IsNegative() {
		details["income"] = "income must not be negative"
	}
	if strings.TrimSpace(r.Email) != "" {
		if _, err := mail.ParseAddress(r.Email); err != nil {
			details["email"] = "invalid email"
		}
	}
	if len(details) == 0 {
		return nil
	}
	return details
}

func (r *CreateCustomerRequest) ToDomain() *customer.Customer {
	return customer.NewCustomer(r.FirstName, r.LastName, r.CPF, r.Income, r.Email, r.Password, r.ZipCode, r.Street)
}

type UpdateCustomerRequest struct {
	FirstName string          `json:"firstName"`
	LastName  string          `json:"lastName"`
	Income    decimal.Decimal `json:"income"`
	ZipCode   string          `json:"zipCode"`
	Street    string          `json:"street"`
}

func (r *UpdateCustomerRequest) Validate() map[string]string {
	details := map[string]string{}
	requireNonBlank(details, "firstName", r.FirstName)
	requireNonBlank(details, "lastName", r.LastName)
	requireNonBlank(details, "zipCode", r.ZipCode)
	requireNonBlank(details, "street", r.Street)
	if r.Income.IsNegative() {
		details["income"] = "income must not be negative"
	}
	if len(details) == 0 {
		return nil
	}
	return details
}

func (r *UpdateCustomerRequest) ToUpdate() customer.Update {
	return customer.Update{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Income:    r.Income,
		ZipCode:   r.ZipCode,
		Street:    r.Street,
	}
}

type CustomerView struct {
	FirstName string          `json:"firstName"`
	LastName  string          `json:"lastName"`
	CPF       string          `json:"cpf"`
	Income    decimal.Decimal `json:"income"`
	Email     string          `json:"email"`
	ZipCode   string          `json:"zipCode"`
	Street    string          `json:"street"`
}

func NewCustomerView(cust *customer.Customer) CustomerView {
	return CustomerView{
		FirstName: cust.FirstName,
		LastName:  cust.LastName,
		CPF:       cust.CPF,
		Income:    cust.Income,
		Email:     cust.Email,
		ZipCode:   cust.Address.ZipCode,
		Street:    cust.Address.Street,
	}
}

type CustomerSavedResponse struct {
	Message  string       `json:"message"`
	Customer CustomerView `json:"customer"`
}

func requireNonBlank(details map[string]string, field, value string) {
	if strings.TrimSpace(value) == "" {
		details[field] = field + " must not be empty"
	}
}
