package customer

import (
	"time"

	"github.com/shopspring/decimal"
)

type Address struct {
	ZipCode string `json:"zipCode"`
	Street  string `json:"street"`
}

type Customer struct {
	CustomerID int64           `json:"customerId"`
	FirstName  string          `json:"firstName"`
	LastName   string          `json:"lastName"`
	CPF        string          `json:"cpf"`
	Income     decimal.Decimal `json:"income"`
	Email      string          `json:"email"`
	Password   string          `json:"-"`
	Address    Address         `json:"address"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

func NewCustomer(firstName, lastName, cpf string, income decimal.Decimal, email, password, zipCode, street string) *Customer {
	now := time.Now()
	return &Customer{
		FirstName: firstName,
		LastName:  lastName,
		CPF:       cpf,
		Income:    income,
		Email:     email,
		Password:  password,
		Address: Address{
			ZipCode: zipCode,
			Street:  street,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Update carries the mutable customer fields. Identity, CPF, email and
// password are fixed after creation.
type Update struct {
	FirstName string
	LastName  string
	Income    decimal.Decimal
	ZipCode   string
	Street    string
}

func (c *Customer) ApplyUpdate(u Update) {
	c.FirstName = u.FirstName
	c.LastName = u.LastName
	c.Income = u.Income
	c.Address.ZipCode = u.ZipCode
	c.Address.Street = u.Street
	c.UpdatedAt = time.Now()
}
