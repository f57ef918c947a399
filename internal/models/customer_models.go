package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer is one reported fraud account. The name follows the backing table;
// it is not a customer of anything.
type Customer struct {
	ID            uuid.UUID `json:"id" db:"id"`
	FirstName     string    `json:"first_name" db:"first_name"`
	LastName      string    `json:"last_name" db:"last_name"`
	PhoneNumber   *string   `json:"phone_number,omitempty" db:"phone_number"` // never populated by the form
	AccountNumber string    `json:"account_number" db:"account_number"`
	CreatedBy     *string   `json:"created_by,omitempty" db:"created_by"` // free-text note, not an identity
	Amount        float64   `json:"amount" db:"amount"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// FullName joins first and last name for display.
func (c Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}
