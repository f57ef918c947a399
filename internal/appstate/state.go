package appstate

import (
	"fraud_report_backend/internal/models"

	"github.com/google/uuid"
)

// Mode selects which view is rendered.
type Mode string

const (
	ModeAdd    Mode = "add"
	ModeSearch Mode = "search"
)

// ParseMode accepts "add" or "search".
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeAdd, ModeSearch:
		return Mode(s), true
	}
	return "", false
}

// Field names a form input.
type Field string

const (
	FieldFirstName     Field = "first_name"
	FieldLastName      Field = "last_name"
	FieldAccountNumber Field = "account_number"
	FieldAmount        Field = "amount"
	FieldNote          Field = "created_by"
)

// FormFields holds the raw text of the add-record form.
type FormFields struct {
	FirstName     string
	LastName      string
	AccountNumber string
	Amount        string
	Note          string
}

// State is the controller's single state value: either *AddState or *SearchState.
type State interface {
	Mode() Mode
	clone() State
}

// AddState is the record-entry view.
type AddState struct {
	Form       FormFields
	Submitting bool
}

func (*AddState) Mode() Mode { return ModeAdd }

func (s *AddState) clone() State {
	cp := *s
	return &cp
}

// SearchState is the search/browse view. DeletingID marks the single row whose delete is in flight.
type SearchState struct {
	Query      string
	Results    []models.Customer
	Loading    bool
	DeletingID *uuid.UUID
}

func (*SearchState) Mode() Mode { return ModeSearch }

func (s *SearchState) clone() State {
	cp := *s
	if s.Results != nil {
		cp.Results = append([]models.Customer(nil), s.Results...)
	}
	if s.DeletingID != nil {
		id := *s.DeletingID
		cp.DeletingID = &id
	}
	return &cp
}

// IsDeleting reports whether a delete for id is in flight.
func (s *SearchState) IsDeleting(id uuid.UUID) bool {
	return s.DeletingID != nil && *s.DeletingID == id
}
