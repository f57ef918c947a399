package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"fraud_report_backend/internal/metrics"
	"fraud_report_backend/internal/models"
	"fraud_report_backend/internal/repositories"
	"fraud_report_backend/pkg/utils"

	"github.com/google/uuid"
)

// --- Custom Service Errors for Customer ---
var (
	// ErrCustomerValidation is a local, synchronous failure: a required field is missing.
	ErrCustomerValidation = errors.New("customer data validation error")
	// ErrStore covers every backend failure. Callers do not distinguish causes.
	ErrStore = errors.New("store error")
	// ErrInvalidCustomerID is returned when an ID cannot be parsed.
	ErrInvalidCustomerID = errors.New("invalid customer ID")
)

// CreateCustomerRequest is the input for a new record; the ID is always assigned by the store.
type CreateCustomerRequest struct {
	FirstName     string   `json:"first_name" form:"first_name"`
	LastName      string   `json:"last_name" form:"last_name"`
	AccountNumber string   `json:"account_number" form:"account_number"`
	Amount        *float64 `json:"amount" form:"amount"`
	CreatedBy     *string  `json:"created_by" form:"created_by"`
	PhoneNumber   *string  `json:"phone_number" form:"phone_number"`
}

// CustomerService is the data client used by the controller, the JSON API and the keep-alive worker.
type CustomerService interface {
	CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*models.Customer, error)
	SearchCustomers(ctx context.Context, query string) ([]models.Customer, error)
	DeleteCustomer(ctx context.Context, id uuid.UUID) error
	Ping(ctx context.Context) error
}

type customerService struct {
	customerRepo repositories.CustomerRepository
	db           *sql.DB
	searchLimit  int
}

// NewCustomerService creates a new instance of CustomerService.
// searchLimit caps search results; 0 returns every match.
func NewCustomerService(repo repositories.CustomerRepository, db *sql.DB, searchLimit int) CustomerService {
	return &customerService{
		customerRepo: repo,
		db:           db,
		searchLimit:  searchLimit,
	}
}

// ValidateCreateCustomer checks presence of the fields the store requires.
func ValidateCreateCustomer(req CreateCustomerRequest) error {
	var missing []string
	if utils.IsEmpty(req.FirstName) {
		missing = append(missing, "first_name")
	}
	if utils.IsEmpty(req.LastName) {
		missing = append(missing, "last_name")
	}
	if utils.IsEmpty(req.AccountNumber) {
		missing = append(missing, "account_number")
	}
	if req.Amount == nil {
		missing = append(missing, "amount")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %s", ErrCustomerValidation, strings.Join(missing, ", "))
	}
	if !utils.IsFiniteAmount(*req.Amount) {
		return fmt.Errorf("%w: amount must be a finite number", ErrCustomerValidation)
	}
	return nil
}

// ParseCustomerID parses a record ID from its string form.
func ParseCustomerID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidCustomerID, err)
	}
	return id, nil
}

func (s *customerService) CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*models.Customer, error) {
	if err := ValidateCreateCustomer(req); err != nil {
		return nil, err
	}

	customer := &models.Customer{
		FirstName:     strings.TrimSpace(req.FirstName),
		LastName:      strings.TrimSpace(req.LastName),
		AccountNumber: strings.TrimSpace(req.AccountNumber),
		Amount:        *req.Amount,
		CreatedBy:     utils.NewNullString(utils.DerefString(req.CreatedBy)),
		PhoneNumber:   utils.NewNullString(utils.DerefString(req.PhoneNumber)),
	}

	if _, err := s.customerRepo.CreateCustomer(ctx, s.db, customer); err != nil {
		return nil, fmt.Errorf("%w: failed to create customer: %v", ErrStore, err)
	}
	metrics.ReportsCreated.Inc()
	return customer, nil
}

func (s *customerService) SearchCustomers(ctx context.Context, query string) ([]models.Customer, error) {
	customers, err := s.customerRepo.SearchCustomers(ctx, query, s.searchLimit)
	if err != nil {
		metrics.Searches.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("%w: failed to search customers: %v", ErrStore, err)
	}
	if len(customers) == 0 {
		metrics.Searches.WithLabelValues(metrics.OutcomeEmpty).Inc()
	} else {
		metrics.Searches.WithLabelValues(metrics.OutcomeHit).Inc()
	}
	return customers, nil
}

func (s *customerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	if err := s.customerRepo.DeleteCustomer(ctx, s.db, id); err != nil {
		metrics.Deletes.WithLabelValues(metrics.OutcomeError).Inc()
		return fmt.Errorf("%w: failed to delete customer: %v", ErrStore, err)
	}
	metrics.Deletes.WithLabelValues(metrics.OutcomeOK).Inc()
	return nil
}

func (s *customerService) Ping(ctx context.Context) error {
	if err := s.customerRepo.PingCustomers(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}
	return nil
}
