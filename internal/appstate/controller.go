package appstate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"fraud_report_backend/internal/models"
	"fraud_report_backend/internal/services"
	"fraud_report_backend/pkg/utils"

	"github.com/google/uuid"
)

// ErrWrongMode is returned when an action does not apply to the current mode.
var ErrWrongMode = errors.New("action not available in the current mode")

// Store is the subset of the data client the controller drives.
type Store interface {
	CreateCustomer(ctx context.Context, req services.CreateCustomerRequest) (*models.Customer, error)
	SearchCustomers(ctx context.Context, query string) ([]models.Customer, error)
	DeleteCustomer(ctx context.Context, id uuid.UUID) error
}

// Controller owns the UI state of one session.
//
// Every asynchronous action takes a token when it is dispatched. Its result is applied only if
// no later action was dispatched in the meantime; a superseded action is treated as abandoned,
// so dispatching a new action also clears the in-flight flags of the previous one.
type Controller struct {
	store    Store
	notifier Notifier

	mu         sync.Mutex
	state      State
	generation uint64

	// Drafts survive mode switches.
	form    FormFields
	query   string
	results []models.Customer
}

// NewController starts in add mode with an empty form.
func NewController(store Store, notifier Notifier) *Controller {
	if notifier == nil {
		notifier = NotifierFunc(func(Notification) {})
	}
	return &Controller{
		store:    store,
		notifier: notifier,
		state:    &AddState{},
	}
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Mode returns the current mode.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Mode()
}

// SwitchMode changes the rendered view. Entering search mode runs a search with the current
// query, which lists everything when the query is blank.
func (c *Controller) SwitchMode(ctx context.Context, mode Mode) error {
	if _, ok := ParseMode(string(mode)); !ok {
		return fmt.Errorf("unknown mode %q", mode)
	}

	c.mu.Lock()
	c.parkLocked()
	c.generation++

	switch mode {
	case ModeAdd:
		c.state = &AddState{Form: c.form}
		c.mu.Unlock()
		return nil
	case ModeSearch:
		c.state = &SearchState{Query: c.query, Results: c.results}
		c.mu.Unlock()
		return c.Search(ctx)
	default:
		c.mu.Unlock()
		return fmt.Errorf("unknown mode %q", mode)
	}
}

// parkLocked saves the drafts of the current state before it is replaced.
func (c *Controller) parkLocked() {
	switch s := c.state.(type) {
	case *AddState:
		c.form = s.Form
	case *SearchState:
		c.query = s.Query
		c.results = s.Results
	}
}

// SetField updates one form input.
func (c *Controller) SetField(field Field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	form := c.formLocked()
	switch field {
	case FieldFirstName:
		form.FirstName = value
	case FieldLastName:
		form.LastName = value
	case FieldAccountNumber:
		form.AccountNumber = value
	case FieldAmount:
		form.Amount = value
	case FieldNote:
		form.Note = value
	default:
		return fmt.Errorf("unknown field %q", field)
	}
	return nil
}

// SetForm replaces every form input at once.
func (c *Controller) SetForm(f FormFields) {
	c.mu.Lock()
	defer c.mu.Unlock()
	*c.formLocked() = f
}

// ResetForm clears every form input.
func (c *Controller) ResetForm() {
	c.SetForm(FormFields{})
}

func (c *Controller) formLocked() *FormFields {
	if s, ok := c.state.(*AddState); ok {
		return &s.Form
	}
	return &c.form
}

// SetQuery updates the search input.
func (c *Controller) SetQuery(q string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.state.(*SearchState); ok {
		s.Query = q
		return
	}
	c.query = q
}

// Submit validates the form and stores a new record. On success every form field is cleared.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	add, ok := c.state.(*AddState)
	if !ok {
		c.mu.Unlock()
		return ErrWrongMode
	}

	req, msg, err := buildCreateRequest(add.Form)
	if err != nil {
		c.mu.Unlock()
		c.notifier.Notify(Notification{Kind: NotifyError, Message: msg})
		return err
	}

	submitted := add.Form
	token := c.dispatchLocked()
	add.Submitting = true
	c.mu.Unlock()

	_, err = c.store.CreateCustomer(ctx, req)

	c.mu.Lock()
	if c.isCurrentLocked(token) {
		if s, ok := c.state.(*AddState); ok {
			s.Submitting = false
			if err == nil {
				s.Form = FormFields{}
			}
		}
	} else if err == nil {
		c.forgetDraftLocked(submitted)
	}
	c.mu.Unlock()

	if err != nil {
		utils.LogError(err, "Failed to save report")
		c.notifier.Notify(Notification{Kind: NotifyError, Message: MsgSaveFailed})
		return err
	}
	c.notifier.Notify(Notification{Kind: NotifySuccess, Message: MsgSaved})
	return nil
}

// forgetDraftLocked clears a saved form that a mode switch parked or restored while its
// submit was in flight. A draft edited since then is kept.
func (c *Controller) forgetDraftLocked(submitted FormFields) {
	if c.form == submitted {
		c.form = FormFields{}
	}
	if s, ok := c.state.(*AddState); ok && s.Form == submitted {
		s.Form = FormFields{}
	}
}

// buildCreateRequest requires every form field, the note included.
func buildCreateRequest(f FormFields) (services.CreateCustomerRequest, string, error) {
	if utils.IsEmpty(f.FirstName) || utils.IsEmpty(f.LastName) || utils.IsEmpty(f.AccountNumber) ||
		utils.IsEmpty(f.Amount) || utils.IsEmpty(f.Note) {
		return services.CreateCustomerRequest{}, MsgFillAllFields,
			fmt.Errorf("%w: all fields are required", services.ErrCustomerValidation)
	}
	amount, err := utils.ParseAmount(f.Amount)
	if err != nil {
		return services.CreateCustomerRequest{}, MsgInvalidAmount,
			fmt.Errorf("%w: %v", services.ErrCustomerValidation, err)
	}
	note := strings.TrimSpace(f.Note)
	return services.CreateCustomerRequest{
		FirstName:     f.FirstName,
		LastName:      f.LastName,
		AccountNumber: f.AccountNumber,
		Amount:        &amount,
		CreatedBy:     &note,
	}, "", nil
}

// Search runs the current query. A blank query lists every record. Results replace the previous
// ones wholesale.
func (c *Controller) Search(ctx context.Context) error {
	c.mu.Lock()
	s, ok := c.state.(*SearchState)
	if !ok {
		c.mu.Unlock()
		return ErrWrongMode
	}
	query := s.Query
	token := c.dispatchLocked()
	s.Loading = true
	c.mu.Unlock()

	results, err := c.store.SearchCustomers(ctx, query)

	c.mu.Lock()
	current := c.isCurrentLocked(token)
	if current {
		if s, ok := c.state.(*SearchState); ok {
			s.Loading = false
			if err == nil {
				s.Results = results
			}
		}
	}
	c.mu.Unlock()

	if err != nil {
		utils.LogError(err, "Failed to search reports", map[string]interface{}{"query": query})
		if current {
			c.notifier.Notify(Notification{Kind: NotifyError, Message: MsgSearchFailed})
		}
		return err
	}
	if current && len(results) == 0 {
		c.notifier.Notify(Notification{Kind: NotifyInfo, Message: MsgNoResults})
	}
	return nil
}

// ListAll clears the query and lists every record.
func (c *Controller) ListAll(ctx context.Context) error {
	c.mu.Lock()
	s, ok := c.state.(*SearchState)
	if !ok {
		c.mu.Unlock()
		return ErrWrongMode
	}
	s.Query = ""
	c.mu.Unlock()
	return c.Search(ctx)
}

// Delete removes a record after confirm agrees. A declined confirmation changes nothing.
// On success the record is dropped from the displayed results without re-fetching.
func (c *Controller) Delete(ctx context.Context, id uuid.UUID, confirm Confirmer) error {
	c.mu.Lock()
	if _, ok := c.state.(*SearchState); !ok {
		c.mu.Unlock()
		return ErrWrongMode
	}
	c.mu.Unlock()

	if confirm == nil || !confirm.Confirm() {
		return nil
	}

	c.mu.Lock()
	s, ok := c.state.(*SearchState)
	if !ok {
		c.mu.Unlock()
		return ErrWrongMode
	}
	token := c.dispatchLocked()
	deleting := id
	s.DeletingID = &deleting
	c.mu.Unlock()

	err := c.store.DeleteCustomer(ctx, id)

	c.mu.Lock()
	if c.isCurrentLocked(token) {
		if s, ok := c.state.(*SearchState); ok {
			s.DeletingID = nil
			if err == nil {
				s.Results = removeCustomer(s.Results, id)
			}
		}
	}
	c.mu.Unlock()

	if err != nil {
		utils.LogError(err, "Failed to delete report", map[string]interface{}{"id": id.String()})
		c.notifier.Notify(Notification{Kind: NotifyError, Message: MsgDeleteFailed})
		return err
	}
	c.notifier.Notify(Notification{Kind: NotifySuccess, Message: MsgDeleted})
	return nil
}

// dispatchLocked issues a new token and abandons whatever was in flight.
func (c *Controller) dispatchLocked() uint64 {
	c.generation++
	switch s := c.state.(type) {
	case *AddState:
		s.Submitting = false
	case *SearchState:
		s.Loading = false
		s.DeletingID = nil
	}
	return c.generation
}

func (c *Controller) isCurrentLocked(token uint64) bool {
	return token == c.generation
}

func removeCustomer(list []models.Customer, id uuid.UUID) []models.Customer {
	out := make([]models.Customer, 0, len(list))
	for _, item := range list {
		if item.ID != id {
			out = append(out, item)
		}
	}
	return out
}
