package appstate

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"fraud_report_backend/internal/models"
	"fraud_report_backend/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore keeps records newest-first (index 0) and counts calls.
type fakeStore struct {
	mu          sync.Mutex
	records     []models.Customer
	inserts     []services.CreateCustomerRequest
	searches    []string
	deletes     []uuid.UUID
	insertErr   error
	searchErr   error
	deleteErr   error
	searchGates map[string]chan struct{}
	insertGate  chan struct{}
}

func (f *fakeStore) CreateCustomer(_ context.Context, req services.CreateCustomerRequest) (*models.Customer, error) {
	if f.insertGate != nil {
		<-f.insertGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserts = append(f.inserts, req)
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	c := models.Customer{
		ID: uuid.New(), FirstName: req.FirstName, LastName: req.LastName,
		AccountNumber: req.AccountNumber, Amount: *req.Amount, CreatedBy: req.CreatedBy,
	}
	f.records = append([]models.Customer{c}, f.records...)
	return &c, nil
}

func (f *fakeStore) SearchCustomers(_ context.Context, query string) ([]models.Customer, error) {
	f.mu.Lock()
	gate := f.searchGates[query]
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches = append(f.searches, query)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	q := strings.ToLower(strings.TrimSpace(query))
	out := []models.Customer{}
	for _, c := range f.records {
		if q == "" || strings.Contains(strings.ToLower(c.FirstName), q) ||
			strings.Contains(strings.ToLower(c.LastName), q) ||
			strings.Contains(strings.ToLower(c.AccountNumber), q) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) DeleteCustomer(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, id)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, c := range f.records {
		if c.ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			break
		}
	}
	return nil
}

type recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

func (r *recorder) last() Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return Notification{}
	}
	return r.items[len(r.items)-1]
}

func fullForm() FormFields {
	return FormFields{
		FirstName: "Somchai", LastName: "Test", AccountNumber: "123-456-789",
		Amount: "5000", Note: "scam report",
	}
}

func seed(store *fakeStore, names ...string) {
	for _, name := range names {
		store.records = append(store.records, models.Customer{
			ID: uuid.New(), FirstName: name, LastName: "X", AccountNumber: "acc-" + name,
		})
	}
}

func TestSubmit_SuccessClearsForm(t *testing.T) {
	store := &fakeStore{}
	notes := &recorder{}
	c := NewController(store, notes)

	c.SetForm(fullForm())
	require.NoError(t, c.Submit(context.Background()))

	require.Len(t, store.inserts, 1)
	req := store.inserts[0]
	assert.Equal(t, "Somchai", req.FirstName)
	assert.Equal(t, 5000.0, *req.Amount)
	assert.Equal(t, "scam report", *req.CreatedBy)
	require.Len(t, store.records, 1)
	assert.NotEqual(t, uuid.Nil, store.records[0].ID)

	add := c.State().(*AddState)
	assert.Equal(t, FormFields{}, add.Form)
	assert.False(t, add.Submitting)
	assert.Equal(t, Notification{Kind: NotifySuccess, Message: MsgSaved}, notes.last())
}

func TestSubmit_MissingFieldNeverCallsStore(t *testing.T) {
	blanks := map[Field]func(*FormFields){
		FieldFirstName:     func(f *FormFields) { f.FirstName = "" },
		FieldLastName:      func(f *FormFields) { f.LastName = " " },
		FieldAccountNumber: func(f *FormFields) { f.AccountNumber = "" },
		FieldAmount:        func(f *FormFields) { f.Amount = "" },
		FieldNote:          func(f *FormFields) { f.Note = "" },
	}
	for field, blank := range blanks {
		t.Run(string(field), func(t *testing.T) {
			store := &fakeStore{}
			notes := &recorder{}
			c := NewController(store, notes)

			form := fullForm()
			blank(&form)
			c.SetForm(form)

			err := c.Submit(context.Background())

			assert.True(t, errors.Is(err, services.ErrCustomerValidation))
			assert.Empty(t, store.inserts)
			assert.Equal(t, Notification{Kind: NotifyError, Message: MsgFillAllFields}, notes.last())
			assert.Equal(t, form, c.State().(*AddState).Form, "form is kept for correction")
		})
	}
}

func TestSubmit_NonNumericAmount(t *testing.T) {
	store := &fakeStore{}
	notes := &recorder{}
	c := NewController(store, notes)

	form := fullForm()
	form.Amount = "lots"
	c.SetForm(form)

	err := c.Submit(context.Background())

	assert.True(t, errors.Is(err, services.ErrCustomerValidation))
	assert.Empty(t, store.inserts)
	assert.Equal(t, MsgInvalidAmount, notes.last().Message)
}

func TestSubmit_NonFiniteAmount(t *testing.T) {
	for _, raw := range []string{"NaN", "Inf", "-infinity"} {
		t.Run(raw, func(t *testing.T) {
			store := &fakeStore{}
			notes := &recorder{}
			c := NewController(store, notes)

			form := fullForm()
			form.Amount = raw
			c.SetForm(form)

			err := c.Submit(context.Background())

			assert.True(t, errors.Is(err, services.ErrCustomerValidation))
			assert.Empty(t, store.inserts)
			assert.Equal(t, MsgInvalidAmount, notes.last().Message)
		})
	}
}

func TestSubmit_StoreFailureKeepsForm(t *testing.T) {
	store := &fakeStore{insertErr: services.ErrStore}
	notes := &recorder{}
	c := NewController(store, notes)

	c.SetForm(fullForm())
	err := c.Submit(context.Background())

	assert.True(t, errors.Is(err, services.ErrStore))
	add := c.State().(*AddState)
	assert.Equal(t, fullForm(), add.Form)
	assert.False(t, add.Submitting)
	assert.Equal(t, Notification{Kind: NotifyError, Message: MsgSaveFailed}, notes.last())
}

func TestSubmit_WrongMode(t *testing.T) {
	c := NewController(&fakeStore{}, nil)
	require.NoError(t, c.SwitchMode(context.Background(), ModeSearch))

	assert.ErrorIs(t, c.Submit(context.Background()), ErrWrongMode)
}

func TestSetField(t *testing.T) {
	c := NewController(&fakeStore{}, nil)

	require.NoError(t, c.SetField(FieldFirstName, "A"))
	require.NoError(t, c.SetField(FieldLastName, "B"))
	require.NoError(t, c.SetField(FieldAccountNumber, "C"))
	require.NoError(t, c.SetField(FieldAmount, "1"))
	require.NoError(t, c.SetField(FieldNote, "E"))
	assert.Error(t, c.SetField(Field("phone_number"), "x"))

	assert.Equal(t, FormFields{"A", "B", "C", "1", "E"}, c.State().(*AddState).Form)

	c.ResetForm()
	assert.Equal(t, FormFields{}, c.State().(*AddState).Form)
}

func TestSwitchMode_SearchListsAllAndKeepsDrafts(t *testing.T) {
	store := &fakeStore{}
	seed(store, "Somchai", "Anan")
	c := NewController(store, nil)
	ctx := context.Background()

	c.SetForm(FormFields{FirstName: "draft"})
	require.NoError(t, c.SwitchMode(ctx, ModeSearch))

	s := c.State().(*SearchState)
	assert.Equal(t, []string{""}, store.searches)
	assert.Len(t, s.Results, 2)
	assert.False(t, s.Loading)

	c.SetQuery("Som")
	require.NoError(t, c.SwitchMode(ctx, ModeAdd))
	assert.Equal(t, "draft", c.State().(*AddState).Form.FirstName)

	require.NoError(t, c.SwitchMode(ctx, ModeSearch))
	assert.Equal(t, "Som", c.State().(*SearchState).Query)
	assert.Equal(t, []string{"", "Som"}, store.searches)

	assert.Error(t, c.SwitchMode(ctx, Mode("edit")))
}

func TestSearch_MatchesSubstring(t *testing.T) {
	store := &fakeStore{}
	seed(store, "Somchai", "Anan")
	c := NewController(store, nil)
	ctx := context.Background()
	require.NoError(t, c.SwitchMode(ctx, ModeSearch))

	c.SetQuery("Som")
	require.NoError(t, c.Search(ctx))

	s := c.State().(*SearchState)
	require.Len(t, s.Results, 1)
	assert.Equal(t, "Somchai", s.Results[0].FirstName)

	c.SetQuery("acc-Anan")
	require.NoError(t, c.Search(ctx))
	s = c.State().(*SearchState)
	require.Len(t, s.Results, 1)
	assert.Equal(t, "Anan", s.Results[0].FirstName)
}

func TestSearch_NoResultsIsInformational(t *testing.T) {
	store := &fakeStore{}
	seed(store, "Somchai")
	notes := &recorder{}
	c := NewController(store, notes)
	ctx := context.Background()
	require.NoError(t, c.SwitchMode(ctx, ModeSearch))

	c.SetQuery("nobody")
	require.NoError(t, c.Search(ctx))

	assert.Empty(t, c.State().(*SearchState).Results)
	assert.Equal(t, Notification{Kind: NotifyInfo, Message: MsgNoResults}, notes.last())
}

func TestSearch_FailureKeepsPreviousResults(t *testing.T) {
	store := &fakeStore{}
	seed(store, "Somchai")
	notes := &recorder{}
	c := NewController(store, notes)
	ctx := context.Background()
	require.NoError(t, c.SwitchMode(ctx, ModeSearch))

	store.searchErr = services.ErrStore
	c.SetQuery("Som")
	err := c.Search(ctx)

	assert.ErrorIs(t, err, services.ErrStore)
	s := c.State().(*SearchState)
	assert.Len(t, s.Results, 1)
	assert.False(t, s.Loading)
	assert.Equal(t, Notification{Kind: NotifyError, Message: MsgSearchFailed}, notes.last())
}

func TestListAll_ClearsQuery(t *testing.T) {
	store := &fakeStore{}
	seed(store, "Somchai", "Anan")
	c := NewController(store, nil)
	ctx := context.Background()
	require.NoError(t, c.SwitchMode(ctx, ModeSearch))

	c.SetQuery("Som")
	require.NoError(t, c.Search(ctx))
	require.NoError(t, c.ListAll(ctx))

	s := c.State().(*SearchState)
	assert.Equal(t, "", s.Query)
	assert.Len(t, s.Results, 2)
	assert.Equal(t, "Somchai", s.Results[0].FirstName, "store order is kept")
}

func TestSearch_StaleResponseIsDiscarded(t *testing.T) {
	gate := make(chan struct{})
	store := &fakeStore{searchGates: map[string]chan struct{}{"slow": gate}}
	seed(store, "Somchai", "Anan")
	notes := &recorder{}
	c := NewController(store, notes)
	ctx := context.Background()
	require.NoError(t, c.SwitchMode(ctx, ModeSearch))

	c.SetQuery("slow")
	done := make(chan error, 1)
	go func() { done <- c.Search(ctx) }()

	require.Eventually(t, func() bool {
		return c.State().(*SearchState).Loading
	}, time.Second, time.Millisecond)

	c.SetQuery("Anan")
	require.NoError(t, c.Search(ctx))
	close(gate)
	require.NoError(t, <-done)

	s := c.State().(*SearchState)
	require.Len(t, s.Results, 1)
	assert.Equal(t, "Anan", s.Results[0].FirstName)
	assert.False(t, s.Loading)
	for _, n := range notes.items {
		assert.NotEqual(t, MsgNoResults, n.Message, "stale empty result must not notify")
	}
}

func TestSubmit_SupersededByModeSwitchForgetsSavedDraft(t *testing.T) {
	gate := make(chan struct{})
	store := &fakeStore{insertGate: gate}
	notes := &recorder{}
	c := NewController(store, notes)
	ctx := context.Background()

	c.SetForm(fullForm())
	done := make(chan error, 1)
	go func() { done <- c.Submit(ctx) }()

	require.Eventually(t, func() bool {
		add, ok := c.State().(*AddState)
		return ok && add.Submitting
	}, time.Second, time.Millisecond)

	require.NoError(t, c.SwitchMode(ctx, ModeSearch))
	close(gate)
	require.NoError(t, <-done)

	require.NoError(t, c.SwitchMode(ctx, ModeAdd))
	assert.Equal(t, FormFields{}, c.State().(*AddState).Form, "saved draft must not come back")
	assert.Len(t, store.inserts, 1)
}

func TestSubmit_SupersededKeepsDraftEditedMeanwhile(t *testing.T) {
	gate := make(chan struct{})
	store := &fakeStore{insertGate: gate}
	c := NewController(store, &recorder{})
	ctx := context.Background()

	c.SetForm(fullForm())
	done := make(chan error, 1)
	go func() { done <- c.Submit(ctx) }()

	require.Eventually(t, func() bool {
		add, ok := c.State().(*AddState)
		return ok && add.Submitting
	}, time.Second, time.Millisecond)

	require.NoError(t, c.SwitchMode(ctx, ModeSearch))
	require.NoError(t, c.SetField(FieldFirstName, "Anan"))
	close(gate)
	require.NoError(t, <-done)

	require.NoError(t, c.SwitchMode(ctx, ModeAdd))
	assert.Equal(t, "Anan", c.State().(*AddState).Form.FirstName)
}

func TestDelete_ConfirmedRemovesExactlyThatRecord(t *testing.T) {
	store := &fakeStore{}
	seed(store, "Somchai", "Anan")
	notes := &recorder{}
	c := NewController(store, notes)
	ctx := context.Background()
	require.NoError(t, c.SwitchMode(ctx, ModeSearch))

	target := c.State().(*SearchState).Results[0]
	searchesBefore := len(store.searches)

	require.NoError(t, c.Delete(ctx, target.ID, ConfirmFunc(func() bool { return true })))

	assert.Equal(t, []uuid.UUID{target.ID}, store.deletes)
	assert.Equal(t, searchesBefore, len(store.searches), "no re-fetch")
	s := c.State().(*SearchState)
	require.Len(t, s.Results, 1)
	assert.NotEqual(t, target.ID, s.Results[0].ID)
	assert.Nil(t, s.DeletingID)
	assert.Equal(t, Notification{Kind: NotifySuccess, Message: MsgDeleted}, notes.last())

	// Already gone: still reported as success.
	require.NoError(t, c.Delete(ctx, target.ID, ConfirmFunc(func() bool { return true })))
	assert.Len(t, store.deletes, 2)
	assert.Equal(t, MsgDeleted, notes.last().Message)
}

func TestDelete_DeclinedDoesNothing(t *testing.T) {
	store := &fakeStore{}
	seed(store, "Somchai", "Anan")
	notes := &recorder{}
	c := NewController(store, notes)
	ctx := context.Background()
	require.NoError(t, c.SwitchMode(ctx, ModeSearch))

	before := c.State().(*SearchState)
	notesBefore := len(notes.items)

	require.NoError(t, c.Delete(ctx, before.Results[0].ID, ConfirmFunc(func() bool { return false })))
	require.NoError(t, c.Delete(ctx, before.Results[0].ID, nil))

	assert.Empty(t, store.deletes)
	assert.Equal(t, before, c.State().(*SearchState))
	assert.Len(t, notes.items, notesBefore)
}

func TestDelete_FailureKeepsRow(t *testing.T) {
	store := &fakeStore{deleteErr: services.ErrStore}
	seed(store, "Somchai")
	notes := &recorder{}
	c := NewController(store, notes)
	ctx := context.Background()
	require.NoError(t, c.SwitchMode(ctx, ModeSearch))

	id := c.State().(*SearchState).Results[0].ID
	err := c.Delete(ctx, id, ConfirmFunc(func() bool { return true }))

	assert.ErrorIs(t, err, services.ErrStore)
	s := c.State().(*SearchState)
	assert.Len(t, s.Results, 1)
	assert.Nil(t, s.DeletingID)
	assert.Equal(t, Notification{Kind: NotifyError, Message: MsgDeleteFailed}, notes.last())
}

func TestDelete_WrongMode(t *testing.T) {
	store := &fakeStore{}
	c := NewController(store, nil)

	err := c.Delete(context.Background(), uuid.New(), ConfirmFunc(func() bool { return true }))

	assert.ErrorIs(t, err, ErrWrongMode)
	assert.Empty(t, store.deletes)
}

func TestState_ReturnsCopy(t *testing.T) {
	store := &fakeStore{}
	seed(store, "Somchai")
	c := NewController(store, nil)
	require.NoError(t, c.SwitchMode(context.Background(), ModeSearch))

	snap := c.State().(*SearchState)
	snap.Results[0].FirstName = "mutated"

	assert.Equal(t, "Somchai", c.State().(*SearchState).Results[0].FirstName)
}

func TestEndToEnd_SubmitThenFind(t *testing.T) {
	store := &fakeStore{}
	c := NewController(store, nil)
	ctx := context.Background()

	c.SetForm(fullForm())
	require.NoError(t, c.Submit(ctx))
	c.SetForm(FormFields{FirstName: "Anan", LastName: "Dee", AccountNumber: "555", Amount: "10", Note: "n"})
	require.NoError(t, c.Submit(ctx))

	require.NoError(t, c.SwitchMode(ctx, ModeSearch))
	s := c.State().(*SearchState)
	require.Len(t, s.Results, 2)
	assert.Equal(t, "Anan", s.Results[0].FirstName, "newest first")

	c.SetQuery("Som")
	require.NoError(t, c.Search(ctx))
	s = c.State().(*SearchState)
	require.Len(t, s.Results, 1)
	assert.Equal(t, "123-456-789", s.Results[0].AccountNumber)
}
