package appstate

// NotificationKind drives toast styling.
type NotificationKind string

const (
	NotifySuccess NotificationKind = "success"
	NotifyError   NotificationKind = "error"
	NotifyInfo    NotificationKind = "info"
)

// User-facing messages.
const (
	MsgFillAllFields = "Please fill in all fields."
	MsgInvalidAmount = "Amount must be a number."
	MsgSaved         = "Report saved."
	MsgSaveFailed    = "Failed to save the report."
	MsgNoResults     = "No matching records found."
	MsgSearchFailed  = "Search failed."
	MsgDeleted       = "Record deleted."
	MsgDeleteFailed  = "Failed to delete the record."
)

// Notification is a transient message shown to the user.
type Notification struct {
	Kind    NotificationKind
	Message string
}

// Notifier receives notifications produced by controller actions.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// Confirmer is the blocking confirmation step before a delete.
type Confirmer interface {
	Confirm() bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func() bool

func (f ConfirmFunc) Confirm() bool { return f() }
