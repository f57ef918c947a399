package handlers

import (
	"errors"
	"net/http"

	"fraud_report_backend/internal/appstate"
	"fraud_report_backend/internal/middleware"
	"fraud_report_backend/internal/services"
	"fraud_report_backend/internal/view"
	"fraud_report_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// PageHandler serves the browser view. Every POST dispatches to the session's controller and
// redirects back to the page.
type PageHandler struct{}

// NewPageHandler creates a new PageHandler.
func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

func redirectHome(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/")
}

// Index renders the current state and the notifications queued since the last render.
func (h *PageHandler) Index(c *gin.Context) {
	s := middleware.CurrentSession(c)
	c.HTML(http.StatusOK, view.PageTemplate, view.NewPage(s.Controller.State(), s.Drain()))
}

// SwitchMode handles the mode tabs.
func (h *PageHandler) SwitchMode(c *gin.Context) {
	s := middleware.CurrentSession(c)

	mode, ok := appstate.ParseMode(c.PostForm("mode"))
	if !ok {
		utils.RespondValidationFailed(c, "mode must be 'add' or 'search'")
		return
	}
	if err := s.Controller.SwitchMode(c.Request.Context(), mode); err != nil {
		utils.LogDebug("SwitchMode: search after switch failed", map[string]interface{}{"error": err.Error()})
	}
	redirectHome(c)
}

// SubmitForm saves or clears the add-record form.
func (h *PageHandler) SubmitForm(c *gin.Context) {
	s := middleware.CurrentSession(c)
	ctrl := s.Controller

	if ctrl.Mode() != appstate.ModeAdd {
		redirectHome(c)
		return
	}

	if c.PostForm("action") == "reset" {
		ctrl.ResetForm()
		redirectHome(c)
		return
	}

	ctrl.SetForm(appstate.FormFields{
		FirstName:     c.PostForm(string(appstate.FieldFirstName)),
		LastName:      c.PostForm(string(appstate.FieldLastName)),
		AccountNumber: c.PostForm(string(appstate.FieldAccountNumber)),
		Amount:        c.PostForm(string(appstate.FieldAmount)),
		Note:          c.PostForm(string(appstate.FieldNote)),
	})
	if err := ctrl.Submit(c.Request.Context()); err != nil && !errors.Is(err, services.ErrCustomerValidation) {
		utils.LogDebug("SubmitForm: submit failed", map[string]interface{}{"error": err.Error()})
	}
	redirectHome(c)
}

// Search runs a search, or lists everything for action=all.
func (h *PageHandler) Search(c *gin.Context) {
	s := middleware.CurrentSession(c)
	ctrl := s.Controller

	if ctrl.Mode() != appstate.ModeSearch {
		redirectHome(c)
		return
	}

	var err error
	if c.PostForm("action") == "all" {
		err = ctrl.ListAll(c.Request.Context())
	} else {
		ctrl.SetQuery(c.PostForm("q"))
		err = ctrl.Search(c.Request.Context())
	}
	if err != nil {
		utils.LogDebug("Search: search failed", map[string]interface{}{"error": err.Error()})
	}
	redirectHome(c)
}

// DeleteCustomer deletes one result row. The browser confirm() prompt sets confirm=yes.
func (h *PageHandler) DeleteCustomer(c *gin.Context) {
	s := middleware.CurrentSession(c)

	id, err := services.ParseCustomerID(c.Param("id"))
	if err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	confirmed := appstate.ConfirmFunc(func() bool { return c.PostForm("confirm") == "yes" })
	if err := s.Controller.Delete(c.Request.Context(), id, confirmed); err != nil {
		utils.LogDebug("DeleteCustomer: delete failed", map[string]interface{}{"error": err.Error()})
	}
	redirectHome(c)
}
