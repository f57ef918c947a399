package view

import (
	"embed"
	"html/template"

	"fraud_report_backend/internal/appstate"
	"fraud_report_backend/internal/models"
	"fraud_report_backend/pkg/utils"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageTemplate is the name of the single page template.
const PageTemplate = "index.html"

// Page is everything the page template renders.
type Page struct {
	Mode          appstate.Mode
	Add           *appstate.AddState
	Search        *appstate.SearchState
	Notifications []appstate.Notification
}

// NewPage splits the controller state into the variant the template needs.
func NewPage(state appstate.State, notes []appstate.Notification) Page {
	p := Page{Mode: state.Mode(), Notifications: notes}
	switch s := state.(type) {
	case *appstate.AddState:
		p.Add = s
	case *appstate.SearchState:
		p.Search = s
	}
	return p
}

// Templates parses the embedded templates with the helper functions they use.
func Templates() *template.Template {
	funcs := template.FuncMap{
		"amount": utils.FormatAmount,
		"note": func(c models.Customer) string {
			return utils.DerefString(c.CreatedBy)
		},
		"deleting": func(s *appstate.SearchState, c models.Customer) bool {
			return s != nil && s.IsDeleting(c.ID)
		},
	}
	return template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
}
