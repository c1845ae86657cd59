// Package viewmodel defines presentation-ready structs for templ components.
// View models decouple template rendering from domain model types.
package viewmodel

// FlashKind selects the notification banner style.
type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashError   FlashKind = "error"
)

// Flash is a one-shot notification shown on the next rendered page.
type Flash struct {
	Kind    FlashKind
	Message string
}

// NavLink is one entry in the top navigation bar.
type NavLink struct {
	Label     string
	Path      string
	Active    bool
	AdminOnly bool
}

// LayoutViewModel carries the page chrome shared by every screen.
type LayoutViewModel struct {
	Title         string
	Nav           []NavLink
	Authenticated bool
	Username      string
	CSRFToken     string
	Flash         *Flash
}

// AgendaCardViewModel holds presentation-ready data for one agenda entry,
// used by both the public grid and the admin table/cards.
type AgendaCardViewModel struct {
	ID               string
	Title            string
	DateLabel        string // "10 Mar 2025"
	Time             string
	Description      string
	DescriptionLines []string // rendered as escaped text joined by <br>
	EditPath         string
	DeletePath       string
}

// HomeViewModel is the public listing.
type HomeViewModel struct {
	Agendas []AgendaCardViewModel
}

// LoginViewModel is the login form state after a failed or fresh render.
type LoginViewModel struct {
	Username      string
	UsernameError string
	PasswordError string
	FormError     string
}

// AgendaFormViewModel is the admin create/edit form.
type AgendaFormViewModel struct {
	Editing     bool
	Heading     string
	SubmitLabel string
	Action      string
	CancelPath  string

	Title       string
	Date        string
	Time        string
	Description string

	// Errors maps a field name (title, date, time, description) to its message.
	Errors map[string]string
}

// FieldError returns the message for field, or "" when the field is valid.
func (f AgendaFormViewModel) FieldError(field string) string {
	return f.Errors[field]
}

// AdminViewModel is the dashboard.
type AdminViewModel struct {
	Username string
	Form     AgendaFormViewModel
	Agendas  []AgendaCardViewModel
}

// ConfirmDeleteViewModel is the two-outcome delete gate.
type ConfirmDeleteViewModel struct {
	Message   string
	ConfirmTo string // POST target for "Ya, Hapus"
	CancelTo  string // GET target for "Batal"
}
