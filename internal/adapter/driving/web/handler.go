// Package web implements the HTML GUI driving adapter using templ components.
package web

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"

	"github.com/ericfisherdev/agendahub/internal/adapter/driving/web/templates"
	"github.com/ericfisherdev/agendahub/internal/adapter/driving/web/templates/pages"
	vm "github.com/ericfisherdev/agendahub/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/agendahub/internal/application"
	"github.com/ericfisherdev/agendahub/internal/domain/model"
)

const pageTitle = "Agenda Kegiatan"

// Handler is the web GUI driving adapter that serves HTML via templ components.
type Handler struct {
	agendas       *application.AgendaService
	sessions      *application.SessionService
	secureCookies bool
	logger        *slog.Logger
}

// NewHandler creates a Handler with all required dependencies. secureCookies
// marks every cookie Secure and should be set when served over HTTPS.
func NewHandler(
	agendas *application.AgendaService,
	sessions *application.SessionService,
	secureCookies bool,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		agendas:       agendas,
		sessions:      sessions,
		secureCookies: secureCookies,
		logger:        logger,
	}
}

// Page resolves the request path to a screen and renders it, redirecting when
// a session guard applies.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	session, authenticated := h.currentSession(r)

	nav := Navigate(r.URL.Path, authenticated)
	if nav.RedirectTo != "" {
		if nav.Flash != nil {
			h.setFlash(w, *nav.Flash)
		}
		http.Redirect(w, r, nav.RedirectTo, http.StatusSeeOther)
		return
	}

	switch nav.Route {
	case RouteLogin:
		h.renderLogin(w, r, http.StatusOK, vm.LoginViewModel{})
	case RouteAdmin:
		h.renderAdmin(w, r, http.StatusOK, session, h.formFromQuery(r))
	default:
		h.renderHome(w, r, session)
	}
}

// Login checks the submitted credentials and starts a session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.FormValue("username"))
	password := strings.TrimSpace(r.FormValue("password"))

	form := vm.LoginViewModel{Username: username}
	if username == "" {
		form.UsernameError = msgUsernameNeeded
	}
	if password == "" {
		form.PasswordError = msgPasswordNeeded
	}
	if form.UsernameError != "" || form.PasswordError != "" {
		form.FormError = msgLoginMissing
		h.renderLogin(w, r, http.StatusUnprocessableEntity, form)
		return
	}

	session, err := h.sessions.Login(r.Context(), username, password)
	if err != nil {
		status := http.StatusUnauthorized
		if !errors.Is(err, model.ErrInvalidCredentials) {
			h.logger.Error("login failed", "username", username, "error", err)
			status = http.StatusInternalServerError
		}
		form.FormError = msgLoginFailed
		h.renderLogin(w, r, status, form)
		return
	}

	h.setSessionCookie(w, session)
	h.setFlash(w, vm.Flash{Kind: vm.FlashSuccess, Message: msgLoginSuccess})
	http.Redirect(w, r, string(RouteAdmin), http.StatusSeeOther)
}

// Logout ends the session and returns to the public listing. Only the holder
// of the current session can end it.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.currentSession(r); ok {
		if err := h.sessions.Logout(r.Context()); err != nil {
			h.logger.Error("logout failed", "error", err)
		}
	}

	h.clearSessionCookie(w)
	http.Redirect(w, r, string(RouteHome), http.StatusSeeOther)
}

// CreateAgenda stores a new agenda from the dashboard form.
func (h *Handler) CreateAgenda(w http.ResponseWriter, r *http.Request) {
	input := agendaInputFromForm(r)

	if _, err := h.agendas.Create(r.Context(), input); err != nil {
		h.handleMutationError(w, r, err, newCreateForm(), input, msgCreateFailed)
		return
	}

	h.redirectToAdmin(w, r, vm.Flash{Kind: vm.FlashSuccess, Message: msgCreateSuccess})
}

// UpdateAgenda replaces the fields of an existing agenda.
func (h *Handler) UpdateAgenda(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	input := agendaInputFromForm(r)

	if _, err := h.agendas.Update(r.Context(), id, input); err != nil {
		h.handleMutationError(w, r, err, newEditForm(id, input), input, msgUpdateFailed)
		return
	}

	h.redirectToAdmin(w, r, vm.Flash{Kind: vm.FlashSuccess, Message: msgUpdateSuccess})
}

// ConfirmDelete renders the yes/no gate for deleting an agenda.
func (h *Handler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	agenda := h.agendas.GetByID(r.Context(), id)
	if agenda == nil {
		h.redirectToAdmin(w, r, vm.Flash{Kind: vm.FlashError, Message: msgDeleteFailed})
		return
	}

	card := toAgendaCardViewModel(*agenda)
	data := vm.ConfirmDeleteViewModel{
		Message:   confirmDeleteMessage(agenda.Title),
		ConfirmTo: card.DeletePath,
		CancelTo:  string(RouteAdmin),
	}

	h.render(w, r, http.StatusOK, sessionFrom(r.Context()), func(csrf string) templ.Component {
		return pages.ConfirmDelete(data, csrf)
	})
}

// DeleteAgenda removes an agenda after the user confirmed the gate.
func (h *Handler) DeleteAgenda(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	deleted, err := h.agendas.Delete(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to delete agenda", "id", id, "error", err)
	}
	if err != nil || !deleted {
		h.redirectToAdmin(w, r, vm.Flash{Kind: vm.FlashError, Message: msgDeleteFailed})
		return
	}

	h.redirectToAdmin(w, r, vm.Flash{Kind: vm.FlashSuccess, Message: msgDeleteSuccess})
}

// handleMutationError re-renders the form with inline messages on validation
// failure, and reports any other failure as a notification.
func (h *Handler) handleMutationError(
	w http.ResponseWriter,
	r *http.Request,
	err error,
	form vm.AgendaFormViewModel,
	input model.AgendaInput,
	failedMsg string,
) {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		h.renderAdmin(w, r, http.StatusUnprocessableEntity, sessionFrom(r.Context()), withInput(form, input, verr))
		return
	}

	if !errors.Is(err, model.ErrAgendaNotFound) {
		h.logger.Error("agenda mutation failed", "path", r.URL.Path, "error", err)
	}
	h.redirectToAdmin(w, r, vm.Flash{Kind: vm.FlashError, Message: failedMsg})
}

func (h *Handler) redirectToAdmin(w http.ResponseWriter, r *http.Request, f vm.Flash) {
	h.setFlash(w, f)
	http.Redirect(w, r, string(RouteAdmin), http.StatusSeeOther)
}

// formFromQuery returns the edit form for ?edit=<id> when the agenda exists,
// and the create form otherwise.
func (h *Handler) formFromQuery(r *http.Request) vm.AgendaFormViewModel {
	id := r.URL.Query().Get("edit")
	if id == "" {
		return newCreateForm()
	}

	agenda := h.agendas.GetByID(r.Context(), id)
	if agenda == nil {
		return newCreateForm()
	}
	return newEditForm(agenda.ID, agenda.Input())
}

func agendaInputFromForm(r *http.Request) model.AgendaInput {
	return model.AgendaInput{
		Title:       r.FormValue("title"),
		Date:        r.FormValue("date"),
		Time:        r.FormValue("time"),
		Description: r.FormValue("description"),
	}
}

func (h *Handler) renderHome(w http.ResponseWriter, r *http.Request, session *model.Session) {
	data := vm.HomeViewModel{Agendas: toAgendaCardViewModels(h.agendas.ListSorted(r.Context()))}
	h.render(w, r, http.StatusOK, session, func(string) templ.Component {
		return pages.Home(data)
	})
}

func (h *Handler) renderLogin(w http.ResponseWriter, r *http.Request, status int, data vm.LoginViewModel) {
	h.render(w, r, status, nil, func(csrf string) templ.Component {
		return pages.Login(data, csrf)
	})
}

func (h *Handler) renderAdmin(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	session *model.Session,
	form vm.AgendaFormViewModel,
) {
	data := vm.AdminViewModel{
		Form:    form,
		Agendas: toAgendaCardViewModels(h.agendas.ListSorted(r.Context())),
	}
	if session != nil {
		data.Username = session.Username
	}

	h.render(w, r, status, session, func(csrf string) templ.Component {
		return pages.Admin(data, csrf)
	})
}

// render writes body inside the layout. The page is rendered into a buffer
// first so a template failure can still produce a clean 500.
func (h *Handler) render(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	session *model.Session,
	body func(csrfToken string) templ.Component,
) {
	csrf := h.csrfToken(w, r)
	flash := h.popFlash(w, r)

	layout := vm.LayoutViewModel{
		Title:         pageTitle,
		Nav:           navLinks(r.URL.Path),
		Authenticated: session != nil,
		CSRFToken:     csrf,
		Flash:         flash,
	}
	if session != nil {
		layout.Username = session.Username
	}

	var buf bytes.Buffer
	if err := templates.Layout(layout, body(csrf)).Render(r.Context(), &buf); err != nil {
		h.logger.Error("failed to render page", "path", r.URL.Path, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
