package web

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	vm "github.com/ericfisherdev/agendahub/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/agendahub/internal/domain/model"
)

var indonesianMonths = [12]string{"Jan", "Feb", "Mar", "Apr", "Mei", "Jun", "Jul", "Agu", "Sep", "Okt", "Nov", "Des"}

// formatDate renders a stored YYYY-MM-DD date as "10 Mar 2025". Unparseable
// values are returned unchanged.
func formatDate(date string) string {
	t, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return date
	}
	return strconv.Itoa(t.Day()) + " " + indonesianMonths[t.Month()-1] + " " + strconv.Itoa(t.Year())
}

// toAgendaCardViewModel converts a domain Agenda to its presentation form.
func toAgendaCardViewModel(a model.Agenda) vm.AgendaCardViewModel {
	escapedID := url.PathEscape(a.ID)
	return vm.AgendaCardViewModel{
		ID:               a.ID,
		Title:            a.Title,
		DateLabel:        formatDate(a.Date),
		Time:             a.Time,
		Description:      a.Description,
		DescriptionLines: splitLines(a.Description),
		EditPath:         "/admin?edit=" + url.QueryEscape(a.ID),
		DeletePath:       "/admin/agendas/" + escapedID + "/delete",
	}
}

// splitLines breaks a description into display lines. CRLF and CR line
// endings from form posts count as one break.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.Split(s, "\n")
}

func toAgendaCardViewModels(agendas []model.Agenda) []vm.AgendaCardViewModel {
	vms := make([]vm.AgendaCardViewModel, 0, len(agendas))
	for _, a := range agendas {
		vms = append(vms, toAgendaCardViewModel(a))
	}
	return vms
}

// newCreateForm returns the empty form in create mode.
func newCreateForm() vm.AgendaFormViewModel {
	return vm.AgendaFormViewModel{
		Heading:     "Tambah Agenda Baru",
		SubmitLabel: "Tambah Agenda",
		Action:      "/admin/agendas",
		CancelPath:  "/admin",
	}
}

// newEditForm returns the form in edit mode pre-filled with in.
func newEditForm(id string, in model.AgendaInput) vm.AgendaFormViewModel {
	return vm.AgendaFormViewModel{
		Editing:     true,
		Heading:     "Edit Agenda",
		SubmitLabel: "Update Agenda",
		Action:      "/admin/agendas/" + url.PathEscape(id),
		CancelPath:  "/admin",
		Title:       in.Title,
		Date:        in.Date,
		Time:        in.Time,
		Description: in.Description,
	}
}

// withInput copies submitted values and validation messages onto the form so
// the user can correct them without retyping.
func withInput(form vm.AgendaFormViewModel, in model.AgendaInput, verr *model.ValidationError) vm.AgendaFormViewModel {
	form.Title = in.Title
	form.Date = in.Date
	form.Time = in.Time
	form.Description = in.Description
	if verr != nil {
		form.Errors = verr.Fields
	}
	return form
}

func confirmDeleteMessage(title string) string {
	return `Apakah Anda yakin ingin menghapus agenda "` + title + `"?`
}
