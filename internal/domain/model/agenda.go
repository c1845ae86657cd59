package model

import (
	"errors"
	"time"
)

// ErrAgendaNotFound indicates no agenda with the requested ID exists.
var ErrAgendaNotFound = errors.New("agenda not found")

// Agenda layouts for the date and time fields as they are stored and submitted.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Agenda is a single scheduled event. It is stored as one element of the
// agenda collection; the JSON field names are part of the storage format.
type Agenda struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Date        string    `json:"date"` // YYYY-MM-DD
	Time        string    `json:"time"` // HH:MM, 24-hour
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// StartsAt combines Date and Time into a single instant in loc. Records with
// unparseable fields (only possible for hand-edited storage) yield the zero time.
func (a Agenda) StartsAt(loc *time.Location) time.Time {
	t, err := time.ParseInLocation(DateLayout+" "+TimeLayout, a.Date+" "+a.Time, loc)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Input returns the mutable fields of the agenda, used to pre-fill the edit form.
func (a Agenda) Input() AgendaInput {
	return AgendaInput{
		Title:       a.Title,
		Date:        a.Date,
		Time:        a.Time,
		Description: a.Description,
	}
}
