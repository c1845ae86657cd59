package model

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

// Field length limits for agenda input.
const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 500
)

// Form field names used as keys in ValidationError.Fields.
const (
	FieldTitle       = "title"
	FieldDate        = "date"
	FieldTime        = "time"
	FieldDescription = "description"
)

var (
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timePattern = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)
)

// AgendaInput holds the user-editable fields of an agenda as submitted.
type AgendaInput struct {
	Title       string
	Date        string
	Time        string
	Description string
}

// Normalized returns a copy with title and description trimmed. Date and time
// are kept verbatim so that malformed values are reported as such.
func (in AgendaInput) Normalized() AgendaInput {
	return AgendaInput{
		Title:       strings.TrimSpace(in.Title),
		Date:        in.Date,
		Time:        in.Time,
		Description: strings.TrimSpace(in.Description),
	}
}

// Validate checks every field and reports all violations at once. It returns
// nil when the input may be persisted, or a *ValidationError otherwise.
func (in AgendaInput) Validate() error {
	fields := make(map[string]string)

	title := strings.TrimSpace(in.Title)
	if title == "" || utf8.RuneCountInString(in.Title) > MaxTitleLength {
		fields[FieldTitle] = fmt.Sprintf("Judul harus diisi (max %d karakter)", MaxTitleLength)
	}

	if !IsValidDate(in.Date) {
		fields[FieldDate] = "Tanggal harus diisi"
	}

	if !IsValidTime(in.Time) {
		fields[FieldTime] = "Waktu harus diisi"
	}

	description := strings.TrimSpace(in.Description)
	if description == "" || utf8.RuneCountInString(in.Description) > MaxDescriptionLength {
		fields[FieldDescription] = fmt.Sprintf("Deskripsi harus diisi (max %d karakter)", MaxDescriptionLength)
	}

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// IsValidDate reports whether s is YYYY-MM-DD and names a real calendar date.
func IsValidDate(s string) bool {
	if !datePattern.MatchString(s) {
		return false
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// IsValidTime reports whether s is a 24-hour HH:MM time.
func IsValidTime(s string) bool {
	return timePattern.MatchString(s)
}

// ValidationError reports which agenda fields were rejected. Fields maps a
// field name (FieldTitle, ...) to a user-facing message.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "invalid agenda fields: " + strings.Join(names, ", ")
}

// Has reports whether field was rejected.
func (e *ValidationError) Has(field string) bool {
	_, ok := e.Fields[field]
	return ok
}
