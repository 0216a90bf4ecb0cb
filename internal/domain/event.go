package domain

import "strings"

type Field string

const (
	FieldID        Field = "id"
	FieldName      Field = "name"
	FieldDate      Field = "date"
	FieldLocation  Field = "location"
	FieldOrganizer Field = "organizer"
)

// Fields is the canonical field order. Validation reports the first invalid
// field in this order and table columns are rendered in it.
var Fields = []Field{FieldID, FieldName, FieldDate, FieldLocation, FieldOrganizer}

func ParseField(s string) (Field, bool) {
	f := Field(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Fields {
		if f == known {
			return f, true
		}
	}
	return "", false
}

type Event struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Date      string `json:"date"`
	Location  string `json:"location"`
	Organizer string `json:"organizer"`
}

func (e Event) Get(f Field) string {
	switch f {
	case FieldID:
		return e.ID
	case FieldName:
		return e.Name
	case FieldDate:
		return e.Date
	case FieldLocation:
		return e.Location
	case FieldOrganizer:
		return e.Organizer
	default:
		return ""
	}
}

// Set reports false for a field outside Fields and leaves e untouched.
func (e *Event) Set(f Field, v string) bool {
	switch f {
	case FieldID:
		e.ID = v
	case FieldName:
		e.Name = v
	case FieldDate:
		e.Date = v
	case FieldLocation:
		e.Location = v
	case FieldOrganizer:
		e.Organizer = v
	default:
		return false
	}
	return true
}

func (e Event) Validate() error {
	for _, f := range Fields {
		if strings.TrimSpace(e.Get(f)) == "" {
			return &ValidationError{Field: f}
		}
	}
	return nil
}
