package model

import (
	"reflect"
	"time"
)

// Known field types. A form may still carry a type outside this set if it
// predates a schema change; the validator treats those as unconstrained.
const (
	FieldText     = "text"
	FieldTextarea = "textarea"
	FieldNumber   = "number"
	FieldEmail    = "email"
	FieldDate     = "date"
	FieldCheckbox = "checkbox"
	FieldRadio    = "radio"
	FieldSelect   = "select"
	FieldFile     = "file"
)

type Form struct {
	ID          string        `json:"id,omitempty"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Version     int           `json:"version,omitempty"`
	Fields      []FieldSchema `json:"fields"`
	CreatedAt   time.Time     `json:"createdAt,omitempty"`
	UpdatedAt   time.Time     `json:"updatedAt,omitempty"`
}

// FormBrief is the projection returned by list endpoints.
type FormBrief struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Version     int       `json:"version"`
	CreatedAt   time.Time `json:"createdAt"`
}

// FormPatch is a partial update; nil means "keep the stored value".
type FormPatch struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	Fields      *[]FieldSchema `json:"fields"`
}

type FieldSchema struct {
	Label      string             `json:"label"`
	Name       string             `json:"name"`
	Type       string             `json:"type"`
	Required   bool               `json:"required,omitempty"`
	Options    []string           `json:"options,omitempty"`
	Validation *FieldValidation   `json:"validation,omitempty"`
	Order      int                `json:"order,omitempty"`
	Nested     []ConditionalBlock `json:"nested,omitempty"`
}

type FieldValidation struct {
	Min   *float64 `json:"min,omitempty"`
	Max   *float64 `json:"max,omitempty"`
	Regex string   `json:"regex,omitempty"`
}

// ConditionalBlock holds sub-fields the editor shows when OptionValue is
// selected on the parent field. Display metadata only: the validator never
// compiles these.
type ConditionalBlock struct {
	OptionValue string        `json:"optionValue"`
	Fields      []FieldSchema `json:"fields"`
}

type Submission struct {
	ID          string         `json:"id"`
	FormID      string         `json:"formId"`
	FormVersion int            `json:"formVersion"`
	Answers     map[string]any `json:"answers"`
	SubmittedAt time.Time      `json:"submittedAt"`
	Meta        SubmissionMeta `json:"meta"`
}

type SubmissionMeta struct {
	IP        string `json:"ip,omitempty"`
	UserAgent string `json:"userAgent,omitempty"`
}

// FieldsEqual reports structural equality of two field lists, used to decide
// whether an update bumps the form version. Nil and empty compare equal.
func FieldsEqual(a, b []FieldSchema) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return reflect.DeepEqual(a, b)
}
