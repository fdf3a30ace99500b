package validation

import (
	"fmt"
	"strings"

	"github.com/kbukum/formkit/errors"
)

// FieldError is one message recorded against a field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator accumulates field errors in the order they are added.
type Validator struct {
	errors []FieldError
}

// New returns an empty Validator.
func New() *Validator {
	return &Validator{}
}

func (v *Validator) AddError(field, message string) {
	v.errors = append(v.errors, FieldError{Field: field, Message: message})
}

func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

func (v *Validator) Errors() []FieldError {
	return v.errors
}

// FieldErrors returns the messages recorded for one field, in order.
func (v *Validator) FieldErrors(field string) []string {
	var out []string
	for _, e := range v.errors {
		if e.Field == field {
			out = append(out, e.Message)
		}
	}
	return out
}

// ByField groups messages by field name.
func (v *Validator) ByField() map[string][]string {
	out := make(map[string][]string)
	for _, e := range v.errors {
		out[e.Field] = append(out[e.Field], e.Message)
	}
	return out
}

// Validate returns nil when nothing was recorded. Otherwise it returns an
// INVALID_INPUT error whose details carry the list under "fields" and the
// grouped messages under "by_field".
func (v *Validator) Validate() *errors.AppError {
	if !v.HasErrors() {
		return nil
	}

	messages := make([]string, len(v.errors))
	for i, e := range v.errors {
		messages[i] = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}

	return errors.Validation(strings.Join(messages, "; ")).
		WithDetail("fields", v.errors).
		WithDetail("by_field", v.ByField())
}
