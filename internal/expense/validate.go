package expense

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FieldError describes a single invalid field in a request payload.
type FieldError struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

// ValidationError carries the full list of invalid fields so the handler
// can report them all at once.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	for i, f := range e.Fields {
		if i > 0 {
			b.WriteString("; ")
		}

		b.WriteString(f.Field + ": " + f.Msg)
	}

	return b.String()
}

func (p CreateParams) validate() error {
	var fields []FieldError

	if strings.TrimSpace(p.Category) == "" {
		fields = append(fields, FieldError{Field: "category", Msg: "required"})
	}

	if strings.TrimSpace(p.Description) == "" {
		fields = append(fields, FieldError{Field: "description", Msg: "required"})
	}

	if !p.HasValue {
		fields = append(fields, FieldError{Field: "value", Msg: "required"})
	} else if p.Value.IsNegative() {
		fields = append(fields, FieldError{Field: "value", Msg: "must be >= 0"})
	}

	if p.Date.IsZero() {
		fields = append(fields, FieldError{Field: "date", Msg: "required"})
	}

	if strings.TrimSpace(p.PaymentMethod) == "" {
		fields = append(fields, FieldError{Field: "paymentMethod", Msg: "required"})
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	return nil
}

func (p Patch) validate() error {
	var fields []FieldError

	if p.Category != nil && strings.TrimSpace(*p.Category) == "" {
		fields = append(fields, FieldError{Field: "category", Msg: "must not be empty"})
	}

	if p.Description != nil && strings.TrimSpace(*p.Description) == "" {
		fields = append(fields, FieldError{Field: "description", Msg: "must not be empty"})
	}

	if p.Value != nil && p.Value.Cmp(decimal.Zero) < 0 {
		fields = append(fields, FieldError{Field: "value", Msg: "must be >= 0"})
	}

	if p.PaymentMethod != nil && strings.TrimSpace(*p.PaymentMethod) == "" {
		fields = append(fields, FieldError{Field: "paymentMethod", Msg: "must not be empty"})
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	return nil
}
