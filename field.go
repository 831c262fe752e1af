package viewset

import (
	"github.com/tidwall/gjson"
)

// Field declares a single attribute of a resource: its name in the JSON
// payload, its read/write visibility and its validation rules.
//
// Fields are declared once, at schema construction time, and shared by every
// serializer built from that schema. They must not be mutated afterwards.
type Field struct {
	// Name is the key of this field in payloads and representations.
	Name string
	// Required makes full validation fail when the field is absent from
	// the payload. It is not enforced by partial validation.
	Required bool
	// ReadOnly excludes the field from the writable input set entirely.
	// Its value only ever appears in output, sourced from the bound
	// instance. A read-only field supplied in a payload is ignored.
	ReadOnly bool
	// Default is substituted when the field is absent from the payload
	// during full validation. Partial validation never applies it.
	// Defaults are taken as-is; validators do not run on them.
	Default any
	// Validators run in order on a present value. All of them run - the
	// field collects every failure message so the client gets the
	// complete error set in one round trip.
	Validators []ValidatorFunc
}

// FieldResult is the outcome of validating one field against a payload.
type FieldResult struct {
	Value    any      // The cleaned value, if Present and valid
	Present  bool     // Whether the payload (or a default) supplied a value
	Messages []string // Validation failure messages, empty when valid
}

// Ok reports whether the field produced no validation failures.
func (r FieldResult) Ok() bool {
	return len(r.Messages) == 0
}

func fieldResultMissing() FieldResult {
	return FieldResult{}
}

func fieldResultValue(value any) FieldResult {
	return FieldResult{Value: value, Present: true}
}

func fieldResultInvalid(messages []string) FieldResult {
	return FieldResult{Present: true, Messages: messages}
}

// Validate checks the raw payload value against this field's declaration.
//
// An absent value yields the default (when configured), a required-field
// failure (when Required) or an empty result. A present value - JSON null
// included - is run through every configured validator.
//
// Both the default substitution and the required check are suppressed when
// enforceRequired is false; that is how partial validation leaves absent
// fields out entirely instead of resetting them to their defaults.
func (f *Field) Validate(raw gjson.Result, enforceRequired bool) FieldResult {
	if !raw.Exists() {
		if !enforceRequired {
			return fieldResultMissing()
		}
		if f.Default != nil {
			return fieldResultValue(f.Default)
		}
		if f.Required {
			return fieldResultInvalid([]string{RequiredFieldMessage})
		}
		return fieldResultMissing()
	}

	value := raw.Value()

	var messages []string
	for _, validate := range f.Validators {
		if err := validate(value); err != nil {
			messages = append(messages, err.Error())
		}
	}
	if len(messages) > 0 {
		return fieldResultInvalid(messages)
	}

	return fieldResultValue(value)
}
