package viewset

import (
	"errors"
)

///////////////////////////////////////////////////////////////////////////////
// Errors
///////////////////////////////////////////////////////////////////////////////

var (
	ErrUnboundSerializer = errors.New("serializer is not bound to an instance")
)

// NonFieldErrorsKey is the key under which payload-level problems (a body
// that is not a JSON object) are reported in the error mapping.
const NonFieldErrorsKey = "non_field_errors"

///////////////////////////////////////////////////////////////////////////////
// Serializer
///////////////////////////////////////////////////////////////////////////////

// Serializer mediates between raw request payloads and a domain instance.
//
// It is constructed per request from a shared Schema, bound to at most one
// instance (retrieve/update/destroy) or none (list/create), and discarded
// with the request. It is not safe for concurrent use.
type Serializer struct {
	schema   *Schema
	instance any

	validated map[string]any
	fieldErrs map[string][]string
}

// NewSerializer builds an unbound serializer over schema.
func NewSerializer(schema *Schema) *Serializer {
	return &Serializer{schema: schema}
}

// Schema returns the schema this serializer validates against.
func (s *Serializer) Schema() *Schema {
	return s.schema
}

// Bind attaches a domain instance. The serializer borrows the instance for
// the duration of the request; it never owns or copies it.
func (s *Serializer) Bind(instance any) {
	s.instance = instance
}

// Unbind detaches the current instance, if any.
func (s *Serializer) Unbind() {
	s.instance = nil
}

// Instance returns the bound instance, or nil when unbound.
func (s *Serializer) Instance() any {
	return s.instance
}

// IsValid validates payload against every writable field of the schema.
// Required fields must be present (or carry a default). On success
// ValidatedData holds the cleaned writable values; on failure Errors holds
// every message for every failing field and ValidatedData is empty.
//
// Each call recomputes from scratch; repeated calls with the same payload
// yield identical results.
func (s *Serializer) IsValid(payload *Payload) bool {
	return s.validate(payload, false)
}

// IsValidPartial validates only the fields actually present in payload.
// Required is not enforced; absent fields are simply left out of
// ValidatedData. This is the update-action policy: required is a creation
// concern.
func (s *Serializer) IsValidPartial(payload *Payload) bool {
	return s.validate(payload, true)
}

func (s *Serializer) validate(payload *Payload, partial bool) bool {
	s.validated = nil
	s.fieldErrs = nil

	if !payload.Valid() {
		s.fieldErrs = map[string][]string{
			NonFieldErrorsKey: {ErrMalformedPayload.Error()},
		}
		return false
	}

	staged := make(map[string]any)
	failed := make(map[string][]string)

	for _, field := range s.schema.Fields() {
		if field.ReadOnly {
			continue
		}

		result := field.Validate(payload.Get(field.Name), !partial)
		if !result.Ok() {
			failed[field.Name] = result.Messages
			continue
		}
		if result.Present {
			staged[field.Name] = result.Value
		}
	}

	if len(failed) > 0 {
		s.fieldErrs = failed
		return false
	}

	s.validated = staged
	return true
}

// ValidatedData returns the cleaned writable values from the last successful
// validation pass. Read-only fields never appear here, even when supplied in
// the payload. Nil before validation or after a failed pass.
func (s *Serializer) ValidatedData() map[string]any {
	return s.validated
}

// Errors returns the field error mapping from the last failed validation
// pass. Nil before validation or after a successful pass.
func (s *Serializer) Errors() map[string][]string {
	return s.fieldErrs
}

///////////////////////////////////////////////////////////////////////////////
// Output representation
///////////////////////////////////////////////////////////////////////////////

// Representer lets a domain instance shape its own representation instead of
// the default declared-fields projection.
type Representer interface {
	Represent() (map[string]any, error)
}

// Serialize produces the output representation of the bound instance: every
// declared field's current value, read-only fields included. Instances may
// be maps keyed by field name or structs with matching json tags; instances
// implementing Representer take over entirely.
func (s *Serializer) Serialize() (map[string]any, error) {
	if s.instance == nil {
		return nil, ErrUnboundSerializer
	}

	if rep, ok := s.instance.(Representer); ok {
		return rep.Represent()
	}

	out := make(map[string]any, len(s.schema.Fields()))
	for _, field := range s.schema.Fields() {
		value, found, err := lookupInstanceValue(s.instance, field.Name)
		if err != nil {
			return nil, err
		}
		if !found {
			continue
		}
		out[field.Name] = value
	}

	return out, nil
}
