package viewset

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

///////////////////////////////////////////////////////////////////////////////
// Errors
///////////////////////////////////////////////////////////////////////////////

var (
	ErrNoFields               = errors.New("schema must declare at least one field")
	ErrEmptyFieldName         = errors.New("field name cannot be empty")
	ErrDuplicateFieldName     = errors.New("duplicate field name in schema")
	ErrNotAStruct             = errors.New("schema prototype must be a struct or pointer to struct")
	ErrUnknownFieldModifier   = errors.New("unknown field tag modifier")
	ErrUnterminatedDefaultTag = errors.New("unterminated default value in field tag")
)

///////////////////////////////////////////////////////////////////////////////
// Schema
///////////////////////////////////////////////////////////////////////////////

// Schema is an immutable, ordered set of field declarations. It is built once
// per resource type, shared by every serializer for that resource, and safe
// for concurrent use.
type Schema struct {
	fields []*Field
	byName map[string]*Field
}

// NewSchema builds a schema from explicit field declarations. Field order is
// declaration order and determines serialize output order.
func NewSchema(fields ...*Field) (*Schema, error) {
	if len(fields) == 0 {
		return nil, ErrNoFields
	}

	s := &Schema{
		fields: make([]*Field, 0, len(fields)),
		byName: make(map[string]*Field, len(fields)),
	}

	for _, field := range fields {
		if field.Name == "" {
			return nil, ErrEmptyFieldName
		}
		if _, exists := s.byName[field.Name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateFieldName, field.Name)
		}
		s.fields = append(s.fields, field)
		s.byName[field.Name] = field
	}

	return s, nil
}

// MustSchema is NewSchema that panics on error, for package-level schema
// declarations.
func MustSchema(fields ...*Field) *Schema {
	s, err := NewSchema(fields...)
	if err != nil {
		panic(fmt.Sprintf("viewset: invalid schema: %v", err))
	}
	return s
}

// Fields returns the declared fields in declaration order. The returned
// slice and the fields it points to must not be modified.
func (s *Schema) Fields() []*Field {
	return s.fields
}

// Field returns the declaration for name, if any.
func (s *Schema) Field(name string) (*Field, bool) {
	f, ok := s.byName[name]
	return f, ok
}

///////////////////////////////////////////////////////////////////////////////
// Schema from struct tags
///////////////////////////////////////////////////////////////////////////////

// SchemaFromStruct derives a schema from a struct prototype's tags.
//
// Field names come from the `json` tag (fields tagged "-" or untagged are
// skipped). The `field` tag holds comma-separated modifiers:
//
//	required           full validation fails when the field is absent
//	readonly           excluded from the writable input set
//	default='<value>'  substituted when the field is absent
//
// Each comma-separated entry of the `validate` tag becomes one validator:
// names registered through RegisterValidator resolve to the registered
// function, anything else is treated as a go-playground/validator rule.
//
// Example:
//
//	type Cat struct {
//		ID   int    `json:"id" field:"readonly"`
//		Name string `json:"name" field:"required" validate:"min=1"`
//		Mood string `json:"mood" field:"default='sleepy'"`
//	}
func SchemaFromStruct(prototype any) (*Schema, error) {
	t := reflect.TypeOf(prototype)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, ErrNotAStruct
	}

	var fields []*Field
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}

		name := jsonFieldName(sf)
		if name == "" {
			continue
		}

		field, err := decodeFieldTag(name, sf)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", sf.Name, err)
		}

		for _, entry := range splitTagEntries(sf.Tag.Get(ValidateTagName)) {
			field.Validators = append(field.Validators, resolveValidator(entry))
		}

		fields = append(fields, field)
	}

	return NewSchema(fields...)
}

// decodeFieldTag interprets the `field` tag modifiers for one struct field.
func decodeFieldTag(name string, sf reflect.StructField) (*Field, error) {
	field := &Field{Name: name}

	tag := sf.Tag.Get(FieldTagName)
	for _, modifier := range splitTagEntries(tag) {
		switch {
		case modifier == RequiredFieldModifier:
			field.Required = true
		case modifier == ReadOnlyFieldModifier:
			field.ReadOnly = true
		case strings.HasPrefix(modifier, DefaultFieldModifier+"="):
			value, err := decodeDefaultValue(modifier)
			if err != nil {
				return nil, err
			}
			field.Default = value
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnknownFieldModifier, modifier)
		}
	}

	return field, nil
}

// decodeDefaultValue extracts the quoted value from a default='...' modifier.
// Default values are always strings; typed defaults belong in NewSchema
// declarations.
func decodeDefaultValue(modifier string) (string, error) {
	raw := strings.TrimPrefix(modifier, DefaultFieldModifier+"=")
	if len(raw) < 2 || raw[0] != '\'' || raw[len(raw)-1] != '\'' {
		return "", fmt.Errorf("%w: %s", ErrUnterminatedDefaultTag, modifier)
	}
	return raw[1 : len(raw)-1], nil
}

// jsonFieldName resolves the payload key for a struct field from its json
// tag, mirroring encoding/json name handling.
func jsonFieldName(sf reflect.StructField) string {
	tag, ok := sf.Tag.Lookup(JSONTagName)
	if !ok {
		return ""
	}
	name := strings.SplitN(tag, ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// splitTagEntries splits a comma-separated tag, trimming whitespace and
// dropping empty entries.
func splitTagEntries(tag string) []string {
	if tag == "" {
		return nil
	}
	parts := strings.Split(tag, ",")
	entries := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			entries = append(entries, trimmed)
		}
	}
	return entries
}
