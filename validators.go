package viewset

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

///////////////////////////////////////////////////////////////////////////////
// Errors
///////////////////////////////////////////////////////////////////////////////

var (
	ErrValidatorAlreadyRegistered = errors.New("a validator with this name is already registered")
	ErrEmptyValidatorName         = errors.New("validator name cannot be empty")
)

///////////////////////////////////////////////////////////////////////////////
// Validators
///////////////////////////////////////////////////////////////////////////////

// ValidatorFunc is a predicate over a raw payload value. A nil return means
// the value is acceptable; the error message otherwise is what the client
// sees in the per-field error list.
type ValidatorFunc func(value any) error

// MinLength validates that a string value has at least n characters.
func MinLength(n int) ValidatorFunc {
	return func(value any) error {
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("must be a string")
		}
		if len(s) < n {
			return fmt.Errorf("must be at least %d characters long", n)
		}
		return nil
	}
}

// MaxLength validates that a string value has at most n characters.
func MaxLength(n int) ValidatorFunc {
	return func(value any) error {
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("must be a string")
		}
		if len(s) > n {
			return fmt.Errorf("must be at most %d characters long", n)
		}
		return nil
	}
}

// OneOf validates that a string value is one of the allowed options.
func OneOf(options ...string) ValidatorFunc {
	return func(value any) error {
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("must be a string")
		}
		if !slices.Contains(options, s) {
			return fmt.Errorf("must be one of: %s", strings.Join(options, ", "))
		}
		return nil
	}
}

// UUID validates that a string value parses as a UUID.
func UUID() ValidatorFunc {
	return func(value any) error {
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("must be a string")
		}
		if _, err := uuid.Parse(s); err != nil {
			return fmt.Errorf("must be a valid UUID")
		}
		return nil
	}
}

// ruleValidator is the shared go-playground/validator instance backing Rule.
// Var is safe for concurrent use.
var ruleValidator = validator.New()

// Rule adapts a go-playground/validator tag expression into a ValidatorFunc,
// exposing its whole rule language ("email", "min=3", "url|uri", ...).
func Rule(tag string) ValidatorFunc {
	return func(value any) error {
		if err := ruleValidator.Var(value, tag); err != nil {
			return fmt.Errorf("failed rule %q", tag)
		}
		return nil
	}
}

///////////////////////////////////////////////////////////////////////////////
// Named validator registry
///////////////////////////////////////////////////////////////////////////////

// validatorRegistry maps names to validators so schema struct tags can refer
// to custom validators. Registration is expected at init time; lookups happen
// at schema construction time.
type validatorRegistry struct {
	mu         sync.RWMutex
	validators map[string]ValidatorFunc
}

var _globalValidators = &validatorRegistry{
	validators: make(map[string]ValidatorFunc),
}

func (r *validatorRegistry) register(name string, fn ValidatorFunc) error {
	if name == "" {
		return ErrEmptyValidatorName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.validators[name]; exists {
		return fmt.Errorf("%w: %s", ErrValidatorAlreadyRegistered, name)
	}

	r.validators[name] = fn
	return nil
}

func (r *validatorRegistry) lookup(name string) (ValidatorFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, ok := r.validators[name]
	return fn, ok
}

// RegisterValidator makes a named validator available to SchemaFromStruct
// `validate` tags. Names shadow go-playground rules: an entry that matches a
// registered name resolves here, anything else falls through to Rule.
func RegisterValidator(name string, fn ValidatorFunc) error {
	return _globalValidators.register(name, fn)
}

// resolveValidator turns one `validate` tag entry into a ValidatorFunc.
func resolveValidator(entry string) ValidatorFunc {
	if fn, ok := _globalValidators.lookup(entry); ok {
		return fn
	}
	return Rule(entry)
}
