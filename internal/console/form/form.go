// Package form holds console input state and validation.
//
// Inputs report changes through one of two explicit callback shapes:
// ValueChangeFunc for inputs bound to a single field, FieldChangeFunc for
// inputs that share one handler across fields.
package form

import (
	"sort"
	"sync"
)

// Values maps field names to their current input.
type Values map[string]string

// ValueChangeFunc receives the new value of the field it is bound to.
type ValueChangeFunc func(value string)

// FieldChangeFunc receives the field name along with its new value.
type FieldChangeFunc func(name, value string)

// Field declares the rules for one input.
type Field struct {
	Name  string
	Rules []Validator
	Cross []CrossValidator
}

// Schema is an ordered list of fields.
type Schema []Field

func (s Schema) field(name string) (Field, bool) {
	for _, f := range s {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// check returns the first error for name, or "".
func (s Schema) check(name string, values Values) string {
	f, ok := s.field(name)
	if !ok {
		return ""
	}
	v := values[name]
	for _, rule := range f.Rules {
		if msg := rule(v); msg != "" {
			return msg
		}
	}
	for _, rule := range f.Cross {
		if msg := rule(v, values); msg != "" {
			return msg
		}
	}
	return ""
}

// Validate checks every field and returns the failures keyed by field.
func (s Schema) Validate(values Values) map[string]string {
	errs := make(map[string]string)
	for _, f := range s {
		if msg := s.check(f.Name, values); msg != "" {
			errs[f.Name] = msg
		}
	}
	return errs
}

// Form tracks values, errors and touched state for a schema.
type Form struct {
	schema  Schema
	initial Values

	mu      sync.Mutex
	values  Values
	errors  map[string]string
	touched map[string]bool
}

func New(schema Schema, initial Values) *Form {
	f := &Form{schema: schema, initial: initial}
	f.Reset()
	return f
}

// Set stores a value and clears any error already shown for that field.
func (f *Form) Set(name, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.values[name] = value
	delete(f.errors, name)
}

// Blur marks a field touched and validates it alone.
func (f *Form) Blur(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.touched[name] = true
	if msg := f.schema.check(name, f.values); msg != "" {
		f.errors[name] = msg
	} else {
		delete(f.errors, name)
	}
}

// Validate checks every field, replacing the current errors.
func (f *Form) Validate() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.errors = f.schema.Validate(f.values)
	return len(f.errors) == 0
}

// OnChange returns a handler shared across fields.
func (f *Form) OnChange() FieldChangeFunc { return f.Set }

// Bind returns a handler for a single field.
func (f *Form) Bind(name string) ValueChangeFunc {
	return func(value string) { f.Set(name, value) }
}

func (f *Form) Value(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[name]
}

// Values returns a copy of the current values.
func (f *Form) Values() Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return copyValues(f.values)
}

// Error returns the message shown for name once it has been touched or the
// whole form validated.
func (f *Form) Error(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errors[name]
}

// Errors returns a copy of all current errors.
func (f *Form) Errors() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make(map[string]string, len(f.errors))
	for k, v := range f.errors {
		out[k] = v
	}
	return out
}

// FirstError returns the first failing field in schema order.
func (f *Form) FirstError() (string, string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, field := range f.schema {
		if msg, ok := f.errors[field.Name]; ok {
			return field.Name, msg, true
		}
	}

	// Errors set for fields outside the schema, in stable order.
	names := make([]string, 0, len(f.errors))
	for name := range f.errors {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) > 0 {
		return names[0], f.errors[names[0]], true
	}
	return "", "", false
}

func (f *Form) Touched(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.touched[name]
}

// Reset restores the initial values and clears errors and touched state.
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.values = copyValues(f.initial)
	f.errors = make(map[string]string)
	f.touched = make(map[string]bool)
}

func copyValues(in Values) Values {
	out := make(Values, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
