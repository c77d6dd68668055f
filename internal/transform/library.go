// Package transform holds the named normalization and validation steps that
// template fields refer to. Steps are pure functions over extracted values.
package transform

import (
	"fmt"
	"sort"
)

// Func normalizes an extracted value. Values are string, bool or float64.
type Func func(v any) any

// Predicate checks a transformed value. Predicates feed confidence scoring only.
type Predicate func(v any) bool

// Library maps step names to transformations and validations.
// Registration must finish before the library is shared between goroutines.
type Library struct {
	transforms  map[string]Func
	validations map[string]Predicate
}

// NewLibrary creates an empty Library.
func NewLibrary() *Library {
	return &Library{
		transforms:  make(map[string]Func),
		validations: make(map[string]Predicate),
	}
}

var defaultLibrary = newDefaultLibrary()

// Default returns the library holding every builtin step.
func Default() *Library {
	return defaultLibrary
}

func newDefaultLibrary() *Library {
	l := NewLibrary()
	for name, fn := range builtinTransforms() {
		l.RegisterTransform(name, fn)
	}
	for name, fn := range builtinValidations() {
		l.RegisterValidation(name, fn)
	}
	return l
}

// RegisterTransform adds or replaces a transformation.
func (l *Library) RegisterTransform(name string, fn Func) {
	l.transforms[name] = fn
}

// RegisterValidation adds or replaces a validation.
func (l *Library) RegisterValidation(name string, fn Predicate) {
	l.validations[name] = fn
}

// Transform returns the transformation registered under name.
func (l *Library) Transform(name string) (Func, bool) {
	fn, ok := l.transforms[name]
	return fn, ok
}

// Validation returns the validation registered under name.
func (l *Library) Validation(name string) (Predicate, bool) {
	fn, ok := l.validations[name]
	return fn, ok
}

// TransformNames returns the registered transformation names, sorted.
func (l *Library) TransformNames() []string {
	return sortedKeys(l.transforms)
}

// ValidationNames returns the registered validation names, sorted.
func (l *Library) ValidationNames() []string {
	return sortedKeys(l.validations)
}

// Apply folds the named transformations left to right over v.
func (l *Library) Apply(names []string, v any) (any, error) {
	out := v
	for _, name := range names {
		fn, ok := l.transforms[name]
		if !ok {
			return nil, fmt.Errorf("unknown transformation %q", name)
		}
		out = fn(out)
		if out == nil {
			return nil, fmt.Errorf("transformation %q produced no value", name)
		}
	}
	return out, nil
}

// Check runs the named validations against v and reports how many passed.
func (l *Library) Check(names []string, v any) (passed int, err error) {
	for _, name := range names {
		fn, ok := l.validations[name]
		if !ok {
			return passed, fmt.Errorf("unknown validation %q", name)
		}
		if fn(v) {
			passed++
		}
	}
	return passed, nil
}

func sortedKeys[T any](m map[string]T) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
