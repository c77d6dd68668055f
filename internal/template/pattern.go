package template

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	errNoCaptureGroup = errors.New("pattern has no capture group")
	errEmptyPattern   = errors.New("pattern was never compiled")
)

// Pattern is a regular expression with one capture group. A pattern whose
// source does not compile is kept and reports its error when used, so one bad
// pattern never prevents a template from loading.
type Pattern struct {
	source string
	re     *regexp.Regexp
	err    error
}

// Compile builds a Pattern. It never panics; compile errors surface from Find.
func Compile(source string) Pattern {
	re, err := regexp.Compile(source)
	if err != nil {
		return Pattern{source: source, err: fmt.Errorf("compiling pattern %q: %w", source, err)}
	}
	return Pattern{source: source, re: re}
}

// Patterns compiles each source in order.
func Patterns(sources ...string) []Pattern {
	out := make([]Pattern, len(sources))
	for i, s := range sources {
		out[i] = Compile(s)
	}
	return out
}

// Source returns the pattern text as written.
func (p Pattern) Source() string { return p.source }

// Err returns the compile error, if any.
func (p Pattern) Err() error { return p.err }

// MarshalText renders the pattern as its source.
func (p Pattern) MarshalText() ([]byte, error) {
	return []byte(p.source), nil
}

// Find returns the trimmed first capture group of the first match in text.
// ok is false when the pattern does not match or captures only whitespace.
func (p Pattern) Find(text string) (capture string, ok bool, err error) {
	if p.err != nil {
		return "", false, p.err
	}
	if p.re == nil {
		return "", false, errEmptyPattern
	}
	if p.re.NumSubexp() < 1 {
		return "", false, fmt.Errorf("%w: %q", errNoCaptureGroup, p.source)
	}
	m := p.re.FindStringSubmatch(text)
	if m == nil {
		return "", false, nil
	}
	capture = strings.TrimSpace(m[1])
	if capture == "" {
		return "", false, nil
	}
	return capture, true, nil
}

// Matches reports whether the pattern occurs anywhere in text.
func (p Pattern) Matches(text string) (bool, error) {
	if p.err != nil {
		return false, p.err
	}
	if p.re == nil {
		return false, errEmptyPattern
	}
	return p.re.MatchString(text), nil
}
