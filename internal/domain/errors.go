package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrTemplateNotFound  = errors.New("template not found")
	ErrInvalidTemplate   = errors.New("invalid template definition")
	ErrSourceNotFound    = errors.New("source document not found")
	ErrUnsupportedSource = errors.New("unsupported text source")
	ErrTextTooLarge      = errors.New("document text exceeds maximum allowed size")
)

// ExtractionError wraps a fatal extraction failure with the context needed to diagnose it.
type ExtractionError struct {
	Path       string
	TemplateID string
	VersionID  string
	Err        error
}

func (e *ExtractionError) Error() string {
	msg := fmt.Sprintf("extracting with template %q", e.TemplateID)
	if e.Path != "" {
		msg = fmt.Sprintf("extracting %s with template %q", e.Path, e.TemplateID)
	}
	if e.VersionID != "" {
		msg += fmt.Sprintf(" (detected version %s)", e.VersionID)
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
