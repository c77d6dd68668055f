// Package fs reads pre-extracted document text from the local filesystem.
package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"claimscan/internal/domain"
	"claimscan/internal/port"
)

// Extensions accepted as plain text.
var textExtensions = map[string]bool{".txt": true, ".text": true}

// Source reads text files. When root is set, paths resolve inside it and may
// not escape it.
type Source struct {
	root     string
	maxBytes int64
}

// NewSource creates a filesystem TextSource rooted at root. An empty root
// accepts any path. Files larger than maxBytes are rejected without being read
// whole; maxBytes <= 0 disables the limit.
func NewSource(root string, maxBytes int64) *Source {
	return &Source{root: root, maxBytes: maxBytes}
}

var _ port.TextSource = (*Source)(nil)

func (s *Source) ExtractText(ctx context.Context, path string) (*port.TextDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	full, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	if !textExtensions[strings.ToLower(filepath.Ext(full))] {
		return nil, fmt.Errorf("%w: %s is not a text file", domain.ErrUnsupportedSource, path)
	}

	f, err := os.Open(full)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	data, err := port.ReadLimited(f, s.maxBytes)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: %s is not valid UTF-8", domain.ErrInvalidInput, path)
	}

	text := string(data)
	return &port.TextDocument{
		Text:      text,
		PageCount: strings.Count(text, "\f") + 1,
		Metadata: map[string]string{
			"source": "fs",
			"path":   full,
			"bytes":  strconv.Itoa(len(data)),
		},
	}, nil
}

// Ping checks that the root directory exists.
func (s *Source) Ping(ctx context.Context) error {
	if s.root == "" {
		return nil
	}
	info, err := os.Stat(s.root)
	if err != nil {
		return fmt.Errorf("text root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("text root %s is not a directory", s.root)
	}
	return nil
}

func (s *Source) resolve(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("%w: path is required", domain.ErrInvalidInput)
	}
	if s.root == "" {
		return filepath.Clean(path), nil
	}
	if filepath.IsAbs(path) {
		return "", fmt.Errorf("%w: absolute paths are not allowed", domain.ErrInvalidInput)
	}
	full := filepath.Join(s.root, path)
	rel, err := filepath.Rel(s.root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: path escapes the text root", domain.ErrInvalidInput)
	}
	return full, nil
}
