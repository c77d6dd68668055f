package port

import (
	"context"
	"fmt"
	"io"

	"claimscan/internal/domain"
)

// TextDocument is the plain text recovered from a source document.
type TextDocument struct {
	Text      string
	PageCount int
	Metadata  map[string]string
}

// TextSource turns a document reference into plain text. OCR and PDF
// rendering happen upstream; implementations only fetch text that already
// exists.
type TextSource interface {
	ExtractText(ctx context.Context, path string) (*TextDocument, error)
	// Ping reports whether the source is reachable.
	Ping(ctx context.Context) error
}

// ReadLimited reads r to the end but never buffers more than maxBytes+1
// bytes. Longer input fails with domain.ErrTextTooLarge. maxBytes <= 0 reads
// without a limit.
func ReadLimited(r io.Reader, maxBytes int64) ([]byte, error) {
	if maxBytes <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", domain.ErrTextTooLarge, maxBytes)
	}
	return data, nil
}
