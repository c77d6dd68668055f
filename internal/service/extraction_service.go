package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"claimscan/internal/config"
	"claimscan/internal/domain"
	"claimscan/internal/extraction"
	"claimscan/internal/port"
	"claimscan/internal/template"
)

// ExtractTextInput is the DTO for extracting from text supplied by the caller.
type ExtractTextInput struct {
	Text       string
	TemplateID string
}

// ExtractFileInput is the DTO for extracting from a document held by the text source.
type ExtractFileInput struct {
	Path       string
	TemplateID string
}

// BatchInput is one document in a batch. Text wins over Path when both are set.
type BatchInput struct {
	Path       string `json:"path"`
	Text       string `json:"text"`
	TemplateID string `json:"template_id"`
}

// ExtractionResult is a completed extraction with its review statuses.
type ExtractionResult struct {
	ID            uuid.UUID                          `json:"id"`
	Path          string                             `json:"path,omitempty"`
	PageCount     int                                `json:"page_count"`
	Extraction    *domain.DocumentExtraction         `json:"extraction"`
	FieldStatuses map[string]*extraction.FieldStatus `json:"field_statuses"`
}

// BatchItemResult contains the outcome for one document of a batch.
type BatchItemResult struct {
	Index   int               `json:"index"`
	Path    string            `json:"path,omitempty"`
	Success bool              `json:"success"`
	Result  *ExtractionResult `json:"result,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// TemplateSummary describes a registered template without its patterns.
type TemplateSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Version     string `json:"version"`
	ParentID    string `json:"parent_id,omitempty"`
	FieldCount  int    `json:"field_count"`
}

// ExtractionServiceConfig holds service limits.
type ExtractionServiceConfig struct {
	UnsureBelow  float64
	MaxTextBytes int64
	MaxBatchSize int
	Batch        extraction.BatchConfig
}

// ExtractionServiceConfigFrom maps the loaded extraction settings onto service limits.
func ExtractionServiceConfigFrom(c config.ExtractionConfig) ExtractionServiceConfig {
	return ExtractionServiceConfig{
		UnsureBelow:  c.UnsureBelow,
		MaxTextBytes: c.MaxTextBytes,
		MaxBatchSize: c.MaxBatchSize,
		Batch: extraction.BatchConfig{
			Concurrency:     c.Concurrency,
			DocumentTimeout: c.DocumentTimeout,
		},
	}
}

// ExtractionService defines the document extraction contract.
type ExtractionService interface {
	ExtractText(ctx context.Context, input ExtractTextInput) (*ExtractionResult, error)
	ExtractFile(ctx context.Context, input ExtractFileInput) (*ExtractionResult, error)
	ExtractBatch(ctx context.Context, inputs []BatchInput) ([]BatchItemResult, error)
	DetectVersion(ctx context.Context, text string) (*domain.VersionMatch, error)
	ListTemplates(ctx context.Context) ([]TemplateSummary, error)
	GetTemplate(ctx context.Context, id string) (*template.ResolvedTemplate, error)
	Ready(ctx context.Context) error
}

type extractionService struct {
	orchestrator *extraction.Orchestrator
	source       port.TextSource
	cfg          ExtractionServiceConfig
	logger       *zap.Logger
}

// NewExtractionService creates a new ExtractionService implementation.
// source may be nil, in which case only caller-supplied text can be extracted.
func NewExtractionService(
	orchestrator *extraction.Orchestrator,
	source port.TextSource,
	cfg ExtractionServiceConfig,
	logger *zap.Logger,
) ExtractionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &extractionService{
		orchestrator: orchestrator,
		source:       source,
		cfg:          cfg,
		logger:       logger.Named("service.Extraction"),
	}
}

func (s *extractionService) ExtractText(ctx context.Context, input ExtractTextInput) (*ExtractionResult, error) {
	if err := s.checkSize(input.Text); err != nil {
		return nil, &domain.ExtractionError{TemplateID: input.TemplateID, Err: err}
	}
	return s.run(ctx, "", input.Text, strings.Count(input.Text, "\f")+1, input.TemplateID)
}

func (s *extractionService) ExtractFile(ctx context.Context, input ExtractFileInput) (*ExtractionResult, error) {
	doc, err := s.load(ctx, input.Path)
	if err != nil {
		return nil, &domain.ExtractionError{Path: input.Path, TemplateID: input.TemplateID, Err: err}
	}
	return s.run(ctx, input.Path, doc.Text, doc.PageCount, input.TemplateID)
}

func (s *extractionService) ExtractBatch(ctx context.Context, inputs []BatchInput) ([]BatchItemResult, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: batch is empty", domain.ErrInvalidInput)
	}
	if s.cfg.MaxBatchSize > 0 && len(inputs) > s.cfg.MaxBatchSize {
		return nil, fmt.Errorf("%w: batch of %d documents exceeds the limit of %d",
			domain.ErrInvalidInput, len(inputs), s.cfg.MaxBatchSize)
	}

	results := make([]BatchItemResult, len(inputs))
	extraction.RunBatch(ctx, len(inputs), s.cfg.Batch, func(ctx context.Context, i int) {
		in := inputs[i]
		var (
			res *ExtractionResult
			err error
		)
		if in.Text != "" {
			res, err = s.ExtractText(ctx, ExtractTextInput{Text: in.Text, TemplateID: in.TemplateID})
		} else {
			res, err = s.ExtractFile(ctx, ExtractFileInput{Path: in.Path, TemplateID: in.TemplateID})
		}

		results[i] = BatchItemResult{Index: i, Path: in.Path, Success: err == nil, Result: res}
		if err != nil {
			results[i].Error = err.Error()
		}
	})

	failed := 0
	for _, r := range results {
		if !r.Success {
			failed++
		}
	}
	s.logger.Info("batch extraction finished", zap.Int("documents", len(inputs)), zap.Int("failed", failed))
	return results, nil
}

func (s *extractionService) DetectVersion(ctx context.Context, text string) (*domain.VersionMatch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: document text is empty", domain.ErrInvalidInput)
	}
	if err := s.checkSize(text); err != nil {
		return nil, err
	}
	match := s.orchestrator.Detect(text)
	return &match, nil
}

func (s *extractionService) ListTemplates(_ context.Context) ([]TemplateSummary, error) {
	registry := s.orchestrator.Registry()
	ids := registry.AvailableTemplates()
	out := make([]TemplateSummary, 0, len(ids))
	for _, id := range ids {
		t, err := registry.GetTemplate(id)
		if err != nil {
			return nil, fmt.Errorf("resolving template %s: %w", id, err)
		}
		out = append(out, TemplateSummary{
			ID:          t.ID,
			Name:        t.Name,
			Description: t.Description,
			Version:     t.Version,
			ParentID:    t.ParentID,
			FieldCount:  len(t.Fields),
		})
	}
	return out, nil
}

func (s *extractionService) GetTemplate(_ context.Context, id string) (*template.ResolvedTemplate, error) {
	return s.orchestrator.Registry().GetTemplate(id)
}

func (s *extractionService) Ready(ctx context.Context) error {
	if s.source == nil {
		return nil
	}
	return s.source.Ping(ctx)
}

func (s *extractionService) load(ctx context.Context, path string) (*port.TextDocument, error) {
	if s.source == nil {
		return nil, fmt.Errorf("%w: no text source configured", domain.ErrUnsupportedSource)
	}
	doc, err := s.source.ExtractText(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := s.checkSize(doc.Text); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *extractionService) run(ctx context.Context, path, text string, pages int, templateID string) (*ExtractionResult, error) {
	doc, err := s.orchestrator.Extract(ctx, text, templateID)
	if err != nil {
		var extractionErr *domain.ExtractionError
		if errors.As(err, &extractionErr) && extractionErr.Path == "" {
			extractionErr.Path = path
		}
		s.logger.Warn("extraction failed", zap.String("path", path), zap.String("template", templateID), zap.Error(err))
		return nil, err
	}

	return &ExtractionResult{
		ID:            uuid.New(),
		Path:          path,
		PageCount:     pages,
		Extraction:    doc,
		FieldStatuses: extraction.ComputeFieldStatuses(doc, s.cfg.UnsureBelow),
	}, nil
}

func (s *extractionService) checkSize(text string) error {
	if s.cfg.MaxTextBytes > 0 && int64(len(text)) > s.cfg.MaxTextBytes {
		return fmt.Errorf("%w: %d bytes, limit %d", domain.ErrTextTooLarge, len(text), s.cfg.MaxTextBytes)
	}
	return nil
}
