// Package extraction turns document text into structured rental-agreement
// data: it scores values, extracts fields and aggregates per-document results.
package extraction

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"claimscan/internal/config"
	"claimscan/internal/domain"
	"claimscan/internal/template"
	"claimscan/internal/transform"
)

// AutoTemplateID selects the template from the detected layout version.
const AutoTemplateID = "auto"

// Config holds orchestrator thresholds.
type Config struct {
	DefaultTemplateID string
	VersionWarnBelow  float64
	OverallWarnBelow  float64
	MinMatchedRatio   float64
	// Now stamps ProcessedAt. Defaults to time.Now.
	Now func() time.Time
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		DefaultTemplateID: template.StandardTemplateID,
		VersionWarnBelow:  0.5,
		OverallWarnBelow:  0.6,
		MinMatchedRatio:   0.5,
		Now:               time.Now,
	}
}

// ConfigFrom maps the loaded extraction settings onto orchestrator thresholds.
func ConfigFrom(c config.ExtractionConfig) Config {
	return Config{
		DefaultTemplateID: c.DefaultTemplate,
		VersionWarnBelow:  c.VersionWarnBelow,
		OverallWarnBelow:  c.OverallWarnBelow,
		MinMatchedRatio:   c.MinMatchedRatio,
		Now:               time.Now,
	}
}

// Orchestrator runs a whole template over one document text. It holds no
// per-document state and is safe for concurrent use.
type Orchestrator struct {
	registry *template.Registry
	fields   *FieldExtractor
	cfg      Config
	logger   *zap.Logger
}

// NewOrchestrator creates an Orchestrator. It fails when the default template
// is not registered.
func NewOrchestrator(registry *template.Registry, lib *transform.Library, cfg Config, logger *zap.Logger) (*Orchestrator, error) {
	if cfg.DefaultTemplateID == "" {
		cfg.DefaultTemplateID = template.StandardTemplateID
	}
	if _, err := registry.GetTemplate(cfg.DefaultTemplateID); err != nil {
		return nil, fmt.Errorf("default template: %w", err)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		registry: registry,
		fields:   NewFieldExtractor(lib),
		cfg:      cfg,
		logger:   logger.Named("extraction.Orchestrator"),
	}, nil
}

// Registry returns the template registry the orchestrator resolves against.
func (o *Orchestrator) Registry() *template.Registry {
	return o.registry
}

// Detect reports the layout version text most resembles.
func (o *Orchestrator) Detect(text string) domain.VersionMatch {
	return o.registry.Detector().Detect(text)
}

// Extract runs templateID over text. An empty templateID means the default
// template and AutoTemplateID picks one from the detected version.
//
// Only invalid input, an unknown template and cancellation are returned as
// errors, always as *domain.ExtractionError. Field failures and low confidence
// are reported inside the result.
func (o *Orchestrator) Extract(ctx context.Context, text, templateID string) (*domain.DocumentExtraction, error) {
	start := time.Now()

	if strings.TrimSpace(text) == "" {
		return nil, o.fail(templateID, "", fmt.Errorf("%w: document text is empty", domain.ErrInvalidInput))
	}

	version := o.Detect(text)
	id := o.chooseTemplate(templateID, version)

	resolved, err := o.registry.GetTemplate(id)
	if err != nil {
		return nil, o.fail(id, version.VersionID, err)
	}
	resolved.DetectedVersion = &version

	log := o.logger.With(zap.String("template", id), zap.String("detected_version", version.VersionID))

	doc := &domain.DocumentExtraction{
		TemplateID:            resolved.ID,
		TemplateVersion:       resolved.Version,
		Data:                  make(map[string]any, len(resolved.Fields)),
		DetectedVersionID:     version.VersionID,
		VersionConfidence:     version.Confidence,
		MatchedFeatureCount:   len(version.MatchedFeatures),
		TotalFeatureCount:     version.TotalFeatures,
		TotalFieldsCount:      len(resolved.Fields),
		RequiredFieldsMissing: []string{},
		Errors:                []domain.FieldError{},
		Warnings:              []string{},
		PerFieldResults:       make(map[string]*domain.FieldExtractionResult, len(resolved.Fields)),
	}

	if version.Confidence < o.cfg.VersionWarnBelow {
		msg := fmt.Sprintf("low version confidence %.2f for detected version %s", version.Confidence, version.VersionID)
		doc.Warnings = append(doc.Warnings, msg)
		log.Warn("low version detection confidence", zap.Float64("confidence", version.Confidence))
	}

	var confidenceSum float64
	for i := range resolved.Fields {
		if err := ctx.Err(); err != nil {
			return nil, o.fail(id, version.VersionID,
				fmt.Errorf("extraction stopped after %d of %d fields: %w", i, len(resolved.Fields), err))
		}

		f := &resolved.Fields[i]
		result, err := o.extractField(text, f)
		doc.PerFieldResults[f.Name] = result

		if len(result.PatternErrors) > 0 {
			PatternErrorsTotal.WithLabelValues(id).Add(float64(len(result.PatternErrors)))
			log.Warn("unusable patterns skipped", zap.String("field", f.Name), zap.Strings("errors", result.PatternErrors))
		}

		switch {
		case err != nil:
			FieldsTotal.WithLabelValues(id, "error").Inc()
			log.Error("field processing failed", zap.String("field", f.Name), zap.Error(err))
			doc.Errors = append(doc.Errors, domain.FieldError{Field: f.Name, Error: err.Error()})
			if f.Required {
				doc.RequiredFieldsMissing = append(doc.RequiredFieldsMissing, f.Name)
			}
		case result.Matched:
			FieldsTotal.WithLabelValues(id, "matched").Inc()
			doc.Data[f.Name] = result.TransformedValue
			doc.FieldsMatchedCount++
			confidenceSum += result.Confidence
		default:
			FieldsTotal.WithLabelValues(id, "unmatched").Inc()
			if f.Required {
				doc.RequiredFieldsMissing = append(doc.RequiredFieldsMissing, f.Name)
			}
		}
	}

	if doc.FieldsMatchedCount > 0 {
		doc.OverallConfidence = confidenceSum / float64(doc.FieldsMatchedCount)
	}

	if doc.OverallConfidence < o.cfg.OverallWarnBelow {
		doc.Warnings = append(doc.Warnings, fmt.Sprintf("low overall confidence %.2f", doc.OverallConfidence))
		log.Warn("low overall extraction confidence", zap.Float64("confidence", doc.OverallConfidence))
	}
	if doc.TotalFieldsCount > 0 && float64(doc.FieldsMatchedCount)/float64(doc.TotalFieldsCount) < o.cfg.MinMatchedRatio {
		doc.Warnings = append(doc.Warnings,
			fmt.Sprintf("only %d of %d fields matched", doc.FieldsMatchedCount, doc.TotalFieldsCount))
		log.Warn("few fields matched",
			zap.Int("matched", doc.FieldsMatchedCount), zap.Int("total", doc.TotalFieldsCount))
	}

	doc.ProcessedAt = o.cfg.Now().UTC()

	outcome := "complete"
	if len(doc.RequiredFieldsMissing) > 0 || len(doc.Errors) > 0 {
		outcome = "review"
	}
	DocumentsTotal.WithLabelValues(id, outcome).Inc()
	OverallConfidence.WithLabelValues(id).Observe(doc.OverallConfidence)
	Duration.WithLabelValues(id).Observe(time.Since(start).Seconds())

	log.Info("extraction complete",
		zap.Int("matched", doc.FieldsMatchedCount),
		zap.Int("total", doc.TotalFieldsCount),
		zap.Float64("confidence", doc.OverallConfidence),
		zap.Strings("required_missing", doc.RequiredFieldsMissing),
	)
	return doc, nil
}

func (o *Orchestrator) chooseTemplate(requested string, version domain.VersionMatch) string {
	switch requested {
	case "":
		return o.cfg.DefaultTemplateID
	case AutoTemplateID:
		if version.TemplateID != "" && o.registry.Has(version.TemplateID) {
			return version.TemplateID
		}
		return o.cfg.DefaultTemplateID
	default:
		return requested
	}
}

// extractField isolates one field so a panic in a transformation or
// validation cannot abort the document.
func (o *Orchestrator) extractField(text string, f *template.FieldDefinition) (result *domain.FieldExtractionResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = &domain.FieldExtractionResult{PatternIndex: -1, Error: fmt.Sprintf("panic: %v", r)}
			err = fmt.Errorf("processing field %s: panic: %v", f.Name, r)
		}
	}()
	return o.fields.Extract(text, f)
}

// fail counts a failed document and wraps err. Unregistered template ids are
// counted as "unknown" to keep label cardinality bounded.
func (o *Orchestrator) fail(templateID, versionID string, err error) error {
	label := templateID
	if !o.registry.Has(label) {
		label = "unknown"
	}
	DocumentsTotal.WithLabelValues(label, "failed").Inc()
	return &domain.ExtractionError{TemplateID: templateID, VersionID: versionID, Err: err}
}
