// Package textsource selects the TextSource implementation named in configuration.
package textsource

import (
	"fmt"

	"claimscan/internal/config"
	"claimscan/internal/port"
	s3storage "claimscan/internal/storage/s3"
	"claimscan/internal/textsource/fs"
)

// ProviderFactory is a function that creates a TextSource from configuration.
type ProviderFactory func(cfg *config.Config) (port.TextSource, error)

// registry of text source factories. Builtin providers are registered below;
// tests and embedders can add more via RegisterProvider.
var providers = map[string]ProviderFactory{
	"fs": func(cfg *config.Config) (port.TextSource, error) {
		return fs.NewSource(cfg.Source.BaseDir, cfg.Extraction.MaxTextBytes), nil
	},
	"s3": func(cfg *config.Config) (port.TextSource, error) {
		return s3storage.NewS3Client(&cfg.S3, cfg.Extraction.MaxTextBytes)
	},
}

// RegisterProvider registers a text source factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// New creates the TextSource named by cfg.Source.Provider.
func New(cfg *config.Config) (port.TextSource, error) {
	factory, ok := providers[cfg.Source.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown text source provider: %s", cfg.Source.Provider)
	}
	return factory(cfg)
}
