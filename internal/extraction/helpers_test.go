package extraction_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"claimscan/internal/extraction"
	"claimscan/internal/template"
	"claimscan/internal/transform"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func fixture(t *testing.T, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("..", "template", "testdata", name))
	require.NoError(t, err)
	return string(b)
}

func testConfig() extraction.Config {
	cfg := extraction.DefaultConfig()
	cfg.Now = func() time.Time { return fixedNow }
	return cfg
}

func observedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

func newOrchestrator(t *testing.T) (*extraction.Orchestrator, *observer.ObservedLogs) {
	t.Helper()
	logger, logs := observedLogger()
	o, err := extraction.NewOrchestrator(template.Default(), transform.Default(), testConfig(), logger)
	require.NoError(t, err)
	return o, logs
}

// newBaseOrchestrator runs over a hand-built registry whose default template is "base".
func newBaseOrchestrator(t *testing.T, registry *template.Registry, lib *transform.Library, logger *zap.Logger) *extraction.Orchestrator {
	t.Helper()
	cfg := testConfig()
	cfg.DefaultTemplateID = "base"
	o, err := extraction.NewOrchestrator(registry, lib, cfg, logger)
	require.NoError(t, err)
	return o
}

func field(name string, patterns ...string) template.FieldDefinition {
	return template.FieldDefinition{Name: name, DisplayName: name, Patterns: template.Patterns(patterns...)}
}
