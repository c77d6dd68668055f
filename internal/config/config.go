package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Log        LogConfig
	Extraction ExtractionConfig
	Source     SourceConfig
	S3         S3Config
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
	CORSOrigins  []string      `mapstructure:"cors_origins"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ExtractionConfig holds orchestrator thresholds and batch limits.
type ExtractionConfig struct {
	DefaultTemplate  string        `mapstructure:"default_template"`
	VersionWarnBelow float64       `mapstructure:"version_warn_below"`
	OverallWarnBelow float64       `mapstructure:"overall_warn_below"`
	MinMatchedRatio  float64       `mapstructure:"min_matched_ratio"`
	UnsureBelow      float64       `mapstructure:"unsure_below"`
	Concurrency      int           `mapstructure:"concurrency"`
	DocumentTimeout  time.Duration `mapstructure:"document_timeout"`
	MaxTextBytes     int64         `mapstructure:"max_text_bytes"`
	MaxBatchSize     int           `mapstructure:"max_batch_size"`
}

// SourceConfig selects where document text is read from.
type SourceConfig struct {
	Provider string `mapstructure:"provider"`
	BaseDir  string `mapstructure:"base_dir"`
}

// S3Config holds AWS S3 settings for the s3 text source.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// Load reads configuration from environment variables with the CLAIMSCAN_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CLAIMSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.cors_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Extraction defaults
	v.SetDefault("extraction.default_template", "standard")
	v.SetDefault("extraction.version_warn_below", 0.5)
	v.SetDefault("extraction.overall_warn_below", 0.6)
	v.SetDefault("extraction.min_matched_ratio", 0.5)
	v.SetDefault("extraction.unsure_below", 0.5)
	v.SetDefault("extraction.concurrency", 4)
	v.SetDefault("extraction.document_timeout", "30s")
	v.SetDefault("extraction.max_text_bytes", 5<<20)
	v.SetDefault("extraction.max_batch_size", 100)

	// Source defaults
	v.SetDefault("source.provider", "fs")
	v.SetDefault("source.base_dir", ".")

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "claimscan-text")
	v.SetDefault("s3.endpoint", "")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                   "CLAIMSCAN_SERVER_PORT",
		"server.read_timeout":           "CLAIMSCAN_SERVER_READ_TIMEOUT",
		"server.write_timeout":          "CLAIMSCAN_SERVER_WRITE_TIMEOUT",
		"server.environment":            "CLAIMSCAN_SERVER_ENVIRONMENT",
		"server.cors_origins":           "CLAIMSCAN_SERVER_CORS_ORIGINS",
		"log.level":                     "CLAIMSCAN_LOG_LEVEL",
		"log.format":                    "CLAIMSCAN_LOG_FORMAT",
		"extraction.default_template":   "CLAIMSCAN_EXTRACTION_DEFAULT_TEMPLATE",
		"extraction.version_warn_below": "CLAIMSCAN_EXTRACTION_VERSION_WARN_BELOW",
		"extraction.overall_warn_below": "CLAIMSCAN_EXTRACTION_OVERALL_WARN_BELOW",
		"extraction.min_matched_ratio":  "CLAIMSCAN_EXTRACTION_MIN_MATCHED_RATIO",
		"extraction.unsure_below":       "CLAIMSCAN_EXTRACTION_UNSURE_BELOW",
		"extraction.concurrency":        "CLAIMSCAN_EXTRACTION_CONCURRENCY",
		"extraction.document_timeout":   "CLAIMSCAN_EXTRACTION_DOCUMENT_TIMEOUT",
		"extraction.max_text_bytes":     "CLAIMSCAN_EXTRACTION_MAX_TEXT_BYTES",
		"extraction.max_batch_size":     "CLAIMSCAN_EXTRACTION_MAX_BATCH_SIZE",
		"source.provider":               "CLAIMSCAN_SOURCE_PROVIDER",
		"source.base_dir":               "CLAIMSCAN_SOURCE_BASE_DIR",
		"s3.region":                     "CLAIMSCAN_S3_REGION",
		"s3.bucket":                     "CLAIMSCAN_S3_BUCKET",
		"s3.endpoint":                   "CLAIMSCAN_S3_ENDPOINT",
		"s3.access_key":                 "CLAIMSCAN_S3_ACCESS_KEY",
		"s3.secret_key":                 "CLAIMSCAN_S3_SECRET_KEY",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Container platforms set PORT. Use it if CLAIMSCAN_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("CLAIMSCAN_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
		CORSOrigins:  splitList(v.GetString("server.cors_origins")),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.Extraction = ExtractionConfig{
		DefaultTemplate:  v.GetString("extraction.default_template"),
		VersionWarnBelow: v.GetFloat64("extraction.version_warn_below"),
		OverallWarnBelow: v.GetFloat64("extraction.overall_warn_below"),
		MinMatchedRatio:  v.GetFloat64("extraction.min_matched_ratio"),
		UnsureBelow:      v.GetFloat64("extraction.unsure_below"),
		Concurrency:      v.GetInt("extraction.concurrency"),
		DocumentTimeout:  v.GetDuration("extraction.document_timeout"),
		MaxTextBytes:     v.GetInt64("extraction.max_text_bytes"),
		MaxBatchSize:     v.GetInt("extraction.max_batch_size"),
	}
	cfg.Source = SourceConfig{
		Provider: strings.ToLower(strings.TrimSpace(v.GetString("source.provider"))),
		BaseDir:  v.GetString("source.base_dir"),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// splitList parses a comma-separated setting, dropping blank entries.
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Validate rejects settings the extraction pipeline cannot run with.
func (c *Config) Validate() error {
	for name, th := range map[string]float64{
		"version_warn_below": c.Extraction.VersionWarnBelow,
		"overall_warn_below": c.Extraction.OverallWarnBelow,
		"min_matched_ratio":  c.Extraction.MinMatchedRatio,
		"unsure_below":       c.Extraction.UnsureBelow,
	} {
		if th < 0 || th > 1 {
			return fmt.Errorf("extraction.%s must be within [0,1], got %v", name, th)
		}
	}
	if c.Extraction.Concurrency < 1 {
		return fmt.Errorf("extraction.concurrency must be at least 1, got %d", c.Extraction.Concurrency)
	}
	if c.Extraction.MaxTextBytes < 1 {
		return fmt.Errorf("extraction.max_text_bytes must be positive, got %d", c.Extraction.MaxTextBytes)
	}
	if c.Extraction.MaxBatchSize < 1 {
		return fmt.Errorf("extraction.max_batch_size must be at least 1, got %d", c.Extraction.MaxBatchSize)
	}
	switch c.Source.Provider {
	case "fs", "s3":
	default:
		return fmt.Errorf("source.provider must be fs or s3, got %q", c.Source.Provider)
	}
	return nil
}
