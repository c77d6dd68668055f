package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"claimscan/internal/config"
	"claimscan/internal/extraction"
	"claimscan/internal/logging"
	"claimscan/internal/port"
	"claimscan/internal/service"
	"claimscan/internal/template"
	"claimscan/internal/textsource/fs"
	"claimscan/internal/transform"
)

// cliLogLevel keeps the CLI quiet unless CLAIMSCAN_LOG_LEVEL asks otherwise.
const cliLogLevel = "warn"

type cliOptions struct {
	cfg         *config.Config
	logLevel    string
	templateID  string
	unsureBelow float64
	compact     bool
}

// newRootCmd builds the command tree. Flag defaults come from cfg, so
// CLAIMSCAN_* settings apply to the CLI the same way they apply to the server.
func newRootCmd(cfg *config.Config) *cobra.Command {
	opts := &cliOptions{cfg: cfg}

	logLevel := cliLogLevel
	if _, ok := os.LookupEnv("CLAIMSCAN_LOG_LEVEL"); ok {
		logLevel = cfg.Log.Level
	}

	root := &cobra.Command{
		Use:   "claimscan",
		Short: "Extract claim fields from rental agreement text",
		Long: `claimscan runs the rental agreement templates over pre-extracted document text
and prints the structured result as JSON.

Thresholds and limits are read from CLAIMSCAN_* environment variables, the same
settings the server uses.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", logLevel, "log level written to stderr (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&opts.compact, "compact", false, "print JSON on a single line")

	root.AddCommand(newExtractCmd(opts))
	root.AddCommand(newDetectCmd(opts))
	root.AddCommand(newTemplatesCmd(opts))
	root.AddCommand(newBatchCmd(opts))
	return root
}

func newExtractCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract [file]",
		Short: "Extract fields from a text file or stdin",
		Long: `Extract claim fields from a pre-extracted .txt document.

Examples:
  # Extract with the layout picked by version detection
  claimscan extract agreement.txt

  # Force a template
  claimscan extract --template rental_agreement_v2 agreement.txt

  # Read from stdin
  pdftotext agreement.pdf - | claimscan extract -`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService(opts, extraction.BatchConfig{})
			if err != nil {
				return err
			}

			var result *service.ExtractionResult
			if isStdin(args) {
				text, err := readStdin(cmd, opts)
				if err != nil {
					return err
				}
				result, err = svc.ExtractText(cmd.Context(), service.ExtractTextInput{Text: text, TemplateID: opts.templateID})
				if err != nil {
					return err
				}
			} else {
				result, err = svc.ExtractFile(cmd.Context(), service.ExtractFileInput{Path: args[0], TemplateID: opts.templateID})
				if err != nil {
					return err
				}
			}
			return writeJSON(cmd.OutOrStdout(), opts, result)
		},
	}
	addExtractionFlags(cmd, opts)
	return cmd
}

// addExtractionFlags registers the flags shared by extract and batch.
func addExtractionFlags(cmd *cobra.Command, opts *cliOptions) {
	cmd.Flags().StringVarP(&opts.templateID, "template", "t", extraction.AutoTemplateID, "template id, or auto to use version detection")
	cmd.Flags().Float64Var(&opts.unsureBelow, "unsure-below", opts.cfg.Extraction.UnsureBelow, "confidence at or below which a matched field is flagged unsure")
}

func newDetectCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "detect [file]",
		Short: "Report which known layout a text most resembles",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService(opts, extraction.BatchConfig{})
			if err != nil {
				return err
			}
			text, err := readInput(cmd, opts, args)
			if err != nil {
				return err
			}
			match, err := svc.DetectVersion(cmd.Context(), text)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), opts, match)
		},
	}
}

func newTemplatesCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "templates [id]",
		Short: "List templates, or print one resolved template",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService(opts, extraction.BatchConfig{})
			if err != nil {
				return err
			}
			if len(args) == 1 {
				tmpl, err := svc.GetTemplate(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), opts, tmpl)
			}

			summaries, err := svc.ListTemplates(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, s := range summaries {
				fmt.Fprintf(out, "%-22s %-5s %3d fields  %s\n", s.ID, s.Version, s.FieldCount, s.Name)
			}
			return nil
		},
	}
}

// newService wires the same stack as cmd/server over local files. batch
// overrides the configured concurrency and timeout when set.
func newService(opts *cliOptions, batch extraction.BatchConfig) (service.ExtractionService, error) {
	logger, err := logging.New(config.LogConfig{Level: opts.logLevel, Format: opts.cfg.Log.Format})
	if err != nil {
		return nil, err
	}
	logger = logger.WithOptions(zap.WithCaller(false))

	ec := opts.cfg.Extraction
	orch, err := extraction.NewOrchestrator(template.Default(), transform.Default(), extraction.ConfigFrom(ec), logger)
	if err != nil {
		return nil, err
	}

	svcCfg := service.ExtractionServiceConfigFrom(ec)
	svcCfg.UnsureBelow = opts.unsureBelow
	if batch.Concurrency > 0 {
		svcCfg.Batch.Concurrency = batch.Concurrency
	}
	if batch.DocumentTimeout > 0 {
		svcCfg.Batch.DocumentTimeout = batch.DocumentTimeout
	}
	return service.NewExtractionService(orch, localSource(opts), svcCfg, logger), nil
}

// localSource reads any local path, bounded by the configured text limit.
func localSource(opts *cliOptions) *fs.Source {
	return fs.NewSource("", opts.cfg.Extraction.MaxTextBytes)
}

func isStdin(args []string) bool {
	return len(args) == 0 || args[0] == "-"
}

// readInput reads the document from the named file, or from stdin when the
// argument is missing or "-".
func readInput(cmd *cobra.Command, opts *cliOptions, args []string) (string, error) {
	if isStdin(args) {
		return readStdin(cmd, opts)
	}
	doc, err := localSource(opts).ExtractText(cmd.Context(), args[0])
	if err != nil {
		return "", err
	}
	return doc.Text, nil
}

func readStdin(cmd *cobra.Command, opts *cliOptions) (string, error) {
	in := cmd.InOrStdin()
	if in == os.Stdin && stdinIsTerminal() {
		return "", fmt.Errorf("no input: pass a file or pipe text on stdin")
	}
	data, err := port.ReadLimited(in, opts.cfg.Extraction.MaxTextBytes)
	if err != nil {
		return "", fmt.Errorf("failed to read from stdin: %w", err)
	}
	return string(data), nil
}

func writeJSON(w io.Writer, opts *cliOptions, v any) error {
	enc := json.NewEncoder(w)
	if !opts.compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// stdinIsTerminal reports whether stdin is an interactive terminal.
func stdinIsTerminal() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
