package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"claimscan/internal/csvexport"
	"claimscan/internal/domain"
	"claimscan/internal/extraction"
	"claimscan/internal/service"
	"claimscan/internal/xlsxexport"
)

type batchOptions struct {
	format      string
	concurrency int
	timeout     time.Duration
	bom         bool
}

func newBatchCmd(opts *cliOptions) *cobra.Command {
	bopts := &batchOptions{}

	cmd := &cobra.Command{
		Use:   "batch <file>...",
		Short: "Extract fields from many text files concurrently",
		Long: `Extract claim fields from several pre-extracted .txt documents. A document that
cannot be read or extracted is reported in its own row and never stops the rest.
At most CLAIMSCAN_EXTRACTION_MAX_BATCH_SIZE files are accepted per run.

Examples:
  # JSON array, one element per file
  claimscan batch agreements/*.txt

  # Spreadsheet-friendly CSV with one column per field
  claimscan batch --format csv --bom agreements/*.txt > claims.csv

  # Excel workbook
  claimscan batch --format xlsx agreements/*.txt > claims.xlsx`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch bopts.format {
			case "json", "csv", "xlsx":
			default:
				return fmt.Errorf("unknown format %q: want json, csv or xlsx", bopts.format)
			}
			svc, err := newService(opts, extraction.BatchConfig{
				Concurrency:     bopts.concurrency,
				DocumentTimeout: bopts.timeout,
			})
			if err != nil {
				return err
			}

			inputs := make([]service.BatchInput, len(args))
			for i, path := range args {
				inputs[i] = service.BatchInput{Path: path, TemplateID: opts.templateID}
			}
			items, err := svc.ExtractBatch(cmd.Context(), inputs)
			if err != nil {
				return err
			}

			switch bopts.format {
			case "csv":
				return writeCSV(cmd, svc, items, bopts.bom)
			case "xlsx":
				rows, fields := exportRows(cmd.Context(), svc, items)
				return xlsxexport.Write(cmd.OutOrStdout(), fields, rows)
			default:
				return writeJSON(cmd.OutOrStdout(), opts, items)
			}
		},
	}
	addExtractionFlags(cmd, opts)
	cmd.Flags().StringVarP(&bopts.format, "format", "f", "json", "output format (json, csv, xlsx)")
	cmd.Flags().IntVarP(&bopts.concurrency, "concurrency", "c", opts.cfg.Extraction.Concurrency, "documents processed at once")
	cmd.Flags().DurationVar(&bopts.timeout, "timeout", opts.cfg.Extraction.DocumentTimeout, "per-document time limit")
	cmd.Flags().BoolVar(&bopts.bom, "bom", false, "prefix CSV output with a UTF-8 byte order mark")
	return cmd
}

// exportRows converts batch items to export rows and returns the field columns
// covering every template that produced a result.
func exportRows(ctx context.Context, svc service.ExtractionService, items []service.BatchItemResult) ([]csvexport.Row, []string) {
	rows := make([]csvexport.Row, len(items))
	for i, it := range items {
		var doc *domain.DocumentExtraction
		if it.Result != nil {
			doc = it.Result.Extraction
		}
		rows[i] = csvexport.Row{Document: it.Path, Extraction: doc}
		if it.Error != "" {
			rows[i].Err = errors.New(it.Error)
		}
	}

	fields := csvexport.FieldColumns(rows, func(id string) []string {
		tmpl, err := svc.GetTemplate(ctx, id)
		if err != nil {
			return nil
		}
		names := make([]string, len(tmpl.Fields))
		for i := range tmpl.Fields {
			names[i] = tmpl.Fields[i].Name
		}
		return names
	})
	return rows, fields
}

func writeCSV(cmd *cobra.Command, svc service.ExtractionService, items []service.BatchItemResult, bom bool) error {
	rows, fields := exportRows(cmd.Context(), svc, items)

	out := cmd.OutOrStdout()
	if bom {
		if _, err := out.Write(csvexport.BOM); err != nil {
			return err
		}
	}
	w := csvexport.NewWriter(out, fields)
	if err := w.WriteHeader(); err != nil {
		return err
	}
	if err := w.WriteRows(rows); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
