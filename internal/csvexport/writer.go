package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"claimscan/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// metadataColumns lead every row; one column per extracted field follows.
var metadataColumns = []string{
	"Document",
	"Template",
	"Template Version",
	"Detected Version",
	"Version Confidence",
	"Overall Confidence",
	"Fields Matched",
	"Required Missing",
	"Error",
	"Processed At",
}

// Row is one document of an export. Extraction is nil when Err is set.
type Row struct {
	Document   string
	Extraction *domain.DocumentExtraction
	Err        error
}

// Writer wraps csv.Writer for exporting extraction results as CSV.
type Writer struct {
	csv    *csv.Writer
	fields []string
}

// NewWriter creates a Writer that writes CSV to w with one column per field name.
func NewWriter(w io.Writer, fields []string) *Writer {
	return &Writer{csv: csv.NewWriter(w), fields: fields}
}

// FieldColumns returns the union of the field names of every row's template,
// in first-seen order. fieldNames resolves a template id to its field order.
func FieldColumns(rows []Row, fieldNames func(templateID string) []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range rows {
		if r.Extraction == nil {
			continue
		}
		for _, name := range fieldNames(r.Extraction.TemplateID) {
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	return out
}

// Header returns the metadata columns followed by fields.
func Header(fields []string) []string {
	header := make([]string, 0, len(metadataColumns)+len(fields))
	header = append(header, metadataColumns...)
	return append(header, fields...)
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(Header(w.fields))
}

// WriteRows converts extraction results to CSV rows and writes them.
func (w *Writer) WriteRows(rows []Row) error {
	for i := range rows {
		if err := w.csv.Write(Record(&rows[i], w.fields)); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// Record renders one row. Metadata columns are always filled; field columns
// only when the extraction completed.
func Record(r *Row, fields []string) []string {
	record := make([]string, len(metadataColumns)+len(fields))
	record[0] = r.Document
	if r.Err != nil {
		record[8] = r.Err.Error()
	}

	doc := r.Extraction
	if doc == nil {
		return record
	}

	record[1] = doc.TemplateID
	record[2] = doc.TemplateVersion
	record[3] = doc.DetectedVersionID
	record[4] = formatConfidence(doc.VersionConfidence)
	record[5] = formatConfidence(doc.OverallConfidence)
	record[6] = fmt.Sprintf("%d/%d", doc.FieldsMatchedCount, doc.TotalFieldsCount)
	record[7] = strings.Join(doc.RequiredFieldsMissing, ";")
	record[9] = formatTime(doc.ProcessedAt)

	for i, name := range fields {
		record[len(metadataColumns)+i] = formatValue(doc.Data[name])
	}
	return record
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return formatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	default:
		return fmt.Sprint(val)
	}
}

func formatConfidence(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
