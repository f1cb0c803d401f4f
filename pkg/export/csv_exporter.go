package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// BOM is the UTF-8 byte order mark spreadsheet tools use to detect the encoding.
const BOM = "\ufeff"

// Dataset defines tabular export content. Each row is aligned with Headers.
type Dataset struct {
	Headers []string
	Rows    [][]string
}

// CSVExporter renders a Dataset into CSV bytes.
type CSVExporter struct {
	withBOM bool
	crlf    bool
}

// CSVOption tweaks a CSVExporter.
type CSVOption func(*CSVExporter)

// WithBOM prefixes the output with a UTF-8 byte order mark.
func WithBOM() CSVOption {
	return func(e *CSVExporter) { e.withBOM = true }
}

// WithCRLF terminates records with \r\n.
func WithCRLF() CSVOption {
	return func(e *CSVExporter) { e.crlf = true }
}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter(opts ...CSVOption) *CSVExporter {
	e := &CSVExporter{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Render produces CSV encoded bytes for the dataset. Fields holding quotes, commas or line breaks are quoted.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}
	buf := &bytes.Buffer{}
	if e.withBOM {
		buf.WriteString(BOM)
	}
	writer := csv.NewWriter(buf)
	writer.UseCRLF = e.crlf
	if err := writer.Write(data.Headers); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for i, row := range data.Rows {
		if len(row) != len(data.Headers) {
			return nil, fmt.Errorf("csv row %d has %d fields, want %d", i+1, len(row), len(data.Headers))
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
