package export

import (
	"fmt"

	"github.com/gocarina/gocsv"
)

// Dataset defines tabular export content.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// CSVExporter renders tagged struct slices into CSV bytes.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render marshals records, a slice of structs carrying `csv` tags. The header
// row is always written, even for an empty slice.
func (e *CSVExporter) Render(records interface{}) ([]byte, error) {
	out, err := gocsv.MarshalBytes(records)
	if err != nil {
		return nil, fmt.Errorf("render csv: %w", err)
	}
	return out, nil
}
