package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

// CSVExporter writes a header line followed by the dataset rows. The title is not emitted.
type CSVExporter struct{}

func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

func (e *CSVExporter) Render(w io.Writer, data Dataset) error {
	if err := data.validate(); err != nil {
		return err
	}
	writer := csv.NewWriter(w)
	if err := writer.Write(data.Headers); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}
	if err := writer.WriteAll(data.Rows); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	return nil
}
