package export

import (
	"fmt"
	"io"
)

// Dataset is a titled table. Every row has one cell per header.
type Dataset struct {
	Title   string
	Headers []string
	Rows    [][]string
}

func (d Dataset) validate() error {
	if len(d.Headers) == 0 {
		return fmt.Errorf("dataset requires at least one header")
	}
	for i, row := range d.Rows {
		if len(row) != len(d.Headers) {
			return fmt.Errorf("row %d has %d cells, want %d", i, len(row), len(d.Headers))
		}
	}
	return nil
}

// Renderer writes a dataset in one file format.
type Renderer interface {
	Render(w io.Writer, data Dataset) error
}

// ForFormat returns the renderer for "csv" or "pdf".
func ForFormat(format string) (Renderer, error) {
	switch format {
	case "csv":
		return NewCSVExporter(), nil
	case "pdf":
		return NewPDFExporter(), nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}
