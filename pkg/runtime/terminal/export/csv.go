package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// CSVWriter serialises report rows as comma-separated values
type CSVWriter struct {
	writer io.Writer
}

func NewCSVWriter(writer io.Writer) *CSVWriter {
	if writer == nil {
		writer = os.Stdout
	}
	return &CSVWriter{writer: writer}
}

// Write writes every row, header first, and flushes the underlying writer.
// Lines end in CRLF.
func (c *CSVWriter) Write(rows [][]string) error {
	w := csv.NewWriter(c.writer)
	w.UseCRLF = true
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}
