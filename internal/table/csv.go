package table

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Writer is the tabular writer capability: it persists a header and rows to
// path and reports how many rows were written.
type Writer interface {
	Write(path string, header []string, rows [][]string) (int, error)
}

// CSVWriter writes UTF-8 CSV files prefixed with a byte order mark so that
// spreadsheet tools detect the encoding of Persian text.
type CSVWriter struct{}

func NewCSVWriter() *CSVWriter {
	return &CSVWriter{}
}

// Write replaces path with a fresh file holding header followed by rows.
func (w *CSVWriter) Write(path string, header []string, rows [][]string) (int, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return 0, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// Truncate any previous run
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", path, err)
	}

	n, err := writeCSV(f, header, rows)
	if err != nil {
		f.Close()
		return 0, fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return 0, fmt.Errorf("failed to sync %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("failed to close %s: %w", path, err)
	}
	return n, nil
}

func writeCSV(f *os.File, header []string, rows [][]string) (int, error) {
	bufw := bufio.NewWriterSize(f, 1<<20)
	if _, err := bufw.Write(utf8BOM); err != nil {
		return 0, err
	}

	// Header, then rows
	cw := csv.NewWriter(bufw)
	if err := cw.Write(header); err != nil {
		return 0, err
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return 0, err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, err
	}
	if err := bufw.Flush(); err != nil {
		return 0, err
	}
	return len(rows), nil
}
