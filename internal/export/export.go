package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Format is an output file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// SheetName is the worksheet that XLSX output is written to.
const SheetName = "Sheet1"

// ErrUnknownFormat is returned for a format other than csv or xlsx.
var ErrUnknownFormat = errors.New("output format must be 'csv' or 'xlsx'")

// ParseFormat converts a case-insensitive format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// FormatForPath returns the format implied by path's extension, or
// fallback when the extension is not recognised.
func FormatForPath(path string, fallback Format) Format {
	if f, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), ".")); err == nil {
		return f
	}
	return fallback
}

// ExpandPath replaces a leading ~/ with the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, path[2:]), nil
}

// Write encodes t to w in the given format.
func Write(w io.Writer, t Table, format Format) error {
	switch format {
	case FormatCSV:
		return writeCSV(w, t)
	case FormatXLSX:
		return writeXLSX(w, t)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// WriteFile writes t to path, replacing any existing file. The table is
// written to a temporary file in the same directory and renamed into place.
func WriteFile(path string, t Table, format Format) error {
	path, err := ExpandPath(path)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if err := Write(tmp, t, format); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("setting file mode: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

func writeCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Records); err != nil {
		return err
	}
	return cw.Error()
}

func writeXLSX(w io.Writer, t Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return err
	}

	header := make([]interface{}, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	for i, rec := range t.Records {
		row := make([]interface{}, len(rec))
		for j, cell := range rec {
			row[j] = typedCell(cell, t.kind(j))
		}
		addr, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(addr, row); err != nil {
			return err
		}
	}

	if err := sw.Flush(); err != nil {
		return err
	}
	_, err = f.WriteTo(w)
	return err
}

func (t Table) kind(col int) Kind {
	if col < len(t.Kinds) {
		return t.Kinds[col]
	}
	return KindText
}

// typedCell converts a formatted cell into the value stored in a sheet.
// Missing values stay empty.
func typedCell(cell string, kind Kind) interface{} {
	if cell == "" {
		return nil
	}
	switch kind {
	case KindNumber:
		if v, err := strconv.ParseFloat(cell, 64); err == nil {
			return v
		}
	case KindBool:
		if v, err := strconv.ParseBool(cell); err == nil {
			return v
		}
	}
	return cell
}
