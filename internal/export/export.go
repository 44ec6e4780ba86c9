// Package export writes the dashboard payload as JSON or CSV.
package export

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/theirongolddev/edupulse/internal/model"
)

// Default export file names.
const (
	JSONFileName = "dashboard-data.json"
	CSVFileName  = "dashboard-products.csv"
)

// CSVHeader is the first line of a product export.
const CSVHeader = "courseId,courseName,salesCount,revenue"

// ErrNoData is returned when there is no payload to export.
var ErrNoData = errors.New("export: no data loaded")

// Format selects the export encoding.
type Format string

// Export formats.
const (
	JSON Format = "json"
	CSV  Format = "csv"
)

// ErrUnknownFormat is returned by ParseFormat for names other than json and csv.
var ErrUnknownFormat = errors.New("export: format must be json or csv")

// ParseFormat resolves a format name, case-insensitively. An empty name is JSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(JSON):
		return JSON, nil
	case string(CSV):
		return CSV, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// FileName is the default file name for f.
func (f Format) FileName() string {
	if f == CSV {
		return CSVFileName
	}
	return JSONFileName
}

// ContentType is the MIME type for f.
func (f Format) ContentType() string {
	if f == CSV {
		return "text/csv; charset=utf-8"
	}
	return "application/json"
}

// Write encodes m to w in format f.
func Write(w io.Writer, m *model.CompleteMetrics, f Format) error {
	if f == CSV {
		return WriteCSV(w, m)
	}
	return WriteJSON(w, m)
}

// WriteJSON writes the full payload, indented by two spaces.
func WriteJSON(w io.Writer, m *model.CompleteMetrics) error {
	if m == nil {
		return ErrNoData
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

// WriteCSV writes product performance, one course per line.
// Course names are always quoted; a zero course id is left empty.
func WriteCSV(w io.Writer, m *model.CompleteMetrics) error {
	if m == nil {
		return ErrNoData
	}
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(CSVHeader + "\n"); err != nil {
		return err
	}
	for _, p := range m.ProductPerformance {
		id := ""
		if p.CourseID != 0 {
			id = strconv.FormatInt(p.CourseID, 10)
		}
		line := fmt.Sprintf("%s,%s,%d,%s\n",
			id, QuoteCSV(p.CourseName), p.SalesCount, strconv.FormatFloat(p.Revenue, 'f', 2, 64))
		if _, err := bw.WriteString(line); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// QuoteCSV wraps s in double quotes, doubling any quotes inside.
func QuoteCSV(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// ToFile writes m into dir under f's default file name and returns the path.
func ToFile(dir string, m *model.CompleteMetrics, f Format) (string, error) {
	if m == nil {
		return "", ErrNoData
	}
	path := filepath.Join(dir, f.FileName())
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	if err := Write(file, m, f); err != nil {
		_ = file.Close()
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", path, err)
	}
	return path, nil
}
