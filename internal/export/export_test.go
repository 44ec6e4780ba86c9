package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/theirongolddev/edupulse/internal/model"
)

func sample() *model.CompleteMetrics {
	return &model.CompleteMetrics{
		DashboardStats: model.DashboardStats{UserCount: 3, CourseCount: 2, OrderCount: 4, TotalRevenue: 1500},
		ProductPerformance: []model.ProductPerformance{
			{CourseID: 7, CourseName: `He said "hi"`, SalesCount: 3, Revenue: 1000},
			{CourseID: 0, CourseName: "Orphan, with comma", SalesCount: 1, Revenue: 500.5},
		},
		AudienceMetrics: model.AudienceMetrics{
			DAU: model.Series{"2026-03-01": 2},
			WAU: model.Series{},
			MAU: model.Series{},
		},
		RetentionTrend: model.Series{},
	}
}

func TestQuoteCSV(t *testing.T) {
	tests := []struct{ in, want string }{
		{`He said "hi"`, `"He said ""hi"""`},
		{"plain", `"plain"`},
		{"", `""`},
		{`""`, `""""""`},
	}
	for _, tt := range tests {
		if got := QuoteCSV(tt.in); got != tt.want {
			t.Errorf("QuoteCSV(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sample()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	want := "courseId,courseName,salesCount,revenue\n" +
		"7,\"He said \"\"hi\"\"\",3,1000.00\n" +
		",\"Orphan, with comma\",1,500.50\n"
	if buf.String() != want {
		t.Fatalf("CSV =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestWriteCSV_NoProducts(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, &model.CompleteMetrics{}); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if buf.String() != CSVHeader+"\n" {
		t.Fatalf("CSV = %q, want header only", buf.String())
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sample()); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if !strings.Contains(buf.String(), "\n  \"dashboardStats\": {\n    \"userCount\": 3,") {
		t.Fatalf("JSON not indented by two spaces:\n%s", buf.String())
	}

	var back map[string]any
	if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	for _, key := range []string{"dashboardStats", "audienceMetrics", "retentionRate", "ltv", "cac", "arppu", "productPerformance", "retentionTrend"} {
		if _, ok := back[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}
}

func TestNoData(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, nil, JSON); !errors.Is(err, ErrNoData) {
		t.Fatalf("JSON err = %v, want ErrNoData", err)
	}
	if err := Write(&buf, nil, CSV); !errors.Is(err, ErrNoData) {
		t.Fatalf("CSV err = %v, want ErrNoData", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("wrote %q for missing data", buf.String())
	}

	dir := t.TempDir()
	if _, err := ToFile(dir, nil, JSON); !errors.Is(err, ErrNoData) {
		t.Fatalf("ToFile err = %v, want ErrNoData", err)
	}
	if entries, _ := os.ReadDir(dir); len(entries) != 0 {
		t.Fatalf("ToFile created %d files for missing data", len(entries))
	}
}

func TestToFile(t *testing.T) {
	dir := t.TempDir()
	path, err := ToFile(dir, sample(), CSV)
	if err != nil {
		t.Fatalf("ToFile: %v", err)
	}
	if filepath.Base(path) != "dashboard-products.csv" {
		t.Fatalf("path = %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), CSVHeader) {
		t.Fatalf("file content = %q", data)
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{"CSV": CSV, " csv ": CSV, "json": JSON, "": JSON}
	for in, want := range tests {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	for _, bad := range []string{"xml", "jsonl"} {
		if _, err := ParseFormat(bad); !errors.Is(err, ErrUnknownFormat) {
			t.Errorf("ParseFormat(%q) err = %v, want ErrUnknownFormat", bad, err)
		}
	}
	if JSON.FileName() != "dashboard-data.json" {
		t.Fatalf("JSON file name = %s", JSON.FileName())
	}
}
