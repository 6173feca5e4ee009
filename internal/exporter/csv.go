// Package exporter writes pipeline results to CSV and XLSX report files.
package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"refundlens/internal/pipeline"
)

// ReportWriter writes report files into a fixed output directory.
type ReportWriter struct {
	dir string
}

// NewReportWriter creates a report writer rooted at dir.
func NewReportWriter(dir string) *ReportWriter {
	return &ReportWriter{dir: dir}
}

// writeCSV writes one CSV file with a header row, prefixed with a UTF-8 BOM
// so Excel opens it correctly.
func (w *ReportWriter) writeCSV(name string, headers []string, records [][]string) error {
	fullPath := filepath.Join(w.dir, name)

	slog.Info("writing CSV report",
		slog.String("path", fullPath),
		slog.Int("record_count", len(records)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer file.Close()

	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("write BOM: %w", err)
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("write headers: %w", err)
	}
	for i, record := range records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}
	return writer.Error()
}

// WriteDailyTotalsCSV writes per-day totals in first-seen day order.
func (w *ReportWriter) WriteDailyTotalsCSV(name string, totals *pipeline.DailyTotals) error {
	records := make([][]string, 0, totals.Len())
	for _, d := range totals.Days() {
		records = append(records, []string{d, strconv.FormatFloat(totals.Get(d), 'f', -1, 64)})
	}
	return w.writeCSV(name, []string{"Order Date", "Total"}, records)
}

// WriteCombinedCSV writes the enriched order records.
func (w *ReportWriter) WriteCombinedCSV(name string, combined []pipeline.EnrichedOrder) error {
	records := make([][]string, 0, len(combined))
	for _, e := range combined {
		records = append(records, []string{e.OrderID, e.OrderDate, e.Price})
	}
	return w.writeCSV(name, []string{"Order ID", "Order Date", "Price"}, records)
}
