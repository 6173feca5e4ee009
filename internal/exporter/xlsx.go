package exporter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"refundlens/internal/pipeline"
)

const (
	totalsSheet  = "Daily Totals"
	bestDaySheet = "Best Day"
)

// WriteBestDayWorkbook writes an XLSX workbook with one sheet of per-day
// totals and one naming the best refund day. best may be nil when the
// aggregation was empty; the sheet then only carries the header row.
func (w *ReportWriter) WriteBestDayWorkbook(name string, totals *pipeline.DailyTotals, best *pipeline.BestDay) error {
	fullPath := filepath.Join(w.dir, name)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", totalsSheet)
	if err := setRow(f, totalsSheet, 1, "Order Date", "Total"); err != nil {
		return err
	}
	for i, d := range totals.Days() {
		if err := setRow(f, totalsSheet, i+2, d, totals.Get(d)); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(bestDaySheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", bestDaySheet, err)
	}
	if err := setRow(f, bestDaySheet, 1, "Day", "Remaining Total"); err != nil {
		return err
	}
	if best != nil {
		if err := setRow(f, bestDaySheet, 2, best.Day, best.Remainder); err != nil {
			return err
		}
	}

	if err := f.SaveAs(fullPath); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values ...interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write row %d of %s: %w", row, sheet, err)
	}
	return nil
}
