// Command bestday runs the refund-day pipeline once from the command line:
// fetch the two tables, filter to the given window, and print the day whose
// refund leaves the smallest remaining total.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"refundlens/internal/config"
	"refundlens/internal/exporter"
	"refundlens/internal/infrastructure"
	"refundlens/internal/services"
	"refundlens/internal/sheets"
)

const dateLayout = "2006-01-02"

func main() {
	source := flag.String("source", "", "spreadsheet URL or dataset id (defaults to the configured dataset)")
	from := flag.String("from", "", "window start day, YYYY-MM-DD (required)")
	to := flag.String("to", "", "window end day, YYYY-MM-DD (required)")
	export := flag.Bool("export", false, "write CSV and XLSX reports to the reports directory")
	outDir := flag.String("out", "", "report output directory (defaults to the configured reports dir)")
	flag.Parse()

	if *from == "" || *to == "" {
		fmt.Fprintln(os.Stderr, "both -from and -to are required")
		flag.Usage()
		os.Exit(2)
	}

	start, err := time.ParseInLocation(dateLayout, *from, time.Local)
	if err != nil {
		slog.Error("invalid -from day", "error", err)
		os.Exit(2)
	}
	end, err := time.ParseInLocation(dateLayout, *to, time.Local)
	if err != nil {
		slog.Error("invalid -to day", "error", err)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("failed to initialize logger", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	provider, err := sheets.NewClient(ctx, cfg.Sheets, logger)
	if err != nil {
		logger.Error("failed to initialize sheets client", "error", err)
		os.Exit(1)
	}

	svc := services.NewPipelineService(provider, cfg.Sheets, logger)
	result, err := svc.RunPipeline(ctx, *source, start, end)
	if err != nil {
		logger.Error("pipeline run failed", "error", err)
		os.Exit(1)
	}

	totals, best, ok := svc.BestDay(ctx, result.Combined)
	if !ok {
		fmt.Printf("no orders in window %s .. %s\n", *from, *to)
		return
	}

	fmt.Printf("orders in window:  %d\n", len(result.Orders))
	fmt.Printf("distinct days:     %d\n", totals.Len())
	fmt.Printf("total revenue:     %.2f\n", totals.Total())
	fmt.Printf("best refund day:   %s\n", best.Day)
	fmt.Printf("remaining revenue: %.2f\n", best.Remainder)

	if *export {
		dir := *outDir
		if dir == "" {
			dir = cfg.Reports.Dir
		}
		w := exporter.NewReportWriter(dir)
		if err := w.WriteDailyTotalsCSV("daily_totals.csv", totals); err != nil {
			logger.Error("report export failed", "report", "daily_totals.csv", "error", err)
			os.Exit(1)
		}
		if err := w.WriteCombinedCSV("combined.csv", result.Combined); err != nil {
			logger.Error("report export failed", "report", "combined.csv", "error", err)
			os.Exit(1)
		}
		if err := w.WriteBestDayWorkbook("best_day.xlsx", totals, &best); err != nil {
			logger.Error("report export failed", "report", "best_day.xlsx", "error", err)
			os.Exit(1)
		}
		fmt.Printf("reports written to %s\n", dir)
	}
}
