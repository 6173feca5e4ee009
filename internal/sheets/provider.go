// Package sheets fetches the order and line-item tables from a Google
// Sheets spreadsheet, turning each tab into a sequence of header-keyed
// records.
package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"refundlens/internal/config"
	"refundlens/internal/pipeline"
)

// datasetIDPattern matches the spreadsheet id segment of a pasted URL. The
// id charset is letters, digits, dash and underscore.
var datasetIDPattern = regexp.MustCompile(`spreadsheets/d/([A-Za-z0-9\-_]+)`)

// ExtractDatasetID pulls the spreadsheet id out of a URL. Input that does
// not look like a spreadsheet URL is used as the id verbatim; no further
// validation happens here.
func ExtractDatasetID(input string) string {
	if m := datasetIDPattern.FindStringSubmatch(input); m != nil {
		return m[1]
	}
	return input
}

// Client reads tables through the Sheets v4 API.
type Client struct {
	svc     *sheetsapi.Service
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewClient builds a Sheets client from config. A service-account
// credentials file wins over an API key; one of the two must be set.
func NewClient(ctx context.Context, cfg config.SheetsConfig, logger *slog.Logger) (*Client, error) {
	var opt option.ClientOption
	switch {
	case cfg.CredentialsFile != "":
		opt = option.WithCredentialsFile(cfg.CredentialsFile)
	case cfg.APIKey != "":
		opt = option.WithAPIKey(cfg.APIKey)
	default:
		return nil, fmt.Errorf("sheets: no credentials file and no API key configured")
	}

	svc, err := sheetsapi.NewService(ctx, opt)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Client{
		svc:     svc,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		logger:  logger.With(slog.String("component", "sheets_client")),
	}, nil
}

// FetchTable reads one tab of the spreadsheet. The first row is the header;
// every later row becomes a Record keyed by those headers. A cell beyond a
// short row is absent, not empty. A tab with no rows yields an empty
// sequence.
func (c *Client) FetchTable(ctx context.Context, datasetID, tableName string) ([]pipeline.Record, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	resp, err := c.svc.Spreadsheets.Values.Get(datasetID, tableName).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("fetch table %q: %w", tableName, err)
	}

	records := rowsToRecords(resp.Values)
	c.logger.InfoContext(ctx, "fetched table",
		slog.String("dataset_id", datasetID),
		slog.String("table", tableName),
		slog.Int("rows", len(records)))
	return records, nil
}

// rowsToRecords maps raw sheet rows onto Records using the first row as the
// column headers.
func rowsToRecords(rows [][]interface{}) []pipeline.Record {
	if len(rows) == 0 {
		return []pipeline.Record{}
	}

	headers := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		headers[i] = cellString(cell)
	}

	records := make([]pipeline.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(pipeline.Record, len(headers))
		for i, h := range headers {
			if i < len(row) {
				rec[h] = cellString(row[i])
			}
		}
		records = append(records, rec)
	}
	return records
}

// cellString renders a sheet cell as text. The Values API usually hands
// back strings already; anything else is formatted.
func cellString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
