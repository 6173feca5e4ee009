package sheets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"refundlens/internal/pipeline"
)

func TestExtractDatasetID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "full edit URL",
			input: "https://docs.google.com/spreadsheets/d/1AbC_23-xyZ/edit",
			want:  "1AbC_23-xyZ",
		},
		{
			name:  "URL with fragment",
			input: "https://docs.google.com/spreadsheets/d/1AbC_23-xyZ/edit#gid=0",
			want:  "1AbC_23-xyZ",
		},
		{
			name:  "bare id passes through",
			input: "1AbC_23-xyZ",
			want:  "1AbC_23-xyZ",
		},
		{
			name:  "non-sheet URL passes through verbatim",
			input: "https://example.com/whatever",
			want:  "https://example.com/whatever",
		},
		{
			name:  "empty input stays empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractDatasetID(tt.input))
		})
	}
}

func TestRowsToRecords(t *testing.T) {
	rows := [][]interface{}{
		{"Order ID", "Order Date", "Region"},
		{"1", "01-06-2024", "north"},
		{"2", "02-06-2024"}, // short row: Region absent
		{"3", "03-06-2024", ""},
	}

	records := rowsToRecords(rows)
	require.Len(t, records, 3)

	assert.Equal(t, pipeline.Record{
		"Order ID":   "1",
		"Order Date": "01-06-2024",
		"Region":     "north",
	}, records[0])

	_, ok := records[1].Get("Region")
	assert.False(t, ok, "column beyond a short row is absent")

	v, ok := records[2].Get("Region")
	assert.True(t, ok, "blank cell is present")
	assert.Empty(t, v)
}

func TestRowsToRecords_HeaderOnly(t *testing.T) {
	records := rowsToRecords([][]interface{}{{"Order ID"}})
	assert.Empty(t, records)
}

func TestRowsToRecords_NoRows(t *testing.T) {
	records := rowsToRecords(nil)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestRowsToRecords_NonStringCells(t *testing.T) {
	rows := [][]interface{}{
		{"Order ID", "Price"},
		{float64(7), 12.5},
	}

	records := rowsToRecords(rows)
	require.Len(t, records, 1)
	assert.Equal(t, "7", records[0]["Order ID"])
	assert.Equal(t, "12.5", records[0]["Price"])
}
