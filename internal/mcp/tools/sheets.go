package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/jobnexus/pkg/logging"
)

// ErrNotConfigured is returned by optional integrations that have no credentials
var ErrNotConfigured = errors.New("integration not configured")

// SheetsExporter writes a category's opportunities to a spreadsheet
type SheetsExporter interface {
	Export(ctx context.Context, params SheetsExportParams) (SheetsExportResult, error)
}

// SheetsExportParams defines the arguments for the sheets_export tool
type SheetsExportParams struct {
	Category string `json:"category" jsonschema:"Category whose opportunities are exported"`
	Limit    int    `json:"limit,omitempty" jsonschema:"Maximum number of rows, defaults to 50"`
	ClearTab bool   `json:"clear_tab,omitempty" jsonschema:"If true, clears the tab and writes a header row first"`
	Sheet    struct {
		SpreadsheetID string `json:"spreadsheet_id" jsonschema:"Google Sheets document ID"`
		Tab           string `json:"tab,omitempty" jsonschema:"Tab name, defaults to Sheet1"`
	} `json:"sheet" jsonschema:"Destination sheet information"`
}

// SheetsExportResult describes the summary returned after export
type SheetsExportResult struct {
	SpreadsheetID string    `json:"spreadsheet_id" jsonschema:"Target spreadsheet ID"`
	Tab           string    `json:"tab,omitempty" jsonschema:"Target tab name"`
	WrittenRows   int       `json:"written_rows" jsonschema:"How many rows were written"`
	Mode          string    `json:"mode" jsonschema:"append or replace"`
	CompletedAt   time.Time `json:"completed_at" jsonschema:"Timestamp when export finished"`
	Message       string    `json:"message,omitempty" jsonschema:"Optional status message"`
}

type sheetsExportTool struct {
	exporter SheetsExporter
	logger   *logging.Logger
}

// WithSheetsExport registers the sheets_export tool
func WithSheetsExport(exporter SheetsExporter) Option {
	return func(reg *registry) {
		handler := sheetsExportTool{exporter: exporter, logger: reg.logger}
		addTool(reg, &sdkmcp.Tool{
			Name:        "sheets_export",
			Description: "Export the opportunities of a category to Google Sheets",
		}, handler.handle)
	}
}

func (t sheetsExportTool) handle(ctx context.Context, _ *sdkmcp.CallToolRequest, params SheetsExportParams) (*sdkmcp.CallToolResult, any, error) {
	params.Category = strings.TrimSpace(params.Category)
	if params.Category == "" {
		return nil, nil, fmt.Errorf("sheets_export: category is required")
	}
	if params.Sheet.SpreadsheetID == "" {
		return nil, nil, fmt.Errorf("sheets_export: sheet.spreadsheet_id is required")
	}
	if t.exporter == nil {
		return nil, nil, fmt.Errorf("sheets_export: %w", ErrNotConfigured)
	}

	result, err := t.exporter.Export(ctx, params)
	if err != nil {
		t.logger.Error("sheets_export failed",
			"category", params.Category,
			"spreadsheet_id", params.Sheet.SpreadsheetID,
			"err", err,
		)
		return nil, nil, fmt.Errorf("sheets_export: %w", err)
	}

	msg := fmt.Sprintf("[sheets_export] mode=%s rows=%d spreadsheet_id=%q tab=%q",
		result.Mode, result.WrittenRows, result.SpreadsheetID, result.Tab)
	return textResult(msg), result, nil
}
