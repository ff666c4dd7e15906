package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/honeycarbs/jobnexus/internal/domain"
	"github.com/honeycarbs/jobnexus/internal/mcp/tools"
)

const (
	defaultTab         = "Sheet1"
	defaultExportLimit = 50

	modeAppend  = "append"
	modeReplace = "replace"
)

var sheetHeader = []any{
	"title", "company", "city", "url", "contract_type", "target_diploma_level", "source", "scraped_at",
}

type valuesWriter interface {
	AppendValues(ctx context.Context, spreadsheetID, a1Range string, values [][]any) error
	UpdateValues(ctx context.Context, spreadsheetID, a1Range string, values [][]any) error
	ClearValues(ctx context.Context, spreadsheetID, a1Range string) error
}

// sheetsExporter copies the history of a category into a spreadsheet tab
type sheetsExporter struct {
	history tools.OpportunityReader
	writer  valuesWriter
	now     func() time.Time
}

func newSheetsExporter(history tools.OpportunityReader, writer valuesWriter) *sheetsExporter {
	return &sheetsExporter{history: history, writer: writer, now: time.Now}
}

func (e *sheetsExporter) Export(ctx context.Context, params tools.SheetsExportParams) (tools.SheetsExportResult, error) {
	tab := params.Sheet.Tab
	if tab == "" {
		tab = defaultTab
	}
	limit := params.Limit
	if limit <= 0 {
		limit = defaultExportLimit
	}

	result := tools.SheetsExportResult{
		SpreadsheetID: params.Sheet.SpreadsheetID,
		Tab:           tab,
		Mode:          modeAppend,
	}
	if params.ClearTab {
		result.Mode = modeReplace
	}

	records, err := e.history.Query(ctx, params.Category, limit, 0)
	if err != nil {
		return result, fmt.Errorf("read history: %w", err)
	}

	values := make([][]any, 0, len(records)+1)
	if params.ClearTab {
		values = append(values, sheetHeader)
	}
	for _, r := range records {
		values = append(values, rowValues(r))
	}

	if params.ClearTab {
		if err := e.writer.ClearValues(ctx, result.SpreadsheetID, tab+"!A1:Z"); err != nil {
			return result, err
		}
		if err := e.writer.UpdateValues(ctx, result.SpreadsheetID, tab+"!A1", values); err != nil {
			return result, err
		}
	} else if len(values) > 0 {
		if err := e.writer.AppendValues(ctx, result.SpreadsheetID, tab+"!A1", values); err != nil {
			return result, err
		}
	}

	result.WrittenRows = len(records)
	result.CompletedAt = e.now().UTC()
	if len(records) == 0 {
		result.Message = fmt.Sprintf("no opportunities for %q", params.Category)
	} else {
		result.Message = fmt.Sprintf("exported %d row(s)", len(records))
	}
	return result, nil
}

func rowValues(r domain.HistoricalRecord) []any {
	return []any{
		r.Title,
		r.Company,
		r.City,
		r.URL,
		r.ContractType,
		r.TargetDiplomaLevel,
		r.Source,
		r.ScrapedAt.UTC().Format(time.RFC3339),
	}
}
