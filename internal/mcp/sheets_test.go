package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/jobnexus/internal/domain"
	"github.com/honeycarbs/jobnexus/internal/mcp/tools"
)

type historyStub struct {
	records  []domain.HistoricalRecord
	err      error
	category string
	limit    int
}

func (h *historyStub) Query(_ context.Context, category string, limit, _ int) ([]domain.HistoricalRecord, error) {
	h.category = category
	h.limit = limit
	return h.records, h.err
}

type writeCall struct {
	op     string
	rng    string
	values [][]any
}

type recordingWriter struct {
	calls []writeCall
	err   error
}

func (w *recordingWriter) AppendValues(_ context.Context, _, rng string, values [][]any) error {
	w.calls = append(w.calls, writeCall{op: "append", rng: rng, values: values})
	return w.err
}

func (w *recordingWriter) UpdateValues(_ context.Context, _, rng string, values [][]any) error {
	w.calls = append(w.calls, writeCall{op: "update", rng: rng, values: values})
	return w.err
}

func (w *recordingWriter) ClearValues(_ context.Context, _, rng string) error {
	w.calls = append(w.calls, writeCall{op: "clear", rng: rng})
	return w.err
}

func exportParams(category, tab string, clear bool) tools.SheetsExportParams {
	var p tools.SheetsExportParams
	p.Category = category
	p.ClearTab = clear
	p.Sheet.SpreadsheetID = "sheet-1"
	p.Sheet.Tab = tab
	return p
}

func sampleRecord() domain.HistoricalRecord {
	return domain.HistoricalRecord{
		Job: domain.Job{
			Title:              "Alternant DevOps",
			Company:            "Acme",
			City:               "Paris",
			URL:                "https://example.com/1",
			ContractType:       "Alternance",
			TargetDiplomaLevel: "Bac+5",
			Source:             domain.SourceLBA,
		},
		JobHash:   "h1",
		ScrapedAt: time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC),
	}
}

func TestSheetsExporter_Append(t *testing.T) {
	history := &historyStub{records: []domain.HistoricalRecord{sampleRecord()}}
	writer := &recordingWriter{}
	exporter := newSheetsExporter(history, writer)

	res, err := exporter.Export(context.Background(), exportParams("DevOps", "", false))
	require.NoError(t, err)

	assert.Equal(t, "DevOps", history.category)
	assert.Equal(t, defaultExportLimit, history.limit)
	assert.Equal(t, modeAppend, res.Mode)
	assert.Equal(t, "Sheet1", res.Tab)
	assert.Equal(t, 1, res.WrittenRows)

	require.Len(t, writer.calls, 1)
	assert.Equal(t, "append", writer.calls[0].op)
	assert.Equal(t, "Sheet1!A1", writer.calls[0].rng)
	assert.Equal(t, [][]any{{
		"Alternant DevOps", "Acme", "Paris", "https://example.com/1",
		"Alternance", "Bac+5", domain.SourceLBA, "2026-03-02T09:30:00Z",
	}}, writer.calls[0].values)
}

func TestSheetsExporter_ReplaceWritesHeader(t *testing.T) {
	history := &historyStub{records: []domain.HistoricalRecord{sampleRecord()}}
	writer := &recordingWriter{}
	exporter := newSheetsExporter(history, writer)

	res, err := exporter.Export(context.Background(), exportParams("DevOps", "Jobs", true))
	require.NoError(t, err)
	assert.Equal(t, modeReplace, res.Mode)
	assert.Equal(t, 1, res.WrittenRows)

	require.Len(t, writer.calls, 2)
	assert.Equal(t, writeCall{op: "clear", rng: "Jobs!A1:Z"}, writer.calls[0])
	assert.Equal(t, "update", writer.calls[1].op)
	assert.Equal(t, "Jobs!A1", writer.calls[1].rng)
	require.Len(t, writer.calls[1].values, 2)
	assert.Equal(t, sheetHeader, writer.calls[1].values[0])
}

func TestSheetsExporter_EmptyHistorySkipsAppend(t *testing.T) {
	writer := &recordingWriter{}
	exporter := newSheetsExporter(&historyStub{}, writer)

	res, err := exporter.Export(context.Background(), exportParams("SRE", "", false))
	require.NoError(t, err)
	assert.Zero(t, res.WrittenRows)
	assert.Empty(t, writer.calls)
	assert.Contains(t, res.Message, "SRE")
}

func TestSheetsExporter_Errors(t *testing.T) {
	t.Run("history", func(t *testing.T) {
		exporter := newSheetsExporter(&historyStub{err: errors.New("db down")}, &recordingWriter{})
		_, err := exporter.Export(context.Background(), exportParams("SRE", "", false))
		assert.ErrorContains(t, err, "db down")
	})

	t.Run("writer", func(t *testing.T) {
		history := &historyStub{records: []domain.HistoricalRecord{sampleRecord()}}
		exporter := newSheetsExporter(history, &recordingWriter{err: errors.New("quota")})
		_, err := exporter.Export(context.Background(), exportParams("SRE", "", true))
		assert.ErrorContains(t, err, "quota")
	})
}
