package tools

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/jobnexus/internal/domain"
	"github.com/honeycarbs/jobnexus/pkg/logging"
)

// MarketSummarizer aggregates the history of a category
type MarketSummarizer interface {
	Summarize(ctx context.Context, category string) (domain.MarketSummary, error)
}

// MarketSummaryParams defines the arguments for the market_summary tool
type MarketSummaryParams struct {
	Category string `json:"category" jsonschema:"Category to summarize, e.g. DevOps"`
}

type marketSummaryTool struct {
	summarizer MarketSummarizer
	logger     *logging.Logger
}

// WithMarketSummary registers the market_summary tool
func WithMarketSummary(summarizer MarketSummarizer) Option {
	return func(reg *registry) {
		handler := marketSummaryTool{summarizer: summarizer, logger: reg.logger}
		addTool(reg, &sdkmcp.Tool{
			Name:        "market_summary",
			Description: "Summarize recent offers of a category: volume, top recruiter, top city, sources and daily new offers",
		}, handler.handle)
	}
}

func (t marketSummaryTool) handle(ctx context.Context, _ *sdkmcp.CallToolRequest, params MarketSummaryParams) (*sdkmcp.CallToolResult, any, error) {
	category := strings.TrimSpace(params.Category)
	if category == "" {
		return nil, nil, fmt.Errorf("market_summary: category is required")
	}
	if t.summarizer == nil {
		return nil, nil, fmt.Errorf("market_summary: analysis service not configured")
	}

	summary, err := t.summarizer.Summarize(ctx, category)
	if err != nil {
		t.logger.Error("market_summary: summarize failed", "category", category, "err", err)
		return nil, nil, fmt.Errorf("market_summary: %w", err)
	}

	msg := fmt.Sprintf("[market_summary] %s: %d job(s), top recruiter %s, top city %s, %d source(s), %d new today",
		summary.Category, summary.TotalJobs, summary.TopRecruiter, summary.TopCity, summary.Sources, len(summary.NewToday))
	return textResult(msg), summary, nil
}
