package tools

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/jobnexus/internal/domain"
	"github.com/honeycarbs/jobnexus/pkg/logging"
)

const (
	defaultRadiusKm         = 10
	defaultOpportunityLimit = 50
	maxListedJobs           = 20
)

// JobFinder runs an aggregated search across every provider
type JobFinder interface {
	FindJobs(ctx context.Context, query string, longitude, latitude float64, radiusKm int, areaCode string) ([]domain.Job, error)
}

// OpportunityReader reads the job history of one category
type OpportunityReader interface {
	Query(ctx context.Context, category string, limit, offset int) ([]domain.HistoricalRecord, error)
}

// FindJobsParams defines the arguments for the find_jobs tool
type FindJobsParams struct {
	Query     string  `json:"query" jsonschema:"Free-text job search, e.g. ingénieur cloud"`
	Latitude  float64 `json:"latitude" jsonschema:"Latitude of the search center"`
	Longitude float64 `json:"longitude" jsonschema:"Longitude of the search center"`
	RadiusKm  int     `json:"radius_km,omitempty" jsonschema:"Search radius in kilometers, defaults to 10"`
	AreaCode  string  `json:"area_code,omitempty" jsonschema:"INSEE commune code of the search area, e.g. 75056"`
}

// FindJobsResult is the structured response of find_jobs
type FindJobsResult struct {
	Count   int          `json:"count" jsonschema:"Number of jobs returned"`
	Results []domain.Job `json:"results" jsonschema:"Merged jobs from every provider"`
}

// OpportunitiesParams defines the arguments for the opportunities tool
type OpportunitiesParams struct {
	Q     string `json:"q" jsonschema:"Category, i.e. the search query that produced the jobs"`
	Limit int    `json:"limit,omitempty" jsonschema:"Page size, defaults to 50, at most 1000"`
	Skip  int    `json:"skip,omitempty" jsonschema:"Number of records to skip"`
}

// OpportunitiesResult is the structured response of opportunities
type OpportunitiesResult struct {
	Count   int                       `json:"count" jsonschema:"Number of records returned"`
	Results []domain.HistoricalRecord `json:"results" jsonschema:"Records scraped within the history window, newest first"`
}

type findJobsTool struct {
	finder JobFinder
	logger *logging.Logger
}

type opportunitiesTool struct {
	reader OpportunityReader
	logger *logging.Logger
}

// WithFindJobs registers the find_jobs tool
func WithFindJobs(finder JobFinder) Option {
	return func(reg *registry) {
		handler := findJobsTool{finder: finder, logger: reg.logger}
		addTool(reg, &sdkmcp.Tool{
			Name:        "find_jobs",
			Description: "Search apprenticeship offers on La Bonne Alternance, Welcome to the Jungle and APEC around a location",
		}, handler.handle)
	}
}

// WithOpportunities registers the opportunities tool
func WithOpportunities(reader OpportunityReader) Option {
	return func(reg *registry) {
		handler := opportunitiesTool{reader: reader, logger: reg.logger}
		addTool(reg, &sdkmcp.Tool{
			Name:        "opportunities",
			Description: "List historical offers for a category seen during the last 120 days",
		}, handler.handle)
	}
}

func (t findJobsTool) handle(ctx context.Context, _ *sdkmcp.CallToolRequest, params FindJobsParams) (*sdkmcp.CallToolResult, any, error) {
	query := strings.TrimSpace(params.Query)
	if query == "" {
		return nil, nil, fmt.Errorf("find_jobs: query is required")
	}
	if t.finder == nil {
		return nil, nil, fmt.Errorf("find_jobs: job service not configured")
	}

	radius := params.RadiusKm
	if radius <= 0 {
		radius = defaultRadiusKm
	}

	jobs, err := t.finder.FindJobs(ctx, query, params.Longitude, params.Latitude, radius, params.AreaCode)
	if err != nil {
		t.logger.Warn("find_jobs: search aborted", "query", query, "err", err)
		return nil, nil, fmt.Errorf("find_jobs: %w", err)
	}
	if jobs == nil {
		jobs = []domain.Job{}
	}

	result := FindJobsResult{Count: len(jobs), Results: jobs}
	return textResult(formatJobs(query, jobs)), result, nil
}

func (t opportunitiesTool) handle(ctx context.Context, _ *sdkmcp.CallToolRequest, params OpportunitiesParams) (*sdkmcp.CallToolResult, any, error) {
	category := strings.TrimSpace(params.Q)
	if category == "" {
		return nil, nil, fmt.Errorf("opportunities: q is required")
	}
	if t.reader == nil {
		return nil, nil, fmt.Errorf("opportunities: history not configured")
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultOpportunityLimit
	}

	records, err := t.reader.Query(ctx, category, limit, params.Skip)
	if err != nil {
		t.logger.Error("opportunities: query failed", "category", category, "err", err)
		return nil, nil, fmt.Errorf("opportunities: %w", err)
	}
	if records == nil {
		records = []domain.HistoricalRecord{}
	}

	result := OpportunitiesResult{Count: len(records), Results: records}
	msg := fmt.Sprintf("[opportunities] %d record(s) for %q", len(records), category)
	return textResult(msg), result, nil
}

func formatJobs(query string, jobs []domain.Job) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[find_jobs] %d job(s) for %q", len(jobs), query)

	for i, j := range jobs {
		if i == maxListedJobs {
			fmt.Fprintf(&b, "\n… and %d more", len(jobs)-i)
			break
		}
		fmt.Fprintf(&b, "\n• %s at %s (%s, %s) %s", j.Title, j.Company, j.City, j.Source, j.URL)
	}
	return b.String()
}
