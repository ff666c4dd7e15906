package analysis

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/honeycarbs/jobnexus/internal/domain"
)

const (
	// NotAvailable stands in for a top value that cannot be computed
	NotAvailable = "N/A"

	summaryLimit = 1000
	dayLayout    = "2006-01-02"
)

// confidential company labels are not recruiters anyone can apply to
var confidential = map[string]struct{}{
	strings.ToLower(domain.ConfidentialCompany): {},
	"confidentiel": {},
}

// historyReader is the read side of the historical store
type historyReader interface {
	Query(ctx context.Context, category string, limit, offset int) ([]domain.HistoricalRecord, error)
}

// Service builds market summaries from the job history
type Service struct {
	history historyReader
	clock   func() time.Time
	loc     *time.Location
}

// NewService creates an analysis service. Days are bucketed in loc, UTC when nil.
func NewService(history historyReader, loc *time.Location) (*Service, error) {
	if history == nil {
		return nil, fmt.Errorf("analysis: history is required")
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{history: history, clock: time.Now, loc: loc}, nil
}

// Summarize aggregates the recent history of one category
func (s *Service) Summarize(ctx context.Context, category string) (domain.MarketSummary, error) {
	records, err := s.history.Query(ctx, category, summaryLimit, 0)
	if err != nil {
		return domain.MarketSummary{}, err
	}

	now := s.clock().In(s.loc)
	today := now.Format(dayLayout)

	recruiters := make(map[string]int)
	cities := make(map[string]int)
	sources := make(map[string]struct{})
	daily := make(map[string]int)
	newToday := make([]domain.HistoricalRecord, 0)

	for _, rec := range records {
		if _, hidden := confidential[strings.ToLower(strings.TrimSpace(rec.Company))]; !hidden && rec.Company != "" {
			recruiters[rec.Company]++
		}
		if rec.City != "" {
			cities[rec.City]++
		}
		if rec.Source != "" {
			sources[rec.Source] = struct{}{}
		}

		day := rec.ScrapedAt.In(s.loc).Format(dayLayout)
		daily[day]++
		if day == today {
			newToday = append(newToday, rec)
		}
	}

	return domain.MarketSummary{
		Category:     category,
		TotalJobs:    len(records),
		TopRecruiter: mode(recruiters),
		TopCity:      mode(cities),
		Sources:      len(sources),
		Daily:        dailyCounts(daily),
		NewToday:     newToday,
		GeneratedAt:  now.UTC(),
	}, nil
}

// mode returns the most frequent key; ties go to the smallest key
func mode(counts map[string]int) string {
	best, bestCount := NotAvailable, 0
	for k, n := range counts {
		if n > bestCount || (n == bestCount && k < best) {
			best, bestCount = k, n
		}
	}
	return best
}

func dailyCounts(daily map[string]int) []domain.DailyCount {
	out := make([]domain.DailyCount, 0, len(daily))
	for day, n := range daily {
		out = append(out, domain.DailyCount{Day: day, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}
