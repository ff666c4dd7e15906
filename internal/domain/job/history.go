package job

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/honeycarbs/jobnexus/internal/domain"
	"github.com/honeycarbs/jobnexus/internal/repository"
)

const (
	// HistoryWindow bounds how far back Query looks
	HistoryWindow = 120 * 24 * time.Hour

	defaultHistoryLimit = 50
	maxHistoryLimit     = 1000
)

// JobHash is the dedup key of a posting: lowercased title, company and URL without its query string.
// Fragments and trailing slashes are kept as they are.
func JobHash(j domain.Job) string {
	raw := strings.ToLower(j.Title + j.Company + stripQuery(j.URL))
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// stripQuery removes everything between the first '?' and the fragment; the rest is kept byte for byte
func stripQuery(raw string) string {
	if frag := strings.Index(raw, "#"); frag >= 0 {
		if q := strings.Index(raw[:frag], "?"); q >= 0 {
			return raw[:q] + raw[frag:]
		}
		return raw
	}
	before, _, _ := strings.Cut(raw, "?")
	return before
}

// HistoryStore is the append-only, dedup-on-write record of every job observed
type HistoryStore struct {
	repo  repository.HistoryRepository
	clock func() time.Time
}

// NewHistoryStore builds a HistoryStore
func NewHistoryStore(repo repository.HistoryRepository, clock func() time.Time) (*HistoryStore, error) {
	if repo == nil {
		return nil, fmt.Errorf("job.HistoryStore: repository is required")
	}
	if clock == nil {
		clock = time.Now
	}
	return &HistoryStore{repo: repo, clock: clock}, nil
}

// Append records jobs not seen before. Duplicates inside one batch keep their first occurrence.
func (h *HistoryStore) Append(ctx context.Context, jobs []domain.Job) error {
	if len(jobs) == 0 {
		return nil
	}

	now := h.clock().UTC()
	seen := make(map[string]struct{}, len(jobs))
	records := make([]domain.HistoricalRecord, 0, len(jobs))
	for _, j := range jobs {
		hash := JobHash(j)
		if _, dup := seen[hash]; dup {
			continue
		}
		seen[hash] = struct{}{}
		records = append(records, domain.HistoricalRecord{
			Job:       j,
			JobHash:   hash,
			ScrapedAt: now,
		})
	}

	if _, err := h.repo.InsertIfAbsent(ctx, records); err != nil {
		return fmt.Errorf("history: insert %d record(s): %w", len(records), err)
	}
	return nil
}

// Query lists the records of one category scraped within HistoryWindow, newest first
func (h *HistoryStore) Query(ctx context.Context, category string, limit, offset int) ([]domain.HistoricalRecord, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	since := h.clock().UTC().Add(-HistoryWindow)
	records, err := h.repo.FindRecent(ctx, category, since, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("history: query %q: %w", category, err)
	}
	return records, nil
}
