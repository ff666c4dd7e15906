// Package occupation turns free-text queries into ROME occupation codes.
package occupation

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/honeycarbs/jobnexus/internal/domain"
	jobdomain "github.com/honeycarbs/jobnexus/internal/domain/job"
	"github.com/honeycarbs/jobnexus/pkg/francetravail"
	"github.com/honeycarbs/jobnexus/pkg/logging"
)

const (
	// refreshMargin renews the token this long before the issuer's expiry
	refreshMargin = 60 * time.Second

	// fallbackLifetime applies when the issuer sends no expires_in
	fallbackLifetime = 5 * time.Minute

	unknownLabel = "Libellé non défini"
)

// romeClient describes the subset of the France Travail client used by the classifier
type romeClient interface {
	FetchToken(ctx context.Context) (francetravail.Token, error)
	SearchAppellations(ctx context.Context, accessToken, query string) ([]francetravail.Appellation, error)
}

// credential is immutable once stored; refreshes swap the pointer
type credential struct {
	token     string
	expiresAt time.Time
}

func (c *credential) valid(now time.Time) bool {
	return c != nil && c.token != "" && now.Before(c.expiresAt)
}

// Classifier resolves queries to occupation codes and fails soft on every upstream error
type Classifier struct {
	client romeClient
	logger *logging.Logger
	clock  func() time.Time
	cred   atomic.Pointer[credential]
}

// NewClassifier builds a Classifier over a France Travail client
func NewClassifier(client romeClient, logger *logging.Logger) (*Classifier, error) {
	if client == nil {
		return nil, fmt.Errorf("occupation classifier: client is required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Classifier{client: client, logger: logger, clock: time.Now}, nil
}

// Classify returns the occupation codes matching query, or an empty slice when none can be obtained
func (c *Classifier) Classify(ctx context.Context, query string) []domain.OccupationCode {
	if strings.TrimSpace(query) == "" {
		return nil
	}

	token, err := c.accessToken(ctx)
	if err != nil {
		c.logger.Warn("occupation token unavailable", "err", err)
		return nil
	}

	results, err := c.client.SearchAppellations(ctx, token, query)
	if err != nil {
		c.logger.Warn("occupation search failed", "query", query, "err", err)
		return nil
	}

	codes := make([]domain.OccupationCode, 0, len(results))
	for _, r := range results {
		label := r.Label
		if label == "" {
			label = unknownLabel
		}
		codes = append(codes, domain.OccupationCode{
			Label: label,
			Code:  normalizeCode(r.Code),
		})
	}

	c.logger.Debug("query classified", "query", query, "codes", len(codes))
	return codes
}

// accessToken reuses the shared credential until it expires. Concurrent refreshes may race;
// the last stored token wins, and every stored token is valid on its own.
func (c *Classifier) accessToken(ctx context.Context) (string, error) {
	now := c.clock()
	if cur := c.cred.Load(); cur.valid(now) {
		return cur.token, nil
	}

	tok, err := c.client.FetchToken(ctx)
	if err != nil {
		return "", err
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("occupation classifier: empty access token")
	}

	expiresAt := now.Add(fallbackLifetime)
	if !tok.Expiry.IsZero() {
		expiresAt = tok.Expiry.Add(-refreshMargin)
	}

	c.cred.Store(&credential{token: tok.AccessToken, expiresAt: expiresAt})
	c.logger.Debug("occupation token refreshed", "expires_at", expiresAt)
	return tok.AccessToken, nil
}

// normalizeCode prefixes purely numeric codes with the ROME "M" family letter
func normalizeCode(code string) string {
	if code == "" {
		code = "0"
	}
	if code[0] >= '0' && code[0] <= '9' {
		return "M" + code
	}
	return code
}

var _ jobdomain.Classifier = (*Classifier)(nil)
