package tools

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/jobnexus/internal/domain"
)

// OccupationClassifier maps free text to occupation codes
type OccupationClassifier interface {
	Classify(ctx context.Context, query string) []domain.OccupationCode
}

// OccupationCodesParams defines the arguments for the occupation_codes tool
type OccupationCodesParams struct {
	Q string `json:"q" jsonschema:"Free-text job title to classify"`
}

// OccupationCodesResult is the structured response of occupation_codes
type OccupationCodesResult struct {
	Count   int                     `json:"count"`
	Results []domain.OccupationCode `json:"results"`
}

type occupationCodesTool struct {
	classifier OccupationClassifier
}

// WithOccupationCodes registers the occupation_codes tool
func WithOccupationCodes(classifier OccupationClassifier) Option {
	return func(reg *registry) {
		handler := occupationCodesTool{classifier: classifier}
		addTool(reg, &sdkmcp.Tool{
			Name:        "occupation_codes",
			Description: "Classify a job title into ROME occupation codes",
		}, handler.handle)
	}
}

func (t occupationCodesTool) handle(ctx context.Context, _ *sdkmcp.CallToolRequest, params OccupationCodesParams) (*sdkmcp.CallToolResult, any, error) {
	q := strings.TrimSpace(params.Q)
	if q == "" {
		return nil, nil, fmt.Errorf("occupation_codes: q is required")
	}
	if t.classifier == nil {
		return nil, nil, fmt.Errorf("occupation_codes: classifier not configured")
	}

	codes := t.classifier.Classify(ctx, q)
	if codes == nil {
		codes = []domain.OccupationCode{}
	}

	parts := make([]string, 0, len(codes))
	for _, c := range codes {
		parts = append(parts, c.Code+" "+c.Label)
	}
	msg := fmt.Sprintf("[occupation_codes] %d code(s) for %q", len(codes), q)
	if len(parts) > 0 {
		msg += "\n" + strings.Join(parts, "\n")
	}

	return textResult(msg), OccupationCodesResult{Count: len(codes), Results: codes}, nil
}
