package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Client writes cell values through the Google Sheets v4 API
type Client struct {
	service *sheets.Service
}

// Config selects the service account credentials
type Config struct {
	CredentialsPath string
	CredentialsJSON []byte
}

// NewClient authenticates with a service account and builds the Sheets service
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	var opts []option.ClientOption

	switch {
	case cfg.CredentialsPath != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	case len(cfg.CredentialsJSON) > 0:
		opts = append(opts, option.WithCredentialsJSON(cfg.CredentialsJSON))
	default:
		return nil, fmt.Errorf("sheets: credentials path or JSON is required")
	}
	opts = append(opts, option.WithScopes(sheets.SpreadsheetsScope))

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets: create service: %w", err)
	}

	return &Client{service: service}, nil
}

// AppendValues inserts rows after the last non-empty row of a1Range
func (c *Client) AppendValues(ctx context.Context, spreadsheetID, a1Range string, values [][]any) error {
	if c == nil || c.service == nil {
		return fmt.Errorf("sheets: service is nil")
	}

	_, err := c.service.Spreadsheets.Values.Append(spreadsheetID, a1Range, &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets: append %s: %w", a1Range, err)
	}
	return nil
}

// UpdateValues overwrites the cells starting at a1Range
func (c *Client) UpdateValues(ctx context.Context, spreadsheetID, a1Range string, values [][]any) error {
	if c == nil || c.service == nil {
		return fmt.Errorf("sheets: service is nil")
	}

	_, err := c.service.Spreadsheets.Values.Update(spreadsheetID, a1Range, &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets: update %s: %w", a1Range, err)
	}
	return nil
}

// ClearValues empties a1Range, keeping formatting
func (c *Client) ClearValues(ctx context.Context, spreadsheetID, a1Range string) error {
	if c == nil || c.service == nil {
		return fmt.Errorf("sheets: service is nil")
	}

	_, err := c.service.Spreadsheets.Values.Clear(spreadsheetID, a1Range, &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets: clear %s: %w", a1Range, err)
	}
	return nil
}
