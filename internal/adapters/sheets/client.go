// Package sheets publishes championship standings to a Google Sheet.
package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"google.golang.org/api/option"
	sheetsv4 "google.golang.org/api/sheets/v4"

	"autokudos/internal/domain/championship"
)

// DefaultSheet is the tab standings are written to.
const DefaultSheet = "Standings"

// Client writes to one spreadsheet tab.
type Client struct {
	srv           *sheetsv4.Service
	spreadsheetID string
	sheet         string
}

// New builds a Client from a service-account JSON file.
// PRE: serviceAccountJSONPath exists
func New(ctx context.Context, serviceAccountJSONPath, spreadsheetID, sheet string) (*Client, error) {
	if _, err := os.Stat(serviceAccountJSONPath); err != nil {
		return nil, fmt.Errorf("service account json: %w", err)
	}
	return NewWithOptions(ctx, spreadsheetID, sheet,
		option.WithCredentialsFile(serviceAccountJSONPath),
		option.WithScopes(sheetsv4.SpreadsheetsScope),
	)
}

// NewWithOptions builds a Client with explicit client options.
func NewWithOptions(ctx context.Context, spreadsheetID, sheet string, opts ...option.ClientOption) (*Client, error) {
	srv, err := sheetsv4.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	if sheet == "" {
		sheet = DefaultSheet
	}
	return &Client{srv: srv, spreadsheetID: spreadsheetID, sheet: sheet}, nil
}

// PublishStandings replaces the tab contents with a header row and rows.
// POST: the sheet holds exactly len(rows)+1 rows of data
func (c *Client) PublishStandings(ctx context.Context, rows []championship.Row) error {
	rng := c.sheet + "!A:E"
	if _, err := c.srv.Spreadsheets.Values.Clear(c.spreadsheetID, rng, &sheetsv4.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear standings sheet: %w", err)
	}

	values := [][]interface{}{{"Position", "Name", "Total", "Races", "Best"}}
	for i, r := range rows {
		values = append(values, []interface{}{
			i + 1,
			r.Name,
			strconv.FormatFloat(r.Total, 'f', 2, 64),
			r.Races,
			strconv.FormatFloat(r.Best, 'f', 2, 64),
		})
	}
	vr := &sheetsv4.ValueRange{Values: values}
	if _, err := c.srv.Spreadsheets.Values.Update(c.spreadsheetID, c.sheet+"!A1", vr).
		ValueInputOption("RAW").
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("write standings sheet: %w", err)
	}
	slog.Info("standings_published", "spreadsheet", c.spreadsheetID, "rows", len(rows))
	return nil
}
