package google

import (
	"context"
	"fmt"
	"strings"
)

// ReadRange returns the formatted cell values of an A1 range, row by row.
func (c *Client) ReadRange(ctx context.Context, spreadsheetID, r string) ([][]interface{}, error) {
	resp, err := c.Service.Spreadsheets.Values.Get(spreadsheetID, r).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to read range %s: %w", r, err)
	}
	return resp.Values, nil
}

// DefaultWorksheet is read when a sheet names neither a worksheet nor a range.
const DefaultWorksheet = "Sheet1"

// A1Range joins a worksheet title and a cell range. Either may be empty.
func A1Range(worksheet, cells string) string {
	if worksheet == "" && cells == "" {
		return DefaultWorksheet
	}
	if worksheet == "" {
		return cells
	}
	if strings.ContainsAny(worksheet, " '!") {
		worksheet = "'" + strings.ReplaceAll(worksheet, "'", "''") + "'"
	}
	if cells == "" {
		return worksheet
	}
	return worksheet + "!" + cells
}
