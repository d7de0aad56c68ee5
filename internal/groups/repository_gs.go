package groups

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"autogroupchat/config"
	googleClient "autogroupchat/internal/client/google"
	"autogroupchat/internal/client/xlsx"
	"autogroupchat/internal/sheet"
)

// RangeReader reads raw Sheets API values.
type RangeReader interface {
	ReadRange(ctx context.Context, spreadsheetID, r string) ([][]interface{}, error)
}

// RepositoryGrid reads grids from Google Sheets, or from a local workbook when the sheet
// names a file.
type RepositoryGrid struct {
	logger *zap.Logger
	client RangeReader
}

var _ RangeReader = (*googleClient.Client)(nil)

// NewRepositoryGrid returns a repository. client may be nil when every sheet is a local file.
func NewRepositoryGrid(logger *zap.Logger, client RangeReader) *RepositoryGrid {
	return &RepositoryGrid{
		logger: logger,
		client: client,
	}
}

func (r *RepositoryGrid) FetchGrid(ctx context.Context, src config.Sheet) (sheet.Grid, error) {
	if src.File != "" {
		rows, err := xlsx.ReadRows(src.File, src.Worksheet, src.Range)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", sheet.ErrSourceUnavailable, err)
		}
		r.logger.Debug("Read workbook", zap.String("file", src.File), zap.Int("rows", len(rows)))
		return sheet.FromRows(rows), nil
	}

	if r.client == nil {
		return nil, fmt.Errorf("%w: %w", sheet.ErrSourceUnavailable, errors.New("google client is not configured"))
	}

	readRange := googleClient.A1Range(src.Worksheet, src.Range)
	values, err := r.client.ReadRange(ctx, src.SpreadsheetID, readRange)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", sheet.ErrSourceUnavailable, err)
	}
	if len(values) == 0 {
		r.logger.Warn("No data found in spreadsheet",
			zap.String("spreadsheet", src.SpreadsheetID), zap.String("range", readRange))
	}

	r.logger.Debug("Read spreadsheet range",
		zap.String("spreadsheet", src.SpreadsheetID), zap.String("range", readRange), zap.Int("rows", len(values)))
	return sheet.FromRows(stringRows(values)), nil
}

// stringRows renders the API's cell values as text.
func stringRows(values [][]interface{}) [][]string {
	rows := make([][]string, len(values))
	for i, row := range values {
		rows[i] = make([]string, len(row))
		for j, v := range row {
			if v != nil {
				rows[i][j] = fmt.Sprint(v)
			}
		}
	}
	return rows
}
