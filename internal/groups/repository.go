package groups

import (
	"context"

	"autogroupchat/config"
	"autogroupchat/internal/sheet"
)

type Repository interface {
	FetchGrid(ctx context.Context, src config.Sheet) (sheet.Grid, error)
}
