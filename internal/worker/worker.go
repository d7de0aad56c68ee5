package worker

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"autogroupchat/config"
)

// SheetProcessor creates the groups scheduled in one sheet.
type SheetProcessor interface {
	ProcessSheet(ctx context.Context, src config.Sheet) error
}

type Worker struct {
	logger  *zap.Logger
	service SheetProcessor
	cfg     config.Config
}

func NewWorker(
	logger *zap.Logger,
	service SheetProcessor,
	cfg config.Config,
) *Worker {
	return &Worker{
		logger:  logger,
		service: service,
		cfg:     cfg,
	}
}

// ProcessAllSheets handles the configured sheets one after another. A failing sheet is
// logged and the next one is still processed.
func (w *Worker) ProcessAllSheets(ctx context.Context) error {
	var errs []error
	for _, src := range w.cfg.Sheets {
		if err := ctx.Err(); err != nil {
			return errors.Join(append(errs, err)...)
		}

		name := src.DisplayName()
		w.logger.Info("Processing sheet", zap.String("name", name))

		if err := w.service.ProcessSheet(ctx, src); err != nil {
			w.logger.Error("Failed to process sheet", zap.String("sheet", name), zap.Error(err))
			errs = append(errs, err)
			continue
		}

		w.logger.Info("Successfully processed sheet", zap.String("sheet", name))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%d of %d sheets failed: %w", len(errs), len(w.cfg.Sheets), errors.Join(errs...))
	}
	return nil
}
