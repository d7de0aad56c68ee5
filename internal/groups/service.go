package groups

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"autogroupchat/config"
	"autogroupchat/internal/groupchat"
	"autogroupchat/internal/sheet"
)

type ServiceGroups struct {
	logger     *zap.Logger
	repository Repository
	parser     *sheet.Parser
	builder    *sheet.Builder
	gateway    groupchat.Gateway
}

func NewServiceGroups(
	logger *zap.Logger,
	repository Repository,
	parser *sheet.Parser,
	builder *sheet.Builder,
	gateway groupchat.Gateway,
) *ServiceGroups {
	return &ServiceGroups{
		logger:     logger,
		repository: repository,
		parser:     parser,
		builder:    builder,
		gateway:    gateway,
	}
}

// ProcessSheet creates every group src schedules for today.
//
// A sheet that cannot be fetched or parsed fails as a whole. Otherwise each group is built
// and started independently, and the failures are joined in the returned error.
func (s *ServiceGroups) ProcessSheet(ctx context.Context, src config.Sheet) error {
	name := src.DisplayName()

	grid, err := s.repository.FetchGrid(ctx, src)
	if err != nil {
		return fmt.Errorf("sheet %s: %w", name, err)
	}

	plan, err := s.parser.Parse(grid)
	if err != nil {
		return fmt.Errorf("sheet %s: %w", name, err)
	}
	s.logger.Info("Sheet parsed", zap.String("sheet", name), zap.Int("due", len(plan.Due)))

	var errs []error
	for _, col := range plan.Due {
		req, err := s.builder.Build(plan, col)
		if err != nil {
			s.logger.Error("Failed to build group", zap.String("sheet", name), zap.String("date", col.DateText()), zap.Error(err))
			errs = append(errs, fmt.Errorf("sheet %s, column %s: %w", name, col.DateText(), err))
			continue
		}

		s.logger.Info("Starting group", zap.String("sheet", name), zap.String("group", req.Name))
		if _, err := groupchat.Startup(ctx, s.logger, s.gateway, req); err != nil {
			s.logger.Error("Failed to start group", zap.String("sheet", name), zap.String("group", req.Name), zap.Error(err))
			errs = append(errs, fmt.Errorf("sheet %s, group %q: %w", name, req.Name, err))
		}
	}
	return errors.Join(errs...)
}
