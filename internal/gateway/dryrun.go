package gateway

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"autogroupchat/internal/groupchat"
)

// DryRun logs every lifecycle call instead of performing it.
type DryRun struct {
	logger *zap.Logger
	next   int
}

var _ groupchat.Gateway = (*DryRun)(nil)

func NewDryRun(logger *zap.Logger) *DryRun {
	return &DryRun{logger: logger}
}

func (d *DryRun) CreateGroup(_ context.Context, name, image, description string) (groupchat.Group, error) {
	d.next++
	g := groupchat.Group{ID: "dryrun-" + strconv.Itoa(d.next), Name: name}
	d.logger.Info("Would create group", zap.String("id", g.ID), zap.String("name", name),
		zap.String("image", image), zap.String("description", description))
	return g, nil
}

func (d *DryRun) AddMember(_ context.Context, g groupchat.Group, name, phone string) error {
	d.logger.Info("Would add member", zap.String("group", g.Name), zap.String("member", name), zap.String("phone", phone))
	return nil
}

func (d *DryRun) SetOwner(_ context.Context, g groupchat.Group, name, phone string) error {
	d.logger.Info("Would set owner", zap.String("group", g.Name), zap.String("owner", name), zap.String("phone", phone))
	return nil
}

func (d *DryRun) SendMessage(_ context.Context, g groupchat.Group, text string) error {
	d.logger.Info("Would send message", zap.String("group", g.Name), zap.String("text", text))
	return nil
}

func (d *DryRun) LeaveGroup(_ context.Context, g groupchat.Group) error {
	d.logger.Info("Would leave group", zap.String("group", g.Name))
	return nil
}

func (d *DryRun) PurgeStaleGroups(_ context.Context, olderThanDays int) error {
	d.logger.Info("Would purge stale groups", zap.Int("older_than_days", olderThanDays))
	return nil
}
