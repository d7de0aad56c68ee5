package groupchat

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// Startup creates the group described by req on gw and leaves it ready for its members.
//
// The admin is added and promoted before anyone else joins. Then the members are added, the
// notice and startup messages are posted, the group is optionally left and finally every
// stale group created earlier is purged. Nothing is retried here; a failing step aborts the
// remaining ones and its error is returned along with the group when it was already created.
func Startup(ctx context.Context, logger *zap.Logger, gw Gateway, req Request) (Group, error) {
	if len(req.Admin) > 1 {
		return Group{}, fmt.Errorf("%w: got %d admins", ErrAdminCardinality, len(req.Admin))
	}

	description := req.Description
	if description == "" {
		description = MessageAlwaysSend
	}

	g, err := gw.CreateGroup(ctx, req.Name, req.Image, description)
	if err != nil {
		return Group{}, fmt.Errorf("create group %q: %w", req.Name, err)
	}
	logger.Info("Group created", zap.String("group", req.Name), zap.String("id", g.ID))

	for name, phone := range req.Admin {
		if err := gw.AddMember(ctx, g, name, phone); err != nil {
			return g, fmt.Errorf("add admin %q: %w", name, err)
		}
		if err := gw.SetOwner(ctx, g, name, phone); err != nil {
			return g, fmt.Errorf("set owner %q: %w", name, err)
		}
		logger.Info("Group owner changed", zap.String("group", req.Name), zap.String("owner", name))
	}

	names := make([]string, 0, len(req.Members))
	for name := range req.Members {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		phone := req.Members[name]
		if adminPhone, ok := req.Admin[name]; ok && adminPhone == phone {
			continue
		}
		if err := gw.AddMember(ctx, g, name, phone); err != nil {
			return g, fmt.Errorf("add member %q: %w", name, err)
		}
	}
	logger.Info("Members added", zap.String("group", req.Name), zap.Int("count", len(names)))

	messages := append([]string{MessageAlwaysSend}, req.StartupMessages...)
	if len(req.StartupMessages) == 0 {
		messages = append(messages, fmt.Sprintf("Welcome to %s. %s", req.Name, description))
	}
	for _, m := range messages {
		if err := gw.SendMessage(ctx, g, m); err != nil {
			return g, fmt.Errorf("send message: %w", err)
		}
	}

	if !req.DontLeaveGroup {
		if err := gw.LeaveGroup(ctx, g); err != nil {
			return g, fmt.Errorf("leave group: %w", err)
		}
		logger.Info("Left group", zap.String("group", req.Name))
	}

	if err := gw.PurgeStaleGroups(ctx, req.GroupDeleteAgeDays); err != nil {
		return g, fmt.Errorf("purge stale groups: %w", err)
	}
	return g, nil
}
