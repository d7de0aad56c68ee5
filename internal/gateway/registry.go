// Package gateway selects the messaging backend named in the configuration.
package gateway

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"autogroupchat/config"
	"autogroupchat/internal/client/groupme"
	"autogroupchat/internal/groupchat"
)

// Factory builds a gateway from the configuration.
type Factory func(logger *zap.Logger, cfg config.Config) (groupchat.Gateway, error)

var factories = map[string]Factory{
	config.GatewayGroupMe: func(logger *zap.Logger, cfg config.Config) (groupchat.Gateway, error) {
		return groupme.NewClient(logger, cfg.GroupMe), nil
	},
	config.GatewayDryRun: func(logger *zap.Logger, cfg config.Config) (groupchat.Gateway, error) {
		return NewDryRun(logger), nil
	},
}

// New returns the gateway named by cfg.Gateway.
func New(logger *zap.Logger, cfg config.Config) (groupchat.Gateway, error) {
	f, ok := factories[cfg.Gateway]
	if !ok {
		return nil, fmt.Errorf("unknown gateway %q, known gateways: %v", cfg.Gateway, Names())
	}
	return f(logger.With(zap.String("gateway", cfg.Gateway)), cfg)
}

// Names lists the known gateways.
func Names() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
