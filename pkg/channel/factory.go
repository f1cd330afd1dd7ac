package channel

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// ChannelFactory is a function that creates a channel from a configuration.
type ChannelFactory func(config ChannelConfig) (Channel, error)

// factories stores registered channel factories by type
var factories = make(map[string]ChannelFactory)

// RegisterChannelType registers a factory function for a channel type.
// This allows external packages to register their channel types without creating import cycles.
func RegisterChannelType(channelType string, factory ChannelFactory) {
	factories[channelType] = factory
	logrus.Debugf("registered channel type: %s", channelType)
}

// CreateChannel creates a channel instance based on the configuration.
// Returns an error if the channel type is unknown.
func CreateChannel(config ChannelConfig) (Channel, error) {
	if !config.Enabled {
		logrus.Infof("skipping disabled channel: %s", config.ID)
		return nil, nil
	}

	logrus.Infof("creating channel: id=%s, type=%s", config.ID, config.Type)

	factory, exists := factories[config.Type]
	if !exists {
		return nil, fmt.Errorf("unknown channel type: %s", config.Type)
	}

	return factory(config)
}

// RegisterChannels creates channels from configurations and registers them
// with the provided registry.
func RegisterChannels(registry *Registry, configs []ChannelConfig) error {
	for _, config := range configs {
		ch, err := CreateChannel(config)
		if err != nil {
			return fmt.Errorf("failed to create channel %s: %w", config.ID, err)
		}
		if ch == nil {
			continue
		}

		if err := registry.Register(ch); err != nil {
			return fmt.Errorf("failed to register channel %s: %w", ch.ID(), err)
		}
	}

	logrus.Infof("registered %d channels", registry.Count())
	return nil
}
