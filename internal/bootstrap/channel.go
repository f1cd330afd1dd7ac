// Copyright (c) 2025 Webrex Studio. All Rights Reserved.
// This is licensed software from Webrex Studio, for limitations
// and restrictions contact your company contract manager.

package bootstrap

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/webrexstudio/review-engagement/pkg/channel"
	channelBuiltin "github.com/webrexstudio/review-engagement/pkg/channel/builtin"
	"github.com/webrexstudio/review-engagement/pkg/scheduler"
)

// InitChannelRegistry creates the prompt channel registry from the scheduler
// config. Channel collaborators (device storage, chat delivery, native
// review requests) are injected here; nil collaborators put the channel in
// test mode where presentation is logged instead of delivered.
func InitChannelRegistry(schedulerConfig *scheduler.Config, deps *channelBuiltin.Dependencies) (*channel.Registry, error) {
	channelBuiltin.RegisterChannels(deps)

	registry := channel.NewRegistry()
	if err := channel.RegisterChannels(registry, schedulerConfig.Channels); err != nil {
		return nil, fmt.Errorf("failed to register channels: %w", err)
	}

	logrus.Infof("registered %d channels", registry.Count())
	return registry, nil
}
