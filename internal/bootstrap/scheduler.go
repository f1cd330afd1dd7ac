// Copyright (c) 2025 Webrex Studio. All Rights Reserved.
// This is licensed software from Webrex Studio, for limitations
// and restrictions contact your company contract manager.

package bootstrap

import (
	"github.com/sirupsen/logrus"

	"github.com/webrexstudio/review-engagement/pkg/channel"
	"github.com/webrexstudio/review-engagement/pkg/dispatcher"
	"github.com/webrexstudio/review-engagement/pkg/gate"
	"github.com/webrexstudio/review-engagement/pkg/scheduler"
	"github.com/webrexstudio/review-engagement/pkg/service"
	"github.com/webrexstudio/review-engagement/pkg/signal"
)

// InitScheduler wires the engagement pipeline:
// Events → Signals → Surfaces → Gates → Channels
//
// Surface definitions (which gates guard which channels, and which signal
// types trigger them) come from config/scheduler.yaml.
func InitScheduler(
	stateStore service.StateStore,
	adoption service.AdoptionTracker,
	engine *gate.Engine,
	channels *channel.Registry,
	telemetry service.EventLogger,
	schedulerConfig *scheduler.Config,
) *scheduler.Manager {
	processor := signal.NewProcessor(stateStore, adoption)

	d := dispatcher.NewDispatcher(stateStore, engine, channels, telemetry)

	manager := scheduler.NewManager(processor, d, schedulerConfig, nil)
	logrus.Infof("initialized scheduler manager with %d surfaces", len(schedulerConfig.Surfaces))

	return manager
}
