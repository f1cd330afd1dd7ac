// Copyright (c) 2025 Webrex Studio. All Rights Reserved.
// This is licensed software from Webrex Studio, for limitations
// and restrictions contact your company contract manager.

package bootstrap

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/webrexstudio/review-engagement/pkg/gate"
	gateBuiltin "github.com/webrexstudio/review-engagement/pkg/gate/builtin"
	"github.com/webrexstudio/review-engagement/pkg/scheduler"
)

// InitGateEngine creates an eligibility engine from the scheduler config.
// Gate types live in pkg/gate/builtin; configuration (thresholds, wait-day
// schedules) lives in config/scheduler.yaml.
func InitGateEngine(schedulerConfig *scheduler.Config) (*gate.Engine, *gate.Registry, error) {
	gateBuiltin.RegisterGates()

	registry := gate.NewRegistry()
	if err := gate.RegisterGates(registry, schedulerConfig.Gates); err != nil {
		return nil, nil, fmt.Errorf("failed to register gates: %w", err)
	}

	logrus.Infof("registered %d gates", registry.Count())

	engine := gate.NewEngine(registry)
	logrus.Infof("initialized gate engine")

	return engine, registry, nil
}
