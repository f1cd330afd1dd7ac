package gate

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// GateFactory is a function that creates a gate from a configuration.
type GateFactory func(config GateConfig) (Gate, error)

// factories stores registered gate factories by type
var factories = make(map[string]GateFactory)

// RegisterGateType registers a factory function for a gate type.
// This allows external packages to register their gate types without creating import cycles.
func RegisterGateType(gateType string, factory GateFactory) {
	factories[gateType] = factory
	logrus.Debugf("registered gate type: %s", gateType)
}

// CreateGate creates a gate instance based on the configuration.
// Returns an error if the gate type is unknown.
func CreateGate(config GateConfig) (Gate, error) {
	if !config.Enabled {
		logrus.Infof("skipping disabled gate: %s", config.ID)
		return nil, nil
	}

	logrus.Infof("creating gate: id=%s, type=%s", config.ID, config.Type)

	factory, exists := factories[config.Type]
	if !exists {
		return nil, fmt.Errorf("unknown gate type: %s", config.Type)
	}

	return factory(config)
}

// RegisterGates creates gates from configurations and registers them with
// the provided registry.
func RegisterGates(registry *Registry, configs []GateConfig) error {
	for _, config := range configs {
		g, err := CreateGate(config)
		if err != nil {
			return fmt.Errorf("failed to create gate %s: %w", config.ID, err)
		}
		if g == nil {
			continue
		}

		if err := registry.Register(g); err != nil {
			return fmt.Errorf("failed to register gate %s: %w", g.ID(), err)
		}
	}

	logrus.Infof("registered %d gates", registry.Count())
	return nil
}
