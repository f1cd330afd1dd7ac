package scheduler

import (
	"fmt"
	"strings"

	"github.com/webrexstudio/review-engagement/pkg/channel"
	"github.com/webrexstudio/review-engagement/pkg/gate"
)

// ValidateWiring validates that the scheduler is correctly wired.
// It checks that:
// - All enabled gates in config have registered instances
// - All enabled channels in config have registered instances
//
// This catches common mistakes like:
// - Forgetting to register a gate type factory
// - Typos in gate/channel IDs or types
func ValidateWiring(gateRegistry *gate.Registry, channelRegistry *channel.Registry, config *Config) error {
	var errors []string

	for _, gc := range config.Gates {
		if !gc.Enabled {
			continue
		}

		g := gateRegistry.Get(gc.ID)
		if g == nil {
			errors = append(errors, fmt.Sprintf("gate '%s' (type=%s) is enabled in config but not registered", gc.ID, gc.Type))
		}
	}

	for _, cc := range config.Channels {
		if !cc.Enabled {
			continue
		}

		ch := channelRegistry.Get(cc.ID)
		if ch == nil {
			errors = append(errors, fmt.Sprintf("channel '%s' (type=%s) is enabled in config but not registered", cc.ID, cc.Type))
		}
	}

	// Surface references into gates and channels are checked by
	// Config.Validate() during config loading.

	if len(errors) > 0 {
		return fmt.Errorf("scheduler wiring validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}
