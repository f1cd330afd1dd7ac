package builtin

import (
	"github.com/webrexstudio/review-engagement/pkg/gate"
)

// RegisterGates registers all built-in gate types with the factory.
func RegisterGates() {
	gate.RegisterGateType(ReviewPostedGateID, func(config gate.GateConfig) (gate.Gate, error) {
		return NewReviewPostedGate(config), nil
	})

	gate.RegisterGateType(PrivilegedSessionGateID, func(config gate.GateConfig) (gate.Gate, error) {
		return NewPrivilegedSessionGate(config), nil
	})

	gate.RegisterGateType(FeatureAdoptionGateID, func(config gate.GateConfig) (gate.Gate, error) {
		return NewFeatureAdoptionGate(config), nil
	})

	gate.RegisterGateType(CooldownGateID, func(config gate.GateConfig) (gate.Gate, error) {
		return NewCooldownGate(config)
	})

	gate.RegisterGateType(CreditWindowGateID, func(config gate.GateConfig) (gate.Gate, error) {
		return NewCreditWindowGate(config), nil
	})
}
