package builtin

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/webrexstudio/review-engagement/pkg/gate"
	"github.com/webrexstudio/review-engagement/pkg/state"
)

const (
	// CreditWindowGateID is the identifier for the credit banner gate
	CreditWindowGateID = "credit_window"

	// DefaultCreditWindowDays is how long the credit banner stays visible
	// after a reward credit was granted.
	DefaultCreditWindowDays = 2.0
)

// CreditWindowGate gates the credit-on-review banner. The banner shows only
// to tenants who already posted a review, from the moment of review until
// the credit window closes after the reward was granted. The posted-review
// requirement is what keeps this surface from double-firing with the main
// review modal, whose chain requires the opposite.
type CreditWindowGate struct {
	config     gate.GateConfig
	windowDays float64
}

// NewCreditWindowGate creates a new credit window gate.
func NewCreditWindowGate(config gate.GateConfig) *CreditWindowGate {
	windowDays := config.GetFloat("window_days", DefaultCreditWindowDays)

	logrus.Infof("creating credit window gate with window=%v days", windowDays)

	return &CreditWindowGate{
		config:     config,
		windowDays: windowDays,
	}
}

// ID returns the gate identifier.
func (g *CreditWindowGate) ID() string {
	return g.config.ID
}

// Name returns the gate name.
func (g *CreditWindowGate) Name() string {
	return "Credit On Review Window"
}

// Config returns the gate configuration.
func (g *CreditWindowGate) Config() gate.GateConfig {
	return g.config
}

// Evaluate allows the banner while the review is posted and either no
// credit has been granted yet or fewer than window_days have elapsed since
// the first grant.
func (g *CreditWindowGate) Evaluate(ctx context.Context, s *state.ReviewState, sig state.EngagementSignal, now time.Time) (bool, error) {
	if !s.ReviewPosted {
		return false, nil
	}

	if s.CreditGrantedAt == nil {
		return true, nil
	}

	window := time.Duration(g.windowDays * 24 * float64(time.Hour))
	return now.Sub(*s.CreditGrantedAt) < window, nil
}
