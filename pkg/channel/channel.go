package channel

import (
	"context"

	"github.com/webrexstudio/review-engagement/pkg/state"
)

// Channel is a concrete surface capable of presenting a review request:
// the native store review dialog, the in-app modal, or a chat message.
// Channels are registered in a Registry and tried in preference order by
// the Dispatcher.
type Channel interface {
	// ID returns unique channel identifier.
	ID() string

	// Name returns human-readable channel name.
	Name() string

	// Present attempts to show the review request. A non-success result or
	// an error makes the Dispatcher fall back to the next channel in the
	// preference list.
	Present(ctx context.Context, req PresentRequest) (*Result, error)

	// Config returns the channel's configuration.
	Config() ChannelConfig
}

// PresentRequest carries what a channel needs to present a prompt.
type PresentRequest struct {
	TenantID string
	DeviceID string
	Surface  string
	PlanTier state.PlanTier
}

// Result is the observable outcome of a presentation attempt.
type Result struct {
	Success bool
	Code    string
	Message string
}

// Ok creates a successful result.
func Ok() *Result {
	return &Result{Success: true}
}

// Failed creates a failure result with a reason code.
func Failed(code, message string) *Result {
	return &Result{Success: false, Code: code, Message: message}
}
