package channel

import "errors"

var (
	// ErrChannelDisabled indicates that a channel is disabled in configuration.
	ErrChannelDisabled = errors.New("channel is disabled")

	// ErrChannelNotFound indicates that a requested channel doesn't exist in the registry.
	ErrChannelNotFound = errors.New("channel not found in registry")

	// ErrInvalidConfig indicates that a channel's configuration is invalid.
	ErrInvalidConfig = errors.New("invalid channel configuration")

	// ErrAllChannelsFailed indicates that every channel in a preference list
	// failed to present. The attempt is still recorded against the cooldown.
	ErrAllChannelsFailed = errors.New("all channels failed to present")
)
