package channel

import (
	"fmt"
	"sync"
)

// Registry manages available channels.
// It provides thread-safe registration and lookup of channels.
type Registry struct {
	channels map[string]Channel
	mu       sync.RWMutex
}

// NewRegistry creates a new empty channel registry.
func NewRegistry() *Registry {
	return &Registry{
		channels: make(map[string]Channel),
	}
}

// Register adds a channel to the registry.
// Returns an error if a channel with the same ID already exists.
func (r *Registry) Register(ch Channel) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.channels[ch.ID()]; exists {
		return fmt.Errorf("channel %s already registered", ch.ID())
	}

	r.channels[ch.ID()] = ch
	return nil
}

// Unregister removes a channel from the registry.
// Returns an error if the channel doesn't exist.
func (r *Registry) Unregister(channelID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.channels[channelID]; !exists {
		return fmt.Errorf("channel %s not found", channelID)
	}

	delete(r.channels, channelID)
	return nil
}

// Get returns a channel by ID.
// Returns nil if the channel doesn't exist.
func (r *Registry) Get(channelID string) Channel {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.channels[channelID]
}

// GetEnabled returns a channel by ID only if it's enabled.
// Returns nil if the channel doesn't exist or is disabled.
func (r *Registry) GetEnabled(channelID string) Channel {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ch := r.channels[channelID]
	if ch != nil && !ch.Config().Enabled {
		return nil
	}

	return ch
}

// GetAll returns all registered channels.
func (r *Registry) GetAll() []Channel {
	r.mu.RLock()
	defer r.mu.RUnlock()

	channels := make([]Channel, 0, len(r.channels))
	for _, ch := range r.channels {
		channels = append(channels, ch)
	}

	return channels
}

// Count returns the number of registered channels.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.channels)
}
