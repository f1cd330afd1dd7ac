package gate

import (
	"fmt"
	"sync"
)

// Registry manages available gates.
// It provides thread-safe registration and lookup of gates.
type Registry struct {
	gates map[string]Gate
	mu    sync.RWMutex
}

// NewRegistry creates a new empty gate registry.
func NewRegistry() *Registry {
	return &Registry{
		gates: make(map[string]Gate),
	}
}

// Register adds a gate to the registry.
// Returns an error if a gate with the same ID already exists.
func (r *Registry) Register(g Gate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.gates[g.ID()]; exists {
		return fmt.Errorf("gate %s already registered", g.ID())
	}

	r.gates[g.ID()] = g
	return nil
}

// Unregister removes a gate from the registry.
// Returns an error if the gate doesn't exist.
func (r *Registry) Unregister(gateID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.gates[gateID]; !exists {
		return fmt.Errorf("gate %s not found", gateID)
	}

	delete(r.gates, gateID)
	return nil
}

// Get returns a gate by ID.
// Returns nil if the gate doesn't exist.
func (r *Registry) Get(gateID string) Gate {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.gates[gateID]
}

// GetAll returns all registered gates.
func (r *Registry) GetAll() []Gate {
	r.mu.RLock()
	defer r.mu.RUnlock()

	gates := make([]Gate, 0, len(r.gates))
	for _, g := range r.gates {
		gates = append(gates, g)
	}

	return gates
}

// Count returns the number of registered gates.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.gates)
}
