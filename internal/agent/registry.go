package agent

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	ErrDuplicateAgent = errors.New("agent already registered")
	ErrUnknownAgent   = errors.New("unknown agent")
)

// Registry tracks the agents participating in the simulation.
type Registry struct {
	mu     sync.RWMutex
	agents map[string]*Agent
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{agents: make(map[string]*Agent)}
}

// Register adds an agent; duplicate ids are rejected.
func (r *Registry) Register(a *Agent) error {
	if a == nil {
		return errors.New("agent: nil agent")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.agents[a.ID()]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateAgent, a.ID())
	}
	r.agents[a.ID()] = a
	return nil
}

// Unregister removes an agent and reports whether it existed.
func (r *Registry) Unregister(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.agents[id]; !exists {
		return false
	}
	delete(r.agents, id)
	return true
}

// Get looks up an agent by id.
func (r *Registry) Get(id string) (*Agent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.agents[id]
	return a, ok
}

// List returns every agent sorted by id. Iterating in id order keeps tick
// dispatch deterministic.
func (r *Registry) List() []*Agent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	agents := make([]*Agent, 0, len(r.agents))
	for _, a := range r.agents {
		agents = append(agents, a)
	}
	sort.Slice(agents, func(i, j int) bool { return agents[i].ID() < agents[j].ID() })
	return agents
}

// Len reports the number of registered agents.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.agents)
}
