package service

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds named services of one kind, typically DynServerService or
// DynClientService values of different concrete types.
type Registry[S any] struct {
	mu       sync.RWMutex
	services map[string]S
}

// NewRegistry creates an empty registry
func NewRegistry[S any]() *Registry[S] {
	return &Registry[S]{services: make(map[string]S)}
}

// Register adds svc under name. Names are unique.
func (r *Registry[S]) Register(name string, svc S) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.services[name]; exists {
		return fmt.Errorf("service %q already registered", name)
	}
	r.services[name] = svc
	return nil
}

// Unregister removes name and reports whether it was present
func (r *Registry[S]) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.services[name]
	delete(r.services, name)
	return ok
}

// Get returns the service registered under name
func (r *Registry[S]) Get(name string) (S, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	svc, ok := r.services[name]
	return svc, ok
}

// Names returns the registered names in sorted order
func (r *Registry[S]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.services))
	for name := range r.services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
