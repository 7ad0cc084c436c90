package backend

import (
	"fmt"
	"sort"
	"sync"
)

// Factory creates a draw target of the given pixel size.
// Factories are registered via Register and called by New.
type Factory func(width, height int) (DrawTarget, error)

var (
	registryMu sync.RWMutex
	factories  = make(map[string]Factory)
)

// Register registers a draw-target factory under name. Backend packages
// call this from init(), database/sql style:
//
//	func init() {
//	    backend.Register("software", func(w, h int) (backend.DrawTarget, error) {
//	        return New(w, h), nil
//	    })
//	}
//
// Register panics on a nil factory or a duplicate name so collisions
// surface during program initialization.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if factory == nil {
		panic("backend: Register factory is nil")
	}
	if _, dup := factories[name]; dup {
		panic("backend: Register called twice for " + name)
	}
	factories[name] = factory
}

// Unregister removes a registered backend. Primarily for tests.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(factories, name)
}

// New creates a draw target by backend name. Returns an error when the
// backend is not registered; the message hints at a forgotten import.
func New(name string, width, height int) (DrawTarget, error) {
	registryMu.RLock()
	factory, ok := factories[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("backend: unknown backend %q (forgotten import?)", name)
	}
	target, err := factory(width, height)
	if err != nil {
		return nil, fmt.Errorf("backend: %s: %w", name, err)
	}
	return target, nil
}

// Backends returns the registered backend names, sorted.
func Backends() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered reports whether a backend with the given name exists.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := factories[name]
	return ok
}
