package env

import (
	"fmt"
	"sort"
	"sync"
)

// DefaultID is the ID the default environment is registered under.
const DefaultID = "CustomSpaceInvaders-v0"

// Factory creates an environment.
type Factory func(opts ...Option) (*Env, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

func init() {
	Register(DefaultID, New)
}

// Register adds an environment factory. Panics on a duplicate ID.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("env: environment %q already registered", id))
	}
	factories[id] = f
}

// Make creates a registered environment.
func Make(id string, opts ...Option) (*Env, error) {
	mu.RLock()
	f, ok := factories[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEnv, id)
	}
	return f(opts...)
}

// IDs returns the registered environment IDs, sorted.
func IDs() []string {
	mu.RLock()
	defer mu.RUnlock()

	ids := make([]string, 0, len(factories))
	for id := range factories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
