// Package agent provides simple policies for the invaders environment.
package agent

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vovakirdan/tui-invaders/internal/env"
)

// constructors maps agent names to policy constructors.
var constructors = map[string]func(seed int64) env.Policy{
	"random":  func(seed int64) env.Policy { return NewRandom(seed) },
	"tracker": func(int64) env.Policy { return NewTracker() },
}

// Names returns the available agent names, sorted.
func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ByName creates the named policy.
func ByName(name string, seed int64) (env.Policy, error) {
	f, err := Factory(name)
	if err != nil {
		return nil, err
	}
	return f(seed), nil
}

// Factory returns a per-episode constructor for the named policy, for use with env.Run.
func Factory(name string) (env.PolicyFactory, error) {
	c, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("agent: unknown agent %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return env.PolicyFactory(c), nil
}
