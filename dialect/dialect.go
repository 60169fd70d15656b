// Package dialect keeps the process-wide table of GORM dialectors keyed by
// URL scheme. Dialect packages register themselves from init; afterwards
// the table is only read.
package dialect

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"gorm.io/gorm"
)

// Opener builds a dialector from a connection URL.
type Opener func(rawURL string) (gorm.Dialector, error)

var (
	registry = make(map[string]Opener)
	mu       sync.RWMutex
)

// Register adds opener under scheme. It is meant to be called from init and
// panics on an empty scheme, a nil opener or a scheme that is already taken.
func Register(scheme string, opener Opener) {
	scheme = strings.ToLower(strings.TrimSpace(scheme))
	if scheme == "" {
		panic("dialect: Register with empty scheme")
	}
	if opener == nil {
		panic("dialect: Register opener is nil for " + scheme)
	}

	mu.Lock()
	defer mu.Unlock()
	if _, dup := registry[scheme]; dup {
		panic("dialect: Register called twice for " + scheme)
	}
	registry[scheme] = opener
}

// Lookup returns the opener registered for scheme.
func Lookup(scheme string) (Opener, bool) {
	mu.RLock()
	defer mu.RUnlock()
	o, ok := registry[strings.ToLower(scheme)]
	return o, ok
}

// Schemes returns the registered schemes in sorted order.
func Schemes() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(registry))
	for s := range registry {
		out = append(out, s)
	}
	slices.Sort(out)
	return out
}

// UnknownSchemeError is returned by Open for URLs whose scheme has no
// registered dialect.
type UnknownSchemeError struct {
	Scheme    string
	Available []string
}

func (e *UnknownSchemeError) Error() string {
	return fmt.Sprintf("no dialect registered for scheme %q (available: %s)",
		e.Scheme, strings.Join(e.Available, ", "))
}

// Open picks the dialect by the scheme of rawURL and builds its dialector.
func Open(rawURL string) (gorm.Dialector, error) {
	scheme, _, ok := strings.Cut(strings.TrimSpace(rawURL), "://")
	if !ok {
		scheme, _, _ = strings.Cut(rawURL, ":")
	}
	opener, found := Lookup(scheme)
	if !found {
		return nil, &UnknownSchemeError{Scheme: scheme, Available: Schemes()}
	}
	return opener(rawURL)
}
