/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/suparena/userlookup/datastore"
	"github.com/suparena/userlookup/errors"
	"github.com/suparena/userlookup/storagemodels"
)

// Registry maps locator schemes to the Openers that serve them.
type Registry struct {
	mu      sync.RWMutex
	openers map[string]datastore.Opener
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{openers: make(map[string]datastore.Opener)}
}

// Register associates a scheme with an Opener. Registering a scheme twice is an error.
func (r *Registry) Register(scheme string, opener datastore.Opener) error {
	if scheme == "" {
		return errors.NewValidationError("scheme", "scheme cannot be empty")
	}
	if opener == nil {
		return errors.NewValidationError("opener", "opener cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.openers[scheme]; exists {
		return fmt.Errorf("registry: opener for scheme %q already registered", scheme)
	}
	r.openers[scheme] = opener
	return nil
}

// Get returns the Opener registered for scheme, if any.
func (r *Registry) Get(scheme string) (datastore.Opener, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.openers[scheme]
	return o, ok
}

// Remove drops the Opener registered for scheme.
func (r *Registry) Remove(scheme string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.openers, scheme)
}

// List returns the registered schemes in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	schemes := make([]string, 0, len(r.openers))
	for s := range r.openers {
		schemes = append(schemes, s)
	}
	sort.Strings(schemes)
	return schemes
}

// Resolve parses a raw locator and returns the Opener for its scheme.
func (r *Registry) Resolve(raw string) (datastore.Opener, storagemodels.Locator, error) {
	loc, err := storagemodels.ParseLocator(raw)
	if err != nil {
		return nil, storagemodels.Locator{}, err
	}
	o, ok := r.Get(loc.Scheme)
	if !ok {
		return nil, loc, errors.NewValidationError("locator", fmt.Sprintf("unsupported store scheme %q", loc.Scheme))
	}
	return o, loc, nil
}
