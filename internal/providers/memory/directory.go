// Package memory provides in-memory directory and contacts providers for
// tests and dry runs.
package memory

import (
	"context"
	"sync"

	"github.com/agentstation/contactsync/pkg/contacts"
)

// Directory is an in-memory resource and user directory.
type Directory struct {
	mu        sync.RWMutex
	resources []contacts.Resource
	users     []contacts.User

	// Err, when set, is returned by every listing.
	Err error
}

// NewDirectory creates a directory holding the given records.
func NewDirectory(resources []contacts.Resource, users []contacts.User) *Directory {
	return &Directory{resources: resources, users: users}
}

// SetResources replaces the resources.
func (d *Directory) SetResources(resources []contacts.Resource) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.resources = resources
}

// ListResources implements contacts.ResourceLister.
func (d *Directory) ListResources(_ context.Context, maxResults int) ([]contacts.Resource, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.Err != nil {
		return nil, d.Err
	}
	return limit(d.resources, maxResults), nil
}

// ListUsers implements contacts.UserLister. The domain is ignored.
func (d *Directory) ListUsers(_ context.Context, _ string, maxResults int) ([]contacts.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.Err != nil {
		return nil, d.Err
	}
	return limit(d.users, maxResults), nil
}

func limit[T any](items []T, n int) []T {
	if n > 0 && len(items) > n {
		items = items[:n]
	}
	out := make([]T, len(items))
	copy(out, items)
	return out
}
