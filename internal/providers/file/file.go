// Package file reads resources and users from local YAML fixtures.
//
// A fixture holds either or both lists:
//
//	resources:
//	  - email: room-a@resource.example.com
//	    name: Room A
//	    description: 4th floor
//	users:
//	  - primary_email: alice@example.com
//
// The same file may serve as the resources and the users fixture.
package file

import (
	"context"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/contactsync/pkg/contacts"
	"github.com/agentstation/contactsync/pkg/errors"
)

// Fixture is the on-disk document.
type Fixture struct {
	Resources []contacts.Resource `yaml:"resources"`
	Users     []contacts.User     `yaml:"users"`
}

// Source is a directory backed by YAML fixtures.
type Source struct {
	resourcesPath string
	usersPath     string
}

// Option configures a Source.
type Option func(*Source)

// WithResourcesPath sets the fixture holding resources.
func WithResourcesPath(path string) Option {
	return func(s *Source) {
		s.resourcesPath = path
	}
}

// WithUsersPath sets the fixture holding users.
func WithUsersPath(path string) Option {
	return func(s *Source) {
		s.usersPath = path
	}
}

// New creates a fixture source.
func New(opts ...Option) *Source {
	s := &Source{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListResources implements contacts.ResourceLister.
// Without a resources fixture the list is empty.
func (s *Source) ListResources(_ context.Context, maxResults int) ([]contacts.Resource, error) {
	if s.resourcesPath == "" {
		return nil, nil
	}
	fx, err := Load(s.resourcesPath)
	if err != nil {
		return nil, err
	}
	return truncate(fx.Resources, maxResults), nil
}

// ListUsers implements contacts.UserLister. The domain is ignored; the
// fixture is assumed to describe a single domain.
func (s *Source) ListUsers(_ context.Context, _ string, maxResults int) ([]contacts.User, error) {
	if s.usersPath == "" {
		return nil, errors.NewConfigError("file", "users_file is required", nil)
	}
	fx, err := Load(s.usersPath)
	if err != nil {
		return nil, err
	}
	return truncate(fx.Users, maxResults), nil
}

// Load reads and parses a fixture.
func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from configuration
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	var fx Fixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	return &fx, nil
}

func truncate[T any](items []T, n int) []T {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}
