// Package google adapts the Google Workspace Admin SDK (users and calendar
// resources) and the People API (contacts and contact groups) to the
// collaborator interfaces of pkg/contacts.
//
// Every call acts through a service account with domain-wide delegation:
// directory listings impersonate an administrator, contact sessions
// impersonate the target user.
package google

import (
	"context"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/agentstation/contactsync/pkg/errors"
)

// Credentials is a service account key with domain-wide delegation.
type Credentials struct {
	key []byte
}

// LoadCredentials reads a service account JSON key.
func LoadCredentials(path string) (*Credentials, error) {
	if path == "" {
		return nil, errors.NewConfigError("google", "credentials_file is required", nil)
	}
	key, err := os.ReadFile(path) //nolint:gosec // path comes from configuration
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	return NewCredentials(key), nil
}

// NewCredentials wraps an in-memory service account JSON key.
func NewCredentials(key []byte) *Credentials {
	return &Credentials{key: key}
}

// TokenSource returns a token source impersonating subject.
func (c *Credentials) TokenSource(ctx context.Context, subject string, scopes ...string) (oauth2.TokenSource, error) {
	cfg, err := google.JWTConfigFromJSON(c.key, scopes...)
	if err != nil {
		return nil, errors.NewConfigError("google", "invalid service account key", err)
	}
	cfg.Subject = subject
	return cfg.TokenSource(ctx), nil
}
