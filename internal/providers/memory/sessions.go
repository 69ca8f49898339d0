package memory

import (
	"context"
	"sync"

	"github.com/agentstation/contactsync/pkg/contacts"
	"github.com/agentstation/contactsync/pkg/errors"
)

// Sessions hands out one Service per user, creating it on first use.
type Sessions struct {
	mu       sync.Mutex
	services map[string]*Service
	system   []contacts.Group

	// Deny lists users whose session cannot be opened.
	Deny map[string]error
}

// NewSessions creates a session factory. New services start with the
// given system groups.
func NewSessions(systemGroups ...contacts.Group) *Sessions {
	return &Sessions{
		services: make(map[string]*Service),
		system:   systemGroups,
	}
}

// Session implements contacts.SessionFactory.
func (s *Sessions) Session(_ context.Context, user string) (contacts.Service, error) {
	if err, denied := s.Deny[user]; denied {
		if err == nil {
			err = errors.NewAPIError("memory", 403, "access denied for "+user)
		}
		return nil, err
	}
	return s.For(user), nil
}

// For returns the user's service, creating it when needed.
func (s *Sessions) For(user string) *Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	svc, ok := s.services[user]
	if !ok {
		svc = NewService(s.system...)
		s.services[user] = svc
	}
	return svc
}
