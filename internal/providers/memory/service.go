package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/agentstation/contactsync/pkg/contacts"
	"github.com/agentstation/contactsync/pkg/errors"
)

// Calls counts the requests a Service received.
type Calls struct {
	Groups       int
	CreateGroup  int
	DeleteGroup  int
	Contacts     int
	Update       int
	Delete       int
	ExecuteBatch int
}

// Mutations returns the number of requests that may change state.
func (c Calls) Mutations() int {
	return c.CreateGroup + c.DeleteGroup + c.Update + c.Delete + c.ExecuteBatch
}

// Service is an in-memory contacts.Service for a single user.
// The zero value is not usable; create one with NewService.
type Service struct {
	mu       sync.Mutex
	groups   []contacts.Group
	contacts []contacts.Contact
	nextID   int
	calls    Calls
	batches  [][]contacts.Operation

	// Failure injection. Nil means success.
	GroupsErr       error
	CreateGroupErr  error
	DeleteGroupErr  error
	ContactsErr     error
	AllContactsErr  error // only for listings without a group
	UpdateErr       error
	DeleteErr       error
	BatchErr        error
	BatchStatusFunc func(op contacts.Operation) (status, reason string)
}

// NewService creates a service holding the given system groups.
func NewService(systemGroups ...contacts.Group) *Service {
	return &Service{groups: append([]contacts.Group(nil), systemGroups...)}
}

func (s *Service) newID(kind string) string {
	s.nextID++
	return fmt.Sprintf("%s/%d", kind, s.nextID)
}

// Seed stores a contact as-is, assigning an id when it has none.
func (s *Service) Seed(c contacts.Contact) contacts.Contact {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = s.newID("people")
	}
	s.contacts = append(s.contacts, c.Clone())
	return c
}

// SeedGroup stores a group as-is, assigning an id when it has none.
func (s *Service) SeedGroup(g contacts.Group) contacts.Group {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g.ID == "" {
		g.ID = s.newID("contactGroups")
	}
	g.Attributes = g.Attributes.Clone()
	s.groups = append(s.groups, g)
	return g
}

// Snapshot returns copies of all stored contacts.
func (s *Service) Snapshot() []contacts.Contact {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]contacts.Contact, len(s.contacts))
	for i, c := range s.contacts {
		out[i] = c.Clone()
	}
	return out
}

// GroupSnapshot returns copies of all stored groups.
func (s *Service) GroupSnapshot() []contacts.Group {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]contacts.Group, len(s.groups))
	copy(out, s.groups)
	return out
}

// Calls returns the request counters.
func (s *Service) Calls() Calls {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// Batches returns the operations of every submitted batch.
func (s *Service) Batches() [][]contacts.Operation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]contacts.Operation, len(s.batches))
	copy(out, s.batches)
	return out
}

// ResetCalls clears the request counters and batch log.
func (s *Service) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = Calls{}
	s.batches = nil
}

// Groups implements contacts.Service.
func (s *Service) Groups(_ context.Context) ([]contacts.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls.Groups++
	if s.GroupsErr != nil {
		return nil, s.GroupsErr
	}
	out := make([]contacts.Group, len(s.groups))
	copy(out, s.groups)
	return out, nil
}

// CreateGroup implements contacts.Service.
func (s *Service) CreateGroup(_ context.Context, group contacts.Group) (contacts.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls.CreateGroup++
	if s.CreateGroupErr != nil {
		return contacts.Group{}, s.CreateGroupErr
	}
	group.ID = s.newID("contactGroups")
	group.SystemID = ""
	group.Attributes = group.Attributes.Clone()
	s.groups = append(s.groups, group)
	return group, nil
}

// DeleteGroup implements contacts.Service. Members stay in place but lose
// the membership.
func (s *Service) DeleteGroup(_ context.Context, group contacts.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls.DeleteGroup++
	if s.DeleteGroupErr != nil {
		return s.DeleteGroupErr
	}
	for i, g := range s.groups {
		if g.ID != group.ID {
			continue
		}
		s.groups = append(s.groups[:i], s.groups[i+1:]...)
		for j := range s.contacts {
			s.contacts[j].Groups = without(s.contacts[j].Groups, group.ID)
		}
		return nil
	}
	return errors.NewNotFoundError("group", group.ID)
}

// Contacts implements contacts.Service.
func (s *Service) Contacts(_ context.Context, query contacts.Query) ([]contacts.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls.Contacts++
	if s.ContactsErr != nil {
		return nil, s.ContactsErr
	}
	if query.GroupID == "" && s.AllContactsErr != nil {
		return nil, s.AllContactsErr
	}

	var out []contacts.Contact
	for _, c := range s.contacts {
		if query.GroupID != "" && !c.InGroup(query.GroupID) {
			continue
		}
		out = append(out, c.Clone())
		if query.MaxResults > 0 && len(out) == query.MaxResults {
			break
		}
	}
	return out, nil
}

// Update implements contacts.Service.
func (s *Service) Update(_ context.Context, contact contacts.Contact) (contacts.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls.Update++
	if s.UpdateErr != nil {
		return contacts.Contact{}, s.UpdateErr
	}
	return s.update(contact)
}

// Delete implements contacts.Service.
func (s *Service) Delete(_ context.Context, contact contacts.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls.Delete++
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	return s.delete(contact.ID)
}

// ExecuteBatch implements contacts.Service. BatchStatusFunc may reject
// individual operations; rejected operations change nothing.
func (s *Service) ExecuteBatch(_ context.Context, req contacts.BatchRequest) ([]contacts.BatchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls.ExecuteBatch++
	ops := make([]contacts.Operation, len(req.Operations))
	copy(ops, req.Operations)
	s.batches = append(s.batches, ops)
	if s.BatchErr != nil {
		return nil, s.BatchErr
	}

	results := make([]contacts.BatchResult, 0, len(ops))
	for _, op := range ops {
		result := contacts.BatchResult{ID: op.ID, Type: op.Type}
		if s.BatchStatusFunc != nil {
			status, reason := s.BatchStatusFunc(op)
			if status != "" {
				result.Status = status
				result.Reason = reason
				if !result.OK() {
					name := op.Contact.Clone()
					result.Contact = &name
					results = append(results, result)
					continue
				}
			}
		}

		var (
			stored contacts.Contact
			err    error
		)
		switch op.Type {
		case contacts.OperationInsert:
			stored = op.Contact.Clone()
			stored.ID = s.newID("people")
			stored.ETag = "1"
			s.contacts = append(s.contacts, stored.Clone())
			result.Status = contacts.StatusText(201)
		case contacts.OperationUpdate:
			stored, err = s.update(op.Contact)
			result.Status = contacts.StatusText(200)
		case contacts.OperationDelete:
			stored = op.Contact
			err = s.delete(op.Contact.ID)
			result.Status = contacts.StatusText(200)
		default:
			err = fmt.Errorf("unknown operation %q", op.Type)
		}
		if err != nil {
			result.Status = contacts.StatusText(404)
			result.Reason = err.Error()
		}
		result.Contact = &stored
		results = append(results, result)
	}
	return results, nil
}

func (s *Service) update(contact contacts.Contact) (contacts.Contact, error) {
	for i := range s.contacts {
		if s.contacts[i].ID != contact.ID {
			continue
		}
		updated := contact.Clone()
		updated.ETag = s.contacts[i].ETag + "+"
		s.contacts[i] = updated
		return updated.Clone(), nil
	}
	return contacts.Contact{}, errors.NewNotFoundError("contact", contact.ID)
}

func (s *Service) delete(id string) error {
	for i := range s.contacts {
		if s.contacts[i].ID == id {
			s.contacts = append(s.contacts[:i], s.contacts[i+1:]...)
			return nil
		}
	}
	return errors.NewNotFoundError("contact", id)
}

func without(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
