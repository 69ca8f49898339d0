package reconciler

import (
	"github.com/agentstation/contactsync/internal/matcher"
	"github.com/agentstation/contactsync/pkg/contacts"
)

// SelectResources keeps the resources whose email matches the pattern,
// preserving directory order. An invalid pattern selects nothing.
func SelectResources(resources []contacts.Resource, pattern string) []contacts.Resource {
	m, err := matcher.New(pattern)
	if err != nil {
		return nil
	}
	var out []contacts.Resource
	for _, r := range resources {
		if r.Email != "" && m.Match(r.Email) {
			out = append(out, r)
		}
	}
	return out
}

// SelectUsers keeps the primary emails matching the pattern that are not
// in the opt-out list, preserving directory order.
func SelectUsers(users []contacts.User, pattern string, optedOut []string) []string {
	m, err := matcher.New(pattern)
	if err != nil {
		return nil
	}
	skip := make(map[string]struct{}, len(optedOut))
	for _, email := range optedOut {
		skip[contacts.Fold(email)] = struct{}{}
	}

	var out []string
	for _, u := range users {
		if u.PrimaryEmail == "" || !m.Match(u.PrimaryEmail) {
			continue
		}
		if _, excluded := skip[contacts.Fold(u.PrimaryEmail)]; excluded {
			continue
		}
		out = append(out, u.PrimaryEmail)
	}
	return out
}
