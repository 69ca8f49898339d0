package reconciler

import (
	"context"

	"github.com/agentstation/contactsync/pkg/contacts"
	"github.com/agentstation/contactsync/pkg/logging"
)

// Resolver maps a contact back to the directory resource it was made from.
type Resolver struct {
	byEmail map[string]contacts.Resource
	workRel string
}

// NewResolver builds the lookup table keyed by case-folded resource email.
// When two resources share an email the first one wins.
func NewResolver(resources []contacts.Resource, workRel string) *Resolver {
	byEmail := make(map[string]contacts.Resource, len(resources))
	for _, r := range resources {
		if _, exists := byEmail[r.Key()]; !exists {
			byEmail[r.Key()] = r
		}
	}
	return &Resolver{byEmail: byEmail, workRel: workRel}
}

// Len returns the number of distinct resource emails.
func (r *Resolver) Len() int {
	return len(r.byEmail)
}

// Lookup returns the resource with the given email.
func (r *Resolver) Lookup(email string) (contacts.Resource, bool) {
	res, ok := r.byEmail[contacts.Fold(email)]
	return res, ok
}

// Resolve picks the single resource the contact corresponds to.
//
// Candidates are the contact's emails present in the table. They are
// narrowed, in order, to primary work emails, then work emails, then
// primary emails; the first non-empty narrowing is used, otherwise all
// candidates. Several remaining candidates are logged and the first wins.
func (r *Resolver) Resolve(ctx context.Context, contact *contacts.Contact) (contacts.Resource, bool) {
	if contact == nil {
		return contacts.Resource{}, false
	}

	var matching []contacts.Email
	for _, email := range contact.Emails {
		if email.Address == "" {
			continue
		}
		if _, ok := r.byEmail[contacts.Fold(email.Address)]; ok {
			matching = append(matching, email)
		}
	}
	if len(matching) == 0 {
		return contacts.Resource{}, false
	}

	candidates := narrow(matching, func(e contacts.Email) bool { return e.Primary && e.Rel == r.workRel })
	if len(candidates) == 0 {
		candidates = narrow(matching, func(e contacts.Email) bool { return e.Rel == r.workRel })
	}
	if len(candidates) == 0 {
		candidates = narrow(matching, func(e contacts.Email) bool { return e.Primary })
	}
	if len(candidates) == 0 {
		candidates = matching
	}

	if len(candidates) > 1 {
		addresses := make([]string, len(candidates))
		for i, c := range candidates {
			addresses[i] = c.Address
		}
		name := contact.DisplayName()
		if name == "" {
			name = "(unknown)"
		}
		logging.FromContext(ctx).Warn().
			Strs("candidates", addresses).
			Str("contact", name).
			Str("contact_id", contact.ID).
			Str("chosen", addresses[0]).
			Msg("Several matching emails for contact")
	}

	return r.byEmail[contacts.Fold(candidates[0].Address)], true
}

func narrow(emails []contacts.Email, keep func(contacts.Email) bool) []contacts.Email {
	var out []contacts.Email
	for _, e := range emails {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}
