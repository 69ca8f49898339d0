package reconciler

import "github.com/agentstation/contactsync/pkg/contacts"

// Classifier tells records created by contactsync apart from everything
// else. The marker attribute is the only ownership signal: display names
// and group membership are never consulted.
type Classifier struct {
	Contact contacts.Attribute
	Group   contacts.Attribute
}

// IsManagedContact reports whether the contact carries the contact marker.
func (c Classifier) IsManagedContact(contact *contacts.Contact) bool {
	return contact != nil && contact.Attributes.Has(c.Contact.Name, c.Contact.Value)
}

// IsManagedGroup reports whether the group carries the group marker.
func (c Classifier) IsManagedGroup(group *contacts.Group) bool {
	return group != nil && group.Attributes.Has(c.Group.Name, c.Group.Value)
}

// ManagedGroup returns the first managed group in the list.
func (c Classifier) ManagedGroup(groups []contacts.Group) (contacts.Group, bool) {
	for i := range groups {
		if c.IsManagedGroup(&groups[i]) {
			return groups[i], true
		}
	}
	return contacts.Group{}, false
}
