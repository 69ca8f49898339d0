package google

import (
	people "google.golang.org/api/people/v1"

	"github.com/agentstation/contactsync/pkg/contacts"
)

const (
	personFields = "names,emailAddresses,biographies,clientData,memberships,metadata"
	updateFields = "names,biographies"
	groupFields  = "name,groupType,clientData,metadata"

	systemGroupType = "SYSTEM_CONTACT_GROUP"
)

// systemIDs maps People API system groups to their classic Contacts API
// ids, which is what my_contacts_id refers to.
var systemIDs = map[string]string{
	"contactGroups/myContacts": "Contacts",
	"contactGroups/starred":    "Starred",
	"contactGroups/friends":    "Friends",
	"contactGroups/family":     "Family",
	"contactGroups/coworkers":  "Coworkers",
}

func toContact(p *people.Person) contacts.Contact {
	if p == nil {
		return contacts.Contact{}
	}
	c := contacts.Contact{ID: p.ResourceName, ETag: p.Etag}

	if len(p.Names) > 0 && p.Names[0] != nil {
		n := p.Names[0]
		full := n.UnstructuredName
		if full == "" {
			full = n.DisplayName
		}
		c.Name = &contacts.Name{Given: n.GivenName, Family: n.FamilyName, Full: full}
	}
	for _, b := range p.Biographies {
		if b != nil && b.Value != "" {
			c.Note = b.Value
			break
		}
	}
	for _, e := range p.EmailAddresses {
		if e == nil || e.Value == "" {
			continue
		}
		c.Emails = append(c.Emails, contacts.Email{
			Address: e.Value,
			Primary: e.Metadata != nil && e.Metadata.Primary,
			Rel:     e.Type,
		})
	}
	for _, m := range p.Memberships {
		if m != nil && m.ContactGroupMembership != nil {
			c.Groups = append(c.Groups, m.ContactGroupMembership.ContactGroupResourceName)
		}
	}
	for _, d := range p.ClientData {
		if d != nil {
			c.Attributes = append(c.Attributes, contacts.Attribute{Name: d.Key, Value: d.Value})
		}
	}
	return c
}

func toPerson(c contacts.Contact) *people.Person {
	p := &people.Person{ResourceName: c.ID, Etag: c.ETag}

	if c.Name != nil {
		p.Names = []*people.Name{{
			GivenName:        c.Name.Given,
			FamilyName:       c.Name.Family,
			UnstructuredName: c.Name.Full,
		}}
	}
	if c.Note != "" {
		p.Biographies = []*people.Biography{{Value: c.Note, ContentType: "TEXT_PLAIN"}}
	}
	for _, e := range c.Emails {
		p.EmailAddresses = append(p.EmailAddresses, &people.EmailAddress{
			Value:    e.Address,
			Type:     e.Rel,
			Metadata: &people.FieldMetadata{Primary: e.Primary},
		})
	}
	for _, g := range c.Groups {
		p.Memberships = append(p.Memberships, &people.Membership{
			ContactGroupMembership: &people.ContactGroupMembership{ContactGroupResourceName: g},
		})
	}
	for _, a := range c.Attributes {
		p.ClientData = append(p.ClientData, &people.ClientData{Key: a.Name, Value: a.Value})
	}
	return p
}

func toGroup(g *people.ContactGroup) contacts.Group {
	if g == nil {
		return contacts.Group{}
	}
	out := contacts.Group{ID: g.ResourceName, Title: g.Name}
	if g.GroupType == systemGroupType {
		out.SystemID = systemIDs[g.ResourceName]
		if out.SystemID == "" {
			out.SystemID = g.Name
		}
	}
	for _, d := range g.ClientData {
		if d != nil {
			out.Attributes = append(out.Attributes, contacts.Attribute{Name: d.Key, Value: d.Value})
		}
	}
	return out
}

func toContactGroup(g contacts.Group) *people.ContactGroup {
	cg := &people.ContactGroup{ResourceName: g.ID, Name: g.Title}
	for _, a := range g.Attributes {
		cg.ClientData = append(cg.ClientData, &people.GroupClientData{Key: a.Name, Value: a.Value})
	}
	return cg
}

// personStatus returns the HTTP status of one entry of a batch response.
func personStatus(r *people.PersonResponse) int {
	switch {
	case r == nil:
		return -1
	case r.HttpStatusCode != 0:
		return int(r.HttpStatusCode)
	case r.Status != nil:
		return httpStatusFromRPC(r.Status.Code)
	default:
		return 200
	}
}

// applyResponse fills a batch result from a People API response entry.
func applyResponse(result *contacts.BatchResult, r *people.PersonResponse) {
	result.Status = contacts.StatusText(personStatus(r))
	if r == nil {
		result.Reason = "no result returned"
		return
	}
	if r.Status != nil && r.Status.Message != "" {
		result.Reason = r.Status.Message
	}
	if r.Person != nil {
		c := toContact(r.Person)
		result.Contact = &c
	}
}
