package google

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	people "google.golang.org/api/people/v1"

	"github.com/agentstation/contactsync/pkg/contacts"
)

func TestPersonRoundTrip(t *testing.T) {
	c := contacts.Contact{
		ID:   "people/c1",
		ETag: "etag",
		Name: &contacts.Name{Given: "Room A", Family: "(Resource)", Full: "Room A"},
		Note: "4th floor",
		Emails: []contacts.Email{
			{Address: "room-a@resource.example.com", Primary: true, Rel: "work"},
		},
		Groups:     []string{"contactGroups/abc", "contactGroups/myContacts"},
		Attributes: contacts.Attributes{{Name: "contactsync.contact", Value: "managed"}},
	}

	p := toPerson(c)
	require.Len(t, p.Names, 1)
	assert.Equal(t, "Room A", p.Names[0].UnstructuredName)
	assert.Equal(t, "TEXT_PLAIN", p.Biographies[0].ContentType)
	assert.True(t, p.EmailAddresses[0].Metadata.Primary)
	assert.Equal(t, "contactGroups/abc", p.Memberships[0].ContactGroupMembership.ContactGroupResourceName)
	assert.Equal(t, "contactsync.contact", p.ClientData[0].Key)

	assert.Equal(t, c, toContact(p))
}

func TestToContactFallsBackToDisplayName(t *testing.T) {
	c := toContact(&people.Person{
		ResourceName: "people/c2",
		Names:        []*people.Name{{DisplayName: "Someone Else", GivenName: "Someone"}},
		EmailAddresses: []*people.EmailAddress{
			{Value: ""},
			{Value: "someone@example.com", Type: "home"},
		},
	})
	assert.Equal(t, "Someone Else", c.DisplayName())
	assert.Equal(t, []contacts.Email{{Address: "someone@example.com", Rel: "home"}}, c.Emails)
	assert.Empty(t, c.Note)
	assert.Empty(t, c.Attributes)

	assert.Equal(t, contacts.Contact{}, toContact(nil))
}

func TestToGroup(t *testing.T) {
	system := toGroup(&people.ContactGroup{
		ResourceName: "contactGroups/myContacts",
		Name:         "myContacts",
		GroupType:    systemGroupType,
	})
	assert.Equal(t, "Contacts", system.SystemID)
	assert.True(t, system.IsSystem())

	unknownSystem := toGroup(&people.ContactGroup{ResourceName: "contactGroups/chatBuddies", Name: "chatBuddies", GroupType: systemGroupType})
	assert.Equal(t, "chatBuddies", unknownSystem.SystemID)

	user := toGroup(&people.ContactGroup{
		ResourceName: "contactGroups/abc",
		Name:         "Resources",
		GroupType:    "USER_CONTACT_GROUP",
		ClientData:   []*people.GroupClientData{{Key: "contactsync.group", Value: "managed"}},
	})
	assert.False(t, user.IsSystem())
	assert.True(t, user.Attributes.Has("contactsync.group", "managed"))

	cg := toContactGroup(user)
	assert.Equal(t, "Resources", cg.Name)
	assert.Equal(t, "managed", cg.ClientData[0].Value)
}

func TestPersonStatus(t *testing.T) {
	assert.Equal(t, -1, personStatus(nil))
	assert.Equal(t, 200, personStatus(&people.PersonResponse{}))
	assert.Equal(t, 201, personStatus(&people.PersonResponse{HttpStatusCode: 201}))
	assert.Equal(t, 409, personStatus(&people.PersonResponse{Status: &people.Status{Code: 6}}))
	assert.Equal(t, 500, personStatus(&people.PersonResponse{Status: &people.Status{Code: 99}}))
}

func TestChunks(t *testing.T) {
	assert.Nil(t, chunks(nil, 2))
	assert.Equal(t, [][]int{{0, 1}, {2, 3}, {4}}, chunks([]int{0, 1, 2, 3, 4}, 2))
}

func TestPageSize(t *testing.T) {
	assert.Equal(t, int64(500), pageSize(0, 0, 500))
	assert.Equal(t, int64(250), pageSize(250, 0, 500))
	assert.Equal(t, int64(500), pageSize(2000, 500, 500))
	assert.Equal(t, int64(1), pageSize(10, 10, 500))
}
