package reconciler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agentstation/contactsync/internal/providers/memory"
	"github.com/agentstation/contactsync/pkg/constants"
	"github.com/agentstation/contactsync/pkg/contacts"
	"github.com/agentstation/contactsync/pkg/logging"
)

var (
	roomA = contacts.Resource{Email: "room-a@resource.example.com", Name: "Room A", Description: "4th floor"}
	roomB = contacts.Resource{Email: "room-b@resource.example.com", Name: "Room B", Description: "Projector"}
	roomC = contacts.Resource{Email: "room-c@resource.example.com", Name: "Room C"}

	alice = contacts.User{PrimaryEmail: "alice@example.com", Name: "Alice"}
	bob   = contacts.User{PrimaryEmail: "bob@example.com", Name: "Bob"}

	myContacts = contacts.Group{ID: "contactGroups/myContacts", Title: "My Contacts", SystemID: constants.DefaultMyContactsID}
)

type fixture struct {
	dir      *memory.Directory
	sessions *memory.Sessions
	log      *logging.TestLogger
	ctx      context.Context
}

func newFixture(t *testing.T, resources []contacts.Resource, users ...contacts.User) *fixture {
	t.Helper()
	tl := logging.NewTestLogger(t)
	return &fixture{
		dir:      memory.NewDirectory(resources, users),
		sessions: memory.NewSessions(myContacts),
		log:      tl,
		ctx:      logging.WithLogger(context.Background(), tl.Logger),
	}
}

func (f *fixture) run(t *testing.T, opts ...Option) *Result {
	t.Helper()
	r, err := New(opts...)
	require.NoError(t, err)
	result, err := r.Run(f.ctx, f.dir, f.dir, f.sessions)
	require.NoError(t, err)
	return result
}

// managedGroups returns the user's groups carrying the default group marker.
func managedGroups(svc *memory.Service) []contacts.Group {
	var out []contacts.Group
	for _, g := range svc.GroupSnapshot() {
		if g.Attributes.Has(constants.DefaultGroupPropertyName, constants.DefaultGroupPropertyValue) {
			out = append(out, g)
		}
	}
	return out
}

func contactMarker() contacts.Attribute {
	return contacts.Attribute{Name: constants.DefaultContactPropName, Value: constants.DefaultContactPropValue}
}

func groupMarker() contacts.Attribute {
	return contacts.Attribute{Name: constants.DefaultGroupPropertyName, Value: constants.DefaultGroupPropertyValue}
}

func byEmail(list []contacts.Contact, email string) (contacts.Contact, bool) {
	for _, c := range list {
		for _, e := range c.Emails {
			if contacts.Fold(e.Address) == contacts.Fold(email) {
				return c, true
			}
		}
	}
	return contacts.Contact{}, false
}
