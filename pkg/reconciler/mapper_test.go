package reconciler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/contactsync/pkg/contacts"
)

func testMapper() Mapper {
	return Mapper{FamilyName: "(Resource)", WorkRel: "work", Marker: contactMarker()}
}

func TestMap(t *testing.T) {
	c := testMapper().Map(roomA)

	require.NotNil(t, c.Name)
	assert.Equal(t, contacts.Name{Given: "Room A", Family: "(Resource)", Full: "Room A"}, *c.Name)
	assert.Equal(t, "4th floor", c.Note)
	assert.Equal(t, []contacts.Email{{Address: roomA.Email, Primary: true, Rel: "work"}}, c.Emails)
	assert.True(t, c.Attributes.Has(contactMarker().Name, contactMarker().Value))
	assert.Empty(t, c.ID)
	assert.Empty(t, c.Groups)
}

func TestSync(t *testing.T) {
	m := testMapper()

	t.Run("unchanged", func(t *testing.T) {
		target := m.Map(roomA)
		assert.False(t, m.Sync(m.Map(roomA), &target))
	})

	t.Run("names and note", func(t *testing.T) {
		target := contacts.Contact{
			ID:         "people/1",
			Name:       &contacts.Name{Given: "Old", Family: "Old", Full: "Old"},
			Note:       "old note",
			Emails:     []contacts.Email{{Address: "ROOM-A@resource.example.com", Rel: "home"}},
			Attributes: contacts.Attributes{contactMarker(), {Name: "x", Value: "y"}},
		}
		assert.True(t, m.Sync(m.Map(roomA), &target))
		assert.Equal(t, contacts.Name{Given: "Room A", Family: "(Resource)", Full: "Room A"}, *target.Name)
		assert.Equal(t, "4th floor", target.Note)
		assert.Equal(t, "people/1", target.ID)
		assert.Equal(t, []contacts.Email{{Address: "ROOM-A@resource.example.com", Rel: "home"}}, target.Emails)
		assert.Len(t, target.Attributes, 2)
	})

	t.Run("empty description keeps note", func(t *testing.T) {
		target := m.Map(roomC)
		target.Note = "kept"
		assert.False(t, m.Sync(m.Map(roomC), &target))
		assert.Equal(t, "kept", target.Note)
	})

	t.Run("missing name", func(t *testing.T) {
		target := contacts.Contact{}
		assert.True(t, m.Sync(m.Map(roomC), &target))
		require.NotNil(t, target.Name)
		assert.Equal(t, "Room C", target.Name.Full)
	})
}
