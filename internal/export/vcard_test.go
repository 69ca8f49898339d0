package export

import (
	"bytes"
	"io"
	"testing"

	"github.com/emersion/go-vcard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/contactsync/pkg/contacts"
)

func TestWrite(t *testing.T) {
	list := []contacts.Contact{
		{
			Name:       &contacts.Name{Given: "Room A", Family: "(Resource)", Full: "Room A"},
			Note:       "4th floor",
			Emails:     []contacts.Email{{Address: "room-a@resource.example.com", Primary: true, Rel: "work"}},
			Attributes: contacts.Attributes{{Name: "contactsync.contact", Value: "managed"}},
		},
		{
			Emails: []contacts.Email{{Address: "room-b@resource.example.com"}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, list, "Resources"))

	dec := vcard.NewDecoder(&buf)
	first, err := dec.Decode()
	require.NoError(t, err)
	assert.Equal(t, "4.0", first.Value(vcard.FieldVersion))
	assert.Equal(t, "Room A", first.PreferredValue(vcard.FieldFormattedName))
	assert.Equal(t, "(Resource)", first.Name().FamilyName)
	assert.Equal(t, "room-a@resource.example.com", first.PreferredValue(vcard.FieldEmail))
	assert.Equal(t, "4th floor", first.Value(vcard.FieldNote))
	assert.Equal(t, "Resources", first.Value(vcard.FieldCategories))
	assert.Equal(t, "managed", first.Value("X-CONTACTSYNC-CONTACT"))

	second, err := dec.Decode()
	require.NoError(t, err)
	assert.Equal(t, "room-b@resource.example.com", second.Value(vcard.FieldFormattedName))

	_, err = dec.Decode()
	assert.Equal(t, io.EOF, err)
}

func TestPropertyName(t *testing.T) {
	assert.Equal(t, "X-CONTACTSYNC-GROUP", propertyName("contactsync.group"))
	assert.Equal(t, "X-A-B", propertyName("a b"))
}
