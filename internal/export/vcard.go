// Package export renders contacts as vCard 4.0 for review or manual import.
package export

import (
	"io"
	"strings"
	"unicode"

	"github.com/emersion/go-vcard"

	"github.com/agentstation/contactsync/pkg/contacts"
	"github.com/agentstation/contactsync/pkg/errors"
)

// VCard converts a contact into a vCard. Marker attributes become X-
// properties and category, when set, is written as CATEGORIES.
func VCard(c contacts.Contact, category string) vcard.Card {
	card := make(vcard.Card)

	if c.Name != nil {
		card.SetName(&vcard.Name{
			GivenName:  c.Name.Given,
			FamilyName: c.Name.Family,
		})
		card.SetValue(vcard.FieldFormattedName, c.Name.Full)
	}
	if _, ok := card[vcard.FieldFormattedName]; !ok && len(c.Emails) > 0 {
		card.SetValue(vcard.FieldFormattedName, c.Emails[0].Address)
	}
	for _, e := range c.Emails {
		params := vcard.Params{}
		if e.Rel != "" {
			params.Set(vcard.ParamType, e.Rel)
		}
		if e.Primary {
			params.Set(vcard.ParamPreferred, "1")
		}
		card.Add(vcard.FieldEmail, &vcard.Field{Value: e.Address, Params: params})
	}
	if c.Note != "" {
		card.SetValue(vcard.FieldNote, c.Note)
	}
	if c.ID != "" {
		card.SetValue(vcard.FieldUID, c.ID)
	}
	if category != "" {
		card.SetValue(vcard.FieldCategories, category)
	}
	for _, a := range c.Attributes {
		card.Add(propertyName(a.Name), &vcard.Field{Value: a.Value})
	}

	vcard.ToV4(card)
	return card
}

// Write encodes the contacts as a stream of vCards.
func Write(w io.Writer, list []contacts.Contact, category string) error {
	enc := vcard.NewEncoder(w)
	for _, c := range list {
		if err := enc.Encode(VCard(c, category)); err != nil {
			return errors.WrapIO("write", "vcard", err)
		}
	}
	return nil
}

// propertyName turns an attribute name into an extension property name.
func propertyName(name string) string {
	var b strings.Builder
	b.WriteString("X-")
	for _, r := range name {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(unicode.ToUpper(r))
		} else {
			b.WriteByte('-')
		}
	}
	return b.String()
}
