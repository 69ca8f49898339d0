package reconciler

import "github.com/agentstation/contactsync/pkg/contacts"

// Mapper turns directory resources into contact records and refreshes
// stored contacts from them.
type Mapper struct {
	FamilyName string
	WorkRel    string
	Marker     contacts.Attribute
}

// Map converts a resource into a new managed contact. Group membership is
// left to the caller.
func (m Mapper) Map(resource contacts.Resource) contacts.Contact {
	return contacts.Contact{
		Name: &contacts.Name{
			Given:  resource.Name,
			Family: m.FamilyName,
			Full:   resource.Name,
		},
		Note: resource.Description,
		Emails: []contacts.Email{{
			Address: resource.Email,
			Primary: true,
			Rel:     m.WorkRel,
		}},
		Attributes: contacts.Attributes{m.Marker},
	}
}

// Sync copies the descriptive fields of source into target and reports
// whether target changed. Only the note and the three name parts are
// synced; emails, groups and attributes are set at creation and never
// touched again. An empty source note leaves the stored note alone.
func (m Mapper) Sync(source contacts.Contact, target *contacts.Contact) bool {
	modified := false

	if source.Note != "" && target.Note != source.Note {
		target.Note = source.Note
		modified = true
	}

	if source.Name != nil {
		if target.Name == nil {
			target.Name = &contacts.Name{}
			modified = true
		}
		if target.Name.Given != source.Name.Given {
			target.Name.Given = source.Name.Given
			modified = true
		}
		if target.Name.Family != source.Name.Family {
			target.Name.Family = source.Name.Family
			modified = true
		}
		if target.Name.Full != source.Name.Full {
			target.Name.Full = source.Name.Full
			modified = true
		}
	}

	return modified
}
