package contacts

// Name is the structured display name of a contact.
type Name struct {
	Given  string `json:"given,omitempty" yaml:"given,omitempty"`
	Family string `json:"family,omitempty" yaml:"family,omitempty"`
	Full   string `json:"full,omitempty" yaml:"full,omitempty"`
}

// Email is one address of a contact.
type Email struct {
	Address string `json:"address" yaml:"address"`
	Primary bool   `json:"primary,omitempty" yaml:"primary,omitempty"`
	Rel     string `json:"rel,omitempty" yaml:"rel,omitempty"`
}

// Contact is a provider-side contact record.
//
// ID and ETag are assigned by the provider; a Contact built locally has
// neither until it has been inserted.
type Contact struct {
	ID         string     `json:"id,omitempty" yaml:"id,omitempty"`
	ETag       string     `json:"etag,omitempty" yaml:"etag,omitempty"`
	Name       *Name      `json:"name,omitempty" yaml:"name,omitempty"`
	Note       string     `json:"note,omitempty" yaml:"note,omitempty"`
	Emails     []Email    `json:"emails,omitempty" yaml:"emails,omitempty"`
	Groups     []string   `json:"groups,omitempty" yaml:"groups,omitempty"`
	Attributes Attributes `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// DisplayName returns the full name, or "" when the contact has none.
func (c *Contact) DisplayName() string {
	if c == nil || c.Name == nil {
		return ""
	}
	return c.Name.Full
}

// InGroup reports whether the contact is a member of the group.
func (c *Contact) InGroup(groupID string) bool {
	for _, g := range c.Groups {
		if g == groupID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the contact.
func (c Contact) Clone() Contact {
	out := c
	if c.Name != nil {
		name := *c.Name
		out.Name = &name
	}
	if c.Emails != nil {
		out.Emails = make([]Email, len(c.Emails))
		copy(out.Emails, c.Emails)
	}
	if c.Groups != nil {
		out.Groups = make([]string, len(c.Groups))
		copy(out.Groups, c.Groups)
	}
	out.Attributes = c.Attributes.Clone()
	return out
}

// Group is a contact group. System groups are provider-defined and carry a
// well-known SystemID; user groups have none.
type Group struct {
	ID         string     `json:"id" yaml:"id"`
	Title      string     `json:"title" yaml:"title"`
	SystemID   string     `json:"system_id,omitempty" yaml:"system_id,omitempty"`
	Attributes Attributes `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// IsSystem reports whether the group is provider-defined.
func (g Group) IsSystem() bool {
	return g.SystemID != ""
}
