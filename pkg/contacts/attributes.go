package contacts

// Attribute is an extended (name, value) property attached to a contact or
// a group. The reconciler uses one of them as an ownership marker.
type Attribute struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Attributes is an ordered list of extended properties.
type Attributes []Attribute

// Has reports whether an attribute with exactly this name and value exists.
func (a Attributes) Has(name, value string) bool {
	for _, attr := range a {
		if attr.Name == name && attr.Value == value {
			return true
		}
	}
	return false
}

// Get returns the value of the first attribute with the given name.
func (a Attributes) Get(name string) (string, bool) {
	for _, attr := range a {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}

// Set replaces the value of the first attribute with the given name,
// appending a new attribute when none exists.
func (a Attributes) Set(name, value string) Attributes {
	for i := range a {
		if a[i].Name == name {
			a[i].Value = value
			return a
		}
	}
	return append(a, Attribute{Name: name, Value: value})
}

// Clone returns an independent copy.
func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	out := make(Attributes, len(a))
	copy(out, a)
	return out
}
