package reconciler

import (
	"github.com/agentstation/contactsync/internal/matcher"
	"github.com/agentstation/contactsync/pkg/constants"
	"github.com/agentstation/contactsync/pkg/contacts"
	"github.com/agentstation/contactsync/pkg/errors"
)

// Options is the complete reconciliation configuration. It is built once
// (usually by internal/config) and handed to New; the reconciler never
// reads configuration from anywhere else.
type Options struct {
	// Selection
	SelectPattern string // glob on resource email
	UserPattern   string // glob on user primary email
	Domain        string // directory domain to enumerate
	MaxResources  int
	MaxUsers      int

	// Managed group identity
	GroupTitle  string
	GroupMarker contacts.Attribute

	// Managed contact shape
	ContactMarker contacts.Attribute
	FamilyName    string
	WorkRel       string
	MyContacts    bool
	MyContactsID  string

	// Batching and paging
	BatchMax    int
	MaxContacts int

	// Behavior
	DeleteOld bool
	Undo      bool

	// OptOut is consulted in undo mode only.
	OptOut OptOutPolicy
}

// Defaults returns the default reconciliation options.
func Defaults() *Options {
	return &Options{
		SelectPattern: constants.DefaultSelectPattern,
		UserPattern:   constants.DefaultUserPattern,
		MaxResources:  constants.DefaultMaxResources,
		MaxUsers:      constants.DefaultMaxUsers,
		GroupTitle:    constants.DefaultGroupTitle,
		GroupMarker: contacts.Attribute{
			Name:  constants.DefaultGroupPropertyName,
			Value: constants.DefaultGroupPropertyValue,
		},
		ContactMarker: contacts.Attribute{
			Name:  constants.DefaultContactPropName,
			Value: constants.DefaultContactPropValue,
		},
		FamilyName:   constants.DefaultFamilyName,
		WorkRel:      constants.DefaultWorkRel,
		MyContactsID: constants.DefaultMyContactsID,
		BatchMax:     constants.DefaultBatchMax,
		MaxContacts:  constants.DefaultMaxContacts,
		OptOut:       NoOptOut{},
	}
}

// Option is a function that configures Options. An option rejects a
// value it cannot accept with a ValidationError.
type Option func(*Options) error

// Apply applies the given options in order and stops at the first error.
func (o *Options) Apply(opts ...Option) (*Options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// Validate checks that the options describe a usable configuration.
func (o *Options) Validate() error {
	if err := checkPattern("select_pattern", o.SelectPattern); err != nil {
		return err
	}
	if err := checkPattern("user_pattern", o.UserPattern); err != nil {
		return err
	}
	if o.BatchMax < 1 {
		return errors.NewValidationError("batch_max", o.BatchMax, "must be at least 1")
	}
	if o.MaxContacts < 1 {
		return errors.NewValidationError("max_contacts", o.MaxContacts, "must be at least 1")
	}
	if o.GroupMarker.Name == "" || o.GroupMarker.Value == "" {
		return errors.NewValidationError("group_extended_property", o.GroupMarker, "name and value are required")
	}
	if o.ContactMarker.Name == "" || o.ContactMarker.Value == "" {
		return errors.NewValidationError("contact_extended_property", o.ContactMarker, "name and value are required")
	}
	if o.GroupMarker == o.ContactMarker {
		return errors.NewValidationError("contact_extended_property", o.ContactMarker, "must differ from the group marker")
	}
	if o.GroupTitle == "" {
		return errors.NewValidationError("group", o.GroupTitle, "must not be empty")
	}
	if o.MyContacts && o.MyContactsID == "" {
		return errors.NewValidationError("my_contacts_id", o.MyContactsID, "required when my_contacts is enabled")
	}
	return nil
}

// WithOptions replaces all options with a copy of opts. The copy is
// checked as a whole by Validate when the reconciler is built.
func WithOptions(opts Options) Option {
	return func(o *Options) error {
		*o = opts
		return nil
	}
}

// WithSelectPattern sets the resource email glob.
func WithSelectPattern(pattern string) Option {
	return func(o *Options) error {
		if err := checkPattern("select_pattern", pattern); err != nil {
			return err
		}
		o.SelectPattern = pattern
		return nil
	}
}

// WithUserPattern sets the user email glob.
func WithUserPattern(pattern string) Option {
	return func(o *Options) error {
		if err := checkPattern("user_pattern", pattern); err != nil {
			return err
		}
		o.UserPattern = pattern
		return nil
	}
}

// WithDomain sets the directory domain.
func WithDomain(domain string) Option {
	return func(o *Options) error {
		o.Domain = domain
		return nil
	}
}

// WithGroup sets the managed group title and marker.
func WithGroup(title string, marker contacts.Attribute) Option {
	return func(o *Options) error {
		if title == "" {
			return errors.NewValidationError("group", title, "must not be empty")
		}
		if marker.Name == "" || marker.Value == "" {
			return errors.NewValidationError("group_extended_property", marker, "name and value are required")
		}
		o.GroupTitle = title
		o.GroupMarker = marker
		return nil
	}
}

// WithContactMarker sets the managed contact marker.
func WithContactMarker(marker contacts.Attribute) Option {
	return func(o *Options) error {
		if marker.Name == "" || marker.Value == "" {
			return errors.NewValidationError("contact_extended_property", marker, "name and value are required")
		}
		o.ContactMarker = marker
		return nil
	}
}

// WithFamilyName sets the family name applied to every generated contact.
func WithFamilyName(name string) Option {
	return func(o *Options) error {
		o.FamilyName = name
		return nil
	}
}

// WithMyContacts makes new contacts also join the given system group.
// An empty systemID keeps the current one.
func WithMyContacts(enabled bool, systemID string) Option {
	return func(o *Options) error {
		o.MyContacts = enabled
		if systemID != "" {
			o.MyContactsID = systemID
		}
		return nil
	}
}

// WithBatchMax sets the flush threshold of the batch queue.
func WithBatchMax(n int) Option {
	return func(o *Options) error {
		if n < 1 {
			return errors.NewValidationError("batch_max", n, "must be at least 1")
		}
		o.BatchMax = n
		return nil
	}
}

// WithMaxContacts caps the number of group members read per user.
func WithMaxContacts(n int) Option {
	return func(o *Options) error {
		if n < 1 {
			return errors.NewValidationError("max_contacts", n, "must be at least 1")
		}
		o.MaxContacts = n
		return nil
	}
}

// WithDeleteOld enables deletion of orphaned managed contacts.
func WithDeleteOld(enabled bool) Option {
	return func(o *Options) error {
		o.DeleteOld = enabled
		return nil
	}
}

// WithUndo switches the run into undo mode.
func WithUndo(enabled bool) Option {
	return func(o *Options) error {
		o.Undo = enabled
		return nil
	}
}

// WithOptOut sets the opt-out policy used in undo mode. nil means none.
func WithOptOut(policy OptOutPolicy) Option {
	return func(o *Options) error {
		if policy == nil {
			policy = NoOptOut{}
		}
		o.OptOut = policy
		return nil
	}
}

func checkPattern(field, pattern string) error {
	if _, err := matcher.New(pattern); err != nil {
		return errors.NewValidationError(field, pattern, err.Error())
	}
	return nil
}
