// Package config loads the contactsync configuration surface from viper
// (flags, CONTACTSYNC_* environment, .env files, config file) into an
// explicit reconciler.Options value.
package config

import (
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/agentstation/contactsync/internal/optout"
	"github.com/agentstation/contactsync/pkg/constants"
	"github.com/agentstation/contactsync/pkg/contacts"
	"github.com/agentstation/contactsync/pkg/errors"
	"github.com/agentstation/contactsync/pkg/reconciler"
)

// EnvPrefix is the prefix of environment variables read by viper.
const EnvPrefix = "CONTACTSYNC"

// Keys of the configuration surface.
const (
	KeySelectPattern        = "select_pattern"
	KeyUserPattern          = "user_pattern"
	KeyDomain               = "domain"
	KeyCustomer             = "customer"
	KeyGroup                = "group"
	KeyGroupPropertyName    = "group_extended_property_name"
	KeyGroupPropertyValue   = "group_extended_property_value"
	KeyContactPropertyName  = "contact_extended_property_name"
	KeyContactPropertyValue = "contact_extended_property_value"
	KeyFamilyName           = "family_name"
	KeyWorkRel              = "work_rel"
	KeyMyContacts           = "my_contacts"
	KeyMyContactsID         = "my_contacts_id"
	KeyBatchMax             = "batch_max"
	KeyMaxContacts          = "max_contacts"
	KeyMaxResources         = "max_resources"
	KeyMaxUsers             = "max_users"
	KeyDeleteOld            = "delete_old"
	KeyUndo                 = "undo"
	KeyOptOutURI            = "optout_uri"
	KeyOptOutToken          = "optout_token"
	KeyCredentialsFile      = "credentials_file"
	KeyAdminSubject         = "admin_subject"
	KeySource               = "source"
	KeyResourcesFile        = "resources_file"
	KeyUsersFile            = "users_file"
	KeyRequestsPerSecond    = "requests_per_second"
)

// Settings is the reconciliation configuration as read from viper.
type Settings struct {
	SelectPattern string `mapstructure:"select_pattern" validate:"required"`
	UserPattern   string `mapstructure:"user_pattern" validate:"required"`
	Domain        string `mapstructure:"domain" validate:"required_if=Source google"`
	Customer      string `mapstructure:"customer"`

	Group                string `mapstructure:"group" validate:"required"`
	GroupPropertyName    string `mapstructure:"group_extended_property_name" validate:"required"`
	GroupPropertyValue   string `mapstructure:"group_extended_property_value" validate:"required"`
	ContactPropertyName  string `mapstructure:"contact_extended_property_name" validate:"required"`
	ContactPropertyValue string `mapstructure:"contact_extended_property_value" validate:"required"`
	FamilyName           string `mapstructure:"family_name"`
	WorkRel              string `mapstructure:"work_rel" validate:"required"`
	MyContacts           bool   `mapstructure:"my_contacts"`
	MyContactsID         string `mapstructure:"my_contacts_id" validate:"required_if=MyContacts true"`

	BatchMax     int `mapstructure:"batch_max" validate:"min=1"`
	MaxContacts  int `mapstructure:"max_contacts" validate:"min=1"`
	MaxResources int `mapstructure:"max_resources" validate:"min=1"`
	MaxUsers     int `mapstructure:"max_users" validate:"min=1"`

	DeleteOld   bool   `mapstructure:"delete_old"`
	Undo        bool   `mapstructure:"undo"`
	OptOutURI   string `mapstructure:"optout_uri"`
	OptOutToken string `mapstructure:"optout_token"`

	Source            string  `mapstructure:"source" validate:"oneof=google file"`
	CredentialsFile   string  `mapstructure:"credentials_file" validate:"required_if=Source google"`
	AdminSubject      string  `mapstructure:"admin_subject" validate:"required_if=Source google"`
	ResourcesFile     string  `mapstructure:"resources_file"`
	UsersFile         string  `mapstructure:"users_file"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"gte=0"`
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeySelectPattern, constants.DefaultSelectPattern)
	v.SetDefault(KeyUserPattern, constants.DefaultUserPattern)
	v.SetDefault(KeyDomain, "")
	v.SetDefault(KeyCustomer, constants.DefaultCustomer)
	v.SetDefault(KeyGroup, constants.DefaultGroupTitle)
	v.SetDefault(KeyGroupPropertyName, constants.DefaultGroupPropertyName)
	v.SetDefault(KeyGroupPropertyValue, constants.DefaultGroupPropertyValue)
	v.SetDefault(KeyContactPropertyName, constants.DefaultContactPropName)
	v.SetDefault(KeyContactPropertyValue, constants.DefaultContactPropValue)
	v.SetDefault(KeyFamilyName, constants.DefaultFamilyName)
	v.SetDefault(KeyWorkRel, constants.DefaultWorkRel)
	v.SetDefault(KeyMyContacts, false)
	v.SetDefault(KeyMyContactsID, constants.DefaultMyContactsID)
	v.SetDefault(KeyBatchMax, constants.DefaultBatchMax)
	v.SetDefault(KeyMaxContacts, constants.DefaultMaxContacts)
	v.SetDefault(KeyMaxResources, constants.DefaultMaxResources)
	v.SetDefault(KeyMaxUsers, constants.DefaultMaxUsers)
	v.SetDefault(KeyDeleteOld, false)
	v.SetDefault(KeyUndo, false)
	v.SetDefault(KeyOptOutURI, "")
	v.SetDefault(KeyOptOutToken, "")
	v.SetDefault(KeySource, constants.SourceGoogle)
	v.SetDefault(KeyCredentialsFile, "")
	v.SetDefault(KeyAdminSubject, "")
	v.SetDefault(KeyResourcesFile, "")
	v.SetDefault(KeyUsersFile, "")
	v.SetDefault(KeyRequestsPerSecond, 0)
}

// Load reads and validates the settings held by v. Defaults are
// registered first, so v may be empty.
func Load(v *viper.Viper) (*Settings, error) {
	SetDefaults(v)

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, errors.NewConfigError("config", "could not decode settings", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the struct tags and reports the first failing field as
// an errors.ValidationError keyed by its configuration name.
func (s *Settings) Validate() error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return errors.WrapValidation("", err)
	}
	fe := fieldErrs[0]
	return errors.NewValidationError(keyOf(fe.StructField()), fe.Value(), describe(fe))
}

// Options converts the settings into reconciler options.
func (s *Settings) Options() reconciler.Options {
	opts := reconciler.Options{
		SelectPattern: s.SelectPattern,
		UserPattern:   s.UserPattern,
		Domain:        s.Domain,
		MaxResources:  s.MaxResources,
		MaxUsers:      s.MaxUsers,
		GroupTitle:    s.Group,
		GroupMarker:   contacts.Attribute{Name: s.GroupPropertyName, Value: s.GroupPropertyValue},
		ContactMarker: contacts.Attribute{Name: s.ContactPropertyName, Value: s.ContactPropertyValue},
		FamilyName:    s.FamilyName,
		WorkRel:       s.WorkRel,
		MyContacts:    s.MyContacts,
		MyContactsID:  s.MyContactsID,
		BatchMax:      s.BatchMax,
		MaxContacts:   s.MaxContacts,
		DeleteOld:     s.DeleteOld,
		Undo:          s.Undo,
		OptOut:        reconciler.NoOptOut{},
	}
	if s.Undo && s.OptOutURI != "" {
		opts.OptOut = optout.New(s.OptOutURI, optout.WithToken(s.OptOutToken))
	}
	return opts
}
