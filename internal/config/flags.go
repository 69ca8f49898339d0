package config

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/agentstation/contactsync/pkg/constants"
)

type flagSpec struct {
	key   string
	name  string
	short string
	def   any
	usage string
}

var flagSpecs = []flagSpec{
	{KeySelectPattern, "select", "s", constants.DefaultSelectPattern, "glob matched against resource emails"},
	{KeyUserPattern, "users", "u", constants.DefaultUserPattern, "glob matched against user primary emails"},
	{KeyDomain, "domain", "d", "", "directory domain whose users are updated"},
	{KeyCustomer, "customer", "", constants.DefaultCustomer, "Admin SDK customer owning the calendar resources"},
	{KeyGroup, "group", "g", constants.DefaultGroupTitle, "title of the managed contact group"},
	{KeyFamilyName, "family-name", "", constants.DefaultFamilyName, "family name given to every managed contact"},
	{KeyMyContacts, "my-contacts", "", false, "also add managed contacts to My Contacts"},
	{KeyBatchMax, "batch-max", "", constants.DefaultBatchMax, "operations per batch request"},
	{KeyMaxContacts, "max-contacts", "", constants.DefaultMaxContacts, "maximum group members read per user"},
	{KeyMaxResources, "max-resources", "", constants.DefaultMaxResources, "maximum resources read from the directory"},
	{KeyMaxUsers, "max-users", "", constants.DefaultMaxUsers, "maximum users read from the directory"},
	{KeyDeleteOld, "delete-old", "", false, "delete managed contacts that no longer match a resource"},
	{KeyOptOutURI, "optout-uri", "", "", "opt-out document (file path or http(s) URL)"},
	{KeyOptOutToken, "optout-token", "", "", "bearer token sent when fetching the opt-out document"},
	{KeySource, "source", "", constants.SourceGoogle, "directory source: google or file"},
	{KeyCredentialsFile, "credentials", "", "", "service account key file"},
	{KeyAdminSubject, "admin", "", "", "administrator impersonated for directory reads"},
	{KeyResourcesFile, "resources-file", "", "", "YAML resources fixture (source=file)"},
	{KeyUsersFile, "users-file", "", "", "YAML users fixture (source=file)"},
	{KeyRequestsPerSecond, "rps", "", 0.0, "API requests per second per client (0 = unlimited)"},
}

// Flag sets per command.
var (
	// SyncFlags are the keys exposed as flags by the sync command.
	SyncFlags = []string{
		KeySelectPattern, KeyUserPattern, KeyDomain, KeyCustomer, KeyGroup, KeyFamilyName,
		KeyMyContacts, KeyBatchMax, KeyMaxContacts, KeyMaxResources, KeyMaxUsers, KeyDeleteOld,
		KeySource, KeyCredentialsFile, KeyAdminSubject, KeyResourcesFile, KeyUsersFile, KeyRequestsPerSecond,
	}

	// UndoFlags are the keys exposed as flags by the undo command.
	UndoFlags = []string{
		KeyUserPattern, KeyDomain, KeyGroup, KeyMaxContacts, KeyMaxUsers, KeyOptOutURI, KeyOptOutToken,
		KeySource, KeyCredentialsFile, KeyAdminSubject, KeyUsersFile, KeyRequestsPerSecond,
	}

	// PreviewFlags are the keys exposed as flags by the preview command.
	PreviewFlags = []string{
		KeySelectPattern, KeyCustomer, KeyFamilyName, KeyMaxResources,
		KeySource, KeyCredentialsFile, KeyAdminSubject, KeyResourcesFile, KeyRequestsPerSecond,
	}
)

// RegisterFlags defines one flag on fs for each of the given keys.
// Unknown keys are ignored.
func RegisterFlags(fs *pflag.FlagSet, keys ...string) {
	for _, key := range keys {
		spec, ok := lookupFlag(key)
		if !ok {
			continue
		}
		switch def := spec.def.(type) {
		case string:
			fs.StringP(spec.name, spec.short, def, spec.usage)
		case bool:
			fs.BoolP(spec.name, spec.short, def, spec.usage)
		case int:
			fs.IntP(spec.name, spec.short, def, spec.usage)
		case float64:
			fs.Float64P(spec.name, spec.short, def, spec.usage)
		}
	}
}

// BindFlags binds every registered flag present on fs to its key on v.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for _, spec := range flagSpecs {
		f := fs.Lookup(spec.name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(spec.key, f); err != nil {
			return err
		}
	}
	return nil
}

// FlagName returns the command-line name of key, or "" when key has none.
func FlagName(key string) string {
	spec, _ := lookupFlag(key)
	return spec.name
}

func lookupFlag(key string) (flagSpec, bool) {
	for _, spec := range flagSpecs {
		if spec.key == key {
			return spec, true
		}
	}
	return flagSpec{}, false
}
