package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/contactsync/internal/optout"
	"github.com/agentstation/contactsync/pkg/constants"
	"github.com/agentstation/contactsync/pkg/errors"
	"github.com/agentstation/contactsync/pkg/reconciler"
)

func fileSource() *viper.Viper {
	v := viper.New()
	v.Set(KeySource, constants.SourceFile)
	v.Set(KeyUsersFile, "users.yaml")
	return v
}

func TestLoadDefaults(t *testing.T) {
	s, err := Load(fileSource())
	require.NoError(t, err)

	opts := s.Options()
	assert.Equal(t, constants.DefaultSelectPattern, opts.SelectPattern)
	assert.Equal(t, constants.DefaultBatchMax, opts.BatchMax)
	assert.Equal(t, constants.DefaultMaxContacts, opts.MaxContacts)
	assert.Equal(t, constants.DefaultGroupTitle, opts.GroupTitle)
	assert.Equal(t, constants.DefaultContactPropName, opts.ContactMarker.Name)
	assert.Equal(t, constants.DefaultCustomer, s.Customer)
	assert.IsType(t, reconciler.NoOptOut{}, opts.OptOut)
	require.NoError(t, opts.Validate())
}

func TestLoadOverrides(t *testing.T) {
	v := fileSource()
	v.Set(KeySelectPattern, "*@resource.example.com")
	v.Set(KeyBatchMax, 3)
	v.Set(KeyDeleteOld, true)
	v.Set(KeyMyContacts, true)
	v.Set(KeyFamilyName, "(Room)")

	s, err := Load(v)
	require.NoError(t, err)
	opts := s.Options()
	assert.Equal(t, "*@resource.example.com", opts.SelectPattern)
	assert.Equal(t, 3, opts.BatchMax)
	assert.True(t, opts.DeleteOld)
	assert.True(t, opts.MyContacts)
	assert.Equal(t, "(Room)", opts.FamilyName)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("CONTACTSYNC_BATCH_MAX", "7")
	t.Setenv("CONTACTSYNC_USER_PATTERN", "*@example.com")

	v := fileSource()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	s, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 7, s.BatchMax)
	assert.Equal(t, "*@example.com", s.UserPattern)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name  string
		set   map[string]any
		field string
	}{
		{"batch max", map[string]any{KeyBatchMax: 0}, KeyBatchMax},
		{"max contacts", map[string]any{KeyMaxContacts: -1}, KeyMaxContacts},
		{"marker", map[string]any{KeyContactPropertyValue: ""}, KeyContactPropertyValue},
		{"source", map[string]any{KeySource: "ldap"}, KeySource},
		{"google domain", map[string]any{KeySource: constants.SourceGoogle}, KeyDomain},
		{"rps", map[string]any{KeyRequestsPerSecond: -1}, KeyRequestsPerSecond},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := fileSource()
			for k, val := range tt.set {
				v.Set(k, val)
			}
			_, err := Load(v)
			require.Error(t, err)
			var verr *errors.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestOptOutOnlyInUndo(t *testing.T) {
	v := fileSource()
	v.Set(KeyOptOutURI, "https://intranet.example.com/optout.json")

	s, err := Load(v)
	require.NoError(t, err)
	assert.IsType(t, reconciler.NoOptOut{}, s.Options().OptOut)

	s.Undo = true
	doc, ok := s.Options().OptOut.(*optout.Document)
	require.True(t, ok)
	assert.Equal(t, "https://intranet.example.com/optout.json", doc.URI())
}
