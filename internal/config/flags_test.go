package config

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterFlags(t *testing.T) {
	fs := pflag.NewFlagSet("sync", pflag.ContinueOnError)
	RegisterFlags(fs, SyncFlags...)

	for _, key := range SyncFlags {
		assert.NotNil(t, fs.Lookup(FlagName(key)), key)
	}
	assert.Nil(t, fs.Lookup(FlagName(KeyOptOutURI)))

	f := fs.Lookup("batch-max")
	require.NotNil(t, f)
	assert.Equal(t, "100", f.DefValue)
	assert.NotNil(t, fs.ShorthandLookup("s"))
}

func TestBindFlagsOverridesConfig(t *testing.T) {
	fs := pflag.NewFlagSet("sync", pflag.ContinueOnError)
	RegisterFlags(fs, SyncFlags...)
	require.NoError(t, fs.Parse([]string{"--select", "room-*", "--batch-max=7", "--delete-old"}))

	v := fileSource()
	v.Set(KeyMaxUsers, 3)
	require.NoError(t, BindFlags(v, fs))

	s, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "room-*", s.SelectPattern)
	assert.Equal(t, 7, s.BatchMax)
	assert.True(t, s.DeleteOld)
	assert.Equal(t, 3, s.MaxUsers)
}

func TestUnchangedFlagsKeepDefaults(t *testing.T) {
	fs := pflag.NewFlagSet("undo", pflag.ContinueOnError)
	RegisterFlags(fs, UndoFlags...)
	require.NoError(t, fs.Parse(nil))

	v := fileSource()
	v.Set(KeyGroup, "Rooms")
	require.NoError(t, BindFlags(v, fs))

	s, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "Rooms", s.Group)
}

func TestFlagNameUnknownKey(t *testing.T) {
	assert.Empty(t, FlagName("nope"))
}
