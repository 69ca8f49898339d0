package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/contactsync/internal/appcontext"
	"github.com/agentstation/contactsync/internal/config"
	"github.com/agentstation/contactsync/internal/providers/memory"
	"github.com/agentstation/contactsync/pkg/constants"
	"github.com/agentstation/contactsync/pkg/contacts"
	"github.com/agentstation/contactsync/pkg/errors"
	"github.com/agentstation/contactsync/pkg/logging"
	"github.com/agentstation/contactsync/pkg/reconciler"
)

var rooms = []contacts.Resource{
	{Email: "room-a@resource.example.com", Name: "Room A"},
	{Email: "room-b@resource.example.com", Name: "Room B"},
}

type harness struct {
	app      *appcontext.Mock
	sessions *memory.Sessions
	log      *logging.TestLogger
}

func newHarness(t *testing.T, format string) *harness {
	t.Helper()
	v := viper.New()
	v.Set(config.KeySource, constants.SourceFile)
	v.Set(config.KeyUsersFile, "users.yaml")

	dir := memory.NewDirectory(rooms, []contacts.User{{PrimaryEmail: "alice@example.com"}})
	sessions := memory.NewSessions()
	tl := logging.NewTestLogger(t)
	return &harness{
		app: &appcontext.Mock{
			Viper:            v,
			BackendValue:     &appcontext.Backend{Resources: dir, Users: dir, Sessions: sessions, Rehearsal: true},
			LoggerFunc:       func() *zerolog.Logger { return tl.Logger },
			OutputFormatFunc: func() string { return format },
		},
		sessions: sessions,
		log:      tl,
	}
}

func syncFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("sync", pflag.ContinueOnError)
	config.RegisterFlags(fs, config.SyncFlags...)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestRunReconcileWritesReport(t *testing.T) {
	h := newHarness(t, "json")
	var out bytes.Buffer

	err := Run(context.Background(), h.app, syncFlags(t), reconciler.ModeReconcile, &out)
	require.NoError(t, err)

	var report struct {
		Mode  string `json:"mode"`
		Users []struct {
			User     string `json:"user"`
			Inserted int    `json:"inserted"`
		} `json:"users"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, "reconcile", report.Mode)
	require.Len(t, report.Users, 1)
	assert.Equal(t, 2, report.Users[0].Inserted)
	assert.Len(t, h.sessions.For("alice@example.com").Snapshot(), 2)
	assert.True(t, h.log.Contains("in-memory store"))
}

func TestRunUndoRemovesManagedRecords(t *testing.T) {
	h := newHarness(t, "json")
	require.NoError(t, Run(context.Background(), h.app, syncFlags(t), reconciler.ModeReconcile, &bytes.Buffer{}))

	var out bytes.Buffer
	require.NoError(t, Run(context.Background(), h.app, syncFlags(t), reconciler.ModeUndo, &out))

	assert.Contains(t, out.String(), `"undo"`)
	svc := h.sessions.For("alice@example.com")
	assert.Empty(t, svc.Snapshot())
	assert.Empty(t, svc.GroupSnapshot())
}

func TestRunNothingToDo(t *testing.T) {
	h := newHarness(t, "table")
	var out bytes.Buffer

	err := Run(context.Background(), h.app, syncFlags(t, "--select", "nothing-*"), reconciler.ModeReconcile, &out)
	require.NoError(t, err)
	assert.Empty(t, out.String())
	assert.True(t, h.log.Contains("Nothing to do"))
}

func TestRunRejectsUnknownFormat(t *testing.T) {
	h := newHarness(t, "xml")
	err := Run(context.Background(), h.app, syncFlags(t), reconciler.ModeReconcile, &bytes.Buffer{})
	assert.True(t, errors.IsValidationError(err))
}

func TestRunInvalidSettings(t *testing.T) {
	h := newHarness(t, "json")
	err := Run(context.Background(), h.app, syncFlags(t, "--batch-max", "0"), reconciler.ModeReconcile, &bytes.Buffer{})
	assert.True(t, errors.IsValidationError(err))
}
