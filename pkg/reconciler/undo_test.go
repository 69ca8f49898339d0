package reconciler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/contactsync/pkg/contacts"
	"github.com/agentstation/contactsync/pkg/errors"
)

type staticOptOut []string

func (s staticOptOut) OptedOut(context.Context) ([]string, error) {
	return s, nil
}

type failingOptOut struct{ err error }

func (f failingOptOut) OptedOut(context.Context) ([]string, error) {
	return nil, f.err
}

func TestUndoRemovesEverythingManaged(t *testing.T) {
	f := newFixture(t, []contacts.Resource{roomA, roomB}, alice)
	f.run(t)

	svc := f.sessions.For(alice.PrimaryEmail)
	group := managedGroups(svc)[0]
	own := svc.Seed(contacts.Contact{
		Name:   &contacts.Name{Full: "Friend"},
		Emails: []contacts.Email{{Address: "friend@example.com"}},
		Groups: []string{group.ID},
	})
	// Managed but outside the group.
	svc.Seed(contacts.Contact{
		Name:       &contacts.Name{Full: "Stray"},
		Attributes: contacts.Attributes{contactMarker()},
	})

	// Undo needs no resources.
	f.dir.SetResources(nil)
	result := f.run(t, WithUndo(true))
	require.Len(t, result.Users, 1)
	assert.Equal(t, ModeUndo, result.Mode)

	ur := result.Users[0]
	assert.Equal(t, 3, ur.Deleted)
	assert.True(t, ur.GroupDeleted)
	assert.Empty(t, managedGroups(svc))

	stored := svc.Snapshot()
	require.Len(t, stored, 1)
	assert.Equal(t, own.ID, stored[0].ID)
	assert.Empty(t, stored[0].Groups)
}

func TestUndoUsesGroupPassWhenFullListingFails(t *testing.T) {
	f := newFixture(t, []contacts.Resource{roomA, roomB}, alice)
	f.run(t)

	svc := f.sessions.For(alice.PrimaryEmail)
	svc.AllContactsErr = errors.NewAPIError("memory", 500, "boom")

	r, err := New(WithUndo(true))
	require.NoError(t, err)
	ur := r.UndoUser(f.ctx, svc, alice.PrimaryEmail)

	assert.Equal(t, 2, ur.Deleted)
	assert.Equal(t, 1, ur.Failed)
	assert.True(t, ur.GroupDeleted)
	assert.Empty(t, svc.Snapshot())
}

func TestUndoDeletesGroupDespiteContactFailures(t *testing.T) {
	f := newFixture(t, []contacts.Resource{roomA}, alice)
	f.run(t)

	svc := f.sessions.For(alice.PrimaryEmail)
	svc.DeleteErr = errors.NewAPIError("memory", 500, "boom")

	r, err := New(WithUndo(true))
	require.NoError(t, err)
	ur := r.UndoUser(f.ctx, svc, alice.PrimaryEmail)

	assert.Equal(t, 0, ur.Deleted)
	assert.Equal(t, 2, ur.Failed, "once from the full listing, once from the group pass")
	assert.True(t, ur.GroupDeleted)
}

func TestUndoWithoutGroup(t *testing.T) {
	f := newFixture(t, nil, alice)
	svc := f.sessions.For(alice.PrimaryEmail)

	r, err := New(WithUndo(true))
	require.NoError(t, err)
	ur := r.UndoUser(f.ctx, svc, alice.PrimaryEmail)

	assert.False(t, ur.Aborted)
	assert.False(t, ur.GroupDeleted)
	assert.Equal(t, 0, svc.Calls().Mutations())
}

func TestUndoHonorsOptOut(t *testing.T) {
	f := newFixture(t, []contacts.Resource{roomA}, alice, bob)
	f.run(t)

	result := f.run(t, WithUndo(true), WithOptOut(staticOptOut{"Alice@Example.com"}))
	require.Len(t, result.Users, 1)
	assert.Equal(t, bob.PrimaryEmail, result.Users[0].User)

	assert.Len(t, managedGroups(f.sessions.For(alice.PrimaryEmail)), 1)
	assert.Empty(t, managedGroups(f.sessions.For(bob.PrimaryEmail)))
}

func TestUndoFailsWhenOptOutUnreadable(t *testing.T) {
	f := newFixture(t, nil, alice)
	optOutErr := &errors.OptOutFormatError{Message: "missing settings"}

	r, err := New(WithUndo(true), WithOptOut(failingOptOut{err: optOutErr}))
	require.NoError(t, err)
	_, err = r.Run(f.ctx, f.dir, f.dir, f.sessions)
	assert.ErrorIs(t, err, errors.ErrOptOutFormat)
	assert.Equal(t, 0, f.sessions.For(alice.PrimaryEmail).Calls().Groups)
}
