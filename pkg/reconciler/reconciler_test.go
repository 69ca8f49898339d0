package reconciler

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/contactsync/internal/providers/memory"
	"github.com/agentstation/contactsync/pkg/contacts"
	"github.com/agentstation/contactsync/pkg/errors"
)

func TestRunInsertsResourcesIntoManagedGroup(t *testing.T) {
	f := newFixture(t, []contacts.Resource{roomA, roomB, {Email: "printer@example.com", Name: "Printer"}}, alice, bob)

	result := f.run(t, WithSelectPattern("*@resource.example.com"))
	assert.Equal(t, ModeReconcile, result.Mode)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 2, result.Resources)
	require.Len(t, result.Users, 2)

	for _, user := range []string{alice.PrimaryEmail, bob.PrimaryEmail} {
		svc := f.sessions.For(user)
		groups := managedGroups(svc)
		require.Len(t, groups, 1)
		assert.Equal(t, "Resources", groups[0].Title)

		stored := svc.Snapshot()
		require.Len(t, stored, 2)
		for _, c := range stored {
			assert.True(t, c.InGroup(groups[0].ID))
			assert.False(t, c.InGroup(myContacts.ID))
			assert.True(t, c.Attributes.Has(contactMarker().Name, contactMarker().Value))
			assert.Equal(t, "(Resource)", c.Name.Family)
		}
	}

	ur := result.Users[0]
	assert.True(t, ur.GroupCreated)
	assert.Equal(t, 2, ur.Inserted)
	assert.Equal(t, 0, ur.Failed)
	assert.Equal(t, 1, ur.Batch.Batches)
	assert.Equal(t, Totals{Users: 2, Inserted: 4}, result.Totals())
	assert.False(t, result.HasFailures())
	assert.Contains(t, result.Summary(), "4 inserted")
}

func TestRunIsIdempotent(t *testing.T) {
	f := newFixture(t, []contacts.Resource{roomA, roomB, roomC}, alice)
	f.run(t, WithDeleteOld(true))

	svc := f.sessions.For(alice.PrimaryEmail)
	before := svc.Snapshot()
	svc.ResetCalls()

	result := f.run(t, WithDeleteOld(true))
	assert.Equal(t, 0, svc.Calls().Mutations())
	assert.Equal(t, before, svc.Snapshot())
	assert.Equal(t, 0, result.Users[0].Changes())
}

func TestRunKeepsSingleManagedGroup(t *testing.T) {
	f := newFixture(t, []contacts.Resource{roomA}, alice)
	f.run(t)
	f.run(t)
	f.run(t, WithGroup("Renamed", groupMarker()))

	svc := f.sessions.For(alice.PrimaryEmail)
	assert.Len(t, managedGroups(svc), 1)
	assert.Equal(t, 1, svc.Calls().CreateGroup)
}

func TestRunFindsGroupByMarkerOnly(t *testing.T) {
	f := newFixture(t, []contacts.Resource{roomA}, alice)
	svc := f.sessions.For(alice.PrimaryEmail)
	decoy := svc.SeedGroup(contacts.Group{Title: "Resources"})
	renamed := svc.SeedGroup(contacts.Group{Title: "Rooms", Attributes: contacts.Attributes{groupMarker()}})

	result := f.run(t)
	assert.Equal(t, renamed.ID, result.Users[0].GroupID)
	assert.False(t, result.Users[0].GroupCreated)

	c, ok := byEmail(svc.Snapshot(), roomA.Email)
	require.True(t, ok)
	assert.True(t, c.InGroup(renamed.ID))
	assert.False(t, c.InGroup(decoy.ID))
}

func TestRunNeverTouchesUnmarkedContacts(t *testing.T) {
	f := newFixture(t, []contacts.Resource{roomA}, alice)
	svc := f.sessions.For(alice.PrimaryEmail)
	group := svc.SeedGroup(contacts.Group{Title: "Resources", Attributes: contacts.Attributes{groupMarker()}})

	// Same email as a resource, but hand-made.
	handMade := svc.Seed(contacts.Contact{
		Name:   &contacts.Name{Full: "My own Room A"},
		Emails: []contacts.Email{{Address: roomA.Email, Primary: true, Rel: "work"}},
		Groups: []string{group.ID},
	})
	// Orphan email, hand-made.
	stranger := svc.Seed(contacts.Contact{
		Name:   &contacts.Name{Full: "Gone"},
		Emails: []contacts.Email{{Address: "gone@resource.example.com"}},
		Groups: []string{group.ID},
	})

	f.run(t, WithDeleteOld(true))

	stored := svc.Snapshot()
	require.Len(t, stored, 2, "represented resources are not inserted again")
	assert.Equal(t, handMade, stored[0])
	assert.Equal(t, stranger, stored[1])
	assert.Equal(t, 0, svc.Calls().Update)
	assert.Equal(t, 0, svc.Calls().Delete)
}

func TestRunSyncsManagedContacts(t *testing.T) {
	f := newFixture(t, []contacts.Resource{roomA, roomC}, alice)
	svc := f.sessions.For(alice.PrimaryEmail)
	group := svc.SeedGroup(contacts.Group{Title: "Resources", Attributes: contacts.Attributes{groupMarker()}})

	stale := svc.Seed(contacts.Contact{
		Name:       &contacts.Name{Given: "Old", Family: "Old", Full: "Old"},
		Note:       "old",
		Emails:     []contacts.Email{{Address: "Room-A@Resource.Example.com", Primary: true, Rel: "work"}},
		Groups:     []string{group.ID},
		Attributes: contacts.Attributes{contactMarker()},
	})
	keptNote := svc.Seed(contacts.Contact{
		Name:       &contacts.Name{Given: "Room C", Family: "(Resource)", Full: "Room C"},
		Note:       "hand-written",
		Emails:     []contacts.Email{{Address: roomC.Email, Primary: true, Rel: "work"}},
		Groups:     []string{group.ID},
		Attributes: contacts.Attributes{contactMarker()},
	})

	result := f.run(t)
	assert.Equal(t, 1, result.Users[0].Updated)
	assert.Equal(t, 0, result.Users[0].Inserted)

	got, ok := byEmail(svc.Snapshot(), roomA.Email)
	require.True(t, ok)
	assert.Equal(t, stale.ID, got.ID)
	assert.Equal(t, contacts.Name{Given: "Room A", Family: "(Resource)", Full: "Room A"}, *got.Name)
	assert.Equal(t, "4th floor", got.Note)
	assert.Equal(t, stale.Emails, got.Emails)
	assert.Equal(t, stale.Attributes, got.Attributes)

	got, ok = byEmail(svc.Snapshot(), roomC.Email)
	require.True(t, ok)
	assert.Equal(t, keptNote.Note, got.Note)
}

func TestRunOrphanDeletionIsGated(t *testing.T) {
	seed := func(f *fixture) (*memory.Service, contacts.Contact) {
		svc := f.sessions.For(alice.PrimaryEmail)
		group := svc.SeedGroup(contacts.Group{Title: "Resources", Attributes: contacts.Attributes{groupMarker()}})
		orphan := svc.Seed(contacts.Contact{
			Name:       &contacts.Name{Full: "Demolished"},
			Emails:     []contacts.Email{{Address: "demolished@resource.example.com", Primary: true, Rel: "work"}},
			Groups:     []string{group.ID},
			Attributes: contacts.Attributes{contactMarker()},
		})
		return svc, orphan
	}

	t.Run("kept by default", func(t *testing.T) {
		f := newFixture(t, []contacts.Resource{roomA}, alice)
		svc, orphan := seed(f)
		result := f.run(t)
		_, ok := byEmail(svc.Snapshot(), orphan.Emails[0].Address)
		assert.True(t, ok)
		assert.Equal(t, 1, result.Users[0].Unmatched)
		assert.Equal(t, 0, svc.Calls().Delete)
	})

	t.Run("deleted when enabled", func(t *testing.T) {
		f := newFixture(t, []contacts.Resource{roomA}, alice)
		svc, orphan := seed(f)
		result := f.run(t, WithDeleteOld(true))
		_, ok := byEmail(svc.Snapshot(), orphan.Emails[0].Address)
		assert.False(t, ok)
		assert.Equal(t, 1, result.Users[0].Deleted)
		assert.True(t, f.log.Contains("Demolished"))
	})
}

func TestRunBatchesInserts(t *testing.T) {
	resources := []contacts.Resource{
		{Email: "r1@resource.example.com", Name: "R1"},
		{Email: "r2@resource.example.com", Name: "R2"},
		{Email: "r3@resource.example.com", Name: "R3"},
		{Email: "r4@resource.example.com", Name: "R4"},
		{Email: "R1@resource.example.com", Name: "R1 again"},
		{Email: "r5@resource.example.com", Name: "R5"},
	}
	f := newFixture(t, resources, alice)
	result := f.run(t, WithBatchMax(3))

	svc := f.sessions.For(alice.PrimaryEmail)
	batches := svc.Batches()
	require.Len(t, batches, 2)
	assert.Len(t, batches[0], 3)
	assert.Len(t, batches[1], 2)
	assert.Equal(t, 5, result.Users[0].Inserted)
	assert.Len(t, svc.Snapshot(), 5)
}

func TestRunAddsToMyContacts(t *testing.T) {
	f := newFixture(t, []contacts.Resource{roomA}, alice)
	f.run(t, WithMyContacts(true, ""))

	stored := f.sessions.For(alice.PrimaryEmail).Snapshot()
	require.Len(t, stored, 1)
	assert.True(t, stored[0].InGroup(myContacts.ID))
}

func TestRunRecordsBatchItemFailures(t *testing.T) {
	f := newFixture(t, []contacts.Resource{roomA, roomB}, alice)
	svc := f.sessions.For(alice.PrimaryEmail)
	svc.BatchStatusFunc = func(op contacts.Operation) (string, string) {
		if op.Contact.DisplayName() == "Room A" {
			return "500", "Backend Error"
		}
		return "", ""
	}

	result := f.run(t)
	ur := result.Users[0]
	assert.Equal(t, 1, ur.Inserted)
	assert.Equal(t, 1, ur.Failed)
	assert.True(t, result.HasFailures())
	require.Len(t, result.Errors(), 1)
	assert.ErrorIs(t, result.Errors()[0], errors.ErrBatchItem)
	assert.Len(t, f.log.LinesAt(zerolog.WarnLevel), 1)
}

func TestRunGroupDiscoveryFailureSkipsOnlyThatUser(t *testing.T) {
	f := newFixture(t, []contacts.Resource{roomA}, alice, bob)
	broken := f.sessions.For(alice.PrimaryEmail)
	broken.CreateGroupErr = errors.NewAPIError("memory", 403, "forbidden")

	result := f.run(t)
	require.Len(t, result.Users, 2)

	assert.True(t, result.Users[0].Aborted)
	require.Len(t, result.Users[0].Errors, 1)
	assert.ErrorIs(t, result.Users[0].Errors[0], errors.ErrGroupDiscovery)
	assert.Equal(t, 0, broken.Calls().ExecuteBatch)
	assert.Empty(t, broken.Snapshot())

	assert.False(t, result.Users[1].Aborted)
	assert.Equal(t, 1, result.Users[1].Inserted)
}

func TestRunSessionFailureSkipsUser(t *testing.T) {
	f := newFixture(t, []contacts.Resource{roomA}, alice, bob)
	f.sessions.Deny = map[string]error{alice.PrimaryEmail: nil}

	result := f.run(t)
	require.Len(t, result.Users, 2)
	assert.True(t, result.Users[0].Aborted)
	assert.Equal(t, 1, result.Users[1].Inserted)
}

func TestRunNothingToDo(t *testing.T) {
	t.Run("no resources", func(t *testing.T) {
		f := newFixture(t, []contacts.Resource{roomA}, alice)
		r, err := New(WithSelectPattern("nothing@*"))
		require.NoError(t, err)

		_, err = r.Run(f.ctx, f.dir, f.dir, f.sessions)
		assert.True(t, errors.IsNothingToDo(err))
		assert.Equal(t, 0, f.sessions.For(alice.PrimaryEmail).Calls().Groups)
	})

	t.Run("no users", func(t *testing.T) {
		f := newFixture(t, []contacts.Resource{roomA}, alice)
		r, err := New(WithUserPattern("nobody@*"))
		require.NoError(t, err)

		_, err = r.Run(f.ctx, f.dir, f.dir, f.sessions)
		assert.True(t, errors.IsNothingToDo(err))
	})
}

func TestRunDirectoryFailure(t *testing.T) {
	f := newFixture(t, []contacts.Resource{roomA}, alice)
	f.dir.Err = errors.NewAPIError("memory", 503, "unavailable")
	r, err := New()
	require.NoError(t, err)

	_, err = r.Run(f.ctx, f.dir, f.dir, f.sessions)
	assert.True(t, errors.IsProviderUnavailable(err))
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	f := newFixture(t, []contacts.Resource{roomA}, alice)
	ctx, cancel := context.WithCancel(f.ctx)
	cancel()

	r, err := New()
	require.NoError(t, err)
	_, err = r.Run(ctx, f.dir, f.dir, f.sessions)
	assert.ErrorIs(t, err, context.Canceled)
}
