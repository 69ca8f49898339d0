package reconciler

import (
	"context"

	"github.com/agentstation/contactsync/pkg/contacts"
	"github.com/agentstation/contactsync/pkg/errors"
	"github.com/agentstation/contactsync/pkg/logging"
)

// UndoUser removes every managed contact of the user and the managed
// group itself, one request at a time.
//
// Contacts are collected from the full contact listing first and then from
// the managed group's members, since the full listing may be truncated by
// provider limits while the group listing is authoritative for membership.
// A user without a managed group is not an error.
func (r *Reconciler) UndoUser(ctx context.Context, svc contacts.Service, user string) *UserResult {
	logger := logging.FromContext(ctx)
	ur := &UserResult{User: user}
	removed := make(map[string]struct{})

	remove := func(contact contacts.Contact) {
		if !r.classifier.IsManagedContact(&contact) {
			return
		}
		if _, done := removed[contact.ID]; done {
			return
		}
		logger.Info().
			Str("contact", contact.DisplayName()).
			Str("contact_id", contact.ID).
			Msg("Removing auto-generated contact")
		if err := svc.Delete(ctx, contact); err != nil {
			logger.Warn().Err(err).Str("contact_id", contact.ID).Msg("Contact delete failed")
			ur.addError(errors.WrapResource("delete", "contact", contact.ID, err))
			return
		}
		removed[contact.ID] = struct{}{}
		ur.Deleted++
	}

	all, err := svc.Contacts(ctx, contacts.Query{})
	if err != nil {
		logger.Warn().Err(err).Msg("Listing all contacts failed, relying on group members")
		ur.addError(errors.WrapResource("list", "contacts", user, err))
	}
	for _, contact := range all {
		remove(contact)
	}

	groups, err := svc.Groups(ctx)
	if err != nil {
		ur.Aborted = true
		ur.addError(errors.NewGroupDiscoveryError(user, r.opts.GroupTitle, err))
		logger.Error().Err(err).Msg("Listing groups failed")
		return ur
	}
	group, found := r.classifier.ManagedGroup(groups)
	if !found {
		logger.Debug().Msg("No managed group found")
		return ur
	}
	ur.GroupID = group.ID
	ur.GroupTitle = group.Title

	members, err := svc.Contacts(ctx, contacts.Query{GroupID: group.ID, MaxResults: r.opts.MaxContacts})
	if err != nil {
		logger.Warn().Err(err).Str("group_id", group.ID).Msg("Listing group members failed")
		ur.addError(errors.WrapResource("list", "group members", group.ID, err))
	}
	ur.Members = len(members)
	for _, member := range members {
		remove(member)
	}

	if err := svc.DeleteGroup(ctx, group); err != nil {
		logger.Warn().Err(err).Str("group_id", group.ID).Msg("Group delete failed")
		ur.addError(errors.WrapResource("delete", "group", group.ID, err))
		return ur
	}
	ur.GroupDeleted = true
	logger.Info().
		Str("group", group.Title).
		Str("group_id", group.ID).
		Msg("Removed auto-generated group")

	return ur
}
