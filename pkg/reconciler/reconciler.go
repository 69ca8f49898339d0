// Package reconciler mirrors a filtered set of directory resources into a
// managed contact group of every selected user.
//
// For each user the managed group is discovered by its marker attribute
// (and created when missing), resources not yet represented among the
// group members are inserted through a batch queue, managed members are
// refreshed from their resource, and managed members whose resource is
// gone are deleted when enabled. Contacts without the contact marker are
// never touched. Undo removes every managed contact and the managed group.
//
// Users are processed strictly one after another; a failure for one user
// is recorded in its UserResult and the run moves on.
package reconciler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agentstation/contactsync/pkg/contacts"
	"github.com/agentstation/contactsync/pkg/errors"
	"github.com/agentstation/contactsync/pkg/logging"
)

// Reconciler drives reconciliation and undo runs.
type Reconciler struct {
	opts       Options
	classifier Classifier
	mapper     Mapper
}

// New creates a Reconciler from the defaults and the given options.
func New(opts ...Option) (*Reconciler, error) {
	options, err := Defaults().Apply(opts...)
	if err != nil {
		return nil, err
	}
	if options.OptOut == nil {
		options.OptOut = NoOptOut{}
	}
	if err := options.Validate(); err != nil {
		return nil, err
	}

	return &Reconciler{
		opts: *options,
		classifier: Classifier{
			Contact: options.ContactMarker,
			Group:   options.GroupMarker,
		},
		mapper: Mapper{
			FamilyName: options.FamilyName,
			WorkRel:    options.WorkRel,
			Marker:     options.ContactMarker,
		},
	}, nil
}

// Options returns a copy of the effective options.
func (r *Reconciler) Options() Options {
	return r.opts
}

// Classifier returns the ownership classifier.
func (r *Reconciler) Classifier() Classifier {
	return r.classifier
}

// Mapper returns the resource to contact mapper.
func (r *Reconciler) Mapper() Mapper {
	return r.mapper
}

// Run performs a complete run: it lists and selects resources and users,
// then reconciles (or undoes) each user in turn.
//
// An empty selection returns errors.ErrNothingToDo together with a
// partial result; callers treat it as a clean exit.
func (r *Reconciler) Run(ctx context.Context, dir contacts.ResourceLister, users contacts.UserLister, sessions contacts.SessionFactory) (*Result, error) {
	start := time.Now()
	mode := ModeReconcile
	if r.opts.Undo {
		mode = ModeUndo
	}

	result := &Result{RunID: uuid.NewString(), Mode: mode}
	ctx = logging.WithRunID(ctx, result.RunID)
	ctx = logging.WithOperation(ctx, string(mode))
	logger := logging.FromContext(ctx)
	defer func() { result.Duration = time.Since(start) }()

	var resources []contacts.Resource
	if mode == ModeReconcile {
		all, err := dir.ListResources(ctx, r.opts.MaxResources)
		if err != nil {
			return result, errors.WrapResource("list", "resources", "", err)
		}
		resources = SelectResources(all, r.opts.SelectPattern)
		result.Resources = len(resources)
		if len(resources) == 0 {
			logger.Warn().Str("select_pattern", r.opts.SelectPattern).Msg("No resources matched, aborting")
			return result, fmt.Errorf("no resources matched %q: %w", r.opts.SelectPattern, errors.ErrNothingToDo)
		}
	}

	var optedOut []string
	if mode == ModeUndo {
		var err error
		optedOut, err = r.opts.OptOut.OptedOut(ctx)
		if err != nil {
			return result, err
		}
	}

	allUsers, err := users.ListUsers(ctx, r.opts.Domain, r.opts.MaxUsers)
	if err != nil {
		return result, errors.WrapResource("list", "users", r.opts.Domain, err)
	}
	targets := SelectUsers(allUsers, r.opts.UserPattern, optedOut)
	if len(targets) == 0 {
		logger.Warn().Str("user_pattern", r.opts.UserPattern).Msg("Zero target users found, aborting")
		return result, fmt.Errorf("no users matched %q: %w", r.opts.UserPattern, errors.ErrNothingToDo)
	}

	logger.Info().
		Str("select_pattern", r.opts.SelectPattern).
		Int("resources", len(resources)).
		Str("user_pattern", r.opts.UserPattern).
		Int("users", len(targets)).
		Msg("Starting resource to contacts group copy")

	resolver := NewResolver(resources, r.opts.WorkRel)

	for _, user := range targets {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		userCtx := logging.WithUser(ctx, user)
		svc, err := sessions.Session(userCtx, user)
		if err != nil {
			ur := &UserResult{User: user, Aborted: true}
			ur.addError(errors.WrapResource("open", "session", user, err))
			logging.FromContext(userCtx).Error().Err(err).Msg("Could not open contacts session")
			result.Users = append(result.Users, ur)
			continue
		}

		var ur *UserResult
		if mode == ModeUndo {
			ur = r.UndoUser(userCtx, svc, user)
		} else {
			ur = r.ReconcileUser(userCtx, svc, user, resources, resolver)
		}
		result.Users = append(result.Users, ur)
	}

	logger.Info().Msg(result.Summary())
	return result, nil
}

// ReconcileUser brings one user's managed group in line with resources.
// resolver must be built from the same resources.
func (r *Reconciler) ReconcileUser(ctx context.Context, svc contacts.Service, user string, resources []contacts.Resource, resolver *Resolver) *UserResult {
	logger := logging.FromContext(ctx)
	ur := &UserResult{User: user}

	// Discover the managed group; nothing may be mutated without it.
	groups, err := svc.Groups(ctx)
	if err != nil {
		return r.abort(ctx, ur, errors.NewGroupDiscoveryError(user, r.opts.GroupTitle, err))
	}
	group, found := r.classifier.ManagedGroup(groups)
	if !found {
		group, err = svc.CreateGroup(ctx, contacts.Group{
			Title:      r.opts.GroupTitle,
			Attributes: contacts.Attributes{r.opts.GroupMarker},
		})
		if err != nil {
			return r.abort(ctx, ur, errors.NewGroupDiscoveryError(user, r.opts.GroupTitle, err))
		}
		ur.GroupCreated = true
		logger.Info().Str("group", group.Title).Str("group_id", group.ID).Msg("Created managed group")
	}
	ur.GroupID = group.ID
	ur.GroupTitle = group.Title

	members, err := svc.Contacts(ctx, contacts.Query{GroupID: group.ID, MaxResults: r.opts.MaxContacts})
	if err != nil {
		return r.abort(ctx, ur, errors.WrapResource("list", "group members", group.ID, err))
	}
	ur.Members = len(members)

	represented := make(map[string]struct{})
	for _, m := range members {
		for _, e := range m.Emails {
			represented[contacts.Fold(e.Address)] = struct{}{}
		}
	}

	var myContacts *contacts.Group
	if r.opts.MyContacts {
		for i := range groups {
			if groups[i].IsSystem() && groups[i].SystemID == r.opts.MyContactsID {
				myContacts = &groups[i]
				break
			}
		}
	}

	logger.Info().
		Str("group", group.Title).
		Int("members", len(members)).
		Str("group_id", group.ID).
		Msg("Using managed group")

	// Insert resources that are not represented yet.
	queue := NewQueue(svc, user, r.opts.BatchMax)
	for _, res := range resources {
		key := res.Key()
		if _, ok := represented[key]; ok {
			continue
		}
		represented[key] = struct{}{}

		contact := r.mapper.Map(res)
		contact.Groups = append(contact.Groups, group.ID)
		if myContacts != nil {
			contact.Groups = append(contact.Groups, myContacts.ID)
		}

		logger.Debug().Str("contact", contact.DisplayName()).Msg("Creating contact")
		queue.Enqueue(contacts.Operation{Type: contacts.OperationInsert, Contact: contact})
		queue.Flush(ctx, false)
	}
	queue.Flush(ctx, true)

	ur.Batch = queue.Stats()
	ur.Inserted = ur.Batch.Succeeded
	for _, failure := range queue.Failures() {
		ur.addError(failure)
	}

	// Refresh managed members from their resource, or drop orphans.
	for i := range members {
		existing := &members[i]
		if !r.classifier.IsManagedContact(existing) {
			continue
		}

		res, ok := resolver.Resolve(ctx, existing)
		if ok {
			if !r.mapper.Sync(r.mapper.Map(res), existing) {
				continue
			}
			logger.Info().
				Str("contact", existing.DisplayName()).
				Str("contact_id", existing.ID).
				Msg("Modifying contact")
			if _, err := svc.Update(ctx, *existing); err != nil {
				logger.Warn().Err(err).Str("contact_id", existing.ID).Msg("Contact update failed")
				ur.addError(errors.WrapResource("update", "contact", existing.ID, err))
				continue
			}
			ur.Updated++
			continue
		}

		if !r.opts.DeleteOld {
			ur.Unmatched++
			continue
		}

		logger.Info().
			Str("contact", existing.DisplayName()).
			Str("contact_id", existing.ID).
			Msg("Removing surplus auto-generated contact")
		if err := svc.Delete(ctx, *existing); err != nil {
			logger.Warn().Err(err).Str("contact_id", existing.ID).Msg("Contact delete failed")
			ur.addError(errors.WrapResource("delete", "contact", existing.ID, err))
			continue
		}
		ur.Deleted++
	}

	return ur
}

// abort records a failure that ends the processing of one user.
func (r *Reconciler) abort(ctx context.Context, ur *UserResult, err error) *UserResult {
	logging.FromContext(ctx).Error().Err(err).Msg("Skipping user")
	ur.Aborted = true
	ur.addError(err)
	return ur
}
