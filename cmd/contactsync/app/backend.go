package app

import (
	"context"

	"github.com/agentstation/contactsync/internal/appcontext"
	"github.com/agentstation/contactsync/internal/config"
	"github.com/agentstation/contactsync/internal/providers/file"
	"github.com/agentstation/contactsync/internal/providers/google"
	"github.com/agentstation/contactsync/internal/providers/memory"
	"github.com/agentstation/contactsync/pkg/constants"
	"github.com/agentstation/contactsync/pkg/contacts"
	"github.com/agentstation/contactsync/pkg/errors"
)

// buildBackend creates the collaborators selected by settings.Source.
//
// The file source reads resources and users from YAML fixtures and writes
// contacts to an in-memory store, so a run against it is a rehearsal.
func buildBackend(ctx context.Context, settings *config.Settings) (*appcontext.Backend, error) {
	switch settings.Source {
	case constants.SourceGoogle:
		creds, err := google.LoadCredentials(settings.CredentialsFile)
		if err != nil {
			return nil, err
		}
		opts := []google.Option{google.WithRequestsPerSecond(settings.RequestsPerSecond)}
		dir, err := google.NewDirectory(ctx, creds, settings.AdminSubject, settings.Customer, opts...)
		if err != nil {
			return nil, err
		}
		return &appcontext.Backend{
			Resources: dir,
			Users:     dir,
			Sessions:  google.NewSessions(creds, opts...),
		}, nil

	case constants.SourceFile:
		src := file.New(
			file.WithResourcesPath(settings.ResourcesFile),
			file.WithUsersPath(settings.UsersFile),
		)
		myContacts := contacts.Group{
			ID:       "contactGroups/myContacts",
			Title:    "My Contacts",
			SystemID: settings.MyContactsID,
		}
		return &appcontext.Backend{
			Resources: src,
			Users:     src,
			Sessions:  memory.NewSessions(myContacts),
			Rehearsal: true,
		}, nil

	default:
		return nil, errors.NewValidationError(config.KeySource, settings.Source, "unknown source")
	}
}
