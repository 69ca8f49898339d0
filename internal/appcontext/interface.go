// Package appcontext provides the application context interface shared by
// all commands, so each command package depends on an interface rather
// than on the concrete App in cmd/contactsync/app.
package appcontext

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/agentstation/contactsync/internal/config"
	"github.com/agentstation/contactsync/pkg/contacts"
)

// Interface defines what commands need from the application.
type Interface interface {
	// Settings binds the command's flags and loads the validated
	// reconciliation settings (flag > env > .env > config file > default).
	Settings(flags *pflag.FlagSet) (*config.Settings, error)

	// Backend builds the directory and contacts collaborators selected by
	// the settings' source.
	Backend(ctx context.Context, settings *config.Settings) (*Backend, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the --format value, or "" when unset.
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}

// Backend bundles the collaborators a run talks to.
type Backend struct {
	Resources contacts.ResourceLister
	Users     contacts.UserLister
	Sessions  contacts.SessionFactory

	// Rehearsal is set when mutations only reach an in-memory store.
	Rehearsal bool
}
