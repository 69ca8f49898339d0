// Package undo provides the undo command.
package undo

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/contactsync/internal/appcontext"
	"github.com/agentstation/contactsync/internal/cmd/runner"
	"github.com/agentstation/contactsync/internal/config"
	"github.com/agentstation/contactsync/pkg/reconciler"
)

// NewCommand creates the undo command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "undo",
		GroupID: "core",
		Short:   "Remove managed contacts and the managed group",
		Long: `Undo deletes every contact carrying the managed marker and then the
managed group itself, for every selected user.

Users listed in the opt-out document (--optout-uri) are skipped. The
document must be JSON with a settings.optout_employees array of emails;
an unreadable document fails the whole run.`,
		Example: `  contactsync undo --domain example.com --credentials key.json --admin admin@example.com
  contactsync undo --users 'alice@example.com'
  contactsync undo --optout-uri https://intranet.example.com/optout.json --optout-token $TOKEN`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runner.Run(cmd.Context(), app, cmd.Flags(), reconciler.ModeUndo, cmd.OutOrStdout())
		},
	}

	config.RegisterFlags(cmd.Flags(), config.UndoFlags...)

	return cmd
}
