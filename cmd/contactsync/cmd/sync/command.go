// Package sync provides the sync command.
package sync

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/contactsync/internal/appcontext"
	"github.com/agentstation/contactsync/internal/cmd/runner"
	"github.com/agentstation/contactsync/internal/config"
	"github.com/agentstation/contactsync/pkg/reconciler"
)

// NewCommand creates the sync command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sync",
		GroupID: "core",
		Short:   "Copy directory resources into every user's contacts",
		Long: `Sync mirrors the selected directory resources into a managed contact
group of every selected user.

For each user the command will:
• Find the managed group by its marker property, creating it when missing
• Insert a contact for every resource not yet represented in the group
• Refresh names and notes of managed contacts from their resource
• Delete managed contacts whose resource is gone (with --delete-old)

Contacts without the managed marker are never modified.`,
		Example: `  contactsync sync --domain example.com --credentials key.json --admin admin@example.com
  contactsync sync --select 'room-*' --users '*@example.com' --delete-old
  contactsync sync --source file --resources-file rooms.yaml --users-file users.yaml -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runner.Run(cmd.Context(), app, cmd.Flags(), reconciler.ModeReconcile, cmd.OutOrStdout())
		},
	}

	config.RegisterFlags(cmd.Flags(), config.SyncFlags...)

	return cmd
}
