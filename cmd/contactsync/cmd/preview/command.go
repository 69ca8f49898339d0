// Package preview provides the preview command, which shows the contacts
// a sync would create without contacting any user's address book.
package preview

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/agentstation/contactsync/internal/appcontext"
	"github.com/agentstation/contactsync/internal/cmd/output"
	"github.com/agentstation/contactsync/internal/config"
	"github.com/agentstation/contactsync/internal/export"
	"github.com/agentstation/contactsync/pkg/contacts"
	"github.com/agentstation/contactsync/pkg/errors"
	"github.com/agentstation/contactsync/pkg/reconciler"
)

// NewCommand creates the preview command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "preview",
		GroupID: "core",
		Short:   "Show the contacts a sync would create",
		Long: `Preview lists the selected directory resources and renders the contact
each one maps to. No user is contacted and nothing is written.

With --format vcard the contacts are written as vCard 4.0, suitable for a
manual import into any address book.`,
		Example: `  contactsync preview --select 'room-*'
  contactsync preview --source file --resources-file rooms.yaml -o vcard > rooms.vcf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Execute(cmd.Context(), app, cmd, cmd.OutOrStdout())
		},
	}

	config.RegisterFlags(cmd.Flags(), config.PreviewFlags...)

	return cmd
}

// Execute maps the selected resources and writes them to w.
func Execute(ctx context.Context, app appcontext.Interface, cmd *cobra.Command, w io.Writer) error {
	format, err := output.ParseFormat(app.OutputFormat(),
		output.FormatTable, output.FormatJSON, output.FormatYAML, output.FormatVCard)
	if err != nil {
		return errors.NewValidationError("format", app.OutputFormat(), err.Error())
	}
	format = output.DetectFormat(string(format))

	settings, err := app.Settings(cmd.Flags())
	if err != nil {
		return err
	}
	r, err := reconciler.New(reconciler.WithOptions(settings.Options()))
	if err != nil {
		return err
	}
	backend, err := app.Backend(ctx, settings)
	if err != nil {
		return err
	}

	resources, err := backend.Resources.ListResources(ctx, settings.MaxResources)
	if err != nil {
		return err
	}
	selected := reconciler.SelectResources(resources, settings.SelectPattern)
	if len(selected) == 0 {
		app.Logger().Warn().Str("pattern", settings.SelectPattern).Msg("No resources match the selection")
		return nil
	}

	list := mapAll(r.Mapper(), selected)
	app.Logger().Debug().Int("resources", len(resources)).Int("selected", len(list)).Msg("Mapped resources")

	if format == output.FormatVCard {
		return export.Write(w, list, settings.Group)
	}
	return output.NewFormatter(format).Format(w, output.ContactList(list))
}

// mapAll maps resources in directory order, keeping the first of several
// resources that share an email.
func mapAll(m reconciler.Mapper, resources []contacts.Resource) []contacts.Contact {
	seen := make(map[string]bool, len(resources))
	list := make([]contacts.Contact, 0, len(resources))
	for _, res := range resources {
		if seen[res.Key()] {
			continue
		}
		seen[res.Key()] = true
		list = append(list, m.Map(res))
	}
	return list
}
