// Package runner executes a reconciliation run for the sync and undo
// commands and renders its report.
package runner

import (
	"context"
	"io"

	"github.com/spf13/pflag"

	"github.com/agentstation/contactsync/internal/appcontext"
	"github.com/agentstation/contactsync/internal/cmd/output"
	"github.com/agentstation/contactsync/pkg/errors"
	"github.com/agentstation/contactsync/pkg/logging"
	"github.com/agentstation/contactsync/pkg/reconciler"
)

// Run loads the settings bound to flags, forces the given mode, runs the
// reconciler against the configured backend and writes the report to w.
//
// An empty selection is not a failure: it is logged and Run returns nil
// without writing a report.
func Run(ctx context.Context, app appcontext.Interface, flags *pflag.FlagSet, mode reconciler.Mode, w io.Writer) error {
	logger := app.Logger()

	format, err := output.ParseFormat(app.OutputFormat())
	if err != nil {
		return errors.NewValidationError("format", app.OutputFormat(), err.Error())
	}
	format = output.DetectFormat(string(format))

	settings, err := app.Settings(flags)
	if err != nil {
		return err
	}
	settings.Undo = mode == reconciler.ModeUndo

	r, err := reconciler.New(reconciler.WithOptions(settings.Options()))
	if err != nil {
		return err
	}

	backend, err := app.Backend(ctx, settings)
	if err != nil {
		return err
	}
	if backend.Rehearsal {
		logger.Warn().Str("source", settings.Source).Msg("Contacts are written to an in-memory store; nothing is changed remotely")
	}

	ctx = logging.WithLogger(ctx, logger)
	result, err := r.Run(ctx, backend.Resources, backend.Users, backend.Sessions)
	if errors.IsNothingToDo(err) {
		logger.Warn().Err(err).Msg("Nothing to do")
		return nil
	}
	if err != nil {
		return err
	}

	for _, err := range result.Errors() {
		logger.Debug().Err(err).Msg("Recorded failure")
	}

	return output.NewFormatter(format).Format(w, output.Report{Result: result})
}
