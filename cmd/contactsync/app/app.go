// Package app provides the application context and dependency management
// for the contactsync CLI: configuration, logging and construction of the
// directory and contacts backends.
package app

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/agentstation/contactsync/internal/appcontext"
	"github.com/agentstation/contactsync/internal/config"
	"github.com/agentstation/contactsync/pkg/errors"
)

// App represents the contactsync application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	viper  *viper.Viper
	logger *zerolog.Logger

	// backend overrides Backend when set (tests).
	backend *appcontext.Backend
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
		viper:   viper.New(),
	}

	config, err := LoadConfig(app.viper)
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string { return a.version }

// Commit returns the git commit hash.
func (a *App) Commit() string { return a.commit }

// Date returns the build date.
func (a *App) Date() string { return a.date }

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string { return a.builtBy }

// Config returns the application configuration.
func (a *App) Config() *Config { return a.config }

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger { return a.logger }

// OutputFormat returns the requested output format.
func (a *App) OutputFormat() string { return a.config.Format }

// Settings binds flags to the application's viper instance and loads the
// reconciliation settings.
func (a *App) Settings(flags *pflag.FlagSet) (*config.Settings, error) {
	if flags != nil {
		if err := config.BindFlags(a.viper, flags); err != nil {
			return nil, errors.NewConfigError("flags", "could not bind flags", err)
		}
	}
	return config.Load(a.viper)
}

// Backend returns the collaborators for the configured source.
func (a *App) Backend(ctx context.Context, settings *config.Settings) (*appcontext.Backend, error) {
	if a.backend != nil {
		return a.backend, nil
	}
	return buildBackend(ctx, settings)
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithViper replaces the viper instance settings are read from.
func WithViper(v *viper.Viper) Option {
	return func(a *App) error {
		a.viper = v
		return nil
	}
}

// WithBackend sets fixed collaborators (useful for testing).
func WithBackend(backend *appcontext.Backend) Option {
	return func(a *App) error {
		a.backend = backend
		return nil
	}
}

// Ensure App implements appcontext.Interface at compile time.
var _ appcontext.Interface = (*App)(nil)
