package appcontext

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/agentstation/contactsync/internal/config"
)

// Mock provides a mock implementation of Interface for testing.
// A nil function field falls back to a usable default: settings are read
// from Viper (or an empty viper) with the flags bound, and the backend
// is returned as is.
type Mock struct {
	Viper            *viper.Viper
	BackendValue     *Backend
	SettingsFunc     func(*pflag.FlagSet) (*config.Settings, error)
	BackendFunc      func(context.Context, *config.Settings) (*Backend, error)
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	VersionFunc      func() string
}

// Settings loads settings using the mock function or Viper.
func (m *Mock) Settings(flags *pflag.FlagSet) (*config.Settings, error) {
	if m.SettingsFunc != nil {
		return m.SettingsFunc(flags)
	}
	v := m.Viper
	if v == nil {
		v = viper.New()
	}
	if flags != nil {
		if err := config.BindFlags(v, flags); err != nil {
			return nil, err
		}
	}
	return config.Load(v)
}

// Backend returns the backend using the mock function or BackendValue.
func (m *Mock) Backend(ctx context.Context, settings *config.Settings) (*Backend, error) {
	if m.BackendFunc != nil {
		return m.BackendFunc(ctx, settings)
	}
	return m.BackendValue, nil
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns the output format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// Version returns the version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns "unknown".
func (m *Mock) Commit() string { return "unknown" }

// Date returns "unknown".
func (m *Mock) Date() string { return "unknown" }

// BuiltBy returns "test".
func (m *Mock) BuiltBy() string { return "test" }

// Ensure Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
