package reconciler

import "context"

// OptOutPolicy supplies the users that must be left out of a run.
// Addresses are compared case-insensitively.
type OptOutPolicy interface {
	OptedOut(ctx context.Context) ([]string, error)
}

// NoOptOut is the default policy: nobody is opted out.
type NoOptOut struct{}

// OptedOut implements OptOutPolicy.
func (NoOptOut) OptedOut(context.Context) ([]string, error) {
	return nil, nil
}
