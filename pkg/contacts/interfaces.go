package contacts

import "context"

// ResourceLister lists bookable resources from the directory.
type ResourceLister interface {
	ListResources(ctx context.Context, maxResults int) ([]Resource, error)
}

// UserLister lists accounts of a directory domain.
type UserLister interface {
	ListUsers(ctx context.Context, domain string, maxResults int) ([]User, error)
}

// Query selects contacts. An empty GroupID selects all of the user's
// contacts; MaxResults of zero leaves the provider default in place.
type Query struct {
	GroupID    string
	MaxResults int
}

// Service is one user's contacts session.
type Service interface {
	Groups(ctx context.Context) ([]Group, error)
	CreateGroup(ctx context.Context, group Group) (Group, error)
	DeleteGroup(ctx context.Context, group Group) error

	Contacts(ctx context.Context, query Query) ([]Contact, error)
	Update(ctx context.Context, contact Contact) (Contact, error)
	Delete(ctx context.Context, contact Contact) error

	// ExecuteBatch submits the request and returns one result per
	// operation, in submission order.
	ExecuteBatch(ctx context.Context, req BatchRequest) ([]BatchResult, error)
}

// SessionFactory opens a contacts session acting as the given user.
type SessionFactory interface {
	Session(ctx context.Context, user string) (Service, error)
}

// SessionFunc adapts a function to SessionFactory.
type SessionFunc func(ctx context.Context, user string) (Service, error)

// Session implements SessionFactory.
func (f SessionFunc) Session(ctx context.Context, user string) (Service, error) {
	return f(ctx, user)
}
