package google

import (
	"context"

	admin "google.golang.org/api/admin/directory/v1"
	"golang.org/x/time/rate"

	"github.com/agentstation/contactsync/pkg/constants"
	"github.com/agentstation/contactsync/pkg/contacts"
)

// Directory lists users and calendar resources through the Admin SDK.
type Directory struct {
	svc      *admin.Service
	customer string
	limiter  *rate.Limiter
}

// NewDirectory creates a directory client impersonating adminSubject.
// customer defaults to the account of the administrator.
func NewDirectory(ctx context.Context, creds *Credentials, adminSubject, customer string, opts ...Option) (*Directory, error) {
	s := newSettings(opts)
	clientOpts, err := s.clientOptions(ctx, creds, adminSubject,
		admin.AdminDirectoryUserReadonlyScope,
		admin.AdminDirectoryResourceCalendarReadonlyScope,
	)
	if err != nil {
		return nil, err
	}
	svc, err := admin.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, wrapAPI(err)
	}
	if customer == "" {
		customer = constants.DefaultCustomer
	}
	return &Directory{svc: svc, customer: customer, limiter: s.limiter()}, nil
}

// ListResources implements contacts.ResourceLister.
func (d *Directory) ListResources(ctx context.Context, maxResults int) ([]contacts.Resource, error) {
	var out []contacts.Resource
	pageToken := ""
	for {
		if err := d.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		call := d.svc.Resources.Calendars.List(d.customer).
			MaxResults(pageSize(maxResults, len(out), constants.MaxDirectoryPage)).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		page, err := call.Do()
		if err != nil {
			return nil, wrapAPI(err)
		}
		for _, item := range page.Items {
			out = append(out, contacts.Resource{
				Email:       item.ResourceEmail,
				Name:        item.ResourceName,
				Description: item.ResourceDescription,
			})
		}
		pageToken = page.NextPageToken
		if pageToken == "" || (maxResults > 0 && len(out) >= maxResults) {
			break
		}
	}
	return truncate(out, maxResults), nil
}

// ListUsers implements contacts.UserLister.
func (d *Directory) ListUsers(ctx context.Context, domain string, maxResults int) ([]contacts.User, error) {
	var out []contacts.User
	pageToken := ""
	for {
		if err := d.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		call := d.svc.Users.List().
			OrderBy("email").
			MaxResults(pageSize(maxResults, len(out), constants.MaxDirectoryPage)).
			Context(ctx)
		if domain != "" {
			call = call.Domain(domain)
		} else {
			call = call.Customer(d.customer)
		}
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		page, err := call.Do()
		if err != nil {
			return nil, wrapAPI(err)
		}
		for _, u := range page.Users {
			user := contacts.User{PrimaryEmail: u.PrimaryEmail}
			if u.Name != nil {
				user.Name = u.Name.FullName
			}
			out = append(out, user)
		}
		pageToken = page.NextPageToken
		if pageToken == "" || (maxResults > 0 && len(out) >= maxResults) {
			break
		}
	}
	return truncate(out, maxResults), nil
}

// pageSize returns the page size for the next request given the overall
// cap and the number of items already read.
func pageSize(maxResults, have int, limit int64) int64 {
	if maxResults <= 0 {
		return limit
	}
	remaining := int64(maxResults - have)
	if remaining < 1 {
		remaining = 1
	}
	if remaining > limit {
		return limit
	}
	return remaining
}

func truncate[T any](items []T, n int) []T {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}
