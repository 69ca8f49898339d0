// Package transport fetches documents over HTTP for contactsync.
package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/agentstation/contactsync/pkg/constants"
	"github.com/agentstation/contactsync/pkg/errors"
	"github.com/agentstation/contactsync/pkg/logging"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
var DefaultHTTPTimeout = constants.DefaultHTTPTimeout

// maxBody caps the size of a fetched document.
const maxBody = 10 << 20

// Client performs authenticated GET requests.
type Client struct {
	http *http.Client
	auth Authenticator
}

// New creates a new transport client with the specified authenticator.
func New(auth Authenticator) *Client {
	if auth == nil {
		auth = NoAuth{}
	}
	return &Client{
		http: &http.Client{Timeout: DefaultHTTPTimeout},
		auth: auth,
	}
}

// WithHTTPClient returns a copy of the client using hc.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	return &Client{http: hc, auth: c.auth}
}

// Fetch downloads url and returns the response body. Any status other than
// 200 is an APIError.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WrapResource("create", "request", "GET "+url, err)
	}
	req.Header.Set("Accept", "application/json")
	c.auth.Apply(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.WrapIO("fetch", url, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.FromContext(ctx).Warn().Err(err).Str("url", url).Msg("Failed to close response body")
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, errors.WrapIO("read", "response body", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &errors.APIError{
			Provider:   req.URL.Host,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("GET %s: %s", url, http.StatusText(resp.StatusCode)),
			Endpoint:   url,
		}
	}
	return body, nil
}
