package google

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	"github.com/agentstation/contactsync/pkg/constants"
)

type settings struct {
	requestsPerSecond float64
	httpClient        *http.Client
	endpoint          string
}

// Option configures the Google adapters.
type Option func(*settings)

// WithRequestsPerSecond paces API calls. Zero or less means unlimited.
func WithRequestsPerSecond(rps float64) Option {
	return func(s *settings) {
		s.requestsPerSecond = rps
	}
}

// WithHTTPClient replaces the authenticated client. Credentials are not
// applied to a replaced client.
func WithHTTPClient(client *http.Client) Option {
	return func(s *settings) {
		s.httpClient = client
	}
}

// WithEndpoint overrides the API base URL.
func WithEndpoint(endpoint string) Option {
	return func(s *settings) {
		s.endpoint = endpoint
	}
}

func newSettings(opts []Option) *settings {
	s := &settings{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// clientOptions builds the API client options, authenticating as subject
// unless an HTTP client was supplied.
func (s *settings) clientOptions(ctx context.Context, creds *Credentials, subject string, scopes ...string) ([]option.ClientOption, error) {
	var opts []option.ClientOption
	if s.endpoint != "" {
		opts = append(opts, option.WithEndpoint(s.endpoint))
	}
	if s.httpClient != nil {
		return append(opts, option.WithHTTPClient(s.httpClient)), nil
	}

	ts, err := creds.TokenSource(ctx, subject, scopes...)
	if err != nil {
		return nil, err
	}
	client := &http.Client{
		Timeout:   constants.DefaultHTTPTimeout,
		Transport: &oauth2.Transport{Source: ts},
	}
	return append(opts, option.WithHTTPClient(client)), nil
}

func (s *settings) limiter() *rate.Limiter {
	if s.requestsPerSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := int(s.requestsPerSecond)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(s.requestsPerSecond), burst)
}
