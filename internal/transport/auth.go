package transport

import "net/http"

// Authenticator applies a credential to outgoing requests.
type Authenticator interface {
	Apply(req *http.Request)
}

// NoAuth implements no authentication.
type NoAuth struct{}

// Apply implements the Authenticator interface for NoAuth.
func (NoAuth) Apply(_ *http.Request) {}

// BearerAuth sends the token as a Bearer Authorization header.
type BearerAuth struct {
	Token string
}

// Apply implements the Authenticator interface for BearerAuth.
func (a BearerAuth) Apply(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+a.Token)
}

// HeaderAuth sends the token in a custom header.
type HeaderAuth struct {
	Header string
	Token  string
}

// Apply implements the Authenticator interface for HeaderAuth.
func (a HeaderAuth) Apply(req *http.Request) {
	req.Header.Set(a.Header, a.Token)
}

// TokenAuth returns BearerAuth for a non-empty token and NoAuth otherwise.
func TokenAuth(token string) Authenticator {
	if token == "" {
		return NoAuth{}
	}
	return BearerAuth{Token: token}
}
