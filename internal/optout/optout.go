// Package optout reads the list of users who asked to be left out of
// contactsync runs.
//
// The list lives in a JSON document, read from a local path or an
// http(s) URL:
//
//	{"settings": {"optout_employees": ["alice@example.com"]}}
//
// A document without settings.optout_employees is rejected with an
// errors.OptOutFormatError.
package optout

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"os"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/agentstation/contactsync/internal/transport"
	"github.com/agentstation/contactsync/pkg/contacts"
	"github.com/agentstation/contactsync/pkg/errors"
	"github.com/agentstation/contactsync/pkg/logging"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "https://contactsync.local/optout.schema.json"

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, err
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, doc); err != nil {
		return nil, err
	}
	return c.Compile(schemaURL)
})

type document struct {
	Settings struct {
		OptOutEmployees []string `json:"optout_employees"`
	} `json:"settings"`
}

// Document is an opt-out policy backed by a JSON document.
type Document struct {
	uri    string
	client *transport.Client
}

// Option configures a Document.
type Option func(*Document)

// WithClient sets the HTTP client used for http(s) URIs.
func WithClient(client *transport.Client) Option {
	return func(d *Document) {
		d.client = client
	}
}

// WithToken authenticates http(s) requests with a bearer token.
func WithToken(token string) Option {
	return func(d *Document) {
		d.client = transport.New(transport.TokenAuth(token))
	}
}

// New creates a policy reading uri.
func New(uri string, opts ...Option) *Document {
	d := &Document{uri: uri, client: transport.New(nil)}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// URI returns the document location.
func (d *Document) URI() string {
	return d.uri
}

// OptedOut returns the case-folded emails listed in the document.
func (d *Document) OptedOut(ctx context.Context) ([]string, error) {
	data, err := d.read(ctx)
	if err != nil {
		return nil, err
	}

	emails, err := Parse(data)
	if err != nil {
		var formatErr *errors.OptOutFormatError
		if errors.As(err, &formatErr) {
			formatErr.Source = d.uri
		}
		return nil, err
	}

	logging.FromContext(ctx).Info().
		Str("source", d.uri).
		Int("users", len(emails)).
		Msg("Loaded opt-out list")
	return emails, nil
}

func (d *Document) read(ctx context.Context) ([]byte, error) {
	if strings.HasPrefix(d.uri, "http://") || strings.HasPrefix(d.uri, "https://") {
		return d.client.Fetch(ctx, d.uri)
	}
	path := strings.TrimPrefix(d.uri, "file://")
	data, err := os.ReadFile(path) //nolint:gosec // path comes from configuration
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	return data, nil
}

// Parse validates an opt-out document and returns its case-folded emails.
func Parse(data []byte) ([]string, error) {
	schema, err := compiledSchema()
	if err != nil {
		return nil, errors.NewConfigError("optout", "invalid opt-out schema", err)
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, &errors.OptOutFormatError{Message: "not a JSON document", Err: err}
	}
	if err := schema.Validate(inst); err != nil {
		return nil, &errors.OptOutFormatError{Message: "settings.optout_employees is required", Err: err}
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &errors.OptOutFormatError{Message: "not a JSON document", Err: err}
	}

	emails := make([]string, 0, len(doc.Settings.OptOutEmployees))
	for _, email := range doc.Settings.OptOutEmployees {
		if email = strings.TrimSpace(email); email != "" {
			emails = append(emails, contacts.Fold(email))
		}
	}
	return emails, nil
}
