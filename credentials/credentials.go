// Package credentials resolves the login for a remote endpoint and builds the
// HTTP client that carries it.
//
// Lookup order is: stored credentials (netrc file, then the system keyring),
// then an interactive prompt. A non-interactive process with nothing stored
// fails with *CredentialUnavailableError.
package credentials

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by a Store that holds nothing for the endpoint.
var ErrNotFound = errors.New("credentials not found")

// Credentials is a username/password pair for one endpoint.
type Credentials struct {
	Username string
	Password string
}

// Store is a source of stored credentials.
type Store interface {
	// Lookup returns the credentials for endpoint, or ErrNotFound.
	Lookup(endpoint string) (Credentials, error)
	// Name identifies the store in logs.
	Name() string
}

// Saver persists credentials obtained from the prompt.
type Saver interface {
	Save(endpoint string, creds Credentials) error
	Name() string
}

// Logger is the subset of logging used by this package.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}

// Resolver looks credentials up in its stores and falls back to a prompt.
type Resolver struct {
	stores   []Store
	prompter *Prompter
	saver    Saver
	logger   Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithStores sets the stores consulted in order before prompting.
func WithStores(stores ...Store) ResolverOption {
	return func(r *Resolver) {
		r.stores = stores
	}
}

// WithPrompter sets the interactive fallback. Without one the resolver never prompts.
func WithPrompter(p *Prompter) ResolverOption {
	return func(r *Resolver) {
		r.prompter = p
	}
}

// WithSaver makes the resolver remember prompted credentials.
func WithSaver(s Saver) ResolverOption {
	return func(r *Resolver) {
		r.saver = s
	}
}

// WithLogger sets the logger for the resolver.
func WithLogger(log Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = log
	}
}

// NewResolver creates a Resolver.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{logger: nopLogger{}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the credentials for endpoint.
func (r *Resolver) Resolve(endpoint string) (Credentials, error) {
	for _, store := range r.stores {
		creds, err := store.Lookup(endpoint)
		if err == nil {
			r.logger.Debug("Credentials found", "endpoint", endpoint, "store", store.Name())
			return creds, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return Credentials{}, fmt.Errorf("credential lookup in %s failed: %w", store.Name(), err)
		}
	}

	if r.prompter == nil {
		return Credentials{}, &CredentialUnavailableError{Endpoint: endpoint, Reason: "no stored credentials"}
	}
	creds, err := r.prompter.Prompt(endpoint)
	if err != nil {
		return Credentials{}, err
	}

	if r.saver != nil {
		if err := r.saver.Save(endpoint, creds); err != nil {
			r.logger.Warn("Failed to remember credentials", "endpoint", endpoint, "store", r.saver.Name(), "error", err)
		} else {
			r.logger.Info("Credentials saved", "endpoint", endpoint, "store", r.saver.Name())
		}
	}
	return creds, nil
}
