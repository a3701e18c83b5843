package credentials

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

// DefaultKeyringService is the keyring service name used by the CLI.
const DefaultKeyringService = "nrtsync"

// KeyringStore keeps credentials in the system keyring, keyed by endpoint.
// The secret is stored as "login\npassword".
type KeyringStore struct {
	service string
	logger  Logger
}

// NewKeyringStore creates a keyring store under service.
func NewKeyringStore(service string, log Logger) *KeyringStore {
	if log == nil {
		log = nopLogger{}
	}
	return &KeyringStore{service: service, logger: log}
}

func (s *KeyringStore) Name() string {
	return "system-keyring"
}

// Lookup returns the stored credentials. A keyring that is not available on
// this host is treated like an empty one.
func (s *KeyringStore) Lookup(endpoint string) (Credentials, error) {
	secret, err := keyring.Get(s.service, endpoint)
	if errors.Is(err, keyring.ErrNotFound) {
		return Credentials{}, ErrNotFound
	}
	if err != nil {
		s.logger.Debug("System keyring unavailable", "error", err)
		return Credentials{}, ErrNotFound
	}
	login, password, ok := strings.Cut(secret, "\n")
	if !ok || login == "" || password == "" {
		s.logger.Warn("Malformed keyring entry ignored", "service", s.service, "endpoint", endpoint)
		return Credentials{}, ErrNotFound
	}
	return Credentials{Username: login, Password: password}, nil
}

// Save stores creds for endpoint, replacing any previous entry.
func (s *KeyringStore) Save(endpoint string, creds Credentials) error {
	if strings.Contains(creds.Username, "\n") {
		return fmt.Errorf("username must not contain a newline")
	}
	return keyring.Set(s.service, endpoint, creds.Username+"\n"+creds.Password)
}

// Delete removes the entry for endpoint.
func (s *KeyringStore) Delete(endpoint string) error {
	err := keyring.Delete(s.service, endpoint)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
