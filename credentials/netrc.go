package credentials

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/jdx/go-netrc"
)

// DefaultNetrcPath returns $NETRC if set, otherwise ~/.netrc.
func DefaultNetrcPath() (string, error) {
	if p := os.Getenv("NETRC"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}
	name := ".netrc"
	if runtime.GOOS == "windows" {
		name = "_netrc"
	}
	return filepath.Join(home, name), nil
}

// NetrcStore reads machine/login/password entries from a netrc file.
type NetrcStore struct {
	path   string
	strict bool
	logger Logger
}

// NewNetrcStore creates a store for the netrc file at path. In strict mode a
// file readable by group or others is rejected; otherwise it only logs a warning.
func NewNetrcStore(path string, strict bool, log Logger) *NetrcStore {
	if log == nil {
		log = nopLogger{}
	}
	return &NetrcStore{path: path, strict: strict, logger: log}
}

func (s *NetrcStore) Name() string {
	return "netrc"
}

// Lookup returns the login and password of the machine entry named endpoint.
func (s *NetrcStore) Lookup(endpoint string) (Credentials, error) {
	info, err := os.Stat(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Credentials{}, ErrNotFound
	}
	if err != nil {
		return Credentials{}, fmt.Errorf("failed to stat %s: %w", s.path, err)
	}
	if err := s.checkPermissions(info); err != nil {
		return Credentials{}, err
	}

	n, err := netrc.Parse(s.path)
	if err != nil {
		return Credentials{}, fmt.Errorf("failed to parse %s: %w", s.path, err)
	}
	m := n.Machine(endpoint)
	if m == nil {
		return Credentials{}, ErrNotFound
	}
	creds := Credentials{Username: m.Get("login"), Password: m.Get("password")}
	if creds.Username == "" || creds.Password == "" {
		s.logger.Warn("Incomplete netrc entry ignored", "path", s.path, "machine", endpoint)
		return Credentials{}, ErrNotFound
	}
	return creds, nil
}

func (s *NetrcStore) checkPermissions(info os.FileInfo) error {
	if runtime.GOOS == "windows" || info.Mode().Perm()&0o077 == 0 {
		return nil
	}
	if s.strict {
		return &InsecurePermissionsError{Path: s.path, Mode: info.Mode()}
	}
	s.logger.Warn("Credential file is accessible by other users", "path", s.path, "mode", fmt.Sprintf("%#o", info.Mode().Perm()))
	return nil
}
