// Package watermark persists the "created after" cutoff of the last successful
// sync run as a single timestamp inside the target data directory.
package watermark

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileName is the name of the watermark file inside the data directory.
const FileName = ".update"

// Layout is the on-disk and on-the-wire format of a Watermark.
const Layout = "2006-01-02T15:04:05Z"

// Watermark is a UTC timestamp with second precision.
type Watermark struct {
	time.Time
}

// New normalizes t to UTC and drops sub-second precision.
func New(t time.Time) Watermark {
	return Watermark{t.UTC().Truncate(time.Second)}
}

// Parse parses s (surrounding whitespace ignored) in Layout.
func Parse(s string) (Watermark, error) {
	t, err := time.Parse(Layout, strings.TrimSpace(s))
	if err != nil {
		return Watermark{}, err
	}
	return New(t), nil
}

// String formats the watermark in Layout.
func (w Watermark) String() string {
	return w.UTC().Format(Layout)
}

// Logger is the subset of logging used by the store.
type Logger interface {
	Warn(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Warn(string, ...any) {}

// Store reads and writes the watermark file of one data directory.
type Store struct {
	dir    string
	now    func() time.Time
	logger Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithClock overrides the clock used for the bootstrap default.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

// WithLogger sets the logger that receives the missing-file warning.
func WithLogger(log Logger) StoreOption {
	return func(s *Store) {
		s.logger = log
	}
}

// NewStore creates a Store for dir. The directory does not have to exist yet.
func NewStore(dir string, opts ...StoreOption) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("data directory cannot be empty")
	}
	s := &Store{
		dir:    dir,
		now:    time.Now,
		logger: nopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Path returns the full path of the watermark file.
func (s *Store) Path() string {
	return filepath.Join(s.dir, FileName)
}

// Dir returns the data directory.
func (s *Store) Dir() string {
	return s.dir
}

// Read returns the persisted watermark.
//
// If the data directory does not exist it is created and now-lookback is
// returned. If the directory exists without a watermark file the same default
// is returned and a warning is logged. Unparsable contents yield a
// *CorruptWatermarkError.
func (s *Store) Read(lookback time.Duration) (Watermark, error) {
	info, err := os.Stat(s.dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := os.MkdirAll(s.dir, 0o755); err != nil {
			return Watermark{}, fmt.Errorf("failed to create data directory %s: %w", s.dir, err)
		}
		return s.bootstrap(lookback), nil
	case err != nil:
		return Watermark{}, fmt.Errorf("failed to stat data directory %s: %w", s.dir, err)
	case !info.IsDir():
		return Watermark{}, fmt.Errorf("data directory %s is not a directory", s.dir)
	}

	content, err := os.ReadFile(s.Path())
	if errors.Is(err, fs.ErrNotExist) {
		w := s.bootstrap(lookback)
		s.logger.Warn("Watermark file not found, using lookback default", "path", s.Path(), "since", w.String())
		return w, nil
	}
	if err != nil {
		return Watermark{}, fmt.Errorf("failed to read watermark %s: %w", s.Path(), err)
	}

	w, err := Parse(string(content))
	if err != nil {
		return Watermark{}, &CorruptWatermarkError{Path: s.Path(), Content: string(content), Err: err}
	}
	return w, nil
}

func (s *Store) bootstrap(lookback time.Duration) Watermark {
	return New(s.now().Add(-lookback))
}

// Write replaces the watermark file with w. The new contents become visible
// through a rename, so readers never observe a partially written file.
func (s *Store) Write(w Watermark) error {
	tmp, err := os.CreateTemp(s.dir, FileName+".tmp-*")
	if err != nil {
		return &PersistError{Path: s.Path(), Err: err}
	}
	tmpName := tmp.Name()
	cleanup := func(err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return &PersistError{Path: s.Path(), Err: err}
	}

	if _, err := tmp.WriteString(w.String()); err != nil {
		return cleanup(err)
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		return cleanup(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &PersistError{Path: s.Path(), Err: err}
	}
	if err := os.Rename(tmpName, s.Path()); err != nil {
		os.Remove(tmpName)
		return &PersistError{Path: s.Path(), Err: err}
	}
	return nil
}
