// Package filelock provides a file-based mutual exclusion lock.
// It ensures that only one process can hold a lock for a given path at a time,
// even across multiple processes. The lock is an advisory flock(2) style lock,
// so the kernel releases it if the holding process exits.
package filelock

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// ErrLockHeld is returned when attempting to acquire a lock that is already held.
var ErrLockHeld = fmt.Errorf("lock already held")

// LockInfo is written into the lock file by the holder.
type LockInfo struct {
	PID       int    `json:"pid"`
	Timestamp string `json:"timestamp"`
	Hostname  string `json:"hostname,omitempty"`
}

// LockPath returns the lock file used for path.
func LockPath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}
	return absPath + ".lock", nil
}

// TryLock attempts to acquire a lock for the given path without blocking.
// Returns a function to release the lock, or ErrLockHeld if another holder has it.
// The lock file is left in place after release; only the lock itself matters.
func TryLock(path string) (func(), error) {
	lockFile, err := LockPath(path)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(lockFile), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	fl := flock.New(lockFile)
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to create lock file: %w", err)
	}
	if !locked {
		return nil, ErrLockHeld
	}

	if err := writeLockInfo(lockFile); err != nil {
		_ = fl.Unlock()
		return nil, err
	}

	unlock := func() {
		_ = fl.Unlock()
	}
	return unlock, nil
}

func writeLockInfo(lockFile string) error {
	hostname, _ := os.Hostname()
	data, err := json.Marshal(LockInfo{
		PID:       os.Getpid(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hostname:  hostname,
	})
	if err != nil {
		return fmt.Errorf("failed to encode lock info: %w", err)
	}
	if err := os.WriteFile(lockFile, data, 0o600); err != nil {
		return fmt.Errorf("failed to write lock info: %w", err)
	}
	return nil
}

// ReadLockInfo reads the holder information for the lock guarding path.
func ReadLockInfo(path string) (*LockInfo, error) {
	lockFile, err := LockPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(lockFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read lock file: %w", err)
	}
	var info LockInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to parse lock file: %w", err)
	}
	return &info, nil
}
