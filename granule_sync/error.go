package granule_sync

import "fmt"

// DownloadError is returned when a granule could not be fetched or stored.
type DownloadError struct {
	URL string
	Err error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download of %s failed: %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}

// FileWriteError wraps a filesystem failure while storing a download.
type FileWriteError struct {
	Op  string
	Err error
}

func (e FileWriteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e FileWriteError) Unwrap() error {
	return e.Err
}

// LockHeldError is returned when another run holds the data directory.
type LockHeldError struct {
	Dir string
	PID int // 0 if unknown
}

func (e *LockHeldError) Error() string {
	if e.PID != 0 {
		return fmt.Sprintf("another run (pid %d) is already syncing %s", e.PID, e.Dir)
	}
	return fmt.Sprintf("another run is already syncing %s", e.Dir)
}
