package granule_sync

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileSystemOperations abstracts file system operations for the Downloader, allowing for easy mocking in tests.
type FileSystemOperations interface {
	// CreateFile writes everything read from r to filename, replacing any
	// existing file. The file only appears under its final name once complete.
	CreateFile(filename string, r io.Reader, filePerm os.FileMode) error
}

// DefaultFileSystem provides a production implementation of FileSystemOperations using the os package.
type DefaultFileSystem struct{}

// CreateFile streams r into a temporary file next to filename and renames it into place.
func (fs *DefaultFileSystem) CreateFile(filename string, r io.Reader, filePerm os.FileMode) error {
	dir := filepath.Dir(filename)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(filename)+".part-*")
	if err != nil {
		return FileWriteError{Op: fmt.Sprintf("CreateTemp in %s", dir), Err: err}
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return FileWriteError{Op: fmt.Sprintf("Write for %s", filename), Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return FileWriteError{Op: fmt.Sprintf("Close for %s", filename), Err: err}
	}
	if err := os.Chmod(tmpName, filePerm); err != nil {
		os.Remove(tmpName)
		return FileWriteError{Op: fmt.Sprintf("Chmod for %s", filename), Err: err}
	}
	if err := os.Rename(tmpName, filename); err != nil {
		os.Remove(tmpName)
		return FileWriteError{Op: fmt.Sprintf("Rename to %s", filename), Err: err}
	}
	return nil
}
