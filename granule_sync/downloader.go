package granule_sync

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"path/filepath"

	"github.com/go-resty/resty/v2"
)

// Fetcher downloads one URL into a directory.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string, dir string) (string, error)
}

// Downloader fetches granule files over HTTP.
type Downloader struct {
	http *resty.Client
	fs   FileSystemOperations
}

// NewDownloader creates a Downloader. A nil fs means DefaultFileSystem.
func NewDownloader(httpClient *resty.Client, fs FileSystemOperations) *Downloader {
	if fs == nil {
		fs = &DefaultFileSystem{}
	}
	return &Downloader{http: httpClient, fs: fs}
}

// fileNameFromURL returns the final path segment of rawURL.
func fileNameFromURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" || name == ".." {
		return "", fmt.Errorf("URL has no file name")
	}
	return name, nil
}

// Fetch downloads rawURL to dir/<base name of the URL path>, overwriting any
// existing file, and returns the local path. All failures are *DownloadError.
func (d *Downloader) Fetch(ctx context.Context, rawURL string, dir string) (string, error) {
	name, err := fileNameFromURL(rawURL)
	if err != nil {
		return "", &DownloadError{URL: rawURL, Err: err}
	}

	resp, err := d.http.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(rawURL)
	if err != nil {
		return "", &DownloadError{URL: rawURL, Err: err}
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return "", &DownloadError{URL: rawURL, Err: fmt.Errorf("unexpected status %s", resp.Status())}
	}

	target := filepath.Join(dir, name)
	if err := d.fs.CreateFile(target, body, 0o644); err != nil {
		return "", &DownloadError{URL: rawURL, Err: err}
	}
	return target, nil
}
