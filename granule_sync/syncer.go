package granule_sync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/isseis/go-cmr-nrt-sync/cmr_api"
	"github.com/isseis/go-cmr-nrt-sync/filelock"
	"github.com/isseis/go-cmr-nrt-sync/watermark"
)

// Catalog runs granule searches. *cmr_api.Client implements it.
type Catalog interface {
	Search(ctx context.Context, params cmr_api.SearchParams) (*cmr_api.SearchResult, error)
	Endpoint() string
}

// WatermarkStore persists the last successful sync time. *watermark.Store implements it.
type WatermarkStore interface {
	Read(lookback time.Duration) (watermark.Watermark, error)
	Write(w watermark.Watermark) error
	Dir() string
}

// Config describes what to mirror and where.
type Config struct {
	CMRHost      string
	CollectionID string
	DataDir      string
	Lookback     time.Duration
	PageSize     int                  // 0 means cmr_api.DefaultPageSize
	BoundingBox  *cmr_api.BoundingBox // nil means no spatial filter
}

// Syncer mirrors new granules of one collection into a directory.
type Syncer struct {
	catalog Catalog
	fetcher Fetcher
	store   WatermarkStore
	cfg     Config

	dryRun bool
	logger Logger
	now    func() time.Time
	out    io.Writer
}

// SyncerOption is a functional option for configuring the Syncer.
type SyncerOption func(*Syncer)

// WithDryRun makes Run report the granules it would fetch without downloading
// them or touching the watermark.
func WithDryRun(dryRun bool) SyncerOption {
	return func(s *Syncer) {
		s.dryRun = dryRun
	}
}

// WithLogger sets the logger for Syncer.
// If not set, a fallback logger will be used.
func WithLogger(log Logger) SyncerOption {
	return func(s *Syncer) {
		s.logger = log
	}
}

// WithClock replaces the wall clock used for the candidate watermark and the bootstrap default.
func WithClock(now func() time.Time) SyncerOption {
	return func(s *Syncer) {
		s.now = now
	}
}

// WithOutput sets where progress lines and the dry-run report are written. Defaults to os.Stdout.
func WithOutput(w io.Writer) SyncerOption {
	return func(s *Syncer) {
		s.out = w
	}
}

func (s *Syncer) applyOptions(opts []SyncerOption) {
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = &fallbackLogger{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.out == nil {
		s.out = os.Stdout
	}
}

// NewSyncer creates a Syncer that talks to cfg.CMRHost and downloads with httpClient.
func NewSyncer(cfg Config, httpClient *resty.Client, opts ...SyncerOption) (*Syncer, error) {
	if cfg.CollectionID == "" {
		return nil, errors.New("collection concept id is required")
	}
	catalog, err := cmr_api.NewClient(cfg.CMRHost, httpClient)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog client: %w", err)
	}

	s := &Syncer{
		catalog: catalog,
		fetcher: NewDownloader(httpClient, nil),
		cfg:     cfg,
	}
	s.applyOptions(opts)

	store, err := watermark.NewStore(cfg.DataDir, watermark.WithClock(s.now), watermark.WithLogger(s.logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create watermark store: %w", err)
	}
	s.store = store
	return s, nil
}

// NewSyncerWithDependencies creates a Syncer with injected dependencies.
// cfg.DataDir is ignored in favour of store.Dir().
func NewSyncerWithDependencies(catalog Catalog, fetcher Fetcher, store WatermarkStore, cfg Config, opts ...SyncerOption) *Syncer {
	cfg.DataDir = store.Dir()
	s := &Syncer{
		catalog: catalog,
		fetcher: fetcher,
		store:   store,
		cfg:     cfg,
	}
	s.applyOptions(opts)
	return s
}

// IsDryRun returns true if the syncer is in dry-run mode.
func (s *Syncer) IsDryRun() bool {
	return s.dryRun
}

func (s *Syncer) enter(res *RunResult, state State) {
	res.State = state
	s.logger.Debug("Sync state", "state", state.String(), "run_id", res.RunID)
	fmt.Fprintf(s.out, "Sync state: %s\n", state)
}

func (s *Syncer) abort(res *RunResult, err error) (RunResult, error) {
	res.FailedIn = res.State
	res.State = StateAborted
	s.logger.Error("Sync aborted", "state", res.FailedIn.String(), "run_id", res.RunID, "error", err)
	fmt.Fprintf(s.out, "Sync state: %s in %s: %v\n", res.State, res.FailedIn, err)
	return *res, err
}

// lockTarget returns the path whose lock guards runs against dir. The lock
// file lives inside dir next to the watermark, so only dir must be writable.
func lockTarget(dir string) string {
	return filepath.Join(dir, watermark.FileName)
}

// Run performs one sync pass. The watermark is advanced only when at least one
// granule was found and every granule was downloaded. Files already downloaded
// by an aborted run are left in place. The returned RunResult is valid on error.
func (s *Syncer) Run(ctx context.Context) (RunResult, error) {
	res := RunResult{RunID: uuid.NewString()}
	dir := s.store.Dir()

	s.enter(&res, StateResolvingWatermark)
	unlock, err := filelock.TryLock(lockTarget(dir))
	if err != nil {
		if errors.Is(err, filelock.ErrLockHeld) {
			held := &LockHeldError{Dir: dir}
			if info, infoErr := filelock.ReadLockInfo(lockTarget(dir)); infoErr == nil {
				held.PID = info.PID
			}
			err = held
		}
		return s.abort(&res, err)
	}
	defer unlock()

	since, err := s.store.Read(s.cfg.Lookback)
	if err != nil {
		return s.abort(&res, err)
	}
	res.Since = since

	s.enter(&res, StateQuerying)
	opts := []cmr_api.SearchOption{cmr_api.WithBoundingBox(s.cfg.BoundingBox)}
	if s.cfg.PageSize != 0 {
		opts = append(opts, cmr_api.WithPageSize(s.cfg.PageSize))
	}
	params, err := cmr_api.NewSearchParams(s.cfg.CollectionID, since.Time, opts...)
	if err != nil {
		return s.abort(&res, err)
	}
	fmt.Fprintf(s.out, "Querying %s for granules created since %s\n", s.catalog.Endpoint(), since)
	result, err := s.catalog.Search(ctx, params)
	if err != nil {
		return s.abort(&res, err)
	}
	// Taken after the query so granules ingested while it ran are seen next time.
	candidate := watermark.New(s.now())
	if candidate.Before(since.Time) {
		s.logger.Warn("Clock is behind the watermark, keeping it", "now", candidate.String(), "since", since.String())
		candidate = since
	}
	res.Candidate = candidate
	res.Hits = result.Hits
	if result.Truncated() {
		s.logger.Warn("Search result truncated, remaining granules are not fetched",
			"hits", result.Hits, "returned", len(result.Items), "not_covered", result.Hits-len(result.Items))
	}

	s.enter(&res, StateSelecting)
	plan := make([]plannedDownload, 0, len(result.Items))
	for _, g := range result.Items {
		u, err := cmr_api.SelectDownloadURL(g)
		if err != nil {
			return s.abort(&res, err)
		}
		plan = append(plan, plannedDownload{Granule: g, URL: u})
	}
	res.Selected = len(plan)

	if len(plan) == 0 {
		fmt.Fprintln(s.out, "No new granules")
		s.enter(&res, StateDone)
		return res, nil
	}

	if s.dryRun {
		fmt.Fprintf(s.out, "[DRY RUN] %d granule(s) would be downloaded to %s\n", len(plan), dir)
		writePlan(s.out, plan)
		s.enter(&res, StateDone)
		return res, nil
	}

	s.enter(&res, StateDownloading)
	for i, p := range plan {
		if err := ctx.Err(); err != nil {
			return s.abort(&res, &DownloadError{URL: p.URL, Err: err})
		}
		fmt.Fprintf(s.out, "Downloading %d/%d %s\n", i+1, len(plan), p.URL)
		local, err := s.fetcher.Fetch(ctx, p.URL, dir)
		if err != nil {
			return s.abort(&res, err)
		}
		res.Downloaded = append(res.Downloaded, local)
		s.logger.Info("Downloaded granule", "concept_id", p.Granule.ConceptID, "path", local, "run_id", res.RunID)
	}

	s.enter(&res, StateFinalizing)
	if err := s.store.Write(candidate); err != nil {
		return s.abort(&res, err)
	}
	res.Advanced = true

	s.enter(&res, StateDone)
	fmt.Fprintf(s.out, "Downloaded %d granule(s), watermark now %s\n", len(res.Downloaded), candidate)
	return res, nil
}
