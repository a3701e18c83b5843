package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/isseis/go-cmr-nrt-sync/cmr_api"
	"github.com/isseis/go-cmr-nrt-sync/granule_sync"
)

const (
	defaultAuthHost        = "urs.earthdata.nasa.gov"
	defaultLookbackMinutes = 60
)

// envVar describes an environment variable accepted by the command.
type envVar struct {
	Name        string
	Description string
}

var syncEnvVars = []envVar{
	{"CMR_HOST", "CMR host (default: " + cmr_api.DefaultHost + ")"},
	{"CMR_COLLECTION_ID", "Collection concept id to mirror (required)"},
	{"NRT_DATA_DIR", "Directory to save granules and the .update file (default: current directory)"},
	{"NRT_LOOKBACK_MINUTES", "Minutes to look back on the first run (default: 60)"},
	{"NRT_BOUNDING_BOX", "Spatial filter as west,south,east,north"},
	{"NRT_PAGE_SIZE", "Granules requested per search (default: 2000)"},
	{"EARTHDATA_AUTH_HOST", "Host the credentials belong to (default: " + defaultAuthHost + ")"},
	{"NRT_SCHEDULE", "Five-field cron expression; empty runs once"},
	{"NRT_RUN_TIMEOUT", "Maximum duration of one run, such as 30m (default: no limit)"},
}

// options holds raw command-line values. Empty strings fall back to the environment.
type options struct {
	cmrHost    string
	collection string
	output     string
	lookback   string
	bbox       string
	pageSize   string
	authHost   string
	schedule   string
	timeout    string

	dryRun      bool
	remember    bool
	forget      bool
	strictNetrc bool
}

// appConfig is the validated configuration of the command.
type appConfig struct {
	Sync     granule_sync.Config
	AuthHost string
	Schedule string
	Timeout  time.Duration

	DryRun      bool
	Remember    bool
	Forget      bool
	StrictNetrc bool
}

// pick returns the flag value if set, then the environment value, then def.
func pick(flagValue string, getenv func(string) string, env string, def string) string {
	if v := strings.TrimSpace(flagValue); v != "" {
		return v
	}
	if v := strings.TrimSpace(getenv(env)); v != "" {
		return v
	}
	return def
}

// resolveConfig merges flags and environment variables. Flags take precedence.
func resolveConfig(o options, getenv func(string) string) (*appConfig, error) {
	cfg := &appConfig{
		AuthHost:    pick(o.authHost, getenv, "EARTHDATA_AUTH_HOST", defaultAuthHost),
		Schedule:    pick(o.schedule, getenv, "NRT_SCHEDULE", ""),
		DryRun:      o.dryRun,
		Remember:    o.remember,
		Forget:      o.forget,
		StrictNetrc: o.strictNetrc,
	}
	cfg.Sync = granule_sync.Config{
		CMRHost:      pick(o.cmrHost, getenv, "CMR_HOST", cmr_api.DefaultHost),
		CollectionID: pick(o.collection, getenv, "CMR_COLLECTION_ID", ""),
		DataDir:      pick(o.output, getenv, "NRT_DATA_DIR", "."),
	}

	// Forgetting credentials needs nothing but the auth host.
	if cfg.Forget {
		return cfg, nil
	}

	if cfg.Sync.CollectionID == "" {
		return nil, fmt.Errorf("collection concept id must be provided with -collection or CMR_COLLECTION_ID")
	}

	rawLookback := pick(o.lookback, getenv, "NRT_LOOKBACK_MINUTES", strconv.Itoa(defaultLookbackMinutes))
	minutes, err := strconv.Atoi(rawLookback)
	if err != nil || minutes < 0 {
		return nil, fmt.Errorf("invalid lookback minutes: %q", rawLookback)
	}
	cfg.Sync.Lookback = time.Duration(minutes) * time.Minute

	pageSize, err := strconv.Atoi(pick(o.pageSize, getenv, "NRT_PAGE_SIZE", strconv.Itoa(cmr_api.DefaultPageSize)))
	if err != nil || pageSize < 1 || pageSize > cmr_api.MaxPageSize {
		return nil, fmt.Errorf("invalid page size: must be between 1 and %d", cmr_api.MaxPageSize)
	}
	cfg.Sync.PageSize = pageSize

	if s := pick(o.bbox, getenv, "NRT_BOUNDING_BOX", ""); s != "" {
		bbox, err := cmr_api.ParseBoundingBox(s)
		if err != nil {
			return nil, fmt.Errorf("invalid bounding box: %w", err)
		}
		cfg.Sync.BoundingBox = bbox
	}

	if s := pick(o.timeout, getenv, "NRT_RUN_TIMEOUT", ""); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil || d < 0 {
			return nil, fmt.Errorf("invalid run timeout: %q", s)
		}
		cfg.Timeout = d
	}

	if cfg.Schedule != "" {
		if _, err := cronParser.Parse(cfg.Schedule); err != nil {
			return nil, fmt.Errorf("invalid schedule %q: %w", cfg.Schedule, err)
		}
	}
	return cfg, nil
}
