package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/isseis/go-cmr-nrt-sync/credentials"
	"github.com/isseis/go-cmr-nrt-sync/granule_sync"
	"github.com/isseis/go-cmr-nrt-sync/logger"
)

const Version = "0.1.0"

func init() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, relying on environment variables")
	}
}

// printUsage prints the complete usage information including flags and environment variables
func printUsage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage of %s:\n", os.Args[0])
	flag.PrintDefaults()

	fmt.Fprintln(flag.CommandLine.Output(), "\nLogger environment variables:")
	for _, v := range logger.GetEnvVarsHelp() {
		fmt.Fprintf(flag.CommandLine.Output(), "  %-22s %s\n", v.Name, v.Description)
	}

	fmt.Fprintln(flag.CommandLine.Output(), "\nSync environment variables:")
	for _, v := range syncEnvVars {
		fmt.Fprintf(flag.CommandLine.Output(), "  %-22s %s\n", v.Name, v.Description)
	}
	fmt.Fprintln(flag.CommandLine.Output(), "\nCredentials are read from ~/.netrc (or $NETRC), then the system keyring, then prompted for.")
}

func registerFlags(fs *flag.FlagSet) *options {
	o := &options{}
	fs.StringVar(&o.cmrHost, "cmr", "", "CMR host to query")
	fs.StringVar(&o.collection, "collection", "", "Collection concept id to mirror")
	fs.StringVar(&o.output, "output", "", "Directory to save granules and the .update file")
	fs.StringVar(&o.lookback, "lookback", "", "Minutes to look back when no .update file exists")
	fs.StringVar(&o.bbox, "bbox", "", "Spatial filter as west,south,east,north")
	fs.StringVar(&o.pageSize, "page_size", "", "Granules requested per search (1-2000)")
	fs.StringVar(&o.authHost, "auth_host", "", "Host the credentials belong to")
	fs.StringVar(&o.schedule, "schedule", "", "Five-field cron expression; runs until interrupted")
	fs.StringVar(&o.timeout, "timeout", "", "Maximum duration of one run, such as 30m")
	fs.BoolVar(&o.dryRun, "dry_run", false, "If set, list the granules that would be downloaded without downloading them")
	fs.BoolVar(&o.remember, "remember", false, "Store prompted credentials in the system keyring")
	fs.BoolVar(&o.forget, "forget", false, "Remove stored credentials for the auth host from the system keyring and exit")
	fs.BoolVar(&o.strictNetrc, "strict_netrc", false, "Refuse a netrc file readable by other users")
	return o
}

func main() {
	flag.Usage = printUsage
	opts := registerFlags(flag.CommandLine)
	flag.Parse()

	logCfg, err := logger.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading logger config: %v\n\n", err)
		flag.Usage()
		os.Exit(1)
	}
	log := logger.NewHybridLogger(*logCfg)

	exitCode := run(opts, log)
	if err := log.FlushWebhook(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to flush webhook logs: %v\n", err)
	}
	os.Exit(exitCode)
}

func run(opts *options, log logger.Logger) int {
	cfg, err := resolveConfig(*opts, os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		flag.Usage()
		return 1
	}

	keyringStore := credentials.NewKeyringStore(credentials.DefaultKeyringService, log)
	if cfg.Forget {
		if err := keyringStore.Delete(cfg.AuthHost); err != nil {
			log.Error("Failed to remove stored credentials", "endpoint", cfg.AuthHost, "error", err)
			return 1
		}
		fmt.Printf("Removed stored credentials for %s\n", cfg.AuthHost)
		return 0
	}

	creds, err := resolveCredentials(cfg, keyringStore, log)
	if err != nil {
		log.Error("Failed to obtain credentials", "endpoint", cfg.AuthHost, "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	httpClient := credentials.NewHTTPClient(creds, cfg.AuthHost, credentials.WithUserAgent("nrtsync/"+Version))
	syncer, err := granule_sync.NewSyncer(cfg.Sync, httpClient,
		granule_sync.WithDryRun(cfg.DryRun),
		granule_sync.WithLogger(log),
	)
	if err != nil {
		log.Error("Failed to create syncer", "error", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("NRT sync started", "version", Version, "collection", cfg.Sync.CollectionID, "dir", cfg.Sync.DataDir, "dry_run", cfg.DryRun)

	if cfg.Schedule == "" {
		if err := runOnce(ctx, syncer, cfg, log); err != nil {
			fmt.Fprintf(os.Stderr, "Sync failed: %v\n", err)
			return 1
		}
		return 0
	}

	err = runScheduled(ctx, cfg.Schedule, log, func(ctx context.Context) {
		if err := runOnce(ctx, syncer, cfg, log); err != nil {
			fmt.Fprintf(os.Stderr, "Sync failed: %v\n", err)
		}
		if err := log.FlushWebhook(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to flush webhook logs: %v\n", err)
		}
	})
	if err != nil {
		log.Error("Failed to start scheduler", "error", err)
		return 1
	}
	return 0
}

// resolveCredentials looks the auth host up in netrc and the keyring before prompting.
func resolveCredentials(cfg *appConfig, keyringStore *credentials.KeyringStore, log logger.Logger) (credentials.Credentials, error) {
	var stores []credentials.Store
	if path, err := credentials.DefaultNetrcPath(); err == nil {
		stores = append(stores, credentials.NewNetrcStore(path, cfg.StrictNetrc, log))
	} else {
		log.Warn("Cannot locate netrc file", "error", err)
	}
	stores = append(stores, keyringStore)

	resolverOpts := []credentials.ResolverOption{
		credentials.WithStores(stores...),
		credentials.WithPrompter(credentials.NewPrompter(credentials.NewStdinTerminal(), os.Stderr)),
		credentials.WithLogger(log),
	}
	if cfg.Remember {
		resolverOpts = append(resolverOpts, credentials.WithSaver(keyringStore))
	}
	return credentials.NewResolver(resolverOpts...).Resolve(cfg.AuthHost)
}

func runOnce(ctx context.Context, syncer *granule_sync.Syncer, cfg *appConfig, log logger.Logger) error {
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}
	res, err := syncer.Run(ctx)
	if err != nil {
		log.Error("Sync failed", "run_id", res.RunID, "state", res.FailedIn.String(), "error", err)
		return err
	}
	log.Info("Sync completed", "run_id", res.RunID, "hits", res.Hits, "downloaded", len(res.Downloaded), "advanced", res.Advanced, "watermark", res.Candidate.String())
	fmt.Println(res)
	return nil
}
