package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/azlocal/directory/internal/config"
	"github.com/azlocal/directory/internal/importer"
	"github.com/azlocal/directory/internal/pkg/logger"
	"github.com/azlocal/directory/internal/progress"
	"github.com/azlocal/directory/internal/source"
	"github.com/azlocal/directory/internal/store"
)

const usage = `Usage:
  import [flags] <file.csv>    import one CSV file
  import [flags] --all         import every pending CSV (local dir, plus S3 when configured)

Flags:
  -config string   config file path (default "config.yaml")
  -chunk int       rows per chunk (overrides config)
  -skip-dupes      skip duplicate records instead of updating them
  -verbose         enable debug logging
`

func main() {
	configPath := flag.String("config", "config.yaml", "config file path")
	all := flag.Bool("all", false, "import every pending CSV")
	chunk := flag.Int("chunk", 0, "rows per chunk")
	skipDupes := flag.Bool("skip-dupes", false, "skip duplicates instead of updating")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if *verbose {
		logger.SetLevel(logger.DEBUG)
	}

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	if *chunk > 0 {
		cfg.Import.ChunkSize = *chunk
	}
	if *skipDupes {
		cfg.Import.SkipDuplicates = true
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var sink importer.ProgressSink
	var pub *progress.Publisher
	if cfg.Redis.URL != "" {
		pub, err = progress.NewPublisher(cfg.Redis.URL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "redis: %v\n", err)
			os.Exit(2)
		}
		defer pub.Close()
		sink = pub
	}

	orch := importer.NewOrchestrator(
		store.NewClient(cfg.API.BaseURL),
		importer.Options{
			ChunkSize:         cfg.Import.ChunkSize,
			AbortThresholdPct: cfg.Import.AbortThresholdPct,
			ErrorDetailCap:    cfg.Import.ErrorDetailCap,
			SkipDuplicates:    cfg.Import.SkipDuplicates,
			Delimiter:         delimiterRune(cfg.Import.Delimiter),
		},
		sink,
	)

	var exitCode int
	if *all {
		exitCode = runAll(ctx, orch, cfg, pub)
	} else {
		if flag.NArg() != 1 {
			flag.Usage()
			os.Exit(2)
		}
		exitCode = runOne(ctx, orch, flag.Arg(0))
	}
	os.Exit(exitCode)
}

// runOne imports a single file and prints its summary. Exit code 0 for
// a clean run, 1 when any row was rejected or the run failed.
func runOne(ctx context.Context, orch *importer.Orchestrator, path string) int {
	stats, err := orch.Run(ctx, path)
	status := "completed"
	if err != nil {
		status = "failed"
	}

	printSummary(stats, filepath.Base(path), status)

	if err != nil {
		fmt.Fprintf(os.Stderr, "import %s: %v\n", path, err)
		return 1
	}
	if stats.Failures() > 0 {
		return 1
	}
	return 0
}

// runAll imports every pending CSV from the local directory and, when a
// bucket is configured, from S3. A failed file does not stop the rest.
// With Redis configured, a run lock keeps concurrent --all invocations
// from racing over the same inbox.
func runAll(ctx context.Context, orch *importer.Orchestrator, cfg *config.Config, pub *progress.Publisher) int {
	if pub != nil {
		lock := pub.NewRunLock("all", 30*time.Minute)
		held, err := lock.Acquire(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "run lock: %v\n", err)
			return 2
		}
		if !held {
			fmt.Println("another import run is in progress; nothing to do")
			return 0
		}
		defer lock.Release(context.Background())
	}

	exitCode := 0

	paths, err := source.DiscoverLocal(cfg.Import.Directory)
	if err != nil {
		fmt.Fprintf(os.Stderr, "discover %s: %v\n", cfg.Import.Directory, err)
		return 2
	}
	for _, path := range paths {
		if code := runOne(ctx, orch, path); code > exitCode {
			exitCode = code
		}
	}

	if cfg.S3.Bucket != "" {
		if code := runS3(ctx, orch, cfg); code > exitCode {
			exitCode = code
		}
	}

	if len(paths) == 0 && cfg.S3.Bucket == "" {
		fmt.Println("no pending files")
	}
	return exitCode
}

func runS3(ctx context.Context, orch *importer.Orchestrator, cfg *config.Config) int {
	s3src, err := source.NewS3Source(ctx, cfg.S3.Bucket, cfg.S3.Region, cfg.S3.Profile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "s3: %v\n", err)
		return 2
	}

	keys, err := s3src.List(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "s3 list: %v\n", err)
		return 2
	}

	exitCode := 0
	for _, key := range keys {
		code := importS3Object(ctx, orch, s3src, key, delimiterRune(cfg.Import.Delimiter))
		if code > exitCode {
			exitCode = code
		}
	}
	return exitCode
}

func importS3Object(ctx context.Context, orch *importer.Orchestrator, s3src *source.S3Source, key string, delim rune) int {
	body, err := s3src.Open(ctx, key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "s3 open %s: %v\n", key, err)
		return 1
	}
	defer body.Close()

	src, err := importer.NewSource(body, key, delim)
	if err != nil {
		fmt.Fprintf(os.Stderr, "s3 read %s: %v\n", key, err)
		return 1
	}

	stats, err := orch.RunSource(ctx, src)
	status := "completed"
	if err != nil {
		status = "failed"
	}
	printSummary(stats, key, status)

	if err != nil {
		fmt.Fprintf(os.Stderr, "import s3://%s: %v\n", key, err)
		return 1
	}
	if markErr := s3src.MarkProcessed(ctx, key); markErr != nil {
		logger.Warn("mark processed failed", "key", key, "error", markErr.Error())
	}
	if stats.Failures() > 0 {
		return 1
	}
	return 0
}

func printSummary(stats *importer.Stats, sourceName, status string) {
	out, err := importer.RenderSummary(stats, stats.BatchID, sourceName, status)
	if err != nil {
		logger.Error("render summary failed", "error", err.Error())
		return
	}
	fmt.Print(out)
}

func delimiterRune(s string) rune {
	if s == "" {
		return ','
	}
	return []rune(s)[0]
}
