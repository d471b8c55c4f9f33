package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"ytmirror/config"
	"ytmirror/download"
	"ytmirror/drive"
	"ytmirror/internal/retry"
	"ytmirror/mirror"
	"ytmirror/storage"
	"ytmirror/youtube"
)

// ytmirror is a scheduled batch job: it takes no arguments, reads its
// configuration from the environment, runs one mirror pass to
// completion, and exits. Per-video and per-channel failures are logged
// and retried on the next invocation; only setup failures exit non-zero.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ytmirror: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	retryCfg := retry.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxBackoff:     cfg.MaxBackoff,
		Multiplier:     cfg.BackoffMultiplier,
		JitterFraction: 0.2,
	}

	ctx := context.Background()

	folder, err := drive.NewService(ctx, cfg.CredentialsFile, cfg.FolderID, cfg.UploadChunkSize, retryCfg)
	if err != nil {
		return err
	}

	resolver, err := youtube.NewAPIResolver(ctx, cfg.APIKey, retryCfg)
	if err != nil {
		return err
	}

	downloader := download.NewDownloader(cfg.Quality, cfg.Container)

	runner := &mirror.Runner{
		Sweeper:  drive.NewSweeper(folder),
		Catalog:  drive.NewCatalog(folder),
		Resolver: resolver,
		Transfer: mirror.NewPipeline(downloader, folder, cfg.ScratchDir),
		OpenHistory: func() (mirror.History, error) {
			return storage.LoadHistory(cfg.HistoryPath)
		},
		RetentionDays:      cfg.RetentionDays,
		LatestN:            cfg.LatestN,
		Container:          cfg.Container,
		IncrementalPersist: cfg.IncrementalPersist,
	}

	log.Printf("ytmirror: starting run at %s", time.Now().Format(time.RFC3339))
	return runner.Run(ctx)
}
