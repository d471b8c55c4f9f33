// Package ytmirror mirrors new uploads from a curated set of YouTube
// channels into a shared Google Drive folder.
//
// It is built to run unattended on a schedule: each invocation prunes
// remote files older than the retention window, reads the channel
// catalog from the Drive folder, and transfers every recent upload that
// has not been mirrored before.
//
// Overview
//
// The run is assembled from small components, each usable on its own:
//
//   - drive.Sweeper: deletes remote files past the retention threshold
//   - drive.Catalog: loads the channel catalog stored in the folder
//   - youtube.APIResolver: resolves a channel's most recent uploads
//   - mirror.Pipeline: downloads a video and uploads it to the folder
//   - storage.History: the deduplication record carried between runs
//   - mirror.Runner: drives one full synchronization pass
//
// Quick Start
//
// Assemble and run one pass:
//
//	cfg, err := config.Load()
//	if err != nil {
//		log.Fatal(err)
//	}
//	folder, err := drive.NewService(ctx, cfg.CredentialsFile, cfg.FolderID, cfg.UploadChunkSize, retryCfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	resolver, err := youtube.NewAPIResolver(ctx, cfg.APIKey, retryCfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	runner := &mirror.Runner{
//		Sweeper:  drive.NewSweeper(folder),
//		Catalog:  drive.NewCatalog(folder),
//		Resolver: resolver,
//		Transfer: mirror.NewPipeline(download.NewDownloader(cfg.Quality, cfg.Container), folder, cfg.ScratchDir),
//		OpenHistory: func() (mirror.History, error) {
//			return storage.LoadHistory(cfg.HistoryPath)
//		},
//		RetentionDays: cfg.RetentionDays,
//		LatestN:       cfg.LatestN,
//		Container:     cfg.Container,
//	}
//	if err := runner.Run(ctx); err != nil {
//		log.Fatal(err)
//	}
//
// Configuration
//
// ytmirror loads settings from multiple sources:
//
//   1. Environment variables (highest priority)
//   2. Config file (ytmirror.json or ~/.config/ytmirror/ytmirror.json)
//   3. Default values (lowest priority)
//
// Environment variables:
//
//   - YOUTUBE_API_KEY: YouTube Data API key
//   - PARENT_FOLDER_ID: Google Drive folder to mirror into
//   - SERVICE_ACCOUNT_FILE: Path to the service account credentials
//   - YTMIRROR_HISTORY_PATH: Path to the history file
//   - YTMIRROR_SCRATCH_DIR: Local scratch directory for downloads
//   - YTMIRROR_RETENTION_DAYS: Remote file retention window
//   - YTMIRROR_LATEST_N: Recent uploads to consider per channel
//   - YTMIRROR_QUALITY: Preferred stream quality (e.g. 480p)
//   - YTMIRROR_CONTAINER: Preferred container (e.g. mp4)
//   - YTMIRROR_INCREMENTAL_PERSIST: Persist history after every transfer (true/false)
//   - YTMIRROR_MAX_RETRIES: Maximum retry attempts
//   - YTMIRROR_INITIAL_BACKOFF: Initial retry backoff duration
//   - YTMIRROR_MAX_BACKOFF: Maximum retry backoff duration
//
// Error Handling
//
// All operations return errors that implement standard Go error handling:
//
//	if errors.Is(err, ytmirror.ErrChannelNotFound) {
//		fmt.Println("channel does not exist")
//	}
//
//	var opErr *ytmirror.DriveError
//	if errors.As(err, &opErr) {
//		fmt.Printf("drive %s failed for %s: %v\n", opErr.Op, opErr.Name, opErr.Err)
//	}
//
package ytmirror
