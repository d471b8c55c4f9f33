// Package mirror drives one synchronization run: sweep old remote
// files, load the channel catalog, and transfer every new upload that
// is not yet in the history.
package mirror

import (
	"context"
	"fmt"
	"log"
	"strings"

	"ytmirror/youtube"
)

// Sweeper deletes remote files past the retention threshold.
type Sweeper interface {
	Sweep(ctx context.Context, retentionDays int) error
}

// CatalogLoader fetches the channel catalog. found is false when the
// catalog file does not exist.
type CatalogLoader interface {
	Load(ctx context.Context) (channels []string, found bool, err error)
}

// Resolver fetches a channel's most recent uploads.
type Resolver interface {
	LatestUploads(ctx context.Context, channelID string, n int) ([]youtube.Video, error)
}

// Transferrer moves one video from the hosting provider into remote storage.
type Transferrer interface {
	Transfer(ctx context.Context, videoURL, name string) error
}

// History is the deduplication state carried between runs.
type History interface {
	Contains(url string) bool
	Record(url string)
	Persist() error
	Close() error
}

// Runner executes one mirror run to completion. Failures at video and
// channel granularity are logged and skipped; only run-setup failures
// (catalog transport error, unreadable history) abort the run.
type Runner struct {
	Sweeper  Sweeper
	Catalog  CatalogLoader
	Resolver Resolver
	Transfer Transferrer

	// OpenHistory loads the history store. It is only called once the
	// catalog has been found, so a run with nothing to sync never
	// requires the history file.
	OpenHistory func() (History, error)

	// RetentionDays is the remote file retention threshold.
	RetentionDays int
	// LatestN is how many recent uploads to consider per channel.
	LatestN int
	// Container is the destination file extension ("mp4").
	Container string
	// IncrementalPersist writes the history after each successful
	// transfer, shrinking the replay window if the run crashes.
	IncrementalPersist bool
}

// Run performs one full synchronization pass.
func (r *Runner) Run(ctx context.Context) error {
	// A failed sweep only delays deletion until the next run; the sync
	// phase still proceeds.
	if err := r.Sweeper.Sweep(ctx, r.RetentionDays); err != nil {
		log.Printf("mirror: retention sweep: %v", err)
	}

	channels, found, err := r.Catalog.Load(ctx)
	if err != nil {
		return fmt.Errorf("load channel catalog: %w", err)
	}
	if !found {
		log.Printf("mirror: channel catalog not found, nothing to sync")
		return nil
	}

	history, err := r.OpenHistory()
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer history.Close()

	var transferred, skipped, failed int
	for _, channelID := range channels {
		videos, err := r.Resolver.LatestUploads(ctx, channelID, r.LatestN)
		if err != nil {
			log.Printf("mirror: resolve channel %s: %v", channelID, err)
			continue
		}

		for _, v := range videos {
			if history.Contains(v.URL) {
				log.Printf("mirror: skipping %s", v.Title)
				skipped++
				continue
			}

			name := sanitizeFilename(v.Title) + "." + r.Container
			if err := r.Transfer.Transfer(ctx, v.URL, name); err != nil {
				// Not recorded, so the video is retried next run.
				log.Printf("mirror: transfer %s: %v", v.Title, err)
				failed++
				continue
			}

			history.Record(v.URL)
			transferred++
			log.Printf("mirror: uploaded %s", v.Title)

			if r.IncrementalPersist {
				if err := history.Persist(); err != nil {
					log.Printf("mirror: persist history: %v", err)
				}
			}
		}
	}

	log.Printf("mirror: run complete: %d channels, %d transferred, %d skipped, %d failed",
		len(channels), transferred, skipped, failed)

	if err := history.Persist(); err != nil {
		return fmt.Errorf("persist history: %w", err)
	}
	return nil
}

// sanitizeFilename removes/replaces characters that are invalid in filenames.
func sanitizeFilename(s string) string {
	replacements := []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|"}
	result := s
	for _, char := range replacements {
		result = strings.ReplaceAll(result, char, "_")
	}
	return result
}
