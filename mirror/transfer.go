package mirror

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Downloader writes a video's selected stream to a local file.
type Downloader interface {
	Download(ctx context.Context, videoURL, destPath string) error
}

// Uploader stores a file in the remote folder. drive.Service satisfies this.
type Uploader interface {
	Upload(ctx context.Context, name string, content io.Reader) (string, error)
}

// Pipeline transfers one video at a time: download to a private scratch
// directory, upload to remote storage, then remove the scratch copy.
// Transfers never overlap, but each still gets its own scratch
// subdirectory so a failed run's leftovers cannot collide with a retry.
type Pipeline struct {
	downloader Downloader
	uploader   Uploader
	scratchDir string
}

// NewPipeline creates a transfer pipeline rooted at scratchDir.
func NewPipeline(d Downloader, u Uploader, scratchDir string) *Pipeline {
	return &Pipeline{downloader: d, uploader: u, scratchDir: scratchDir}
}

// Transfer downloads videoURL and uploads it under name. The scratch
// copy is removed only after a successful upload; on failure it is left
// in place and the error is returned for the caller to log and skip.
func (p *Pipeline) Transfer(ctx context.Context, videoURL, name string) error {
	dir := filepath.Join(p.scratchDir, uuid.NewString())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create scratch dir: %w", err)
	}

	path := filepath.Join(dir, name)
	if err := p.downloader.Download(ctx, videoURL, path); err != nil {
		// The downloader already removed any partial file, so only the
		// empty directory is left. A retry mints a fresh directory.
		os.RemoveAll(dir)
		return fmt.Errorf("download: %w", err)
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open scratch file: %w", err)
	}

	_, err = p.uploader.Upload(ctx, name, file)
	file.Close()
	if err != nil {
		return fmt.Errorf("upload: %w", err)
	}

	if err := os.RemoveAll(dir); err != nil {
		log.Printf("mirror: remove scratch %s: %v", dir, err)
	}
	return nil
}
