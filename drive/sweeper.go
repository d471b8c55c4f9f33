package drive

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Sweeper deletes mirrored files older than a retention threshold.
// Retention is purely age-based: it does not consult the mirror
// history, so files uploaded by hand age out the same way.
type Sweeper struct {
	folder Folder
	now    func() time.Time
}

// NewSweeper creates a sweeper over the given folder.
func NewSweeper(folder Folder) *Sweeper {
	return &Sweeper{folder: folder, now: time.Now}
}

// Sweep lists the folder and deletes every file strictly older than
// retentionDays. A file exactly at the boundary is kept. Individual
// delete failures are logged and do not abort the sweep; only a
// failure to list the folder is returned.
func (s *Sweeper) Sweep(ctx context.Context, retentionDays int) error {
	files, err := s.folder.List(ctx)
	if err != nil {
		return fmt.Errorf("list mirrored files: %w", err)
	}

	cutoff := s.now().Add(-time.Duration(retentionDays) * 24 * time.Hour)
	for _, f := range files {
		if f.CreatedTime.IsZero() || !f.CreatedTime.Before(cutoff) {
			continue
		}
		log.Printf("drive: deleting old file %s created %s", f.Name, f.CreatedTime.Format(time.RFC3339))
		if err := s.folder.Delete(ctx, f.ID); err != nil {
			log.Printf("drive: delete %s: %v", f.Name, err)
		}
	}

	return nil
}
