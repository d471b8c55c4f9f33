package drive

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"
)

// fakeFolder implements Folder for testing.
type fakeFolder struct {
	files     []File
	contents  map[string][]byte // file ID -> content
	deleted   []string
	uploads   map[string][]byte // name -> content
	listErr   error
	deleteErr map[string]error // file ID -> error
	getErr    error
}

func newFakeFolder(files ...File) *fakeFolder {
	return &fakeFolder{
		files:     files,
		contents:  make(map[string][]byte),
		uploads:   make(map[string][]byte),
		deleteErr: make(map[string]error),
	}
}

func (f *fakeFolder) List(ctx context.Context) ([]File, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.files, nil
}

func (f *fakeFolder) FindByName(ctx context.Context, name string) (*File, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	for i := range f.files {
		if f.files[i].Name == name {
			return &f.files[i], nil
		}
	}
	return nil, nil
}

func (f *fakeFolder) Delete(ctx context.Context, id string) error {
	if err := f.deleteErr[id]; err != nil {
		return err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeFolder) Download(ctx context.Context, id string) (io.ReadCloser, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	content, ok := f.contents[id]
	if !ok {
		return nil, errors.New("no such file")
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}

func (f *fakeFolder) Upload(ctx context.Context, name string, content io.Reader) (string, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return "", err
	}
	f.uploads[name] = data
	return "uploaded-" + name, nil
}

func newTestSweeper(folder Folder, now time.Time) *Sweeper {
	s := NewSweeper(folder)
	s.now = func() time.Time { return now }
	return s
}

func TestSweepDeletesOldFiles(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	folder := newFakeFolder(
		File{ID: "old", Name: "old.mp4", CreatedTime: now.Add(-15 * 24 * time.Hour)},
		File{ID: "fresh", Name: "fresh.mp4", CreatedTime: now.Add(-1 * 24 * time.Hour)},
	)

	s := newTestSweeper(folder, now)
	if err := s.Sweep(context.Background(), 14); err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}

	if len(folder.deleted) != 1 || folder.deleted[0] != "old" {
		t.Errorf("deleted = %v, want [old]", folder.deleted)
	}
}

func TestSweepRetentionBoundary(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	folder := newFakeFolder(
		// Exactly retentionDays old: kept (strict inequality).
		File{ID: "boundary", Name: "boundary.mp4", CreatedTime: now.Add(-14 * 24 * time.Hour)},
		// One second past the boundary: deleted.
		File{ID: "past", Name: "past.mp4", CreatedTime: now.Add(-14*24*time.Hour - time.Second)},
	)

	s := newTestSweeper(folder, now)
	if err := s.Sweep(context.Background(), 14); err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}

	if len(folder.deleted) != 1 || folder.deleted[0] != "past" {
		t.Errorf("deleted = %v, want [past]", folder.deleted)
	}
}

func TestSweepDeleteFailureDoesNotAbort(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	folder := newFakeFolder(
		File{ID: "bad", Name: "bad.mp4", CreatedTime: now.Add(-30 * 24 * time.Hour)},
		File{ID: "good", Name: "good.mp4", CreatedTime: now.Add(-30 * 24 * time.Hour)},
	)
	folder.deleteErr["bad"] = errors.New("permission denied")

	s := newTestSweeper(folder, now)
	if err := s.Sweep(context.Background(), 14); err != nil {
		t.Fatalf("Sweep() error = %v, want nil despite per-file failure", err)
	}

	if len(folder.deleted) != 1 || folder.deleted[0] != "good" {
		t.Errorf("deleted = %v, want [good]", folder.deleted)
	}
}

func TestSweepListFailure(t *testing.T) {
	folder := newFakeFolder()
	folder.listErr = errors.New("network down")

	s := NewSweeper(folder)
	if err := s.Sweep(context.Background(), 14); err == nil {
		t.Error("Sweep() error = nil, want error when listing fails")
	}
}

func TestSweepSkipsZeroCreatedTime(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	folder := newFakeFolder(
		File{ID: "unknown", Name: "unknown.mp4"},
	)

	s := newTestSweeper(folder, now)
	if err := s.Sweep(context.Background(), 14); err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	if len(folder.deleted) != 0 {
		t.Errorf("deleted = %v, want none for zero CreatedTime", folder.deleted)
	}
}
