package storage

import (
	"encoding/json"
	"errors"
	"os"
	"time"
)

const lockTimeout = 5 * time.Second

// History is the set of video URLs already mirrored to remote storage.
// It is loaded once at the start of a run, appended to in memory as
// transfers complete, and written back in full with Persist. Entries
// are kept in insertion order; the exact URL string is the sole
// deduplication key.
type History struct {
	path string
	lock *FileLock
	urls []string
	seen map[string]struct{}
}

// LoadHistory reads the history file at path. The file must already
// exist: there is no safe default for a missing history, so absence is
// reported as ErrNotFound and treated as a fatal precondition by
// callers.
func LoadHistory(path string) (*History, error) {
	h := &History{
		path: path,
		lock: NewFileLock(path),
	}

	if err := h.lock.Lock(lockTimeout); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		h.lock.Unlock()
		if errors.Is(err, os.ErrNotExist) {
			return nil, &StorageError{Op: "load", Path: path, Err: ErrNotFound}
		}
		return nil, &StorageError{Op: "load", Path: path, Err: err}
	}

	if err := json.Unmarshal(data, &h.urls); err != nil {
		h.lock.Unlock()
		return nil, &StorageError{Op: "load", Path: path, Err: ErrStorageCorrupt}
	}

	h.seen = make(map[string]struct{}, len(h.urls))
	for _, u := range h.urls {
		h.seen[u] = struct{}{}
	}

	return h, nil
}

// Contains reports whether url has already been mirrored.
func (h *History) Contains(url string) bool {
	_, ok := h.seen[url]
	return ok
}

// Record appends url to the in-memory history. It does not touch disk;
// call Persist to make the addition durable. Recording a URL twice is
// wasteful but harmless.
func (h *History) Record(url string) {
	h.urls = append(h.urls, url)
	h.seen[url] = struct{}{}
}

// Len returns the number of recorded entries.
func (h *History) Len() int { return len(h.urls) }

// URLs returns a copy of the recorded URLs in insertion order.
func (h *History) URLs() []string {
	out := make([]string, len(h.urls))
	copy(out, h.urls)
	return out
}

// Persist atomically rewrites the history file with the full in-memory
// set, pretty-printed.
func (h *History) Persist() error {
	writer, err := NewAtomicWriter(h.path)
	if err != nil {
		return &StorageError{Op: "persist", Path: h.path, Err: err}
	}

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(h.urls); err != nil {
		writer.Abort()
		return &StorageError{Op: "persist", Path: h.path, Err: err}
	}

	if err := writer.Commit(); err != nil {
		return &StorageError{Op: "persist", Path: h.path, Err: err}
	}

	return nil
}

// Close releases the advisory lock on the history file.
func (h *History) Close() error {
	return h.lock.Unlock()
}
