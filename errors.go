package ytmirror

import (
	"ytmirror/download"
	"ytmirror/drive"
	"ytmirror/internal/retry"
	"ytmirror/storage"
	"ytmirror/youtube"
)

// Error handling types exported for library users.
//
// All error types support the standard error handling patterns:
//
// Using errors.Is() for sentinel errors:
//
//	if errors.Is(err, ytmirror.ErrChannelNotFound) {
//		fmt.Println("channel does not exist")
//	}
//
// Using errors.As() for wrapped errors:
//
//	var resErr *ytmirror.ResolverError
//	if errors.As(err, &resErr) {
//		fmt.Printf("resolving %s failed: %v\n", resErr.Channel, resErr.Err)
//	}

// Type aliases for convenient error handling.
type (
	// ResolverError wraps errors while resolving a channel's uploads.
	ResolverError = youtube.ResolverError
	// DriveError wraps errors from remote folder operations.
	DriveError = drive.OpError
	// StorageError wraps errors during history storage operations.
	StorageError = storage.StorageError
)

// Sentinel errors exported from sub-packages.
var (
	// ErrChannelNotFound indicates the YouTube channel does not exist.
	ErrChannelNotFound = youtube.ErrChannelNotFound
	// ErrNoUploads indicates the channel has no uploads playlist.
	ErrNoUploads = youtube.ErrNoUploads
	// ErrNoStream indicates no stream matched the selection policy.
	ErrNoStream = download.ErrNoStream

	// Storage errors
	// ErrNotFound indicates the history file does not exist.
	ErrNotFound = storage.ErrNotFound
	// ErrStorageCorrupt indicates the history file could not be parsed.
	ErrStorageCorrupt = storage.ErrStorageCorrupt
	// ErrLockTimeout indicates a timeout acquiring the history file lock.
	ErrLockTimeout = storage.ErrLockTimeout
)

// IsRetryable determines if an error should be retried.
// Context cancellation is never retried.
func IsRetryable(err error) bool {
	return retry.IsRetryable(err)
}
