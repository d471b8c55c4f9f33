// Package drive accesses the shared Drive folder that holds mirrored
// videos and the channel catalog.
package drive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"ytmirror/internal/retry"
)

// File is one object in the mirror folder.
type File struct {
	// ID is the Drive file ID.
	ID string
	// Name is the file name within the folder.
	Name string
	// CreatedTime is when the file was created on Drive.
	CreatedTime time.Time
}

// Folder is the capability surface the rest of the program needs from
// remote storage. Service implements it against Drive v3; tests use fakes.
type Folder interface {
	// List returns every file in the folder.
	List(ctx context.Context) ([]File, error)
	// FindByName returns the file with exactly the given name, or nil
	// if no such file exists. Absence is not an error.
	FindByName(ctx context.Context, name string) (*File, error)
	// Delete removes a file by ID.
	Delete(ctx context.Context, id string) error
	// Download streams a file's content.
	Download(ctx context.Context, id string) (io.ReadCloser, error)
	// Upload creates a file in the folder via resumable upload and
	// returns its ID.
	Upload(ctx context.Context, name string, content io.Reader) (string, error)
}

// OpError wraps Drive errors with operation context.
type OpError struct {
	// Op is the operation that failed ("list", "delete", "download", "upload").
	Op string
	// Name identifies the file being acted on (name or ID).
	Name string
	// Err is the underlying error.
	Err error
}

func (e *OpError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("drive: %s %s: %v", e.Op, e.Name, e.Err)
	}
	return fmt.Sprintf("drive: %s: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// Service implements Folder against the Drive v3 API, scoped to a
// single parent folder.
type Service struct {
	svc       *drive.Service
	folderID  string
	chunkSize int
	retryCfg  retry.Config
}

// NewService builds a Drive client authenticated with the service
// account key at credentialsFile, scoped to folderID.
func NewService(ctx context.Context, credentialsFile, folderID string, chunkSize int, retryCfg retry.Config) (*Service, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}

	jwtConfig, err := google.JWTConfigFromJSON(data, drive.DriveScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account file: %w", err)
	}

	svc, err := drive.NewService(ctx, option.WithHTTPClient(jwtConfig.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}

	return &Service{
		svc:       svc,
		folderID:  folderID,
		chunkSize: chunkSize,
		retryCfg:  retryCfg,
	}, nil
}

// List returns every file in the folder with its creation time.
func (s *Service) List(ctx context.Context) ([]File, error) {
	query := fmt.Sprintf("'%s' in parents and trashed = false", s.folderID)
	files, err := s.list(ctx, query)
	if err != nil {
		return nil, &OpError{Op: "list", Err: err}
	}
	return files, nil
}

// FindByName looks up a single file by exact name match. A missing
// file yields (nil, nil).
func (s *Service) FindByName(ctx context.Context, name string) (*File, error) {
	query := fmt.Sprintf("name = '%s' and '%s' in parents and trashed = false", name, s.folderID)
	files, err := s.list(ctx, query)
	if err != nil {
		return nil, &OpError{Op: "list", Name: name, Err: err}
	}
	if len(files) == 0 {
		return nil, nil
	}
	return &files[0], nil
}

// list runs a files.list query with pagination and retry.
func (s *Service) list(ctx context.Context, query string) ([]File, error) {
	var files []File

	pageToken := ""
	for {
		var resp *drive.FileList
		err := retry.Do(ctx, s.retryCfg, IsRetryable, func(ctx context.Context) error {
			var err error
			resp, err = s.svc.Files.List().
				Q(query).
				Spaces("drive").
				Fields("nextPageToken, files(id, name, createdTime)").
				PageToken(pageToken).
				Context(ctx).
				Do()
			return err
		})
		if err != nil {
			return nil, err
		}

		for _, f := range resp.Files {
			created, err := time.Parse(time.RFC3339, f.CreatedTime)
			if err != nil {
				// A file without a parseable timestamp is never swept.
				created = time.Time{}
			}
			files = append(files, File{ID: f.Id, Name: f.Name, CreatedTime: created})
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return files, nil
}

// Delete removes a file by ID.
func (s *Service) Delete(ctx context.Context, id string) error {
	err := retry.Do(ctx, s.retryCfg, IsRetryable, func(ctx context.Context) error {
		return s.svc.Files.Delete(id).Context(ctx).Do()
	})
	if err != nil {
		return &OpError{Op: "delete", Name: id, Err: err}
	}
	return nil
}

// Download streams the content of a file. The caller must close the
// returned reader.
func (s *Service) Download(ctx context.Context, id string) (io.ReadCloser, error) {
	var body io.ReadCloser
	err := retry.Do(ctx, s.retryCfg, IsRetryable, func(ctx context.Context) error {
		resp, err := s.svc.Files.Get(id).Context(ctx).Download()
		if err != nil {
			return err
		}
		body = resp.Body
		return nil
	})
	if err != nil {
		return nil, &OpError{Op: "download", Name: id, Err: err}
	}
	return body, nil
}

// Upload creates a file in the folder using a chunked resumable upload.
// The media layer retries individual chunks itself, so the call is not
// wrapped in retry.Do: replaying a partially-consumed reader would
// corrupt the upload.
func (s *Service) Upload(ctx context.Context, name string, content io.Reader) (string, error) {
	meta := &drive.File{
		Name:    name,
		Parents: []string{s.folderID},
	}

	created, err := s.svc.Files.Create(meta).
		Media(content, googleapi.ChunkSize(s.chunkSize)).
		Context(ctx).
		Do()
	if err != nil {
		return "", &OpError{Op: "upload", Name: name, Err: err}
	}
	return created.Id, nil
}

// IsRetryable classifies Drive API errors. Rate limiting and server
// errors are transient; everything else in the 4xx range is permanent.
func IsRetryable(err error) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		if gerr.Code == 429 || gerr.Code >= 500 {
			return true
		}
		return false
	}
	return retry.IsRetryable(err)
}
