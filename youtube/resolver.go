// Package youtube resolves channel IDs to their most recent uploads
// using YouTube Data API v3.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"ytmirror/internal/retry"
)

// Sentinel errors for upload resolution.
var (
	ErrChannelNotFound = errors.New("youtube: channel not found")
	ErrNoUploads       = errors.New("youtube: channel has no uploads")
)

// Video is one upload: the watchable URL and the title it will be
// mirrored under. Only the URL is persisted.
type Video struct {
	URL   string
	Title string
}

// Resolver fetches the most recent uploads of a channel.
type Resolver interface {
	// LatestUploads returns up to n of the channel's newest uploads in
	// reverse-chronological order (the API's native ordering).
	LatestUploads(ctx context.Context, channelID string, n int) ([]Video, error)
}

// ResolverError wraps resolution errors with the channel that failed.
// Use errors.As() to extract it:
//
//	var resErr *youtube.ResolverError
//	if errors.As(err, &resErr) {
//		fmt.Printf("channel %s: %v\n", resErr.Channel, resErr.Err)
//	}
type ResolverError struct {
	// Channel is the channel ID that was being resolved.
	Channel string
	// Err is the underlying error.
	Err error
}

func (e *ResolverError) Error() string {
	return "youtube: resolve " + e.Channel + ": " + e.Err.Error()
}

func (e *ResolverError) Unwrap() error { return e.Err }

// APIResolver implements Resolver using YouTube Data API v3. The API
// shape forces two steps: resolve the channel to its canonical uploads
// playlist, then list the head of that playlist.
type APIResolver struct {
	service  *youtube.Service
	retryCfg retry.Config
}

// NewAPIResolver creates a Data API v3 resolver.
func NewAPIResolver(ctx context.Context, apiKey string, retryCfg retry.Config) (*APIResolver, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key required")
	}

	service, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}

	return &APIResolver{service: service, retryCfg: retryCfg}, nil
}

// LatestUploads resolves channelID's uploads playlist and returns its
// first n items. Callers treat any error as "skip this channel".
func (r *APIResolver) LatestUploads(ctx context.Context, channelID string, n int) ([]Video, error) {
	playlistID, err := r.uploadsPlaylistID(ctx, channelID)
	if err != nil {
		return nil, &ResolverError{Channel: channelID, Err: err}
	}

	videos, err := r.playlistHead(ctx, playlistID, n)
	if err != nil {
		return nil, &ResolverError{Channel: channelID, Err: err}
	}
	return videos, nil
}

// uploadsPlaylistID fetches the channel's canonical uploads playlist ID.
func (r *APIResolver) uploadsPlaylistID(ctx context.Context, channelID string) (string, error) {
	var playlistID string

	err := retry.Do(ctx, r.retryCfg, IsRetryable, func(ctx context.Context) error {
		resp, err := r.service.Channels.List([]string{"contentDetails"}).
			Id(channelID).
			Context(ctx).
			Do()
		if err != nil {
			return err
		}

		if len(resp.Items) == 0 {
			return fmt.Errorf("%w: %s", ErrChannelNotFound, channelID)
		}

		playlistID = resp.Items[0].ContentDetails.RelatedPlaylists.Uploads
		return nil
	})
	if err != nil {
		return "", err
	}

	if playlistID == "" {
		return "", fmt.Errorf("%w: %s", ErrNoUploads, channelID)
	}
	return playlistID, nil
}

// playlistHead lists the first n items of the uploads playlist. No
// client-side re-sort: the API returns uploads newest first.
func (r *APIResolver) playlistHead(ctx context.Context, playlistID string, n int) ([]Video, error) {
	var videos []Video

	err := retry.Do(ctx, r.retryCfg, IsRetryable, func(ctx context.Context) error {
		resp, err := r.service.PlaylistItems.List([]string{"snippet"}).
			PlaylistId(playlistID).
			MaxResults(int64(n)).
			Context(ctx).
			Do()
		if err != nil {
			return err
		}

		videos = videosFromItems(resp.Items)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(videos) == 0 {
		return nil, ErrNoUploads
	}
	return videos, nil
}

// videosFromItems maps playlist items to Videos, dropping items with no
// resolvable video ID.
func videosFromItems(items []*youtube.PlaylistItem) []Video {
	var videos []Video
	for _, item := range items {
		if item.Snippet == nil || item.Snippet.ResourceId == nil {
			continue
		}
		id := item.Snippet.ResourceId.VideoId
		if id == "" {
			continue
		}
		videos = append(videos, Video{
			URL:   WatchURL(id),
			Title: item.Snippet.Title,
		})
	}
	return videos
}

// WatchURL returns the canonical watch URL for a video ID.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

// IsRetryable classifies Data API errors. Channel-level "not found" and
// empty-playlist conditions are permanent; quota and rate-limit errors
// are transient.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrChannelNotFound) || errors.Is(err, ErrNoUploads) {
		return false
	}
	if strings.Contains(err.Error(), "quotaExceeded") || strings.Contains(err.Error(), "rateLimitExceeded") {
		return true
	}
	return retry.IsRetryable(err)
}
