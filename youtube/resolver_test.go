package youtube

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/api/youtube/v3"
)

func TestWatchURL(t *testing.T) {
	got := WatchURL("dQw4w9WgXcQ")
	want := "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
	if got != want {
		t.Errorf("WatchURL() = %q, want %q", got, want)
	}
}

func TestVideosFromItems(t *testing.T) {
	items := []*youtube.PlaylistItem{
		{Snippet: &youtube.PlaylistItemSnippet{
			Title:      "Newest",
			ResourceId: &youtube.ResourceId{VideoId: "AAA"},
		}},
		{Snippet: &youtube.PlaylistItemSnippet{
			Title:      "Older",
			ResourceId: &youtube.ResourceId{VideoId: "BBB"},
		}},
		// Items without a video ID are dropped.
		{Snippet: &youtube.PlaylistItemSnippet{Title: "Broken"}},
		{},
	}

	videos := videosFromItems(items)
	if len(videos) != 2 {
		t.Fatalf("videosFromItems() returned %d videos, want 2", len(videos))
	}
	if videos[0].URL != "https://www.youtube.com/watch?v=AAA" || videos[0].Title != "Newest" {
		t.Errorf("videos[0] = %+v", videos[0])
	}
	// API-native ordering preserved, no re-sort
	if videos[1].URL != "https://www.youtube.com/watch?v=BBB" {
		t.Errorf("videos[1] = %+v", videos[1])
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"channel not found", ErrChannelNotFound, false},
		{"no uploads", ErrNoUploads, false},
		{"wrapped channel not found", errors.Join(errors.New("x"), ErrChannelNotFound), false},
		{"quota exceeded", errors.New("googleapi: Error 403: quotaExceeded"), true},
		{"rate limit", errors.New("googleapi: Error 403: rateLimitExceeded"), true},
		{"context canceled", context.Canceled, false},
		{"generic transport error", errors.New("connection reset"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestResolverError(t *testing.T) {
	err := &ResolverError{Channel: "UCxxx", Err: ErrChannelNotFound}

	if !errors.Is(err, ErrChannelNotFound) {
		t.Error("errors.Is() should match the wrapped sentinel")
	}

	var resErr *ResolverError
	if !errors.As(error(err), &resErr) {
		t.Fatal("errors.As() should extract *ResolverError")
	}
	if resErr.Channel != "UCxxx" {
		t.Errorf("Channel = %q, want UCxxx", resErr.Channel)
	}
}
