// Package download fetches a single progressive video stream into local
// scratch storage.
package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/kkdai/youtube/v2"
)

// ErrNoStream indicates no progressive stream in the requested container
// was available for a video.
var ErrNoStream = errors.New("download: no suitable progressive stream")

// Downloader resolves a watch URL to its progressive streams, picks one
// by the configured quality policy, and writes it to a local file.
type Downloader struct {
	client *youtube.Client

	// Quality is the preferred resolution label, e.g. "480p".
	Quality string
	// Container restricts candidate streams, e.g. "mp4".
	Container string
}

// NewDownloader creates a downloader preferring the given resolution
// label within the given container.
func NewDownloader(quality, container string) *Downloader {
	return &Downloader{
		client:    &youtube.Client{},
		Quality:   quality,
		Container: container,
	}
}

// Download writes the selected stream of videoURL to destPath. A partial
// file is removed on failure so the scratch directory never holds
// half-written media.
func (d *Downloader) Download(ctx context.Context, videoURL, destPath string) error {
	video, err := d.client.GetVideoContext(ctx, videoURL)
	if err != nil {
		return fmt.Errorf("resolve streams: %w", err)
	}

	format, ok := SelectFormat(Progressive(video.Formats, d.Container), d.Quality)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoStream, videoURL)
	}

	stream, _, err := d.client.GetStreamContext(ctx, video, &format)
	if err != nil {
		return fmt.Errorf("open stream: %w", err)
	}
	defer stream.Close()

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("create scratch file: %w", err)
	}

	if _, err := io.Copy(out, stream); err != nil {
		out.Close()
		os.Remove(destPath)
		return fmt.Errorf("download stream: %w", err)
	}

	if err := out.Close(); err != nil {
		os.Remove(destPath)
		return fmt.Errorf("close scratch file: %w", err)
	}
	return nil
}

// Progressive filters a format list down to streams that carry both
// audio and video in a single file of the given container.
func Progressive(list youtube.FormatList, container string) []youtube.Format {
	return []youtube.Format(list.Type("video/" + container).WithAudioChannels())
}

// SelectFormat orders candidates by ascending resolution and returns the
// stream whose resolution label exactly matches quality; when no exact
// match exists it falls back to the lowest-resolution candidate. This
// trades quality for bandwidth and storage.
func SelectFormat(formats []youtube.Format, quality string) (youtube.Format, bool) {
	if len(formats) == 0 {
		return youtube.Format{}, false
	}

	sorted := make([]youtube.Format, len(formats))
	copy(sorted, formats)
	sort.SliceStable(sorted, func(i, j int) bool {
		return resolutionRank(sorted[i].QualityLabel) < resolutionRank(sorted[j].QualityLabel)
	})

	for _, f := range sorted {
		if f.QualityLabel == quality {
			return f, true
		}
	}
	return sorted[0], true
}

// resolutionRank parses the numeric prefix of a label like "480p" or
// "720p60". Labels with no numeric prefix sort last.
func resolutionRank(label string) int {
	i := strings.IndexFunc(label, func(r rune) bool { return r < '0' || r > '9' })
	if i == 0 || label == "" {
		return int(^uint(0) >> 1)
	}
	if i > 0 {
		label = label[:i]
	}
	n, err := strconv.Atoi(label)
	if err != nil {
		return int(^uint(0) >> 1)
	}
	return n
}
