package planner

import (
	"context"
	"log/slog"
	"time"

	"thirdcoast.systems/ytfetch/pkg/ytdlp"
)

// PlaylistInfo describes what a URL points at.
type PlaylistInfo struct {
	IsPlaylist bool
	// Title is empty when unknown.
	Title     string
	ItemCount int
}

// SingleItem is the classification used whenever the metadata probe fails.
var SingleItem = PlaylistInfo{IsPlaylist: false, ItemCount: 1}

// Prober fetches flat metadata for a URL without downloading media.
type Prober interface {
	ProbePlaylist(ctx context.Context, url string) (*ytdlp.Info, error)
}

// Classify probes url once and reports whether it is a playlist.
//
// Probe failures (including timeouts) never propagate: the URL is treated as
// a single item so a metadata error cannot block an ordinary video download.
// The recovery is logged at debug level. A timeout of zero means no extra
// deadline beyond ctx.
func Classify(ctx context.Context, logger *slog.Logger, prober Prober, url string, timeout time.Duration) PlaylistInfo {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	info, err := prober.ProbePlaylist(ctx, url)
	if err != nil {
		logger.Debug("metadata probe failed, treating url as a single item", "url", url, "error", err)
		return SingleItem
	}
	if !info.IsPlaylist() {
		return SingleItem
	}

	return PlaylistInfo{
		IsPlaylist: true,
		Title:      info.Title,
		ItemCount:  info.EntryCount(),
	}
}
