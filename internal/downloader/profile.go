package downloader

import (
	"fmt"

	"thirdcoast.systems/ytfetch/internal/planner"
	"thirdcoast.systems/ytfetch/pkg/ytdlp"
)

// Profile holds the settings shared by every flow of a run.
type Profile struct {
	// MaxHeight caps the video resolution of the MP4 flow.
	MaxHeight int
	// AudioBitrateKbps is the MP3 target bitrate.
	AudioBitrateKbps int
	UserAgent        string
	// IgnoreErrors selects skip-and-continue for failed playlist items.
	IgnoreErrors bool
	// FFmpegLocation is passed to yt-dlp when ffmpeg is not on PATH.
	FFmpegLocation string
}

// DefaultProfile matches the built-in configuration defaults.
var DefaultProfile = Profile{
	MaxHeight:        1080,
	AudioBitrateKbps: 320,
	IgnoreErrors:     true,
}

// PlayerClients are the YouTube client variants yt-dlp tries, in order.
var PlayerClients = []string{"android", "web"}

// VideoFormat returns the MP4 format selector for maxHeight.
func VideoFormat(maxHeight int) string {
	return fmt.Sprintf("bestvideo[height<=%[1]d][ext=mp4]+bestaudio[ext=m4a]/best[height<=%[1]d][ext=mp4]/best", maxHeight)
}

// AudioFormat is the selector used before audio extraction.
const AudioFormat = "bestaudio/best"

// Options builds the yt-dlp options for one flow.
func (p Profile) Options(flow planner.Format, tmpl planner.PathTemplate, selector, cookiesBrowser string) ytdlp.Options {
	opts := ytdlp.Options{
		OutputTemplate:     tmpl.String(),
		PlaylistItems:      planner.NormalizeSelector(selector),
		IgnoreErrors:       p.IgnoreErrors,
		CookiesFromBrowser: cookiesBrowser,
		PlayerClients:      PlayerClients,
		FFmpegLocation:     p.FFmpegLocation,
	}
	if p.UserAgent != "" {
		opts.Headers = map[string]string{"User-Agent": p.UserAgent}
	}

	switch flow {
	case planner.FormatMP3:
		opts.Format = AudioFormat
		opts.ExtractAudio = &ytdlp.AudioExtraction{Codec: "mp3", BitrateKbps: p.AudioBitrateKbps}
		// Keep the original download next to the converted file.
		opts.KeepVideo = true
	default:
		opts.Format = VideoFormat(p.MaxHeight)
		opts.MergeOutputFormat = "mp4"
	}
	return opts
}
