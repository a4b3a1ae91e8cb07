package ytdlp

import (
	"fmt"
	"sort"
	"strings"
)

// AudioExtraction asks yt-dlp to run its FFmpegExtractAudio post-processor.
type AudioExtraction struct {
	// Codec is the target audio codec, e.g. "mp3".
	Codec string
	// BitrateKbps is the target bitrate. Zero leaves yt-dlp's default quality.
	BitrateKbps int
}

// Options is the set of download options ytfetch knows how to pass to yt-dlp.
// Only these options are recognized; anything else goes through Client.ExtraArgs.
type Options struct {
	// Format is the yt-dlp format selector (-f).
	Format string
	// OutputTemplate is the output path template (-o).
	OutputTemplate string
	// MergeOutputFormat is the container used when merging separate streams.
	MergeOutputFormat string
	// ExtractAudio, when set, converts the download to an audio file.
	ExtractAudio *AudioExtraction
	// KeepVideo keeps the source file after post-processing.
	KeepVideo bool
	// PlaylistItems is passed verbatim to --playlist-items.
	PlaylistItems string
	// IgnoreErrors skips unavailable items and continues; otherwise the first
	// failure aborts the run.
	IgnoreErrors bool
	// Headers are sent with every request.
	Headers map[string]string
	// CookiesFromBrowser names the browser whose cookie store yt-dlp should read.
	CookiesFromBrowser string
	// PlayerClients are the YouTube client variants to try, in order.
	PlayerClients []string
	// FFmpegLocation points yt-dlp at a specific ffmpeg binary or directory.
	FFmpegLocation string

	// ProgressHook receives each parsed progress update.
	ProgressHook func(Progress)
	// MessageHook receives every other output line.
	MessageHook func(stream, line string)
}

// Args renders the options as yt-dlp command-line arguments.
func (o Options) Args() []string {
	var args []string

	if o.Format != "" {
		args = append(args, "--format", o.Format)
	}
	if o.OutputTemplate != "" {
		args = append(args, "--output", o.OutputTemplate)
	}
	if o.MergeOutputFormat != "" {
		args = append(args, "--merge-output-format", o.MergeOutputFormat)
	}
	if o.ExtractAudio != nil {
		args = append(args, "--extract-audio")
		if o.ExtractAudio.Codec != "" {
			args = append(args, "--audio-format", o.ExtractAudio.Codec)
		}
		if o.ExtractAudio.BitrateKbps > 0 {
			args = append(args, "--audio-quality", fmt.Sprintf("%dK", o.ExtractAudio.BitrateKbps))
		}
	}
	if o.KeepVideo {
		args = append(args, "--keep-video")
	}
	if o.PlaylistItems != "" {
		args = append(args, "--playlist-items", o.PlaylistItems)
	}
	if o.IgnoreErrors {
		args = append(args, "--ignore-errors")
	} else {
		args = append(args, "--abort-on-error")
	}

	keys := make([]string, 0, len(o.Headers))
	for k := range o.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, "--add-header", k+":"+o.Headers[k])
	}

	if o.CookiesFromBrowser != "" {
		args = append(args, "--cookies-from-browser", o.CookiesFromBrowser)
	}
	if len(o.PlayerClients) > 0 {
		args = append(args, "--extractor-args", "youtube:player_client="+strings.Join(o.PlayerClients, ","))
	}
	if o.FFmpegLocation != "" {
		args = append(args, "--ffmpeg-location", o.FFmpegLocation)
	}

	return args
}
