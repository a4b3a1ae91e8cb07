package ytdlp

import (
	"strconv"
	"strings"
)

// progressPrefix marks lines emitted through ProgressTemplate.
const progressPrefix = "[ytfetch-progress]"

// ProgressTemplate makes yt-dlp print one machine-readable line per progress
// hook call. Missing fields render as "NA". The filename comes last because it
// may itself contain the separator.
const ProgressTemplate = "download:" + progressPrefix +
	"%(progress.status)s|" +
	"%(progress.downloaded_bytes)s|" +
	"%(progress.total_bytes)s|" +
	"%(progress.total_bytes_estimate)s|" +
	"%(progress.speed)s|" +
	"%(progress.eta)s|" +
	"%(progress._percent_str)s|" +
	"%(info.playlist_index)s|" +
	"%(progress.filename)s"

const progressFields = 9

// Progress status values reported by yt-dlp progress hooks.
const (
	StatusDownloading = "downloading"
	StatusFinished    = "finished"
	StatusError       = "error"
)

// Progress is a single progress hook update.
type Progress struct {
	Status          string
	DownloadedBytes int64
	// TotalBytes is the exact size, or yt-dlp's estimate when the exact size is unknown.
	TotalBytes int64
	// Speed in bytes per second; zero when unknown.
	Speed float64
	// ETA in seconds; negative when unknown.
	ETA int64
	// Percent is yt-dlp's preformatted percentage, e.g. "42.0%".
	Percent       string
	PlaylistIndex int
	Filename      string
}

// ParseProgressLine parses a line produced by ProgressTemplate.
func ParseProgressLine(line string) (Progress, bool) {
	line = strings.TrimSpace(line)
	rest, ok := strings.CutPrefix(line, progressPrefix)
	if !ok {
		return Progress{}, false
	}

	parts := strings.SplitN(rest, "|", progressFields)
	if len(parts) != progressFields {
		return Progress{}, false
	}

	p := Progress{
		Status:          strings.TrimSpace(parts[0]),
		DownloadedBytes: parseInt(parts[1], 0),
		TotalBytes:      parseInt(parts[2], 0),
		Speed:           parseFloat(parts[4]),
		ETA:             parseInt(parts[5], -1),
		Percent:         naToEmpty(parts[6]),
		PlaylistIndex:   int(parseInt(parts[7], 0)),
		Filename:        naToEmpty(parts[8]),
	}
	if p.TotalBytes == 0 {
		p.TotalBytes = parseInt(parts[3], 0)
	}
	if p.Status == "" {
		return Progress{}, false
	}
	return p, true
}

func naToEmpty(s string) string {
	s = strings.TrimSpace(s)
	if s == "NA" {
		return ""
	}
	return s
}

func parseInt(s string, def int64) int64 {
	s = naToEmpty(s)
	if s == "" {
		return def
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	// yt-dlp prints some counters as floats (e.g. total_bytes_estimate).
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f)
	}
	return def
}

func parseFloat(s string) float64 {
	s = naToEmpty(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
