package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Info is a light wrapper over yt-dlp JSON output. It intentionally models only common fields.
// The full JSON is preserved in Raw.
type Info struct {
	ID            string            `json:"id"`
	Type          string            `json:"_type"`
	Title         string            `json:"title"`
	WebpageURL    string            `json:"webpage_url"`
	Extractor     string            `json:"extractor"`
	ExtractorKey  string            `json:"extractor_key"`
	Uploader      string            `json:"uploader"`
	Duration      float64           `json:"duration"`
	PlaylistCount int               `json:"playlist_count"`
	Entries       []json.RawMessage `json:"entries,omitempty"`
	Raw           json.RawMessage   `json:"-"`
}

// IsPlaylist reports whether the probed URL resolved to a playlist.
func (i *Info) IsPlaylist() bool {
	if i == nil {
		return false
	}
	return i.Type == "playlist" || len(i.Entries) > 0
}

// EntryCount returns the number of playlist entries, preferring the entries
// that were actually listed over the advertised playlist_count.
func (i *Info) EntryCount() int {
	if i == nil {
		return 0
	}
	if len(i.Entries) > 0 {
		return len(i.Entries)
	}
	return i.PlaylistCount
}

// GetInfo runs yt-dlp in "metadata only" mode and parses its JSON output.
// It uses: --dump-single-json --skip-download
func (c *Client) GetInfo(ctx context.Context, url string, extraArgs ...string) (*Info, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("ytdlp: url is required")
	}

	args := []string{"--dump-single-json", "--skip-download"}
	args = append(args, extraArgs...)
	args = append(args, url)

	stdout, stderr, err := c.exec(ctx, nil, args...)
	if err != nil {
		return nil, wrapExecError(c.PathOrDefault(), args, stdout, stderr, err)
	}

	raw := bytes.TrimSpace(stdout)
	info := &Info{Raw: append([]byte(nil), raw...)}
	if err := json.Unmarshal(raw, info); err != nil {
		return nil, fmt.Errorf("ytdlp: parse json: %w", err)
	}

	return info, nil
}

// ProbePlaylist fetches flat playlist metadata without resolving each entry.
func (c *Client) ProbePlaylist(ctx context.Context, url string) (*Info, error) {
	return c.GetInfo(ctx, url, "--flat-playlist", "--quiet", "--no-warnings")
}
