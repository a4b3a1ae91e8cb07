package ytdlp

import (
	"context"
	"fmt"
	"strings"
)

// Download fetches url with the given options and blocks until yt-dlp exits.
//
// Progress is requested through ProgressTemplate so every hook call arrives as
// a parsed Progress on opts.ProgressHook; all other output lines go to
// opts.MessageHook.
func (c *Client) Download(ctx context.Context, url string, opts Options) error {
	if strings.TrimSpace(url) == "" {
		return fmt.Errorf("ytdlp: url is required")
	}
	if strings.TrimSpace(opts.OutputTemplate) == "" {
		return fmt.Errorf("ytdlp: output template is required")
	}

	args := []string{
		"--newline",
		"--no-colors",
		"--progress",
		"--progress-template", ProgressTemplate,
	}
	args = append(args, opts.Args()...)
	args = append(args, "--", url)

	onLine := func(stream, line string) {
		if p, ok := ParseProgressLine(line); ok {
			if opts.ProgressHook != nil {
				opts.ProgressHook(p)
			}
			return
		}
		if opts.MessageHook != nil {
			opts.MessageHook(stream, line)
		}
	}

	stdout, stderr, err := c.exec(ctx, onLine, args...)
	if err != nil {
		return wrapExecError(c.PathOrDefault(), args, stdout, stderr, err)
	}
	return nil
}
