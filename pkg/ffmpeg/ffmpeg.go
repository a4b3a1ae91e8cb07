// Package ffmpeg checks for the ffmpeg binary yt-dlp uses for post-processing.
package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"
)

// DefaultPath is the executable name used when Binary.Path is empty.
const DefaultPath = "ffmpeg"

// Binary is an ffmpeg executable.
type Binary struct {
	// Path to ffmpeg. Defaults to "ffmpeg" (PATH lookup).
	Path string

	execFn func(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error
}

// New returns a Binary for path.
func New(path string) *Binary {
	return &Binary{Path: path}
}

// PathOrDefault returns the configured path or "ffmpeg" if unset.
func (b *Binary) PathOrDefault() string {
	if strings.TrimSpace(b.Path) == "" {
		return DefaultPath
	}
	return b.Path
}

// Version runs `ffmpeg -version` and returns the version token from its first
// line, e.g. "6.1.1" for "ffmpeg version 6.1.1 Copyright ...".
func (b *Binary) Version(ctx context.Context) (string, error) {
	args := []string{"-hide_banner", "-version"}

	run := b.execFn
	if run == nil {
		run = func(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error {
			cmd := exec.CommandContext(ctx, name, args...)
			cmd.Stdout = stdout
			cmd.Stderr = stderr
			return cmd.Run()
		}
	}

	var stdout, stderr bytes.Buffer
	if err := run(ctx, b.PathOrDefault(), args, &stdout, &stderr); err != nil {
		return "", &Error{Args: args, Stderr: stderr.String(), Err: err}
	}
	return parseVersion(stdout.String()), nil
}

// IsNotInstalled reports whether err means the ffmpeg executable could not be found.
func IsNotInstalled(err error) bool {
	return errors.Is(err, exec.ErrNotFound)
}

func parseVersion(out string) string {
	first, _, _ := strings.Cut(strings.TrimSpace(out), "\n")
	fields := strings.Fields(first)
	for i := 0; i+1 < len(fields); i++ {
		if fields[i] == "version" {
			return fields[i+1]
		}
	}
	return strings.TrimSpace(first)
}
