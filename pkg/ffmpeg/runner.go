package ffmpeg

import (
	"fmt"
	"strings"
)

// Error represents an ffmpeg execution error with context.
type Error struct {
	Args   []string
	Stderr string
	Err    error
}

// Error implements error.
func (e *Error) Error() string {
	// Extract just the last few lines of stderr for the error message
	lines := strings.Split(strings.TrimSpace(e.Stderr), "\n")
	var lastLines string
	if len(lines) > 3 {
		lastLines = strings.Join(lines[len(lines)-3:], "\n")
	} else {
		lastLines = strings.Join(lines, "\n")
	}

	if lastLines != "" {
		return fmt.Sprintf("ffmpeg: %v: %s", e.Err, lastLines)
	}
	return fmt.Sprintf("ffmpeg: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Command returns the command that was executed.
func (e *Error) Command() string {
	return "ffmpeg " + strings.Join(e.Args, " ")
}
