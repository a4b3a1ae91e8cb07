package ytdlp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
)

// DefaultPath is the executable name used when Client.Path is empty.
const DefaultPath = "yt-dlp"

// streamWriter wraps an io.Writer and calls a callback for each line.
type streamWriter struct {
	stream   string
	callback func(stream string, line string)
	buffer   *bytes.Buffer
	pending  []byte
}

func (w *streamWriter) Write(p []byte) (n int, err error) {
	if w.buffer != nil {
		w.buffer.Write(p)
	}

	w.pending = append(w.pending, p...)

	// yt-dlp progress output often uses carriage returns (\r) to update the same
	// console line, so both \n and \r are line boundaries.
	for {
		idx := bytes.IndexAny(w.pending, "\r\n")
		if idx < 0 {
			break
		}

		line := string(w.pending[:idx])

		consume := 1
		if w.pending[idx] == '\r' && idx+1 < len(w.pending) && w.pending[idx+1] == '\n' {
			consume = 2
		}
		w.pending = w.pending[idx+consume:]

		if w.callback != nil {
			trimmed := strings.TrimSpace(line)
			if trimmed != "" {
				w.callback(w.stream, trimmed)
			}
		}
	}

	return len(p), nil
}

// Flush delivers a trailing line that was not terminated by a delimiter.
func (w *streamWriter) Flush() {
	if len(w.pending) == 0 {
		return
	}
	line := strings.TrimSpace(string(w.pending))
	w.pending = nil
	if line != "" && w.callback != nil {
		w.callback(w.stream, line)
	}
}

type ExecError struct {
	Cmd      string
	Args     []string
	ExitCode int
	Stdout   string
	Stderr   string
	Cause    error
}

func (e *ExecError) Error() string {
	cmdline := strings.TrimSpace(e.Cmd + " " + strings.Join(e.Args, " "))
	if e.ExitCode != 0 {
		return fmt.Sprintf("ytdlp: command failed (exit %d): %s", e.ExitCode, cmdline)
	}
	return fmt.Sprintf("ytdlp: command failed: %s", cmdline)
}

func (e *ExecError) Unwrap() error { return e.Cause }

// LastErrorLine returns the last "ERROR:" line yt-dlp wrote to stderr, if any.
func (e *ExecError) LastErrorLine() string {
	lines := strings.Split(e.Stderr, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		l := strings.TrimSpace(lines[i])
		if strings.HasPrefix(l, "ERROR:") {
			return l
		}
	}
	return ""
}

// IsNotInstalled reports whether err means the yt-dlp executable could not be found.
func IsNotInstalled(err error) bool {
	return errors.Is(err, exec.ErrNotFound)
}

type Client struct {
	// Path to yt-dlp executable. Defaults to "yt-dlp" (PATH lookup).
	Path string

	// ExtraArgs are always appended before per-call args.
	ExtraArgs []string

	// LogCallback is called for each line of stdout/stderr output when a call
	// does not supply its own line handler.
	LogCallback func(stream string, line string)

	execFn func(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error
}

func New() *Client {
	return &Client{Path: DefaultPath}
}

// PathOrDefault returns the configured path or "yt-dlp" if unset.
func (c *Client) PathOrDefault() string {
	if strings.TrimSpace(c.Path) == "" {
		return DefaultPath
	}
	return c.Path
}

func (c *Client) exec(ctx context.Context, onLine func(stream, line string), args ...string) (stdout []byte, stderr []byte, err error) {
	name := c.PathOrDefault()

	fullArgs := make([]string, 0, len(c.ExtraArgs)+len(args))
	fullArgs = append(fullArgs, c.ExtraArgs...)
	fullArgs = append(fullArgs, args...)

	if onLine == nil {
		onLine = c.LogCallback
	}

	var outBuf, errBuf bytes.Buffer
	var outW, errW io.Writer = &outBuf, &errBuf
	var flushers []*streamWriter
	if onLine != nil {
		// stdout and stderr are copied on separate goroutines.
		var mu sync.Mutex
		cb := onLine
		onLine = func(stream, line string) {
			mu.Lock()
			defer mu.Unlock()
			cb(stream, line)
		}
		so := &streamWriter{stream: "stdout", callback: onLine, buffer: &outBuf}
		se := &streamWriter{stream: "stderr", callback: onLine, buffer: &errBuf}
		outW, errW = so, se
		flushers = append(flushers, so, se)
	}

	run := c.execFn
	if run == nil {
		run = runCommand
	}

	slog.Debug("ytdlp: executing command", "cmd", name, "args", fullArgs)
	err = run(ctx, name, fullArgs, outW, errW)
	for _, f := range flushers {
		f.Flush()
	}

	return outBuf.Bytes(), errBuf.Bytes(), err
}

func runCommand(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// Version returns `yt-dlp --version`.
func (c *Client) Version(ctx context.Context) (string, error) {
	args := []string{"--version"}
	stdout, stderr, err := c.exec(ctx, nil, args...)
	if err != nil {
		return "", wrapExecError(c.PathOrDefault(), args, stdout, stderr, err)
	}
	return strings.TrimSpace(string(stdout)), nil
}

func wrapExecError(cmd string, args []string, stdout []byte, stderr []byte, cause error) error {
	exitCode := 0
	var ee *exec.ExitError
	if errors.As(cause, &ee) {
		exitCode = ee.ExitCode()
	}
	var coder interface{ ExitCode() int }
	if exitCode == 0 && errors.As(cause, &coder) {
		exitCode = coder.ExitCode()
	}

	return &ExecError{
		Cmd:      cmd,
		Args:     args,
		ExitCode: exitCode,
		Stdout:   strings.TrimSpace(string(stdout)),
		Stderr:   strings.TrimSpace(string(stderr)),
		Cause:    cause,
	}
}
