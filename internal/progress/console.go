// Package progress renders run status and yt-dlp progress to the console.
//
// All output goes through a Console bound to one io.Writer, so tests can swap
// stdout for a buffer.
package progress

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"thirdcoast.systems/ytfetch/pkg/utils/format"
	"thirdcoast.systems/ytfetch/pkg/ytdlp"
)

const (
	ruleWidth     = 80
	filenameWidth = 50
)

// Console is the single owner of user-facing output for a run.
type Console struct {
	mu sync.Mutex
	w  io.Writer

	// inLine is set while a carriage-return progress line is on screen.
	inLine bool

	heading lipgloss.Style
	ok      lipgloss.Style
	warn    lipgloss.Style
	fail    lipgloss.Style
	label   lipgloss.Style
}

// NewConsole returns a Console writing to w. Colors are only emitted when w is a terminal.
func NewConsole(w io.Writer) *Console {
	r := lipgloss.NewRenderer(w)
	return &Console{
		w:       w,
		heading: r.NewStyle().Bold(true),
		ok:      r.NewStyle().Foreground(lipgloss.Color("2")),
		warn:    r.NewStyle().Foreground(lipgloss.Color("3")),
		fail:    r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		label:   r.NewStyle().Faint(true),
	}
}

func (c *Console) println(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inLine {
		fmt.Fprintln(c.w)
		c.inLine = false
	}
	fmt.Fprintln(c.w, s)
}

// Println writes a plain line.
func (c *Console) Println(s string) { c.println(s) }

// Printf writes a formatted plain line.
func (c *Console) Printf(format string, a ...any) { c.println(fmt.Sprintf(format, a...)) }

// Blank writes an empty line.
func (c *Console) Blank() { c.println("") }

// Rule writes a horizontal separator.
func (c *Console) Rule() { c.println(strings.Repeat("=", ruleWidth)) }

// Heading writes a bold line.
func (c *Console) Heading(s string) { c.println(c.heading.Render(s)) }

// Field writes a "label: value" line.
func (c *Console) Field(icon, label, value string) {
	c.println(icon + " " + c.label.Render(label+":") + " " + value)
}

// Success writes a success line.
func (c *Console) Success(s string) { c.println(c.ok.Render("✅ " + s)) }

// Warn writes a warning line.
func (c *Console) Warn(s string) { c.println(c.warn.Render("⚠️  " + s)) }

// Error writes a failure line.
func (c *Console) Error(s string) { c.println(c.fail.Render("❌ " + s)) }

// Progress renders one progress hook update. Downloading updates overwrite
// the current line; finished and error updates end it.
func (c *Console) Progress(p ytdlp.Progress) {
	name := format.PadRight(format.Truncate(filepath.Base(p.Filename), filenameWidth), filenameWidth)

	c.mu.Lock()
	defer c.mu.Unlock()

	switch p.Status {
	case ytdlp.StatusDownloading:
		fmt.Fprintf(c.w, "\r⏬ %s | %s | %s | ETA: %s",
			name,
			format.PadLeft(percent(p), 7),
			format.PadLeft(speed(p), 12),
			format.PadLeft(eta(p), 8),
		)
		c.inLine = true
	case ytdlp.StatusFinished:
		done := "Done"
		if p.TotalBytes > 0 {
			done += " (" + size(p.TotalBytes) + ")"
		}
		fmt.Fprintf(c.w, "\r%s %s | %s%s\n", c.ok.Render("✓"), name, done, strings.Repeat(" ", 30))
		c.inLine = false
	case ytdlp.StatusError:
		fmt.Fprintf(c.w, "\r%s%s\n", c.fail.Render("❌ Download error"), strings.Repeat(" ", 70))
		c.inLine = false
	}
}

func percent(p ytdlp.Progress) string {
	if s := strings.TrimSpace(p.Percent); s != "" {
		return s
	}
	if p.TotalBytes > 0 {
		return fmt.Sprintf("%.1f%%", float64(p.DownloadedBytes)*100/float64(p.TotalBytes))
	}
	return "???"
}

func speed(p ytdlp.Progress) string {
	if p.Speed <= 0 {
		return "???"
	}
	return humanize.IBytes(uint64(p.Speed)) + "/s"
}

func eta(p ytdlp.Progress) string {
	if p.ETA < 0 {
		return "???"
	}
	return format.Duration(float64(p.ETA))
}

func size(n int64) string {
	if n <= 0 {
		return "0 B"
	}
	return humanize.IBytes(uint64(n))
}
