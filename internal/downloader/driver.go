package downloader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"thirdcoast.systems/ytfetch/internal/cookies"
	"thirdcoast.systems/ytfetch/internal/planner"
	"thirdcoast.systems/ytfetch/internal/progress"
	"thirdcoast.systems/ytfetch/pkg/ytdlp"
)

// ErrCancelled is returned when the run was interrupted by the user.
var ErrCancelled = errors.New("download cancelled")

// Client is the part of the yt-dlp client a run needs.
type Client interface {
	ProbePlaylist(ctx context.Context, url string) (*ytdlp.Info, error)
	Download(ctx context.Context, url string, opts ytdlp.Options) error
}

// CookieSource finds a browser to read cookies from.
type CookieSource interface {
	Find() (string, bool)
}

// Failure is one playlist item yt-dlp could not fetch.
type Failure struct {
	Flow    planner.Format
	Message string
}

// Report summarizes a finished run.
type Report struct {
	Flows    []planner.Format
	Failures []Failure
}

// Driver runs download requests.
type Driver struct {
	Client       Client
	Console      *progress.Console
	Cookies      CookieSource
	Profile      Profile
	ProbeTimeout time.Duration
	Logger       *slog.Logger
}

func (d *Driver) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.Default()
	}
	return d.Logger
}

// Run downloads req, one format flow at a time.
//
// With IgnoreErrors set, items yt-dlp skips are collected into the report
// and summarized as warnings; the run still succeeds. Cancellation of ctx
// is returned as ErrCancelled.
func (d *Driver) Run(ctx context.Context, req planner.DownloadRequest) (*Report, error) {
	report := &Report{}

	browser := d.resolveCookies()
	d.Console.Blank()

	for i, flow := range req.Format.Flows() {
		if i > 0 {
			d.Console.Blank()
			d.Console.Rule()
			d.Console.Blank()
		}

		failures, err := d.runFlow(ctx, req, flow, browser)
		report.Failures = append(report.Failures, failures...)
		if err != nil {
			return report, err
		}
		report.Flows = append(report.Flows, flow)
	}

	if len(report.Failures) > 0 {
		d.Console.Blank()
		d.Console.Warn(fmt.Sprintf("%d item(s) could not be downloaded:", len(report.Failures)))
		for _, f := range report.Failures {
			d.Console.Printf("   [%s] %s", strings.ToUpper(f.Flow.String()), f.Message)
		}
	}

	return report, nil
}

func (d *Driver) resolveCookies() string {
	if d.Cookies == nil {
		return ""
	}
	browser, ok := d.Cookies.Find()
	if !ok {
		d.logger().Debug("no browser cookie source, continuing unauthenticated")
		d.Console.Warn("Browser cookies are unavailable, downloading without authentication")
		return ""
	}
	d.Console.Printf("✓ Using cookies from %s", cookies.DisplayName(browser))
	return browser
}

func (d *Driver) runFlow(ctx context.Context, req planner.DownloadRequest, flow planner.Format, browser string) ([]Failure, error) {
	log := d.logger().With("flow", flow.String(), "url", req.URL)

	info := planner.Classify(ctx, log, d.Client, req.URL, d.ProbeTimeout)
	tmpl := planner.BuildTemplate(req.OutputRoot, info, req.CreateSubfolder)

	var failures []Failure
	opts := d.Profile.Options(flow, tmpl, req.ItemSelector, browser)
	opts.ProgressHook = d.Console.Progress
	opts.MessageHook = func(stream, line string) {
		if msg, ok := strings.CutPrefix(line, "ERROR:"); ok {
			failures = append(failures, Failure{Flow: flow, Message: strings.TrimSpace(msg)})
			log.Warn("yt-dlp reported an error", "message", strings.TrimSpace(msg))
			return
		}
		log.Debug("yt-dlp", "stream", stream, "line", line)
	}

	if info.IsPlaylist {
		title := info.Title
		if title == "" {
			title = "Unknown playlist"
		}
		d.Console.Printf("📋 Playlist detected: %s", title)
		d.Console.Printf("📊 Videos: %d", info.ItemCount)
	}
	if flow == planner.FormatMP3 {
		d.Console.Println("🎵 Downloading audio as MP3...")
	} else {
		d.Console.Println("🎥 Downloading video as MP4...")
	}
	d.Console.Blank()

	log.Info("starting download", "template", tmpl.String(), "items", req.ItemSelector, "playlist", info.IsPlaylist)
	err := d.Client.Download(ctx, req.URL, opts)

	if ctx.Err() != nil {
		return failures, fmt.Errorf("%w: %w", ErrCancelled, ctx.Err())
	}
	if err != nil {
		var ee *ytdlp.ExecError
		partial := errors.As(err, &ee) && ee.ExitCode == 1 && len(failures) > 0
		if !(d.Profile.IgnoreErrors && partial) {
			return failures, fmt.Errorf("download %s: %w", flow, err)
		}
		log.Info("download finished with skipped items", "failed", len(failures))
	}

	d.Console.Blank()
	kind := "Video"
	if flow == planner.FormatMP3 {
		kind = "Audio"
	}
	if len(failures) > 0 {
		d.Console.Warn(fmt.Sprintf("%s download finished with %d skipped item(s)", kind, len(failures)))
	} else {
		d.Console.Success(kind + " downloaded")
	}
	return failures, nil
}
