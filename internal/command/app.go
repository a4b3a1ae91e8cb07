// Package command is the ytfetch command line: flag parsing, the run banner and
// mapping run outcomes to exit codes.
package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"thirdcoast.systems/ytfetch/internal/config"
	"thirdcoast.systems/ytfetch/internal/downloader"
	"thirdcoast.systems/ytfetch/internal/planner"
	"thirdcoast.systems/ytfetch/internal/progress"
	"thirdcoast.systems/ytfetch/internal/videoid"
	"thirdcoast.systems/ytfetch/pkg/ffmpeg"
	"thirdcoast.systems/ytfetch/pkg/ytdlp"
)

// ErrUnavailable means yt-dlp could not be run at all.
var ErrUnavailable = errors.New("yt-dlp is not available")

// Client is the yt-dlp client the command drives.
type Client interface {
	downloader.Client
	Version(ctx context.Context) (string, error)
}

// VersionChecker reports the version of an external tool.
type VersionChecker interface {
	Version(ctx context.Context) (string, error)
}

// App wires the command to its collaborators.
type App struct {
	Config  *config.Config
	Stdout  io.Writer
	Stderr  io.Writer
	Client  Client
	FFmpeg  VersionChecker
	Cookies downloader.CookieSource
	Logger  *slog.Logger
}

func (a *App) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.Default()
	}
	return a.Logger
}

// Run parses args (args[0] is the program name), runs the download and
// returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	console := progress.NewConsole(a.Stdout)
	err := a.Command(console).Run(ctx, args)
	return a.exitCode(console, err)
}

func (a *App) exitCode(console *progress.Console, err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, downloader.ErrCancelled):
		console.Blank()
		console.Warn("Download cancelled by user")
		return 0
	case errors.Is(err, ErrUnavailable):
		if ytdlp.IsNotInstalled(err) {
			console.Error("yt-dlp is not installed")
			console.Println("Install it with: pip install yt-dlp  (see https://github.com/yt-dlp/yt-dlp#installation)")
		} else {
			cause := strings.TrimPrefix(err.Error(), ErrUnavailable.Error()+": ")
			console.Error("yt-dlp is installed but could not be run: " + cause)
			console.Println("Try updating it with: yt-dlp -U")
		}
		a.logger().Debug("startup check failed", "error", err)
		return 1
	default:
		msg := err.Error()
		var ee *ytdlp.ExecError
		if errors.As(err, &ee) {
			if line := ee.LastErrorLine(); line != "" {
				msg = line
			}
		}
		console.Blank()
		console.Error("Download failed: " + msg)
		a.logger().Error("run failed", "error", err)
		return 1
	}
}

// Command builds the root command.
func (a *App) Command(console *progress.Console) *cli.Command {
	return &cli.Command{
		Name:      "ytfetch",
		Usage:     "download YouTube videos and playlists as MP4 or MP3",
		ArgsUsage: "URL",
		Description: `Examples:
   ytfetch --format mp3 "https://www.youtube.com/watch?v=VIDEO_ID"
   ytfetch --format both "https://www.youtube.com/watch?v=VIDEO_ID"
   ytfetch --items "1-5" "https://www.youtube.com/playlist?list=PLAYLIST_ID"
   ytfetch --items "10-20,25,30-35" "https://www.youtube.com/playlist?list=PLAYLIST_ID"
   ytfetch --output ~/Videos --no-subfolder "PLAYLIST_URL"`,
		Writer:          a.Stdout,
		ErrWriter:       a.Stderr,
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "output format: mp4, mp3 or both",
				Value:   string(planner.FormatMP4),
				Action: func(_ context.Context, _ *cli.Command, v string) error {
					_, err := planner.ParseFormat(v)
					return err
				},
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "directory to save files in",
				Value:   a.Config.OutputDir,
			},
			&cli.StringFlag{
				Name:    "items",
				Aliases: []string{"i"},
				Usage:   `playlist items to download, e.g. "1-5", "1,3,5", "10-20,25"`,
				Action: func(_ context.Context, _ *cli.Command, v string) error {
					return planner.ValidateSelector(v)
				},
			},
			&cli.BoolFlag{
				Name:  "no-subfolder",
				Usage: "do not create a subfolder for playlists",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return a.action(ctx, cmd, console)
		},
	}
}

func (a *App) action(ctx context.Context, cmd *cli.Command, console *progress.Console) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one URL argument, got %d", cmd.Args().Len())
	}
	url := strings.TrimSpace(cmd.Args().First())
	if err := videoid.ValidateURL(url); err != nil {
		return fmt.Errorf("invalid url %q: %w", url, err)
	}

	format, err := planner.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	selector := cmd.String("items")
	if err := planner.ValidateSelector(selector); err != nil {
		return err
	}

	if err := a.checkTools(ctx, console, format); err != nil {
		return err
	}

	outputRoot, err := prepareOutputDir(cmd.String("output"))
	if err != nil {
		return err
	}

	req, err := planner.NewDownloadRequest(url, format, outputRoot, selector, !cmd.Bool("no-subfolder"))
	if err != nil {
		return err
	}

	printBanner(console, req)

	d := &downloader.Driver{
		Client:       a.Client,
		Console:      console,
		Cookies:      a.Cookies,
		Profile:      a.profile(),
		ProbeTimeout: a.Config.ProbeTimeout,
		Logger:       a.logger(),
	}
	report, err := d.Run(ctx, req)
	if err != nil {
		return err
	}

	console.Blank()
	console.Rule()
	if n := len(report.Failures); n > 0 {
		console.Warn(fmt.Sprintf("Finished with %d skipped item(s)", n))
	} else {
		console.Success("All files downloaded!")
	}
	console.Rule()
	return nil
}

func (a *App) profile() downloader.Profile {
	p := downloader.Profile{
		MaxHeight:        a.Config.MaxHeight,
		AudioBitrateKbps: a.Config.AudioQuality,
		UserAgent:        a.Config.UserAgent,
		IgnoreErrors:     a.Config.IgnoreErrors,
	}
	if path := a.Config.FFmpegPath; path != "" && path != ffmpeg.DefaultPath {
		p.FFmpegLocation = path
	}
	return p
}

// checkTools fails with ErrUnavailable when yt-dlp cannot run. A missing
// ffmpeg only warrants a warning: single-file MP4 downloads work without it.
func (a *App) checkTools(ctx context.Context, console *progress.Console, format planner.Format) error {
	version, err := a.Client.Version(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %w", downloader.ErrCancelled, ctx.Err())
		}
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	a.logger().Debug("yt-dlp available", "version", version)

	if a.FFmpeg == nil {
		return nil
	}
	fv, err := a.FFmpeg.Version(ctx)
	if err != nil {
		a.logger().Debug("ffmpeg check failed", "error", err)
		problem := "ffmpeg was not found"
		if !ffmpeg.IsNotInstalled(err) {
			problem = "ffmpeg could not be run"
		}
		if format != planner.FormatMP4 {
			console.Warn(problem + "; MP3 conversion will fail until it is fixed")
		} else {
			console.Warn(problem + "; separate video and audio streams cannot be merged")
		}
		return nil
	}
	a.logger().Debug("ffmpeg available", "version", fv)
	return nil
}

func prepareOutputDir(dir string) (string, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = config.DefaultOutputDir()
	}
	if dir == "~" || strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand %q: %w", dir, err)
		}
		dir = filepath.Join(home, strings.TrimPrefix(dir, "~"))
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	return abs, nil
}

func printBanner(console *progress.Console, req planner.DownloadRequest) {
	console.Rule()
	console.Heading("🎬 YouTube Downloader")
	console.Rule()
	console.Field("📁", "Output folder", req.OutputRoot)
	console.Field("🔗", "URL", req.URL)
	if videoid.IsYouTube(req.URL) {
		if id, err := videoid.ExtractPlaylistID(req.URL); err == nil {
			console.Field("🗂 ", "Playlist ID", id)
		} else if id, err := videoid.ExtractYouTubeVideoID(req.URL); err == nil {
			console.Field("🆔", "Video ID", id)
		}
	}
	console.Field("📦", "Format", strings.ToUpper(req.Format.String()))
	if req.ItemSelector != "" {
		console.Field("🔢", "Selected items", req.ItemSelector)
	}
	console.Rule()
	console.Blank()
}
