package command

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"thirdcoast.systems/ytfetch/internal/config"
	"thirdcoast.systems/ytfetch/pkg/ytdlp"
)

type fakeClient struct {
	versionErr error
	info       *ytdlp.Info
	download   func(ctx context.Context, opts ytdlp.Options) error

	opts []ytdlp.Options
}

func (f *fakeClient) Version(ctx context.Context) (string, error) {
	if f.versionErr != nil {
		return "", f.versionErr
	}
	return "2025.01.01", nil
}

func (f *fakeClient) ProbePlaylist(ctx context.Context, url string) (*ytdlp.Info, error) {
	if f.info == nil {
		return &ytdlp.Info{ID: "abc", Title: "Song"}, nil
	}
	return f.info, nil
}

func (f *fakeClient) Download(ctx context.Context, url string, opts ytdlp.Options) error {
	f.opts = append(f.opts, opts)
	if f.download != nil {
		return f.download(ctx, opts)
	}
	return nil
}

type fakeFFmpeg struct{ err error }

func (f fakeFFmpeg) Version(ctx context.Context) (string, error) { return "6.1", f.err }

type noCookies struct{}

func (noCookies) Find() (string, bool) { return "", false }

func testConfig(outputDir string) *config.Config {
	return &config.Config{
		YtdlpPath:    "yt-dlp",
		FFmpegPath:   "ffmpeg",
		OutputDir:    outputDir,
		AudioQuality: 320,
		MaxHeight:    1080,
		IgnoreErrors: true,
		ProbeTimeout: time.Second,
		UserAgent:    config.DefaultUserAgent,
		LogLevel:     "warn",
	}
}

func newApp(t *testing.T, c *fakeClient) (*App, *bytes.Buffer, string) {
	t.Helper()
	dir := t.TempDir()
	var out bytes.Buffer
	return &App{
		Config:  testConfig(filepath.Join(dir, "default")),
		Stdout:  &out,
		Stderr:  &out,
		Client:  c,
		FFmpeg:  fakeFFmpeg{},
		Cookies: noCookies{},
	}, &out, dir
}

func TestRun_SingleVideoMP3(t *testing.T) {
	c := &fakeClient{}
	app, out, dir := newApp(t, c)
	target := filepath.Join(dir, "out")

	code := app.Run(context.Background(), []string{"ytfetch", "--format", "mp3", "--output", target, "https://www.youtube.com/watch?v=abc"})
	require.Equal(t, 0, code, out.String())

	require.DirExists(t, target)
	require.Len(t, c.opts, 1)
	require.Equal(t, filepath.Join(target, "%(title)s.%(ext)s"), c.opts[0].OutputTemplate)
	require.Equal(t, "bestaudio/best", c.opts[0].Format)
	require.Equal(t, &ytdlp.AudioExtraction{Codec: "mp3", BitrateKbps: 320}, c.opts[0].ExtractAudio)

	require.Contains(t, out.String(), "Video ID: abc")
	require.Contains(t, out.String(), "Format: MP3")
	require.Contains(t, out.String(), "All files downloaded!")
}

func TestRun_PlaylistItemsNoSubfolder(t *testing.T) {
	c := &fakeClient{info: &ytdlp.Info{Type: "playlist", Title: "Mix", PlaylistCount: 3}}
	app, out, dir := newApp(t, c)

	code := app.Run(context.Background(), []string{"ytfetch", "-o", dir, "--items", "1,3", "--no-subfolder", "https://www.youtube.com/playlist?list=PL1"})
	require.Equal(t, 0, code, out.String())

	require.Len(t, c.opts, 1)
	require.Equal(t, filepath.Join(dir, "%(title)s.%(ext)s"), c.opts[0].OutputTemplate)
	require.Equal(t, "1,3", c.opts[0].PlaylistItems)
	require.Contains(t, out.String(), "Playlist ID: PL1")
	require.Contains(t, out.String(), "Selected items: 1,3")
}

func TestRun_DefaultOutputDirIsCreated(t *testing.T) {
	c := &fakeClient{}
	app, out, _ := newApp(t, c)

	code := app.Run(context.Background(), []string{"ytfetch", "https://youtu.be/abc"})
	require.Equal(t, 0, code, out.String())
	require.DirExists(t, app.Config.OutputDir)
	require.Equal(t, filepath.Join(app.Config.OutputDir, "%(title)s.%(ext)s"), c.opts[0].OutputTemplate)
	require.Equal(t, "mp4", c.opts[0].MergeOutputFormat)
}

func TestRun_YtdlpUnavailable(t *testing.T) {
	c := &fakeClient{versionErr: &exec.Error{Name: "yt-dlp", Err: exec.ErrNotFound}}
	app, out, dir := newApp(t, c)

	code := app.Run(context.Background(), []string{"ytfetch", "-o", dir, "https://youtu.be/abc"})
	require.Equal(t, 1, code)
	require.Empty(t, c.opts)
	require.Contains(t, out.String(), "yt-dlp is not installed")
	require.Contains(t, out.String(), "pip install yt-dlp")
}

func TestRun_YtdlpInstalledButBroken(t *testing.T) {
	c := &fakeClient{versionErr: &ytdlp.ExecError{Cmd: "yt-dlp", ExitCode: 2, Cause: errors.New("exit status 2")}}
	app, out, dir := newApp(t, c)

	code := app.Run(context.Background(), []string{"ytfetch", "-o", dir, "https://youtu.be/abc"})
	require.Equal(t, 1, code)
	require.Empty(t, c.opts)
	require.Contains(t, out.String(), "yt-dlp is installed but could not be run")
	require.NotContains(t, out.String(), "yt-dlp is not installed")
	require.NotContains(t, out.String(), "pip install yt-dlp")
}

func TestRun_CancelledExitsZero(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c := &fakeClient{download: func(dctx context.Context, opts ytdlp.Options) error {
		cancel()
		<-dctx.Done()
		return &ytdlp.ExecError{Cmd: "yt-dlp", ExitCode: -1, Cause: errors.New("signal: interrupt")}
	}}
	app, out, dir := newApp(t, c)

	code := app.Run(ctx, []string{"ytfetch", "-o", dir, "--format", "both", "https://youtu.be/abc"})
	require.Equal(t, 0, code)
	require.Contains(t, out.String(), "Download cancelled by user")
	require.NotContains(t, out.String(), "Download failed")
	require.Len(t, c.opts, 1)
}

func TestRun_UnhandledErrorExitsOne(t *testing.T) {
	c := &fakeClient{download: func(ctx context.Context, opts ytdlp.Options) error {
		return &ytdlp.ExecError{
			Cmd:      "yt-dlp",
			ExitCode: 1,
			Stderr:   "ERROR: [youtube] abc: Sign in to confirm your age",
			Cause:    errors.New("exit status 1"),
		}
	}}
	app, out, dir := newApp(t, c)

	code := app.Run(context.Background(), []string{"ytfetch", "-o", dir, "https://youtu.be/abc"})
	require.Equal(t, 1, code)
	require.Contains(t, out.String(), "Download failed: ERROR: [youtube] abc: Sign in to confirm your age")
	require.NotContains(t, out.String(), "cancelled")
}

func TestRun_RejectsBadInput(t *testing.T) {
	cases := [][]string{
		{"ytfetch"},
		{"ytfetch", "not-a-url"},
		{"ytfetch", "--format", "ogg", "https://youtu.be/abc"},
		{"ytfetch", "--items", "1,,2", "https://youtu.be/abc"},
		{"ytfetch", "--items", "1:10:0", "https://youtu.be/abc"},
		{"ytfetch", "--items", " 1 , 2 ", "https://youtu.be/abc"},
		{"ytfetch", "https://youtu.be/a", "https://youtu.be/b"},
	}
	for _, args := range cases {
		c := &fakeClient{}
		app, _, _ := newApp(t, c)
		require.Equal(t, 1, app.Run(context.Background(), args), args)
		require.Empty(t, c.opts, args)
	}
}

func TestRun_MissingFFmpegWarnsButContinues(t *testing.T) {
	c := &fakeClient{}
	app, out, dir := newApp(t, c)
	app.FFmpeg = fakeFFmpeg{err: &exec.Error{Name: "ffmpeg", Err: exec.ErrNotFound}}

	code := app.Run(context.Background(), []string{"ytfetch", "-o", dir, "-f", "mp3", "https://youtu.be/abc"})
	require.Equal(t, 0, code)
	require.Contains(t, out.String(), "ffmpeg was not found; MP3 conversion will fail")
	require.Len(t, c.opts, 1)
}

func TestRun_BrokenFFmpegWarnsButContinues(t *testing.T) {
	c := &fakeClient{}
	app, out, dir := newApp(t, c)
	app.FFmpeg = fakeFFmpeg{err: errors.New("exit status 1")}

	code := app.Run(context.Background(), []string{"ytfetch", "-o", dir, "https://youtu.be/abc"})
	require.Equal(t, 0, code)
	require.Contains(t, out.String(), "ffmpeg could not be run; separate video and audio streams cannot be merged")
	require.NotContains(t, out.String(), "ffmpeg was not found")
	require.Len(t, c.opts, 1)
}

func TestRun_PassesYtdlpSelectorsThrough(t *testing.T) {
	for _, items := range []string{"1-", "3:inf", "+2", "-3--1", "1-10:2", "5-:2"} {
		c := &fakeClient{info: &ytdlp.Info{Type: "playlist", Title: "Mix", PlaylistCount: 12}}
		app, out, dir := newApp(t, c)

		code := app.Run(context.Background(), []string{"ytfetch", "-o", dir, "--items=" + items, "https://www.youtube.com/playlist?list=PL1"})
		require.Equal(t, 0, code, out.String())
		require.Len(t, c.opts, 1, items)
		require.Equal(t, items, c.opts[0].PlaylistItems)
	}
}

func TestRun_SkippedItemsAreNotReportedAsComplete(t *testing.T) {
	c := &fakeClient{download: func(ctx context.Context, opts ytdlp.Options) error {
		opts.MessageHook("stderr", "ERROR: [youtube] abc: Video unavailable")
		return &ytdlp.ExecError{Cmd: "yt-dlp", ExitCode: 1, Cause: errors.New("exit status 1")}
	}}
	app, out, dir := newApp(t, c)

	code := app.Run(context.Background(), []string{"ytfetch", "-o", dir, "https://youtu.be/abc"})
	require.Equal(t, 0, code)
	require.Contains(t, out.String(), "Finished with 1 skipped item(s)")
	require.NotContains(t, out.String(), "All files downloaded!")
}

func TestProfile_CustomFFmpegPath(t *testing.T) {
	app, _, _ := newApp(t, &fakeClient{})
	require.Empty(t, app.profile().FFmpegLocation)

	app.Config.FFmpegPath = "/opt/ffmpeg/bin/ffmpeg"
	require.Equal(t, "/opt/ffmpeg/bin/ffmpeg", app.profile().FFmpegLocation)
}

func TestPrepareOutputDir_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir, err := prepareOutputDir("~/Music/yt")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, "Music", "yt"), dir)
	require.DirExists(t, dir)
}
