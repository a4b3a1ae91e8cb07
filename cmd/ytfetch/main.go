package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"thirdcoast.systems/ytfetch/internal/command"
	"thirdcoast.systems/ytfetch/internal/config"
	"thirdcoast.systems/ytfetch/internal/cookies"
	"thirdcoast.systems/ytfetch/pkg/ffmpeg"
	"thirdcoast.systems/ytfetch/pkg/ytdlp"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conf, err := config.LoadConfig(ctx)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: conf.SlogLevel()})).
		With("run_id", uuid.NewString())
	slog.SetDefault(logger)

	client := ytdlp.New()
	client.Path = conf.YtdlpPath

	prober := cookies.NewProber(conf.CookiesBrowser)
	prober.Logger = logger

	app := &command.App{
		Config:  conf,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Client:  client,
		FFmpeg:  ffmpeg.New(conf.FFmpegPath),
		Cookies: prober,
		Logger:  logger,
	}
	return app.Run(ctx, os.Args)
}
