package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/lmittmann/tint"
)

type CLI struct {
	Verbose int    `short:"v" type:"counter" help:"Increase log verbosity (-v info, -vv debug)."`
	Config  string `short:"c" type:"path" help:"Path to a profiles file (default: ~/.safeio/profiles.yaml)."`
	Profile string `short:"p" help:"Named profile to load read settings from."`

	Cat   CatCmd   `cmd:"" help:"Print a file's logical lines to stdout."`
	Head  HeadCmd  `cmd:"" help:"Print the first lines of a file."`
	Count CountCmd `cmd:"" help:"Count a file's logical lines."`
	Copy  CopyCmd  `cmd:"" help:"Copy a file, normalizing newlines and optionally transcoding."`
}

func main() {
	cli := CLI{}
	ctx := kong.Parse(&cli,
		kong.Name("safeio"),
		kong.Description("Memory-bounded text file reading and writing."),
		kong.UsageOnError(),
	)

	logger := newLogger(cli.Verbose)

	env, err := newRunEnv(logger, cli.Config, cli.Profile)
	ctx.FatalIfErrorf(err)
	ctx.FatalIfErrorf(ctx.Run(env))
}

func newLogger(verbosity int) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case verbosity == 1:
		level = slog.LevelInfo
	case verbosity >= 2:
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05",
	}))
}
