package main

import (
	"log/slog"
	"os"

	"colorpick/inspect"
	"colorpick/parallel"
	"colorpick/repaint"
	"colorpick/sorter"

	"github.com/alecthomas/kong"
)

var cli struct {
	LogLevel string `help:"Log level" enum:"debug,info,warn,error" default:"info"`
	Verbose  bool   `help:"Shortcut for --log-level=debug" short:"v"`
	Workers  int    `help:"Number of parallel workers, 0 uses every CPU" default:"0"`

	Palette  inspect.PaletteCmd  `cmd:"" help:"Extract the color palette of images"`
	Dominant inspect.DominantCmd `cmd:"" help:"Print the dominant color of images with its code point and derivative colors"`
	Nearest  inspect.NearestCmd  `cmd:"" help:"Find the palette color of images closest to a given color"`
	Repaint  repaint.CLICmd      `cmd:"" help:"Recolor images with their own extracted palette"`
	Sort     sorter.CLICmd       `cmd:"" help:"Sort images into folders by dominant color family"`
}

func logLevel() slog.Level {
	if cli.Verbose {
		return slog.LevelDebug
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cli.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("colorpick"),
		kong.Description("Extract color palettes from images with modified median cut quantization."),
		kong.UsageOnError(),
	)

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel()})))

	pool := parallel.Start(cli.Workers)
	slog.Debug("running", "command", kctx.Command(), "workers", pool.Workers())

	if err := kctx.Run(pool); err != nil {
		slog.Error("command failed", "command", kctx.Command(), "error", err)
		os.Exit(1)
	}
}
