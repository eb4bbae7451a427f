package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Debug    bool             `help:"Enable debug logging"`
	NoColor  bool             `help:"Disable colored output" env:"NO_COLOR"`
	Serve    ServeCmd         `cmd:"" help:"Serve tables over WebSocket"`
	Simulate SimulateCmd      `cmd:"" help:"Play bots against each other and report results"`
	Eval     EvalCmd          `cmd:"" help:"Evaluate and compare hands"`
	Odds     OddsCmd          `cmd:"" help:"Estimate showdown equity by Monte Carlo"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("holdem"),
		kong.Description("No-limit Texas Hold'em engine, server and simulator"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	if cli.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	err := ctx.Run(newLogger(cli.Debug))
	ctx.FatalIfErrorf(err)
}

func newLogger(debug bool) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
	if debug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}
