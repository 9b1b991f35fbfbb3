package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Globals

	Version kong.VersionFlag `short:"v" help:"Show version"`
	Play    PlayCmd          `cmd:"" default:"withargs" help:"Run the interactive advisor"`
	Advise  AdviseCmd        `cmd:"" help:"Recommend an action for one hand"`
	Count   CountCmd         `cmd:"" help:"Show the true count and suggested bet"`
	Serve   ServeCmd         `cmd:"" help:"Serve advisory sessions over WebSocket"`
	History HistoryCmd       `cmd:"" help:"Work with archived statistics"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("advisor"),
		kong.Description("Blackjack basic strategy and Hi-Lo card counting advisor"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
