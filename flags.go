package main

import (
	"github.com/alecthomas/kong"
)

type options struct {
	Root     string `help:"Directory assets and the manifest are read from." default:"." type:"existingdir"`
	Manifest string `help:"Manifest file, relative to the root." default:"manifest.yaml"`

	TPS      int   `help:"Logic ticks per second." default:"100"`
	RoomSize int   `help:"Width and height of the generated level in tiles." default:"48" name:"room-size"`
	Rooms    int   `help:"Number of rooms carved into the level." default:"24"`
	Creeps   int   `help:"Number of wandering creeps." default:"12"`
	Seed     int64 `help:"Seed for tile and creep placement, 0 picks one from the clock."`

	Watch      bool `help:"Reload assets when they change on disk."`
	Mute       bool `help:"Mute audio."`
	Fullscreen bool `help:"Start in fullscreen mode."`
	Debug      bool `help:"Enable debug logging."`
}

func parseFlags() *options {
	var opts options
	kong.Parse(&opts,
		kong.Name("tilesprite"),
		kong.Description("Browse cached tiles and animated sprites in a generated room."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}))
	return &opts
}
