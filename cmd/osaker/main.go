package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	app := cli.NewApp()
	app.Name = "osaker"
	app.Usage = "drive an audio-reactive 3D clock scene"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.StringFlag{
			Name:  "config, c",
			Value: "config.yaml",
			Usage: "path to config.yaml",
		},
	}
	app.Before = func(ctx *cli.Context) error {
		setupLogging(ctx)
		return nil
	}
	app.Commands = []cli.Command{
		{
			Name:  "run",
			Usage: "run the scene driver",
			Description: `
Build the scene, start audio and the clock label, and render frames to the
configured sinks until interrupted. Flags override values from the config file.`,
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "audio, a",
					Usage: "audio track (.wav or .mp3)",
				},
				cli.StringFlag{
					Name:  "font",
					Usage: "TTF/OTF font for the clock label",
				},
				cli.IntFlag{
					Name:  "fps",
					Usage: "frames per second",
				},
				cli.StringFlag{
					Name:  "led",
					Usage: "led driver: none | sim | spi",
				},
				cli.StringFlag{
					Name:  "addr",
					Usage: "preview server listen address",
				},
				cli.BoolFlag{
					Name:  "no-day-night",
					Usage: "disable day/night lighting",
				},
			},
			Action: Run,
		},
		{
			Name:  "config",
			Usage: "manage the config file",
			Subcommands: []cli.Command{
				{
					Name:   "init",
					Usage:  "write a config file with default values",
					Flags:  []cli.Flag{cli.BoolFlag{Name: "force, f", Usage: "overwrite an existing file"}},
					Action: InitConfig,
				},
			},
		},
		{
			Name:      "lighting",
			Usage:     "print the day/night lighting for every hour",
			ArgsUsage: "[hour]",
			Action:    Lighting,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("osaker")
	}
}

func setupLogging(ctx *cli.Context) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if ctx.GlobalBool("v") {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}
