package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli"

	"github.com/coreman2200/osaker/internal/config"
)

// InitConfig writes the default configuration.
func InitConfig(ctx *cli.Context) error {
	path := ctx.GlobalString("config")
	if _, err := os.Stat(path); err == nil && !ctx.Bool("force") {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := config.Save(path, config.Defaults()); err != nil {
		return err
	}
	log.Info().Str("path", path).Msg("wrote default config")
	return nil
}
