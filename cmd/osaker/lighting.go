package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/urfave/cli"

	"github.com/coreman2200/osaker/internal/lighting"
)

// Lighting prints the lighting state for one hour, or the whole day.
func Lighting(ctx *cli.Context) error {
	hours := make([]int, 24)
	for i := range hours {
		hours[i] = i
	}
	if ctx.NArg() > 0 {
		h, err := strconv.Atoi(ctx.Args().First())
		if err != nil || h < 0 || h > 23 {
			return fmt.Errorf("hour must be 0..23, got %q", ctx.Args().First())
		}
		hours = []int{h}
	}

	fmt.Fprintf(os.Stdout, "%-5s %-6s %-5s %-22s %-6s %s\n", "hour", "phase", "sun", "sun position", "street", "background")
	for _, h := range hours {
		s := lighting.At(h)
		phase := "night"
		if s.Daytime {
			phase = "day"
		}
		pos := fmt.Sprintf("(%.2f, %.2f, %.2f)", s.SunPosition.X, s.SunPosition.Y, s.SunPosition.Z)
		fmt.Fprintf(os.Stdout, "%-5d %-6s %-5.1f %-22s %-6.1f #%06x\n", h, phase, s.Sun, pos, s.Street, s.Background.Hex())
	}
	return nil
}
