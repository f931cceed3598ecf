package cmd

import (
	"context"
	"fmt"
	"runtime"

	"github.com/urfave/cli/v3"

	"github.com/msugsc-shs/research-archive/pkg/version"
)

// VersionCommand creates the version command
func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show version information",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "short",
				Usage: "Print only the version number",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Bool("short") {
				fmt.Println(version.APIVersion())
				return nil
			}
			fmt.Printf("%s %s/%s %s\n", version.BuildVersion(), runtime.GOOS, runtime.GOARCH, runtime.Version())
			return nil
		},
	}
}
