package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/msugsc-shs/research-archive/cmd"
	"github.com/msugsc-shs/research-archive/pkg/config"
	"github.com/msugsc-shs/research-archive/pkg/log"
)

func main() {
	app := &cli.Command{
		Name:  "shs-archive",
		Usage: "Search and cite the MSU-GSC SHS research archive",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
				Value: false,
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Configuration file path",
				Value: getDefaultConfigPathOrExit(),
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Environment file loaded before the configuration",
				Value: ".env",
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			log.SetGlobalDebug(c.Bool("debug"))
			if err := config.LoadEnvFile(c.String("env-file")); err != nil {
				return ctx, err
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			cmd.InitCommand(),
			cmd.WebCommand(),
			cmd.FetchCommand(),
			cmd.SearchCommand(),
			cmd.ShowCommand(),
			cmd.KeywordsCommand(),
			cmd.VersionCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func getDefaultConfigPathOrExit() string {
	path, err := config.GetDefaultConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to get default config path: %v\n", err)
		os.Exit(1)
	}
	return path
}
