package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/msugsc-shs/research-archive/pkg/config"
)

// InitCommand creates the init command
func InitCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Initialize configuration",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite an existing configuration file",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return initConfig(c.String("config"), c.Bool("force"))
		},
	}
}

// initConfig writes the commented sample configuration
func initConfig(configPath string, force bool) error {
	if !force && fileExists(configPath) {
		return fmt.Errorf("%s already exists, use --force to overwrite it", configPath)
	}

	storageDir, err := config.GetDefaultStorageDir()
	if err != nil {
		return fmt.Errorf("getting default storage directory: %w", err)
	}
	if err := config.SaveTemplateConfig(configPath, storageDir); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Printf("Configuration initialized at %s\n", configPath)
	return nil
}
