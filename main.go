package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/yefei/zenorm-generate/internal/commands"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	short := commit
	if len(commit) > 7 {
		short = commit[:7]
	}

	return fmt.Sprintf("%s (%s) %s", version, short, date)
}

func main() {
	ctrl := &commands.Controller{
		Flags: &commands.Flags{},
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	watchFlag := func() cli.Flag {
		return &cli.BoolFlag{
			Name:        "watch",
			Aliases:     []string{"w"},
			Usage:       "regenerate when the config file changes",
			Destination: &ctrl.Flags.Watch,
		}
	}

	generate := func(ctx context.Context, c *cli.Command) error {
		return ctrl.Generate(ctx, c.Args().First())
	}

	app := &cli.Command{
		Name:      "zenorm-generate",
		Usage:     "Generate zenorm TypeScript models from a database schema",
		ArgsUsage: "[config]",
		Version:   build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (trace, debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("ZENORM_LOG_LEVEL"),
				Value:       "info",
				Destination: &ctrl.Flags.LogLevel,
			},
			watchFlag(),
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			level, err := zerolog.ParseLevel(c.String("log-level"))
			if err != nil {
				return ctx, fmt.Errorf("failed to parse log level: %w", err)
			}

			log.Logger = log.Level(level)

			return ctx, nil
		},
		Action: generate,
		Commands: []*cli.Command{
			{
				Name:      "generate",
				Usage:     "Write model files for every table the source reports",
				ArgsUsage: "[config]",
				Flags:     []cli.Flag{watchFlag()},
				Action:    generate,
			},
			{
				Name:      "tables",
				Usage:     "List source tables and whether they would be generated",
				ArgsUsage: "[config]",
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Tables(ctx, c.Args().First())
				},
			},
			{
				Name:  "init",
				Usage: "Create a zenorm config file in the current directory",
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Init(ctx)
				},
			},
		},
	}

	ctx := context.Background()

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Msg("failed to run zenorm-generate")
	}
}
