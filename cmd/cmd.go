// submodule cmd contains command definitions
package main

import (
	"time"

	"github.com/urfave/cli/v3"
)

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   defaultConfigPath,
	}
}

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "json",
		Usage: "Output JSON",
	}
}

// setupCommand handles database setup operations.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the most recent migration",
				Flags:  []cli.Flag{configFlag()},
				Action: r.RollbackDatabase,
			},
		},
	}
}

// serveCommand runs the HTTP API.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the score API until interrupted",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (default from server.host)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Listen port (default from server.port)",
			},
		},
		Action: r.Serve,
	}
}

// chartCommand handles chart files and registered charts.
func chartCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "chart",
		Usage: "Chart file and catalog operations",
		Commands: []*cli.Command{
			{
				Name:  "inspect",
				Usage: "Parse and fingerprint a chart file without registering it",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.InspectChart,
			},
			{
				Name:      "import",
				Usage:     "Register chart files and directories of .ksh files",
				ArgsUsage: "<path...>",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "workers",
						Aliases: []string{"w"},
						Usage:   "Number of concurrent workers",
						Value:   r.config.Import.Workers,
					},
					&cli.FloatFlag{
						Name:  "rate",
						Usage: "Files started per second, 0 for no limit",
						Value: r.config.Import.RateLimit,
					},
					&cli.BoolFlag{
						Name:    "quiet",
						Aliases: []string{"q"},
						Usage:   "Only print the summary",
					},
				},
				Action: r.ImportCharts,
			},
			{
				Name:  "get",
				Usage: "Look up a registered chart by fingerprint",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "fingerprint"},
				},
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.GetChart,
			},
			{
				Name:  "delete",
				Usage: "Delete a chart, its scores, and its song when no charts remain",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "fingerprint"},
				},
				Action: r.DeleteChart,
			},
		},
	}
}

// scoreCommand handles score lookups.
func scoreCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "score",
		Usage: "Score operations",
		Commands: []*cli.Command{
			{
				Name:  "partial",
				Usage: "List scores submitted for an unregistered fingerprint",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "fingerprint"},
				},
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.PartialScores,
			},
		},
	}
}

// tokenCommand issues bearer tokens signed with the configured secret.
func tokenCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Bearer token operations",
		Commands: []*cli.Command{
			{
				Name:  "mint",
				Usage: "Sign a token for a player",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "username"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "admin",
						Usage: "Grant catalog maintenance routes",
					},
					&cli.DurationFlag{
						Name:  "ttl",
						Usage: "Token lifetime",
						Value: 24 * time.Hour,
					},
				},
				Action: r.MintToken,
			},
		},
	}
}
