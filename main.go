package main

import (
	"os"

	"github.com/consensys/gnark/logger"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/vocdoni/witness2toml/fixture"
	"github.com/vocdoni/witness2toml/prover"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log := logger.Logger()
		log.Fatal().Err(err).Msg("witness2toml failed")
	}
}

func setupLogger(c *cli.Context) error {
	level := zerolog.InfoLevel
	if c.Bool("debug") {
		level = zerolog.DebugLevel
	}
	output := zerolog.ConsoleWriter{Out: c.App.ErrWriter, TimeFormat: "15:04:05"}
	logger.Set(zerolog.New(output).Level(level).With().Timestamp().Logger())
	return nil
}

func newApp() *cli.App {
	defaults := prover.DefaultConfig()
	fixtureDefaults := fixture.DefaultConfig()

	return &cli.App{
		Name:      "witness2toml",
		Usage:     "Assembles the vote witness files into the circuit's Prover.toml",
		ErrWriter: os.Stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "data",
				Usage: "Directory holding the witness files",
				Value: defaults.DataDir,
			},
			&cli.StringFlag{
				Name:  "out",
				Usage: "Prover.toml to write, or - for standard output",
				Value: defaults.OutputPath,
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Before: setupLogger,
		Action: func(c *cli.Context) error {
			cfg := prover.Config{
				DataDir:    c.String("data"),
				OutputPath: c.String("out"),
				Stdout:     c.App.Writer,
			}
			if err := prover.Convert(cfg); err != nil {
				return err
			}
			log := logger.Logger()
			log.Info().Str("data", cfg.DataDir).Str("out", cfg.OutputPath).Msg("wrote Prover.toml")
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "fixture",
				Usage: "Generates a synthetic, MiMC-consistent set of witness files",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "data",
						Usage: "Directory to write the witness files to",
						Value: fixtureDefaults.DataDir,
					},
					&cli.IntFlag{
						Name:  "depth",
						Usage: "Merkle tree depth",
						Value: fixtureDefaults.Depth,
					},
					&cli.Uint64Flag{
						Name:  "index",
						Usage: "Leaf index holding the commitment",
						Value: fixtureDefaults.LeafIndex,
					},
					&cli.StringFlag{
						Name:  "proposal-id",
						Usage: "Value written to proposalId.txt",
						Value: fixtureDefaults.ProposalID,
					},
					&cli.StringFlag{
						Name:  "vote-type",
						Usage: "Value written to voteType.txt",
						Value: fixtureDefaults.VoteType,
					},
				},
				Action: func(c *cli.Context) error {
					cfg := fixture.Config{
						DataDir:    c.String("data"),
						Depth:      c.Int("depth"),
						LeafIndex:  c.Uint64("index"),
						ProposalID: c.String("proposal-id"),
						VoteType:   c.String("vote-type"),
					}
					w, err := fixture.Generate(cfg)
					if err != nil {
						return err
					}
					log := logger.Logger()
					log.Info().
						Str("data", cfg.DataDir).
						Str("root", w.Root).
						Int("depth", cfg.Depth).
						Msg("wrote fixture")
					return nil
				},
			},
		},
	}
}
