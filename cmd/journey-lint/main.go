package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/relaycrm/journey/pkg/registry"
	cli "github.com/urfave/cli/v3"
)

var errLintFailed = errors.New("one or more workflow definitions failed validation")

func main() {
	command := &cli.Command{
		Name:      "journey-lint",
		Usage:     "Validate workflow definition files",
		ArgsUsage: "FILE [FILE...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Only print files with problems",
			},
		},
		Action: func(_ context.Context, command *cli.Command) error {
			paths := command.Args().Slice()
			if len(paths) == 0 {
				return errors.New("no workflow files given")
			}

			failed := false
			reg := registry.NewRegistry(slog.Default())

			for _, path := range paths {
				report := lintFile(reg, path)
				if report.HasErrors() {
					failed = true
				}

				if command.Bool("quiet") && !report.HasErrors() && len(report.Result.Warnings) == 0 {
					continue
				}

				printReport(os.Stdout, report)
			}

			if failed {
				return errLintFailed
			}

			return nil
		},
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
