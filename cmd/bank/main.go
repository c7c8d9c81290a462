package main

import (
	"context"
	"errors"
	"os"

	"github.com/fsdevblog/groph-bank/internal/logger"
	"github.com/urfave/cli/v2"
)

const fLogLevel = "log-level"

func main() {
	l := logger.New(os.Stdout)

	cliApp := &cli.App{
		Name:  "bank",
		Usage: "Banking backend: accounts, transfers, loans and cards",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: fLogLevel, EnvVars: []string{"LOG_LEVEL"}, Usage: "trace, debug, info, warn or error"},
		},
		Before: func(c *cli.Context) error {
			return logger.SetLevel(l, c.String(fLogLevel)) //nolint:wrapcheck
		},
		Commands: []*cli.Command{
			serveCommand(l),
			seedCommand(l),
			loanStatusCommand(l),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		if errors.Is(err, context.Canceled) {
			l.Info("graceful shutdown")
			os.Exit(0)
		}
		l.WithError(err).Fatal("bank stopped")
	}
}
