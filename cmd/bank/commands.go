package main

import (
	"fmt"

	"github.com/fsdevblog/groph-bank/internal/app"
	"github.com/fsdevblog/groph-bank/internal/config"
	"github.com/fsdevblog/groph-bank/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

const (
	fUsers   = "users"
	fDeposit = "deposit"
	fLoanID  = "id"
	fStatus  = "status"
)

func newApp(c *cli.Context, l *logrus.Logger) (*app.App, error) {
	conf, err := config.LoadConfig(config.FromCLI(c))
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return app.New(conf, l), nil
}

func serveCommand(l *logrus.Logger) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run HTTP API and card expiry worker",
		Flags: config.Flags(),
		Action: func(c *cli.Context) error {
			a, err := newApp(c, l)
			if err != nil {
				return err
			}
			return a.Run()
		},
	}
}

func seedCommand(l *logrus.Logger) *cli.Command {
	flags := append(config.Flags(),
		&cli.IntFlag{Name: fUsers, Value: 10, Usage: "number of fake customers"}, //nolint:mnd
		&cli.StringFlag{Name: fDeposit, Value: "0", Usage: "initial deposit for every customer"},
	)

	return &cli.Command{
		Name:  "seed",
		Usage: "register fake customers",
		Flags: flags,
		Action: func(c *cli.Context) error {
			deposit, err := decimal.NewFromString(c.String(fDeposit))
			if err != nil {
				return fmt.Errorf("--%s: %w", fDeposit, err)
			}
			if c.Int(fUsers) < 0 {
				return fmt.Errorf("--%s must not be negative", fUsers)
			}

			a, err := newApp(c, l)
			if err != nil {
				return err
			}
			return a.Seed(c.Context, app.SeedArgs{Users: c.Int(fUsers), Deposit: deposit})
		},
	}
}

func loanStatusCommand(l *logrus.Logger) *cli.Command {
	flags := append(config.Flags(),
		&cli.StringFlag{Name: fLoanID, Required: true, Usage: "loan id"},
		&cli.StringFlag{Name: fStatus, Required: true, Usage: "approved, rejected, active or closed"},
	)

	return &cli.Command{
		Name:  "loan-status",
		Usage: "move a loan to a new status",
		Flags: flags,
		Action: func(c *cli.Context) error {
			loanID, err := uuid.Parse(c.String(fLoanID))
			if err != nil {
				return fmt.Errorf("--%s: %w", fLoanID, err)
			}

			a, err := newApp(c, l)
			if err != nil {
				return err
			}
			return a.SetLoanStatus(c.Context, loanID, domain.LoanStatus(c.String(fStatus)))
		},
	}
}
