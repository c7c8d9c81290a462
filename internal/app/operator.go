package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/fsdevblog/groph-bank/internal/domain"
	"github.com/fsdevblog/groph-bank/internal/service"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const seedPasswordLength = 12

type SeedArgs struct {
	Users   int
	Deposit decimal.Decimal
}

// Seed регистрирует Users случайных клиентов и, если Deposit положителен, пополняет их счета.
func (a *App) Seed(ctx context.Context, args SeedArgs) error {
	log := a.Logger.WithFields(logrus.Fields{"component": "seed"})

	return a.withServices(ctx, func(ctx context.Context, services *service.AppServices) error {
		var created int
		for range args.Users {
			user, account, _, err := services.UserService.Register(ctx, service.RegisterUserArgs{
				Name:     gofakeit.Name(),
				Email:    gofakeit.Email(),
				Phone:    gofakeit.Phone(),
				Password: gofakeit.Password(true, true, true, false, false, seedPasswordLength),
			})
			if err != nil {
				if errors.Is(err, domain.ErrDuplicateKey) {
					log.WithError(err).Warn("skip duplicate customer")
					continue
				}
				return fmt.Errorf("seed: %w", err)
			}

			if args.Deposit.IsPositive() {
				if _, depErr := services.LedgerService.Deposit(ctx, user.ID, service.MoneyArgs{
					Amount:      args.Deposit,
					Description: "initial deposit",
				}); depErr != nil {
					return fmt.Errorf("seed deposit: %w", depErr)
				}
			}
			created++
			log.WithFields(logrus.Fields{
				"email":   user.Email,
				"account": account.AccountNumber,
			}).Debug("customer created")
		}
		log.WithField("created", created).Info("seed finished")
		return nil
	})
}

// SetLoanStatus операторский перевод кредита в новый статус.
func (a *App) SetLoanStatus(ctx context.Context, loanID uuid.UUID, status domain.LoanStatus) error {
	return a.withServices(ctx, func(ctx context.Context, services *service.AppServices) error {
		loan, err := services.LoanService.Transition(ctx, loanID, status)
		if err != nil {
			return fmt.Errorf("loan status: %w", err)
		}
		a.Logger.WithFields(logrus.Fields{
			"component": "operator",
			"loan":      loan.ID,
			"status":    loan.Status,
			"remaining": loan.RemainingBalance.StringFixed(2), //nolint:mnd
		}).Info("loan status changed")
		return nil
	})
}
