package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/fsdevblog/groph-bank/internal/core/amortization"
	"github.com/fsdevblog/groph-bank/internal/core/ledger"
	"github.com/fsdevblog/groph-bank/internal/domain"
	"github.com/fsdevblog/groph-bank/internal/repository/repoargs"
	"github.com/fsdevblog/groph-bank/pkg/uow"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// loanTransitions допустимые переходы статусов кредита.
var loanTransitions = map[domain.LoanStatus][]domain.LoanStatus{
	domain.LoanStatusPending:  {domain.LoanStatusApproved, domain.LoanStatusRejected},
	domain.LoanStatusApproved: {domain.LoanStatusActive},
	domain.LoanStatusActive:   {domain.LoanStatusClosed},
}

type LoanService struct {
	uow      uow.UOW
	loanRepo LoanRepository
	ledger   *ledger.Ledger
	refs     ledger.ReferenceGenerator
	now      func() time.Time
}

func NewLoanService(u uow.UOW, l *ledger.Ledger, refs ledger.ReferenceGenerator) (*LoanService, error) {
	loanRepo, err := uow.GetRepositoryAs[LoanRepository](u, uow.RepositoryName(repoargs.LoanRepoName))
	if err != nil {
		return nil, err
	}
	return &LoanService{
		uow:      u,
		loanRepo: loanRepo,
		ledger:   l,
		refs:     refs,
		now:      time.Now,
	}, nil
}

// Quote возвращает годовую ставку для типа кредита и суммы.
func (s *LoanService) Quote(loanType domain.LoanType, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, domain.NewValidationError("amount", "must be positive")
	}
	return amortization.Rate(loanType, amount) //nolint:wrapcheck
}

type CalculateArgs struct {
	Principal decimal.Decimal
	// Rate годовая ставка в процентах. Если nil, берется из таблицы по LoanType.
	Rate     *decimal.Decimal
	LoanType domain.LoanType
	Term     int
}

// Calculate считает график для калькулятора. Возвращает округленные до копеек суммы и примененную ставку.
func (s *LoanService) Calculate(args CalculateArgs) (amortization.Schedule, decimal.Decimal, error) {
	var rate decimal.Decimal
	if args.Rate != nil {
		rate = *args.Rate
		if err := amortization.ValidateRate(rate); err != nil {
			return amortization.Schedule{}, decimal.Zero, err //nolint:wrapcheck
		}
	} else {
		if args.LoanType == "" {
			return amortization.Schedule{}, decimal.Zero,
				domain.NewValidationError("loanType", "required when interest rate is not given")
		}
		var err error
		if rate, err = s.Quote(args.LoanType, args.Principal); err != nil {
			return amortization.Schedule{}, decimal.Zero, err
		}
	}

	schedule, err := amortization.Amortize(args.Principal, rate, args.Term)
	if err != nil {
		return amortization.Schedule{}, decimal.Zero, err //nolint:wrapcheck
	}
	return schedule.Rounded(), rate, nil
}

type ApplyLoanArgs struct {
	LoanType domain.LoanType
	Amount   decimal.Decimal
	Term     int
	Purpose  string
}

// Apply создает заявку на кредит в статусе pending. Если у юзера уже есть кредит в pending, approved
// или active, возвращает domain.ErrDuplicateActiveLoan.
func (s *LoanService) Apply(ctx context.Context, userID uuid.UUID, args ApplyLoanArgs) (*domain.Loan, error) {
	loan := domain.Loan{
		ID:       uuid.New(),
		UserID:   userID,
		LoanType: args.LoanType,
		Amount:   args.Amount,
		Term:     args.Term,
		Purpose:  strings.TrimSpace(args.Purpose),
		Status:   domain.LoanStatusPending,
	}
	if err := s.price(&loan); err != nil {
		return nil, err
	}

	count, err := s.loanRepo.CountByUserAndStatuses(ctx, userID, domain.OpenLoanStatuses)
	if err != nil {
		return nil, fmt.Errorf("applying loan: %w", err)
	}
	if count > 0 {
		return nil, domain.ErrDuplicateActiveLoan
	}

	created, err := s.loanRepo.CreateLoan(ctx, loan)
	if err != nil {
		return nil, fmt.Errorf("applying loan: %w", err)
	}
	return created, nil
}

func (s *LoanService) List(ctx context.Context, userID uuid.UUID) ([]domain.Loan, error) {
	loans, err := s.loanRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing loans: %w", err)
	}
	return loans, nil
}

// Get возвращает кредит владельца. Чужой кредит - domain.ErrAccessDenied.
func (s *LoanService) Get(ctx context.Context, userID, loanID uuid.UUID) (*domain.Loan, error) {
	loan, err := s.loanRepo.FindByID(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("get loan: %w", err)
	}
	if loan.UserID != userID {
		return nil, domain.ErrAccessDenied
	}
	return loan, nil
}

type ModifyLoanArgs struct {
	Amount *decimal.Decimal
	Term   *int
}

// Modify меняет сумму или срок заявки в статусе pending и пересчитывает ставку и график.
func (s *LoanService) Modify(
	ctx context.Context,
	userID, loanID uuid.UUID,
	args ModifyLoanArgs,
) (*domain.Loan, error) {
	loan, err := s.Get(ctx, userID, loanID)
	if err != nil {
		return nil, err
	}
	if loan.Status != domain.LoanStatusPending {
		return nil, domain.NewTransitionError("loan", string(loan.Status), "modified")
	}
	if args.Amount != nil {
		loan.Amount = *args.Amount
	}
	if args.Term != nil {
		loan.Term = *args.Term
	}
	if priceErr := s.price(loan); priceErr != nil {
		return nil, priceErr
	}

	updated, err := s.loanRepo.UpdateLoan(ctx, *loan, domain.LoanStatusPending)
	if err != nil {
		return nil, fmt.Errorf("modifying loan: %w", loanConflict(ctx, s.loanRepo, loan.ID, "modified", err))
	}
	return updated, nil
}

// Transition переводит кредит в статус status. При активации остаток долга становится равен полной сумме
// выплат, а сумма кредита зачисляется на счет заемщика транзакцией deposit в той же транзакции unit of work.
func (s *LoanService) Transition(
	ctx context.Context,
	loanID uuid.UUID,
	status domain.LoanStatus,
) (*domain.Loan, error) {
	var result *domain.Loan
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		loanRepo, err := uow.GetAs[LoanRepository](tx, uow.RepositoryName(repoargs.LoanRepoName))
		if err != nil {
			return err //nolint:wrapcheck
		}
		loan, err := loanRepo.FindByID(c, loanID)
		if err != nil {
			return err //nolint:wrapcheck
		}
		if !canTransitLoan(loan.Status, status) {
			return domain.NewTransitionError("loan", string(loan.Status), string(status))
		}

		from := loan.Status
		now := s.now()
		loan.Status = status
		switch status {
		case domain.LoanStatusApproved:
			loan.ApprovedAt = &now
		case domain.LoanStatusActive:
			loan.RemainingBalance = loan.TotalAmount
		case domain.LoanStatusClosed:
			loan.RemainingBalance = decimal.Zero
		}

		// статус меняется условно до зачисления: из двух параллельных активаций деньги получит только одна.
		result, err = loanRepo.UpdateLoan(c, *loan, from)
		if err != nil {
			return loanConflict(c, loanRepo, loan.ID, string(status), err)
		}
		if status == domain.LoanStatusActive {
			return s.disburse(c, tx, result)
		}
		return nil
	})
	if txErr != nil {
		return nil, fmt.Errorf("loan transition: %w", txErr)
	}
	return result, nil
}

func (s *LoanService) disburse(ctx context.Context, tx uow.TX, loan *domain.Loan) error {
	accountRepo, err := uow.GetAs[AccountRepository](tx, uow.RepositoryName(repoargs.AccountRepoName))
	if err != nil {
		return err //nolint:wrapcheck
	}
	account, err := accountRepo.FindByUserID(ctx, loan.UserID)
	if err != nil {
		return err //nolint:wrapcheck
	}
	posting, err := s.ledger.Apply(ledger.Request{
		Type:        domain.TransactionDeposit,
		Sender:      *account,
		Amount:      loan.Amount,
		Description: "loan disbursement " + loan.ID.String(),
	})
	if err != nil {
		return err //nolint:wrapcheck
	}
	_, err = persistPosting(ctx, tx, s.refs, posting)
	return err
}

// price проверяет параметры кредита и заполняет ставку и график.
func (s *LoanService) price(loan *domain.Loan) error {
	if !amortization.ValidLoanType(loan.LoanType) {
		return domain.NewValidationError("loanType", "unknown loan type")
	}
	if loan.Amount.LessThan(amortization.MinAmount) {
		return domain.NewValidationError("amount", "must be at least 1000")
	}
	rate, err := amortization.Rate(loan.LoanType, loan.Amount)
	if err != nil {
		return err //nolint:wrapcheck
	}
	schedule, err := amortization.Amortize(loan.Amount, rate, loan.Term)
	if err != nil {
		return err //nolint:wrapcheck
	}
	loan.InterestRate = rate
	loan.MonthlyPayment = schedule.MonthlyPayment
	loan.TotalAmount = schedule.TotalAmount
	loan.RemainingBalance = decimal.Zero
	return nil
}

// loanConflict объясняет несработавшее условное обновление кредита: перечитывает его и возвращает ошибку
// перехода из актуального статуса.
func loanConflict(ctx context.Context, repo LoanRepository, loanID uuid.UUID, to string, err error) error {
	if !errors.Is(err, domain.ErrRecordNotFound) {
		return err
	}
	loan, findErr := repo.FindByID(ctx, loanID)
	if findErr != nil {
		return findErr //nolint:wrapcheck
	}
	return domain.NewTransitionError("loan", string(loan.Status), to)
}

func canTransitLoan(from, to domain.LoanStatus) bool {
	return slices.Contains(loanTransitions[from], to)
}
