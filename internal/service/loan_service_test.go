package service

import (
	"context"
	"testing"
	"time"

	"github.com/fsdevblog/groph-bank/internal/core/ledger"
	"github.com/fsdevblog/groph-bank/internal/domain"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type LoanServiceTestSuite struct {
	serviceSuite
	loanService *LoanService
	userID      uuid.UUID
}

func TestLoanServiceSuite(t *testing.T) {
	suite.Run(t, new(LoanServiceTestSuite))
}

func (s *LoanServiceTestSuite) SetupTest() {
	s.setupMocks()
	refs := &sequenceRefs{}

	svc, err := NewLoanService(s.mockUOW, ledger.New(refs, time.Now), refs)
	s.Require().NoError(err)
	s.loanService = svc
	s.userID = uuid.New()
}

func (s *LoanServiceTestSuite) TestQuote() {
	rate, err := s.loanService.Quote(domain.LoanPersonal, decimal.NewFromInt(50_000))
	s.Require().NoError(err)
	s.True(rate.Equal(decimal.RequireFromString("10.5")))

	rate, err = s.loanService.Quote(domain.LoanPersonal, decimal.NewFromInt(49_999))
	s.Require().NoError(err)
	s.True(rate.Equal(decimal.RequireFromString("12.5")))

	_, err = s.loanService.Quote("mortgage", decimal.NewFromInt(1000))
	s.Require().ErrorIs(err, domain.ErrValidation)
}

func (s *LoanServiceTestSuite) TestCalculate() {
	rate := decimal.NewFromInt(12)
	schedule, applied, err := s.loanService.Calculate(CalculateArgs{
		Principal: decimal.NewFromInt(100_000),
		Rate:      &rate,
		Term:      12,
	})
	s.Require().NoError(err)
	s.True(applied.Equal(rate))
	s.Equal("8884.88", schedule.MonthlyPayment.StringFixed(2))
	s.Equal("106618.55", schedule.TotalAmount.StringFixed(2))

	_, applied, err = s.loanService.Calculate(CalculateArgs{
		Principal: decimal.NewFromInt(10_000),
		LoanType:  domain.LoanEducation,
		Term:      24,
	})
	s.Require().NoError(err)
	s.True(applied.Equal(decimal.RequireFromString("9.5")))

	_, _, err = s.loanService.Calculate(CalculateArgs{Principal: decimal.NewFromInt(10_000), Term: 24})
	s.Require().ErrorIs(err, domain.ErrValidation)
}

func (s *LoanServiceTestSuite) TestApply() {
	s.Run("ok", func() {
		s.mockLoans.EXPECT().
			CountByUserAndStatuses(gomock.Any(), s.userID, domain.OpenLoanStatuses).
			Return(int64(0), nil)
		s.mockLoans.EXPECT().
			CreateLoan(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, l domain.Loan) (*domain.Loan, error) { return &l, nil })

		loan, err := s.loanService.Apply(s.T().Context(), s.userID, ApplyLoanArgs{
			LoanType: domain.LoanPersonal,
			Amount:   decimal.NewFromInt(50_000),
			Term:     12,
			Purpose:  " wedding ",
		})
		s.Require().NoError(err)
		s.Equal(domain.LoanStatusPending, loan.Status)
		s.True(loan.InterestRate.Equal(decimal.RequireFromString("10.5")))
		s.Equal("wedding", loan.Purpose)
		s.True(loan.MonthlyPayment.Mul(decimal.NewFromInt(12)).Equal(loan.TotalAmount))
	})

	s.Run("duplicate open loan", func() {
		s.mockLoans.EXPECT().
			CountByUserAndStatuses(gomock.Any(), s.userID, domain.OpenLoanStatuses).
			Return(int64(1), nil)
		s.mockLoans.EXPECT().CreateLoan(gomock.Any(), gomock.Any()).Times(0)

		_, err := s.loanService.Apply(s.T().Context(), s.userID, ApplyLoanArgs{
			LoanType: domain.LoanHome,
			Amount:   decimal.NewFromInt(2_000_000),
			Term:     240,
		})
		s.Require().ErrorIs(err, domain.ErrDuplicateActiveLoan)
	})

	s.Run("validation", func() {
		_, err := s.loanService.Apply(s.T().Context(), s.userID, ApplyLoanArgs{
			LoanType: domain.LoanHome,
			Amount:   decimal.NewFromInt(999),
			Term:     12,
		})
		s.Require().ErrorIs(err, domain.ErrValidation)

		_, err = s.loanService.Apply(s.T().Context(), s.userID, ApplyLoanArgs{
			LoanType: domain.LoanHome,
			Amount:   decimal.NewFromInt(5000),
			Term:     361,
		})
		s.Require().ErrorIs(err, domain.ErrValidation)
	})
}

func (s *LoanServiceTestSuite) TestModify() {
	pending := domain.Loan{
		ID:       uuid.New(),
		UserID:   s.userID,
		LoanType: domain.LoanPersonal,
		Amount:   decimal.NewFromInt(10_000),
		Term:     12,
		Status:   domain.LoanStatusPending,
	}
	active := pending
	active.ID = uuid.New()
	active.Status = domain.LoanStatusActive

	s.mockLoans.EXPECT().FindByID(gomock.Any(), pending.ID).Return(&pending, nil)
	s.mockLoans.EXPECT().FindByID(gomock.Any(), active.ID).Return(&active, nil)
	s.mockLoans.EXPECT().
		UpdateLoan(gomock.Any(), gomock.Any(), domain.LoanStatusPending).
		DoAndReturn(func(_ context.Context, l domain.Loan, _ domain.LoanStatus) (*domain.Loan, error) { return &l, nil })

	amount := decimal.NewFromInt(60_000)
	loan, err := s.loanService.Modify(s.T().Context(), s.userID, pending.ID, ModifyLoanArgs{Amount: &amount})
	s.Require().NoError(err)
	s.True(loan.InterestRate.Equal(decimal.RequireFromString("10.5")))
	s.True(loan.Amount.Equal(amount))

	_, err = s.loanService.Modify(s.T().Context(), s.userID, active.ID, ModifyLoanArgs{Amount: &amount})
	s.Require().ErrorIs(err, domain.ErrInvalidTransition)
}

func (s *LoanServiceTestSuite) TestModifyAfterApproval() {
	loan := domain.Loan{
		ID:       uuid.New(),
		UserID:   s.userID,
		LoanType: domain.LoanPersonal,
		Amount:   decimal.NewFromInt(10_000),
		Term:     12,
		Status:   domain.LoanStatusPending,
	}
	approved := loan
	approved.Status = domain.LoanStatusApproved

	// первое чтение видит заявку еще pending, но к записи ее уже одобрили.
	gomock.InOrder(
		s.mockLoans.EXPECT().FindByID(gomock.Any(), loan.ID).Return(&loan, nil),
		s.mockLoans.EXPECT().
			UpdateLoan(gomock.Any(), gomock.Any(), domain.LoanStatusPending).
			Return(nil, domain.ErrRecordNotFound),
		s.mockLoans.EXPECT().FindByID(gomock.Any(), loan.ID).Return(&approved, nil),
	)

	term := 24
	_, err := s.loanService.Modify(s.T().Context(), s.userID, loan.ID, ModifyLoanArgs{Term: &term})
	s.Require().ErrorIs(err, domain.ErrInvalidTransition)

	var transitionErr *domain.TransitionError
	s.Require().ErrorAs(err, &transitionErr)
	s.Equal(string(domain.LoanStatusApproved), transitionErr.From)
}

func (s *LoanServiceTestSuite) TestTransitionActivateDisbursesOnce() {
	loan := domain.Loan{
		ID:          uuid.New(),
		UserID:      s.userID,
		LoanType:    domain.LoanPersonal,
		Amount:      decimal.NewFromInt(100_000),
		Term:        12,
		TotalAmount: decimal.RequireFromString("106618.55"),
		Status:      domain.LoanStatusApproved,
	}
	account := domain.Account{ID: uuid.New(), UserID: s.userID, IsActive: true}

	// stored имитирует строку в хранилище с условным обновлением по статусу.
	stored := loan
	reads := 0
	var concurrentErr error
	s.mockLoans.EXPECT().
		FindByID(gomock.Any(), loan.ID).
		DoAndReturn(func(context.Context, uuid.UUID) (*domain.Loan, error) {
			reads++
			snapshot := stored
			if reads == 1 {
				// вторая активация проходит целиком между чтением и записью первой.
				_, concurrentErr = s.loanService.Transition(s.T().Context(), loan.ID, domain.LoanStatusActive)
			}
			return &snapshot, nil
		}).Times(3)
	s.mockLoans.EXPECT().
		UpdateLoan(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, l domain.Loan, expected domain.LoanStatus) (*domain.Loan, error) {
			if stored.Status != expected {
				return nil, domain.ErrRecordNotFound
			}
			stored = l
			return &l, nil
		}).Times(2)

	disbursements := 0
	s.mockAccounts.EXPECT().FindByUserID(gomock.Any(), s.userID).Return(&account, nil)
	s.mockAccounts.EXPECT().
		ApplyDelta(gomock.Any(), account.ID, decEq("100000")).
		DoAndReturn(func(context.Context, uuid.UUID, decimal.Decimal) (*domain.Account, error) {
			disbursements++
			return &account, nil
		})
	s.mockTxs.EXPECT().
		CreateTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tx domain.Transaction) (*domain.Transaction, error) { return &tx, nil })

	_, err := s.loanService.Transition(s.T().Context(), loan.ID, domain.LoanStatusActive)
	s.Require().ErrorIs(err, domain.ErrInvalidTransition)
	s.Require().NoError(concurrentErr)
	s.Equal(1, disbursements)
	s.Equal(domain.LoanStatusActive, stored.Status)
}

func (s *LoanServiceTestSuite) TestGetForeignLoan() {
	foreign := domain.Loan{ID: uuid.New(), UserID: uuid.New()}
	s.mockLoans.EXPECT().FindByID(gomock.Any(), foreign.ID).Return(&foreign, nil)

	_, err := s.loanService.Get(s.T().Context(), s.userID, foreign.ID)
	s.Require().ErrorIs(err, domain.ErrAccessDenied)
}

func (s *LoanServiceTestSuite) TestTransitionActivateDisburses() {
	total := decimal.RequireFromString("106618.55")
	loan := domain.Loan{
		ID:          uuid.New(),
		UserID:      s.userID,
		LoanType:    domain.LoanPersonal,
		Amount:      decimal.NewFromInt(100_000),
		Term:        12,
		TotalAmount: total,
		Status:      domain.LoanStatusApproved,
	}
	account := domain.Account{ID: uuid.New(), UserID: s.userID, Balance: decimal.Zero, IsActive: true}

	s.mockLoans.EXPECT().FindByID(gomock.Any(), loan.ID).Return(&loan, nil)
	s.mockAccounts.EXPECT().FindByUserID(gomock.Any(), s.userID).Return(&account, nil)
	s.mockAccounts.EXPECT().ApplyDelta(gomock.Any(), account.ID, decEq("100000")).Return(&account, nil)
	s.mockTxs.EXPECT().
		CreateTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tx domain.Transaction) (*domain.Transaction, error) {
			s.Equal(domain.TransactionDeposit, tx.Type)
			s.Equal(account.ID, tx.SenderAccountID)
			return &tx, nil
		})
	s.mockLoans.EXPECT().
		UpdateLoan(gomock.Any(), gomock.Any(), domain.LoanStatusApproved).
		DoAndReturn(func(_ context.Context, l domain.Loan, _ domain.LoanStatus) (*domain.Loan, error) { return &l, nil })

	updated, err := s.loanService.Transition(s.T().Context(), loan.ID, domain.LoanStatusActive)
	s.Require().NoError(err)
	s.Equal(domain.LoanStatusActive, updated.Status)
	s.True(updated.RemainingBalance.Equal(total))
}

func (s *LoanServiceTestSuite) TestTransitionRules() {
	cases := []struct {
		from    domain.LoanStatus
		to      domain.LoanStatus
		wantErr error
	}{
		{from: domain.LoanStatusPending, to: domain.LoanStatusApproved},
		{from: domain.LoanStatusPending, to: domain.LoanStatusRejected},
		{from: domain.LoanStatusActive, to: domain.LoanStatusClosed},
		{from: domain.LoanStatusPending, to: domain.LoanStatusActive, wantErr: domain.ErrInvalidTransition},
		{from: domain.LoanStatusRejected, to: domain.LoanStatusApproved, wantErr: domain.ErrInvalidTransition},
		{from: domain.LoanStatusClosed, to: domain.LoanStatusActive, wantErr: domain.ErrInvalidTransition},
	}

	for _, t := range cases {
		s.Run(string(t.from)+"->"+string(t.to), func() {
			loan := domain.Loan{ID: uuid.New(), UserID: s.userID, Status: t.from}
			s.mockLoans.EXPECT().FindByID(gomock.Any(), loan.ID).Return(&loan, nil)
			if t.wantErr == nil {
				s.mockLoans.EXPECT().
					UpdateLoan(gomock.Any(), gomock.Any(), t.from).
					DoAndReturn(func(_ context.Context, l domain.Loan, _ domain.LoanStatus) (*domain.Loan, error) { return &l, nil })
			}

			updated, err := s.loanService.Transition(s.T().Context(), loan.ID, t.to)
			if t.wantErr != nil {
				s.Require().ErrorIs(err, t.wantErr)
				return
			}
			s.Require().NoError(err)
			s.Equal(t.to, updated.Status)
			if t.to == domain.LoanStatusApproved {
				s.NotNil(updated.ApprovedAt)
			}
		})
	}
}
