package api

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/fsdevblog/groph-bank/internal/domain"
	"github.com/fsdevblog/groph-bank/internal/repository/repoargs"
	"github.com/fsdevblog/groph-bank/internal/service"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type LedgerHandlerTestSuite struct {
	handlerSuite
}

func TestLedgerHandlerSuite(t *testing.T) {
	suite.Run(t, new(LedgerHandlerTestSuite))
}

func (s *LedgerHandlerTestSuite) completed(txType domain.TransactionType, amount string) *domain.Transaction {
	now := time.Now().UTC()
	return &domain.Transaction{
		ID:              uuid.New(),
		CreatedAt:       now,
		CompletedAt:     &now,
		SenderAccountID: uuid.New(),
		Amount:          decimal.RequireFromString(amount),
		Type:            txType,
		Status:          domain.TransactionCompleted,
		Reference:       "TXN01J9ZK",
	}
}

func (s *LedgerHandlerTestSuite) TestDeposit() {
	s.ledgerSvs.EXPECT().
		Deposit(gomock.Any(), s.currentUser, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, args service.MoneyArgs) (*domain.Transaction, error) {
			s.True(args.Amount.Equal(decimal.RequireFromString("100.50")), args.Amount.String())
			s.Equal("salary", args.Description)
			return s.completed(domain.TransactionDeposit, "100.50"), nil
		})

	status, body := s.do(http.MethodPost, DepositRoute, s.token, map[string]any{
		"amount":      "100.50",
		"description": "salary",
	})
	s.Require().Equal(http.StatusCreated, status, string(body))

	var resp TransactionResponse
	s.decode(body, &resp)
	s.Equal(domain.TransactionCompleted, resp.Status)
	s.True(resp.Amount.Equal(decimal.RequireFromString("100.5")))

	s.Run("missing amount", func() {
		status, _ := s.do(http.MethodPost, DepositRoute, s.token, map[string]any{"description": "nothing"})
		s.Equal(http.StatusUnprocessableEntity, status)
	})
}

func (s *LedgerHandlerTestSuite) TestWithdrawInsufficientBalance() {
	s.ledgerSvs.EXPECT().
		Withdraw(gomock.Any(), s.currentUser, gomock.Any()).
		Return(nil, fmt.Errorf("withdraw: %w", domain.ErrInsufficientBalance))

	status, body := s.do(http.MethodPost, WithdrawRoute, s.token, map[string]any{"amount": 5000})
	s.Equal(http.StatusPaymentRequired, status)

	var resp map[string]string
	s.decode(body, &resp)
	s.Equal(domain.ErrInsufficientBalance.Error(), resp["error"])
}

func (s *LedgerHandlerTestSuite) TestTransfer() {
	s.ledgerSvs.EXPECT().
		Transfer(gomock.Any(), s.currentUser, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, args service.TransferArgs) (*domain.Transaction, error) {
			s.Equal("bob@bank", args.ToUPI)
			s.Empty(args.ToAccountNumber)
			s.Equal(domain.TransactionPayment, args.Type)
			return s.completed(domain.TransactionPayment, "10"), nil
		})
	s.ledgerSvs.EXPECT().
		Transfer(gomock.Any(), s.currentUser, gomock.Any()).
		Return(nil, fmt.Errorf("resolving receiver: %w", domain.ErrRecordNotFound))

	cases := []struct {
		name       string
		body       map[string]any
		wantStatus int
	}{
		{
			name:       "payment by upi",
			body:       map[string]any{"toUpiId": "bob@bank", "amount": "10", "type": "payment"},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "unknown account",
			body:       map[string]any{"toAccountNumber": "ACC0000", "amount": "10"},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "no receiver",
			body:       map[string]any{"amount": "10"},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "malformed upi",
			body:       map[string]any{"toUpiId": "bob", "amount": "10"},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "deposit type",
			body:       map[string]any{"toAccountNumber": "ACC0000", "amount": "10", "type": "deposit"},
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range cases {
		s.Run(tt.name, func() {
			status, body := s.do(http.MethodPost, TransferRoute, s.token, tt.body)
			s.Equal(tt.wantStatus, status, string(body))
		})
	}
}

func (s *LedgerHandlerTestSuite) TestHistory() {
	txs := []domain.Transaction{
		*s.completed(domain.TransactionDeposit, "1"),
		*s.completed(domain.TransactionWithdrawal, "2"),
	}
	s.ledgerSvs.EXPECT().
		History(gomock.Any(), s.currentUser, repoargs.Page{Limit: 5, Offset: 10}).
		Return(txs, nil)
	s.ledgerSvs.EXPECT().
		History(gomock.Any(), s.currentUser, repoargs.Page{}).
		Return([]domain.Transaction{}, nil)

	status, body := s.do(http.MethodGet, TransactionsRoute+"?limit=5&offset=10", s.token, nil)
	s.Require().Equal(http.StatusOK, status)
	var resp []TransactionResponse
	s.decode(body, &resp)
	s.Len(resp, 2)

	status, body = s.do(http.MethodGet, TransactionsRoute, s.token, nil)
	s.Require().Equal(http.StatusOK, status)
	s.JSONEq("[]", string(body))

	status, _ = s.do(http.MethodGet, TransactionsRoute+"?limit=500", s.token, nil)
	s.Equal(http.StatusUnprocessableEntity, status)
}

func (s *LedgerHandlerTestSuite) TestSummary() {
	s.ledgerSvs.EXPECT().Summary(gomock.Any(), s.currentUser).Return([]domain.TransactionSummary{
		{
			Type:          domain.TransactionTransfer,
			IncomingCount: 1,
			IncomingTotal: decimal.NewFromInt(300),
			OutgoingCount: 2,
			OutgoingTotal: decimal.NewFromInt(150),
		},
	}, nil)

	status, body := s.do(http.MethodGet, SummaryRoute, s.token, nil)
	s.Require().Equal(http.StatusOK, status)

	var resp []SummaryResponseItem
	s.decode(body, &resp)
	s.Require().Len(resp, 1)
	s.Equal(domain.TransactionTransfer, resp[0].Type)
	s.EqualValues(2, resp[0].OutgoingCount)
	s.True(resp[0].IncomingTotal.Equal(decimal.NewFromInt(300)))
}

func (s *LedgerHandlerTestSuite) TestGetAndCancel() {
	own := s.completed(domain.TransactionTransfer, "10")
	foreignID := uuid.New()
	missingID := uuid.New()

	s.ledgerSvs.EXPECT().Get(gomock.Any(), s.currentUser, own.ID).Return(own, nil)
	s.ledgerSvs.EXPECT().Get(gomock.Any(), s.currentUser, foreignID).Return(nil, domain.ErrAccessDenied)
	s.ledgerSvs.EXPECT().Get(gomock.Any(), s.currentUser, missingID).Return(nil, domain.ErrRecordNotFound)
	s.ledgerSvs.EXPECT().
		Cancel(gomock.Any(), s.currentUser, own.ID).
		Return(nil, domain.NewTransitionError("transaction", "completed", "cancelled"))

	cases := []struct {
		name       string
		method     string
		url        string
		wantStatus int
	}{
		{name: "own", method: http.MethodGet, url: "/transactions/" + own.ID.String(), wantStatus: http.StatusOK},
		{
			name:       "foreign",
			method:     http.MethodGet,
			url:        "/transactions/" + foreignID.String(),
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "missing",
			method:     http.MethodGet,
			url:        "/transactions/" + missingID.String(),
			wantStatus: http.StatusNotFound,
		},
		{name: "bad id", method: http.MethodGet, url: "/transactions/42", wantStatus: http.StatusUnprocessableEntity},
		{
			name:       "cancel completed",
			method:     http.MethodPost,
			url:        "/transactions/" + own.ID.String() + "/cancel",
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range cases {
		s.Run(tt.name, func() {
			status, body := s.do(tt.method, tt.url, s.token, nil)
			s.Equal(tt.wantStatus, status, string(body))
		})
	}
}
