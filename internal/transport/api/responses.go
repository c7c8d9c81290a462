package api

import (
	"time"

	"github.com/fsdevblog/groph-bank/internal/core/amortization"
	"github.com/fsdevblog/groph-bank/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	UPIID     *string   `json:"upiId,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newUserResponse(u domain.User) UserResponse {
	v := domain.PublicUser(u)
	return UserResponse{
		ID:        v.ID,
		Name:      v.Name,
		Email:     v.Email,
		Phone:     v.Phone,
		Address:   v.Address,
		UPIID:     v.UPIID,
		IsActive:  v.IsActive,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
}

type AccountResponse struct {
	ID            uuid.UUID          `json:"id"`
	AccountNumber string             `json:"accountNumber"`
	AccountType   domain.AccountType `json:"accountType"`
	Balance       decimal.Decimal    `json:"balance"`
	IsActive      bool               `json:"isActive"`
	CreatedAt     time.Time          `json:"createdAt"`
}

func newAccountResponse(a domain.Account) AccountResponse {
	return AccountResponse{
		ID:            a.ID,
		AccountNumber: a.AccountNumber,
		AccountType:   a.AccountType,
		Balance:       a.Balance,
		IsActive:      a.IsActive,
		CreatedAt:     a.CreatedAt,
	}
}

type TransactionResponse struct {
	ID                uuid.UUID                `json:"id"`
	Reference         string                   `json:"reference"`
	SenderAccountID   uuid.UUID                `json:"senderAccountId"`
	ReceiverAccountID *uuid.UUID               `json:"receiverAccountId,omitempty"`
	Amount            decimal.Decimal          `json:"amount"`
	Type              domain.TransactionType   `json:"type"`
	Status            domain.TransactionStatus `json:"status"`
	Description       string                   `json:"description"`
	CreatedAt         time.Time                `json:"createdAt"`
	CompletedAt       *time.Time               `json:"completedAt,omitempty"`
}

func newTransactionResponse(t domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:                t.ID,
		Reference:         t.Reference,
		SenderAccountID:   t.SenderAccountID,
		ReceiverAccountID: t.ReceiverAccountID,
		Amount:            t.Amount,
		Type:              t.Type,
		Status:            t.Status,
		Description:       t.Description,
		CreatedAt:         t.CreatedAt,
		CompletedAt:       t.CompletedAt,
	}
}

type SummaryResponseItem struct {
	Type          domain.TransactionType `json:"type"`
	IncomingCount int64                  `json:"incomingCount"`
	IncomingTotal decimal.Decimal        `json:"incomingTotal"`
	OutgoingCount int64                  `json:"outgoingCount"`
	OutgoingTotal decimal.Decimal        `json:"outgoingTotal"`
}

type LoanResponse struct {
	ID               uuid.UUID         `json:"id"`
	LoanType         domain.LoanType   `json:"loanType"`
	Amount           decimal.Decimal   `json:"amount"`
	InterestRate     decimal.Decimal   `json:"interestRate"`
	Term             int               `json:"term"`
	MonthlyPayment   decimal.Decimal   `json:"monthlyPayment"`
	TotalAmount      decimal.Decimal   `json:"totalAmount"`
	RemainingBalance decimal.Decimal   `json:"remainingBalance"`
	Purpose          string            `json:"purpose"`
	Status           domain.LoanStatus `json:"status"`
	ApprovedAt       *time.Time        `json:"approvedAt,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
}

// newLoanResponse суммы графика хранятся с полной точностью, наружу отдаются в копейках.
func newLoanResponse(l domain.Loan) LoanResponse {
	return LoanResponse{
		ID:               l.ID,
		LoanType:         l.LoanType,
		Amount:           l.Amount,
		InterestRate:     l.InterestRate,
		Term:             l.Term,
		MonthlyPayment:   l.MonthlyPayment.Round(2),
		TotalAmount:      l.TotalAmount.Round(2),
		RemainingBalance: l.RemainingBalance.Round(2),
		Purpose:          l.Purpose,
		Status:           l.Status,
		ApprovedAt:       l.ApprovedAt,
		CreatedAt:        l.CreatedAt,
	}
}

type ScheduleResponse struct {
	InterestRate   decimal.Decimal `json:"interestRate"`
	MonthlyPayment decimal.Decimal `json:"monthlyPayment"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	TotalInterest  decimal.Decimal `json:"totalInterest"`
}

func newScheduleResponse(s amortization.Schedule, rate decimal.Decimal) ScheduleResponse {
	return ScheduleResponse{
		InterestRate:   rate,
		MonthlyPayment: s.MonthlyPayment,
		TotalAmount:    s.TotalAmount,
		TotalInterest:  s.TotalInterest,
	}
}

type CardResponse struct {
	ID              uuid.UUID             `json:"id"`
	CardType        domain.CardType       `json:"cardType"`
	CardNumber      string                `json:"cardNumber"`
	CardNetwork     domain.CardNetwork    `json:"cardNetwork"`
	CardCategory    domain.CardCategory   `json:"cardCategory"`
	CardHolderName  string                `json:"cardHolderName"`
	ExpiryDate      string                `json:"expiryDate"`
	CreditLimit     decimal.Decimal       `json:"creditLimit"`
	AvailableCredit decimal.Decimal       `json:"availableCredit"`
	AnnualFee       decimal.Decimal       `json:"annualFee"`
	RewardsProgram  domain.RewardsProgram `json:"rewardsProgram"`
	Status          domain.CardStatus     `json:"status"`
	HasPIN          bool                  `json:"hasPin"`
	CreatedAt       time.Time             `json:"createdAt"`
}

// IssuedCardResponse ответ на выпуск карты. Полный номер и CVV отдаются только здесь.
type IssuedCardResponse struct {
	CardResponse
	FullCardNumber string `json:"fullCardNumber"`
	CVV            string `json:"cvv"`
}

// cardExpiryLayout срок действия печатается на карте как MM/YY.
const cardExpiryLayout = "01/06"

func newCardResponse(c domain.Card) CardResponse {
	v := domain.PublicCard(c)
	return CardResponse{
		ID:              v.ID,
		CardType:        v.CardType,
		CardNumber:      v.MaskedNumber,
		CardNetwork:     v.CardNetwork,
		CardCategory:    v.CardCategory,
		CardHolderName:  v.CardHolderName,
		ExpiryDate:      v.ExpiryDate.Format(cardExpiryLayout),
		CreditLimit:     v.CreditLimit,
		AvailableCredit: v.AvailableCredit,
		AnnualFee:       v.AnnualFee,
		RewardsProgram:  v.RewardsProgram,
		Status:          v.Status,
		HasPIN:          v.HasPIN,
		CreatedAt:       v.CreatedAt,
	}
}

func mapSlice[T, R any](items []T, fn func(T) R) []R {
	res := make([]R, len(items))
	for i, item := range items {
		res[i] = fn(item)
	}
	return res
}
