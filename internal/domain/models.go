package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type User struct {
	ID           uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Name         string
	Email        string
	Phone        string
	Address      string
	PasswordHash string
	UPIID        *string
	IsActive     bool
}

type Account struct {
	ID            uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
	UserID        uuid.UUID
	AccountNumber string
	AccountType   AccountType
	Balance       decimal.Decimal
	IsActive      bool
}

type Transaction struct {
	ID                uuid.UUID
	CreatedAt         time.Time
	CompletedAt       *time.Time
	SenderAccountID   uuid.UUID
	ReceiverAccountID *uuid.UUID
	Amount            decimal.Decimal
	Type              TransactionType
	Status            TransactionStatus
	Reference         string
	Description       string
}

// Involves сообщает, участвует ли счет accountID в транзакции.
func (t *Transaction) Involves(accountID uuid.UUID) bool {
	if t.SenderAccountID == accountID {
		return true
	}
	return t.ReceiverAccountID != nil && *t.ReceiverAccountID == accountID
}

type Loan struct {
	ID               uuid.UUID
	CreatedAt        time.Time
	UpdatedAt        time.Time
	ApprovedAt       *time.Time
	UserID           uuid.UUID
	LoanType         LoanType
	Amount           decimal.Decimal
	InterestRate     decimal.Decimal
	Term             int
	MonthlyPayment   decimal.Decimal
	TotalAmount      decimal.Decimal
	RemainingBalance decimal.Decimal
	Purpose          string
	Status           LoanStatus
}

type Card struct {
	ID              uuid.UUID
	CreatedAt       time.Time
	UpdatedAt       time.Time
	UserID          uuid.UUID
	AccountID       uuid.UUID
	CardType        CardType
	CardNumber      string
	CardNetwork     CardNetwork
	CardCategory    CardCategory
	CardHolderName  string
	ExpiryDate      time.Time
	CVVHash         string
	PINHash         string
	CreditLimit     decimal.Decimal
	AvailableCredit decimal.Decimal
	AnnualFee       decimal.Decimal
	RewardsProgram  RewardsProgram
	Status          CardStatus
}
