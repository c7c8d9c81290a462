package domain

import "github.com/shopspring/decimal"

type AccountType string

const (
	AccountTypeSavings AccountType = "savings"
	AccountTypeCurrent AccountType = "current"
)

type TransactionType string

const (
	TransactionTransfer   TransactionType = "transfer"
	TransactionDeposit    TransactionType = "deposit"
	TransactionWithdrawal TransactionType = "withdrawal"
	TransactionPayment    TransactionType = "payment"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTransfer, TransactionDeposit, TransactionWithdrawal, TransactionPayment:
		return true
	}
	return false
}

// NeedsReceiver возвращает true для типов, перемещающих деньги между двумя счетами.
func (t TransactionType) NeedsReceiver() bool {
	return t == TransactionTransfer || t == TransactionPayment
}

type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionFailed    TransactionStatus = "failed"
	TransactionCancelled TransactionStatus = "cancelled"
)

type LoanType string

const (
	LoanPersonal  LoanType = "personal"
	LoanHome      LoanType = "home"
	LoanBusiness  LoanType = "business"
	LoanEducation LoanType = "education"
	LoanVehicle   LoanType = "vehicle"
)

type LoanStatus string

const (
	LoanStatusPending  LoanStatus = "pending"
	LoanStatusApproved LoanStatus = "approved"
	LoanStatusRejected LoanStatus = "rejected"
	LoanStatusActive   LoanStatus = "active"
	LoanStatusClosed   LoanStatus = "closed"
)

// OpenLoanStatuses статусы, при которых у юзера не может появиться второй кредит.
var OpenLoanStatuses = []LoanStatus{LoanStatusPending, LoanStatusApproved, LoanStatusActive}

type CardType string

const (
	CardCredit CardType = "credit"
	CardDebit  CardType = "debit"
)

type CardNetwork string

const (
	NetworkVisa       CardNetwork = "Visa"
	NetworkMastercard CardNetwork = "Mastercard"
	NetworkRuPay      CardNetwork = "RuPay"
	NetworkAmex       CardNetwork = "American Express"
)

type CardCategory string

const (
	CategoryClassic   CardCategory = "classic"
	CategoryGold      CardCategory = "gold"
	CategoryPlatinum  CardCategory = "platinum"
	CategorySignature CardCategory = "signature"
	CategoryInfinite  CardCategory = "infinite"
)

type RewardsProgram string

const (
	RewardsCashback RewardsProgram = "cashback"
	RewardsPoints   RewardsProgram = "points"
	RewardsMiles    RewardsProgram = "miles"
	RewardsNone     RewardsProgram = "none"
)

type CardStatus string

const (
	CardStatusPending  CardStatus = "pending"
	CardStatusApproved CardStatus = "approved"
	CardStatusActive   CardStatus = "active"
	CardStatusBlocked  CardStatus = "blocked"
	CardStatusExpired  CardStatus = "expired"
)

// OpenCardStatuses нетерминальные статусы карты.
var OpenCardStatuses = []CardStatus{CardStatusPending, CardStatusApproved, CardStatusActive}

// TransactionSummary агрегат по одному типу транзакций для счета.
type TransactionSummary struct {
	Type          TransactionType
	IncomingCount int64
	IncomingTotal decimal.Decimal
	OutgoingCount int64
	OutgoingTotal decimal.Decimal
}
