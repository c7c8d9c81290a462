package mongorepo

import (
	"time"

	"github.com/fsdevblog/groph-bank/internal/domain"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	usersCollection        = "users"
	accountsCollection     = "accounts"
	transactionsCollection = "transactions"
	loansCollection        = "loans"
	cardsCollection        = "cards"
)

// Идентификаторы хранятся строками uuid, деньги - Decimal128.

type userDoc struct {
	ID           string    `bson:"_id"`
	Name         string    `bson:"name"`
	Email        string    `bson:"email"`
	Phone        string    `bson:"phone"`
	Address      string    `bson:"address"`
	PasswordHash string    `bson:"passwordHash"`
	UPIID        *string   `bson:"upiId,omitempty"`
	IsActive     bool      `bson:"isActive"`
	CreatedAt    time.Time `bson:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}

func newUserDoc(u domain.User) userDoc {
	return userDoc{
		ID:           u.ID.String(),
		Name:         u.Name,
		Email:        u.Email,
		Phone:        u.Phone,
		Address:      u.Address,
		PasswordHash: u.PasswordHash,
		UPIID:        u.UPIID,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (d userDoc) toDomain() (*domain.User, error) {
	var c converter
	u := &domain.User{
		ID:           c.id(d.ID),
		Name:         d.Name,
		Email:        d.Email,
		Phone:        d.Phone,
		Address:      d.Address,
		PasswordHash: d.PasswordHash,
		UPIID:        d.UPIID,
		IsActive:     d.IsActive,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
	return result(u, c.err)
}

type accountDoc struct {
	ID            string               `bson:"_id"`
	UserID        string               `bson:"userId"`
	AccountNumber string               `bson:"accountNumber"`
	AccountType   string               `bson:"accountType"`
	Balance       primitive.Decimal128 `bson:"balance"`
	IsActive      bool                 `bson:"isActive"`
	CreatedAt     time.Time            `bson:"createdAt"`
	UpdatedAt     time.Time            `bson:"updatedAt"`
}

func newAccountDoc(a domain.Account) (accountDoc, error) {
	var c converter
	doc := accountDoc{
		ID:            a.ID.String(),
		UserID:        a.UserID.String(),
		AccountNumber: a.AccountNumber,
		AccountType:   string(a.AccountType),
		Balance:       c.dec128(a.Balance),
		IsActive:      a.IsActive,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
	return doc, c.err
}

func (d accountDoc) toDomain() (*domain.Account, error) {
	var c converter
	a := &domain.Account{
		ID:            c.id(d.ID),
		UserID:        c.id(d.UserID),
		AccountNumber: d.AccountNumber,
		AccountType:   domain.AccountType(d.AccountType),
		Balance:       c.dec(d.Balance),
		IsActive:      d.IsActive,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
	return result(a, c.err)
}

type transactionDoc struct {
	ID                string               `bson:"_id"`
	SenderAccountID   string               `bson:"senderAccountId"`
	ReceiverAccountID *string              `bson:"receiverAccountId,omitempty"`
	Amount            primitive.Decimal128 `bson:"amount"`
	Type              string               `bson:"type"`
	Status            string               `bson:"status"`
	Reference         string               `bson:"reference"`
	Description       string               `bson:"description"`
	CreatedAt         time.Time            `bson:"createdAt"`
	CompletedAt       *time.Time           `bson:"completedAt,omitempty"`
}

func newTransactionDoc(t domain.Transaction) (transactionDoc, error) {
	var c converter
	doc := transactionDoc{
		ID:              t.ID.String(),
		SenderAccountID: t.SenderAccountID.String(),
		Amount:          c.dec128(t.Amount),
		Type:            string(t.Type),
		Status:          string(t.Status),
		Reference:       t.Reference,
		Description:     t.Description,
		CreatedAt:       t.CreatedAt,
		CompletedAt:     t.CompletedAt,
	}
	if t.ReceiverAccountID != nil {
		receiver := t.ReceiverAccountID.String()
		doc.ReceiverAccountID = &receiver
	}
	return doc, c.err
}

func (d transactionDoc) toDomain() (*domain.Transaction, error) {
	var c converter
	t := &domain.Transaction{
		ID:              c.id(d.ID),
		SenderAccountID: c.id(d.SenderAccountID),
		Amount:          c.dec(d.Amount),
		Type:            domain.TransactionType(d.Type),
		Status:          domain.TransactionStatus(d.Status),
		Reference:       d.Reference,
		Description:     d.Description,
		CreatedAt:       d.CreatedAt,
		CompletedAt:     d.CompletedAt,
	}
	if d.ReceiverAccountID != nil {
		receiver := c.id(*d.ReceiverAccountID)
		t.ReceiverAccountID = &receiver
	}
	return result(t, c.err)
}

type loanDoc struct {
	ID               string               `bson:"_id"`
	UserID           string               `bson:"userId"`
	LoanType         string               `bson:"loanType"`
	Amount           primitive.Decimal128 `bson:"amount"`
	InterestRate     primitive.Decimal128 `bson:"interestRate"`
	Term             int                  `bson:"term"`
	MonthlyPayment   primitive.Decimal128 `bson:"monthlyPayment"`
	TotalAmount      primitive.Decimal128 `bson:"totalAmount"`
	RemainingBalance primitive.Decimal128 `bson:"remainingBalance"`
	Purpose          string               `bson:"purpose"`
	Status           string               `bson:"status"`
	ApprovedAt       *time.Time           `bson:"approvedAt,omitempty"`
	CreatedAt        time.Time            `bson:"createdAt"`
	UpdatedAt        time.Time            `bson:"updatedAt"`
}

func newLoanDoc(l domain.Loan) (loanDoc, error) {
	var c converter
	doc := loanDoc{
		ID:               l.ID.String(),
		UserID:           l.UserID.String(),
		LoanType:         string(l.LoanType),
		Amount:           c.dec128(l.Amount),
		InterestRate:     c.dec128(l.InterestRate),
		Term:             l.Term,
		MonthlyPayment:   c.dec128(l.MonthlyPayment),
		TotalAmount:      c.dec128(l.TotalAmount),
		RemainingBalance: c.dec128(l.RemainingBalance),
		Purpose:          l.Purpose,
		Status:           string(l.Status),
		ApprovedAt:       l.ApprovedAt,
		CreatedAt:        l.CreatedAt,
		UpdatedAt:        l.UpdatedAt,
	}
	return doc, c.err
}

func (d loanDoc) toDomain() (*domain.Loan, error) {
	var c converter
	l := &domain.Loan{
		ID:               c.id(d.ID),
		UserID:           c.id(d.UserID),
		LoanType:         domain.LoanType(d.LoanType),
		Amount:           c.dec(d.Amount),
		InterestRate:     c.dec(d.InterestRate),
		Term:             d.Term,
		MonthlyPayment:   c.dec(d.MonthlyPayment),
		TotalAmount:      c.dec(d.TotalAmount),
		RemainingBalance: c.dec(d.RemainingBalance),
		Purpose:          d.Purpose,
		Status:           domain.LoanStatus(d.Status),
		ApprovedAt:       d.ApprovedAt,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
	return result(l, c.err)
}

type cardDoc struct {
	ID              string               `bson:"_id"`
	UserID          string               `bson:"userId"`
	AccountID       string               `bson:"accountId"`
	CardType        string               `bson:"cardType"`
	CardNumber      string               `bson:"cardNumber"`
	CardNetwork     string               `bson:"cardNetwork"`
	CardCategory    string               `bson:"cardCategory"`
	CardHolderName  string               `bson:"cardHolderName"`
	ExpiryDate      time.Time            `bson:"expiryDate"`
	CVVHash         string               `bson:"cvvHash"`
	PINHash         string               `bson:"pinHash"`
	CreditLimit     primitive.Decimal128 `bson:"creditLimit"`
	AvailableCredit primitive.Decimal128 `bson:"availableCredit"`
	AnnualFee       primitive.Decimal128 `bson:"annualFee"`
	RewardsProgram  string               `bson:"rewardsProgram"`
	Status          string               `bson:"status"`
	CreatedAt       time.Time            `bson:"createdAt"`
	UpdatedAt       time.Time            `bson:"updatedAt"`
}

func newCardDoc(card domain.Card) (cardDoc, error) {
	var c converter
	doc := cardDoc{
		ID:              card.ID.String(),
		UserID:          card.UserID.String(),
		AccountID:       card.AccountID.String(),
		CardType:        string(card.CardType),
		CardNumber:      card.CardNumber,
		CardNetwork:     string(card.CardNetwork),
		CardCategory:    string(card.CardCategory),
		CardHolderName:  card.CardHolderName,
		ExpiryDate:      card.ExpiryDate,
		CVVHash:         card.CVVHash,
		PINHash:         card.PINHash,
		CreditLimit:     c.dec128(card.CreditLimit),
		AvailableCredit: c.dec128(card.AvailableCredit),
		AnnualFee:       c.dec128(card.AnnualFee),
		RewardsProgram:  string(card.RewardsProgram),
		Status:          string(card.Status),
		CreatedAt:       card.CreatedAt,
		UpdatedAt:       card.UpdatedAt,
	}
	return doc, c.err
}

func (d cardDoc) toDomain() (*domain.Card, error) {
	var c converter
	card := &domain.Card{
		ID:              c.id(d.ID),
		UserID:          c.id(d.UserID),
		AccountID:       c.id(d.AccountID),
		CardType:        domain.CardType(d.CardType),
		CardNumber:      d.CardNumber,
		CardNetwork:     domain.CardNetwork(d.CardNetwork),
		CardCategory:    domain.CardCategory(d.CardCategory),
		CardHolderName:  d.CardHolderName,
		ExpiryDate:      d.ExpiryDate,
		CVVHash:         d.CVVHash,
		PINHash:         d.PINHash,
		CreditLimit:     c.dec(d.CreditLimit),
		AvailableCredit: c.dec(d.AvailableCredit),
		AnnualFee:       c.dec(d.AnnualFee),
		RewardsProgram:  domain.RewardsProgram(d.RewardsProgram),
		Status:          domain.CardStatus(d.Status),
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
	return result(card, c.err)
}

func result[T any](v *T, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	return v, nil
}

// idValue ключ фильтра по идентификатору.
func idValue(id uuid.UUID) string {
	return id.String()
}

// enumStrings приводит срез строковых enum к []string для $in.
func enumStrings[T ~string](values []T) []string {
	res := make([]string, len(values))
	for i, v := range values {
		res[i] = string(v)
	}
	return res
}
