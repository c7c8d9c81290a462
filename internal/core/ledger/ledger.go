// Package ledger проводит движение денег по одному или двум счетам и формирует запись транзакции.
// Пакет не обращается к хранилищу: результат проведения сохраняет вызывающая сторона.
package ledger

import (
	"time"

	"github.com/fsdevblog/groph-bank/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReferenceGenerator выдает уникальные референсы транзакций.
type ReferenceGenerator interface {
	Next() string
}

type Ledger struct {
	refs ReferenceGenerator
	now  func() time.Time
}

func New(refs ReferenceGenerator, now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	return &Ledger{refs: refs, now: now}
}

type Request struct {
	Type   domain.TransactionType
	Sender domain.Account
	// Receiver обязателен для transfer и payment, для deposit и withdrawal должен быть nil.
	Receiver    *domain.Account
	Amount      decimal.Decimal
	Description string
}

// Movement изменение баланса одного счета.
type Movement struct {
	AccountID uuid.UUID
	Delta     decimal.Decimal
	Balance   decimal.Decimal
}

// Posting результат проведения: транзакция и изменения балансов, которые нужно сохранить.
type Posting struct {
	Transaction domain.Transaction
	Movements   []Movement
}

// Apply проверяет запрос и проводит его. Транзакция сразу получает статус completed.
//
// Ошибки:
//   - domain.ErrValidation: сумма не положительна, неизвестный тип, отсутствует или совпадает получатель;
//   - domain.ErrAccessDenied: один из счетов деактивирован;
//   - domain.ErrInsufficientBalance: на счете отправителя не хватает денег для списания.
func (l *Ledger) Apply(req Request) (*Posting, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	sender := req.Sender
	var movements []Movement

	switch req.Type {
	case domain.TransactionDeposit:
		movements = []Movement{credit(sender, req.Amount)}
	case domain.TransactionWithdrawal:
		if sender.Balance.LessThan(req.Amount) {
			return nil, domain.ErrInsufficientBalance
		}
		movements = []Movement{debit(sender, req.Amount)}
	case domain.TransactionTransfer, domain.TransactionPayment:
		if sender.Balance.LessThan(req.Amount) {
			return nil, domain.ErrInsufficientBalance
		}
		movements = []Movement{debit(sender, req.Amount), credit(*req.Receiver, req.Amount)}
	}

	now := l.now()
	tx := domain.Transaction{
		ID:              uuid.New(),
		CreatedAt:       now,
		CompletedAt:     &now,
		SenderAccountID: sender.ID,
		Amount:          req.Amount,
		Type:            req.Type,
		Status:          domain.TransactionCompleted,
		Reference:       l.refs.Next(),
		Description:     req.Description,
	}
	if req.Receiver != nil {
		receiverID := req.Receiver.ID
		tx.ReceiverAccountID = &receiverID
	}

	return &Posting{Transaction: tx, Movements: movements}, nil
}

// Cancel отменяет транзакцию. Допустимо только из статуса pending.
func Cancel(tx *domain.Transaction) error {
	if tx.Status != domain.TransactionPending {
		return domain.NewTransitionError("transaction", string(tx.Status), string(domain.TransactionCancelled))
	}
	tx.Status = domain.TransactionCancelled
	return nil
}

func validate(req Request) error {
	if !req.Type.Valid() {
		return domain.NewValidationError("type", "unknown transaction type")
	}
	if !req.Amount.IsPositive() {
		return domain.NewValidationError("amount", "must be positive")
	}
	if !req.Sender.IsActive {
		return domain.ErrAccessDenied
	}

	if !req.Type.NeedsReceiver() {
		if req.Receiver != nil {
			return domain.NewValidationError("receiver", "not allowed for this transaction type")
		}
		return nil
	}

	if req.Receiver == nil {
		return domain.NewValidationError("receiver", "required")
	}
	if req.Receiver.ID == req.Sender.ID {
		return domain.NewValidationError("receiver", "must differ from sender")
	}
	if !req.Receiver.IsActive {
		return domain.ErrAccessDenied
	}
	return nil
}

func debit(acc domain.Account, amount decimal.Decimal) Movement {
	return Movement{AccountID: acc.ID, Delta: amount.Neg(), Balance: acc.Balance.Sub(amount)}
}

func credit(acc domain.Account, amount decimal.Decimal) Movement {
	return Movement{AccountID: acc.ID, Delta: amount, Balance: acc.Balance.Add(amount)}
}
