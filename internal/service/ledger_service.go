package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/fsdevblog/groph-bank/internal/core/ledger"
	"github.com/fsdevblog/groph-bank/internal/domain"
	"github.com/fsdevblog/groph-bank/internal/repository/repoargs"
	"github.com/fsdevblog/groph-bank/pkg/uow"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type LedgerService struct {
	uow         uow.UOW
	accountRepo AccountRepository
	txRepo      TransactionRepository
	ledger      *ledger.Ledger
	refs        ledger.ReferenceGenerator
}

func NewLedgerService(u uow.UOW, l *ledger.Ledger, refs ledger.ReferenceGenerator) (*LedgerService, error) {
	accountRepo, err := uow.GetRepositoryAs[AccountRepository](u, uow.RepositoryName(repoargs.AccountRepoName))
	if err != nil {
		return nil, err
	}
	txRepo, err := uow.GetRepositoryAs[TransactionRepository](u, uow.RepositoryName(repoargs.TransactionRepoName))
	if err != nil {
		return nil, err
	}
	return &LedgerService{
		uow:         u,
		accountRepo: accountRepo,
		txRepo:      txRepo,
		ledger:      l,
		refs:        refs,
	}, nil
}

type MoneyArgs struct {
	Amount      decimal.Decimal
	Description string
}

// Deposit зачисляет деньги на счет юзера.
func (s *LedgerService) Deposit(ctx context.Context, userID uuid.UUID, args MoneyArgs) (*domain.Transaction, error) {
	tx, err := s.post(ctx, userID, func(_ context.Context, _ uow.TX, sender *domain.Account) (*ledger.Request, error) {
		return &ledger.Request{
			Type:        domain.TransactionDeposit,
			Sender:      *sender,
			Amount:      args.Amount,
			Description: args.Description,
		}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("deposit: %w", err)
	}
	return tx, nil
}

// Withdraw списывает деньги со счета юзера. Недостаток средств - domain.ErrInsufficientBalance.
func (s *LedgerService) Withdraw(ctx context.Context, userID uuid.UUID, args MoneyArgs) (*domain.Transaction, error) {
	tx, err := s.post(ctx, userID, func(_ context.Context, _ uow.TX, sender *domain.Account) (*ledger.Request, error) {
		return &ledger.Request{
			Type:        domain.TransactionWithdrawal,
			Sender:      *sender,
			Amount:      args.Amount,
			Description: args.Description,
		}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("withdraw: %w", err)
	}
	return tx, nil
}

type TransferArgs struct {
	// Получатель задается номером счета или привязанным UPI id. Номер счета приоритетнее.
	ToAccountNumber string
	ToUPI           string
	Amount          decimal.Decimal
	Description     string
	// Type transfer или payment. Пустое значение - transfer.
	Type domain.TransactionType
}

// Transfer переводит деньги со счета юзера на счет получателя. Списание, зачисление и запись транзакции
// выполняются в одной транзакции unit of work.
func (s *LedgerService) Transfer(ctx context.Context, userID uuid.UUID, args TransferArgs) (*domain.Transaction, error) {
	txType := args.Type
	if txType == "" {
		txType = domain.TransactionTransfer
	}
	if !txType.NeedsReceiver() {
		return nil, domain.NewValidationError("type", "must be transfer or payment")
	}
	if strings.TrimSpace(args.ToAccountNumber) == "" && strings.TrimSpace(args.ToUPI) == "" {
		return nil, domain.NewValidationError("receiver", "account number or upi id required")
	}

	tx, err := s.post(ctx, userID, func(c context.Context, t uow.TX, sender *domain.Account) (*ledger.Request, error) {
		receiver, recErr := s.resolveReceiver(c, t, args)
		if recErr != nil {
			return nil, recErr
		}
		return &ledger.Request{
			Type:        txType,
			Sender:      *sender,
			Receiver:    receiver,
			Amount:      args.Amount,
			Description: args.Description,
		}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("transfer: %w", err)
	}
	return tx, nil
}

type requestBuilder func(ctx context.Context, tx uow.TX, sender *domain.Account) (*ledger.Request, error)

// post читает счет юзера внутри транзакции, строит запрос, проводит его и сохраняет результат.
func (s *LedgerService) post(ctx context.Context, userID uuid.UUID, build requestBuilder) (*domain.Transaction, error) {
	var result *domain.Transaction
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		accountRepo, err := uow.GetAs[AccountRepository](tx, uow.RepositoryName(repoargs.AccountRepoName))
		if err != nil {
			return err //nolint:wrapcheck
		}
		sender, err := accountRepo.FindByUserID(c, userID)
		if err != nil {
			return err //nolint:wrapcheck
		}
		req, err := build(c, tx, sender)
		if err != nil {
			return err
		}
		posting, err := s.ledger.Apply(*req)
		if err != nil {
			return err //nolint:wrapcheck
		}
		result, err = persistPosting(c, tx, s.refs, posting)
		return err
	})
	if txErr != nil {
		return nil, txErr //nolint:wrapcheck
	}
	return result, nil
}

func (s *LedgerService) resolveReceiver(ctx context.Context, tx uow.TX, args TransferArgs) (*domain.Account, error) {
	accountRepo, err := uow.GetAs[AccountRepository](tx, uow.RepositoryName(repoargs.AccountRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	if number := strings.TrimSpace(args.ToAccountNumber); number != "" {
		return accountRepo.FindByNumber(ctx, number) //nolint:wrapcheck
	}

	userRepo, err := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	receiver, err := userRepo.FindByUPI(ctx, strings.ToLower(strings.TrimSpace(args.ToUPI)))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return accountRepo.FindByUserID(ctx, receiver.ID) //nolint:wrapcheck
}

// Account возвращает счет юзера.
func (s *LedgerService) Account(ctx context.Context, userID uuid.UUID) (*domain.Account, error) {
	acc, err := s.accountRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("account: %w", err)
	}
	return acc, nil
}

// History возвращает транзакции счета юзера, новые первыми.
func (s *LedgerService) History(ctx context.Context, userID uuid.UUID, page repoargs.Page) ([]domain.Transaction, error) {
	acc, err := s.accountRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	txs, err := s.txRepo.ListByAccount(ctx, acc.ID, page.Normalize())
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	return txs, nil
}

// Get возвращает транзакцию, если счет юзера в ней участвует. Иначе domain.ErrAccessDenied.
func (s *LedgerService) Get(ctx context.Context, userID, txID uuid.UUID) (*domain.Transaction, error) {
	acc, err := s.accountRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	tx, err := s.txRepo.FindByID(ctx, txID)
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	if !tx.Involves(acc.ID) {
		return nil, domain.ErrAccessDenied
	}
	return tx, nil
}

// Cancel отменяет транзакцию. Отменить может только отправитель и только пока транзакция в pending.
func (s *LedgerService) Cancel(ctx context.Context, userID, txID uuid.UUID) (*domain.Transaction, error) {
	acc, err := s.accountRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("cancel transaction: %w", err)
	}
	tx, err := s.txRepo.FindByID(ctx, txID)
	if err != nil {
		return nil, fmt.Errorf("cancel transaction: %w", err)
	}
	if tx.SenderAccountID != acc.ID {
		return nil, domain.ErrAccessDenied
	}
	if cancelErr := ledger.Cancel(tx); cancelErr != nil {
		return nil, cancelErr //nolint:wrapcheck
	}

	updated, err := s.txRepo.UpdateStatus(ctx, tx.ID, tx.Status)
	if err != nil {
		return nil, fmt.Errorf("cancel transaction: %w", err)
	}
	return updated, nil
}

// Summary возвращает агрегаты по типам транзакций счета юзера.
func (s *LedgerService) Summary(ctx context.Context, userID uuid.UUID) ([]domain.TransactionSummary, error) {
	acc, err := s.accountRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}
	summary, err := s.txRepo.SummarizeByAccount(ctx, acc.ID)
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}
	return summary, nil
}
