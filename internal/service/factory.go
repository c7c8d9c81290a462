package service

import (
	"fmt"
	"time"

	"github.com/fsdevblog/groph-bank/internal/core/ledger"
	"github.com/fsdevblog/groph-bank/pkg/uow"
)

type AppServices struct {
	UserService   *UserService
	LedgerService *LedgerService
	LoanService   *LoanService
	CardService   *CardService
}

type Options struct {
	JWTSecret []byte
	TokenTTL  time.Duration
	Hasher    PasswordHasher
	// References генератор референсов транзакций. Если nil, используется ledger.NewULIDReferences.
	References ledger.ReferenceGenerator
}

func Factory(unitOfWork uow.UOW, opts Options) (*AppServices, error) {
	refs := opts.References
	if refs == nil {
		refs = ledger.NewULIDReferences()
	}
	l := ledger.New(refs, time.Now)

	userService, userServiceErr := NewUserService(unitOfWork, opts.JWTSecret, opts.Hasher)
	if userServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", userServiceErr.Error())
	}
	userService.SetTokenTTL(opts.TokenTTL)

	ledgerService, ledgerServiceErr := NewLedgerService(unitOfWork, l, refs)
	if ledgerServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", ledgerServiceErr.Error())
	}

	loanService, loanServiceErr := NewLoanService(unitOfWork, l, refs)
	if loanServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", loanServiceErr.Error())
	}

	cardService, cardServiceErr := NewCardService(unitOfWork, opts.Hasher)
	if cardServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", cardServiceErr.Error())
	}

	return &AppServices{
		UserService:   userService,
		LedgerService: ledgerService,
		LoanService:   loanService,
		CardService:   cardService,
	}, nil
}
