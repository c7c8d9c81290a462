package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/fsdevblog/groph-bank/internal/core/cardissuer"
	"github.com/fsdevblog/groph-bank/internal/domain"
	"github.com/fsdevblog/groph-bank/internal/repository/repoargs"
	"github.com/fsdevblog/groph-bank/pkg/uow"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	cardValidity = 5
	pinLength    = 4
)

type CardService struct {
	uow         uow.UOW
	cardRepo    CardRepository
	accountRepo AccountRepository
	userRepo    UserRepository
	hasher      PasswordHasher
	now         func() time.Time
}

func NewCardService(u uow.UOW, hasher PasswordHasher) (*CardService, error) {
	cardRepo, err := uow.GetRepositoryAs[CardRepository](u, uow.RepositoryName(repoargs.CardRepoName))
	if err != nil {
		return nil, err
	}
	accountRepo, err := uow.GetRepositoryAs[AccountRepository](u, uow.RepositoryName(repoargs.AccountRepoName))
	if err != nil {
		return nil, err
	}
	userRepo, err := uow.GetRepositoryAs[UserRepository](u, uow.RepositoryName(repoargs.UserRepoName))
	if err != nil {
		return nil, err
	}
	return &CardService{
		uow:         u,
		cardRepo:    cardRepo,
		accountRepo: accountRepo,
		userRepo:    userRepo,
		hasher:      hasher,
		now:         time.Now,
	}, nil
}

type IssueCardArgs struct {
	CardType    domain.CardType
	Network     domain.CardNetwork
	Category    domain.CardCategory
	CreditLimit *decimal.Decimal
	HolderName  string
}

// Issue выпускает карту привязанную к счету юзера. Карта сразу активна, срок действия 5 лет.
// Вторым значением возвращается CVV: в хранилище остается только его хеш, больше его узнать нельзя.
//
// Ошибки:
//   - domain.ErrValidation: неизвестные тип, платежная система или категория, неположительный лимит;
//   - domain.ErrDuplicateActiveCard: у юзера уже есть карта этого типа в нетерминальном статусе.
func (s *CardService) Issue(
	ctx context.Context,
	userID uuid.UUID,
	args IssueCardArgs,
) (*domain.Card, string, error) {
	if !cardissuer.ValidNetwork(args.Network) {
		return nil, "", domain.NewValidationError("cardNetwork", "unknown card network")
	}
	fee, rewards, err := cardissuer.FeeSchedule(args.CardType, args.Category)
	if err != nil {
		return nil, "", err //nolint:wrapcheck
	}
	limit, err := creditLimit(args)
	if err != nil {
		return nil, "", err
	}

	count, err := s.cardRepo.CountByUserTypeAndStatuses(ctx, userID, args.CardType, domain.OpenCardStatuses)
	if err != nil {
		return nil, "", fmt.Errorf("issuing card: %w", err)
	}
	if count > 0 {
		return nil, "", domain.ErrDuplicateActiveCard
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, "", fmt.Errorf("issuing card: %w", err)
	}
	account, err := s.accountRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, "", fmt.Errorf("issuing card: %w", err)
	}
	cvv := cardissuer.GenerateCVV()
	cvvHash, err := s.hasher.HashPassword(cvv)
	if err != nil {
		return nil, "", fmt.Errorf("issuing card: %w", err)
	}

	holder := strings.TrimSpace(args.HolderName)
	if holder == "" {
		holder = user.Name
	}
	now := s.now()
	card := domain.Card{
		UserID:          userID,
		AccountID:       account.ID,
		CardType:        args.CardType,
		CardNetwork:     args.Network,
		CardCategory:    args.Category,
		CardHolderName:  strings.ToUpper(holder),
		ExpiryDate:      now.AddDate(cardValidity, 0, 0),
		CVVHash:         cvvHash,
		CreditLimit:     limit,
		AvailableCredit: limit,
		AnnualFee:       fee,
		RewardsProgram:  rewards,
		Status:          domain.CardStatusActive,
	}

	var created *domain.Card
	retryErr := withCollisionRetry(ctx, func(int) error {
		number, genErr := cardissuer.GenerateCardNumber(args.Network)
		if genErr != nil {
			return genErr //nolint:wrapcheck
		}
		card.ID = uuid.New()
		card.CardNumber = number
		var createErr error
		created, createErr = s.cardRepo.CreateCard(ctx, card)
		return createErr //nolint:wrapcheck
	})
	if retryErr != nil {
		return nil, "", fmt.Errorf("issuing card: %w", retryErr)
	}
	return created, cvv, nil
}

func (s *CardService) List(ctx context.Context, userID uuid.UUID) ([]domain.Card, error) {
	cards, err := s.cardRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing cards: %w", err)
	}
	return cards, nil
}

// Get возвращает карту владельца. Чужая карта - domain.ErrAccessDenied.
func (s *CardService) Get(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error) {
	card, err := s.cardRepo.FindByID(ctx, cardID)
	if err != nil {
		return nil, fmt.Errorf("get card: %w", err)
	}
	if card.UserID != userID {
		return nil, domain.ErrAccessDenied
	}
	return card, nil
}

// Block блокирует карту. Блокировка необратима.
func (s *CardService) Block(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error) {
	card, err := s.Get(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(domain.OpenCardStatuses, card.Status) {
		return nil, domain.NewTransitionError("card", string(card.Status), string(domain.CardStatusBlocked))
	}

	updated, err := s.cardRepo.UpdateStatus(ctx, card.ID, domain.OpenCardStatuses, domain.CardStatusBlocked)
	if err != nil {
		return nil, fmt.Errorf("blocking card: %w", s.conflict(ctx, card.ID, string(domain.CardStatusBlocked), err))
	}
	return updated, nil
}

// SetPIN устанавливает 4-значный PIN активной карте.
func (s *CardService) SetPIN(ctx context.Context, userID, cardID uuid.UUID, pin string) (*domain.Card, error) {
	if !isDigits(pin, pinLength) {
		return nil, domain.NewValidationError("pin", "must be 4 digits")
	}
	card, err := s.Get(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}
	if card.Status != domain.CardStatusActive {
		return nil, domain.NewTransitionError("card", string(card.Status), "pin set")
	}

	hash, err := s.hasher.HashPassword(pin)
	if err != nil {
		return nil, fmt.Errorf("setting pin: %w", err)
	}

	// карту могли заблокировать, пока считался хеш: хранилище пишет PIN только активной карте.
	updated, err := s.cardRepo.SetPINHash(ctx, card.ID, hash)
	if err != nil {
		return nil, fmt.Errorf("setting pin: %w", s.conflict(ctx, card.ID, "pin set", err))
	}
	return updated, nil
}

// ExpireDue переводит в expired не больше limit карт с истекшим сроком действия. Возвращает количество
// просроченных карт. Карты, сменившие статус после выборки, пропускаются.
func (s *CardService) ExpireDue(ctx context.Context, now time.Time, limit uint) (int, error) {
	cards, err := s.cardRepo.FindExpiring(ctx, now, limit)
	if err != nil {
		return 0, fmt.Errorf("expiring cards: %w", err)
	}

	expired := 0
	for _, card := range cards {
		_, updErr := s.cardRepo.UpdateStatus(ctx, card.ID, domain.OpenCardStatuses, domain.CardStatusExpired)
		if errors.Is(updErr, domain.ErrRecordNotFound) {
			continue
		}
		if updErr != nil {
			return expired, fmt.Errorf("expiring card %s: %w", card.ID, updErr)
		}
		expired++
	}
	return expired, nil
}

// conflict объясняет несработавшее условное обновление карты: раз карта была найдена, значит ее статус
// успел измениться. Перечитывает карту и возвращает ошибку перехода из актуального статуса.
func (s *CardService) conflict(ctx context.Context, cardID uuid.UUID, to string, err error) error {
	if !errors.Is(err, domain.ErrRecordNotFound) {
		return err
	}
	card, findErr := s.cardRepo.FindByID(ctx, cardID)
	if findErr != nil {
		return findErr //nolint:wrapcheck
	}
	return domain.NewTransitionError("card", string(card.Status), to)
}

// creditLimit возвращает лимит кредитной карты: переданный или лимит категории по умолчанию.
// У дебетовых карт лимита нет.
func creditLimit(args IssueCardArgs) (decimal.Decimal, error) {
	if args.CardType != domain.CardCredit {
		return decimal.Zero, nil
	}
	if args.CreditLimit == nil {
		limit, ok := cardissuer.DefaultCreditLimit(args.Category)
		if !ok {
			return decimal.Zero, domain.NewValidationError("cardCategory", "unknown card category")
		}
		return limit, nil
	}
	if !args.CreditLimit.IsPositive() {
		return decimal.Zero, domain.NewValidationError("creditLimit", "must be positive")
	}
	return *args.CreditLimit, nil
}

func isDigits(s string, length int) bool {
	if len(s) != length {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
