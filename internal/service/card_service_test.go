package service

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/fsdevblog/groph-bank/internal/core/cardissuer"
	"github.com/fsdevblog/groph-bank/internal/domain"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type CardServiceTestSuite struct {
	serviceSuite
	cardService *CardService
	user        domain.User
	account     domain.Account
}

func TestCardServiceSuite(t *testing.T) {
	suite.Run(t, new(CardServiceTestSuite))
}

func (s *CardServiceTestSuite) SetupTest() {
	s.setupMocks()

	svc, err := NewCardService(s.mockUOW, s.mockPsswd)
	s.Require().NoError(err)
	s.cardService = svc

	s.user = domain.User{ID: uuid.New(), Name: "Jane Doe", IsActive: true}
	s.account = domain.Account{ID: uuid.New(), UserID: s.user.ID, IsActive: true}
}

func (s *CardServiceTestSuite) expectOwner() {
	s.mockUsers.EXPECT().FindByID(gomock.Any(), s.user.ID).Return(&s.user, nil)
	s.mockAccounts.EXPECT().FindByUserID(gomock.Any(), s.user.ID).Return(&s.account, nil)
	s.mockPsswd.EXPECT().HashPassword(gomock.Any()).Return("cvv-hash", nil)
}

func (s *CardServiceTestSuite) TestIssueCreditDefaults() {
	s.mockCards.EXPECT().
		CountByUserTypeAndStatuses(gomock.Any(), s.user.ID, domain.CardCredit, domain.OpenCardStatuses).
		Return(int64(0), nil)
	s.expectOwner()
	s.mockCards.EXPECT().
		CreateCard(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, c domain.Card) (*domain.Card, error) { return &c, nil })

	card, cvv, err := s.cardService.Issue(s.T().Context(), s.user.ID, IssueCardArgs{
		CardType: domain.CardCredit,
		Network:  domain.NetworkVisa,
		Category: domain.CategoryGold,
	})
	s.Require().NoError(err)

	s.Equal(domain.CardStatusActive, card.Status)
	s.Equal("JANE DOE", card.CardHolderName)
	s.Equal(s.account.ID, card.AccountID)
	s.Equal("cvv-hash", card.CVVHash)
	s.Len(cvv, 3)
	s.True(isDigits(cvv, 3), cvv)
	s.True(card.CreditLimit.Equal(decimal.NewFromInt(100_000)))
	s.True(card.AvailableCredit.Equal(card.CreditLimit))
	s.True(card.AnnualFee.Equal(decimal.NewFromInt(1000)))
	s.Equal(domain.RewardsCashback, card.RewardsProgram)
	s.Len(card.CardNumber, 16)
	s.Equal(byte('4'), card.CardNumber[0])
	s.True(cardissuer.ValidLuhn(card.CardNumber))
	s.WithinDuration(time.Now().AddDate(5, 0, 0), card.ExpiryDate, time.Minute)
}

func (s *CardServiceTestSuite) TestIssueDebit() {
	s.mockCards.EXPECT().
		CountByUserTypeAndStatuses(gomock.Any(), s.user.ID, domain.CardDebit, domain.OpenCardStatuses).
		Return(int64(0), nil)
	s.expectOwner()
	s.mockCards.EXPECT().
		CreateCard(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, c domain.Card) (*domain.Card, error) { return &c, nil })

	card, _, err := s.cardService.Issue(s.T().Context(), s.user.ID, IssueCardArgs{
		CardType:   domain.CardDebit,
		Network:    domain.NetworkRuPay,
		Category:   domain.CategoryPlatinum,
		HolderName: "j doe",
	})
	s.Require().NoError(err)
	s.Equal("J DOE", card.CardHolderName)
	s.True(card.CreditLimit.IsZero())
	s.True(card.AnnualFee.Equal(decimal.NewFromInt(500)))
	s.Equal(domain.RewardsNone, card.RewardsProgram)
	s.Equal(byte('6'), card.CardNumber[0])
}

func (s *CardServiceTestSuite) TestIssueDuplicateActiveCard() {
	s.mockCards.EXPECT().
		CountByUserTypeAndStatuses(gomock.Any(), s.user.ID, domain.CardCredit, domain.OpenCardStatuses).
		Return(int64(1), nil)
	s.mockCards.EXPECT().CreateCard(gomock.Any(), gomock.Any()).Times(0)

	_, _, err := s.cardService.Issue(s.T().Context(), s.user.ID, IssueCardArgs{
		CardType: domain.CardCredit,
		Network:  domain.NetworkMastercard,
		Category: domain.CategoryClassic,
	})
	s.Require().ErrorIs(err, domain.ErrDuplicateActiveCard)
}

func (s *CardServiceTestSuite) TestIssueNumberCollision() {
	s.mockCards.EXPECT().CountByUserTypeAndStatuses(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(int64(0), nil)
	s.expectOwner()

	var numbers []string
	s.mockCards.EXPECT().
		CreateCard(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, c domain.Card) (*domain.Card, error) {
			numbers = append(numbers, c.CardNumber)
			if len(numbers) < 3 {
				return nil, domain.ErrDuplicateKey
			}
			return &c, nil
		}).Times(3)

	card, _, err := s.cardService.Issue(s.T().Context(), s.user.ID, IssueCardArgs{
		CardType: domain.CardDebit,
		Network:  domain.NetworkAmex,
		Category: domain.CategoryClassic,
	})
	s.Require().NoError(err)
	s.Equal(numbers[2], card.CardNumber)
}

func (s *CardServiceTestSuite) TestIssueCollisionExhausted() {
	s.mockCards.EXPECT().CountByUserTypeAndStatuses(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(int64(0), nil)
	s.expectOwner()
	s.mockCards.EXPECT().CreateCard(gomock.Any(), gomock.Any()).
		Return(nil, domain.ErrDuplicateKey).Times(maxGenerateAttempts)

	_, _, err := s.cardService.Issue(s.T().Context(), s.user.ID, IssueCardArgs{
		CardType: domain.CardDebit,
		Network:  domain.NetworkVisa,
		Category: domain.CategoryClassic,
	})
	s.Require().ErrorIs(err, domain.ErrReferenceCollision)
	s.Require().NotErrorIs(err, domain.ErrDuplicateKey)
}

func (s *CardServiceTestSuite) TestIssueValidation() {
	negative := decimal.NewFromInt(-1)
	cases := []struct {
		name string
		args IssueCardArgs
	}{
		{
			name: "unknown network",
			args: IssueCardArgs{CardType: domain.CardDebit, Network: "Diners", Category: domain.CategoryGold},
		},
		{
			name: "unknown category",
			args: IssueCardArgs{CardType: domain.CardDebit, Network: domain.NetworkVisa, Category: "titanium"},
		},
		{
			name: "unknown type",
			args: IssueCardArgs{CardType: "prepaid", Network: domain.NetworkVisa, Category: domain.CategoryGold},
		},
		{
			name: "negative limit",
			args: IssueCardArgs{
				CardType:    domain.CardCredit,
				Network:     domain.NetworkVisa,
				Category:    domain.CategoryGold,
				CreditLimit: &negative,
			},
		},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			_, _, err := s.cardService.Issue(s.T().Context(), s.user.ID, t.args)
			s.Require().ErrorIs(err, domain.ErrValidation)
		})
	}
}

func (s *CardServiceTestSuite) TestBlock() {
	active := domain.Card{ID: uuid.New(), UserID: s.user.ID, Status: domain.CardStatusActive}
	blocked := domain.Card{ID: uuid.New(), UserID: s.user.ID, Status: domain.CardStatusBlocked}
	foreign := domain.Card{ID: uuid.New(), UserID: uuid.New(), Status: domain.CardStatusActive}

	s.mockCards.EXPECT().FindByID(gomock.Any(), active.ID).Return(&active, nil)
	s.mockCards.EXPECT().FindByID(gomock.Any(), blocked.ID).Return(&blocked, nil)
	s.mockCards.EXPECT().FindByID(gomock.Any(), foreign.ID).Return(&foreign, nil)
	blockedActive := active
	blockedActive.Status = domain.CardStatusBlocked
	s.mockCards.EXPECT().
		UpdateStatus(gomock.Any(), active.ID, domain.OpenCardStatuses, domain.CardStatusBlocked).
		Return(&blockedActive, nil)

	card, err := s.cardService.Block(s.T().Context(), s.user.ID, active.ID)
	s.Require().NoError(err)
	s.Equal(domain.CardStatusBlocked, card.Status)

	_, err = s.cardService.Block(s.T().Context(), s.user.ID, blocked.ID)
	s.Require().ErrorIs(err, domain.ErrInvalidTransition)

	_, err = s.cardService.Block(s.T().Context(), s.user.ID, foreign.ID)
	s.Require().ErrorIs(err, domain.ErrAccessDenied)
}

func (s *CardServiceTestSuite) TestSetPIN() {
	active := domain.Card{ID: uuid.New(), UserID: s.user.ID, Status: domain.CardStatusActive}
	expired := domain.Card{ID: uuid.New(), UserID: s.user.ID, Status: domain.CardStatusExpired}

	s.mockCards.EXPECT().FindByID(gomock.Any(), active.ID).Return(&active, nil)
	s.mockCards.EXPECT().FindByID(gomock.Any(), expired.ID).Return(&expired, nil)
	s.mockPsswd.EXPECT().HashPassword("1234").Return("pin-hash", nil)
	s.mockCards.EXPECT().
		SetPINHash(gomock.Any(), active.ID, "pin-hash").
		DoAndReturn(func(_ context.Context, _ uuid.UUID, hash string) (*domain.Card, error) {
			c := active
			c.PINHash = hash
			return &c, nil
		})

	for _, pin := range []string{"123", "12a4", "12345", ""} {
		_, err := s.cardService.SetPIN(s.T().Context(), s.user.ID, active.ID, pin)
		s.Require().ErrorIs(err, domain.ErrValidation, pin)
	}

	card, err := s.cardService.SetPIN(s.T().Context(), s.user.ID, active.ID, "1234")
	s.Require().NoError(err)
	s.Equal("pin-hash", card.PINHash)

	_, err = s.cardService.SetPIN(s.T().Context(), s.user.ID, expired.ID, "1234")
	s.Require().ErrorIs(err, domain.ErrInvalidTransition)
}

func (s *CardServiceTestSuite) TestExpireDue() {
	now := time.Now()
	due := []domain.Card{
		{ID: uuid.New(), Status: domain.CardStatusActive, ExpiryDate: now.Add(-time.Hour)},
		{ID: uuid.New(), Status: domain.CardStatusActive, ExpiryDate: now.Add(-time.Minute)},
	}
	s.mockCards.EXPECT().FindExpiring(gomock.Any(), now, uint(10)).Return(due, nil)
	s.mockCards.EXPECT().
		UpdateStatus(gomock.Any(), due[0].ID, domain.OpenCardStatuses, domain.CardStatusExpired).
		Return(&domain.Card{ID: due[0].ID, Status: domain.CardStatusExpired}, nil)
	// вторую карту заблокировали после выборки.
	s.mockCards.EXPECT().
		UpdateStatus(gomock.Any(), due[1].ID, domain.OpenCardStatuses, domain.CardStatusExpired).
		Return(nil, domain.ErrRecordNotFound)

	n, err := s.cardService.ExpireDue(s.T().Context(), now, 10)
	s.Require().NoError(err)
	s.Equal(1, n)
}

func (s *CardServiceTestSuite) TestSetPINDoesNotReviveBlockedCard() {
	card := domain.Card{ID: uuid.New(), UserID: s.user.ID, Status: domain.CardStatusActive}

	// stored имитирует запись карты в хранилище с условными обновлениями.
	stored := card
	s.mockCards.EXPECT().
		FindByID(gomock.Any(), card.ID).
		DoAndReturn(func(context.Context, uuid.UUID) (*domain.Card, error) {
			snapshot := stored
			return &snapshot, nil
		}).AnyTimes()
	s.mockCards.EXPECT().
		UpdateStatus(gomock.Any(), card.ID, gomock.Any(), gomock.Any()).
		DoAndReturn(func(
			_ context.Context,
			_ uuid.UUID,
			from []domain.CardStatus,
			to domain.CardStatus,
		) (*domain.Card, error) {
			if !slices.Contains(from, stored.Status) {
				return nil, domain.ErrRecordNotFound
			}
			stored.Status = to
			updated := stored
			return &updated, nil
		})
	s.mockCards.EXPECT().
		SetPINHash(gomock.Any(), card.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, hash string) (*domain.Card, error) {
			if stored.Status != domain.CardStatusActive {
				return nil, domain.ErrRecordNotFound
			}
			stored.PINHash = hash
			updated := stored
			return &updated, nil
		})

	var blockErr error
	s.mockPsswd.EXPECT().
		HashPassword("4321").
		DoAndReturn(func(string) (string, error) {
			// карту блокируют, пока считается хеш PIN.
			_, blockErr = s.cardService.Block(s.T().Context(), s.user.ID, card.ID)
			return "pin-hash", nil
		})

	_, err := s.cardService.SetPIN(s.T().Context(), s.user.ID, card.ID, "4321")
	s.Require().NoError(blockErr)
	s.Require().ErrorIs(err, domain.ErrInvalidTransition)

	var transitionErr *domain.TransitionError
	s.Require().ErrorAs(err, &transitionErr)
	s.Equal(string(domain.CardStatusBlocked), transitionErr.From)
	s.Equal(domain.CardStatusBlocked, stored.Status)
	s.Empty(stored.PINHash)
}
