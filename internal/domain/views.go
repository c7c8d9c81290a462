package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UserView профиль юзера без чувствительных полей.
type UserView struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
	Name      string
	Email     string
	Phone     string
	Address   string
	UPIID     *string
	IsActive  bool
}

// PublicUser возвращает профиль без хеша пароля.
func PublicUser(u User) UserView {
	return UserView{
		ID:        u.ID,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Address:   u.Address,
		UPIID:     u.UPIID,
		IsActive:  u.IsActive,
	}
}

// CardView карта без CVV и PIN, номер замаскирован.
type CardView struct {
	ID              uuid.UUID
	CreatedAt       time.Time
	CardType        CardType
	MaskedNumber    string
	CardNetwork     CardNetwork
	CardCategory    CardCategory
	CardHolderName  string
	ExpiryDate      time.Time
	CreditLimit     decimal.Decimal
	AvailableCredit decimal.Decimal
	AnnualFee       decimal.Decimal
	RewardsProgram  RewardsProgram
	Status          CardStatus
	HasPIN          bool
}

// PublicCard возвращает представление карты, пригодное для отдачи наружу.
func PublicCard(c Card) CardView {
	return CardView{
		ID:              c.ID,
		CreatedAt:       c.CreatedAt,
		CardType:        c.CardType,
		MaskedNumber:    MaskCardNumber(c.CardNumber),
		CardNetwork:     c.CardNetwork,
		CardCategory:    c.CardCategory,
		CardHolderName:  c.CardHolderName,
		ExpiryDate:      c.ExpiryDate,
		CreditLimit:     c.CreditLimit,
		AvailableCredit: c.AvailableCredit,
		AnnualFee:       c.AnnualFee,
		RewardsProgram:  c.RewardsProgram,
		Status:          c.Status,
		HasPIN:          c.PINHash != "",
	}
}

// MaskCardNumber оставляет видимыми только 4 последние цифры.
func MaskCardNumber(number string) string {
	const visible = 4
	if len(number) <= visible {
		return number
	}
	return strings.Repeat("*", len(number)-visible) + number[len(number)-visible:]
}
