package api

import (
	"context"
	"net/http"

	"github.com/fsdevblog/groph-bank/internal/domain"
	"github.com/fsdevblog/groph-bank/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type CardsHandler struct {
	svs CardServicer
}

func NewCardsHandler(svs CardServicer) *CardsHandler {
	return &CardsHandler{svs: svs}
}

type IssueCardParams struct {
	CardType       string           `binding:"required,oneof=debit credit" json:"cardType"`
	CardNetwork    string           `binding:"required"                    json:"cardNetwork"`
	CardCategory   string           `binding:"required"                    json:"cardCategory"`
	CreditLimit    *decimal.Decimal `json:"creditLimit"`
	CardHolderName string           `binding:"omitempty,max_bytes=64"      json:"cardHolderName"`
}

// Issue POST RouteGroup + CardsRoute.
func (h *CardsHandler) Issue(c *gin.Context) {
	var params IssueCardParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		abortWithBindError(c, bindErr)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	card, cvv, err := h.svs.Issue(ctx, getUserIDFromContext(c), service.IssueCardArgs{
		CardType:    domain.CardType(params.CardType),
		Network:     domain.CardNetwork(params.CardNetwork),
		Category:    domain.CardCategory(params.CardCategory),
		CreditLimit: params.CreditLimit,
		HolderName:  params.CardHolderName,
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, IssuedCardResponse{
		CardResponse:   newCardResponse(*card),
		FullCardNumber: card.CardNumber,
		CVV:            cvv,
	})
}

// List GET RouteGroup + CardsRoute.
func (h *CardsHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	cards, err := h.svs.List(ctx, getUserIDFromContext(c))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(cards, newCardResponse))
}

// Get GET RouteGroup + CardRoute.
func (h *CardsHandler) Get(c *gin.Context) {
	cardID, ok := bindResourceID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	card, err := h.svs.Get(ctx, getUserIDFromContext(c), cardID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCardResponse(*card))
}

// Block POST RouteGroup + CardBlockRoute. Блокировка необратима.
func (h *CardsHandler) Block(c *gin.Context) {
	cardID, ok := bindResourceID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	card, err := h.svs.Block(ctx, getUserIDFromContext(c), cardID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCardResponse(*card))
}

type SetPINParams struct {
	PIN string `binding:"required,len=4,number" json:"pin"`
}

// SetPIN PUT RouteGroup + CardPINRoute.
func (h *CardsHandler) SetPIN(c *gin.Context) {
	cardID, ok := bindResourceID(c)
	if !ok {
		return
	}
	var params SetPINParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		abortWithBindError(c, bindErr)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	card, err := h.svs.SetPIN(ctx, getUserIDFromContext(c), cardID, params.PIN)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCardResponse(*card))
}
