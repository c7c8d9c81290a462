package api

import (
	"context"
	"net/http"

	"github.com/fsdevblog/groph-bank/internal/domain"
	"github.com/fsdevblog/groph-bank/internal/repository/repoargs"
	"github.com/fsdevblog/groph-bank/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type LedgerHandler struct {
	svs LedgerServicer
}

func NewLedgerHandler(svs LedgerServicer) *LedgerHandler {
	return &LedgerHandler{svs: svs}
}

// Account GET RouteGroup + AccountRoute.
func (h *LedgerHandler) Account(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	account, err := h.svs.Account(ctx, getUserIDFromContext(c))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newAccountResponse(*account))
}

type MoneyParams struct {
	Amount      *decimal.Decimal `binding:"required"                json:"amount"`
	Description string           `binding:"omitempty,max_bytes=255" json:"description"`
}

// Deposit POST RouteGroup + DepositRoute.
func (h *LedgerHandler) Deposit(c *gin.Context) {
	h.moveMoney(c, h.svs.Deposit)
}

// Withdraw POST RouteGroup + WithdrawRoute.
func (h *LedgerHandler) Withdraw(c *gin.Context) {
	h.moveMoney(c, h.svs.Withdraw)
}

type moneyOperation func(ctx context.Context, userID uuid.UUID, args service.MoneyArgs) (*domain.Transaction, error)

func (h *LedgerHandler) moveMoney(c *gin.Context, op moneyOperation) {
	var params MoneyParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		abortWithBindError(c, bindErr)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	tx, err := op(ctx, getUserIDFromContext(c), service.MoneyArgs{
		Amount:      *params.Amount,
		Description: params.Description,
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newTransactionResponse(*tx))
}

type TransferParams struct {
	ToAccountNumber string           `binding:"required_without=ToUPI,max_bytes=32"            json:"toAccountNumber"`
	ToUPI           string           `binding:"required_without=ToAccountNumber,omitempty,upi" json:"toUpiId"`
	Amount          *decimal.Decimal `binding:"required"                                       json:"amount"`
	Description     string           `binding:"omitempty,max_bytes=255"                        json:"description"`
	Type            string           `binding:"omitempty,oneof=transfer payment"               json:"type"`
}

// Transfer POST RouteGroup + TransferRoute. Перевод по номеру счета или UPI id получателя.
func (h *LedgerHandler) Transfer(c *gin.Context) {
	var params TransferParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		abortWithBindError(c, bindErr)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	tx, err := h.svs.Transfer(ctx, getUserIDFromContext(c), service.TransferArgs{
		ToAccountNumber: params.ToAccountNumber,
		ToUPI:           params.ToUPI,
		Amount:          *params.Amount,
		Description:     params.Description,
		Type:            domain.TransactionType(params.Type),
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newTransactionResponse(*tx))
}

type HistoryParams struct {
	Limit  uint `binding:"omitempty,max=100" form:"limit"`
	Offset uint `form:"offset"`
}

// History GET RouteGroup + TransactionsRoute. Новые транзакции первыми.
func (h *LedgerHandler) History(c *gin.Context) {
	var params HistoryParams
	if bindErr := c.ShouldBindQuery(&params); bindErr != nil {
		abortWithBindError(c, bindErr)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	txs, err := h.svs.History(ctx, getUserIDFromContext(c), repoargs.Page{Limit: params.Limit, Offset: params.Offset})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(txs, newTransactionResponse))
}

// Summary GET RouteGroup + SummaryRoute.
func (h *LedgerHandler) Summary(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	summary, err := h.svs.Summary(ctx, getUserIDFromContext(c))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(summary, func(s domain.TransactionSummary) SummaryResponseItem {
		return SummaryResponseItem{
			Type:          s.Type,
			IncomingCount: s.IncomingCount,
			IncomingTotal: s.IncomingTotal,
			OutgoingCount: s.OutgoingCount,
			OutgoingTotal: s.OutgoingTotal,
		}
	}))
}

// Get GET RouteGroup + TransactionRoute.
func (h *LedgerHandler) Get(c *gin.Context) {
	txID, ok := bindResourceID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	tx, err := h.svs.Get(ctx, getUserIDFromContext(c), txID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTransactionResponse(*tx))
}

// Cancel POST RouteGroup + TransactionCancelRoute.
func (h *LedgerHandler) Cancel(c *gin.Context) {
	txID, ok := bindResourceID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	tx, err := h.svs.Cancel(ctx, getUserIDFromContext(c), txID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTransactionResponse(*tx))
}
