package api

import (
	"context"
	"net/http"

	"github.com/fsdevblog/groph-bank/internal/domain"
	"github.com/fsdevblog/groph-bank/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type LoansHandler struct {
	svs LoanServicer
}

func NewLoansHandler(svs LoanServicer) *LoansHandler {
	return &LoansHandler{svs: svs}
}

type RateParams struct {
	LoanType string `binding:"required" form:"loanType"`
	Amount   string `binding:"required" form:"amount"`
}

// Rates GET RouteGroup + LoanRatesRoute. Ставка для типа кредита и суммы.
func (h *LoansHandler) Rates(c *gin.Context) {
	var params RateParams
	if bindErr := c.ShouldBindQuery(&params); bindErr != nil {
		abortWithBindError(c, bindErr)
		return
	}
	amount, err := decimal.NewFromString(params.Amount)
	if err != nil {
		abortWithServiceError(c, domain.NewValidationError("amount", "must be a number"))
		return
	}

	rate, err := h.svs.Quote(domain.LoanType(params.LoanType), amount)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"loanType": params.LoanType, "amount": amount, "interestRate": rate})
}

type CalculateParams struct {
	Principal *decimal.Decimal `binding:"required"              json:"principal"`
	Rate      *decimal.Decimal `json:"rate"`
	LoanType  string           `binding:"required_without=Rate" json:"loanType"`
	Term      int              `binding:"required,min=1"        json:"term"`
}

// Calculate POST RouteGroup + LoanCalculateRoute. Ставка берется из таблицы, если не передана явно.
func (h *LoansHandler) Calculate(c *gin.Context) {
	var params CalculateParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		abortWithBindError(c, bindErr)
		return
	}

	schedule, rate, err := h.svs.Calculate(service.CalculateArgs{
		Principal: *params.Principal,
		Rate:      params.Rate,
		LoanType:  domain.LoanType(params.LoanType),
		Term:      params.Term,
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newScheduleResponse(schedule, rate))
}

type ApplyLoanParams struct {
	LoanType string           `binding:"required"                json:"loanType"`
	Amount   *decimal.Decimal `binding:"required"                json:"amount"`
	Term     int              `binding:"required,min=1"          json:"term"`
	Purpose  string           `binding:"omitempty,max_bytes=500" json:"purpose"`
}

// Apply POST RouteGroup + LoansRoute. Создает заявку в статусе pending.
func (h *LoansHandler) Apply(c *gin.Context) {
	var params ApplyLoanParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		abortWithBindError(c, bindErr)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	loan, err := h.svs.Apply(ctx, getUserIDFromContext(c), service.ApplyLoanArgs{
		LoanType: domain.LoanType(params.LoanType),
		Amount:   *params.Amount,
		Term:     params.Term,
		Purpose:  params.Purpose,
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newLoanResponse(*loan))
}

// List GET RouteGroup + LoansRoute.
func (h *LoansHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	loans, err := h.svs.List(ctx, getUserIDFromContext(c))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(loans, newLoanResponse))
}

// Get GET RouteGroup + LoanRoute.
func (h *LoansHandler) Get(c *gin.Context) {
	loanID, ok := bindResourceID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	loan, err := h.svs.Get(ctx, getUserIDFromContext(c), loanID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newLoanResponse(*loan))
}

type ModifyLoanParams struct {
	Amount *decimal.Decimal `json:"amount"`
	Term   *int             `binding:"omitempty,min=1" json:"term"`
}

// Modify PATCH RouteGroup + LoanRoute. Только для заявок в статусе pending.
func (h *LoansHandler) Modify(c *gin.Context) {
	loanID, ok := bindResourceID(c)
	if !ok {
		return
	}
	var params ModifyLoanParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		abortWithBindError(c, bindErr)
		return
	}
	if params.Amount == nil && params.Term == nil {
		abortWithServiceError(c, domain.NewValidationError("amount", "amount or term required"))
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	loan, err := h.svs.Modify(ctx, getUserIDFromContext(c), loanID, service.ModifyLoanArgs{
		Amount: params.Amount,
		Term:   params.Term,
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newLoanResponse(*loan))
}
