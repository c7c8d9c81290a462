package api

import (
	"fmt"
	"time"

	"github.com/fsdevblog/groph-bank/internal/transport/api/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	DefaultServiceTimeout = 3 * time.Second
)

const (
	RouteGroup             = "/api"
	RegisterRoute          = "/auth/register"
	LoginRoute             = "/auth/login"
	ProfileRoute           = "/user/profile"
	UPIRoute               = "/user/upi"
	AccountRoute           = "/account"
	DepositRoute           = "/transactions/deposit"
	WithdrawRoute          = "/transactions/withdraw"
	TransferRoute          = "/transactions/transfer"
	TransactionsRoute      = "/transactions"
	SummaryRoute           = "/transactions/summary"
	TransactionRoute       = "/transactions/:id"
	TransactionCancelRoute = "/transactions/:id/cancel"
	LoanRatesRoute         = "/loans/rates"
	LoanCalculateRoute     = "/loans/calculate"
	LoansRoute             = "/loans"
	LoanRoute              = "/loans/:id"
	CardsRoute             = "/cards"
	CardRoute              = "/cards/:id"
	CardBlockRoute         = "/cards/:id/block"
	CardPINRoute           = "/cards/:id/pin"
)

type RouterArgs struct {
	Logger        *logrus.Logger
	UserService   UserServicer
	LedgerService LedgerServicer
	LoanService   LoanServicer
	CardService   CardServicer
	JWTSecretKey  []byte
}

func New(args RouterArgs) (*gin.Engine, error) {
	if err := registerValidators(); err != nil {
		return nil, fmt.Errorf("router: %w", err)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if args.Logger != nil {
		r.Use(middlewares.Logger(args.Logger))
	}
	r.Use(middlewares.Errors())

	authHandler := NewAuthHandler(args.UserService)
	userHandler := NewUserHandler(args.UserService)
	ledgerHandler := NewLedgerHandler(args.LedgerService)
	loansHandler := NewLoansHandler(args.LoanService)
	cardsHandler := NewCardsHandler(args.CardService)

	api := r.Group(RouteGroup)

	api.POST(RegisterRoute, middlewares.NonAuthRequired(args.JWTSecretKey), authHandler.Register)
	api.POST(LoginRoute, middlewares.NonAuthRequired(args.JWTSecretKey), authHandler.Login)

	api.Use(middlewares.AuthRequired(args.JWTSecretKey))
	// ниже все роуты группы требуют авторизованного пользователя.
	api.GET(ProfileRoute, userHandler.Profile)
	api.PUT(ProfileRoute, userHandler.UpdateProfile)
	api.POST(UPIRoute, userHandler.LinkUPI)
	api.DELETE(UPIRoute, userHandler.UnlinkUPI)

	api.GET(AccountRoute, ledgerHandler.Account)
	api.POST(DepositRoute, ledgerHandler.Deposit)
	api.POST(WithdrawRoute, ledgerHandler.Withdraw)
	api.POST(TransferRoute, ledgerHandler.Transfer)
	api.GET(TransactionsRoute, ledgerHandler.History)
	api.GET(SummaryRoute, ledgerHandler.Summary)
	api.GET(TransactionRoute, ledgerHandler.Get)
	api.POST(TransactionCancelRoute, ledgerHandler.Cancel)

	api.GET(LoanRatesRoute, loansHandler.Rates)
	api.POST(LoanCalculateRoute, loansHandler.Calculate)
	api.POST(LoansRoute, loansHandler.Apply)
	api.GET(LoansRoute, loansHandler.List)
	api.GET(LoanRoute, loansHandler.Get)
	api.PATCH(LoanRoute, loansHandler.Modify)

	api.POST(CardsRoute, cardsHandler.Issue)
	api.GET(CardsRoute, cardsHandler.List)
	api.GET(CardRoute, cardsHandler.Get)
	api.POST(CardBlockRoute, cardsHandler.Block)
	api.PUT(CardPINRoute, cardsHandler.SetPIN)
	return r, nil
}
