package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsdevblog/groph-bank/internal/config"
	"github.com/fsdevblog/groph-bank/internal/service"
	"github.com/fsdevblog/groph-bank/internal/service/psswd"
	"github.com/fsdevblog/groph-bank/internal/transport/api"
	"github.com/fsdevblog/groph-bank/internal/worker/expiry"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	Config *config.Config
	Logger *logrus.Logger
}

func New(conf *config.Config, l *logrus.Logger) *App {
	return &App{
		Config: conf,
		Logger: l,
	}
}

// withServices открывает хранилище, собирает сервисы и вызывает fn. Соединения закрываются после fn.
func (a *App) withServices(ctx context.Context, fn func(ctx context.Context, services *service.AppServices) error) error {
	unitOfWork, closeStorage, err := a.openStorage(ctx)
	if err != nil {
		return err
	}
	defer closeStorage()

	services, err := service.Factory(unitOfWork, service.Options{
		JWTSecret: []byte(a.Config.JWTSecret),
		TokenTTL:  a.Config.JWTTTL,
		Hasher:    psswd.New(),
	})
	if err != nil {
		return fmt.Errorf("app: %s", err.Error())
	}
	return fn(ctx, services)
}

// Run запускает http API и воркер истечения карт. Завершается по SIGINT/SIGTERM с graceful shutdown
// http сервера.
func (a *App) Run() error {
	notifyCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.Logger.Infof("Starting app with config: %s", a.Config)

	return a.withServices(notifyCtx, func(ctx context.Context, services *service.AppServices) error {
		router, err := api.New(api.RouterArgs{
			Logger:        a.Logger,
			UserService:   services.UserService,
			LedgerService: services.LedgerService,
			LoanService:   services.LoanService,
			CardService:   services.CardService,
			JWTSecretKey:  []byte(a.Config.JWTSecret),
		})
		if err != nil {
			return fmt.Errorf("app run: %s", err.Error())
		}

		srv := &http.Server{
			Addr:              a.Config.RunAddress,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second, //nolint:mnd
		}

		processor := expiry.New(services.CardService, a.Logger).
			SetInterval(a.Config.CardExpiryInterval).
			SetBatch(a.Config.CardExpiryBatch)

		g, gCtx := errgroup.WithContext(ctx)
		g.Go(func() error {
			if runErr := srv.ListenAndServe(); runErr != nil && !errors.Is(runErr, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", runErr)
			}
			return nil
		})
		g.Go(func() error {
			<-gCtx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if shErr := srv.Shutdown(shutdownCtx); shErr != nil {
				return fmt.Errorf("http shutdown: %w", shErr)
			}
			return nil
		})
		g.Go(func() error {
			processor.Run(gCtx)
			return nil
		})

		if waitErr := g.Wait(); waitErr != nil {
			return waitErr //nolint:wrapcheck
		}
		return ctx.Err() //nolint:wrapcheck
	})
}
