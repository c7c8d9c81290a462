package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fsdevblog/groph-bank/internal/core/ledger"
	"github.com/fsdevblog/groph-bank/internal/domain"
	"github.com/fsdevblog/groph-bank/internal/repository/repoargs"
	"github.com/fsdevblog/groph-bank/internal/service/tokens"
	"github.com/fsdevblog/groph-bank/pkg/uow"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const JWTTokenExpire = 1 * time.Hour

type UserService struct {
	uow            uow.UOW
	userRepo       UserRepository
	accountRepo    AccountRepository
	hasher         PasswordHasher
	jwtTokenSecret []byte
	tokenTTL       time.Duration
	now            func() time.Time
}

func NewUserService(u uow.UOW, jwtTokenSecret []byte, hasher PasswordHasher) (*UserService, error) {
	userRepo, userRepoErr := uow.GetRepositoryAs[UserRepository](u, uow.RepositoryName(repoargs.UserRepoName))
	if userRepoErr != nil {
		return nil, userRepoErr
	}
	accountRepo, accountRepoErr := uow.GetRepositoryAs[AccountRepository](
		u,
		uow.RepositoryName(repoargs.AccountRepoName),
	)
	if accountRepoErr != nil {
		return nil, accountRepoErr
	}
	return &UserService{
		uow:            u,
		userRepo:       userRepo,
		accountRepo:    accountRepo,
		hasher:         hasher,
		jwtTokenSecret: jwtTokenSecret,
		tokenTTL:       JWTTokenExpire,
		now:            time.Now,
	}, nil
}

// SetTokenTTL задает время жизни выдаваемых токенов. Нулевое значение игнорируется.
func (s *UserService) SetTokenTTL(ttl time.Duration) {
	if ttl > 0 {
		s.tokenTTL = ttl
	}
}

type RegisterUserArgs struct {
	Name        string
	Email       string
	Phone       string
	Password    string
	AccountType domain.AccountType
}

// Register создает юзера и его счет с нулевым балансом в одной транзакции, затем выпускает jwt токен.
// Занятый email - domain.ErrDuplicateKey.
func (s *UserService) Register(
	ctx context.Context,
	args RegisterUserArgs,
) (*domain.User, *domain.Account, string, error) {
	accountType := args.AccountType
	if accountType == "" {
		accountType = domain.AccountTypeSavings
	}
	if accountType != domain.AccountTypeSavings && accountType != domain.AccountTypeCurrent {
		return nil, nil, "", domain.NewValidationError("accountType", "must be savings or current")
	}
	email := normalizeEmail(args.Email)
	if email == "" {
		return nil, nil, "", domain.NewValidationError("email", "required")
	}

	password, hashErr := s.hasher.HashPassword(args.Password)
	if hashErr != nil {
		return nil, nil, "", fmt.Errorf("registering user: %w", hashErr)
	}

	var user *domain.User
	var account *domain.Account
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		userRepo, userRepoErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
		if userRepoErr != nil {
			return userRepoErr //nolint:wrapcheck
		}
		accountRepo, accRepoErr := uow.GetAs[AccountRepository](tx, uow.RepositoryName(repoargs.AccountRepoName))
		if accRepoErr != nil {
			return accRepoErr //nolint:wrapcheck
		}

		var userErr error
		user, userErr = userRepo.CreateUser(c, domain.User{
			ID:           uuid.New(),
			Name:         strings.TrimSpace(args.Name),
			Email:        email,
			Phone:        args.Phone,
			PasswordHash: password,
			IsActive:     true,
		})
		if userErr != nil {
			return userErr //nolint:wrapcheck
		}

		return withCollisionRetry(c, func(int) error {
			var accErr error
			account, accErr = accountRepo.CreateAccount(c, domain.Account{
				ID:            uuid.New(),
				UserID:        user.ID,
				AccountNumber: ledger.GenerateAccountNumber(s.now()),
				AccountType:   accountType,
				Balance:       decimal.Zero,
				IsActive:      true,
			})
			return accErr //nolint:wrapcheck
		})
	})
	if txErr != nil {
		return nil, nil, "", fmt.Errorf("registering user: %w", txErr)
	}

	token, tokenErr := tokens.GenerateUserJWT(user.ID, s.tokenTTL, s.jwtTokenSecret)
	if tokenErr != nil {
		return nil, nil, "", fmt.Errorf("registering user: %w", tokenErr)
	}
	return user, account, token, nil
}

type LoginUserArgs struct {
	Email    string
	Password string
}

// Login проверяет email и пароль и выпускает токен. Неизвестный email и неверный пароль неразличимы:
// оба дают domain.ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, args LoginUserArgs) (*domain.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(args.Email))
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("login: %w", err)
	}

	if !s.hasher.ComparePassword(args.Password, user.PasswordHash) {
		return nil, "", domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, "", domain.ErrAccessDenied
	}

	token, tokenErr := tokens.GenerateUserJWT(user.ID, s.tokenTTL, s.jwtTokenSecret)
	if tokenErr != nil {
		return nil, "", fmt.Errorf("login: %w", tokenErr)
	}
	return user, token, nil
}

// Profile возвращает юзера вместе со счетом.
func (s *UserService) Profile(ctx context.Context, userID uuid.UUID) (*domain.User, *domain.Account, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("profile: %w", err)
	}
	account, err := s.accountRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("profile: %w", err)
	}
	return user, account, nil
}

func (s *UserService) UpdateProfile(
	ctx context.Context,
	userID uuid.UUID,
	args repoargs.UpdateProfile,
) (*domain.User, error) {
	if args.Name != nil {
		name := strings.TrimSpace(*args.Name)
		if name == "" {
			return nil, domain.NewValidationError("name", "must not be empty")
		}
		args.Name = &name
	}
	user, err := s.userRepo.UpdateProfile(ctx, userID, args)
	if err != nil {
		return nil, fmt.Errorf("updating profile: %w", err)
	}
	return user, nil
}

// LinkUPI привязывает UPI id. Уже привязанный к другому юзеру id - domain.ErrDuplicateKey.
func (s *UserService) LinkUPI(ctx context.Context, userID uuid.UUID, upiID string) (*domain.User, error) {
	upiID = strings.ToLower(strings.TrimSpace(upiID))
	if upiID == "" {
		return nil, domain.NewValidationError("upiId", "required")
	}
	user, err := s.userRepo.SetUPI(ctx, userID, &upiID)
	if err != nil {
		return nil, fmt.Errorf("linking upi: %w", err)
	}
	return user, nil
}

func (s *UserService) UnlinkUPI(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.SetUPI(ctx, userID, nil)
	if err != nil {
		return nil, fmt.Errorf("unlinking upi: %w", err)
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
