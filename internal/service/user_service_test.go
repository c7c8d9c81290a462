package service

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/fsdevblog/groph-bank/internal/domain"
	"github.com/fsdevblog/groph-bank/internal/repository/repoargs"
	"github.com/fsdevblog/groph-bank/internal/service/tokens"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type UserServiceTestSuite struct {
	serviceSuite
	jwtSecret   []byte
	userService *UserService
}

func TestUserServiceSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

func (s *UserServiceTestSuite) SetupTest() {
	s.setupMocks()
	s.jwtSecret = []byte("secret")

	userService, servErr := NewUserService(s.mockUOW, s.jwtSecret, s.mockPsswd)
	s.Require().NoError(servErr)
	s.userService = userService
}

func (s *UserServiceTestSuite) TestLogin() {
	validHashPassword := "hash ok"
	savedUser := domain.User{
		ID:           uuid.New(),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
		Name:         "Test User",
		Email:        "test@example.com",
		PasswordHash: validHashPassword,
		IsActive:     true,
	}
	inactiveUser := savedUser
	inactiveUser.ID = uuid.New()
	inactiveUser.Email = "inactive@example.com"
	inactiveUser.IsActive = false

	s.mockPsswd.EXPECT().ComparePassword("right", validHashPassword).Return(true).AnyTimes()
	s.mockPsswd.EXPECT().ComparePassword("wrong", validHashPassword).Return(false).AnyTimes()

	s.mockUsers.EXPECT().FindByEmail(gomock.Any(), savedUser.Email).Return(&savedUser, nil).AnyTimes()
	s.mockUsers.EXPECT().FindByEmail(gomock.Any(), inactiveUser.Email).Return(&inactiveUser, nil).AnyTimes()
	s.mockUsers.EXPECT().FindByEmail(gomock.Any(), "missing@example.com").
		Return(nil, domain.ErrRecordNotFound).AnyTimes()

	cases := []struct {
		name    string
		args    LoginUserArgs
		wantErr error
	}{
		{name: "ok", args: LoginUserArgs{Email: " Test@Example.com ", Password: "right"}},
		{
			name:    "unknown email",
			args:    LoginUserArgs{Email: "missing@example.com", Password: "right"},
			wantErr: domain.ErrInvalidCredentials,
		},
		{
			name:    "wrong password",
			args:    LoginUserArgs{Email: savedUser.Email, Password: "wrong"},
			wantErr: domain.ErrInvalidCredentials,
		},
		{
			name:    "inactive user",
			args:    LoginUserArgs{Email: inactiveUser.Email, Password: "right"},
			wantErr: domain.ErrAccessDenied,
		},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			user, tokenStr, err := s.userService.Login(s.T().Context(), t.args)
			if t.wantErr != nil {
				s.Require().ErrorIs(err, t.wantErr)
				s.Nil(user)
				return
			}
			s.Require().NoError(err)
			s.Equal(savedUser.ID, user.ID)

			claims, tokenErr := tokens.ValidateUserJWT(tokenStr, s.jwtSecret)
			s.Require().NoError(tokenErr)
			s.Equal(savedUser.ID, claims.UserID)
		})
	}
}

func (s *UserServiceTestSuite) TestRegister() {
	hashed := "hashedPassword"
	s.mockPsswd.EXPECT().HashPassword("password").Return(hashed, nil).AnyTimes()

	s.Run("ok", func() {
		s.mockUsers.EXPECT().
			CreateUser(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, u domain.User) (*domain.User, error) {
				s.Equal("new@example.com", u.Email)
				s.Equal(hashed, u.PasswordHash)
				s.True(u.IsActive)
				s.NotEqual(uuid.Nil, u.ID)
				return &u, nil
			})
		s.mockAccounts.EXPECT().
			CreateAccount(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, a domain.Account) (*domain.Account, error) {
				s.True(a.Balance.IsZero())
				s.Equal(domain.AccountTypeSavings, a.AccountType)
				s.Regexp(`^ACC\d{17}$`, a.AccountNumber)
				return &a, nil
			})

		user, account, tokenStr, err := s.userService.Register(s.T().Context(), RegisterUserArgs{
			Name:     "New User",
			Email:    "New@Example.com",
			Password: "password",
		})
		s.Require().NoError(err)
		s.Equal(user.ID, account.UserID)

		claims, tokenErr := tokens.ValidateUserJWT(tokenStr, s.jwtSecret)
		s.Require().NoError(tokenErr)
		s.Equal(user.ID, claims.UserID)
	})

	s.Run("account number collision", func() {
		s.mockUsers.EXPECT().
			CreateUser(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, u domain.User) (*domain.User, error) { return &u, nil })
		gomock.InOrder(
			s.mockAccounts.EXPECT().CreateAccount(gomock.Any(), gomock.Any()).Return(nil, domain.ErrDuplicateKey),
			s.mockAccounts.EXPECT().
				CreateAccount(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ any, a domain.Account) (*domain.Account, error) { return &a, nil }),
		)

		_, account, _, err := s.userService.Register(s.T().Context(), RegisterUserArgs{
			Name:     "Lucky",
			Email:    "lucky@example.com",
			Password: "password",
		})
		s.Require().NoError(err)
		s.NotNil(account)
	})

	s.Run("duplicate email", func() {
		s.mockUsers.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(nil, domain.ErrDuplicateKey)

		user, _, _, err := s.userService.Register(s.T().Context(), RegisterUserArgs{
			Name:     "Dup",
			Email:    "dup@example.com",
			Password: "password",
		})
		s.Require().ErrorIs(err, domain.ErrDuplicateKey)
		s.Nil(user)
	})

	s.Run("unknown account type", func() {
		_, _, _, err := s.userService.Register(s.T().Context(), RegisterUserArgs{
			Email:       "x@example.com",
			Password:    "password",
			AccountType: "deposit",
		})
		s.Require().ErrorIs(err, domain.ErrValidation)
	})
}

func (s *UserServiceTestSuite) TestLinkUPI() {
	userID := uuid.New()

	s.mockUsers.EXPECT().
		SetUPI(gomock.Any(), userID, gomock.Any()).
		DoAndReturn(func(_ any, id uuid.UUID, upi *string) (*domain.User, error) {
			s.Require().NotNil(upi)
			if *upi == "taken@upi" {
				return nil, domain.ErrDuplicateKey
			}
			return &domain.User{ID: id, UPIID: upi}, nil
		}).Times(2)

	user, err := s.userService.LinkUPI(s.T().Context(), userID, " Me@UPI ")
	s.Require().NoError(err)
	s.Equal("me@upi", *user.UPIID)

	_, err = s.userService.LinkUPI(s.T().Context(), userID, "taken@upi")
	s.Require().ErrorIs(err, domain.ErrDuplicateKey)

	_, err = s.userService.LinkUPI(s.T().Context(), userID, "  ")
	s.Require().ErrorIs(err, domain.ErrValidation)
}

func (s *UserServiceTestSuite) TestUpdateProfile() {
	userID := uuid.New()
	name := gofakeit.Name()
	address := gofakeit.Address().Address

	s.mockUsers.EXPECT().
		UpdateProfile(gomock.Any(), userID, gomock.Any()).
		DoAndReturn(func(_ any, id uuid.UUID, args repoargs.UpdateProfile) (*domain.User, error) {
			s.Require().NotNil(args.Name)
			s.Nil(args.Phone)
			return &domain.User{ID: id, Name: *args.Name, Address: *args.Address}, nil
		})

	padded := "  " + name + " "
	user, err := s.userService.UpdateProfile(s.T().Context(), userID, repoargs.UpdateProfile{
		Name:    &padded,
		Address: &address,
	})
	s.Require().NoError(err)
	s.Equal(name, user.Name)
	s.Equal(address, user.Address)

	blank := "   "
	_, err = s.userService.UpdateProfile(s.T().Context(), userID, repoargs.UpdateProfile{Name: &blank})
	s.Require().ErrorIs(err, domain.ErrValidation)
}
