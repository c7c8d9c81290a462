package service

import (
	"context"
	"fmt"

	"github.com/fsdevblog/groph-bank/internal/repository/repoargs"
	"github.com/fsdevblog/groph-bank/internal/service/mocks"
	"github.com/fsdevblog/groph-bank/pkg/uow"
	uowmocks "github.com/fsdevblog/groph-bank/pkg/uow/mocks"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// serviceSuite общая подготовка моков для тестов сервисов: uow отдает моки репозиториев как вне
// транзакции, так и внутри нее.
type serviceSuite struct {
	suite.Suite
	mockUOW      *uowmocks.MockUOW
	mockTX       *uowmocks.MockTX
	mockUsers    *mocks.MockUserRepository
	mockAccounts *mocks.MockAccountRepository
	mockTxs      *mocks.MockTransactionRepository
	mockLoans    *mocks.MockLoanRepository
	mockCards    *mocks.MockCardRepository
	mockPsswd    *mocks.MockPasswordHasher
}

func (s *serviceSuite) setupMocks() {
	mockCtrl := gomock.NewController(s.T())
	s.mockUOW = uowmocks.NewMockUOW(mockCtrl)
	s.mockTX = uowmocks.NewMockTX(mockCtrl)
	s.mockUsers = mocks.NewMockUserRepository(mockCtrl)
	s.mockAccounts = mocks.NewMockAccountRepository(mockCtrl)
	s.mockTxs = mocks.NewMockTransactionRepository(mockCtrl)
	s.mockLoans = mocks.NewMockLoanRepository(mockCtrl)
	s.mockCards = mocks.NewMockCardRepository(mockCtrl)
	s.mockPsswd = mocks.NewMockPasswordHasher(mockCtrl)

	repos := map[repoargs.RepositoryName]uow.Repository{
		repoargs.UserRepoName:        s.mockUsers,
		repoargs.AccountRepoName:     s.mockAccounts,
		repoargs.TransactionRepoName: s.mockTxs,
		repoargs.LoanRepoName:        s.mockLoans,
		repoargs.CardRepoName:        s.mockCards,
	}
	for name, repo := range repos {
		s.mockUOW.EXPECT().GetRepository(uow.RepositoryName(name)).Return(repo, nil).AnyTimes()
		s.mockTX.EXPECT().Get(uow.RepositoryName(name)).Return(repo, nil).AnyTimes()
	}

	s.mockUOW.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, uow.TX) error) error {
			return fn(ctx, s.mockTX)
		}).AnyTimes()
}

// sequenceRefs выдает предсказуемые референсы TXN001, TXN002...
type sequenceRefs struct {
	n int
}

func (r *sequenceRefs) Next() string {
	r.n++
	return fmt.Sprintf("TXN%03d", r.n)
}

type decimalMatcher struct {
	want decimal.Decimal
}

func (m decimalMatcher) Matches(x any) bool {
	d, ok := x.(decimal.Decimal)
	return ok && d.Equal(m.want)
}

func (m decimalMatcher) String() string {
	return "is decimal " + m.want.String()
}

func decEq(value string) gomock.Matcher {
	return decimalMatcher{want: decimal.RequireFromString(value)}
}
