package api

import (
	"encoding/json"
	"time"

	"github.com/fsdevblog/groph-bank/internal/service/tokens"
	"github.com/fsdevblog/groph-bank/internal/transport/api/mocks"
	"github.com/fsdevblog/groph-bank/internal/transport/api/testutils"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

// handlerSuite общий роутер с моками всех сервисов.
type handlerSuite struct {
	suite.Suite
	router      *gin.Engine
	jwtSecret   []byte
	userSvs     *mocks.MockUserServicer
	ledgerSvs   *mocks.MockLedgerServicer
	loanSvs     *mocks.MockLoanServicer
	cardSvs     *mocks.MockCardServicer
	currentUser uuid.UUID
	token       string
}

func (s *handlerSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	mockCtrl := gomock.NewController(s.T())

	s.jwtSecret = []byte("super secret key")
	s.userSvs = mocks.NewMockUserServicer(mockCtrl)
	s.ledgerSvs = mocks.NewMockLedgerServicer(mockCtrl)
	s.loanSvs = mocks.NewMockLoanServicer(mockCtrl)
	s.cardSvs = mocks.NewMockCardServicer(mockCtrl)

	router, err := New(RouterArgs{
		UserService:   s.userSvs,
		LedgerService: s.ledgerSvs,
		LoanService:   s.loanSvs,
		CardService:   s.cardSvs,
		JWTSecretKey:  s.jwtSecret,
	})
	s.Require().NoError(err)
	s.router = router

	s.currentUser = uuid.New()
	s.token = s.tokenFor(s.currentUser)
}

func (s *handlerSuite) tokenFor(userID uuid.UUID) string {
	token, err := tokens.GenerateUserJWT(userID, time.Hour, s.jwtSecret)
	s.Require().NoError(err)
	return token
}

// do выполняет запрос от имени token (пустой - без авторизации) и возвращает статус и тело ответа.
func (s *handlerSuite) do(method, url, token string, body any) (int, []byte) {
	res, err := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: method,
		URL:    RouteGroup + url,
		JSON:   body,
	}, testutils.WithBearer(token))
	s.Require().NoError(err)
	return res.Status, res.Body
}

func (s *handlerSuite) decode(raw []byte, v any) {
	s.Require().NoError(json.Unmarshal(raw, v), string(raw))
}
