package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ledgerbook/internal/models"
	"ledgerbook/internal/repositories"
	"ledgerbook/internal/repositories/repository_mocks"
	"ledgerbook/internal/services"
	"ledgerbook/internal/services/service_mocks"

	"github.com/golang-jwt/jwt/v5"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

type RequireAuthTestSuite struct {
	suite.Suite
	ctrl                 *gomock.Controller
	tokenService         *service_mocks.MockTokenServiceInterface
	blacklistedTokenRepo *repository_mocks.MockBlacklistedTokenRepositoryInterface
	echo                 *echo.Echo
	handler              echo.HandlerFunc
}

func (s *RequireAuthTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.tokenService = service_mocks.NewMockTokenServiceInterface(s.ctrl)
	s.blacklistedTokenRepo = repository_mocks.NewMockBlacklistedTokenRepositoryInterface(s.ctrl)
	s.echo = echo.New()

	s.handler = RequireAuth(s.tokenService, s.blacklistedTokenRepo)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
}

func (s *RequireAuthTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestRequireAuthSuite(t *testing.T) {
	suite.Run(t, new(RequireAuthTestSuite))
}

func (s *RequireAuthTestSuite) request(authHeader string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, "/api/banking/accounts", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	return s.echo.NewContext(req, rec), rec
}

func (s *RequireAuthTestSuite) errorCode(rec *httptest.ResponseRecorder) string {
	var body map[string]map[string]interface{}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	code, _ := body["error"]["code"].(string)
	return code
}

func (s *RequireAuthTestSuite) validClaims(userID uuid.UUID, jti string) *models.CustomClaims {
	return &models.CustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{ID: jti},
		UserID:           userID.String(),
		Email:            "user@example.com",
		TokenType:        services.TokenTypeAccess,
	}
}

func (s *RequireAuthTestSuite) TestMissingHeader() {
	c, rec := s.request("")

	s.NoError(s.handler(c))
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal("AUTH_002", s.errorCode(rec))
}

func (s *RequireAuthTestSuite) TestMalformedHeader() {
	s.tokenService.EXPECT().ExtractTokenFromHeader("Basic abc").Return("", services.ErrInvalidAuthHeader)

	c, rec := s.request("Basic abc")
	s.NoError(s.handler(c))
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal("AUTH_004", s.errorCode(rec))
}

func (s *RequireAuthTestSuite) TestExpiredToken() {
	s.tokenService.EXPECT().ExtractTokenFromHeader("Bearer expired").Return("expired", nil)
	s.tokenService.EXPECT().ValidateAccessToken("expired").Return(nil, services.ErrExpiredToken)

	c, rec := s.request("Bearer expired")
	s.NoError(s.handler(c))
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal("AUTH_003", s.errorCode(rec))
}

func (s *RequireAuthTestSuite) TestBlacklistedToken() {
	userID := uuid.New()
	jti := uuid.New().String()

	s.tokenService.EXPECT().ExtractTokenFromHeader("Bearer revoked").Return("revoked", nil)
	s.tokenService.EXPECT().ValidateAccessToken("revoked").Return(s.validClaims(userID, jti), nil)
	s.blacklistedTokenRepo.EXPECT().GetByJTI(jti).Return(&models.BlacklistedToken{JTI: jti}, nil)

	c, rec := s.request("Bearer revoked")
	s.NoError(s.handler(c))
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal("AUTH_004", s.errorCode(rec))
}

func (s *RequireAuthTestSuite) TestValidToken() {
	userID := uuid.New()
	jti := uuid.New().String()

	s.tokenService.EXPECT().ExtractTokenFromHeader("Bearer good").Return("good", nil)
	s.tokenService.EXPECT().ValidateAccessToken("good").Return(s.validClaims(userID, jti), nil)
	s.blacklistedTokenRepo.EXPECT().GetByJTI(jti).Return(nil, repositories.ErrBlacklistedTokenNotFound)

	c, rec := s.request("Bearer good")
	s.NoError(s.handler(c))
	s.Equal(http.StatusOK, rec.Code)
	s.Equal(userID, c.Get("user_id"))
	s.Equal("user@example.com", c.Get("user_email"))
	s.Equal(jti, c.Get("token_jti"))
}
