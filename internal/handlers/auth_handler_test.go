package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ledgerbook/internal/dto"
	"ledgerbook/internal/models"
	"ledgerbook/internal/services"
	"ledgerbook/internal/services/service_mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

type AuthHandlerTestSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	authService *service_mocks.MockAuthServiceInterface
	handler     *AuthHandler
	echo        *echo.Echo
}

func (s *AuthHandlerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.authService = service_mocks.NewMockAuthServiceInterface(s.ctrl)
	s.handler = NewAuthHandler(s.authService)
	s.echo = echo.New()
	s.echo.Validator = NewValidator()
}

func (s *AuthHandlerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestAuthHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}

func (s *AuthHandlerTestSuite) newContext(method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return s.echo.NewContext(req, rec), rec
}

func (s *AuthHandlerTestSuite) errorCode(rec *httptest.ResponseRecorder) string {
	var body map[string]map[string]interface{}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	code, _ := body["error"]["code"].(string)
	return code
}

func (s *AuthHandlerTestSuite) TestRegister_Success() {
	reqBody := `{"email":"new@example.com","password":"Secure-Pass-123","firstName":"Jamie","lastName":"Doe"}`
	c, rec := s.newContext(http.MethodPost, "/api/auth/register", reqBody)

	user := &models.User{
		ID:        uuid.New(),
		Email:     "new@example.com",
		FirstName: "Jamie",
		LastName:  "Doe",
		CreatedAt: time.Now(),
	}
	s.authService.EXPECT().Register(gomock.Any(), gomock.Any(), gomock.Any()).Return(user, nil)

	s.NoError(s.handler.Register(c))
	s.Equal(http.StatusCreated, rec.Code)

	var body map[string]interface{}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	data := body["data"].(map[string]interface{})
	s.Equal("new@example.com", data["email"])
}

func (s *AuthHandlerTestSuite) TestRegister_DuplicateEmail() {
	reqBody := `{"email":"taken@example.com","password":"Secure-Pass-123","firstName":"Jamie","lastName":"Doe"}`
	c, rec := s.newContext(http.MethodPost, "/api/auth/register", reqBody)

	s.authService.EXPECT().Register(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, services.ErrUserAlreadyExists)

	s.NoError(s.handler.Register(c))
	s.Equal(http.StatusConflict, rec.Code)
	s.Equal("USER_002", s.errorCode(rec))
}

func (s *AuthHandlerTestSuite) TestRegister_ShortPassword() {
	reqBody := `{"email":"new@example.com","password":"short","firstName":"Jamie","lastName":"Doe"}`
	c, _ := s.newContext(http.MethodPost, "/api/auth/register", reqBody)

	// Validation errors propagate to the global error handler
	s.Error(s.handler.Register(c))
}

func (s *AuthHandlerTestSuite) TestLogin_Success() {
	reqBody := `{"email":"user@example.com","password":"Secure-Pass-123"}`
	c, rec := s.newContext(http.MethodPost, "/api/auth/login", reqBody)

	tokens := &dto.TokenResponse{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		TokenType:    "Bearer",
		ExpiresAt:    time.Now().Add(time.Hour),
	}
	s.authService.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).Return(tokens, nil)

	s.NoError(s.handler.Login(c))
	s.Equal(http.StatusOK, rec.Code)

	var resp dto.TokenResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("access-token", resp.AccessToken)
	s.Equal("Bearer", resp.TokenType)
}

func (s *AuthHandlerTestSuite) TestLogin_InvalidCredentials() {
	reqBody := `{"email":"user@example.com","password":"wrong-password"}`
	c, rec := s.newContext(http.MethodPost, "/api/auth/login", reqBody)

	s.authService.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, services.ErrInvalidCredentials)

	s.NoError(s.handler.Login(c))
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal("AUTH_001", s.errorCode(rec))
}

func (s *AuthHandlerTestSuite) TestLogin_LockedAccount() {
	reqBody := `{"email":"user@example.com","password":"Secure-Pass-123"}`
	c, rec := s.newContext(http.MethodPost, "/api/auth/login", reqBody)

	s.authService.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, services.ErrAccountLocked)

	s.NoError(s.handler.Login(c))
	s.Equal(http.StatusForbidden, rec.Code)
	s.Equal("AUTH_006", s.errorCode(rec))
}

func (s *AuthHandlerTestSuite) TestRefreshToken_Invalid() {
	reqBody := `{"refreshToken":"garbage"}`
	c, rec := s.newContext(http.MethodPost, "/api/auth/refresh", reqBody)

	s.authService.EXPECT().RefreshTokens("garbage", gomock.Any(), gomock.Any()).
		Return(nil, services.ErrInvalidRefreshToken)

	s.NoError(s.handler.RefreshToken(c))
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal("AUTH_004", s.errorCode(rec))
}

func (s *AuthHandlerTestSuite) TestLogout_Success() {
	c, rec := s.newContext(http.MethodPost, "/api/auth/logout", "")
	c.Request().Header.Set("Authorization", "Bearer access-token")

	s.authService.EXPECT().Logout("access-token", gomock.Any(), gomock.Any()).Return(nil)

	s.NoError(s.handler.Logout(c))
	s.Equal(http.StatusOK, rec.Code)
}

func (s *AuthHandlerTestSuite) TestLogout_MissingHeader() {
	c, rec := s.newContext(http.MethodPost, "/api/auth/logout", "")

	s.NoError(s.handler.Logout(c))
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal("AUTH_002", s.errorCode(rec))
}

func (s *AuthHandlerTestSuite) TestMe_Success() {
	c, rec := s.newContext(http.MethodGet, "/api/auth/me", "")
	userID := uuid.New()
	c.Set("user_id", userID)

	profile := &dto.UserProfileResponse{
		ID:        userID.String(),
		Email:     "user@example.com",
		FirstName: "Jamie",
		LastName:  "Doe",
	}
	s.authService.EXPECT().GetProfile(userID).Return(profile, nil)

	s.NoError(s.handler.Me(c))
	s.Equal(http.StatusOK, rec.Code)

	var resp dto.UserProfileResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("user@example.com", resp.Email)
}

func (s *AuthHandlerTestSuite) TestMe_Unauthenticated() {
	c, rec := s.newContext(http.MethodGet, "/api/auth/me", "")

	s.NoError(s.handler.Me(c))
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal("AUTH_002", s.errorCode(rec))
}
