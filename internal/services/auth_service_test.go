package services

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"ledgerbook/internal/dto"
	"ledgerbook/internal/models"
	"ledgerbook/internal/repositories"
	"ledgerbook/internal/repositories/repository_mocks"
	"ledgerbook/internal/services/service_mocks"

	"github.com/golang-jwt/jwt/v5"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type AuthServiceTestSuite struct {
	suite.Suite
	ctrl                 *gomock.Controller
	userRepo             *repository_mocks.MockUserRepositoryInterface
	refreshTokenRepo     *repository_mocks.MockRefreshTokenRepositoryInterface
	auditRepo            *repository_mocks.MockAuditLogRepositoryInterface
	blacklistedTokenRepo *repository_mocks.MockBlacklistedTokenRepositoryInterface
	passwordService      *service_mocks.MockPasswordServiceInterface
	tokenService         *service_mocks.MockTokenServiceInterface
	authService          AuthServiceInterface
}

func (s *AuthServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.userRepo = repository_mocks.NewMockUserRepositoryInterface(s.ctrl)
	s.refreshTokenRepo = repository_mocks.NewMockRefreshTokenRepositoryInterface(s.ctrl)
	s.auditRepo = repository_mocks.NewMockAuditLogRepositoryInterface(s.ctrl)
	s.blacklistedTokenRepo = repository_mocks.NewMockBlacklistedTokenRepositoryInterface(s.ctrl)
	s.passwordService = service_mocks.NewMockPasswordServiceInterface(s.ctrl)
	s.tokenService = service_mocks.NewMockTokenServiceInterface(s.ctrl)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.authService = NewAuthService(
		s.userRepo,
		s.refreshTokenRepo,
		s.auditRepo,
		s.blacklistedTokenRepo,
		s.passwordService,
		s.tokenService,
		nil,
		logger,
	)
}

func (s *AuthServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func (s *AuthServiceTestSuite) TestRegister_Success() {
	req := &dto.RegisterRequest{
		Email:     "new@example.com",
		Password:  "Secure-Pass-123",
		FirstName: "Jamie",
		LastName:  "Doe",
	}

	s.userRepo.EXPECT().GetByEmail(req.Email).Return(nil, repositories.ErrUserNotFound)
	s.passwordService.EXPECT().HashPassword(req.Password).Return("hashed_password", nil)
	s.userRepo.EXPECT().Create(gomock.Any()).Return(nil)
	s.auditRepo.EXPECT().Create(gomock.Any()).Return(nil)

	user, err := s.authService.Register(req, "192.168.1.1", "Mozilla/5.0")
	s.NoError(err)
	s.Require().NotNil(user)
	s.Equal(req.Email, user.Email)
	s.Equal("hashed_password", user.PasswordHash)
	s.NotEqual(req.Password, user.PasswordHash)
}

func (s *AuthServiceTestSuite) TestRegister_DuplicateEmail() {
	req := &dto.RegisterRequest{
		Email:     "taken@example.com",
		Password:  "Secure-Pass-123",
		FirstName: "Jamie",
		LastName:  "Doe",
	}

	s.userRepo.EXPECT().GetByEmail(req.Email).Return(&models.User{Email: req.Email}, nil)
	s.auditRepo.EXPECT().Create(gomock.Any()).Return(nil)

	user, err := s.authService.Register(req, "", "")
	s.ErrorIs(err, ErrUserAlreadyExists)
	s.Nil(user)
}

func (s *AuthServiceTestSuite) loginUser() *models.User {
	return &models.User{
		ID:           uuid.New(),
		Email:        "user@example.com",
		PasswordHash: "hashed_password",
		FirstName:    "Jamie",
		LastName:     "Doe",
	}
}

func (s *AuthServiceTestSuite) TestLogin_Success() {
	user := s.loginUser()
	req := &dto.LoginRequest{Email: user.Email, Password: "Secure-Pass-123"}

	s.userRepo.EXPECT().GetByEmail(user.Email).Return(user, nil)
	s.passwordService.EXPECT().ComparePassword(req.Password, user.PasswordHash).Return(true)
	s.userRepo.EXPECT().Update(gomock.Any()).Return(nil)
	s.tokenService.EXPECT().GenerateAccessToken(user).Return("access-token", time.Now().Add(time.Hour), nil)
	s.tokenService.EXPECT().GenerateRefreshToken(user.ID).Return("refresh-token", time.Now().Add(24*time.Hour), nil)
	s.refreshTokenRepo.EXPECT().Create(gomock.Any()).Return(nil)
	s.auditRepo.EXPECT().Create(gomock.Any()).Return(nil)

	tokens, err := s.authService.Login(req, "192.168.1.1", "Mozilla/5.0")
	s.NoError(err)
	s.Require().NotNil(tokens)
	s.Equal("access-token", tokens.AccessToken)
	s.Equal("refresh-token", tokens.RefreshToken)
	s.Equal("Bearer", tokens.TokenType)
}

func (s *AuthServiceTestSuite) TestLogin_UnknownUser() {
	req := &dto.LoginRequest{Email: "nobody@example.com", Password: "whatever"}

	s.userRepo.EXPECT().GetByEmail(req.Email).Return(nil, repositories.ErrUserNotFound)
	s.auditRepo.EXPECT().Create(gomock.Any()).Return(nil)

	tokens, err := s.authService.Login(req, "", "")
	s.ErrorIs(err, ErrInvalidCredentials)
	s.Nil(tokens)
}

func (s *AuthServiceTestSuite) TestLogin_WrongPassword() {
	user := s.loginUser()
	req := &dto.LoginRequest{Email: user.Email, Password: "wrong"}

	s.userRepo.EXPECT().GetByEmail(user.Email).Return(user, nil)
	s.passwordService.EXPECT().ComparePassword(req.Password, user.PasswordHash).Return(false)
	s.userRepo.EXPECT().UpdateFailedLoginAttempts(user).Return(nil)
	s.auditRepo.EXPECT().Create(gomock.Any()).Return(nil)

	tokens, err := s.authService.Login(req, "", "")
	s.ErrorIs(err, ErrInvalidCredentials)
	s.Nil(tokens)
	s.Equal(1, user.FailedLoginAttempts)
}

func (s *AuthServiceTestSuite) TestLogin_LocksAfterMaxAttempts() {
	user := s.loginUser()
	user.FailedLoginAttempts = models.MaxFailedLoginAttempts - 1
	req := &dto.LoginRequest{Email: user.Email, Password: "wrong"}

	s.userRepo.EXPECT().GetByEmail(user.Email).Return(user, nil)
	s.passwordService.EXPECT().ComparePassword(req.Password, user.PasswordHash).Return(false)
	s.userRepo.EXPECT().UpdateFailedLoginAttempts(user).Return(nil)
	// One audit row for the lock, one for the failed login
	s.auditRepo.EXPECT().Create(gomock.Any()).Return(nil).Times(2)

	_, err := s.authService.Login(req, "", "")
	s.ErrorIs(err, ErrInvalidCredentials)
	s.True(user.IsLocked())
}

func (s *AuthServiceTestSuite) TestLogin_LockedAccount() {
	user := s.loginUser()
	user.Lock()
	req := &dto.LoginRequest{Email: user.Email, Password: "Secure-Pass-123"}

	s.userRepo.EXPECT().GetByEmail(user.Email).Return(user, nil)
	s.auditRepo.EXPECT().Create(gomock.Any()).Return(nil)

	tokens, err := s.authService.Login(req, "", "")
	s.ErrorIs(err, ErrAccountLocked)
	s.Nil(tokens)
}

func (s *AuthServiceTestSuite) TestRefreshTokens_InvalidToken() {
	s.tokenService.EXPECT().ValidateRefreshToken("garbage").Return(nil, ErrInvalidToken)
	s.auditRepo.EXPECT().Create(gomock.Any()).Return(nil)

	tokens, err := s.authService.RefreshTokens("garbage", "", "")
	s.ErrorIs(err, ErrInvalidRefreshToken)
	s.Nil(tokens)
}

func (s *AuthServiceTestSuite) TestRefreshTokens_RevokedToken() {
	userID := uuid.New()
	claims := &models.CustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{ID: uuid.New().String()},
		UserID:           userID.String(),
		TokenType:        TokenTypeRefresh,
	}

	revoked := &models.RefreshToken{
		ID:        uuid.New(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	revoked.Revoke()

	s.tokenService.EXPECT().ValidateRefreshToken("refresh-token").Return(claims, nil)
	s.refreshTokenRepo.EXPECT().GetByTokenHash(hashToken("refresh-token")).Return(revoked, nil)
	s.auditRepo.EXPECT().Create(gomock.Any()).Return(nil)

	tokens, err := s.authService.RefreshTokens("refresh-token", "", "")
	s.ErrorIs(err, ErrInvalidRefreshToken)
	s.Nil(tokens)
}

func (s *AuthServiceTestSuite) TestLogout_BlacklistsAndRevokes() {
	userID := uuid.New()
	jti := uuid.New().String()
	claims := &models.CustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{ID: jti},
		UserID:           userID.String(),
		TokenType:        TokenTypeAccess,
	}

	expiry := time.Now().Add(time.Hour)
	s.tokenService.EXPECT().ValidateAccessToken("access-token").Return(claims, nil)
	s.tokenService.EXPECT().GetTokenExpiry("access-token").Return(expiry, nil)
	s.blacklistedTokenRepo.EXPECT().Create(gomock.Any()).DoAndReturn(func(token *models.BlacklistedToken) error {
		s.Equal(jti, token.JTI)
		s.Equal(userID, token.UserID)
		return nil
	})
	s.refreshTokenRepo.EXPECT().RevokeAllForUser(userID).Return(nil)
	s.auditRepo.EXPECT().Create(gomock.Any()).Return(nil)

	err := s.authService.Logout("access-token", "", "")
	s.NoError(err)
}

func (s *AuthServiceTestSuite) TestGetProfile() {
	user := s.loginUser()

	s.userRepo.EXPECT().GetByID(user.ID).Return(user, nil)

	profile, err := s.authService.GetProfile(user.ID)
	s.NoError(err)
	s.Require().NotNil(profile)
	s.Equal(user.Email, profile.Email)
	s.Equal(user.ID.String(), profile.ID)
}

func (s *AuthServiceTestSuite) TestGetProfile_NotFound() {
	id := uuid.New()
	s.userRepo.EXPECT().GetByID(id).Return(nil, repositories.ErrUserNotFound)

	profile, err := s.authService.GetProfile(id)
	s.ErrorIs(err, ErrUserNotFound)
	s.Nil(profile)
}

func (s *AuthServiceTestSuite) TestRegister_HashFailure() {
	req := &dto.RegisterRequest{
		Email:     "new@example.com",
		Password:  "short",
		FirstName: "Jamie",
		LastName:  "Doe",
	}

	s.userRepo.EXPECT().GetByEmail(req.Email).Return(nil, repositories.ErrUserNotFound)
	s.passwordService.EXPECT().HashPassword(req.Password).Return("", errors.New("password validation failed"))

	user, err := s.authService.Register(req, "", "")
	s.Error(err)
	s.Nil(user)
}
