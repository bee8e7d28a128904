package services

import (
	"time"

	"ledgerbook/internal/dto"
	"ledgerbook/internal/models"

	"github.com/google/uuid"
)

// TokenServiceInterface defines JWT token operations
type TokenServiceInterface interface {
	GenerateAccessToken(user *models.User) (string, time.Time, error)
	GenerateRefreshToken(userID uuid.UUID) (string, time.Time, error)
	ValidateAccessToken(tokenString string) (*models.CustomClaims, error)
	ValidateRefreshToken(tokenString string) (*models.CustomClaims, error)
	ExtractTokenFromHeader(authHeader string) (string, error)
	GetJTI(tokenString string) (string, error)
	GetTokenExpiry(tokenString string) (time.Time, error)
}

// PasswordServiceInterface defines password hashing and validation operations
type PasswordServiceInterface interface {
	ValidatePassword(password string) error
	HashPassword(password string) (string, error)
	ComparePassword(password, hash string) bool
}

// AuthServiceInterface defines authentication business operations
type AuthServiceInterface interface {
	Register(req *dto.RegisterRequest, ipAddress, userAgent string) (*models.User, error)
	Login(req *dto.LoginRequest, ipAddress, userAgent string) (*dto.TokenResponse, error)
	RefreshTokens(refreshToken, ipAddress, userAgent string) (*dto.TokenResponse, error)
	Logout(accessToken, ipAddress, userAgent string) error
	GetProfile(userID uuid.UUID) (*dto.UserProfileResponse, error)
}

// BankAccountServiceInterface defines bank account business operations.
// All operations act on behalf of the owning user; the service never
// returns or counts another user's accounts.
type BankAccountServiceInterface interface {
	CreateAccount(userID uuid.UUID, req *dto.CreateBankAccountRequest, ipAddress, userAgent string) (*models.BankAccount, error)
	ListAccounts(userID uuid.UUID, query *dto.ListBankAccountsQuery) ([]models.BankAccount, int64, error)
}

// MetricsRecorderInterface abstracts the metrics backend
type MetricsRecorderInterface interface {
	IncrementCounter(name string, tags map[string]string)
	RecordProcessingTime(name string, duration time.Duration)
}
