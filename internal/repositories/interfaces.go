package repositories

import (
	"time"

	"ledgerbook/internal/models"

	"github.com/google/uuid"
)

// BankAccountRepositoryInterface defines the contract for bank account storage.
// Every read is owner-scoped: callers pass the owning user's ID and the
// repository applies the equality filter, the store itself enforces nothing.
type BankAccountRepositoryInterface interface {
	Create(account *models.BankAccount) error
	GetByID(id uuid.UUID) (*models.BankAccount, error)
	ListPage(userID uuid.UUID, offset, limit int, search string) ([]models.BankAccount, int64, error)
	CountByUserID(userID uuid.UUID) (int64, error)
}

// UserRepositoryInterface defines the contract for user repository operations
type UserRepositoryInterface interface {
	Create(user *models.User) error
	GetByID(id uuid.UUID) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	UpdateFailedLoginAttempts(user *models.User) error
	ResetFailedLoginAttempts(userID uuid.UUID) error
}

// RefreshTokenRepositoryInterface defines the contract for refresh token operations
type RefreshTokenRepositoryInterface interface {
	Create(token *models.RefreshToken) error
	GetByTokenHash(tokenHash string) (*models.RefreshToken, error)
	Revoke(tokenID uuid.UUID) error
	RevokeAllForUser(userID uuid.UUID) error
	DeleteExpired() (int64, error)
}

// BlacklistedTokenRepositoryInterface defines the contract for blacklisted token operations
type BlacklistedTokenRepositoryInterface interface {
	Create(token *models.BlacklistedToken) error
	GetByJTI(jti string) (*models.BlacklistedToken, error)
	DeleteExpired() (int64, error)
}

// AuditLogRepositoryInterface defines the contract for audit log operations
type AuditLogRepositoryInterface interface {
	Create(log *models.AuditLog) error
	GetByUserID(userID uuid.UUID, offset, limit int) ([]*models.AuditLog, int64, error)
	DeleteOlderThan(duration time.Duration) (int64, error)
}
