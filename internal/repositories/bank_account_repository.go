package repositories

import (
	"errors"
	"fmt"
	"strings"

	"ledgerbook/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrBankAccountNotFound = errors.New("bank account not found")
)

// bankAccountRepository implements BankAccountRepositoryInterface
type bankAccountRepository struct {
	db *gorm.DB
}

// NewBankAccountRepository creates a new bank account repository
func NewBankAccountRepository(db *gorm.DB) BankAccountRepositoryInterface {
	return &bankAccountRepository{
		db: db,
	}
}

// Create inserts a new bank account row
func (r *bankAccountRepository) Create(account *models.BankAccount) error {
	if err := r.db.Create(account).Error; err != nil {
		return fmt.Errorf("failed to create bank account: %w", err)
	}
	return nil
}

// GetByID retrieves a bank account by ID
func (r *bankAccountRepository) GetByID(id uuid.UUID) (*models.BankAccount, error) {
	account := &models.BankAccount{ID: id}
	if err := r.db.First(account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBankAccountNotFound
		}
		return nil, fmt.Errorf("failed to get bank account: %w", err)
	}
	return account, nil
}

// ListPage retrieves one page of the owner's accounts, newest first, together
// with the total number of rows matching the owner and search filter. The
// count ignores the offset window so every page reports the same total.
// The search term matches account name, bank name or account number,
// case-insensitively.
func (r *bankAccountRepository) ListPage(userID uuid.UUID, offset, limit int, search string) ([]models.BankAccount, int64, error) {
	var accounts []models.BankAccount
	var total int64

	query := r.db.Model(&models.BankAccount{}).Where("user_id = ?", userID)

	if search != "" {
		// LOWER() LIKE instead of ILIKE keeps the clause portable across
		// Postgres and the sqlite test driver
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(account_name) LIKE ? OR LOWER(bank_name) LIKE ? OR LOWER(account_number) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bank accounts: %w", err)
	}

	if err := query.Offset(offset).Limit(limit).
		Order("created_at DESC").Find(&accounts).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list bank accounts: %w", err)
	}

	return accounts, total, nil
}

// CountByUserID returns the number of accounts owned by a user
func (r *bankAccountRepository) CountByUserID(userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.Model(&models.BankAccount{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count bank accounts: %w", err)
	}
	return count, nil
}
