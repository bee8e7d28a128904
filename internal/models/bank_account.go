package models

import (
	"errors"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	AccountTypeChecking   = "checking"
	AccountTypeSavings    = "savings"
	AccountTypeInvestment = "investment"

	// AccountCodeLength is the length of the generated display code
	AccountCodeLength = 6
)

var (
	ErrInvalidAccountType = errors.New("invalid account type")
	ErrNegativeBalance    = errors.New("balance cannot be negative")

	accountCodeCharset = []byte("0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ")
)

// BankAccount represents a user-owned ledger entry for an external bank account.
// CurrentBalance is seeded from InitialBalance at creation and is not mutated
// by any API operation; reconciliation happens outside this service.
type BankAccount struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	AccountName    string          `gorm:"type:varchar(100);not null" json:"accountName"`
	AccountNumber  string          `gorm:"type:varchar(34);not null" json:"accountNumber"`
	BankName       string          `gorm:"type:varchar(100);not null" json:"bankName"`
	AccountType    string          `gorm:"type:varchar(20);not null" json:"accountType"`
	InitialBalance decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"initialBalance"`
	CurrentBalance decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"currentBalance"`
	IsActive       bool            `gorm:"not null;default:true" json:"isActive"`
	AccountCode    string          `gorm:"type:varchar(12);not null" json:"accountCode"`
	UserID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"userId"`
	CreatedAt      time.Time       `gorm:"not null;index" json:"createdAt"`
	UpdatedAt      time.Time       `gorm:"not null" json:"updatedAt"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (a *BankAccount) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}

	if a.AccountCode == "" {
		a.AccountCode = GenerateAccountCode()
	}

	// Set timestamps if not already set (for tests)
	now := time.Now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = now
	}

	return a.Validate()
}

func (a *BankAccount) BeforeUpdate(tx *gorm.DB) error {
	a.UpdatedAt = time.Now()
	return a.Validate()
}

// Validate validates the account fields
func (a *BankAccount) Validate() error {
	if a.UserID == uuid.Nil {
		return errors.New("user ID is required")
	}

	if a.AccountName == "" {
		return errors.New("account name is required")
	}

	if a.AccountNumber == "" {
		return errors.New("account number is required")
	}

	if a.BankName == "" {
		return errors.New("bank name is required")
	}

	if !IsValidAccountType(a.AccountType) {
		return ErrInvalidAccountType
	}

	if a.InitialBalance.LessThan(decimal.Zero) || a.CurrentBalance.LessThan(decimal.Zero) {
		return ErrNegativeBalance
	}

	return nil
}

func (a *BankAccount) TableName() string {
	return "bank_accounts"
}

// IsValidAccountType checks if the account type is valid
func IsValidAccountType(accountType string) bool {
	switch accountType {
	case AccountTypeChecking, AccountTypeSavings, AccountTypeInvestment:
		return true
	default:
		return false
	}
}

// GenerateAccountCode generates a short random display code. Codes are a
// human-facing aid, not a key: uniqueness is not checked and the column
// carries no unique index.
func GenerateAccountCode() string {
	code := make([]byte, AccountCodeLength)
	for i := range code {
		code[i] = accountCodeCharset[rand.Intn(len(accountCodeCharset))]
	}
	return string(code)
}
