package services

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"ledgerbook/internal/dto"
	"ledgerbook/internal/models"
	"ledgerbook/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

var (
	ErrMissingAccountName   = errors.New("account name is required")
	ErrMissingAccountNumber = errors.New("account number is required")
	ErrMissingBankName      = errors.New("bank name is required")
	ErrInvalidUserID        = errors.New("user ID is required")
)

// BankAccountService handles bank account business logic
type BankAccountService struct {
	accountRepo repositories.BankAccountRepositoryInterface
	auditRepo   repositories.AuditLogRepositoryInterface
	metrics     MetricsRecorderInterface
	logger      *slog.Logger
}

// NewBankAccountService creates a new bank account service
func NewBankAccountService(
	accountRepo repositories.BankAccountRepositoryInterface,
	auditRepo repositories.AuditLogRepositoryInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) BankAccountServiceInterface {
	return &BankAccountService{
		accountRepo: accountRepo,
		auditRepo:   auditRepo,
		metrics:     metrics,
		logger:      logger,
	}
}

// CreateAccount validates the request and persists a new bank account for the
// user. All validation happens before the repository is touched, so an invalid
// request never reaches storage. The stored row starts active with the current
// balance seeded from the initial balance.
func (s *BankAccountService) CreateAccount(userID uuid.UUID, req *dto.CreateBankAccountRequest, ipAddress, userAgent string) (*models.BankAccount, error) {
	start := time.Now()

	if err := s.validateCreateRequest(userID, req); err != nil {
		return nil, err
	}

	balance := decimal.NewFromFloat(req.Balance)

	account := &models.BankAccount{
		AccountName:    strings.TrimSpace(req.Name),
		AccountNumber:  strings.TrimSpace(req.AccountNumber),
		BankName:       strings.TrimSpace(req.Bank),
		AccountType:    req.Type,
		InitialBalance: balance,
		CurrentBalance: balance,
		IsActive:       true,
		AccountCode:    models.GenerateAccountCode(),
		UserID:         userID,
	}

	if err := s.accountRepo.Create(account); err != nil {
		s.recordAccountEvent("account.create", "failed")
		return nil, fmt.Errorf("failed to create bank account: %w", err)
	}

	s.auditAccountCreated(account, ipAddress, userAgent)
	s.recordAccountEvent("account.create", "success")
	s.recordDuration("account.create", time.Since(start))

	s.logger.Info("bank account created",
		"account_id", account.ID,
		"user_id", userID,
		"account_type", account.AccountType)

	return account, nil
}

// ListAccounts returns one page of the user's accounts together with the
// total count matching the search filter. Page numbers start at 1 and the
// page size is clamped to [1, MaxPageSize], defaulting to DefaultPageSize.
func (s *BankAccountService) ListAccounts(userID uuid.UUID, query *dto.ListBankAccountsQuery) ([]models.BankAccount, int64, error) {
	if userID == uuid.Nil {
		return nil, 0, ErrInvalidUserID
	}

	start := time.Now()

	page := query.Page
	if page < 1 {
		page = 1
	}

	pageSize := query.PageSize
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	offset := (page - 1) * pageSize
	search := strings.TrimSpace(query.Search)

	accounts, total, err := s.accountRepo.ListPage(userID, offset, pageSize, search)
	if err != nil {
		s.recordAccountEvent("account.list", "failed")
		return nil, 0, fmt.Errorf("failed to list bank accounts: %w", err)
	}

	s.recordAccountEvent("account.list", "success")
	s.recordDuration("account.list", time.Since(start))

	return accounts, total, nil
}

func (s *BankAccountService) validateCreateRequest(userID uuid.UUID, req *dto.CreateBankAccountRequest) error {
	if userID == uuid.Nil {
		return ErrInvalidUserID
	}
	if strings.TrimSpace(req.Name) == "" {
		return ErrMissingAccountName
	}
	if strings.TrimSpace(req.AccountNumber) == "" {
		return ErrMissingAccountNumber
	}
	if strings.TrimSpace(req.Bank) == "" {
		return ErrMissingBankName
	}
	if !models.IsValidAccountType(req.Type) {
		return models.ErrInvalidAccountType
	}
	if req.Balance < 0 {
		return models.ErrNegativeBalance
	}
	return nil
}

func (s *BankAccountService) auditAccountCreated(account *models.BankAccount, ipAddress, userAgent string) {
	log := &models.AuditLog{
		UserID:     &account.UserID,
		Action:     models.AuditActionAccountCreated,
		Resource:   "bank_account",
		ResourceID: account.ID.String(),
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Metadata: map[string]interface{}{
			"account_type": account.AccountType,
			"bank_name":    account.BankName,
		},
	}

	if err := s.auditRepo.Create(log); err != nil {
		// Audit logging failure shouldn't block the operation itself
		s.logger.Error("failed to create audit log",
			"error", err,
			"action", log.Action,
			"resource_id", log.ResourceID)
	}
}

func (s *BankAccountService) recordAccountEvent(operation, status string) {
	if s.metrics == nil {
		return
	}
	s.metrics.IncrementCounter("bank_account.operation", map[string]string{
		"operation": operation,
		"status":    status,
	})
}

func (s *BankAccountService) recordDuration(operation string, d time.Duration) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordProcessingTime(operation, d)
}
