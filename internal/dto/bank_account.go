package dto

import (
	"ledgerbook/internal/models"
)

// Bank Account Request DTOs

// CreateBankAccountRequest is the payload for creating a new bank account.
// Field names follow the presented API contract, not the storage columns.
type CreateBankAccountRequest struct {
	Name          string  `json:"name" validate:"required,min=1,max=100"`
	AccountNumber string  `json:"accountNumber" validate:"required,account_number"`
	Bank          string  `json:"bank" validate:"required,min=1,max=100"`
	Type          string  `json:"type" validate:"required,account_type"`
	Balance       float64 `json:"balance" validate:"gte=0"`
}

// ListBankAccountsQuery captures the pagination and search query parameters
type ListBankAccountsQuery struct {
	Page     int    `query:"page"`
	PageSize int    `query:"pageSize"`
	Search   string `query:"search"`
}

// Bank Account Response DTOs

// CreateBankAccountResponse is returned after a successful account creation
type CreateBankAccountResponse struct {
	Account *models.BankAccount `json:"account"`
	Message string              `json:"message"`
}

// BankAccountListResponse is the paginated account listing: Data holds the
// requested page newest-first, Count the total matching the owner and search
// filter regardless of the page window.
type BankAccountListResponse struct {
	Data  []models.BankAccount `json:"data"`
	Count int64                `json:"count"`
}

// MessageResponse represents a simple message response
type MessageResponse struct {
	Message string `json:"message"`
}
