package handlers

import (
	"errors"
	"net/http"

	"ledgerbook/internal/dto"
	apierrors "ledgerbook/internal/errors"
	"ledgerbook/internal/models"
	"ledgerbook/internal/services"

	"github.com/labstack/echo/v4"
)

// BankAccountHandler handles bank account endpoints
type BankAccountHandler struct {
	accountService services.BankAccountServiceInterface
}

// NewBankAccountHandler creates a new bank account handler
func NewBankAccountHandler(accountService services.BankAccountServiceInterface) *BankAccountHandler {
	return &BankAccountHandler{
		accountService: accountService,
	}
}

// CreateBankAccount handles bank account creation
// @Summary Create a bank account
// @Description Create a new bank account record for the authenticated user
// @Tags Banking
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateBankAccountRequest true "Account details"
// @Success 200 {object} dto.CreateBankAccountResponse "Account created successfully"
// @Failure 400 {object} errors.ErrorResponse "Validation error - VALIDATION_001, or storage failure - ACCOUNT_003"
// @Failure 401 {object} errors.ErrorResponse "Unauthorized - AUTH_002"
// @Failure 500 {object} errors.ErrorResponse "System error - SYSTEM_001"
// @Router /banking/accounts [post]
func (h *BankAccountHandler) CreateBankAccount(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, apierrors.AuthMissingToken)
	}

	var req dto.CreateBankAccountRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, apierrors.ValidationGeneral, apierrors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	ipAddress := getClientIP(c)
	userAgent := c.Request().UserAgent()

	account, err := h.accountService.CreateAccount(userID, &req, ipAddress, userAgent)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidAccountType):
			return SendError(c, apierrors.AccountInvalidType)
		case errors.Is(err, models.ErrNegativeBalance),
			errors.Is(err, services.ErrMissingAccountName),
			errors.Is(err, services.ErrMissingAccountNumber),
			errors.Is(err, services.ErrMissingBankName):
			return SendError(c, apierrors.ValidationGeneral, apierrors.WithDetails(err.Error()))
		default:
			// Storage failures surface the delegate's message as a client error
			return SendStorageError(c, err)
		}
	}

	return c.JSON(http.StatusOK, dto.CreateBankAccountResponse{
		Account: account,
		Message: "Bank account created successfully",
	})
}

// ListBankAccounts handles the paginated account listing
// @Summary List bank accounts
// @Description List the authenticated user's bank accounts, newest first, with optional search
// @Tags Banking
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number (1-based)"
// @Param pageSize query int false "Page size (max 100)"
// @Param search query string false "Search term matched against account name, bank name and account number"
// @Success 200 {object} dto.BankAccountListResponse "One page of accounts plus total count"
// @Failure 400 {object} errors.ErrorResponse "Storage failure - ACCOUNT_003"
// @Failure 401 {object} errors.ErrorResponse "Unauthorized - AUTH_002"
// @Router /banking/accounts [get]
func (h *BankAccountHandler) ListBankAccounts(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, apierrors.AuthMissingToken)
	}

	query := dto.ListBankAccountsQuery{
		Page:     getIntParam(c, "page", 1),
		PageSize: getIntParam(c, "pageSize", services.DefaultPageSize),
		Search:   c.QueryParam("search"),
	}

	accounts, total, err := h.accountService.ListAccounts(userID, &query)
	if err != nil {
		if errors.Is(err, services.ErrInvalidUserID) {
			return SendError(c, apierrors.AuthMissingToken)
		}
		// Storage failures surface the delegate's message as a client error,
		// same contract as the create path
		return SendStorageError(c, err)
	}

	if accounts == nil {
		accounts = []models.BankAccount{}
	}

	return c.JSON(http.StatusOK, dto.BankAccountListResponse{
		Data:  accounts,
		Count: total,
	})
}
