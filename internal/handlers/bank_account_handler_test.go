package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"ledgerbook/internal/dto"
	"ledgerbook/internal/models"
	"ledgerbook/internal/services"
	"ledgerbook/internal/services/service_mocks"

	"github.com/go-playground/validator/v10"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// BankAccountHandlerSuite defines the test suite for BankAccountHandler
type BankAccountHandlerSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	mockService *service_mocks.MockBankAccountServiceInterface
	handler     *BankAccountHandler
	echo        *echo.Echo
	testUserID  uuid.UUID
}

// SetupTest runs before each test in the suite
func (s *BankAccountHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockService = service_mocks.NewMockBankAccountServiceInterface(s.ctrl)
	s.handler = NewBankAccountHandler(s.mockService)

	s.echo = echo.New()
	s.echo.Validator = NewValidator()

	s.testUserID = uuid.New()
}

// TearDownTest runs after each test in the suite
func (s *BankAccountHandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

// TestBankAccountHandlerSuite runs the test suite
func TestBankAccountHandlerSuite(t *testing.T) {
	suite.Run(t, new(BankAccountHandlerSuite))
}

// Helper method to create a test context, optionally authenticated
func (s *BankAccountHandlerSuite) createContext(method, path string, body interface{}, authenticated bool) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewBuffer(jsonBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)

	if authenticated {
		c.Set("user_id", s.testUserID)
	}

	return c, rec
}

func (s *BankAccountHandlerSuite) validCreateRequest() dto.CreateBankAccountRequest {
	return dto.CreateBankAccountRequest{
		Name:          "Household",
		AccountNumber: "1012345678",
		Bank:          "First National",
		Type:          "checking",
		Balance:       2500.75,
	}
}

func (s *BankAccountHandlerSuite) TestCreateBankAccount_Success() {
	reqBody := s.validCreateRequest()
	balance := decimal.NewFromFloat(reqBody.Balance)

	expectedAccount := &models.BankAccount{
		ID:             uuid.New(),
		AccountName:    reqBody.Name,
		AccountNumber:  reqBody.AccountNumber,
		BankName:       reqBody.Bank,
		AccountType:    reqBody.Type,
		InitialBalance: balance,
		CurrentBalance: balance,
		IsActive:       true,
		AccountCode:    "A1B2C3",
		UserID:         s.testUserID,
	}

	s.mockService.EXPECT().
		CreateAccount(s.testUserID, gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(userID uuid.UUID, req *dto.CreateBankAccountRequest, ipAddress, userAgent string) (*models.BankAccount, error) {
			s.Equal("Household", req.Name)
			s.Equal(2500.75, req.Balance)
			return expectedAccount, nil
		})

	c, rec := s.createContext("POST", "/api/banking/accounts", reqBody, true)

	err := s.handler.CreateBankAccount(c)
	s.NoError(err)
	s.Equal(http.StatusOK, rec.Code)

	var resp dto.CreateBankAccountResponse
	s.NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal(expectedAccount.ID, resp.Account.ID)
	s.True(resp.Account.CurrentBalance.Equal(resp.Account.InitialBalance))
	s.True(resp.Account.IsActive)
	s.NotEmpty(resp.Account.AccountCode)
}

func (s *BankAccountHandlerSuite) TestCreateBankAccount_Unauthorized() {
	c, rec := s.createContext("POST", "/api/banking/accounts", s.validCreateRequest(), false)

	err := s.handler.CreateBankAccount(c)
	s.NoError(err)
	s.Equal(http.StatusUnauthorized, rec.Code)

	var resp ErrorResponse
	s.NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("AUTH_002", resp.Error.Code)
}

func (s *BankAccountHandlerSuite) TestCreateBankAccount_NegativeBalance() {
	reqBody := s.validCreateRequest()
	reqBody.Balance = -1

	c, _ := s.createContext("POST", "/api/banking/accounts", reqBody, true)

	// Validation errors bubble up to the HTTP error handler
	err := s.handler.CreateBankAccount(c)
	s.Error(err)
	s.IsType(validator.ValidationErrors{}, err)
}

func (s *BankAccountHandlerSuite) TestCreateBankAccount_InvalidTypeFromService() {
	// A request that passes struct validation but is rejected by the service
	reqBody := s.validCreateRequest()

	s.mockService.EXPECT().
		CreateAccount(s.testUserID, gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, models.ErrInvalidAccountType)

	c, rec := s.createContext("POST", "/api/banking/accounts", reqBody, true)

	err := s.handler.CreateBankAccount(c)
	s.NoError(err)
	s.Equal(http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	s.NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("ACCOUNT_002", resp.Error.Code)
}

func (s *BankAccountHandlerSuite) TestCreateBankAccount_StorageFailure() {
	reqBody := s.validCreateRequest()

	s.mockService.EXPECT().
		CreateAccount(s.testUserID, gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("failed to create bank account: connection reset"))

	c, rec := s.createContext("POST", "/api/banking/accounts", reqBody, true)

	err := s.handler.CreateBankAccount(c)
	s.NoError(err)
	s.Equal(http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	s.NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("ACCOUNT_003", resp.Error.Code)
	// The delegate's message is preserved in the details
	s.Require().NotEmpty(resp.Error.Details)
	s.Contains(resp.Error.Details[0], "connection reset")
}

func (s *BankAccountHandlerSuite) TestListBankAccounts_Success() {
	balance := decimal.NewFromFloat(100)
	accounts := []models.BankAccount{
		{ID: uuid.New(), AccountName: "Newest", UserID: s.testUserID, InitialBalance: balance, CurrentBalance: balance},
		{ID: uuid.New(), AccountName: "Oldest", UserID: s.testUserID, InitialBalance: balance, CurrentBalance: balance},
	}

	s.mockService.EXPECT().
		ListAccounts(s.testUserID, gomock.Any()).
		Return(accounts, int64(7), nil)

	c, rec := s.createContext("GET", "/api/banking/accounts?page=1&pageSize=2", nil, true)

	err := s.handler.ListBankAccounts(c)
	s.NoError(err)
	s.Equal(http.StatusOK, rec.Code)

	var resp dto.BankAccountListResponse
	s.NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Len(resp.Data, 2)
	s.Equal(int64(7), resp.Count)
	s.Equal("Newest", resp.Data[0].AccountName)
}

func (s *BankAccountHandlerSuite) TestListBankAccounts_DefaultsAndSearch() {
	s.mockService.EXPECT().
		ListAccounts(s.testUserID, gomock.Any()).
		DoAndReturn(func(userID uuid.UUID, query *dto.ListBankAccountsQuery) ([]models.BankAccount, int64, error) {
			s.Equal(1, query.Page)
			s.Equal(services.DefaultPageSize, query.PageSize)
			s.Equal("chase", query.Search)
			return []models.BankAccount{}, 0, nil
		})

	c, rec := s.createContext("GET", "/api/banking/accounts?search=chase", nil, true)

	err := s.handler.ListBankAccounts(c)
	s.NoError(err)
	s.Equal(http.StatusOK, rec.Code)

	var resp dto.BankAccountListResponse
	s.NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.NotNil(resp.Data)
	s.Empty(resp.Data)
	s.Equal(int64(0), resp.Count)
}

func (s *BankAccountHandlerSuite) TestListBankAccounts_StorageFailure() {
	s.mockService.EXPECT().
		ListAccounts(s.testUserID, gomock.Any()).
		Return(nil, int64(0), fmt.Errorf("failed to list bank accounts: connection reset"))

	c, rec := s.createContext("GET", "/api/banking/accounts", nil, true)

	err := s.handler.ListBankAccounts(c)
	s.NoError(err)
	s.Equal(http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	s.NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("ACCOUNT_003", resp.Error.Code)
	// The delegate's message is preserved in the details
	s.Require().NotEmpty(resp.Error.Details)
	s.Contains(resp.Error.Details[0], "connection reset")
}

func (s *BankAccountHandlerSuite) TestListBankAccounts_Unauthorized() {
	c, rec := s.createContext("GET", "/api/banking/accounts", nil, false)

	err := s.handler.ListBankAccounts(c)
	s.NoError(err)
	s.Equal(http.StatusUnauthorized, rec.Code)

	var resp ErrorResponse
	s.NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("AUTH_002", resp.Error.Code)
}
