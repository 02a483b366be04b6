package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/mbilaljunaid/nexusai-erp-sub009/internal/apperrors"
	"github.com/mbilaljunaid/nexusai-erp-sub009/internal/core/domain"
	portssvc "github.com/mbilaljunaid/nexusai-erp-sub009/internal/core/ports/services"
	"github.com/mbilaljunaid/nexusai-erp-sub009/internal/core/services"
	"github.com/mbilaljunaid/nexusai-erp-sub009/internal/dto"
	"github.com/mbilaljunaid/nexusai-erp-sub009/internal/handlers"
	"github.com/mbilaljunaid/nexusai-erp-sub009/internal/platform/config"
)

// --- Mock AccountingService ---
type MockAccountingService struct {
	mock.Mock
}

var _ portssvc.AccountingSvcFacade = (*MockAccountingService)(nil)

func (m *MockAccountingService) CreateAccounting(ctx context.Context, event domain.Event, actorID string) (*domain.JournalHeader, error) {
	args := m.Called(ctx, event, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalHeader), args.Error(1)
}

func (m *MockAccountingService) PostToGL(ctx context.Context, journalID, actorID string) (string, error) {
	args := m.Called(ctx, journalID, actorID)
	return args.String(0), args.Error(1)
}

func (m *MockAccountingService) GetJournalByID(ctx context.Context, journalID string) (*domain.JournalHeader, error) {
	args := m.Called(ctx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalHeader), args.Error(1)
}

func (m *MockAccountingService) ListJournals(ctx context.Context, ledgerID string, limit, offset int) ([]domain.JournalHeader, error) {
	args := m.Called(ctx, ledgerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalHeader), args.Error(1)
}

// --- Mock RuleService ---
type MockRuleService struct {
	mock.Mock
}

var _ portssvc.RuleSvcFacade = (*MockRuleService)(nil)

func (m *MockRuleService) CreateRule(ctx context.Context, req dto.CreateRuleRequest, creatorUserID string) (*domain.AccountingRule, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingRule), args.Error(1)
}

func (m *MockRuleService) ListRules(ctx context.Context, limit, offset int) ([]domain.AccountingRule, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountingRule), args.Error(1)
}

func (m *MockRuleService) CreateMappingSet(ctx context.Context, req dto.CreateMappingSetRequest, creatorUserID string) (*domain.MappingSet, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MappingSet), args.Error(1)
}

func (m *MockRuleService) ListMappingSets(ctx context.Context) ([]domain.MappingSet, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MappingSet), args.Error(1)
}

// --- Test Suite ---
type AccountingHandlerTestSuite struct {
	suite.Suite
	router            *gin.Engine
	mockAccountingSvc *MockAccountingService
	mockRuleSvc       *MockRuleService
	jwtSecret         string
	userID            string
}

func (suite *AccountingHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "sla-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedString, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signedString
}

func (suite *AccountingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.userID = uuid.NewString()

	suite.mockAccountingSvc = new(MockAccountingService)
	suite.mockRuleSvc = new(MockRuleService)

	cfg := &config.Config{
		JWTSecret:    suite.jwtSecret,
		IsProduction: true, // no swagger routes in tests
	}
	handlers.RegisterRoutes(suite.router, cfg, &portssvc.ServiceContainer{
		Accounting: suite.mockAccountingSvc,
		Rule:       suite.mockRuleSvc,
	})
}

func (suite *AccountingHandlerTestSuite) doRequest(method, url string, body any, authenticated bool) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, _ := http.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	if authenticated {
		req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(suite.userID))
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *AccountingHandlerTestSuite) eventRequest() dto.CreateAccountingEventRequest {
	return dto.CreateAccountingEventRequest{
		EventClass:   string(domain.EventAPInvoiceValidated),
		EntityID:     uuid.NewString(),
		EntityTable:  "ap_invoices",
		Amount:       decimal.NewFromFloat(1000.00),
		CurrencyCode: "USD",
		EventDate:    time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		LedgerID:     uuid.NewString(),
	}
}

// --- Test Cases ---

func (suite *AccountingHandlerTestSuite) TestCreateAccounting_Success() {
	reqBody := suite.eventRequest()
	header := &domain.JournalHeader{
		JournalID:      uuid.NewString(),
		LedgerID:       reqBody.LedgerID,
		EventClass:     domain.EventAPInvoiceValidated,
		Status:         domain.StatusDraft,
		TransferStatus: domain.TransferPending,
		Lines: []domain.JournalLine{
			{LineID: uuid.NewString(), LineNumber: 1, Side: domain.Debit, Amount: decimal.NewFromFloat(1000.00), CurrencyCode: "USD"},
			{LineID: uuid.NewString(), LineNumber: 2, Side: domain.Credit, Amount: decimal.NewFromFloat(1000.00), CurrencyCode: "USD"},
		},
	}

	suite.mockAccountingSvc.On("CreateAccounting", mock.Anything, mock.AnythingOfType("domain.Event"), suite.userID).
		Return(header, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/accounting/events", reqBody, true)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.JournalResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(header.JournalID, resp.JournalID)
	suite.Len(resp.Lines, 2)
	suite.True(resp.Lines[0].EnteredDr.Equal(decimal.NewFromFloat(1000.00)))
	suite.True(resp.Lines[0].EnteredCr.IsZero())
	suite.mockAccountingSvc.AssertExpectations(suite.T())
}

func (suite *AccountingHandlerTestSuite) TestCreateAccounting_NoTemplateReturnsNoContent() {
	reqBody := suite.eventRequest()
	reqBody.EventClass = "FA_DEPRECIATION"

	suite.mockAccountingSvc.On("CreateAccounting", mock.Anything, mock.Anything, suite.userID).
		Return(nil, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/accounting/events", reqBody, true)

	suite.Equal(http.StatusNoContent, w.Code)
}

func (suite *AccountingHandlerTestSuite) TestCreateAccounting_InvalidPayload() {
	reqBody := suite.eventRequest()
	reqBody.CurrencyCode = "DOLLARS" // violates len=3

	w := suite.doRequest(http.MethodPost, "/api/v1/accounting/events", reqBody, true)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockAccountingSvc.AssertNotCalled(suite.T(), "CreateAccounting", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountingHandlerTestSuite) TestCreateAccounting_Unauthorized() {
	w := suite.doRequest(http.MethodPost, "/api/v1/accounting/events", suite.eventRequest(), false)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockAccountingSvc.AssertNotCalled(suite.T(), "CreateAccounting", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountingHandlerTestSuite) TestPostToGL_Success() {
	journalID := uuid.NewString()
	suite.mockAccountingSvc.On("PostToGL", mock.Anything, journalID, suite.userID).
		Return("gl-1", nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/accounting/journals/"+journalID+"/post", nil, true)

	suite.Equal(http.StatusOK, w.Code)
	var resp map[string]string
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("gl-1", resp["glJournalID"])
}

func (suite *AccountingHandlerTestSuite) TestPostToGL_AlreadyTransferred() {
	journalID := uuid.NewString()
	suite.mockAccountingSvc.On("PostToGL", mock.Anything, journalID, suite.userID).
		Return("", services.ErrAlreadyTransferred).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/accounting/journals/"+journalID+"/post", nil, true)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *AccountingHandlerTestSuite) TestGetJournal_NotFound() {
	journalID := uuid.NewString()
	suite.mockAccountingSvc.On("GetJournalByID", mock.Anything, journalID).
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/accounting/journals/"+journalID, nil, true)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *AccountingHandlerTestSuite) TestListJournals_MissingLedger() {
	suite.mockAccountingSvc.On("ListJournals", mock.Anything, "", 20, 0).
		Return(nil, apperrors.ErrValidation).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/accounting/journals", nil, true)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *AccountingHandlerTestSuite) TestCreateRule_Duplicate() {
	reqBody := dto.CreateRuleRequest{
		RuleCode:      string(domain.RuleExpense),
		SourceType:    string(domain.RuleSourceConstant),
		ConstantValue: "01-000-52000-000-000",
	}
	suite.mockRuleSvc.On("CreateRule", mock.Anything, mock.AnythingOfType("dto.CreateRuleRequest"), suite.userID).
		Return(nil, apperrors.ErrDuplicate).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/accounting/rules", reqBody, true)

	suite.Equal(http.StatusConflict, w.Code)
}

// --- Run Test Suite ---
func TestAccountingHandler(t *testing.T) {
	suite.Run(t, new(AccountingHandlerTestSuite))
}
