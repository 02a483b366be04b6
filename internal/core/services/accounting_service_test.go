package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/mbilaljunaid/nexusai-erp-sub009/internal/apperrors"
	"github.com/mbilaljunaid/nexusai-erp-sub009/internal/core/domain"
	portsrepo "github.com/mbilaljunaid/nexusai-erp-sub009/internal/core/ports/repositories"
	portssvc "github.com/mbilaljunaid/nexusai-erp-sub009/internal/core/ports/services"
	"github.com/mbilaljunaid/nexusai-erp-sub009/internal/core/services"
)

// --- Mock JournalRepository ---
type MockJournalRepository struct {
	mock.Mock
}

var _ portsrepo.JournalRepositoryFacade = (*MockJournalRepository)(nil)

func (m *MockJournalRepository) SaveJournal(ctx context.Context, header domain.JournalHeader, lines []domain.JournalLine) error {
	args := m.Called(ctx, header, lines)
	return args.Error(0)
}

func (m *MockJournalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.JournalHeader, error) {
	args := m.Called(ctx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalHeader), args.Error(1)
}

func (m *MockJournalRepository) FindLinesByJournalID(ctx context.Context, journalID string) ([]domain.JournalLine, error) {
	args := m.Called(ctx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalLine), args.Error(1)
}

func (m *MockJournalRepository) ListJournalsByLedger(ctx context.Context, ledgerID string, limit, offset int) ([]domain.JournalHeader, error) {
	args := m.Called(ctx, ledgerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalHeader), args.Error(1)
}

func (m *MockJournalRepository) TransferJournal(ctx context.Context, journalID, actorID string, now time.Time, createGL portsrepo.CreateGLJournalFunc) (string, error) {
	args := m.Called(ctx, journalID, actorID, now, createGL)
	return args.String(0), args.Error(1)
}

// --- Mock RuleReader ---
type MockRuleReader struct {
	mock.Mock
}

var _ portsrepo.RuleReader = (*MockRuleReader)(nil)

func (m *MockRuleReader) FindRule(ctx context.Context, ruleCode domain.RuleCode, eventClass domain.EventClass) (*domain.AccountingRule, error) {
	args := m.Called(ctx, ruleCode, eventClass)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingRule), args.Error(1)
}

func (m *MockRuleReader) ListRules(ctx context.Context, limit, offset int) ([]domain.AccountingRule, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountingRule), args.Error(1)
}

func (m *MockRuleReader) FindMappingSetValue(ctx context.Context, mappingSetID, inputValue string) (*domain.MappingSetValue, error) {
	args := m.Called(ctx, mappingSetID, inputValue)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MappingSetValue), args.Error(1)
}

func (m *MockRuleReader) ListMappingSets(ctx context.Context) ([]domain.MappingSet, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MappingSet), args.Error(1)
}

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

func (m *MockLedgerService) GetOrCreateCodeCombination(ctx context.Context, ledgerID, segments string) (domain.CodeCombination, error) {
	args := m.Called(ctx, ledgerID, segments)
	return args.Get(0).(domain.CodeCombination), args.Error(1)
}

func (m *MockLedgerService) FindCodeCombinationByID(ctx context.Context, codeCombinationID string) (*domain.CodeCombination, error) {
	args := m.Called(ctx, codeCombinationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CodeCombination), args.Error(1)
}

func (m *MockLedgerService) FindCodeCombinationsByIDs(ctx context.Context, codeCombinationIDs []string) (map[string]domain.CodeCombination, error) {
	args := m.Called(ctx, codeCombinationIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.CodeCombination), args.Error(1)
}

func (m *MockLedgerService) CreateJournal(ctx context.Context, tx pgx.Tx, journal domain.GLJournal) (string, error) {
	args := m.Called(ctx, tx, journal)
	return args.String(0), args.Error(1)
}

// --- Test Suite Setup ---
type AccountingServiceTestSuite struct {
	suite.Suite
	mockJournalRepo *MockJournalRepository
	mockRuleRepo    *MockRuleReader
	mockLedgerSvc   *MockLedgerService
	service         portssvc.AccountingSvcFacade
	ledgerID        string
	actorID         string
}

func (suite *AccountingServiceTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockRuleRepo = new(MockRuleReader)
	suite.mockLedgerSvc = new(MockLedgerService)
	suite.service = services.NewAccountingService(
		suite.mockJournalRepo,
		suite.mockRuleRepo,
		suite.mockLedgerSvc,
		services.AccountingOptions{},
	)
	suite.ledgerID = uuid.NewString()
	suite.actorID = uuid.NewString()
}

func (suite *AccountingServiceTestSuite) newEvent(class domain.EventClass, amount decimal.Decimal) domain.Event {
	return domain.Event{
		EventClass:   class,
		EntityID:     uuid.NewString(),
		EntityTable:  "ap_invoices",
		Description:  "test event",
		Amount:       amount,
		CurrencyCode: "USD",
		EventDate:    time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		GLDate:       time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		LedgerID:     suite.ledgerID,
	}
}

// expectNoRules makes every rule lookup miss so legs resolve to the built-in
// default accounts.
func (suite *AccountingServiceTestSuite) expectNoRules() {
	suite.mockRuleRepo.On("FindRule", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, apperrors.ErrNotFound)
}

// expectAccount stubs lazy provisioning for one segment string.
func (suite *AccountingServiceTestSuite) expectAccount(segments string) domain.CodeCombination {
	account := domain.CodeCombination{
		CodeCombinationID: uuid.NewString(),
		LedgerID:          suite.ledgerID,
		Segments:          segments,
	}
	suite.mockLedgerSvc.On("GetOrCreateCodeCombination", mock.Anything, suite.ledgerID, segments).
		Return(account, nil)
	return account
}

// --- CreateAccounting ---

func (suite *AccountingServiceTestSuite) TestCreateAccounting_APInvoice() {
	ctx := context.Background()
	event := suite.newEvent(domain.EventAPInvoiceValidated, decimal.NewFromFloat(1000.00))

	suite.expectNoRules()
	expense := suite.expectAccount("01-000-52000-000-000")
	liability := suite.expectAccount("01-000-21000-000-000")

	var savedHeader domain.JournalHeader
	var savedLines []domain.JournalLine
	suite.mockJournalRepo.On("SaveJournal", ctx, mock.AnythingOfType("domain.JournalHeader"), mock.AnythingOfType("[]domain.JournalLine")).
		Run(func(args mock.Arguments) {
			savedHeader = args.Get(1).(domain.JournalHeader)
			savedLines = args.Get(2).([]domain.JournalLine)
		}).
		Return(nil).Once()

	header, err := suite.service.CreateAccounting(ctx, event, suite.actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(header)
	suite.Equal(domain.StatusDraft, header.Status)
	suite.Equal(domain.TransferPending, header.TransferStatus)
	suite.Equal(suite.actorID, header.CreatedBy)
	suite.Equal(savedHeader.JournalID, header.JournalID)

	suite.Require().Len(savedLines, 2)
	suite.Equal(1, savedLines[0].LineNumber)
	suite.Equal(2, savedLines[1].LineNumber)
	suite.Equal(expense.CodeCombinationID, savedLines[0].CodeCombinationID)
	suite.Equal(domain.Debit, savedLines[0].Side)
	suite.Equal(liability.CodeCombinationID, savedLines[1].CodeCombinationID)
	suite.Equal(domain.Credit, savedLines[1].Side)

	suite.assertBalanced(savedLines)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *AccountingServiceTestSuite) TestCreateAccounting_CrossEntityBalanced() {
	ctx := context.Background()
	event := suite.newEvent(domain.EventAPInvoiceValidated, decimal.NewFromFloat(300.00))

	// Expense is configured to post in entity 02 while the liability default
	// sits in entity 01, forcing intercompany balancing.
	expenseRule := &domain.AccountingRule{
		RuleID:        uuid.NewString(),
		RuleCode:      domain.RuleExpense,
		SourceType:    domain.RuleSourceConstant,
		ConstantValue: "02-000-52000-000-000",
	}
	suite.mockRuleRepo.On("FindRule", mock.Anything, domain.RuleExpense, event.EventClass).
		Return(expenseRule, nil)
	suite.mockRuleRepo.On("FindRule", mock.Anything, domain.RuleLiability, event.EventClass).
		Return(nil, apperrors.ErrNotFound)

	suite.expectAccount("02-000-52000-000-000")
	suite.expectAccount("01-000-21000-000-000")
	suite.expectAccount("01-000-13500-000-000") // intercompany receivable for 01
	suite.expectAccount("02-000-21500-000-000") // intercompany payable for 02

	var savedLines []domain.JournalLine
	suite.mockJournalRepo.On("SaveJournal", ctx, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			savedLines = args.Get(2).([]domain.JournalLine)
		}).
		Return(nil).Once()

	header, err := suite.service.CreateAccounting(ctx, event, suite.actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(header)
	suite.Require().Len(savedLines, 4)
	suite.assertBalanced(savedLines)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *AccountingServiceTestSuite) TestCreateAccounting_UnknownClassIsNoOp() {
	ctx := context.Background()
	event := suite.newEvent("FA_DEPRECIATION", decimal.NewFromInt(10))

	header, err := suite.service.CreateAccounting(ctx, event, suite.actorID)

	suite.Require().NoError(err)
	suite.Nil(header)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveJournal", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountingServiceTestSuite) TestCreateAccounting_InvalidEvent() {
	ctx := context.Background()
	event := suite.newEvent(domain.EventAPInvoiceValidated, decimal.NewFromInt(-5))

	_, err := suite.service.CreateAccounting(ctx, event, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRuleRepo.AssertNotCalled(suite.T(), "FindRule", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountingServiceTestSuite) TestCreateAccounting_SaveError() {
	ctx := context.Background()
	event := suite.newEvent(domain.EventAPInvoiceValidated, decimal.NewFromInt(100))

	suite.expectNoRules()
	suite.expectAccount("01-000-52000-000-000")
	suite.expectAccount("01-000-21000-000-000")
	suite.mockJournalRepo.On("SaveJournal", ctx, mock.Anything, mock.Anything).
		Return(assert.AnError).Once()

	_, err := suite.service.CreateAccounting(ctx, event, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, assert.AnError)
}

// assertBalanced checks the persisted lines' debits equal their credits.
func (suite *AccountingServiceTestSuite) assertBalanced(lines []domain.JournalLine) {
	debits := decimal.Zero
	credits := decimal.Zero
	for _, line := range lines {
		debits = debits.Add(line.EnteredDr())
		credits = credits.Add(line.EnteredCr())
	}
	suite.True(debits.Equal(credits), "debits %s != credits %s", debits, credits)
}

// --- PostToGL ---

func (suite *AccountingServiceTestSuite) pendingHeader(journalID string) *domain.JournalHeader {
	return &domain.JournalHeader{
		JournalID:      journalID,
		LedgerID:       suite.ledgerID,
		EventClass:     domain.EventAPInvoiceValidated,
		CurrencyCode:   "USD",
		GLDate:         time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		Status:         domain.StatusDraft,
		TransferStatus: domain.TransferPending,
	}
}

func (suite *AccountingServiceTestSuite) TestPostToGL_Success() {
	ctx := context.Background()
	journalID := uuid.NewString()
	header := suite.pendingHeader(journalID)
	ccDebit := uuid.NewString()
	ccCredit := uuid.NewString()
	lines := []domain.JournalLine{
		{LineID: uuid.NewString(), JournalID: journalID, LineNumber: 1, CodeCombinationID: ccDebit, Side: domain.Debit, Amount: decimal.NewFromInt(100), CurrencyCode: "USD"},
		{LineID: uuid.NewString(), JournalID: journalID, LineNumber: 2, CodeCombinationID: ccCredit, Side: domain.Credit, Amount: decimal.NewFromInt(100), CurrencyCode: "USD"},
	}

	suite.mockJournalRepo.On("FindJournalByID", ctx, journalID).Return(header, nil).Once()

	var builtGL domain.GLJournal
	suite.mockLedgerSvc.On("CreateJournal", mock.Anything, mock.Anything, mock.AnythingOfType("domain.GLJournal")).
		Run(func(args mock.Arguments) {
			builtGL = args.Get(2).(domain.GLJournal)
		}).
		Return("gl-1", nil).Once()

	suite.mockJournalRepo.On("TransferJournal", ctx, journalID, suite.actorID, mock.AnythingOfType("time.Time"), mock.Anything).
		Run(func(args mock.Arguments) {
			// Drive the callback the way the repository would, on its own tx.
			createGL := args.Get(4).(portsrepo.CreateGLJournalFunc)
			glID, err := createGL(ctx, nil, *header, lines)
			suite.Require().NoError(err)
			suite.Equal("gl-1", glID)
		}).
		Return("gl-1", nil).Once()

	glJournalID, err := suite.service.PostToGL(ctx, journalID, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal("gl-1", glJournalID)

	// The GL journal nets one line per account in the right period.
	suite.Equal(suite.ledgerID, builtGL.LedgerID)
	suite.Equal("2025-06", builtGL.Period)
	suite.Equal("SLA", builtGL.Source)
	suite.Require().Len(builtGL.Lines, 2)
	for _, glLine := range builtGL.Lines {
		switch glLine.CodeCombinationID {
		case ccDebit:
			suite.True(glLine.AccountedDr.Equal(decimal.NewFromInt(100)))
			suite.True(glLine.AccountedCr.IsZero())
		case ccCredit:
			suite.True(glLine.AccountedCr.Equal(decimal.NewFromInt(100)))
			suite.True(glLine.AccountedDr.IsZero())
		default:
			suite.Failf("unexpected GL line", "account %s", glLine.CodeCombinationID)
		}
	}
	suite.mockJournalRepo.AssertExpectations(suite.T())
	suite.mockLedgerSvc.AssertExpectations(suite.T())
}

func (suite *AccountingServiceTestSuite) TestPostToGL_AlreadyTransferredPreCheck() {
	ctx := context.Background()
	journalID := uuid.NewString()
	header := suite.pendingHeader(journalID)
	header.TransferStatus = domain.TransferTransferred

	suite.mockJournalRepo.On("FindJournalByID", ctx, journalID).Return(header, nil).Once()

	_, err := suite.service.PostToGL(ctx, journalID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAlreadyTransferred)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "TransferJournal", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountingServiceTestSuite) TestPostToGL_ConcurrentTransferConflict() {
	ctx := context.Background()
	journalID := uuid.NewString()
	header := suite.pendingHeader(journalID)

	suite.mockJournalRepo.On("FindJournalByID", ctx, journalID).Return(header, nil).Once()
	// The in-transaction guard caught a concurrent transfer.
	suite.mockJournalRepo.On("TransferJournal", ctx, journalID, suite.actorID, mock.AnythingOfType("time.Time"), mock.Anything).
		Return("", apperrors.ErrConflict).Once()

	_, err := suite.service.PostToGL(ctx, journalID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAlreadyTransferred)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *AccountingServiceTestSuite) TestPostToGL_NotFound() {
	ctx := context.Background()
	journalID := uuid.NewString()

	suite.mockJournalRepo.On("FindJournalByID", ctx, journalID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.PostToGL(ctx, journalID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- Reads ---

func (suite *AccountingServiceTestSuite) TestGetJournalByID_IncludesLines() {
	ctx := context.Background()
	journalID := uuid.NewString()
	header := suite.pendingHeader(journalID)
	lines := []domain.JournalLine{
		{LineID: uuid.NewString(), JournalID: journalID, LineNumber: 1, Side: domain.Debit, Amount: decimal.NewFromInt(10)},
	}

	suite.mockJournalRepo.On("FindJournalByID", ctx, journalID).Return(header, nil).Once()
	suite.mockJournalRepo.On("FindLinesByJournalID", ctx, journalID).Return(lines, nil).Once()

	got, err := suite.service.GetJournalByID(ctx, journalID)

	suite.Require().NoError(err)
	suite.Require().NotNil(got)
	suite.Len(got.Lines, 1)
}

func (suite *AccountingServiceTestSuite) TestListJournals_DefaultsAndCaps() {
	ctx := context.Background()

	suite.mockJournalRepo.On("ListJournalsByLedger", ctx, suite.ledgerID, 20, 0).
		Return([]domain.JournalHeader{}, nil).Once()
	_, err := suite.service.ListJournals(ctx, suite.ledgerID, 0, -3)
	suite.Require().NoError(err)

	suite.mockJournalRepo.On("ListJournalsByLedger", ctx, suite.ledgerID, 100, 0).
		Return([]domain.JournalHeader{}, nil).Once()
	_, err = suite.service.ListJournals(ctx, suite.ledgerID, 5000, 0)
	suite.Require().NoError(err)

	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *AccountingServiceTestSuite) TestListJournals_RequiresLedger() {
	_, err := suite.service.ListJournals(context.Background(), "", 10, 0)
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

// --- Run Test Suite ---
func TestAccountingService(t *testing.T) {
	suite.Run(t, new(AccountingServiceTestSuite))
}
