package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/quintalabs/bizcore/internal/apperrors"
	"github.com/quintalabs/bizcore/internal/core/domain"
	portsrepo "github.com/quintalabs/bizcore/internal/core/ports/repositories"
	portssvc "github.com/quintalabs/bizcore/internal/core/ports/services"
	"github.com/quintalabs/bizcore/internal/core/services"
	"github.com/quintalabs/bizcore/internal/dto"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock JournalRepository ---
type MockJournalRepository struct {
	mock.Mock
}

var _ portsrepo.JournalRepositoryFacade = (*MockJournalRepository)(nil)

func (m *MockJournalRepository) SaveJournal(ctx context.Context, journal domain.Journal, lines []domain.JournalLine) (int64, error) {
	args := m.Called(ctx, journal, lines)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockJournalRepository) ReplaceJournal(ctx context.Context, journal domain.Journal, lines []domain.JournalLine) error {
	args := m.Called(ctx, journal, lines)
	return args.Error(0)
}

func (m *MockJournalRepository) PostJournal(ctx context.Context, journalID string, postedBy string, postedAt time.Time, balanceChanges map[string]decimal.Decimal) error {
	args := m.Called(ctx, journalID, postedBy, postedAt, balanceChanges)
	return args.Error(0)
}

func (m *MockJournalRepository) PostReversal(ctx context.Context, reversingJournalID string, originalJournalID string, postedBy string, postedAt time.Time, balanceChanges map[string]decimal.Decimal) error {
	args := m.Called(ctx, reversingJournalID, originalJournalID, postedBy, postedAt, balanceChanges)
	return args.Error(0)
}

func (m *MockJournalRepository) DeleteJournal(ctx context.Context, journalID string) error {
	args := m.Called(ctx, journalID)
	return args.Error(0)
}

func (m *MockJournalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	args := m.Called(ctx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockJournalRepository) ListJournalsByOrganization(ctx context.Context, organizationID string, limit int, nextToken *string, includeVoided bool) ([]domain.Journal, *string, error) {
	args := m.Called(ctx, organizationID, limit, nextToken, includeVoided)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedToken = &tokenVal
	}
	return args.Get(0).([]domain.Journal), returnedToken, args.Error(2)
}

func (m *MockJournalRepository) FindLinesByJournalID(ctx context.Context, journalID string) ([]domain.JournalLine, error) {
	args := m.Called(ctx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalLine), args.Error(1)
}

func (m *MockJournalRepository) FindLinesByJournalIDs(ctx context.Context, journalIDs []string) (map[string][]domain.JournalLine, error) {
	args := m.Called(ctx, journalIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]domain.JournalLine), args.Error(1)
}

func (m *MockJournalRepository) ListLinesByAccountID(ctx context.Context, organizationID, accountID string, limit int, nextToken *string) ([]domain.JournalLine, *string, error) {
	args := m.Called(ctx, organizationID, accountID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedToken = &tokenVal
	}
	return args.Get(0).([]domain.JournalLine), returnedToken, args.Error(2)
}

// --- Mock AccountRepository ---
type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	args := m.Called(ctx, accountID, userID, now)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, organizationID string, code string) (*domain.Account, error) {
	args := m.Called(ctx, organizationID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, organizationID string, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, organizationID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, tx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, tx, balanceChanges, userID, now)
	return args.Error(0)
}

// --- Mock CurrencyRepository ---
type MockCurrencyRepository struct {
	mock.Mock
}

var _ portsrepo.CurrencyRepository = (*MockCurrencyRepository)(nil)

func (m *MockCurrencyRepository) SaveCurrency(ctx context.Context, currency domain.Currency) error {
	args := m.Called(ctx, currency)
	return args.Error(0)
}

func (m *MockCurrencyRepository) FindCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}

// --- Mock FiscalPeriodRepository ---
type MockFiscalPeriodRepository struct {
	mock.Mock
}

var _ portsrepo.FiscalPeriodRepositoryFacade = (*MockFiscalPeriodRepository)(nil)

func (m *MockFiscalPeriodRepository) SavePeriod(ctx context.Context, period domain.FiscalPeriod) error {
	args := m.Called(ctx, period)
	return args.Error(0)
}

func (m *MockFiscalPeriodRepository) UpdatePeriodStatus(ctx context.Context, periodID string, status domain.FiscalPeriodStatus, userID string, now time.Time) error {
	args := m.Called(ctx, periodID, status, userID, now)
	return args.Error(0)
}

func (m *MockFiscalPeriodRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

func (m *MockFiscalPeriodRepository) FindPeriodForDate(ctx context.Context, organizationID string, date time.Time) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx, organizationID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

func (m *MockFiscalPeriodRepository) ListPeriods(ctx context.Context, organizationID string) ([]domain.FiscalPeriod, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FiscalPeriod), args.Error(1)
}

func (m *MockFiscalPeriodRepository) HasPeriods(ctx context.Context, organizationID string) (bool, error) {
	args := m.Called(ctx, organizationID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFiscalPeriodRepository) FindOverlappingPeriod(ctx context.Context, organizationID string, startDate, endDate time.Time) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx, organizationID, startDate, endDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

// --- Mock OrganizationAuthorizer ---
type MockOrganizationAuthorizer struct {
	mock.Mock
}

var _ portssvc.OrganizationAuthorizerSvc = (*MockOrganizationAuthorizer)(nil)

func (m *MockOrganizationAuthorizer) AuthorizeUserAction(ctx context.Context, userID, organizationID string, requiredRole domain.UserOrganizationRole) error {
	args := m.Called(ctx, userID, organizationID, requiredRole)
	return args.Error(0)
}

// --- Test Suite Setup ---
type JournalServiceTestSuite struct {
	suite.Suite
	mockJournalRepo  *MockJournalRepository
	mockAccountRepo  *MockAccountRepository
	mockCurrencyRepo *MockCurrencyRepository
	mockPeriodRepo   *MockFiscalPeriodRepository
	mockAuthorizer   *MockOrganizationAuthorizer
	service          portssvc.JournalSvcFacade
	cashAccount      domain.Account
	loanAccount      domain.Account
	revenueAccount   domain.Account
	organizationID   string
	userID           string
}

func (suite *JournalServiceTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockCurrencyRepo = new(MockCurrencyRepository)
	suite.mockPeriodRepo = new(MockFiscalPeriodRepository)
	suite.mockAuthorizer = new(MockOrganizationAuthorizer)
	suite.service = services.NewJournalService(suite.mockJournalRepo, suite.mockAccountRepo, suite.mockCurrencyRepo, suite.mockPeriodRepo, suite.mockAuthorizer)

	suite.organizationID = uuid.NewString()
	suite.userID = uuid.NewString()

	suite.cashAccount = domain.Account{
		AccountID:           uuid.NewString(),
		OrganizationID:      suite.organizationID,
		Code:                "1000",
		AccountType:         domain.Asset,
		CurrencyCode:        "USD",
		IsActive:            true,
		AllowManualJournals: true,
	}
	suite.loanAccount = domain.Account{
		AccountID:           uuid.NewString(),
		OrganizationID:      suite.organizationID,
		Code:                "2100",
		AccountType:         domain.Liability,
		CurrencyCode:        "USD",
		IsActive:            true,
		AllowManualJournals: true,
	}
	suite.revenueAccount = domain.Account{
		AccountID:           uuid.NewString(),
		OrganizationID:      suite.organizationID,
		Code:                "4000",
		AccountType:         domain.Revenue,
		CurrencyCode:        "USD",
		IsActive:            true,
		AllowManualJournals: true,
	}
}

func (suite *JournalServiceTestSuite) expectAuthorized(role domain.UserOrganizationRole) {
	suite.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, suite.userID, suite.organizationID, role).Return(nil).Once()
}

func (suite *JournalServiceTestSuite) accountsMap(accounts ...domain.Account) map[string]domain.Account {
	result := make(map[string]domain.Account, len(accounts))
	for _, acc := range accounts {
		result[acc.AccountID] = acc
	}
	return result
}

func (suite *JournalServiceTestSuite) balancedRequest() dto.CreateJournalRequest {
	return dto.CreateJournalRequest{
		TransactionDate: time.Now(),
		Description:     "Invoice payment received",
		CurrencyCode:    "USD",
		Lines: []dto.CreateJournalLineRequest{
			{AccountID: suite.cashAccount.AccountID, Debit: decimal.NewFromInt(100)},
			{AccountID: suite.revenueAccount.AccountID, Credit: decimal.NewFromInt(100)},
		},
	}
}

// --- CreateJournal ---

func (suite *JournalServiceTestSuite) TestCreateJournal_Success() {
	ctx := context.Background()
	req := suite.balancedRequest()

	suite.expectAuthorized(domain.RoleMember)
	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "USD").Return(&domain.Currency{CurrencyCode: "USD"}, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, []string{suite.cashAccount.AccountID, suite.revenueAccount.AccountID}).
		Return(suite.accountsMap(suite.cashAccount, suite.revenueAccount), nil).Once()
	suite.mockJournalRepo.On("SaveJournal", ctx, mock.AnythingOfType("domain.Journal"), mock.AnythingOfType("[]domain.JournalLine")).
		Return(int64(7), nil).Once()

	created, err := suite.service.CreateJournal(ctx, suite.organizationID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.Equal(domain.Draft, created.Status)
	suite.Equal(int64(7), created.JournalNumber)
	suite.Equal(domain.SourceManual, created.Source)
	suite.True(created.TotalDebits.Equal(decimal.NewFromInt(100)))
	suite.True(created.TotalCredits.Equal(decimal.NewFromInt(100)))
	suite.Len(created.Lines, 2)
	suite.mockJournalRepo.AssertExpectations(suite.T())
	suite.mockAuthorizer.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestCreateJournal_Unbalanced() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Lines[1].Credit = decimal.NewFromInt(90)

	suite.expectAuthorized(domain.RoleMember)
	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "USD").Return(&domain.Currency{CurrencyCode: "USD"}, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).
		Return(suite.accountsMap(suite.cashAccount, suite.revenueAccount), nil).Once()

	created, err := suite.service.CreateJournal(ctx, suite.organizationID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrJournalUnbalanced)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(created)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveJournal", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateJournal_SingleLineRejected() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Lines = req.Lines[:1]

	suite.expectAuthorized(domain.RoleMember)
	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "USD").Return(&domain.Currency{CurrencyCode: "USD"}, nil).Once()

	created, err := suite.service.CreateJournal(ctx, suite.organizationID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(created)
}

func (suite *JournalServiceTestSuite) TestCreateJournal_BothDebitAndCreditSet() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Lines[0].Credit = decimal.NewFromInt(100)

	suite.expectAuthorized(domain.RoleMember)
	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "USD").Return(&domain.Currency{CurrencyCode: "USD"}, nil).Once()

	created, err := suite.service.CreateJournal(ctx, suite.organizationID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(created)
}

func (suite *JournalServiceTestSuite) TestCreateJournal_UnknownCurrency() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.CurrencyCode = "XXX"

	suite.expectAuthorized(domain.RoleMember)
	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "XXX").Return(nil, apperrors.ErrNotFound).Once()

	created, err := suite.service.CreateJournal(ctx, suite.organizationID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(created)
}

func (suite *JournalServiceTestSuite) TestCreateJournal_InactiveAccount() {
	ctx := context.Background()
	req := suite.balancedRequest()
	inactive := suite.revenueAccount
	inactive.IsActive = false

	suite.expectAuthorized(domain.RoleMember)
	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "USD").Return(&domain.Currency{CurrencyCode: "USD"}, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).
		Return(suite.accountsMap(suite.cashAccount, inactive), nil).Once()

	created, err := suite.service.CreateJournal(ctx, suite.organizationID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(created)
}

func (suite *JournalServiceTestSuite) TestCreateJournal_CurrencyMismatch() {
	ctx := context.Background()
	req := suite.balancedRequest()
	eurAccount := suite.revenueAccount
	eurAccount.CurrencyCode = "EUR"

	suite.expectAuthorized(domain.RoleMember)
	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "USD").Return(&domain.Currency{CurrencyCode: "USD"}, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).
		Return(suite.accountsMap(suite.cashAccount, eurAccount), nil).Once()

	created, err := suite.service.CreateJournal(ctx, suite.organizationID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(created)
}

func (suite *JournalServiceTestSuite) TestCreateJournal_ManualPostingBlockedAccount() {
	ctx := context.Background()
	req := suite.balancedRequest()
	controlAccount := suite.revenueAccount
	controlAccount.AllowManualJournals = false

	suite.expectAuthorized(domain.RoleMember)
	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "USD").Return(&domain.Currency{CurrencyCode: "USD"}, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).
		Return(suite.accountsMap(suite.cashAccount, controlAccount), nil).Once()

	created, err := suite.service.CreateJournal(ctx, suite.organizationID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(created)
}

func (suite *JournalServiceTestSuite) TestCreateJournal_Unauthorized() {
	ctx := context.Background()
	req := suite.balancedRequest()

	suite.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, suite.userID, suite.organizationID, domain.RoleMember).
		Return(apperrors.ErrForbidden).Once()

	created, err := suite.service.CreateJournal(ctx, suite.organizationID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.Nil(created)
	suite.mockCurrencyRepo.AssertNotCalled(suite.T(), "FindCurrencyByCode", mock.Anything, mock.Anything)
}

// --- PostJournal ---

func (suite *JournalServiceTestSuite) draftJournal() (*domain.Journal, []domain.JournalLine) {
	journalID := uuid.NewString()
	journal := &domain.Journal{
		JournalID:       journalID,
		OrganizationID:  suite.organizationID,
		JournalNumber:   3,
		TransactionDate: time.Now(),
		CurrencyCode:    "USD",
		Status:          domain.Draft,
		Source:          domain.SourceManual,
		TotalDebits:     decimal.NewFromInt(100),
		TotalCredits:    decimal.NewFromInt(100),
	}
	lines := []domain.JournalLine{
		{LineID: uuid.NewString(), JournalID: journalID, AccountID: suite.cashAccount.AccountID, Debit: decimal.NewFromInt(100), Credit: decimal.Zero},
		{LineID: uuid.NewString(), JournalID: journalID, AccountID: suite.revenueAccount.AccountID, Debit: decimal.Zero, Credit: decimal.NewFromInt(100)},
	}
	return journal, lines
}

func (suite *JournalServiceTestSuite) TestPostJournal_Success() {
	ctx := context.Background()
	journal, lines := suite.draftJournal()

	suite.expectAuthorized(domain.RoleMember)
	suite.mockJournalRepo.On("FindJournalByID", ctx, journal.JournalID).Return(journal, nil).Once()
	suite.mockPeriodRepo.On("HasPeriods", ctx, suite.organizationID).Return(true, nil).Once()
	suite.mockPeriodRepo.On("FindPeriodForDate", ctx, suite.organizationID, journal.TransactionDate).
		Return(&domain.FiscalPeriod{Status: domain.PeriodOpen}, nil).Once()
	suite.mockJournalRepo.On("FindLinesByJournalID", ctx, journal.JournalID).Return(lines, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).
		Return(suite.accountsMap(suite.cashAccount, suite.revenueAccount), nil).Once()
	suite.mockJournalRepo.On("PostJournal", ctx, journal.JournalID, suite.userID, mock.AnythingOfType("time.Time"), mock.MatchedBy(func(changes map[string]decimal.Decimal) bool {
		// Debit to an asset raises it; credit to revenue raises it too.
		return changes[suite.cashAccount.AccountID].Equal(decimal.NewFromInt(100)) &&
			changes[suite.revenueAccount.AccountID].Equal(decimal.NewFromInt(100))
	})).Return(nil).Once()

	posted, err := suite.service.PostJournal(ctx, suite.organizationID, journal.JournalID, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(posted)
	suite.Equal(domain.Posted, posted.Status)
	suite.Require().NotNil(posted.PostedBy)
	suite.Equal(suite.userID, *posted.PostedBy)
	suite.NotNil(posted.PostedAt)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestPostJournal_NoPeriodsDefinedPostsFreely() {
	ctx := context.Background()
	journal, lines := suite.draftJournal()

	suite.expectAuthorized(domain.RoleMember)
	suite.mockJournalRepo.On("FindJournalByID", ctx, journal.JournalID).Return(journal, nil).Once()
	suite.mockPeriodRepo.On("HasPeriods", ctx, suite.organizationID).Return(false, nil).Once()
	suite.mockJournalRepo.On("FindLinesByJournalID", ctx, journal.JournalID).Return(lines, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).
		Return(suite.accountsMap(suite.cashAccount, suite.revenueAccount), nil).Once()
	suite.mockJournalRepo.On("PostJournal", ctx, journal.JournalID, suite.userID, mock.AnythingOfType("time.Time"), mock.Anything).Return(nil).Once()

	posted, err := suite.service.PostJournal(ctx, suite.organizationID, journal.JournalID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.Posted, posted.Status)
	suite.mockPeriodRepo.AssertNotCalled(suite.T(), "FindPeriodForDate", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestPostJournal_ClosedPeriod() {
	ctx := context.Background()
	journal, _ := suite.draftJournal()

	suite.expectAuthorized(domain.RoleMember)
	suite.mockJournalRepo.On("FindJournalByID", ctx, journal.JournalID).Return(journal, nil).Once()
	suite.mockPeriodRepo.On("HasPeriods", ctx, suite.organizationID).Return(true, nil).Once()
	suite.mockPeriodRepo.On("FindPeriodForDate", ctx, suite.organizationID, journal.TransactionDate).
		Return(&domain.FiscalPeriod{Status: domain.PeriodClosed}, nil).Once()

	posted, err := suite.service.PostJournal(ctx, suite.organizationID, journal.JournalID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrPeriodClosed)
	suite.Nil(posted)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "PostJournal", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestPostJournal_LockedPeriodBehavesLikeClosed() {
	ctx := context.Background()
	journal, _ := suite.draftJournal()

	suite.expectAuthorized(domain.RoleMember)
	suite.mockJournalRepo.On("FindJournalByID", ctx, journal.JournalID).Return(journal, nil).Once()
	suite.mockPeriodRepo.On("HasPeriods", ctx, suite.organizationID).Return(true, nil).Once()
	suite.mockPeriodRepo.On("FindPeriodForDate", ctx, suite.organizationID, journal.TransactionDate).
		Return(&domain.FiscalPeriod{Status: domain.PeriodLocked}, nil).Once()

	posted, err := suite.service.PostJournal(ctx, suite.organizationID, journal.JournalID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrPeriodClosed)
	suite.Nil(posted)
}

func (suite *JournalServiceTestSuite) TestPostJournal_DateOutsideAllPeriods() {
	ctx := context.Background()
	journal, _ := suite.draftJournal()

	suite.expectAuthorized(domain.RoleMember)
	suite.mockJournalRepo.On("FindJournalByID", ctx, journal.JournalID).Return(journal, nil).Once()
	suite.mockPeriodRepo.On("HasPeriods", ctx, suite.organizationID).Return(true, nil).Once()
	suite.mockPeriodRepo.On("FindPeriodForDate", ctx, suite.organizationID, journal.TransactionDate).
		Return(nil, apperrors.ErrNotFound).Once()

	posted, err := suite.service.PostJournal(ctx, suite.organizationID, journal.JournalID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrPeriodClosed)
	suite.Nil(posted)
}

func (suite *JournalServiceTestSuite) TestPostJournal_AlreadyPosted() {
	ctx := context.Background()
	journal, _ := suite.draftJournal()
	journal.Status = domain.Posted

	suite.expectAuthorized(domain.RoleMember)
	suite.mockJournalRepo.On("FindJournalByID", ctx, journal.JournalID).Return(journal, nil).Once()

	posted, err := suite.service.PostJournal(ctx, suite.organizationID, journal.JournalID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAlreadyPosted)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Nil(posted)
}

func (suite *JournalServiceTestSuite) TestPostJournal_ConcurrentPostLosesRace() {
	ctx := context.Background()
	journal, lines := suite.draftJournal()

	suite.expectAuthorized(domain.RoleMember)
	suite.mockJournalRepo.On("FindJournalByID", ctx, journal.JournalID).Return(journal, nil).Once()
	suite.mockPeriodRepo.On("HasPeriods", ctx, suite.organizationID).Return(false, nil).Once()
	suite.mockJournalRepo.On("FindLinesByJournalID", ctx, journal.JournalID).Return(lines, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).
		Return(suite.accountsMap(suite.cashAccount, suite.revenueAccount), nil).Once()
	suite.mockJournalRepo.On("PostJournal", ctx, journal.JournalID, suite.userID, mock.AnythingOfType("time.Time"), mock.Anything).
		Return(apperrors.ErrConflict).Once()

	posted, err := suite.service.PostJournal(ctx, suite.organizationID, journal.JournalID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAlreadyPosted)
	suite.Nil(posted)
}

func (suite *JournalServiceTestSuite) TestPostJournal_WrongOrganization() {
	ctx := context.Background()
	journal, _ := suite.draftJournal()
	journal.OrganizationID = uuid.NewString()

	suite.expectAuthorized(domain.RoleMember)
	suite.mockJournalRepo.On("FindJournalByID", ctx, journal.JournalID).Return(journal, nil).Once()

	posted, err := suite.service.PostJournal(ctx, suite.organizationID, journal.JournalID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(posted)
}

// --- DeleteJournal ---

func (suite *JournalServiceTestSuite) TestDeleteJournal_DraftSucceeds() {
	ctx := context.Background()
	journal, _ := suite.draftJournal()

	suite.expectAuthorized(domain.RoleMember)
	suite.mockJournalRepo.On("FindJournalByID", ctx, journal.JournalID).Return(journal, nil).Once()
	suite.mockJournalRepo.On("DeleteJournal", ctx, journal.JournalID).Return(nil).Once()

	err := suite.service.DeleteJournal(ctx, suite.organizationID, journal.JournalID, suite.userID)

	suite.Require().NoError(err)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestDeleteJournal_PostedRejected() {
	ctx := context.Background()
	journal, _ := suite.draftJournal()
	journal.Status = domain.Posted

	suite.expectAuthorized(domain.RoleMember)
	suite.mockJournalRepo.On("FindJournalByID", ctx, journal.JournalID).Return(journal, nil).Once()

	err := suite.service.DeleteJournal(ctx, suite.organizationID, journal.JournalID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "DeleteJournal", mock.Anything, mock.Anything)
}

// --- ReverseJournal ---

func (suite *JournalServiceTestSuite) TestReverseJournal_Success() {
	ctx := context.Background()
	journal, lines := suite.draftJournal()
	journal.Status = domain.Posted

	suite.expectAuthorized(domain.RoleMember)
	suite.mockJournalRepo.On("FindJournalByID", ctx, journal.JournalID).Return(journal, nil).Once()
	suite.mockPeriodRepo.On("HasPeriods", ctx, suite.organizationID).Return(false, nil).Once()
	suite.mockJournalRepo.On("FindLinesByJournalID", ctx, journal.JournalID).Return(lines, nil).Once()

	var savedReversal domain.Journal
	suite.mockJournalRepo.On("SaveJournal", ctx, mock.MatchedBy(func(j domain.Journal) bool {
		savedReversal = j
		return j.Source == domain.SourceSystem &&
			j.OriginalJournalID != nil && *j.OriginalJournalID == journal.JournalID
	}), mock.MatchedBy(func(reversedLines []domain.JournalLine) bool {
		// Every line's debit and credit must be swapped.
		if len(reversedLines) != len(lines) {
			return false
		}
		for i := range lines {
			if !reversedLines[i].Debit.Equal(lines[i].Credit) || !reversedLines[i].Credit.Equal(lines[i].Debit) {
				return false
			}
		}
		return true
	})).Return(int64(4), nil).Once()

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).
		Return(suite.accountsMap(suite.cashAccount, suite.revenueAccount), nil).Once()
	suite.mockJournalRepo.On("PostReversal", ctx, mock.AnythingOfType("string"), journal.JournalID, suite.userID, mock.AnythingOfType("time.Time"), mock.MatchedBy(func(changes map[string]decimal.Decimal) bool {
		// The reversal's deltas exactly negate the original posting.
		return changes[suite.cashAccount.AccountID].Equal(decimal.NewFromInt(-100)) &&
			changes[suite.revenueAccount.AccountID].Equal(decimal.NewFromInt(-100))
	})).Return(nil).Once()

	reversal, err := suite.service.ReverseJournal(ctx, suite.organizationID, journal.JournalID, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(reversal)
	suite.Equal(domain.Posted, reversal.Status)
	suite.Equal(int64(4), reversal.JournalNumber)
	suite.Equal(savedReversal.JournalID, reversal.JournalID)
	suite.True(reversal.TotalDebits.Equal(journal.TotalCredits))
	suite.True(reversal.TotalCredits.Equal(journal.TotalDebits))
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestReverseJournal_FailedReversalAppliesNothing() {
	ctx := context.Background()
	journal, lines := suite.draftJournal()
	journal.Status = domain.Posted

	// First attempt: the combined post-and-void call fails, so no balance
	// change and no void have been committed.
	suite.expectAuthorized(domain.RoleMember)
	suite.mockJournalRepo.On("FindJournalByID", ctx, journal.JournalID).Return(journal, nil).Once()
	suite.mockPeriodRepo.On("HasPeriods", ctx, suite.organizationID).Return(false, nil).Once()
	suite.mockJournalRepo.On("FindLinesByJournalID", ctx, journal.JournalID).Return(lines, nil).Once()
	suite.mockJournalRepo.On("SaveJournal", ctx, mock.AnythingOfType("domain.Journal"), mock.AnythingOfType("[]domain.JournalLine")).Return(int64(4), nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).
		Return(suite.accountsMap(suite.cashAccount, suite.revenueAccount), nil).Once()
	suite.mockJournalRepo.On("PostReversal", ctx, mock.AnythingOfType("string"), journal.JournalID, suite.userID, mock.AnythingOfType("time.Time"), mock.Anything).
		Return(errors.New("connection reset during commit")).Once()

	reversal, err := suite.service.ReverseJournal(ctx, suite.organizationID, journal.JournalID, suite.userID)
	suite.Require().Error(err)
	suite.Nil(reversal)

	// Retry: the original is still POSTED and the reversal now commits. The
	// negation is applied exactly once across both attempts.
	suite.expectAuthorized(domain.RoleMember)
	suite.mockJournalRepo.On("FindJournalByID", ctx, journal.JournalID).Return(journal, nil).Once()
	suite.mockPeriodRepo.On("HasPeriods", ctx, suite.organizationID).Return(false, nil).Once()
	suite.mockJournalRepo.On("FindLinesByJournalID", ctx, journal.JournalID).Return(lines, nil).Once()
	suite.mockJournalRepo.On("SaveJournal", ctx, mock.AnythingOfType("domain.Journal"), mock.AnythingOfType("[]domain.JournalLine")).Return(int64(5), nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).
		Return(suite.accountsMap(suite.cashAccount, suite.revenueAccount), nil).Once()
	suite.mockJournalRepo.On("PostReversal", ctx, mock.AnythingOfType("string"), journal.JournalID, suite.userID, mock.AnythingOfType("time.Time"), mock.Anything).
		Return(nil).Once()

	reversal, err = suite.service.ReverseJournal(ctx, suite.organizationID, journal.JournalID, suite.userID)
	suite.Require().NoError(err)
	suite.Require().NotNil(reversal)
	suite.Equal(domain.Posted, reversal.Status)

	suite.mockJournalRepo.AssertNumberOfCalls(suite.T(), "PostReversal", 2)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "PostJournal", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestReverseJournal_ConcurrentReversalLosesRace() {
	ctx := context.Background()
	journal, lines := suite.draftJournal()
	journal.Status = domain.Posted

	suite.expectAuthorized(domain.RoleMember)
	suite.mockJournalRepo.On("FindJournalByID", ctx, journal.JournalID).Return(journal, nil).Once()
	suite.mockPeriodRepo.On("HasPeriods", ctx, suite.organizationID).Return(false, nil).Once()
	suite.mockJournalRepo.On("FindLinesByJournalID", ctx, journal.JournalID).Return(lines, nil).Once()
	suite.mockJournalRepo.On("SaveJournal", ctx, mock.AnythingOfType("domain.Journal"), mock.AnythingOfType("[]domain.JournalLine")).Return(int64(4), nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).
		Return(suite.accountsMap(suite.cashAccount, suite.revenueAccount), nil).Once()
	suite.mockJournalRepo.On("PostReversal", ctx, mock.AnythingOfType("string"), journal.JournalID, suite.userID, mock.AnythingOfType("time.Time"), mock.Anything).
		Return(apperrors.ErrConflict).Once()

	reversal, err := suite.service.ReverseJournal(ctx, suite.organizationID, journal.JournalID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Nil(reversal)
}

func (suite *JournalServiceTestSuite) TestReverseJournal_DraftRejected() {
	ctx := context.Background()
	journal, _ := suite.draftJournal()

	suite.expectAuthorized(domain.RoleMember)
	suite.mockJournalRepo.On("FindJournalByID", ctx, journal.JournalID).Return(journal, nil).Once()

	reversal, err := suite.service.ReverseJournal(ctx, suite.organizationID, journal.JournalID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Nil(reversal)
}

func (suite *JournalServiceTestSuite) TestReverseJournal_AlreadyVoided() {
	ctx := context.Background()
	journal, _ := suite.draftJournal()
	journal.Status = domain.Voided

	suite.expectAuthorized(domain.RoleMember)
	suite.mockJournalRepo.On("FindJournalByID", ctx, journal.JournalID).Return(journal, nil).Once()

	reversal, err := suite.service.ReverseJournal(ctx, suite.organizationID, journal.JournalID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Nil(reversal)
}

func (suite *JournalServiceTestSuite) TestReverseJournal_ReversalOfReversalRejected() {
	ctx := context.Background()
	journal, _ := suite.draftJournal()
	journal.Status = domain.Posted
	origID := uuid.NewString()
	journal.OriginalJournalID = &origID

	suite.expectAuthorized(domain.RoleMember)
	suite.mockJournalRepo.On("FindJournalByID", ctx, journal.JournalID).Return(journal, nil).Once()

	reversal, err := suite.service.ReverseJournal(ctx, suite.organizationID, journal.JournalID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Nil(reversal)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveJournal", mock.Anything, mock.Anything, mock.Anything)
}

// --- UpdateJournal ---

func (suite *JournalServiceTestSuite) TestUpdateJournal_PostedRejected() {
	ctx := context.Background()
	journal, _ := suite.draftJournal()
	journal.Status = domain.Posted
	newDesc := "amended"

	suite.expectAuthorized(domain.RoleMember)
	suite.mockJournalRepo.On("FindJournalByID", ctx, journal.JournalID).Return(journal, nil).Once()

	updated, err := suite.service.UpdateJournal(ctx, suite.organizationID, journal.JournalID, dto.UpdateJournalRequest{Description: &newDesc}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Nil(updated)
}

func (suite *JournalServiceTestSuite) TestUpdateJournal_ReplacesLines() {
	ctx := context.Background()
	journal, _ := suite.draftJournal()
	req := dto.UpdateJournalRequest{
		Lines: []dto.CreateJournalLineRequest{
			{AccountID: suite.cashAccount.AccountID, Debit: decimal.NewFromInt(250)},
			{AccountID: suite.loanAccount.AccountID, Credit: decimal.NewFromInt(250)},
		},
	}

	suite.expectAuthorized(domain.RoleMember)
	suite.mockJournalRepo.On("FindJournalByID", ctx, journal.JournalID).Return(journal, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).
		Return(suite.accountsMap(suite.cashAccount, suite.loanAccount), nil).Once()
	suite.mockJournalRepo.On("ReplaceJournal", ctx, mock.MatchedBy(func(j domain.Journal) bool {
		return j.TotalDebits.Equal(decimal.NewFromInt(250)) && j.TotalCredits.Equal(decimal.NewFromInt(250))
	}), mock.AnythingOfType("[]domain.JournalLine")).Return(nil).Once()

	updated, err := suite.service.UpdateJournal(ctx, suite.organizationID, journal.JournalID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(updated)
	suite.Len(updated.Lines, 2)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

// --- ListJournals ---

func (suite *JournalServiceTestSuite) TestListJournals_DefaultsLimit() {
	ctx := context.Background()

	suite.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, suite.userID, suite.organizationID, domain.RoleReadOnly).Return(nil).Once()
	suite.mockJournalRepo.On("ListJournalsByOrganization", ctx, suite.organizationID, 20, (*string)(nil), false).
		Return([]domain.Journal{}, nil, nil).Once()

	resp, err := suite.service.ListJournals(ctx, suite.organizationID, suite.userID, dto.ListJournalsParams{})

	suite.Require().NoError(err)
	suite.Empty(resp.Journals)
	suite.Nil(resp.NextToken)
}

func TestJournalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}
