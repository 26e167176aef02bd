package services_test

import (
	"context"
	"testing"

	"github.com/quintalabs/bizcore/internal/apperrors"
	"github.com/quintalabs/bizcore/internal/core/domain"
	portssvc "github.com/quintalabs/bizcore/internal/core/ports/services"
	"github.com/quintalabs/bizcore/internal/core/services"
	"github.com/quintalabs/bizcore/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type AccountServiceTestSuite struct {
	suite.Suite
	mockAccountRepo  *MockAccountRepository
	mockCurrencyRepo *MockCurrencyRepository
	mockAuthorizer   *MockOrganizationAuthorizer
	service          portssvc.AccountSvcFacade
	organizationID   string
	userID           string
	account          domain.Account
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockCurrencyRepo = new(MockCurrencyRepository)
	suite.mockAuthorizer = new(MockOrganizationAuthorizer)
	suite.service = services.NewAccountService(suite.mockAccountRepo, suite.mockCurrencyRepo, suite.mockAuthorizer)

	suite.organizationID = uuid.NewString()
	suite.userID = uuid.NewString()
	suite.account = domain.Account{
		AccountID:           uuid.NewString(),
		OrganizationID:      suite.organizationID,
		Code:                "1000",
		Name:                "Cash",
		AccountType:         domain.Asset,
		CurrencyCode:        "USD",
		IsActive:            true,
		AllowManualJournals: true,
		Balance:             decimal.Zero,
	}
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Code:         "1100",
		Name:         "Accounts Receivable",
		AccountType:  domain.Asset,
		CurrencyCode: "USD",
	}

	suite.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, suite.userID, suite.organizationID, domain.RoleMember).Return(nil).Once()
	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "USD").Return(&domain.Currency{CurrencyCode: "USD"}, nil).Once()
	suite.mockAccountRepo.On("FindAccountByCode", ctx, suite.organizationID, "1100").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAccountRepo.On("SaveAccount", ctx, mock.MatchedBy(func(acc domain.Account) bool {
		return acc.Code == "1100" && acc.IsActive && acc.AllowManualJournals && acc.Balance.IsZero()
	})).Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, suite.organizationID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(account)
	suite.Equal(suite.organizationID, account.OrganizationID)
	suite.True(account.IsActive)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DuplicateCode() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Code:         "1000",
		Name:         "Cash again",
		AccountType:  domain.Asset,
		CurrencyCode: "USD",
	}

	suite.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, suite.userID, suite.organizationID, domain.RoleMember).Return(nil).Once()
	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "USD").Return(&domain.Currency{CurrencyCode: "USD"}, nil).Once()
	suite.mockAccountRepo.On("FindAccountByCode", ctx, suite.organizationID, "1000").Return(&suite.account, nil).Once()

	account, err := suite.service.CreateAccount(ctx, suite.organizationID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.Nil(account)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_UnknownCurrency() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Code:         "1200",
		Name:         "Petty Cash",
		AccountType:  domain.Asset,
		CurrencyCode: "ZZZ",
	}

	suite.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, suite.userID, suite.organizationID, domain.RoleMember).Return(nil).Once()
	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "ZZZ").Return(nil, apperrors.ErrNotFound).Once()

	account, err := suite.service.CreateAccount(ctx, suite.organizationID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(account)
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_CrossTenantHidden() {
	ctx := context.Background()
	foreign := suite.account
	foreign.OrganizationID = uuid.NewString()

	suite.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, suite.userID, suite.organizationID, domain.RoleReadOnly).Return(nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, foreign.AccountID).Return(&foreign, nil).Once()

	account, err := suite.service.GetAccountByID(ctx, suite.organizationID, foreign.AccountID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(account)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_PartialFields() {
	ctx := context.Background()
	newName := "Cash on Hand"
	disallow := false

	suite.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, suite.userID, suite.organizationID, domain.RoleMember).Return(nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.account.AccountID).Return(&suite.account, nil).Once()
	suite.mockAccountRepo.On("UpdateAccount", ctx, mock.MatchedBy(func(acc domain.Account) bool {
		return acc.Name == newName && !acc.AllowManualJournals && acc.Code == "1000"
	})).Return(nil).Once()

	account, err := suite.service.UpdateAccount(ctx, suite.organizationID, suite.account.AccountID, dto.UpdateAccountRequest{
		Name:                &newName,
		AllowManualJournals: &disallow,
	}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(newName, account.Name)
	suite.False(account.AllowManualJournals)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_Success() {
	ctx := context.Background()

	suite.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, suite.userID, suite.organizationID, domain.RoleAdmin).Return(nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.account.AccountID).Return(&suite.account, nil).Once()
	suite.mockAccountRepo.On("DeactivateAccount", ctx, suite.account.AccountID, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.DeactivateAccount(ctx, suite.organizationID, suite.account.AccountID, suite.userID)

	suite.Require().NoError(err)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_NonZeroBalance() {
	ctx := context.Background()
	funded := suite.account
	funded.Balance = decimal.NewFromInt(500)

	suite.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, suite.userID, suite.organizationID, domain.RoleAdmin).Return(nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, funded.AccountID).Return(&funded, nil).Once()

	err := suite.service.DeactivateAccount(ctx, suite.organizationID, funded.AccountID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "DeactivateAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_SystemAccount() {
	ctx := context.Background()
	system := suite.account
	system.IsSystem = true

	suite.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, suite.userID, suite.organizationID, domain.RoleAdmin).Return(nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, system.AccountID).Return(&system, nil).Once()

	err := suite.service.DeactivateAccount(ctx, suite.organizationID, system.AccountID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "DeactivateAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestListAccounts_DefaultsLimit() {
	ctx := context.Background()

	suite.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, suite.userID, suite.organizationID, domain.RoleReadOnly).Return(nil).Once()
	suite.mockAccountRepo.On("ListAccounts", ctx, suite.organizationID, 20, 0).Return([]domain.Account{suite.account}, nil).Once()

	accounts, err := suite.service.ListAccounts(ctx, suite.organizationID, suite.userID, 0, -3)

	suite.Require().NoError(err)
	suite.Len(accounts, 1)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
