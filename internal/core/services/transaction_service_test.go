package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/multicurrency_tracker/internal/apperrors"
	"github.com/SscSPs/multicurrency_tracker/internal/core/domain"
	portssvc "github.com/SscSPs/multicurrency_tracker/internal/core/ports/services"
	"github.com/SscSPs/multicurrency_tracker/internal/core/services"
	"github.com/SscSPs/multicurrency_tracker/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type TransactionServiceTestSuite struct {
	suite.Suite
	store          *fakeRateStore
	txnRepo        *MockTransactionRepository
	instrumentRepo *MockPaymentInstrumentRepository
	userRepo       *MockUserRepository
	service        portssvc.TransactionSvcFacade
	ctx            context.Context
}

func (suite *TransactionServiceTestSuite) SetupTest() {
	seeded := day(2024, time.January, 1)
	suite.store = newFakeRateStore(storedRate("USD", "JPY", "149.5", seeded, seeded))
	suite.txnRepo = new(MockTransactionRepository)
	suite.instrumentRepo = new(MockPaymentInstrumentRepository)
	suite.userRepo = new(MockUserRepository)
	rates := services.NewExchangeRateService(suite.store, services.WithRateClock(fixedClock))
	suite.service = services.NewTransactionService(suite.txnRepo, suite.instrumentRepo, suite.userRepo, rates)
	suite.ctx = context.Background()

	suite.userRepo.On("FindUserByID", suite.ctx, "owner-1").
		Return(&domain.User{UserID: "owner-1", ReportingCurrency: "USD"}, nil).Maybe()
}

func TestTransactionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}

func (suite *TransactionServiceTestSuite) withInstrument(pi domain.PaymentInstrument) {
	suite.instrumentRepo.On("FindPaymentInstrumentByID", suite.ctx, pi.PaymentInstrumentID).Return(&pi, nil).Once()
}

func (suite *TransactionServiceTestSuite) TestCreate_NoRateAndNoOverrideFails() {
	suite.withInstrument(instrument("pi-chf", "CHF"))

	_, err := suite.service.CreateTransaction(suite.ctx, dto.CreateTransactionRequest{
		PaymentInstrumentID: stringPtr("pi-chf"),
		Type:                "EXPENSE",
		NativeAmount:        decPtr("10"),
		TransactionDate:     "2024-03-15",
	}, "owner-1")
	suite.ErrorIs(err, apperrors.ErrRateNotFound)
	suite.txnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestCreate_ManualOverrideIsStored() {
	suite.withInstrument(instrument("pi-chf", "CHF"))
	var saved domain.Transaction
	suite.txnRepo.On("SaveTransaction", suite.ctx, mock.AnythingOfType("domain.Transaction")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(domain.Transaction) }).
		Return(nil).Once()

	txn, err := suite.service.CreateTransaction(suite.ctx, dto.CreateTransactionRequest{
		PaymentInstrumentID: stringPtr("pi-chf"),
		Type:                "EXPENSE",
		NativeAmount:        decPtr("10"),
		ManualRate:          decPtr("1.13"),
		TransactionDate:     "2024-03-15",
	}, "owner-1")
	suite.Require().NoError(err)
	suite.Equal("11.30", txn.Amount.StringFixed(2))
	suite.Require().NotNil(saved.Conversion)
	suite.Equal("1.13", saved.Conversion.ExchangeRateUsed.String())
	suite.Equal("USD", saved.Conversion.ReportingCurrencyAtTime)
	suite.True(saved.Conversion.NativeAmount.Equal(dec("10")))
	suite.Equal(0, suite.store.writes, "a manual override is not written to the rate store")
}

func (suite *TransactionServiceTestSuite) TestCreate_UsesStoredRateAsOfTransactionDate() {
	suite.withInstrument(instrument("pi-jpy", "JPY"))
	suite.txnRepo.On("SaveTransaction", suite.ctx, mock.AnythingOfType("domain.Transaction")).Return(nil).Once()

	txn, err := suite.service.CreateTransaction(suite.ctx, dto.CreateTransactionRequest{
		PaymentInstrumentID: stringPtr("pi-jpy"),
		Type:                "EXPENSE",
		NativeAmount:        decPtr("1000"),
		TransactionDate:     "2024-02-01",
	}, "owner-1")
	suite.Require().NoError(err)
	suite.Equal("0.006689", txn.Conversion.ExchangeRateUsed.String())
	suite.Equal("6.69", txn.Amount.StringFixed(2))
	suite.NoError(txn.Validate())
}

func (suite *TransactionServiceTestSuite) TestCreate_SameCurrencyUsesRateOne() {
	suite.withInstrument(instrument("pi-usd", "USD"))
	suite.txnRepo.On("SaveTransaction", suite.ctx, mock.Anything).Return(nil).Once()

	txn, err := suite.service.CreateTransaction(suite.ctx, dto.CreateTransactionRequest{
		PaymentInstrumentID: stringPtr("pi-usd"),
		Type:                "INCOME",
		NativeAmount:        decPtr("42.5"),
		TransactionDate:     "2024-03-15",
	}, "owner-1")
	suite.Require().NoError(err)
	suite.Equal("42.50", txn.Amount.StringFixed(2))
	suite.True(txn.Conversion.ExchangeRateUsed.Equal(dec("1")))
}

func (suite *TransactionServiceTestSuite) TestCreate_LegacyAlongsideConverted() {
	suite.txnRepo.On("SaveTransaction", suite.ctx, mock.Anything).Return(nil).Twice()
	suite.withInstrument(instrument("pi-usd", "USD"))

	legacy, err := suite.service.CreateTransaction(suite.ctx, dto.CreateTransactionRequest{
		Type:            "EXPENSE",
		Amount:          decPtr("19.999"),
		TransactionDate: "2024-03-01",
	}, "owner-1")
	suite.Require().NoError(err)
	suite.True(legacy.IsLegacy())
	suite.Nil(legacy.Conversion)
	suite.Equal("20.00", legacy.Amount.StringFixed(2))

	converted, err := suite.service.CreateTransaction(suite.ctx, dto.CreateTransactionRequest{
		PaymentInstrumentID: stringPtr("pi-usd"),
		Type:                "EXPENSE",
		NativeAmount:        decPtr("5"),
		TransactionDate:     "2024-03-01",
	}, "owner-1")
	suite.Require().NoError(err)
	suite.False(converted.IsLegacy())
	suite.txnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestCreate_ScopeViolations() {
	_, err := suite.service.CreateTransaction(suite.ctx, dto.CreateTransactionRequest{
		Type:            "EXPENSE",
		Amount:          decPtr("5"),
		NativeAmount:    decPtr("5"),
		TransactionDate: "2024-03-01",
	}, "owner-1")
	suite.ErrorIs(err, apperrors.ErrInvalidScope)

	_, err = suite.service.CreateTransaction(suite.ctx, dto.CreateTransactionRequest{
		PaymentInstrumentID: stringPtr("pi-usd"),
		Type:                "EXPENSE",
		Amount:              decPtr("5"),
		TransactionDate:     "2024-03-01",
	}, "owner-1")
	suite.ErrorIs(err, apperrors.ErrInvalidScope)
}

func (suite *TransactionServiceTestSuite) TestCreate_ForeignInstrumentForbidden() {
	other := instrument("pi-other", "USD")
	other.OwnerID = "someone-else"
	suite.withInstrument(other)

	_, err := suite.service.CreateTransaction(suite.ctx, dto.CreateTransactionRequest{
		PaymentInstrumentID: stringPtr("pi-other"),
		Type:                "EXPENSE",
		NativeAmount:        decPtr("5"),
		TransactionDate:     "2024-03-01",
	}, "owner-1")
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *TransactionServiceTestSuite) TestGetTransaction_ChecksOwner() {
	txn := expense("t1", nil, "5", day(2024, time.March, 1))
	suite.txnRepo.On("FindTransactionByID", suite.ctx, "t1").Return(&txn, nil).Twice()

	got, err := suite.service.GetTransaction(suite.ctx, "t1", "owner-1")
	suite.Require().NoError(err)
	suite.Equal("t1", got.TransactionID)

	_, err = suite.service.GetTransaction(suite.ctx, "t1", "intruder")
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *TransactionServiceTestSuite) TestListTransactions() {
	next := "token-2"
	suite.txnRepo.On("ListTransactionsByOwner", suite.ctx, "owner-1", 20, (*string)(nil)).
		Return([]domain.Transaction{expense("t1", nil, "5", day(2024, time.March, 1))}, &next, nil).Once()

	res, err := suite.service.ListTransactions(suite.ctx, "owner-1", dto.ListTransactionsParams{})
	suite.Require().NoError(err)
	suite.Len(res.Transactions, 1)
	suite.Equal(&next, res.NextToken)
}
