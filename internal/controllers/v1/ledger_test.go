package v1_test

import (
	"fmt"
	"net/http"
	"time"

	v1 "github.com/famplan/backend/internal/controllers/v1"
	"github.com/famplan/backend/internal/models"
	"github.com/famplan/backend/internal/types"
	"github.com/famplan/backend/test"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestLedgerEntryCreate() {
	session := suite.registerUser("Doe family")
	category := suite.createTestCategory(session, "Groceries")

	entry := suite.createTestLedgerEntry(session, v1.LedgerEntryEditable{
		Kind:        models.KindExpense,
		CategoryID:  category.ID,
		Amount:      decimal.RequireFromString("42.12"),
		Date:        time.Date(2024, 7, 12, 0, 0, 0, 0, time.UTC),
		Description: "Weekly groceries",
	})

	suite.Assert().Equal(session.User.ID, entry.UserID)
	suite.Assert().True(entry.Amount.Equal(decimal.RequireFromString("42.12")))

	// The month was created from the date
	var month models.Month
	suite.Require().Nil(models.DB.First(&month, entry.MonthID).Error)
	suite.Assert().Equal(types.NewMonth(2024, 7), month.Month)
}

func (suite *TestSuiteStandard) TestLedgerEntryCreateInvalid() {
	session := suite.registerUser("Doe family")
	category := suite.createTestCategory(session, "Groceries")

	// Invalid kind
	r := test.Request(suite.controller, suite.T(), http.MethodPost, "/v1/ledger", v1.LedgerEntryEditable{
		Kind:       "SOMETHING",
		CategoryID: category.ID,
		Amount:     decimal.NewFromInt(10),
	}, test.BearerHeader(session.Token))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	// Amount must be positive
	r = test.Request(suite.controller, suite.T(), http.MethodPost, "/v1/ledger", v1.LedgerEntryEditable{
		Kind:       models.KindExpense,
		CategoryID: category.ID,
		Amount:     decimal.NewFromInt(-10),
	}, test.BearerHeader(session.Token))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestLedgerEntryFilters() {
	session := suite.registerUser("Doe family")
	groceries := suite.createTestCategory(session, "Groceries")
	salary := suite.createTestCategory(session, "Salary")

	_ = suite.createTestLedgerEntry(session, v1.LedgerEntryEditable{
		Kind: models.KindExpense, CategoryID: groceries.ID,
		Amount: decimal.NewFromInt(50), Date: time.Date(2024, 7, 3, 0, 0, 0, 0, time.UTC),
	})
	_ = suite.createTestLedgerEntry(session, v1.LedgerEntryEditable{
		Kind: models.KindExpense, CategoryID: groceries.ID,
		Amount: decimal.NewFromInt(30), Date: time.Date(2024, 8, 5, 0, 0, 0, 0, time.UTC),
	})
	_ = suite.createTestLedgerEntry(session, v1.LedgerEntryEditable{
		Kind: models.KindIncome, CategoryID: salary.ID,
		Amount: decimal.NewFromInt(3000), Date: time.Date(2024, 7, 28, 0, 0, 0, 0, time.UTC),
	})

	tests := []struct {
		query string
		count int
	}{
		{"", 3},
		{"?kind=EXPENSE", 2},
		{"?kind=INCOME", 1},
		{"?year=2024&month=7", 2},
		{"?kind=EXPENSE&year=2024&month=7", 1},
		{fmt.Sprintf("?category=%s", groceries.ID), 2},
		{"?year=2024&month=12", 0},
	}

	for _, tt := range tests {
		r := test.Request(suite.controller, suite.T(), http.MethodGet, "/v1/ledger"+tt.query, "", test.BearerHeader(session.Token))
		test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

		var list v1.LedgerEntryListResponse
		test.DecodeResponse(suite.T(), &r, &list)
		suite.Assert().Len(list.Data, tt.count, "wrong number of entries for query %q", tt.query)
	}

	// Invalid kind parameter
	r := test.Request(suite.controller, suite.T(), http.MethodGet, "/v1/ledger?kind=SOMETHING", "", test.BearerHeader(session.Token))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestLedgerEntryUpdateMovesMonth() {
	session := suite.registerUser("Doe family")
	category := suite.createTestCategory(session, "Groceries")

	entry := suite.createTestLedgerEntry(session, v1.LedgerEntryEditable{
		Kind: models.KindExpense, CategoryID: category.ID,
		Amount: decimal.NewFromInt(50), Date: time.Date(2024, 7, 3, 0, 0, 0, 0, time.UTC),
	})

	url := fmt.Sprintf("/v1/ledger/%s", entry.ID)
	r := test.Request(suite.controller, suite.T(), http.MethodPatch, url, `{"date": "2024-08-03T00:00:00Z"}`, test.BearerHeader(session.Token))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.LedgerEntryResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Require().NotNil(response.Data)
	suite.Assert().NotEqual(entry.MonthID, response.Data.MonthID)

	var month models.Month
	suite.Require().Nil(models.DB.First(&month, response.Data.MonthID).Error)
	suite.Assert().Equal(types.NewMonth(2024, 8), month.Month)
}

func (suite *TestSuiteStandard) TestLedgerEntryUpdateAmount() {
	session := suite.registerUser("Doe family")
	category := suite.createTestCategory(session, "Groceries")

	entry := suite.createTestLedgerEntry(session, v1.LedgerEntryEditable{
		Kind: models.KindExpense, CategoryID: category.ID,
		Amount: decimal.NewFromInt(50), Date: time.Date(2024, 7, 3, 0, 0, 0, 0, time.UTC),
	})

	url := fmt.Sprintf("/v1/ledger/%s", entry.ID)
	r := test.Request(suite.controller, suite.T(), http.MethodPatch, url, `{"amount": "14.50"}`, test.BearerHeader(session.Token))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var reloaded models.LedgerEntry
	suite.Require().Nil(models.DB.First(&reloaded, entry.ID).Error)
	suite.Assert().True(reloaded.Amount.Equal(decimal.RequireFromString("14.50")))
}

func (suite *TestSuiteStandard) TestLedgerEntryDelete() {
	session := suite.registerUser("Doe family")
	category := suite.createTestCategory(session, "Groceries")

	entry := suite.createTestLedgerEntry(session, v1.LedgerEntryEditable{
		Kind: models.KindExpense, CategoryID: category.ID,
		Amount: decimal.NewFromInt(50), Date: time.Date(2024, 7, 3, 0, 0, 0, 0, time.UTC),
	})

	url := fmt.Sprintf("/v1/ledger/%s", entry.ID)
	r := test.Request(suite.controller, suite.T(), http.MethodDelete, url, "", test.BearerHeader(session.Token))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.controller, suite.T(), http.MethodGet, url, "", test.BearerHeader(session.Token))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestLedgerEntryFamilyScoping() {
	session := suite.registerUser("Doe family")
	category := suite.createTestCategory(session, "Groceries")

	entry := suite.createTestLedgerEntry(session, v1.LedgerEntryEditable{
		Kind: models.KindExpense, CategoryID: category.ID,
		Amount: decimal.NewFromInt(50), Date: time.Date(2024, 7, 3, 0, 0, 0, 0, time.UTC),
	})

	other := suite.registerUser("Other family")

	r := test.Request(suite.controller, suite.T(), http.MethodGet, fmt.Sprintf("/v1/ledger/%s", entry.ID), "", test.BearerHeader(other.Token))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)

	r = test.Request(suite.controller, suite.T(), http.MethodGet, "/v1/ledger", "", test.BearerHeader(other.Token))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var list v1.LedgerEntryListResponse
	test.DecodeResponse(suite.T(), &r, &list)
	suite.Assert().Len(list.Data, 0)
}
