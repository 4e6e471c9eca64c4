package v1_test

import (
	"fmt"
	"net/http"

	"github.com/famplan/backend/internal/budget"
	v1 "github.com/famplan/backend/internal/controllers/v1"
	"github.com/famplan/backend/internal/models"
	"github.com/famplan/backend/internal/types"
	"github.com/famplan/backend/test"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestGetBudget() {
	session := suite.registerUser("Doe family")
	category := suite.createTestCategory(session, "Groceries")

	plan := suite.createTestPlan(session, v1.PlanCreateEditable{
		Kind:       models.KindExpense,
		Type:       models.PlanTypeOngoing,
		CategoryID: category.ID,
		Name:       "Groceries",
		StartMonth: types.NewMonth(2024, 1),
		Amount:     decimal.NewFromInt(400),
	})

	amount := decimal.NewFromInt(390)
	r := test.Request(suite.controller, suite.T(), http.MethodPost, fmt.Sprintf("/v1/plans/%s/adjust", plan.ID), v1.ResolveEditable{Year: 2024, Month: 1, Amount: &amount}, test.BearerHeader(session.Token))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	r = test.Request(suite.controller, suite.T(), http.MethodGet, "/v1/budget?year=2024&month=1", "", test.BearerHeader(session.Token))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.BudgetResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Require().NotNil(response.Data)

	suite.Assert().Equal(types.NewMonth(2024, 1), response.Data.Month)
	suite.Require().Len(response.Data.Planned, 1)
	suite.Assert().Equal("Groceries", response.Data.Planned[0].Name)
	suite.Assert().True(response.Data.Planned[0].SpentAmount.Equal(amount))
	suite.Assert().Equal(budget.StatusWarning, response.Data.Planned[0].Status)
	suite.Assert().True(response.Data.TotalPlanned.Equal(decimal.NewFromInt(400)))
	suite.Assert().True(response.Data.TotalSpent.Equal(amount))
}

func (suite *TestSuiteStandard) TestGetBudgetValidation() {
	session := suite.registerUser("Doe family")

	tests := []string{
		"/v1/budget",
		"/v1/budget?year=2024",
		"/v1/budget?month=7",
		"/v1/budget?year=2024&month=13",
	}

	for _, url := range tests {
		r := test.Request(suite.controller, suite.T(), http.MethodGet, url, "", test.BearerHeader(session.Token))
		test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
	}
}
