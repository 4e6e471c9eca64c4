package v1_test

import (
	"fmt"
	"net/http"

	v1 "github.com/famplan/backend/internal/controllers/v1"
	"github.com/famplan/backend/test"
)

func (suite *TestSuiteStandard) TestCategoryCRUD() {
	session := suite.registerUser("Doe family")
	category := suite.createTestCategory(session, "Groceries")

	suite.Assert().Equal("Groceries", category.Name)
	suite.Assert().Equal(session.User.FamilyID, category.FamilyID)

	r := test.Request(suite.controller, suite.T(), http.MethodGet, "/v1/categories", "", test.BearerHeader(session.Token))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var list v1.CategoryListResponse
	test.DecodeResponse(suite.T(), &r, &list)
	suite.Require().Len(list.Data, 1)

	url := fmt.Sprintf("/v1/categories/%s", category.ID)
	r = test.Request(suite.controller, suite.T(), http.MethodGet, url, "", test.BearerHeader(session.Token))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	r = test.Request(suite.controller, suite.T(), http.MethodPatch, url, `{"note": "Everything edible"}`, test.BearerHeader(session.Token))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var updated v1.CategoryResponse
	test.DecodeResponse(suite.T(), &r, &updated)
	suite.Require().NotNil(updated.Data)
	suite.Assert().Equal("Everything edible", updated.Data.Note)
	suite.Assert().Equal("Groceries", updated.Data.Name)

	r = test.Request(suite.controller, suite.T(), http.MethodDelete, url, "", test.BearerHeader(session.Token))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.controller, suite.T(), http.MethodGet, url, "", test.BearerHeader(session.Token))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestCategoryDuplicateName() {
	session := suite.registerUser("Doe family")
	_ = suite.createTestCategory(session, "Groceries")

	r := test.Request(suite.controller, suite.T(), http.MethodPost, "/v1/categories", v1.CategoryEditable{Name: "Groceries"}, test.BearerHeader(session.Token))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusConflict)

	// Another family can use the same name
	other := suite.registerUser("Other family")
	_ = suite.createTestCategory(other, "Groceries")
}

func (suite *TestSuiteStandard) TestCategoryFamilyScoping() {
	session := suite.registerUser("Doe family")
	category := suite.createTestCategory(session, "Groceries")

	other := suite.registerUser("Other family")

	r := test.Request(suite.controller, suite.T(), http.MethodGet, fmt.Sprintf("/v1/categories/%s", category.ID), "", test.BearerHeader(other.Token))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)

	r = test.Request(suite.controller, suite.T(), http.MethodGet, "/v1/categories", "", test.BearerHeader(other.Token))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var list v1.CategoryListResponse
	test.DecodeResponse(suite.T(), &r, &list)
	suite.Assert().Len(list.Data, 0)
}

func (suite *TestSuiteStandard) TestCategoryInvalidID() {
	session := suite.registerUser("Doe family")

	r := test.Request(suite.controller, suite.T(), http.MethodGet, "/v1/categories/definitelyNotAUUID", "", test.BearerHeader(session.Token))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}
