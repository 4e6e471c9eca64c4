package models_test

import (
	"time"

	"github.com/famplan/backend/internal/models"
	"github.com/famplan/backend/internal/types"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestRecurringPaymentValidations() {
	family, _, category := suite.testPlanGraph()

	payment := models.RecurringPayment{
		FamilyID:   family.ID,
		CategoryID: category.ID,
		Name:       "Rent",
		Amount:     decimal.NewFromInt(-950),
		DueDay:     1,
		StartDate:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	err := models.DB.Create(&payment).Error
	suite.Assert().ErrorIs(err, models.ErrAmountNotPositive)

	payment.Amount = decimal.NewFromInt(950)
	payment.DueDay = 32
	err = models.DB.Create(&payment).Error
	suite.Assert().ErrorIs(err, models.ErrDueDayInvalid)
}

func (suite *TestSuiteStandard) TestRecurringPaymentCategoryMustBeInFamily() {
	family, _, _ := suite.testPlanGraph()
	other := suite.createTestFamily(models.Family{})
	foreignCategory := suite.createTestCategory(models.Category{FamilyID: other.ID})

	payment := models.RecurringPayment{
		FamilyID:   family.ID,
		CategoryID: foreignCategory.ID,
		Name:       "Wrong category",
		Amount:     decimal.NewFromInt(10),
		DueDay:     1,
		StartDate:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	err := models.DB.Create(&payment).Error
	suite.Assert().ErrorIs(err, models.ErrCategoryNotInFamily)
}

func (suite *TestSuiteStandard) TestActiveRecurringPayments() {
	family, _, category := suite.testPlanGraph()

	ended := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	_ = suite.createTestRecurringPayment(models.RecurringPayment{
		FamilyID:   family.ID,
		CategoryID: category.ID,
		Name:       "Old gym",
		StartDate:  time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    &ended,
	})

	current := suite.createTestRecurringPayment(models.RecurringPayment{
		FamilyID:   family.ID,
		CategoryID: category.ID,
		Name:       "Electricity",
		StartDate:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})

	_ = suite.createTestRecurringPayment(models.RecurringPayment{
		FamilyID:   family.ID,
		CategoryID: category.ID,
		Name:       "Future insurance",
		StartDate:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})

	payments, err := models.ActiveRecurringPayments(models.DB, family.ID, types.NewMonth(2024, 7))
	suite.Require().Nil(err)
	suite.Require().Len(payments, 1)
	suite.Assert().Equal(current.ID, payments[0].ID)

	// The ended template was still active in 2024-03
	payments, err = models.ActiveRecurringPayments(models.DB, family.ID, types.NewMonth(2024, 3))
	suite.Require().Nil(err)
	suite.Assert().Len(payments, 2)
}

func (suite *TestSuiteStandard) TestActiveRecurringPaymentsStartBoundary() {
	family, _, category := suite.testPlanGraph()

	// Starting on the last day of the month still covers the month
	payment := suite.createTestRecurringPayment(models.RecurringPayment{
		FamilyID:   family.ID,
		CategoryID: category.ID,
		Name:       "New gym",
		StartDate:  time.Date(2024, 7, 31, 0, 0, 0, 0, time.UTC),
	})

	payments, err := models.ActiveRecurringPayments(models.DB, family.ID, types.NewMonth(2024, 7))
	suite.Require().Nil(err)
	suite.Require().Len(payments, 1)
	suite.Assert().Equal(payment.ID, payments[0].ID)

	// The month before the start is not covered
	payments, err = models.ActiveRecurringPayments(models.DB, family.ID, types.NewMonth(2024, 6))
	suite.Require().Nil(err)
	suite.Assert().Len(payments, 0)
}
