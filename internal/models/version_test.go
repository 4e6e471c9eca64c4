package models_test

import (
	"github.com/famplan/backend/internal/models"
	"github.com/famplan/backend/internal/types"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) versionTestPlan() models.Plan {
	family, user, category := suite.testPlanGraph()

	return suite.createTestPlan(models.Plan{
		FamilyID:    family.ID,
		CategoryID:  category.ID,
		CreatedByID: user.ID,
		Kind:        models.KindExpense,
		Type:        models.PlanTypeOngoing,
		StartMonth:  types.NewMonth(2024, 1),
	})
}

func (suite *TestSuiteStandard) TestVersionOverlapRejected() {
	plan := suite.versionTestPlan()

	_ = suite.createTestPlanVersion(models.PlanVersion{
		PlanID:        plan.ID,
		PlannedAmount: decimal.NewFromInt(100),
		ValidFrom:     types.NewMonth(2024, 1),
	})

	// An unbounded version covers every later month
	overlapping := models.PlanVersion{
		PlanID:        plan.ID,
		PlannedAmount: decimal.NewFromInt(150),
		ValidFrom:     types.NewMonth(2024, 6),
	}
	err := models.DB.Create(&overlapping).Error
	suite.Assert().ErrorIs(err, models.ErrVersionOverlap)
}

func (suite *TestSuiteStandard) TestVersionHandoffAllowed() {
	plan := suite.versionTestPlan()

	// The amendment flow closes the old version exactly where the new
	// one starts. Both boundaries are inclusive, so the ranges touch in
	// that single month.
	boundary := types.NewMonth(2024, 3)
	_ = suite.createTestPlanVersion(models.PlanVersion{
		PlanID:        plan.ID,
		PlannedAmount: decimal.NewFromInt(100),
		ValidFrom:     types.NewMonth(2024, 1),
		ValidTo:       &boundary,
	})

	successor := models.PlanVersion{
		PlanID:        plan.ID,
		PlannedAmount: decimal.NewFromInt(150),
		ValidFrom:     boundary,
	}
	err := models.DB.Create(&successor).Error
	suite.Assert().Nil(err)
}

func (suite *TestSuiteStandard) TestVersionDisjointRangesAllowed() {
	plan := suite.versionTestPlan()

	to := types.NewMonth(2024, 3)
	_ = suite.createTestPlanVersion(models.PlanVersion{
		PlanID:        plan.ID,
		PlannedAmount: decimal.NewFromInt(100),
		ValidFrom:     types.NewMonth(2024, 1),
		ValidTo:       &to,
	})

	later := models.PlanVersion{
		PlanID:        plan.ID,
		PlannedAmount: decimal.NewFromInt(150),
		ValidFrom:     types.NewMonth(2024, 4),
	}
	err := models.DB.Create(&later).Error
	suite.Assert().Nil(err)
}

func (suite *TestSuiteStandard) TestVersionAmountMustBePositive() {
	plan := suite.versionTestPlan()

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-10)} {
		version := models.PlanVersion{
			PlanID:        plan.ID,
			PlannedAmount: amount,
			ValidFrom:     types.NewMonth(2024, 1),
		}
		err := models.DB.Create(&version).Error
		suite.Assert().ErrorIs(err, models.ErrAmountNotPositive)
	}
}

func (suite *TestSuiteStandard) TestVersionRangeInvalid() {
	plan := suite.versionTestPlan()

	to := types.NewMonth(2023, 12)
	version := models.PlanVersion{
		PlanID:        plan.ID,
		PlannedAmount: decimal.NewFromInt(100),
		ValidFrom:     types.NewMonth(2024, 1),
		ValidTo:       &to,
	}

	err := models.DB.Create(&version).Error
	suite.Assert().ErrorIs(err, models.ErrPlanRangeInvalid)
}
