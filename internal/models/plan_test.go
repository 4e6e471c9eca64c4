package models_test

import (
	"github.com/famplan/backend/internal/models"
	"github.com/famplan/backend/internal/types"
)

// testPlanGraph creates the resources a plan depends on.
func (suite *TestSuiteStandard) testPlanGraph() (models.Family, models.User, models.Category) {
	family := suite.createTestFamily(models.Family{})
	user := suite.createTestUser(models.User{FamilyID: family.ID})
	category := suite.createTestCategory(models.Category{FamilyID: family.ID})

	return family, user, category
}

func (suite *TestSuiteStandard) TestOneMonthPlanCoversExactlyOneMonth() {
	family, user, category := suite.testPlanGraph()

	// The end month is forced to the start month, whatever was passed
	end := types.NewMonth(2024, 12)
	plan := suite.createTestPlan(models.Plan{
		FamilyID:    family.ID,
		CategoryID:  category.ID,
		CreatedByID: user.ID,
		Kind:        models.KindExpense,
		Type:        models.PlanTypeOneMonth,
		StartMonth:  types.NewMonth(2024, 7),
		EndMonth:    &end,
	})

	suite.Require().NotNil(plan.EndMonth)
	suite.Assert().True(plan.EndMonth.Equal(types.NewMonth(2024, 7)))
	suite.Assert().True(plan.AppliesTo(types.NewMonth(2024, 7)))
	suite.Assert().False(plan.AppliesTo(types.NewMonth(2024, 8)))
}

func (suite *TestSuiteStandard) TestPlanRangeInvalid() {
	family, user, category := suite.testPlanGraph()

	end := types.NewMonth(2024, 3)
	plan := models.Plan{
		FamilyID:    family.ID,
		CategoryID:  category.ID,
		CreatedByID: user.ID,
		Kind:        models.KindExpense,
		Type:        models.PlanTypeOngoing,
		Name:        "Backwards",
		StartMonth:  types.NewMonth(2024, 7),
		EndMonth:    &end,
	}

	err := models.DB.Create(&plan).Error
	suite.Assert().ErrorIs(err, models.ErrPlanRangeInvalid)
}

func (suite *TestSuiteStandard) TestPlanDueDayValidated() {
	family, user, category := suite.testPlanGraph()

	dueDay := 32
	plan := models.Plan{
		FamilyID:    family.ID,
		CategoryID:  category.ID,
		CreatedByID: user.ID,
		Kind:        models.KindExpense,
		Type:        models.PlanTypeOngoing,
		Name:        "Bad due day",
		StartMonth:  types.NewMonth(2024, 7),
		DueDay:      &dueDay,
	}

	err := models.DB.Create(&plan).Error
	suite.Assert().ErrorIs(err, models.ErrDueDayInvalid)
}

func (suite *TestSuiteStandard) TestPlanCategoryMustBeInFamily() {
	family, user, _ := suite.testPlanGraph()

	other := suite.createTestFamily(models.Family{})
	foreignCategory := suite.createTestCategory(models.Category{FamilyID: other.ID})

	plan := models.Plan{
		FamilyID:    family.ID,
		CategoryID:  foreignCategory.ID,
		CreatedByID: user.ID,
		Kind:        models.KindExpense,
		Type:        models.PlanTypeOngoing,
		Name:        "Wrong category",
		StartMonth:  types.NewMonth(2024, 7),
	}

	err := models.DB.Create(&plan).Error
	suite.Assert().ErrorIs(err, models.ErrCategoryNotInFamily)
}

func (suite *TestSuiteStandard) TestOngoingPlanAppliesTo() {
	family, user, category := suite.testPlanGraph()

	plan := suite.createTestPlan(models.Plan{
		FamilyID:    family.ID,
		CategoryID:  category.ID,
		CreatedByID: user.ID,
		Kind:        models.KindIncome,
		Type:        models.PlanTypeOngoing,
		StartMonth:  types.NewMonth(2024, 7),
	})

	suite.Assert().False(plan.AppliesTo(types.NewMonth(2024, 6)))
	suite.Assert().True(plan.AppliesTo(types.NewMonth(2024, 7)))
	suite.Assert().True(plan.AppliesTo(types.NewMonth(2030, 1)))
}
