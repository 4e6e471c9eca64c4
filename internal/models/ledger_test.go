package models_test

import (
	"time"

	"github.com/famplan/backend/internal/models"
	"github.com/famplan/backend/internal/types"
	"github.com/shopspring/decimal"
)

type ledgerGraph struct {
	family   models.Family
	user     models.User
	category models.Category
	month    models.Month
}

func (suite *TestSuiteStandard) ledgerTestGraph() ledgerGraph {
	family, user, category := suite.testPlanGraph()
	month := suite.createTestMonth(models.Month{FamilyID: family.ID, Month: types.NewMonth(2024, 7)})

	return ledgerGraph{family: family, user: user, category: category, month: month}
}

func (suite *TestSuiteStandard) TestLedgerEntryClosedMonthRejected() {
	g := suite.ledgerTestGraph()

	err := models.DB.Model(&g.month).Select("IsClosed").Updates(models.Month{IsClosed: true}).Error
	suite.Require().Nil(err)

	entry := models.LedgerEntry{
		Kind:       models.KindExpense,
		MonthID:    g.month.ID,
		UserID:     g.user.ID,
		CategoryID: g.category.ID,
		Amount:     decimal.NewFromInt(10),
	}
	err = models.DB.Create(&entry).Error
	suite.Assert().ErrorIs(err, models.ErrMonthClosed)
}

func (suite *TestSuiteStandard) TestLedgerEntryUpdateDeleteInClosedMonth() {
	g := suite.ledgerTestGraph()

	entry := suite.createTestLedgerEntry(models.LedgerEntry{
		Kind:       models.KindExpense,
		MonthID:    g.month.ID,
		UserID:     g.user.ID,
		CategoryID: g.category.ID,
		Amount:     decimal.NewFromInt(10),
	})

	err := models.DB.Model(&g.month).Select("IsClosed").Updates(models.Month{IsClosed: true}).Error
	suite.Require().Nil(err)

	err = models.DB.Model(&entry).Updates(models.LedgerEntry{Description: "too late"}).Error
	suite.Assert().ErrorIs(err, models.ErrMonthClosed)

	err = models.DB.Delete(&entry).Error
	suite.Assert().ErrorIs(err, models.ErrMonthClosed)
}

func (suite *TestSuiteStandard) TestLedgerEntryAmountMustBePositive() {
	g := suite.ledgerTestGraph()

	entry := models.LedgerEntry{
		Kind:       models.KindExpense,
		MonthID:    g.month.ID,
		UserID:     g.user.ID,
		CategoryID: g.category.ID,
		Amount:     decimal.NewFromInt(-5),
	}
	err := models.DB.Create(&entry).Error
	suite.Assert().ErrorIs(err, models.ErrAmountNotPositive)
}

func (suite *TestSuiteStandard) TestResolutionUniquePerPlanAndMonth() {
	g := suite.ledgerTestGraph()

	plan := suite.createTestPlan(models.Plan{
		FamilyID:    g.family.ID,
		CategoryID:  g.category.ID,
		CreatedByID: g.user.ID,
		Kind:        models.KindExpense,
		Type:        models.PlanTypeOngoing,
		StartMonth:  types.NewMonth(2024, 1),
	})

	entry := models.LedgerEntry{
		Kind:       models.KindExpense,
		MonthID:    g.month.ID,
		UserID:     g.user.ID,
		CategoryID: g.category.ID,
		PlanID:     &plan.ID,
		Amount:     decimal.NewFromInt(100),
	}
	suite.Require().Nil(models.DB.Create(&entry).Error)

	duplicate := models.LedgerEntry{
		Kind:       models.KindExpense,
		MonthID:    g.month.ID,
		UserID:     g.user.ID,
		CategoryID: g.category.ID,
		PlanID:     &plan.ID,
		Amount:     decimal.NewFromInt(100),
	}
	err := models.DB.Create(&duplicate).Error
	suite.Assert().ErrorIs(err, models.ErrPlanAlreadyResolved)

	// Multiple entries without a plan link in the same month are fine
	for i := 0; i < 2; i++ {
		free := models.LedgerEntry{
			Kind:       models.KindExpense,
			MonthID:    g.month.ID,
			UserID:     g.user.ID,
			CategoryID: g.category.ID,
			Amount:     decimal.NewFromInt(5),
		}
		suite.Assert().Nil(models.DB.Create(&free).Error)
	}
}

func (suite *TestSuiteStandard) TestPlanLinkedEntryConsistency() {
	g := suite.ledgerTestGraph()

	plan := suite.createTestPlan(models.Plan{
		FamilyID:    g.family.ID,
		CategoryID:  g.category.ID,
		CreatedByID: g.user.ID,
		Kind:        models.KindExpense,
		Type:        models.PlanTypeOngoing,
		StartMonth:  types.NewMonth(2024, 1),
	})

	// Kind must match the plan
	wrongKind := models.LedgerEntry{
		Kind:       models.KindIncome,
		MonthID:    g.month.ID,
		UserID:     g.user.ID,
		CategoryID: g.category.ID,
		PlanID:     &plan.ID,
		Amount:     decimal.NewFromInt(100),
	}
	err := models.DB.Create(&wrongKind).Error
	suite.Assert().ErrorIs(err, models.ErrKindMismatch)

	// Category must match the plan
	otherCategory := suite.createTestCategory(models.Category{FamilyID: g.family.ID})
	wrongCategory := models.LedgerEntry{
		Kind:       models.KindExpense,
		MonthID:    g.month.ID,
		UserID:     g.user.ID,
		CategoryID: otherCategory.ID,
		PlanID:     &plan.ID,
		Amount:     decimal.NewFromInt(100),
	}
	err = models.DB.Create(&wrongCategory).Error
	suite.Assert().ErrorIs(err, models.ErrCategoryMismatch)
}

func (suite *TestSuiteStandard) TestLedgerEntryDateDefaultsAndUTC() {
	g := suite.ledgerTestGraph()

	entry := suite.createTestLedgerEntry(models.LedgerEntry{
		Kind:       models.KindExpense,
		MonthID:    g.month.ID,
		UserID:     g.user.ID,
		CategoryID: g.category.ID,
		Amount:     decimal.NewFromInt(10),
	})
	suite.Assert().False(entry.Date.IsZero())

	berlin, err := time.LoadLocation("Europe/Berlin")
	suite.Require().Nil(err)

	withDate := suite.createTestLedgerEntry(models.LedgerEntry{
		Kind:       models.KindExpense,
		MonthID:    g.month.ID,
		UserID:     g.user.ID,
		CategoryID: g.category.ID,
		Amount:     decimal.NewFromInt(10),
		Date:       time.Date(2024, 7, 15, 12, 0, 0, 0, berlin),
	})
	suite.Assert().Equal(time.UTC, withDate.Date.Location())
}

func (suite *TestSuiteStandard) TestLedgerSums() {
	g := suite.ledgerTestGraph()

	plan := suite.createTestPlan(models.Plan{
		FamilyID:    g.family.ID,
		CategoryID:  g.category.ID,
		CreatedByID: g.user.ID,
		Kind:        models.KindExpense,
		Type:        models.PlanTypeOngoing,
		StartMonth:  types.NewMonth(2024, 1),
	})

	_ = suite.createTestLedgerEntry(models.LedgerEntry{
		Kind: models.KindExpense, MonthID: g.month.ID, UserID: g.user.ID,
		CategoryID: g.category.ID, PlanID: &plan.ID, Amount: decimal.NewFromInt(100),
	})
	_ = suite.createTestLedgerEntry(models.LedgerEntry{
		Kind: models.KindExpense, MonthID: g.month.ID, UserID: g.user.ID,
		CategoryID: g.category.ID, Amount: decimal.NewFromFloat(17.32),
	})
	_ = suite.createTestLedgerEntry(models.LedgerEntry{
		Kind: models.KindIncome, MonthID: g.month.ID, UserID: g.user.ID,
		CategoryID: g.category.ID, Amount: decimal.NewFromInt(3000),
	})

	sum, err := models.LedgerSum(models.DB, models.LedgerEntry{Kind: models.KindExpense, MonthID: g.month.ID})
	suite.Require().Nil(err)
	suite.Assert().True(sum.Equal(decimal.NewFromFloat(117.32)), "expense sum is %s", sum)

	unplanned, err := models.UnplannedTotal(models.DB, g.month.ID, models.KindExpense)
	suite.Require().Nil(err)
	suite.Assert().True(unplanned.Equal(decimal.NewFromFloat(17.32)), "unplanned total is %s", unplanned)
}
