// Package budget computes the per-month financial status report of a
// family: recurring payments, one-month plans, ongoing plans and
// unplanned spend, each classified against configurable thresholds.
package budget

import (
	"github.com/famplan/backend/internal/models"
	"github.com/famplan/backend/internal/planner"
	"github.com/famplan/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	StatusOK      = "ok"
	StatusWarning = "warning"
	StatusOver    = "over"
)

// Thresholds are the spent/planned ratios at which a line item changes
// status. They come from configuration, not from code.
type Thresholds struct {
	Warning decimal.Decimal
	Over    decimal.Decimal
}

// Classify derives the status of a planned/spent pair.
//
// A zero planned amount is always "ok": without a plan there is
// nothing to exceed.
func (t Thresholds) Classify(planned, spent decimal.Decimal) (status string, ratio, remaining decimal.Decimal) {
	if planned.IsZero() {
		return StatusOK, decimal.Zero, planned
	}

	ratio = spent.Div(planned)
	remaining = planned.Sub(spent)

	switch {
	case ratio.GreaterThanOrEqual(t.Over):
		return StatusOver, ratio, remaining
	case ratio.GreaterThanOrEqual(t.Warning):
		return StatusWarning, ratio, remaining
	}

	return StatusOK, ratio, remaining
}

// LineItem is one row of the budget report.
type LineItem struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	CategoryID      uuid.UUID       `json:"categoryId"`
	Source          string          `json:"source" example:"recurring"` // recurring, oneMonth or ongoing
	PlannedAmount   decimal.Decimal `json:"plannedAmount"`
	SpentAmount     decimal.Decimal `json:"spentAmount"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
	PercentageUsed  decimal.Decimal `json:"percentageUsed"`
	Status          string          `json:"status" example:"warning"`
}

// Report is the full per-month budget summary. The income group is
// informational: income lines never count into the spend totals or the
// overall status.
type Report struct {
	Month           types.Month     `json:"month"`
	IsClosed        bool            `json:"isClosed"`
	Status          string          `json:"status"`
	PercentageUsed  decimal.Decimal `json:"percentageUsed"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
	Recurring       []LineItem      `json:"recurring"`
	Planned         []LineItem      `json:"planned"`
	Income          []LineItem      `json:"income"`
	UnplannedTotal  decimal.Decimal `json:"unplannedTotal"`
	TotalPlanned    decimal.Decimal `json:"totalPlanned"`
	TotalSpent      decimal.Decimal `json:"totalSpent"`
}

// Builder builds budget reports.
type Builder struct {
	db         *gorm.DB
	planner    *planner.Planner
	thresholds Thresholds
}

// New returns a new Builder.
func New(db *gorm.DB, p *planner.Planner, thresholds Thresholds) *Builder {
	return &Builder{db: db, planner: p, thresholds: thresholds}
}

// Build computes the budget report for a family and month. The month
// resource is created on first reference.
func (b *Builder) Build(familyID uuid.UUID, month types.Month) (Report, error) {
	monthResource, err := models.GetOrCreateMonth(b.db, familyID, month)
	if err != nil {
		return Report{}, err
	}

	recurring, err := b.recurringItems(familyID, monthResource)
	if err != nil {
		return Report{}, err
	}

	oneMonth, err := b.planItems(familyID, monthResource, models.KindExpense, models.PlanTypeOneMonth)
	if err != nil {
		return Report{}, err
	}

	ongoing, err := b.planItems(familyID, monthResource, models.KindExpense, models.PlanTypeOngoing)
	if err != nil {
		return Report{}, err
	}

	planned := append(oneMonth, ongoing...)

	incomeOneMonth, err := b.planItems(familyID, monthResource, models.KindIncome, models.PlanTypeOneMonth)
	if err != nil {
		return Report{}, err
	}

	incomeOngoing, err := b.planItems(familyID, monthResource, models.KindIncome, models.PlanTypeOngoing)
	if err != nil {
		return Report{}, err
	}

	income := append(incomeOneMonth, incomeOngoing...)

	unplanned, err := models.UnplannedTotal(b.db, monthResource.ID, models.KindExpense)
	if err != nil {
		return Report{}, err
	}

	totalPlanned := decimal.Zero
	totalSpent := unplanned
	for _, item := range recurring {
		totalPlanned = totalPlanned.Add(item.PlannedAmount)
		totalSpent = totalSpent.Add(item.SpentAmount)
	}
	for _, item := range planned {
		totalPlanned = totalPlanned.Add(item.PlannedAmount)
		totalSpent = totalSpent.Add(item.SpentAmount)
	}

	status, ratio, remaining := b.thresholds.Classify(totalPlanned, totalSpent)

	return Report{
		Month:           month,
		IsClosed:        monthResource.IsClosed,
		Status:          status,
		PercentageUsed:  ratio.Mul(decimal.NewFromInt(100)).Round(2),
		RemainingAmount: remaining,
		Recurring:       recurring,
		Planned:         planned,
		Income:          income,
		UnplannedTotal:  unplanned,
		TotalPlanned:    totalPlanned,
		TotalSpent:      totalSpent,
	}, nil
}

// recurringItems builds one line per active recurring payment template
// covering the month. Spend is matched by the template link on the
// generated entries.
func (b *Builder) recurringItems(familyID uuid.UUID, month models.Month) ([]LineItem, error) {
	payments, err := models.ActiveRecurringPayments(b.db, familyID, month.Month)
	if err != nil {
		return nil, err
	}

	items := make([]LineItem, 0, len(payments))
	for _, payment := range payments {
		spent, err := models.LedgerSum(b.db, models.LedgerEntry{
			Kind:               models.KindExpense,
			MonthID:            month.ID,
			RecurringPaymentID: &payment.ID,
		})
		if err != nil {
			return nil, err
		}

		items = append(items, b.newItem(payment.ID, payment.Name, payment.CategoryID, "recurring", payment.Amount, spent))
	}

	return items, nil
}

// planItems builds one line per active plan of the given kind and type
// covering the month. Plans without a version for the month are
// skipped.
//
// One-month plans match spend by the plan link on their resolved
// entries. Ongoing expense plans match spend by category: every
// expense of the plan's category counts, whether or not it was created
// through the plan. This mirrors the historical reporting behavior.
// Income plans always match by plan link.
func (b *Builder) planItems(familyID uuid.UUID, month models.Month, kind models.Kind, planType models.PlanType) ([]LineItem, error) {
	var plans []models.Plan
	err := b.db.
		Where(&models.Plan{FamilyID: familyID, Kind: kind, Type: planType, Active: true}).
		Where("start_month < date(?)", month.Month.AddDate(0, 1)).
		Where("end_month IS NULL OR end_month >= date(?)", month.Month).
		Order("created_at ASC").
		Find(&plans).Error
	if err != nil {
		return nil, err
	}

	source := "oneMonth"
	if planType == models.PlanTypeOngoing {
		source = "ongoing"
	}

	items := make([]LineItem, 0, len(plans))
	for _, plan := range plans {
		version, err := b.planner.VersionForMonth(plan, month.Month)
		if err != nil {
			return nil, err
		}
		if version == nil {
			continue
		}

		filter := models.LedgerEntry{
			Kind:    kind,
			MonthID: month.ID,
		}
		if kind == models.KindExpense && planType == models.PlanTypeOngoing {
			filter.CategoryID = plan.CategoryID
		} else {
			filter.PlanID = &plan.ID
		}

		spent, err := models.LedgerSum(b.db, filter)
		if err != nil {
			return nil, err
		}

		items = append(items, b.newItem(plan.ID, plan.Name, plan.CategoryID, source, version.PlannedAmount, spent))
	}

	return items, nil
}

func (b *Builder) newItem(id uuid.UUID, name string, categoryID uuid.UUID, source string, planned, spent decimal.Decimal) LineItem {
	status, ratio, remaining := b.thresholds.Classify(planned, spent)

	return LineItem{
		ID:              id,
		Name:            name,
		CategoryID:      categoryID,
		Source:          source,
		PlannedAmount:   planned,
		SpentAmount:     spent,
		RemainingAmount: remaining,
		PercentageUsed:  ratio.Mul(decimal.NewFromInt(100)).Round(2),
		Status:          status,
	}
}
