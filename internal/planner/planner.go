// Package planner implements the plan/version engine: creating and
// amending plans, tracking their versioned amounts and resolving them
// into ledger entries month by month.
package planner

import (
	"errors"
	"time"

	"github.com/famplan/backend/internal/models"
	"github.com/famplan/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Status is the state of a (plan, month) pair.
type Status string

const (
	StatusPending        Status = "PENDING"
	StatusResolved       Status = "RESOLVED"
	StatusMissingVersion Status = "MISSING_VERSION"
)

// Planner is the plan/version engine. The clock is injected so that
// "no retroactive plans" is testable.
type Planner struct {
	db  *gorm.DB
	now func() time.Time
}

// New returns a new Planner. A nil clock falls back to time.Now.
func New(db *gorm.DB, now func() time.Time) *Planner {
	if now == nil {
		now = time.Now
	}

	return &Planner{db: db, now: now}
}

// CreatePlanParams are the values needed to create a plan.
type CreatePlanParams struct {
	FamilyID      uuid.UUID
	CategoryID    uuid.UUID
	CreatedByID   uuid.UUID
	Kind          models.Kind
	Type          models.PlanType
	Name          string
	StartMonth    types.Month
	EndMonth      *types.Month
	DueDay        *int
	InitialAmount decimal.Decimal
}

// CreatePlan creates a plan and, atomically with it, its first version
// valid from the start month with no end.
func (p *Planner) CreatePlan(params CreatePlanParams) (models.Plan, error) {
	if !params.Kind.Valid() {
		return models.Plan{}, models.ErrKindInvalid
	}

	if !params.Type.Valid() {
		return models.Plan{}, models.ErrPlanTypeInvalid
	}

	if params.StartMonth.Before(types.MonthOf(p.now())) {
		return models.Plan{}, models.ErrPlanStartInPast
	}

	if !params.InitialAmount.IsPositive() {
		return models.Plan{}, models.ErrAmountNotPositive
	}

	plan := models.Plan{
		FamilyID:    params.FamilyID,
		CategoryID:  params.CategoryID,
		CreatedByID: params.CreatedByID,
		Kind:        params.Kind,
		Type:        params.Type,
		Name:        params.Name,
		StartMonth:  params.StartMonth,
		EndMonth:    params.EndMonth,
		DueDay:      params.DueDay,
		Active:      true,
	}

	err := p.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Create(&plan).Error
		if err != nil {
			return err
		}

		version := models.PlanVersion{
			PlanID:        plan.ID,
			PlannedAmount: params.InitialAmount.Round(2),
			ValidFrom:     plan.StartMonth,
		}

		return tx.Create(&version).Error
	})
	if err != nil {
		return models.Plan{}, err
	}

	return plan, nil
}

// AmendPlanParams are the updatable plan fields. Nil pointers leave
// the field unchanged.
type AmendPlanParams struct {
	Name          *string
	EndMonth      *types.Month
	ClearEndMonth bool
	DueDay        *int
	NewAmount     *decimal.Decimal

	// EffectiveFrom is the boundary at which a new amount takes over.
	// When nil, the plan's start month is used, matching the
	// historical amendment behavior.
	EffectiveFrom *types.Month
}

// AmendPlan updates mutable plan fields. When a new amount is given,
// the latest version is closed at the boundary and a new unbounded
// version is opened there, preserving the amount history.
//
// Amendments are refused while a closed month lies inside the plan's
// old or new range.
func (p *Planner) AmendPlan(planID, familyID uuid.UUID, params AmendPlanParams) (models.Plan, error) {
	plan, err := p.getPlan(planID, familyID)
	if err != nil {
		return models.Plan{}, err
	}

	oldRange := plan.Range()

	if params.Name != nil {
		plan.Name = *params.Name
	}
	if params.DueDay != nil {
		plan.DueDay = params.DueDay
	}
	if params.ClearEndMonth {
		plan.EndMonth = nil
	} else if params.EndMonth != nil {
		plan.EndMonth = params.EndMonth
	}

	if !plan.Range().Valid() {
		return models.Plan{}, models.ErrPlanRangeInvalid
	}

	for _, r := range []types.MonthRange{oldRange, plan.Range()} {
		closed, err := models.AnyClosedMonthInRange(p.db, familyID, r)
		if err != nil {
			return models.Plan{}, err
		}
		if closed {
			return models.Plan{}, models.ErrMonthClosed
		}
	}

	err = p.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Save(&plan).Error
		if err != nil {
			return err
		}

		if params.NewAmount == nil {
			return nil
		}

		if !params.NewAmount.IsPositive() {
			return models.ErrAmountNotPositive
		}

		boundary := plan.StartMonth
		if params.EffectiveFrom != nil {
			boundary = *params.EffectiveFrom
		}

		// Close the most recent version at the boundary
		var latest models.PlanVersion
		err = tx.
			Where(&models.PlanVersion{PlanID: plan.ID}).
			Order("valid_from DESC, created_at DESC").
			First(&latest).Error
		if err != nil && !errors.Is(err, models.ErrResourceNotFound) {
			return err
		}

		if err == nil {
			latest.ValidTo = &boundary
			err = tx.Save(&latest).Error
			if err != nil {
				return err
			}
		}

		version := models.PlanVersion{
			PlanID:        plan.ID,
			PlannedAmount: params.NewAmount.Round(2),
			ValidFrom:     boundary,
		}

		return tx.Create(&version).Error
	})
	if err != nil {
		return models.Plan{}, err
	}

	return plan, nil
}

// Deactivate excludes the plan from future resolution. Existing ledger
// entries and versions are untouched.
func (p *Planner) Deactivate(planID, familyID uuid.UUID) (models.Plan, error) {
	return p.setActive(planID, familyID, false)
}

// Reactivate re-enables a deactivated plan.
func (p *Planner) Reactivate(planID, familyID uuid.UUID) (models.Plan, error) {
	return p.setActive(planID, familyID, true)
}

func (p *Planner) setActive(planID, familyID uuid.UUID, active bool) (models.Plan, error) {
	plan, err := p.getPlan(planID, familyID)
	if err != nil {
		return models.Plan{}, err
	}

	err = p.db.Model(&plan).Select("Active").Updates(models.Plan{Active: active}).Error
	if err != nil {
		return models.Plan{}, err
	}

	return plan, nil
}

// DeletePlan deletes a plan and its versions. Ledger entries that
// reference the plan keep existing, with the plan link cleared.
// Deletion is refused while a closed month lies inside the plan range.
func (p *Planner) DeletePlan(planID, familyID uuid.UUID) error {
	plan, err := p.getPlan(planID, familyID)
	if err != nil {
		return err
	}

	closed, err := models.AnyClosedMonthInRange(p.db, familyID, plan.Range())
	if err != nil {
		return err
	}
	if closed {
		return models.ErrMonthClosed
	}

	return p.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.LedgerEntry{}).
			Where("plan_id = ?", plan.ID).
			Session(&gorm.Session{SkipHooks: true}).
			Update("plan_id", nil).Error
		if err != nil {
			return err
		}

		err = tx.Where(&models.PlanVersion{PlanID: plan.ID}).Delete(&models.PlanVersion{}).Error
		if err != nil {
			return err
		}

		return tx.Delete(&plan).Error
	})
}

// VersionForMonth returns the version whose validity range contains
// the month, or nil when no version covers it.
//
// When the amend handoff leaves two versions touching at the boundary
// month, the latest valid_from wins, tie-broken by creation time.
func (p *Planner) VersionForMonth(plan models.Plan, month types.Month) (*models.PlanVersion, error) {
	var version models.PlanVersion

	err := p.db.
		Where(&models.PlanVersion{PlanID: plan.ID}).
		Where("valid_from < date(?)", month.AddDate(0, 1)).
		Where("valid_to IS NULL OR valid_to >= date(?)", month).
		Order("valid_from DESC, created_at DESC").
		First(&version).Error
	if err != nil {
		if errors.Is(err, models.ErrResourceNotFound) || errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &version, nil
}

// MonthStatus computes the resolution state of a plan for a month.
// The caller must have checked that the plan applies to the month.
func (p *Planner) MonthStatus(plan models.Plan, month models.Month) (Status, *models.LedgerEntry, *models.PlanVersion, error) {
	version, err := p.VersionForMonth(plan, month.Month)
	if err != nil {
		return "", nil, nil, err
	}

	var entries []models.LedgerEntry
	err = p.db.
		Where("month_id = ? AND plan_id = ?", month.ID, plan.ID).
		Order("created_at DESC").
		Limit(1).
		Find(&entries).Error
	if err != nil {
		return "", nil, nil, err
	}

	if len(entries) > 0 {
		return StatusResolved, &entries[0], version, nil
	}

	if version != nil {
		return StatusPending, nil, version, nil
	}

	return StatusMissingVersion, nil, nil, nil
}

// PlanMonthStatus is one line of a per-month plan status listing.
type PlanMonthStatus struct {
	Plan          models.Plan
	Version       *models.PlanVersion
	Status        Status
	CanResolve    bool
	ResolvedEntry *models.LedgerEntry
}

// MonthStatusList is the result of StatusForMonth.
type MonthStatusList struct {
	Month   models.Month
	Results []PlanMonthStatus
}

// StatusForMonth lists all active plans of the family and kind that
// apply to the month, with their resolution state. Plans whose range
// does not cover the month are excluded entirely.
func (p *Planner) StatusForMonth(familyID uuid.UUID, kind models.Kind, month types.Month) (MonthStatusList, error) {
	monthResource, err := models.GetOrCreateMonth(p.db, familyID, month)
	if err != nil {
		return MonthStatusList{}, err
	}

	var plans []models.Plan
	err = p.db.
		Where(&models.Plan{FamilyID: familyID, Kind: kind, Active: true}).
		Where("start_month < date(?)", month.AddDate(0, 1)).
		Where("end_month IS NULL OR end_month >= date(?)", month).
		Order("created_at DESC").
		Find(&plans).Error
	if err != nil {
		return MonthStatusList{}, err
	}

	list := MonthStatusList{Month: monthResource, Results: make([]PlanMonthStatus, 0, len(plans))}
	for _, plan := range plans {
		status, entry, version, err := p.MonthStatus(plan, monthResource)
		if err != nil {
			return MonthStatusList{}, err
		}

		list.Results = append(list.Results, PlanMonthStatus{
			Plan:          plan,
			Version:       version,
			Status:        status,
			CanResolve:    !monthResource.IsClosed && version != nil && entry == nil,
			ResolvedEntry: entry,
		})
	}

	return list, nil
}

// ResolveParams are the values needed to resolve a plan for a month.
type ResolveParams struct {
	Month       types.Month
	UserID      uuid.UUID
	Description string

	// Amount overrides the version's planned amount (adjust). When
	// nil, the planned amount is used as-is (confirm).
	Amount *decimal.Decimal

	// Date overrides the default due date. Must fall within the
	// target month.
	Date *time.Time
}

// Resolve materializes a plan for a month into exactly one ledger
// entry. A second resolution for the same (plan, month) fails with
// ErrPlanAlreadyResolved, regardless of whether it loses against a
// pre-existing entry or against a concurrent transaction: the unique
// index on (month, plan) decides races, and the constraint violation
// is converted to the same error.
func (p *Planner) Resolve(planID, familyID uuid.UUID, params ResolveParams) (models.LedgerEntry, error) {
	plan, err := p.getPlan(planID, familyID)
	if err != nil {
		return models.LedgerEntry{}, err
	}

	if !plan.Active {
		return models.LedgerEntry{}, models.ErrPlanNotActive
	}

	if !plan.AppliesTo(params.Month) {
		return models.LedgerEntry{}, models.ErrPlanNotApplicable
	}

	monthResource, err := models.GetOrCreateMonth(p.db, familyID, params.Month)
	if err != nil {
		return models.LedgerEntry{}, err
	}

	if monthResource.IsClosed {
		return models.LedgerEntry{}, models.ErrMonthClosed
	}

	version, err := p.VersionForMonth(plan, params.Month)
	if err != nil {
		return models.LedgerEntry{}, err
	}
	if version == nil {
		return models.LedgerEntry{}, models.ErrNoVersionForMonth
	}

	amount := version.PlannedAmount
	if params.Amount != nil {
		if !params.Amount.IsPositive() {
			return models.LedgerEntry{}, models.ErrAmountNotPositive
		}
		amount = params.Amount.Round(2)
	}

	date := p.resolutionDate(plan, params.Month)
	if params.Date != nil {
		if !params.Month.Contains(*params.Date) {
			return models.LedgerEntry{}, models.ErrDateOutsideMonth
		}
		date = params.Date.In(time.UTC)
	}

	// Pre-check for an existing resolution. The unique index is the
	// real guard, this only gives a nicer path for the common case.
	var count int64
	err = p.db.Model(&models.LedgerEntry{}).
		Where("month_id = ? AND plan_id = ?", monthResource.ID, plan.ID).
		Count(&count).Error
	if err != nil {
		return models.LedgerEntry{}, err
	}
	if count > 0 {
		return models.LedgerEntry{}, models.ErrPlanAlreadyResolved
	}

	entry := models.LedgerEntry{
		Kind:        plan.Kind,
		MonthID:     monthResource.ID,
		UserID:      params.UserID,
		CategoryID:  plan.CategoryID,
		PlanID:      &plan.ID,
		Amount:      amount,
		Date:        date,
		Description: params.Description,
	}

	err = p.db.Create(&entry).Error
	if err != nil {
		return models.LedgerEntry{}, err
	}

	return entry, nil
}

// resolutionDate returns the default date for a resolution: the plan's
// due day clamped into the month, or the last day of the month when
// the plan has none.
func (p *Planner) resolutionDate(plan models.Plan, month types.Month) time.Time {
	if plan.DueDay == nil {
		return month.Date(month.LastDay())
	}

	return month.Date(*plan.DueDay)
}

func (p *Planner) getPlan(planID, familyID uuid.UUID) (models.Plan, error) {
	var plan models.Plan

	err := p.db.
		Where(&models.Plan{FamilyID: familyID}).
		First(&plan, planID).Error
	if err != nil {
		return models.Plan{}, err
	}

	return plan, nil
}
