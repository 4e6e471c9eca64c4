package models

import (
	"github.com/famplan/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PlanVersion is a time-bounded planned amount within a plan's
// lifetime. Amending a plan closes the current version and opens a new
// one, so the full amount history is preserved.
type PlanVersion struct {
	DefaultModel
	Plan          Plan      `json:"-"`
	PlanID        uuid.UUID
	PlannedAmount decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	ValidFrom     types.Month
	ValidTo       *types.Month
}

func (v *PlanVersion) BeforeSave(_ *gorm.DB) error {
	if !v.PlannedAmount.IsPositive() {
		return ErrAmountNotPositive
	}

	if !v.Range().Valid() {
		return ErrPlanRangeInvalid
	}

	return nil
}

// BeforeCreate enforces that version validity ranges of the same plan
// never overlap.
//
// The amend flow closes the previous version exactly where the new one
// starts, with both boundaries inclusive. That single-month handoff is
// tolerated here; VersionForMonth resolves the boundary month to the
// latest-created version.
func (v *PlanVersion) BeforeCreate(tx *gorm.DB) error {
	_ = v.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*PlanVersion)

	var siblings []PlanVersion
	err := tx.Where(&PlanVersion{PlanID: toSave.PlanID}).Find(&siblings).Error
	if err != nil {
		return err
	}

	for _, sibling := range siblings {
		if !sibling.Range().Overlaps(toSave.Range()) {
			continue
		}

		if sibling.ValidTo != nil && sibling.ValidTo.Equal(toSave.ValidFrom) {
			continue
		}

		return ErrVersionOverlap
	}

	return nil
}

// Range returns the validity range of the version.
func (v PlanVersion) Range() types.MonthRange {
	return types.NewMonthRange(v.ValidFrom, v.ValidTo)
}
