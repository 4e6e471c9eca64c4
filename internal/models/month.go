package models

import (
	"errors"

	"github.com/famplan/backend/internal/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Month is the per-family unit of budgeting time. It is created lazily
// on first reference and can be closed, which freezes every ledger
// entry, plan and version touching it.
type Month struct {
	DefaultModel
	Family   Family      `json:"-"`
	FamilyID uuid.UUID   `gorm:"uniqueIndex:month_family_id_month"`
	Month    types.Month `gorm:"uniqueIndex:month_family_id_month"`
	IsClosed bool
}

func (m *Month) BeforeCreate(tx *gorm.DB) error {
	_ = m.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*Month)
	return tx.First(&Family{}, toSave.FamilyID).Error
}

// GetOrCreateMonth returns the month resource for a family, creating
// it as an open month when it is referenced for the first time.
func GetOrCreateMonth(db *gorm.DB, familyID uuid.UUID, month types.Month) (Month, error) {
	var m Month

	err := db.Where(&Month{FamilyID: familyID, Month: month}).First(&m).Error
	if err == nil {
		return m, nil
	}

	if !errors.Is(err, ErrResourceNotFound) && !errors.Is(err, gorm.ErrRecordNotFound) {
		return Month{}, err
	}

	m = Month{FamilyID: familyID, Month: month, IsClosed: false}
	err = db.Create(&m).Error
	if err != nil {
		// Lost a get-or-create race, the row exists now
		if errors.Is(err, ErrMonthNotUnique) {
			err = db.Where(&Month{FamilyID: familyID, Month: month}).First(&m).Error
		}

		if err != nil {
			return Month{}, err
		}
	}

	return m, nil
}

// AnyClosedMonthInRange reports whether a family has at least one
// closed month within the range.
func AnyClosedMonthInRange(db *gorm.DB, familyID uuid.UUID, r types.MonthRange) (bool, error) {
	q := db.Model(&Month{}).
		Where(&Month{FamilyID: familyID, IsClosed: true}).
		Where("month >= date(?)", r.Start)

	if r.End != nil {
		q = q.Where("month < date(?)", r.End.AddDate(0, 1))
	}

	var count int64
	err := q.Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
