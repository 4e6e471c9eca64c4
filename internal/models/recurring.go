package models

import (
	"strings"
	"time"

	"github.com/famplan/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RecurringPayment is a fixed-amount expense template. A batch job
// materializes it into one ledger entry per month while it is active.
type RecurringPayment struct {
	DefaultModel
	Family     Family    `json:"-"`
	FamilyID   uuid.UUID
	Category   Category `json:"-"`
	CategoryID uuid.UUID
	Name       string
	Amount     decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	DueDay     int
	StartDate  time.Time
	EndDate    *time.Time
	Active     bool `gorm:"default:true"`
}

func (r *RecurringPayment) BeforeSave(_ *gorm.DB) error {
	r.Name = strings.TrimSpace(r.Name)

	if !r.Amount.IsPositive() {
		return ErrAmountNotPositive
	}

	if r.DueDay < 1 || r.DueDay > 31 {
		return ErrDueDayInvalid
	}

	return nil
}

func (r *RecurringPayment) BeforeCreate(tx *gorm.DB) error {
	_ = r.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*RecurringPayment)

	var category Category
	err := tx.First(&category, toSave.CategoryID).Error
	if err != nil {
		return err
	}

	if category.FamilyID != toSave.FamilyID {
		return ErrCategoryNotInFamily
	}

	return nil
}

// ActiveRecurringPayments returns the active templates of a family
// whose date range covers at least one day of the month.
func ActiveRecurringPayments(db *gorm.DB, familyID uuid.UUID, month types.Month) ([]RecurringPayment, error) {
	var payments []RecurringPayment
	err := db.
		Where(&RecurringPayment{FamilyID: familyID, Active: true}).
		Where("start_date < date(?)", month.AddDate(0, 1)).
		Where("end_date IS NULL OR end_date >= date(?)", month.Date(1)).
		Order("name ASC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}

	return payments, nil
}
