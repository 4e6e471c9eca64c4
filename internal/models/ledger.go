package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LedgerEntry is a concrete dated money movement, either an income or
// an expense. Entries can be linked to the plan they resolve and to
// the recurring payment template that generated them.
//
// The unique index over (month, plan) is the storage-level guarantee
// that a plan is resolved at most once per month.
type LedgerEntry struct {
	DefaultModel
	Kind               Kind
	Month              Month     `json:"-"`
	MonthID            uuid.UUID `gorm:"uniqueIndex:ledger_month_id_plan_id"`
	User               User      `json:"-"`
	UserID             uuid.UUID
	Category           Category `json:"-"`
	CategoryID         uuid.UUID
	Plan               *Plan      `json:"-"`
	PlanID             *uuid.UUID `gorm:"uniqueIndex:ledger_month_id_plan_id"`
	RecurringPayment   *RecurringPayment `json:"-"`
	RecurringPaymentID *uuid.UUID
	IsRecurring        bool
	Amount             decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Date               time.Time
	Description        string
}

func (e *LedgerEntry) BeforeSave(_ *gorm.DB) error {
	e.Description = strings.TrimSpace(e.Description)

	if !e.Amount.IsPositive() {
		return ErrAmountNotPositive
	}

	if e.Date.IsZero() {
		e.Date = time.Now().In(time.UTC)
	} else {
		e.Date = e.Date.In(time.UTC)
	}

	return nil
}

func (e *LedgerEntry) BeforeCreate(tx *gorm.DB) error {
	_ = e.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*LedgerEntry)
	return e.checkIntegrity(tx, *toSave)
}

func (e *LedgerEntry) BeforeUpdate(tx *gorm.DB) error {
	// The month the entry currently belongs to must be open
	err := checkMonthOpen(tx, e.MonthID)
	if err != nil {
		return err
	}

	toSave, ok := tx.Statement.Dest.(LedgerEntry)
	if !ok {
		return nil
	}

	if tx.Statement.Changed("MonthID") {
		err := checkMonthOpen(tx, toSave.MonthID)
		if err != nil {
			return err
		}
	}

	if tx.Statement.Changed("PlanID", "CategoryID") {
		merged := *e
		if toSave.PlanID != nil {
			merged.PlanID = toSave.PlanID
		}
		if toSave.CategoryID != uuid.Nil {
			merged.CategoryID = toSave.CategoryID
		}

		return checkPlanConsistency(tx, merged)
	}

	return nil
}

// BeforeDelete blocks deletion of entries in closed months.
func (e *LedgerEntry) BeforeDelete(tx *gorm.DB) error {
	return checkMonthOpen(tx, e.MonthID)
}

// checkIntegrity verifies references to other resources, that the
// month the entry belongs to is open, and that plan-linked entries
// keep the plan's kind and category.
func (e *LedgerEntry) checkIntegrity(tx *gorm.DB, toSave LedgerEntry) error {
	err := checkMonthOpen(tx, toSave.MonthID)
	if err != nil {
		return err
	}

	err = tx.First(&Category{}, toSave.CategoryID).Error
	if err != nil {
		return err
	}

	return checkPlanConsistency(tx, toSave)
}

// checkMonthOpen returns ErrMonthClosed if the month is closed.
func checkMonthOpen(tx *gorm.DB, monthID uuid.UUID) error {
	var month Month
	err := tx.First(&month, monthID).Error
	if err != nil {
		return err
	}

	if month.IsClosed {
		return ErrMonthClosed
	}

	return nil
}

// checkPlanConsistency cross-checks a plan-linked entry against its
// plan: the entry must carry the plan's category and kind.
func checkPlanConsistency(tx *gorm.DB, entry LedgerEntry) error {
	if entry.PlanID == nil {
		return nil
	}

	var plan Plan
	err := tx.First(&plan, *entry.PlanID).Error
	if err != nil {
		return err
	}

	if plan.Kind != entry.Kind {
		return ErrKindMismatch
	}

	if plan.CategoryID != entry.CategoryID {
		return ErrCategoryMismatch
	}

	return nil
}

// LedgerSum returns the summed amount of all ledger entries matching
// the filter.
func LedgerSum(db *gorm.DB, filter LedgerEntry) (decimal.Decimal, error) {
	var sum decimal.NullDecimal

	err := db.
		Model(&LedgerEntry{}).
		Where(&filter).
		Select("SUM(amount)").
		Row().
		Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}

	return sum.Decimal, nil
}

// UnplannedTotal returns the summed amount of the month's ledger
// entries of the given kind that are linked to neither a plan nor a
// recurring payment.
func UnplannedTotal(db *gorm.DB, monthID uuid.UUID, kind Kind) (decimal.Decimal, error) {
	var sum decimal.NullDecimal

	err := db.
		Model(&LedgerEntry{}).
		Where(&LedgerEntry{MonthID: monthID, Kind: kind}).
		Where("plan_id IS NULL").
		Where("recurring_payment_id IS NULL").
		Select("SUM(amount)").
		Row().
		Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}

	return sum.Decimal, nil
}
