// Package recurring materializes recurring payment templates into
// ledger entries, one per template and month.
package recurring

import (
	"time"

	"github.com/famplan/backend/internal/models"
	"github.com/famplan/backend/internal/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Generator creates expense entries from recurring payment templates.
// The clock decides which month is generated when the caller does not
// specify one.
type Generator struct {
	db  *gorm.DB
	now func() time.Time
}

// New returns a new Generator. A nil clock falls back to time.Now.
func New(db *gorm.DB, now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}

	return &Generator{db: db, now: now}
}

// Result reports what a generation run did.
type Result struct {
	Month   types.Month `json:"month"`
	Created int         `json:"created"`
	Skipped int         `json:"skipped"`
}

// Generate creates one expense entry per active template that covers
// the month and has none yet. Re-running for the same month is a
// no-op for already generated templates, counted as skipped.
//
// Generation into a closed month is refused.
func (g *Generator) Generate(familyID, userID uuid.UUID, month *types.Month) (Result, error) {
	target := types.MonthOf(g.now())
	if month != nil {
		target = *month
	}

	monthResource, err := models.GetOrCreateMonth(g.db, familyID, target)
	if err != nil {
		return Result{}, err
	}

	if monthResource.IsClosed {
		return Result{}, models.ErrMonthClosed
	}

	payments, err := models.ActiveRecurringPayments(g.db, familyID, target)
	if err != nil {
		return Result{}, err
	}

	result := Result{Month: target}
	for _, payment := range payments {
		var count int64
		err := g.db.Model(&models.LedgerEntry{}).
			Where("month_id = ? AND recurring_payment_id = ?", monthResource.ID, payment.ID).
			Count(&count).Error
		if err != nil {
			return Result{}, err
		}

		if count > 0 {
			result.Skipped++
			continue
		}

		entry := models.LedgerEntry{
			Kind:               models.KindExpense,
			MonthID:            monthResource.ID,
			UserID:             userID,
			CategoryID:         payment.CategoryID,
			RecurringPaymentID: &payment.ID,
			IsRecurring:        true,
			Amount:             payment.Amount,
			Date:               target.Date(payment.DueDay),
		}

		err = g.db.Create(&entry).Error
		if err != nil {
			return Result{}, err
		}

		result.Created++
	}

	return result, nil
}
