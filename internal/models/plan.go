package models

import (
	"strings"

	"github.com/famplan/backend/internal/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Kind distinguishes the expense and income sides of the ledger.
// Plans and ledger entries are structurally identical for both, so
// they carry a Kind tag instead of being duplicated per side.
type Kind string

const (
	KindExpense Kind = "EXPENSE"
	KindIncome  Kind = "INCOME"
)

// Valid reports whether the kind is one of the known values.
func (k Kind) Valid() bool {
	return k == KindExpense || k == KindIncome
}

// PlanType is the lifecycle of a plan.
type PlanType string

const (
	PlanTypeOneMonth PlanType = "ONE_MONTH"
	PlanTypeOngoing  PlanType = "ONGOING"
)

// Valid reports whether the plan type is one of the known values.
func (t PlanType) Valid() bool {
	return t == PlanTypeOneMonth || t == PlanTypeOngoing
}

// Plan describes an expected income or expense over a range of months.
// The planned amount itself lives in PlanVersion records so that
// amendments preserve history.
type Plan struct {
	DefaultModel
	Family      Family    `json:"-"`
	FamilyID    uuid.UUID
	Category    Category  `json:"-"`
	CategoryID  uuid.UUID
	CreatedBy   User      `json:"-"`
	CreatedByID uuid.UUID
	Kind        Kind
	Type        PlanType `gorm:"column:plan_type"`
	Name        string
	StartMonth  types.Month
	EndMonth    *types.Month
	DueDay      *int
	Active      bool `gorm:"default:true"`
}

func (p *Plan) BeforeSave(_ *gorm.DB) error {
	p.Name = strings.TrimSpace(p.Name)

	// One-month plans always cover exactly their start month
	if p.Type == PlanTypeOneMonth {
		end := p.StartMonth
		p.EndMonth = &end
	}

	if !p.Range().Valid() {
		return ErrPlanRangeInvalid
	}

	if p.DueDay != nil && (*p.DueDay < 1 || *p.DueDay > 31) {
		return ErrDueDayInvalid
	}

	return nil
}

func (p *Plan) BeforeCreate(tx *gorm.DB) error {
	_ = p.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*Plan)
	return p.checkIntegrity(tx, *toSave)
}

func (p *Plan) BeforeUpdate(tx *gorm.DB) error {
	toSave, ok := tx.Statement.Dest.(Plan)
	if !ok {
		return nil
	}

	if tx.Statement.Changed("CategoryID") {
		return p.checkIntegrity(tx, toSave)
	}

	return nil
}

// checkIntegrity verifies references to other resources. The category
// must belong to the same family as the plan.
func (p *Plan) checkIntegrity(tx *gorm.DB, toSave Plan) error {
	var category Category
	err := tx.First(&category, toSave.CategoryID).Error
	if err != nil {
		return err
	}

	familyID := toSave.FamilyID
	if familyID == uuid.Nil {
		familyID = p.FamilyID
	}

	if category.FamilyID != familyID {
		return ErrCategoryNotInFamily
	}

	return nil
}

// Range returns the month range the plan covers.
func (p Plan) Range() types.MonthRange {
	return types.NewMonthRange(p.StartMonth, p.EndMonth)
}

// AppliesTo reports whether the plan covers the month.
func (p Plan) AppliesTo(month types.Month) bool {
	return p.Range().Contains(month)
}

// Versions returns all versions of the plan, ordered by the start of
// their validity and creation time.
func (p Plan) Versions(db *gorm.DB) ([]PlanVersion, error) {
	var versions []PlanVersion

	err := db.
		Where(&PlanVersion{PlanID: p.ID}).
		Order("valid_from ASC, created_at ASC").
		Find(&versions).Error
	if err != nil {
		return nil, err
	}

	return versions, nil
}
