package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Family is the tenant boundary of the backend. Users, months,
// categories, plans and ledger entries all belong to exactly one family.
type Family struct {
	DefaultModel
	Name string
	Note string
}

func (f *Family) BeforeSave(_ *gorm.DB) error {
	f.Name = strings.TrimSpace(f.Name)
	f.Note = strings.TrimSpace(f.Note)

	return nil
}

// Invitation is a single-use code that lets a new user join an
// existing family during registration. Membership is assigned
// explicitly through invitations, never implicitly.
type Invitation struct {
	DefaultModel
	Family   Family    `json:"-"`
	FamilyID uuid.UUID
	Code     string `gorm:"uniqueIndex"`
	Used     bool
}

func (i *Invitation) BeforeCreate(tx *gorm.DB) error {
	_ = i.DefaultModel.BeforeCreate(tx)

	if i.Code == "" {
		i.Code = uuid.NewString()
	}

	return nil
}
