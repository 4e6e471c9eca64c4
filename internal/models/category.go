package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category represents a spending or income category of a family.
type Category struct {
	DefaultModel
	Family   Family    `json:"-"`
	FamilyID uuid.UUID `gorm:"uniqueIndex:category_name_family_id"`
	Name     string    `gorm:"uniqueIndex:category_name_family_id"`
	Icon     string
	Color    string `gorm:"default:#64748b"`
	Note     string
	Archived bool
}

func (c *Category) BeforeSave(_ *gorm.DB) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Note = strings.TrimSpace(c.Note)

	return nil
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	_ = c.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*Category)
	return c.checkIntegrity(tx, *toSave)
}

func (c *Category) BeforeUpdate(tx *gorm.DB) error {
	toSave := tx.Statement.Dest.(Category)

	if tx.Statement.Changed("FamilyID") {
		return c.checkIntegrity(tx, toSave)
	}

	return nil
}

// checkIntegrity verifies references to other resources
func (c *Category) checkIntegrity(tx *gorm.DB, toSave Category) error {
	return tx.First(&Family{}, toSave.FamilyID).Error
}
