package models_test

import (
	"github.com/famplan/backend/internal/models"
)

func (suite *TestSuiteStandard) TestUserEmailNormalized() {
	family := suite.createTestFamily(models.Family{})

	user := suite.createTestUser(models.User{
		FamilyID: family.ID,
		Email:    "  Jane.Doe@Example.COM ",
	})

	suite.Assert().Equal("jane.doe@example.com", user.Email)
}

func (suite *TestSuiteStandard) TestUserEmailUnique() {
	family := suite.createTestFamily(models.Family{})
	_ = suite.createTestUser(models.User{FamilyID: family.ID, Email: "jane@example.com"})

	// Email uniqueness is global, not per family
	other := suite.createTestFamily(models.Family{})
	duplicate := models.User{FamilyID: other.ID, Name: "Other Jane", Email: "JANE@example.com "}
	_ = duplicate.SetPassword("password")

	err := models.DB.Create(&duplicate).Error
	suite.Assert().ErrorIs(err, models.ErrEmailNotUnique)
}

func (suite *TestSuiteStandard) TestUserPassword() {
	var user models.User
	err := user.SetPassword("correct horse battery staple")
	suite.Require().Nil(err)

	suite.Assert().True(user.CheckPassword("correct horse battery staple"))
	suite.Assert().False(user.CheckPassword("incorrect horse"))
	suite.Assert().NotContains(user.PasswordHash, "correct horse")
}

func (suite *TestSuiteStandard) TestUserRequiresFamily() {
	user := models.User{Name: "No Family", Email: "nobody@example.com"}
	_ = user.SetPassword("password")

	err := models.DB.Create(&user).Error
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)
}
