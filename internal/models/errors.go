package models

import "errors"

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")

	// Month errors
	ErrMonthClosed    = errors.New("this month is closed and cannot be modified")
	ErrMonthNotUnique = errors.New("a month resource already exists for this family and month")

	// Family and user errors
	ErrEmailNotUnique     = errors.New("a user with this email address already exists")
	ErrNoFamilyMembership = errors.New("the user does not belong to a family")

	// Category errors
	ErrCategoryNameNotUnique = errors.New("the category name must be unique for the family")
	ErrCategoryNotInFamily   = errors.New("the category does not belong to the family")

	// Ledger errors
	ErrAmountNotPositive   = errors.New("the amount must be greater than zero")
	ErrCategoryMismatch    = errors.New("the category must match the plan category")
	ErrKindMismatch        = errors.New("the entry kind must match the plan kind")
	ErrPlanAlreadyResolved = errors.New("this plan is already resolved for this month")

	// Plan and version errors
	ErrKindInvalid         = errors.New("the kind must be EXPENSE or INCOME")
	ErrPlanTypeInvalid     = errors.New("the plan type must be ONE_MONTH or ONGOING")
	ErrPlanRangeInvalid    = errors.New("the end month cannot be before the start month")
	ErrPlanStartInPast     = errors.New("the start month cannot be in the past")
	ErrPlanNotApplicable   = errors.New("the plan does not apply to this month")
	ErrPlanNotActive       = errors.New("the plan is not active")
	ErrNoVersionForMonth   = errors.New("no plan version found for this month")
	ErrVersionOverlap      = errors.New("the version overlaps an existing version of this plan")
	ErrDateOutsideMonth    = errors.New("the date must be within the selected month")

	// Recurring payment errors
	ErrDueDayInvalid = errors.New("the due day must be between 1 and 31")
)
