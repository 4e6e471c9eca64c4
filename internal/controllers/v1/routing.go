// Package v1 implements the HTTP API.
package v1

import (
	"github.com/famplan/backend/internal/auth"
	"github.com/famplan/backend/internal/budget"
	"github.com/famplan/backend/internal/planner"
	"github.com/famplan/backend/internal/recurring"
	"github.com/gin-gonic/gin"
)

// Controller holds the services the API hands requests to.
type Controller struct {
	Planner   *planner.Planner
	Budget    *budget.Builder
	Generator *recurring.Generator
	Auth      *auth.Service
}

// RegisterRoutes registers all API routes with the RouterGroup that is
// passed. Everything except registration and login requires a valid
// token for a user with a family.
func (co Controller) RegisterRoutes(r *gin.RouterGroup) {
	co.RegisterAuthRoutes(r.Group("/auth"))

	protected := r.Group("")
	protected.Use(co.Auth.Middleware())

	co.RegisterInvitationRoutes(protected.Group("/invitations"))
	co.RegisterCategoryRoutes(protected.Group("/categories"))
	co.RegisterMonthRoutes(protected.Group("/months"))
	co.RegisterLedgerRoutes(protected.Group("/ledger"))
	co.RegisterPlanRoutes(protected.Group("/plans"))
	co.RegisterBudgetRoutes(protected.Group("/budget"))
	co.RegisterRecurringPaymentRoutes(protected.Group("/recurring-payments"))
}
