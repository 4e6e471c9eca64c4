package v1

import (
	"net/http"

	"github.com/famplan/backend/internal/auth"
	"github.com/famplan/backend/internal/budget"
	"github.com/famplan/backend/internal/httputil"
	"github.com/gin-gonic/gin"
)

// RegisterBudgetRoutes registers the routes for the budget report with
// the RouterGroup that is passed.
func (co Controller) RegisterBudgetRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", httputil.OptionsGet)
	r.GET("", co.GetBudget)
}

type BudgetResponse struct {
	Data  *budget.Report `json:"data"`  // The budget report
	Error *string        `json:"error"` // The error, if any occurred
}

// @Summary		Budget report
// @Description	Returns the per-month budget report of the caller's family, recurring payments, plans and unplanned spend classified against the configured thresholds
// @Tags			Budget
// @Produce		json
// @Success		200	{object}	BudgetResponse
// @Failure		400	{object}	BudgetResponse
// @Failure		500	{object}	BudgetResponse
// @Param			year	query	int	true	"Year"
// @Param			month	query	int	true	"Month, 1 to 12"
// @Router			/v1/budget [get]
func (co Controller) GetBudget(c *gin.Context) {
	user := auth.CurrentUser(c)

	var query QueryMonth
	_ = c.Bind(&query)

	target, err := query.month()
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, BudgetResponse{Error: &s})
		return
	}

	report, err := co.Budget.Build(user.FamilyID, target)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetResponse{Error: &s})
		return
	}

	c.JSON(http.StatusOK, BudgetResponse{Data: &report})
}
