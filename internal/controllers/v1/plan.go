package v1

import (
	"net/http"
	"time"

	"github.com/famplan/backend/internal/auth"
	"github.com/famplan/backend/internal/httputil"
	"github.com/famplan/backend/internal/models"
	"github.com/famplan/backend/internal/planner"
	"github.com/famplan/backend/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RegisterPlanRoutes registers the routes for plans with the
// RouterGroup that is passed.
func (co Controller) RegisterPlanRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", httputil.OptionsGetPost)
		r.GET("", co.GetPlans)
		r.POST("", co.CreatePlan)
	}

	// Status of all plans for a month. Registered before the ID routes
	// so that gin does not treat "month" as an ID.
	{
		r.OPTIONS("/month", httputil.OptionsGet)
		r.GET("/month", co.GetPlanMonth)
	}

	// Plan with ID
	{
		r.OPTIONS("/:id", httputil.OptionsGetPatchDelete)
		r.GET("/:id", co.GetPlan)
		r.PATCH("/:id", co.UpdatePlan)
		r.DELETE("/:id", co.DeletePlan)

		r.OPTIONS("/:id/deactivate", httputil.OptionsPost)
		r.POST("/:id/deactivate", co.DeactivatePlan)

		r.OPTIONS("/:id/reactivate", httputil.OptionsPost)
		r.POST("/:id/reactivate", co.ReactivatePlan)

		r.OPTIONS("/:id/confirm", httputil.OptionsPost)
		r.POST("/:id/confirm", co.ConfirmPlan)

		r.OPTIONS("/:id/adjust", httputil.OptionsPost)
		r.POST("/:id/adjust", co.AdjustPlan)
	}
}

// PlanCreateEditable represents the parameters for creating a plan.
type PlanCreateEditable struct {
	Kind       models.Kind     `json:"kind" example:"EXPENSE"`                                    // EXPENSE or INCOME
	Type       models.PlanType `json:"type" example:"ONGOING"`                                    // ONE_MONTH or ONGOING
	CategoryID uuid.UUID       `json:"categoryId" example:"52d967d3-33f4-4b04-9ba7-772e5ab9d0ce"` // ID of the category
	Name       string          `json:"name" example:"Rent"`                                       // Name of the plan
	StartMonth types.Month     `json:"startMonth" example:"2024-07-01T00:00:00Z"`                 // First month the plan covers
	EndMonth   *types.Month    `json:"endMonth"`                                                  // Last month the plan covers, unset for open-ended plans
	DueDay     *int            `json:"dueDay" example:"15"`                                       // Day of month the amount is due, 1 to 31
	Amount     decimal.Decimal `json:"amount" example:"950"`                                      // Planned amount of the first version
}

// PlanUpdateEditable represents the updatable parameters of a plan.
// Unset fields are left unchanged.
type PlanUpdateEditable struct {
	Name          *string          `json:"name"`
	EndMonth      *types.Month     `json:"endMonth"`
	ClearEndMonth bool             `json:"clearEndMonth"` // Remove the end month, making the plan open-ended
	DueDay        *int             `json:"dueDay"`
	Amount        *decimal.Decimal `json:"amount"`        // New planned amount, opens a new version
	EffectiveFrom *types.Month     `json:"effectiveFrom"` // Month the new amount takes over. Defaults to the plan's start month.
}

// ResolveEditable represents the parameters for resolving a plan into
// a ledger entry. The amount is only read on the adjust route.
type ResolveEditable struct {
	Year        int              `json:"year" example:"2024"`
	Month       int              `json:"month" example:"7"` // 1 to 12
	Amount      *decimal.Decimal `json:"amount" example:"920.50"`
	Date        *time.Time       `json:"date"` // Must fall within the resolved month. Defaults to the due day.
	Description string           `json:"description" default:""`
}

// Plan is a plan with its full version history.
type Plan struct {
	models.Plan
	Versions []models.PlanVersion `json:"versions"`
}

type PlanResponse struct {
	Data  *Plan   `json:"data"`  // Data for the plan
	Error *string `json:"error"` // The error, if any occurred
}

type PlanListResponse struct {
	Data  []Plan  `json:"data"`  // List of plans
	Error *string `json:"error"` // The error, if any occurred
}

// PlanMonthStatus is the resolution state of one plan for the
// requested month.
type PlanMonthStatus struct {
	Plan          models.Plan         `json:"plan"`
	Version       *models.PlanVersion `json:"version"`       // The version in effect, null when none covers the month
	Status        planner.Status      `json:"status" example:"PENDING"`
	CanResolve    bool                `json:"canResolve"`    // Can the plan be resolved right now?
	ResolvedEntry *models.LedgerEntry `json:"resolvedEntry"` // The resolving ledger entry, null while pending
}

// PlanMonth is the status of all applicable plans for a month.
type PlanMonth struct {
	Month   models.Month      `json:"month"`
	Results []PlanMonthStatus `json:"results"`
}

type PlanMonthResponse struct {
	Data  *PlanMonth `json:"data"`  // Data for the month
	Error *string    `json:"error"` // The error, if any occurred
}

type PlanQueryFilter struct {
	Kind string `form:"kind"` // EXPENSE or INCOME
}

type PlanMonthQueryFilter struct {
	Kind  string `form:"kind"` // EXPENSE or INCOME, defaults to EXPENSE
	Year  int    `form:"year"`
	Month int    `form:"month"` // 1 to 12
}

// @Summary		Create plan
// @Description	Creates a new plan with its first version
// @Tags			Plans
// @Accept			json
// @Produce		json
// @Success		201		{object}	PlanResponse
// @Failure		400		{object}	PlanResponse
// @Failure		404		{object}	PlanResponse
// @Failure		500		{object}	PlanResponse
// @Param			plan	body		PlanCreateEditable	true	"Plan"
// @Router			/v1/plans [post]
func (co Controller) CreatePlan(c *gin.Context) {
	user := auth.CurrentUser(c)

	var editable PlanCreateEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), PlanResponse{Error: &s})
		return
	}

	plan, err := co.Planner.CreatePlan(planner.CreatePlanParams{
		FamilyID:      user.FamilyID,
		CategoryID:    editable.CategoryID,
		CreatedByID:   user.ID,
		Kind:          editable.Kind,
		Type:          editable.Type,
		Name:          editable.Name,
		StartMonth:    editable.StartMonth,
		EndMonth:      editable.EndMonth,
		DueDay:        editable.DueDay,
		InitialAmount: editable.Amount,
	})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), PlanResponse{Error: &s})
		return
	}

	data, err := newPlan(plan)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), PlanResponse{Error: &s})
		return
	}

	c.JSON(http.StatusCreated, PlanResponse{Data: &data})
}

// @Summary		Get plans
// @Description	Returns the plans of the caller's family
// @Tags			Plans
// @Produce		json
// @Success		200	{object}	PlanListResponse
// @Failure		400	{object}	PlanListResponse
// @Failure		500	{object}	PlanListResponse
// @Param			kind	query	string	false	"Filter by kind, EXPENSE or INCOME"
// @Router			/v1/plans [get]
func (co Controller) GetPlans(c *gin.Context) {
	user := auth.CurrentUser(c)

	var filter PlanQueryFilter
	_ = c.Bind(&filter)

	q := models.DB.
		Where(&models.Plan{FamilyID: user.FamilyID}).
		Order("created_at DESC")

	if filter.Kind != "" {
		kind := models.Kind(filter.Kind)
		if !kind.Valid() {
			s := errKindParameter.Error()
			c.JSON(http.StatusBadRequest, PlanListResponse{Error: &s})
			return
		}
		q = q.Where(&models.Plan{Kind: kind})
	}

	var plans []models.Plan
	err := q.Find(&plans).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), PlanListResponse{Error: &s})
		return
	}

	data := make([]Plan, 0, len(plans))
	for _, plan := range plans {
		apiResource, err := newPlan(plan)
		if err != nil {
			s := err.Error()
			c.JSON(status(err), PlanListResponse{Error: &s})
			return
		}
		data = append(data, apiResource)
	}

	c.JSON(http.StatusOK, PlanListResponse{Data: data})
}

// @Summary		Get plan
// @Description	Returns a specific plan with its version history
// @Tags			Plans
// @Produce		json
// @Success		200	{object}	PlanResponse
// @Failure		400	{object}	PlanResponse
// @Failure		404	{object}	PlanResponse
// @Failure		500	{object}	PlanResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/plans/{id} [get]
func (co Controller) GetPlan(c *gin.Context) {
	user := auth.CurrentUser(c)

	uri, ok := bindURI(c)
	if !ok {
		return
	}

	var plan models.Plan
	err := models.DB.
		Where(&models.Plan{FamilyID: user.FamilyID}).
		First(&plan, uri.ID.UUID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), PlanResponse{Error: &s})
		return
	}

	data, err := newPlan(plan)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), PlanResponse{Error: &s})
		return
	}

	c.JSON(http.StatusOK, PlanResponse{Data: &data})
}

// @Summary		Amend plan
// @Description	Update an existing plan. A new amount closes the current version and opens a new one, preserving history. Refused while a closed month lies inside the plan's range.
// @Tags			Plans
// @Accept			json
// @Produce		json
// @Success		200		{object}	PlanResponse
// @Failure		400		{object}	PlanResponse
// @Failure		404		{object}	PlanResponse
// @Failure		409		{object}	PlanResponse
// @Failure		500		{object}	PlanResponse
// @Param			id		path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			plan	body		PlanUpdateEditable	true	"Plan"
// @Router			/v1/plans/{id} [patch]
func (co Controller) UpdatePlan(c *gin.Context) {
	user := auth.CurrentUser(c)

	uri, ok := bindURI(c)
	if !ok {
		return
	}

	var editable PlanUpdateEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), PlanResponse{Error: &s})
		return
	}

	plan, err := co.Planner.AmendPlan(uri.ID.UUID, user.FamilyID, planner.AmendPlanParams{
		Name:          editable.Name,
		EndMonth:      editable.EndMonth,
		ClearEndMonth: editable.ClearEndMonth,
		DueDay:        editable.DueDay,
		NewAmount:     editable.Amount,
		EffectiveFrom: editable.EffectiveFrom,
	})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), PlanResponse{Error: &s})
		return
	}

	data, err := newPlan(plan)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), PlanResponse{Error: &s})
		return
	}

	c.JSON(http.StatusOK, PlanResponse{Data: &data})
}

// @Summary		Delete plan
// @Description	Deletes a plan and its versions. Ledger entries created from the plan keep existing with the plan link cleared.
// @Tags			Plans
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		409	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/plans/{id} [delete]
func (co Controller) DeletePlan(c *gin.Context) {
	user := auth.CurrentUser(c)

	uri, ok := bindURI(c)
	if !ok {
		return
	}

	err := co.Planner.DeletePlan(uri.ID.UUID, user.FamilyID)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// @Summary		Deactivate plan
// @Description	Excludes the plan from future months. History is untouched.
// @Tags			Plans
// @Produce		json
// @Success		200	{object}	PlanResponse
// @Failure		400	{object}	PlanResponse
// @Failure		404	{object}	PlanResponse
// @Failure		500	{object}	PlanResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/plans/{id}/deactivate [post]
func (co Controller) DeactivatePlan(c *gin.Context) {
	co.setPlanActive(c, false)
}

// @Summary		Reactivate plan
// @Description	Re-enables a deactivated plan
// @Tags			Plans
// @Produce		json
// @Success		200	{object}	PlanResponse
// @Failure		400	{object}	PlanResponse
// @Failure		404	{object}	PlanResponse
// @Failure		500	{object}	PlanResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/plans/{id}/reactivate [post]
func (co Controller) ReactivatePlan(c *gin.Context) {
	co.setPlanActive(c, true)
}

func (co Controller) setPlanActive(c *gin.Context, active bool) {
	user := auth.CurrentUser(c)

	uri, ok := bindURI(c)
	if !ok {
		return
	}

	var plan models.Plan
	var err error
	if active {
		plan, err = co.Planner.Reactivate(uri.ID.UUID, user.FamilyID)
	} else {
		plan, err = co.Planner.Deactivate(uri.ID.UUID, user.FamilyID)
	}
	if err != nil {
		s := err.Error()
		c.JSON(status(err), PlanResponse{Error: &s})
		return
	}

	data, err := newPlan(plan)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), PlanResponse{Error: &s})
		return
	}

	c.JSON(http.StatusOK, PlanResponse{Data: &data})
}

// @Summary		Plan status for a month
// @Description	Returns all active plans applying to the month with their resolution state
// @Tags			Plans
// @Produce		json
// @Success		200	{object}	PlanMonthResponse
// @Failure		400	{object}	PlanMonthResponse
// @Failure		500	{object}	PlanMonthResponse
// @Param			kind	query	string	false	"EXPENSE or INCOME, defaults to EXPENSE"
// @Param			year	query	int		true	"Year"
// @Param			month	query	int		true	"Month, 1 to 12"
// @Router			/v1/plans/month [get]
func (co Controller) GetPlanMonth(c *gin.Context) {
	user := auth.CurrentUser(c)

	var filter PlanMonthQueryFilter
	_ = c.Bind(&filter)

	target, err := QueryMonth{Year: filter.Year, Month: filter.Month}.month()
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, PlanMonthResponse{Error: &s})
		return
	}

	kind := models.KindExpense
	if filter.Kind != "" {
		kind = models.Kind(filter.Kind)
		if !kind.Valid() {
			s := errKindParameter.Error()
			c.JSON(http.StatusBadRequest, PlanMonthResponse{Error: &s})
			return
		}
	}

	list, err := co.Planner.StatusForMonth(user.FamilyID, kind, target)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), PlanMonthResponse{Error: &s})
		return
	}

	data := PlanMonth{Month: list.Month, Results: make([]PlanMonthStatus, 0, len(list.Results))}
	for _, result := range list.Results {
		data.Results = append(data.Results, PlanMonthStatus{
			Plan:          result.Plan,
			Version:       result.Version,
			Status:        result.Status,
			CanResolve:    result.CanResolve,
			ResolvedEntry: result.ResolvedEntry,
		})
	}

	c.JSON(http.StatusOK, PlanMonthResponse{Data: &data})
}

// @Summary		Confirm plan
// @Description	Resolves the plan for the month with the planned amount of the version in effect
// @Tags			Plans
// @Accept			json
// @Produce		json
// @Success		201			{object}	LedgerEntryResponse
// @Failure		400			{object}	LedgerEntryResponse
// @Failure		404			{object}	LedgerEntryResponse
// @Failure		409			{object}	LedgerEntryResponse
// @Failure		500			{object}	LedgerEntryResponse
// @Param			id			path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			resolution	body		ResolveEditable	true	"Resolution"
// @Router			/v1/plans/{id}/confirm [post]
func (co Controller) ConfirmPlan(c *gin.Context) {
	co.resolvePlan(c, false)
}

// @Summary		Adjust plan
// @Description	Resolves the plan for the month with an overriding amount
// @Tags			Plans
// @Accept			json
// @Produce		json
// @Success		201			{object}	LedgerEntryResponse
// @Failure		400			{object}	LedgerEntryResponse
// @Failure		404			{object}	LedgerEntryResponse
// @Failure		409			{object}	LedgerEntryResponse
// @Failure		500			{object}	LedgerEntryResponse
// @Param			id			path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			resolution	body		ResolveEditable	true	"Resolution"
// @Router			/v1/plans/{id}/adjust [post]
func (co Controller) AdjustPlan(c *gin.Context) {
	co.resolvePlan(c, true)
}

func (co Controller) resolvePlan(c *gin.Context, adjust bool) {
	user := auth.CurrentUser(c)

	uri, ok := bindURI(c)
	if !ok {
		return
	}

	var editable ResolveEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LedgerEntryResponse{Error: &s})
		return
	}

	target, err := QueryMonth{Year: editable.Year, Month: editable.Month}.month()
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, LedgerEntryResponse{Error: &s})
		return
	}

	params := planner.ResolveParams{
		Month:       target,
		UserID:      user.ID,
		Description: editable.Description,
		Date:        editable.Date,
	}

	// Confirm takes the version's amount as-is, adjust overrides it
	if adjust {
		if editable.Amount == nil {
			s := models.ErrAmountNotPositive.Error()
			c.JSON(http.StatusBadRequest, LedgerEntryResponse{Error: &s})
			return
		}
		params.Amount = editable.Amount
	}

	entry, err := co.Planner.Resolve(uri.ID.UUID, user.FamilyID, params)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LedgerEntryResponse{Error: &s})
		return
	}

	c.JSON(http.StatusCreated, LedgerEntryResponse{Data: &entry})
}

func newPlan(model models.Plan) (Plan, error) {
	versions, err := model.Versions(models.DB)
	if err != nil {
		return Plan{}, err
	}

	return Plan{Plan: model, Versions: versions}, nil
}
