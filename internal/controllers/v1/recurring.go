package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/famplan/backend/internal/auth"
	"github.com/famplan/backend/internal/httputil"
	"github.com/famplan/backend/internal/models"
	"github.com/famplan/backend/internal/recurring"
	"github.com/famplan/backend/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RegisterRecurringPaymentRoutes registers the routes for recurring
// payments with the RouterGroup that is passed.
func (co Controller) RegisterRecurringPaymentRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", httputil.OptionsGetPost)
		r.GET("", co.GetRecurringPayments)
		r.POST("", co.CreateRecurringPayment)
	}

	// Generation run. Registered before the ID routes so that gin does
	// not treat "generate" as an ID.
	{
		r.OPTIONS("/generate", httputil.OptionsPost)
		r.POST("/generate", co.GenerateRecurringPayments)
	}

	// Recurring payment with ID
	{
		r.OPTIONS("/:id", httputil.OptionsGetPatchDelete)
		r.GET("/:id", co.GetRecurringPayment)
		r.PATCH("/:id", co.UpdateRecurringPayment)
		r.DELETE("/:id", co.DeleteRecurringPayment)
	}
}

// RecurringPaymentEditable represents all user configurable parameters
type RecurringPaymentEditable struct {
	CategoryID uuid.UUID       `json:"categoryId" example:"52d967d3-33f4-4b04-9ba7-772e5ab9d0ce"` // ID of the category
	Name       string          `json:"name" example:"Electricity" default:""`                     // Name of the payment
	Amount     decimal.Decimal `json:"amount" example:"89.90"`                                    // Amount charged each month
	DueDay     int             `json:"dueDay" example:"1"`                                        // Day of month the payment is due, 1 to 31
	StartDate  time.Time       `json:"startDate" example:"2024-01-01T00:00:00Z"`                  // First day the template is in effect
	EndDate    *time.Time      `json:"endDate"`                                                   // Last day the template is in effect, unset for open-ended templates
	Active     bool            `json:"active" example:"true" default:"true"`                      // Is the template generated?
}

func (editable RecurringPaymentEditable) model() models.RecurringPayment {
	return models.RecurringPayment{
		CategoryID: editable.CategoryID,
		Name:       editable.Name,
		Amount:     editable.Amount,
		DueDay:     editable.DueDay,
		StartDate:  editable.StartDate,
		EndDate:    editable.EndDate,
		Active:     editable.Active,
	}
}

type RecurringPaymentResponse struct {
	Data  *models.RecurringPayment `json:"data"`  // Data for the recurring payment
	Error *string                  `json:"error"` // The error, if any occurred
}

type RecurringPaymentListResponse struct {
	Data  []models.RecurringPayment `json:"data"`  // List of recurring payments
	Error *string                   `json:"error"` // The error, if any occurred
}

// GenerateEditable represents the parameters of a generation run.
type GenerateEditable struct {
	Year  int `json:"year" example:"2024"` // Defaults to the current month when year and month are unset
	Month int `json:"month" example:"7"`   // 1 to 12
}

type GenerateResponse struct {
	Data  *recurring.Result `json:"data"`  // What the run did
	Error *string           `json:"error"` // The error, if any occurred
}

// @Summary		Create recurring payment
// @Description	Creates a new recurring payment template
// @Tags			RecurringPayments
// @Accept			json
// @Produce		json
// @Success		201		{object}	RecurringPaymentResponse
// @Failure		400		{object}	RecurringPaymentResponse
// @Failure		404		{object}	RecurringPaymentResponse
// @Failure		500		{object}	RecurringPaymentResponse
// @Param			payment	body		RecurringPaymentEditable	true	"Recurring payment"
// @Router			/v1/recurring-payments [post]
func (co Controller) CreateRecurringPayment(c *gin.Context) {
	user := auth.CurrentUser(c)

	var editable RecurringPaymentEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RecurringPaymentResponse{Error: &s})
		return
	}

	payment := editable.model()
	payment.FamilyID = user.FamilyID

	err = models.DB.Create(&payment).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RecurringPaymentResponse{Error: &s})
		return
	}

	c.JSON(http.StatusCreated, RecurringPaymentResponse{Data: &payment})
}

// @Summary		Get recurring payments
// @Description	Returns the recurring payment templates of the caller's family
// @Tags			RecurringPayments
// @Produce		json
// @Success		200	{object}	RecurringPaymentListResponse
// @Failure		500	{object}	RecurringPaymentListResponse
// @Router			/v1/recurring-payments [get]
func (co Controller) GetRecurringPayments(c *gin.Context) {
	user := auth.CurrentUser(c)

	var payments []models.RecurringPayment
	err := models.DB.
		Where(&models.RecurringPayment{FamilyID: user.FamilyID}).
		Order("name ASC").
		Find(&payments).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RecurringPaymentListResponse{Error: &s})
		return
	}

	c.JSON(http.StatusOK, RecurringPaymentListResponse{Data: payments})
}

// @Summary		Get recurring payment
// @Description	Returns a specific recurring payment template
// @Tags			RecurringPayments
// @Produce		json
// @Success		200	{object}	RecurringPaymentResponse
// @Failure		400	{object}	RecurringPaymentResponse
// @Failure		404	{object}	RecurringPaymentResponse
// @Failure		500	{object}	RecurringPaymentResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/recurring-payments/{id} [get]
func (co Controller) GetRecurringPayment(c *gin.Context) {
	uri, ok := bindURI(c)
	if !ok {
		return
	}

	payment, err := co.getRecurringPayment(c, uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RecurringPaymentResponse{Error: &s})
		return
	}

	c.JSON(http.StatusOK, RecurringPaymentResponse{Data: &payment})
}

// @Summary		Update recurring payment
// @Description	Update an existing recurring payment template. Only values to be updated need to be specified. Already generated entries are untouched.
// @Tags			RecurringPayments
// @Accept			json
// @Produce		json
// @Success		200		{object}	RecurringPaymentResponse
// @Failure		400		{object}	RecurringPaymentResponse
// @Failure		404		{object}	RecurringPaymentResponse
// @Failure		500		{object}	RecurringPaymentResponse
// @Param			id		path		URIID						true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			payment	body		RecurringPaymentEditable	true	"Recurring payment"
// @Router			/v1/recurring-payments/{id} [patch]
func (co Controller) UpdateRecurringPayment(c *gin.Context) {
	uri, ok := bindURI(c)
	if !ok {
		return
	}

	payment, err := co.getRecurringPayment(c, uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RecurringPaymentResponse{Error: &s})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, RecurringPaymentEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RecurringPaymentResponse{Error: &s})
		return
	}

	var data RecurringPaymentEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RecurringPaymentResponse{Error: &s})
		return
	}

	err = models.DB.Model(&payment).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RecurringPaymentResponse{Error: &s})
		return
	}

	c.JSON(http.StatusOK, RecurringPaymentResponse{Data: &payment})
}

// @Summary		Delete recurring payment
// @Description	Deletes a recurring payment template. Already generated entries are untouched.
// @Tags			RecurringPayments
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/recurring-payments/{id} [delete]
func (co Controller) DeleteRecurringPayment(c *gin.Context) {
	uri, ok := bindURI(c)
	if !ok {
		return
	}

	payment, err := co.getRecurringPayment(c, uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = models.DB.Model(&models.LedgerEntry{}).
		Where("recurring_payment_id = ?", payment.ID).
		Session(&gorm.Session{SkipHooks: true}).
		Update("recurring_payment_id", nil).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = models.DB.Delete(&payment).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// @Summary		Generate entries
// @Description	Creates one expense entry per active template that covers the month and has none yet. Re-running is a no-op for already generated templates.
// @Tags			RecurringPayments
// @Accept			json
// @Produce		json
// @Success		201		{object}	GenerateResponse
// @Failure		400		{object}	GenerateResponse
// @Failure		409		{object}	GenerateResponse
// @Failure		500		{object}	GenerateResponse
// @Param			run		body		GenerateEditable	true	"Generation run"
// @Router			/v1/recurring-payments/generate [post]
func (co Controller) GenerateRecurringPayments(c *gin.Context) {
	user := auth.CurrentUser(c)

	// An empty body generates the current month
	var editable GenerateEditable
	err := httputil.BindData(c, &editable)
	if err != nil && !errors.Is(err, httputil.ErrRequestBodyEmpty) {
		s := err.Error()
		c.JSON(status(err), GenerateResponse{Error: &s})
		return
	}

	var target *types.Month
	if editable.Year != 0 || editable.Month != 0 {
		m, err := QueryMonth{Year: editable.Year, Month: editable.Month}.month()
		if err != nil {
			s := err.Error()
			c.JSON(http.StatusBadRequest, GenerateResponse{Error: &s})
			return
		}
		target = &m
	}

	result, err := co.Generator.Generate(user.FamilyID, user.ID, target)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GenerateResponse{Error: &s})
		return
	}

	c.JSON(http.StatusCreated, GenerateResponse{Data: &result})
}

// getRecurringPayment loads a template by ID, scoped to the caller's
// family.
func (co Controller) getRecurringPayment(c *gin.Context, uri URIID) (models.RecurringPayment, error) {
	user := auth.CurrentUser(c)

	var payment models.RecurringPayment
	err := models.DB.
		Where(&models.RecurringPayment{FamilyID: user.FamilyID}).
		First(&payment, uri.ID.UUID).Error
	if err != nil {
		return models.RecurringPayment{}, err
	}

	return payment, nil
}
