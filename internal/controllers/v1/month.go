package v1

import (
	"fmt"
	"net/http"

	"github.com/famplan/backend/internal/auth"
	"github.com/famplan/backend/internal/httputil"
	"github.com/famplan/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// RegisterMonthRoutes registers the routes for months with the
// RouterGroup that is passed.
func (co Controller) RegisterMonthRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", httputil.OptionsGet)
		r.GET("", co.GetMonths)
	}

	// Month with ID
	{
		r.OPTIONS("/:id", httputil.OptionsGetPatch)
		r.GET("/:id", co.GetMonth)
		r.PATCH("/:id", co.UpdateMonth)
	}
}

// MonthEditable represents all user configurable parameters
type MonthEditable struct {
	IsClosed bool `json:"isClosed" example:"true" default:"false"` // Is the month closed for bookings?
}

type MonthResponse struct {
	Data  *models.Month `json:"data"`  // Data for the month
	Error *string       `json:"error"` // The error, if any occurred
}

type MonthListResponse struct {
	Data  []models.Month `json:"data"`  // List of months
	Error *string        `json:"error"` // The error, if any occurred
}

type MonthQueryFilter struct {
	Year int `form:"year"` // Only months of this year
}

// @Summary		Get months
// @Description	Returns the known months of the caller's family. Months appear in this list once something referenced them.
// @Tags			Months
// @Produce		json
// @Success		200	{object}	MonthListResponse
// @Failure		500	{object}	MonthListResponse
// @Param			year	query	int	false	"Filter by year"
// @Router			/v1/months [get]
func (co Controller) GetMonths(c *gin.Context) {
	user := auth.CurrentUser(c)

	var filter MonthQueryFilter
	_ = c.Bind(&filter)

	q := models.DB.
		Where(&models.Month{FamilyID: user.FamilyID}).
		Order("month ASC")

	if filter.Year != 0 {
		// strftime returns text, so the year must be compared as text
		q = q.Where("strftime('%Y', month) = ?", fmt.Sprintf("%04d", filter.Year))
	}

	var months []models.Month
	err := q.Find(&months).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), MonthListResponse{Error: &s})
		return
	}

	c.JSON(http.StatusOK, MonthListResponse{Data: months})
}

// @Summary		Get month
// @Description	Returns a specific month
// @Tags			Months
// @Produce		json
// @Success		200	{object}	MonthResponse
// @Failure		400	{object}	MonthResponse
// @Failure		404	{object}	MonthResponse
// @Failure		500	{object}	MonthResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/months/{id} [get]
func (co Controller) GetMonth(c *gin.Context) {
	uri, ok := bindURI(c)
	if !ok {
		return
	}

	month, err := co.getMonth(c, uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), MonthResponse{Error: &s})
		return
	}

	c.JSON(http.StatusOK, MonthResponse{Data: &month})
}

// @Summary		Close month
// @Description	Closes a month for bookings. Months cannot be reopened.
// @Tags			Months
// @Accept			json
// @Produce		json
// @Success		200		{object}	MonthResponse
// @Failure		400		{object}	MonthResponse
// @Failure		404		{object}	MonthResponse
// @Failure		500		{object}	MonthResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			month	body		MonthEditable	true	"Month"
// @Router			/v1/months/{id} [patch]
func (co Controller) UpdateMonth(c *gin.Context) {
	uri, ok := bindURI(c)
	if !ok {
		return
	}

	month, err := co.getMonth(c, uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), MonthResponse{Error: &s})
		return
	}

	var editable MonthEditable
	err = httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), MonthResponse{Error: &s})
		return
	}

	// Closing is one-way
	if month.IsClosed && !editable.IsClosed {
		s := errCannotReopenMonth.Error()
		c.JSON(http.StatusBadRequest, MonthResponse{Error: &s})
		return
	}

	err = models.DB.Model(&month).Select("IsClosed").Updates(models.Month{IsClosed: editable.IsClosed}).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), MonthResponse{Error: &s})
		return
	}

	c.JSON(http.StatusOK, MonthResponse{Data: &month})
}

func (co Controller) getMonth(c *gin.Context, uri URIID) (models.Month, error) {
	user := auth.CurrentUser(c)

	var month models.Month
	err := models.DB.
		Where(&models.Month{FamilyID: user.FamilyID}).
		First(&month, uri.ID.UUID).Error
	if err != nil {
		return models.Month{}, err
	}

	return month, nil
}
