package v1

import (
	"fmt"
	"net/http"
	"time"

	"github.com/famplan/backend/internal/auth"
	"github.com/famplan/backend/internal/httputil"
	"github.com/famplan/backend/internal/models"
	"github.com/famplan/backend/internal/types"
	ez_uuid "github.com/famplan/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RegisterLedgerRoutes registers the routes for ledger entries with
// the RouterGroup that is passed.
func (co Controller) RegisterLedgerRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", httputil.OptionsGetPost)
		r.GET("", co.GetLedgerEntries)
		r.POST("", co.CreateLedgerEntry)
	}

	// Ledger entry with ID
	{
		r.OPTIONS("/:id", httputil.OptionsGetPatchDelete)
		r.GET("/:id", co.GetLedgerEntry)
		r.PATCH("/:id", co.UpdateLedgerEntry)
		r.DELETE("/:id", co.DeleteLedgerEntry)
	}
}

// LedgerEntryEditable represents all user configurable parameters
type LedgerEntryEditable struct {
	Kind        models.Kind     `json:"kind" example:"EXPENSE"`                                    // EXPENSE or INCOME
	CategoryID  uuid.UUID       `json:"categoryId" example:"52d967d3-33f4-4b04-9ba7-772e5ab9d0ce"` // ID of the category
	Amount      decimal.Decimal `json:"amount" example:"42.12"`                                    // Amount, always positive
	Date        time.Time       `json:"date" example:"2024-07-12T00:00:00Z"`                       // Date of the money movement, decides the month it belongs to
	Description string          `json:"description" example:"Weekly groceries" default:""`         // Free-text description
}

func (editable LedgerEntryEditable) model() models.LedgerEntry {
	return models.LedgerEntry{
		Kind:        editable.Kind,
		CategoryID:  editable.CategoryID,
		Amount:      editable.Amount,
		Date:        editable.Date,
		Description: editable.Description,
	}
}

type LedgerEntryResponse struct {
	Data  *models.LedgerEntry `json:"data"`  // Data for the ledger entry
	Error *string             `json:"error"` // The error, if any occurred
}

type LedgerEntryListResponse struct {
	Data  []models.LedgerEntry `json:"data"`  // List of ledger entries
	Error *string              `json:"error"` // The error, if any occurred
}

type LedgerQueryFilter struct {
	Kind     string       `form:"kind"`     // EXPENSE or INCOME
	Year     int          `form:"year"`     // Year of the month filtered for
	Month    int          `form:"month"`    // Month filtered for, 1 to 12
	Category ez_uuid.UUID `form:"category"` // By ID of the category
}

// @Summary		Create ledger entry
// @Description	Creates a new ledger entry. The month it belongs to is derived from the date and created on first reference.
// @Tags			Ledger
// @Accept			json
// @Produce		json
// @Success		201		{object}	LedgerEntryResponse
// @Failure		400		{object}	LedgerEntryResponse
// @Failure		404		{object}	LedgerEntryResponse
// @Failure		409		{object}	LedgerEntryResponse
// @Failure		500		{object}	LedgerEntryResponse
// @Param			entry	body		LedgerEntryEditable	true	"Ledger entry"
// @Router			/v1/ledger [post]
func (co Controller) CreateLedgerEntry(c *gin.Context) {
	user := auth.CurrentUser(c)

	var editable LedgerEntryEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LedgerEntryResponse{Error: &s})
		return
	}

	if !editable.Kind.Valid() {
		s := models.ErrKindInvalid.Error()
		c.JSON(http.StatusBadRequest, LedgerEntryResponse{Error: &s})
		return
	}

	date := editable.Date
	if date.IsZero() {
		date = time.Now().In(time.UTC)
	}

	month, err := models.GetOrCreateMonth(models.DB, user.FamilyID, types.MonthOf(date))
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LedgerEntryResponse{Error: &s})
		return
	}

	entry := editable.model()
	entry.MonthID = month.ID
	entry.UserID = user.ID
	entry.Date = date

	err = models.DB.Create(&entry).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LedgerEntryResponse{Error: &s})
		return
	}

	c.JSON(http.StatusCreated, LedgerEntryResponse{Data: &entry})
}

// @Summary		Get ledger entries
// @Description	Returns the ledger entries of the caller's family
// @Tags			Ledger
// @Produce		json
// @Success		200	{object}	LedgerEntryListResponse
// @Failure		400	{object}	LedgerEntryListResponse
// @Failure		500	{object}	LedgerEntryListResponse
// @Param			kind		query	string	false	"Filter by kind, EXPENSE or INCOME"
// @Param			year		query	int		false	"Filter by year, together with month"
// @Param			month		query	int		false	"Filter by month, together with year"
// @Param			category	query	string	false	"Filter by category ID"
// @Router			/v1/ledger [get]
func (co Controller) GetLedgerEntries(c *gin.Context) {
	user := auth.CurrentUser(c)

	var filter LedgerQueryFilter
	err := c.Bind(&filter)
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, LedgerEntryListResponse{Error: &s})
		return
	}

	q := models.DB.
		Joins("JOIN months ON months.id = ledger_entries.month_id").
		Where("months.family_id = ?", user.FamilyID).
		Order("date DESC, ledger_entries.created_at DESC")

	if filter.Kind != "" {
		kind := models.Kind(filter.Kind)
		if !kind.Valid() {
			s := errKindParameter.Error()
			c.JSON(http.StatusBadRequest, LedgerEntryListResponse{Error: &s})
			return
		}
		q = q.Where("ledger_entries.kind = ?", kind)
	}

	if filter.Year != 0 || filter.Month != 0 {
		target, err := QueryMonth{Year: filter.Year, Month: filter.Month}.month()
		if err != nil {
			s := err.Error()
			c.JSON(http.StatusBadRequest, LedgerEntryListResponse{Error: &s})
			return
		}
		q = q.Where("months.month >= date(?)", target).Where("months.month < date(?)", target.AddDate(0, 1))
	}

	if filter.Category != ez_uuid.Nil {
		q = q.Where("ledger_entries.category_id = ?", filter.Category.UUID)
	}

	var entries []models.LedgerEntry
	err = q.Find(&entries).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LedgerEntryListResponse{Error: &s})
		return
	}

	c.JSON(http.StatusOK, LedgerEntryListResponse{Data: entries})
}

// @Summary		Get ledger entry
// @Description	Returns a specific ledger entry
// @Tags			Ledger
// @Produce		json
// @Success		200	{object}	LedgerEntryResponse
// @Failure		400	{object}	LedgerEntryResponse
// @Failure		404	{object}	LedgerEntryResponse
// @Failure		500	{object}	LedgerEntryResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/ledger/{id} [get]
func (co Controller) GetLedgerEntry(c *gin.Context) {
	uri, ok := bindURI(c)
	if !ok {
		return
	}

	entry, err := co.getLedgerEntry(c, uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LedgerEntryResponse{Error: &s})
		return
	}

	c.JSON(http.StatusOK, LedgerEntryResponse{Data: &entry})
}

// @Summary		Update ledger entry
// @Description	Update an existing ledger entry. Only values to be updated need to be specified. When the date moves to another month, the entry moves with it.
// @Tags			Ledger
// @Accept			json
// @Produce		json
// @Success		200		{object}	LedgerEntryResponse
// @Failure		400		{object}	LedgerEntryResponse
// @Failure		404		{object}	LedgerEntryResponse
// @Failure		409		{object}	LedgerEntryResponse
// @Failure		500		{object}	LedgerEntryResponse
// @Param			id		path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			entry	body		LedgerEntryEditable	true	"Ledger entry"
// @Router			/v1/ledger/{id} [patch]
func (co Controller) UpdateLedgerEntry(c *gin.Context) {
	user := auth.CurrentUser(c)

	uri, ok := bindURI(c)
	if !ok {
		return
	}

	entry, err := co.getLedgerEntry(c, uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LedgerEntryResponse{Error: &s})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, LedgerEntryEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LedgerEntryResponse{Error: &s})
		return
	}

	var data LedgerEntryEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LedgerEntryResponse{Error: &s})
		return
	}

	update := data.model()

	// A date change can move the entry into another month
	for _, field := range updateFields {
		if field != "Date" {
			continue
		}

		month, err := models.GetOrCreateMonth(models.DB, user.FamilyID, types.MonthOf(data.Date))
		if err != nil {
			s := err.Error()
			c.JSON(status(err), LedgerEntryResponse{Error: &s})
			return
		}

		if month.ID != entry.MonthID {
			update.MonthID = month.ID
			updateFields = append(updateFields, "MonthID")
		}
	}

	err = models.DB.Model(&entry).Select("", updateFields...).Updates(update).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LedgerEntryResponse{Error: &s})
		return
	}

	c.JSON(http.StatusOK, LedgerEntryResponse{Data: &entry})
}

// @Summary		Delete ledger entry
// @Description	Deletes a ledger entry. Entries in closed months cannot be deleted.
// @Tags			Ledger
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		409	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/ledger/{id} [delete]
func (co Controller) DeleteLedgerEntry(c *gin.Context) {
	uri, ok := bindURI(c)
	if !ok {
		return
	}

	entry, err := co.getLedgerEntry(c, uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = models.DB.Delete(&entry).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// getLedgerEntry loads a ledger entry by ID and verifies that it
// belongs to the caller's family through its month.
func (co Controller) getLedgerEntry(c *gin.Context, uri URIID) (models.LedgerEntry, error) {
	user := auth.CurrentUser(c)

	var entry models.LedgerEntry
	err := models.DB.First(&entry, uri.ID.UUID).Error
	if err != nil {
		return models.LedgerEntry{}, err
	}

	var month models.Month
	err = models.DB.First(&month, entry.MonthID).Error
	if err != nil {
		return models.LedgerEntry{}, err
	}

	if month.FamilyID != user.FamilyID {
		return models.LedgerEntry{}, fmt.Errorf("%w ledger entry matching your query", models.ErrResourceNotFound)
	}

	return entry, nil
}
