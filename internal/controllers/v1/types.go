package v1

import (
	"time"

	"github.com/famplan/backend/internal/types"
	ez_uuid "github.com/famplan/backend/internal/uuid"
	"github.com/gin-gonic/gin"
)

// URIID binds the resource ID from the request URI.
type URIID struct {
	ID ez_uuid.UUID `uri:"id" binding:"required" format:"UUID"` // ID of the resource
}

// QueryMonth binds a year and month from the query string.
type QueryMonth struct {
	Year  int `form:"year" example:"2024"`
	Month int `form:"month" example:"7"` // 1 to 12
}

// month validates the query parameters and converts them to a Month.
func (q QueryMonth) month() (types.Month, error) {
	if q.Year == 0 || q.Month == 0 {
		return types.Month{}, errYearMonthRequired
	}

	if q.Month < 1 || q.Month > 12 {
		return types.Month{}, errMonthOutOfRange
	}

	return types.NewMonth(q.Year, time.Month(q.Month)), nil
}

func bindURI(c *gin.Context) (URIID, bool) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return URIID{}, false
	}

	return uri, true
}
