package handlers

import (
	"net/http"
	"strconv"

	"github.com/lnascimentosilva/library/internal/domain"
	"github.com/lnascimentosilva/library/internal/filter"

	"github.com/gin-gonic/gin"
)

// Paging carries the total row count of a list response.
type Paging struct {
	TotalRecords int64 `json:"totalRecords"`
}

type PageResponse[T any] struct {
	Paging  Paging `json:"paging"`
	Entries []T    `json:"entries"`
}

type CreatedResponse struct {
	ID int64 `json:"id"`
}

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		respondError(c, http.StatusBadRequest, "invalid_payload", "request body is empty")
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_payload", "invalid payload: "+err.Error())
		return false
	}
	return true
}

// pathID parses the :id segment. A malformed id answers 404 since no
// entity can carry it.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusNotFound, "not_found", "resource not found")
		return 0, false
	}
	return id, true
}

func queryParams(c *gin.Context) filter.Params {
	return filter.FromQuery(c.Request.URL.Query())
}

func respondCreated(c *gin.Context, id int64) {
	c.JSON(http.StatusCreated, CreatedResponse{ID: id})
}

func respondUpdated(c *gin.Context) {
	c.Status(http.StatusOK)
}

func respondPage[T any, O any](c *gin.Context, res domain.PaginatedResult[T], view func(T) O) {
	entries := make([]O, 0, len(res.Rows))
	for _, r := range res.Rows {
		entries = append(entries, view(r))
	}
	c.JSON(http.StatusOK, PageResponse[O]{
		Paging:  Paging{TotalRecords: res.TotalRowCount},
		Entries: entries,
	})
}

func identity[T any](v T) T { return v }
