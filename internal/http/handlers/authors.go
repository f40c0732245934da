package handlers

import (
	"net/http"

	"github.com/lnascimentosilva/library/internal/domain/models"
	"github.com/lnascimentosilva/library/internal/filter"
	"github.com/lnascimentosilva/library/internal/services"

	"github.com/gin-gonic/gin"
)

type AuthorHandler struct {
	Authors services.AuthorServices
}

type authorRequest struct {
	Name string `json:"name"`
}

// POST /api/authors
func (h AuthorHandler) Create(c *gin.Context) {
	var req authorRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	a, err := h.Authors.Add(c.Request.Context(), models.Author{Name: req.Name})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondCreated(c, a.ID)
}

// PUT /api/authors/:id
func (h AuthorHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req authorRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if err := h.Authors.Update(c.Request.Context(), models.Author{ID: id, Name: req.Name}); err != nil {
		RespondDomainError(c, err)
		return
	}
	respondUpdated(c)
}

// GET /api/authors/:id
func (h AuthorHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	a, err := h.Authors.FindByID(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// GET /api/authors
func (h AuthorHandler) List(c *gin.Context) {
	res, err := h.Authors.FindByFilter(c.Request.Context(), filter.Authors(queryParams(c)))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondPage(c, res, identity[models.Author])
}
