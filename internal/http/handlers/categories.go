package handlers

import (
	"net/http"

	"github.com/lnascimentosilva/library/internal/domain/models"
	"github.com/lnascimentosilva/library/internal/services"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	Categories services.CategoryServices
}

type categoryRequest struct {
	Name string `json:"name"`
}

// POST /api/categories
func (h CategoryHandler) Create(c *gin.Context) {
	var req categoryRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	cat, err := h.Categories.Add(c.Request.Context(), models.Category{Name: req.Name})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondCreated(c, cat.ID)
}

// PUT /api/categories/:id
func (h CategoryHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req categoryRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if err := h.Categories.Update(c.Request.Context(), models.Category{ID: id, Name: req.Name}); err != nil {
		RespondDomainError(c, err)
		return
	}
	respondUpdated(c)
}

// GET /api/categories/:id
func (h CategoryHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	cat, err := h.Categories.FindByID(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

// GET /api/categories returns every category ordered by name.
func (h CategoryHandler) List(c *gin.Context) {
	all, err := h.Categories.FindAll(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, all)
}
