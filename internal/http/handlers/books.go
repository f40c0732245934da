package handlers

import (
	"net/http"

	"github.com/lnascimentosilva/library/internal/domain/models"
	"github.com/lnascimentosilva/library/internal/filter"
	"github.com/lnascimentosilva/library/internal/services"

	"github.com/gin-gonic/gin"
)

type BookHandler struct {
	Books services.BookServices
}

type bookRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	CategoryID  int64   `json:"categoryId"`
	AuthorIDs   []int64 `json:"authorIds"`
	Price       float64 `json:"price"`
}

func (r bookRequest) toBook(id int64) models.Book {
	b := models.Book{
		ID:          id,
		Title:       r.Title,
		Description: r.Description,
		Category:    models.Category{ID: r.CategoryID},
		Price:       r.Price,
	}
	for _, aid := range r.AuthorIDs {
		b.Authors = append(b.Authors, models.Author{ID: aid})
	}
	return b
}

// POST /api/books
func (h BookHandler) Create(c *gin.Context) {
	var req bookRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	b, err := h.Books.Add(c.Request.Context(), req.toBook(0))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondCreated(c, b.ID)
}

// PUT /api/books/:id
func (h BookHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req bookRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if err := h.Books.Update(c.Request.Context(), req.toBook(id)); err != nil {
		RespondDomainError(c, err)
		return
	}
	respondUpdated(c)
}

// GET /api/books/:id
func (h BookHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	b, err := h.Books.FindByID(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// GET /api/books
func (h BookHandler) List(c *gin.Context) {
	res, err := h.Books.FindByFilter(c.Request.Context(), filter.Books(queryParams(c)))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondPage(c, res, identity[models.Book])
}
