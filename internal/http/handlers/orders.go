package handlers

import (
	"net/http"

	"github.com/lnascimentosilva/library/internal/domain/models"
	"github.com/lnascimentosilva/library/internal/filter"
	"github.com/lnascimentosilva/library/internal/services"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	Orders services.OrderServices
}

type orderRequest struct {
	Items []models.NewOrderItem `json:"items"`
}

type statusRequest struct {
	Status models.OrderStatus `json:"status"`
}

// OrderView hides the customer's credentials and type-derived fields.
type OrderView struct {
	models.Order
	Customer models.PublicUser `json:"customer"`
}

func orderView(o models.Order) OrderView {
	return OrderView{Order: o, Customer: o.Customer.ToPublic()}
}

// POST /api/orders places an order for the caller.
func (h OrderHandler) Create(c *gin.Context) {
	var req orderRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	o, err := h.Orders.Add(c.Request.Context(), req.Items)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondCreated(c, o.ID)
}

// PUT /api/orders/:id/status
func (h OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req statusRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if err := h.Orders.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		RespondDomainError(c, err)
		return
	}
	respondUpdated(c)
}

// GET /api/orders/:id
func (h OrderHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	o, err := h.Orders.FindByID(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderView(o))
}

// GET /api/orders
func (h OrderHandler) List(c *gin.Context) {
	res, err := h.Orders.FindByFilter(c.Request.Context(), filter.Orders(queryParams(c)))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondPage(c, res, orderView)
}

// GET /api/orders/:id/receipt returns the receipt PDF inline.
func (h OrderHandler) Receipt(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	pdfBytes, filename, err := h.Orders.Receipt(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
