package handlers

import (
	"net/http"

	"github.com/lnascimentosilva/library/internal/domain/models"
	"github.com/lnascimentosilva/library/internal/filter"
	"github.com/lnascimentosilva/library/internal/services"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	Audit services.AuditServices
}

// GET /api/logsaudit
func (h AuditHandler) List(c *gin.Context) {
	res, err := h.Audit.FindByFilter(c.Request.Context(), filter.AuditLogs(queryParams(c)))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondPage(c, res, identity[models.AuditLog])
}

type AdminHandler struct {
	Admin services.AdminServices
}

// DELETE /api/db clears every table. Only routed when resets are enabled.
func (h AdminHandler) ResetDB(c *gin.Context) {
	if err := h.Admin.ResetAll(c.Request.Context()); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
