package handlers

import (
	"context"
	"net/http"

	"github.com/lnascimentosilva/library/internal/domain"
	"github.com/lnascimentosilva/library/internal/domain/models"
	"github.com/lnascimentosilva/library/internal/filter"
	"github.com/lnascimentosilva/library/internal/http/middleware"
	"github.com/lnascimentosilva/library/internal/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	Users services.UserServices
}

type userRequest struct {
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Type     models.UserType `json:"type"`
}

type passwordRequest struct {
	Password string `json:"password"`
}

// POST /api/users is public signup. Employee accounts are never created here.
func (h UserHandler) Create(c *gin.Context) {
	var req userRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.Type == models.UserEmployee {
		RespondDomainError(c, domain.ForbiddenError{Msg: "employee accounts cannot be created through signup"})
		return
	}
	u, err := h.Users.Add(c.Request.Context(), models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Type:     req.Type,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondCreated(c, u.ID)
}

// authorizeSelf allows the caller to act on id when it is their own account
// or when they are an administrator.
func (h UserHandler) authorizeSelf(ctx context.Context, actor domain.Actor, id int64) error {
	if actor.HasRole(domain.RoleAdministrator) {
		return nil
	}
	self, err := h.Users.FindByEmail(ctx, actor.Email)
	if domain.IsNotFound(err) {
		return domain.ForbiddenError{}
	}
	if err != nil {
		return err
	}
	if self.ID != id {
		return domain.ForbiddenError{}
	}
	return nil
}

// PUT /api/users/:id changes name and email.
func (h UserHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req userRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	ctx := c.Request.Context()
	if err := h.authorizeSelf(ctx, middleware.Actor(c), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	if err := h.Users.Update(ctx, models.User{ID: id, Name: req.Name, Email: req.Email}); err != nil {
		RespondDomainError(c, err)
		return
	}
	respondUpdated(c)
}

// PUT /api/users/:id/password
func (h UserHandler) UpdatePassword(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req passwordRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	ctx := c.Request.Context()
	if err := h.authorizeSelf(ctx, middleware.Actor(c), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	if err := h.Users.UpdatePassword(ctx, id, req.Password); err != nil {
		RespondDomainError(c, err)
		return
	}
	respondUpdated(c)
}

// GET /api/users/:id
func (h UserHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	u, err := h.Users.FindByID(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, u.ToPublic())
}

// GET /api/users
func (h UserHandler) List(c *gin.Context) {
	res, err := h.Users.FindByFilter(c.Request.Context(), filter.Users(queryParams(c)))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondPage(c, res, func(u models.User) models.PublicUser { return u.ToPublic() })
}
