package handlers

import (
	"net/http"
	"time"

	"github.com/lnascimentosilva/library/internal/auth"
	"github.com/lnascimentosilva/library/internal/domain"
	"github.com/lnascimentosilva/library/internal/domain/models"
	"github.com/lnascimentosilva/library/internal/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	Users  services.UserServices
	Tokens auth.Tokens
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expiresAt"`
	User      models.PublicUser `json:"user"`
}

// Login handles POST /api/auth/login.
func (h AuthHandler) Login(c *gin.Context) {
	var req credentials
	if !BindJSONOrError(c, &req) {
		return
	}

	u, err := h.Users.FindByEmailAndPassword(c.Request.Context(), req.Email, req.Password)
	if domain.IsNotFound(err) {
		respondError(c, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
		return
	}
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	token, exp, err := h.Tokens.Issue(u.Email, u.Roles())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, LoginResponse{Token: token, ExpiresAt: exp, User: u.ToPublic()})
}

// Authenticate handles POST /api/users/authenticate. It answers 404 when
// the credentials do not match.
func (h AuthHandler) Authenticate(c *gin.Context) {
	var req credentials
	if !BindJSONOrError(c, &req) {
		return
	}
	u, err := h.Users.FindByEmailAndPassword(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, u.ToPublic())
}
