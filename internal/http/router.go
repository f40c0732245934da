package api

import (
	"database/sql"
	stdhttp "net/http"

	"github.com/lnascimentosilva/library/internal/auth"
	intconfig "github.com/lnascimentosilva/library/internal/config"
	"github.com/lnascimentosilva/library/internal/domain"
	h "github.com/lnascimentosilva/library/internal/http/handlers"
	"github.com/lnascimentosilva/library/internal/http/middleware"
	"github.com/lnascimentosilva/library/internal/services"
	"github.com/lnascimentosilva/library/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Deps are the services the router exposes.
type Deps struct {
	DB         *sql.DB
	Tokens     auth.Tokens
	Authors    services.AuthorServices
	Categories services.CategoryServices
	Books      services.BookServices
	Users      services.UserServices
	Orders     services.OrderServices
	Audit      services.AuditServices
	Admin      services.AdminServices
}

func NewRouter(env intconfig.Env, d Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.CORS.AllowedOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		utils.Log().Warn("failed to set trusted proxies", zap.Error(err))
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":      "route not found",
			"code":       "not_found",
			"request_id": middleware.GetRequestID(c),
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	var (
		employee = middleware.RequireRoles(domain.RoleEmployee)
		admin    = middleware.RequireRoles(domain.RoleAdministrator)
		customer = middleware.RequireRoles(domain.RoleCustomer)
		anyone   = middleware.RequireRoles(domain.RoleCustomer, domain.RoleEmployee, domain.RoleAdministrator)
	)

	authH := h.AuthHandler{Users: d.Users, Tokens: d.Tokens}
	authors := h.AuthorHandler{Authors: d.Authors}
	categories := h.CategoryHandler{Categories: d.Categories}
	books := h.BookHandler{Books: d.Books}
	users := h.UserHandler{Users: d.Users}
	orders := h.OrderHandler{Orders: d.Orders}
	audit := h.AuditHandler{Audit: d.Audit}

	api := r.Group("/api", middleware.Authenticate(d.Tokens))
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck(d.DB))
		api.GET("/routes", h.Routes)

		api.POST("/auth/login", authH.Login)

		g := api.Group("/authors")
		g.POST("", employee, authors.Create)
		g.PUT("/:id", employee, authors.Update)
		g.GET("/:id", authors.Get)
		g.GET("", authors.List)

		g = api.Group("/categories")
		g.POST("", employee, categories.Create)
		g.PUT("/:id", employee, categories.Update)
		g.GET("/:id", employee, categories.Get)
		g.GET("", categories.List)

		g = api.Group("/books")
		g.POST("", employee, books.Create)
		g.PUT("/:id", employee, books.Update)
		g.GET("/:id", books.Get)
		g.GET("", books.List)

		g = api.Group("/users")
		g.POST("", users.Create)
		g.POST("/authenticate", authH.Authenticate)
		g.PUT("/:id", anyone, users.Update)
		g.PUT("/:id/password", anyone, users.UpdatePassword)
		g.GET("/:id", admin, users.Get)
		g.GET("", admin, users.List)

		g = api.Group("/orders")
		g.POST("", customer, orders.Create)
		g.PUT("/:id/status", anyone, orders.UpdateStatus)
		g.GET("/:id", anyone, orders.Get)
		g.GET("/:id/receipt", anyone, orders.Receipt)
		g.GET("", anyone, orders.List)

		api.GET("/logsaudit", admin, audit.List)

		if env.App.AllowDBReset && d.Admin != nil {
			api.DELETE("/db", h.AdminHandler{Admin: d.Admin}.ResetDB)
		}
	}

	h.SetRouter(r)
	return r
}
