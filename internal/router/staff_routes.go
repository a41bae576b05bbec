package router

import (
	"github.com/labstack/echo/v4"

	"github.com/wavesrc/resource-center/internal/config"
	"github.com/wavesrc/resource-center/internal/middleware"
	"github.com/wavesrc/resource-center/internal/model"
)

// registerStaff mounts the write surface: taxonomy management, resource
// uploads and account administration. Everything requires a valid token
// with the STAFF or SUPERUSER role; superuser-only checks live in the
// handlers. Writes are rate-limited per user when Redis is available.
func registerStaff(e *echo.Echo, d Deps) {
	g := e.Group("/staff")
	g.Use(middleware.JWTAuth(d.Cfg.JWTSecret))
	g.Use(middleware.RequireRole(model.RoleStaff, model.RoleSuperuser))
	if d.Redis != nil {
		g.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), d.Redis))
	}

	g.POST("/categories/", d.Taxonomy.CreateCategory)
	g.PUT("/categories/:slug/", d.Taxonomy.UpdateCategory)
	g.DELETE("/categories/:slug/", d.Taxonomy.DeleteCategory)

	g.POST("/tags/", d.Taxonomy.CreateTag)
	g.PUT("/tags/:slug/", d.Taxonomy.UpdateTag)
	g.DELETE("/tags/:slug/", d.Taxonomy.DeleteTag)

	g.POST("/books/", d.Staff.CreateBook)
	g.PUT("/books/:slug/", d.Staff.UpdateBook)
	g.POST("/videos/", d.Staff.CreateVideo)
	g.PUT("/videos/:slug/", d.Staff.UpdateVideo)

	g.GET("/users/", d.Accounts.List)
	g.POST("/users/", d.Accounts.Create)
	g.PUT("/users/:id/flags/", d.Accounts.SetFlags)
	g.PUT("/users/:id/active/", d.Accounts.SetActive)
}
