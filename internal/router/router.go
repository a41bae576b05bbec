// Package router wires handlers and middleware onto the Echo instance.
// Routes fall into four tiers: public (health, landing page, account
// endpoints), member pages behind the login redirect, the JSON-gated
// profile API, and the staff surface behind role enforcement.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/wavesrc/resource-center/internal/config"
	"github.com/wavesrc/resource-center/internal/handler"
)

// Deps carries everything route registration needs. The Redis client
// may be nil, in which case response caching and rate limiting are
// skipped.
type Deps struct {
	Cfg      config.Config
	Redis    *redis.Client
	Auth     *handler.AuthHandler
	Profile  *handler.ProfileHandler
	Browse   *handler.BrowseHandler
	Search   *handler.SearchHandler
	Taxonomy *handler.TaxonomyHandler
	Staff    *handler.StaffResourceHandler
	Accounts *handler.StaffUserHandler
}

// Register mounts all route tiers on e.
func Register(e *echo.Echo, d Deps) {
	registerPublic(e, d)
	registerMember(e, d)
	registerStaff(e, d)
}

// registerPublic mounts the routes a guest can reach: the health probe,
// the landing-page counters, the taxonomy listings and the account
// endpoints.
func registerPublic(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)
	e.GET("/", d.Browse.Home)
	e.GET("/categories/", d.Taxonomy.ListCategories)
	e.GET("/tags/", d.Taxonomy.ListTags)

	g := e.Group("/accounts")
	g.POST("/register/", d.Auth.Register)
	g.POST("/login/", d.Auth.Login)
	g.POST("/refresh/", d.Auth.Refresh)
	g.POST("/logout/", d.Auth.Logout)
	g.POST("/password-reset/", d.Auth.PasswordResetRequest)
	g.POST("/password-reset-confirm/", d.Auth.PasswordResetConfirm)
}
