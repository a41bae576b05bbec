package router

import (
	"github.com/labstack/echo/v4"

	"github.com/wavesrc/resource-center/internal/config"
	"github.com/wavesrc/resource-center/internal/middleware"
)

// registerMember mounts the logged-in browse pages and the profile API.
// Browse pages use the redirect middleware so an anonymous browser
// lands on the login page with a next parameter; the profile API is a
// plain JSON surface and answers 401 instead.
func registerMember(e *echo.Echo, d Deps) {
	pages := e.Group("")
	pages.Use(middleware.JWTAuthRedirect(d.Cfg.JWTSecret, d.Cfg.LoginPath))
	if d.Redis != nil {
		pages.Use(middleware.NewRedisCache(config.LoadCacheConfig(), d.Redis))
	}
	pages.GET("/books/", d.Browse.ListBooks)
	pages.GET("/books/:slug/", d.Browse.GetBook)
	pages.GET("/videos/", d.Browse.ListVideos)
	pages.GET("/videos/:slug/", d.Browse.GetVideo)
	pages.GET("/search/resources", d.Search.Resources)

	api := e.Group("/accounts")
	api.Use(middleware.JWTAuth(d.Cfg.JWTSecret))
	api.GET("/me/", d.Auth.Me)
	api.GET("/profile/", d.Profile.Get)
	api.PATCH("/profile/", d.Profile.Update)
	api.POST("/change-password/", d.Profile.ChangePassword)
}
