package routes

import (
	"fmt"
	"net/http"

	"github.com/SShoshia/book-giveaway/config"
	"github.com/SShoshia/book-giveaway/controllers"
	"github.com/SShoshia/book-giveaway/middleware"
	"github.com/SShoshia/book-giveaway/templates"
	"github.com/SShoshia/book-giveaway/utils"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// SetupRouter initializes and returns the Gin router with all routes
func SetupRouter(cfg *config.Config, h *controllers.Handler) (*gin.Engine, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	pages, err := templates.Load()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	router.SetHTMLTemplate(pages)

	router.Use(utils.RequestIDMiddleware())
	router.Use(utils.LoggerMiddleware())
	router.Use(utils.RecoveryMiddleware())
	router.Use(utils.SecurityHeadersMiddleware())

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		MaxAge:   cfg.SessionMaxAge,
		Path:     "/",
		Secure:   cfg.IsProduction(),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions(utils.SessionCookieName, store))
	router.Use(middleware.LoadUser(h.Identity, h.JWTSecret))

	router.NoRoute(func(c *gin.Context) {
		utils.RenderError(c, utils.NotFoundError("Page not found", nil))
	})

	initPublicRoutes(router, h)
	initProtectedRoutes(router, h)

	return router, nil
}

// initPublicRoutes registers the routes open to anonymous visitors
func initPublicRoutes(router *gin.Engine, h *controllers.Handler) {
	router.GET("/", h.Root)
	router.GET("/home", h.Home)
	router.GET("/healthz", h.Health)

	router.GET("/register", h.ShowRegister)
	router.POST("/register", h.Register)
	router.GET("/login", h.ShowLogin)
	router.POST("/login", h.Login)

	router.POST("/api/token", h.IssueToken)
}

// initProtectedRoutes registers the routes that require a logged-in user
func initProtectedRoutes(router *gin.Engine, h *controllers.Handler) {
	protected := router.Group("/")
	protected.Use(middleware.RequireAuth())
	{
		protected.GET("/logout", h.Logout)
		protected.GET("/dashboard", h.Dashboard)

		protected.POST("/books", h.CreateBook)

		protected.GET("/manage_book", h.ShowManageBook)
		protected.POST("/manage_book", h.ManageBook)
		protected.GET("/manage_book/:book_id", h.ShowManageBook)
		protected.POST("/manage_book/:book_id", h.ManageBook)
		protected.POST("/delete_book/:book_id", h.DeleteBook)

		protected.POST("/update_interest", h.UpdateInterest)
		protected.GET("/view_interested_users/:book_id", h.ViewInterestedUsers)
		protected.POST("/view_interested_users/:book_id", h.TransferBook)
	}
}
