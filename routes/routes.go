package routes

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/paradoks/clubhub/controllers"
	"github.com/paradoks/clubhub/middleware"
)

type Handlers struct {
	Auth         *controllers.AuthController
	User         *controllers.UserController
	Club         *controllers.ClubController
	Post         *controllers.PostController
	Announcement *controllers.AnnouncementController
	System       *controllers.SystemController
}

// SetupRoutes mounts the API under /api/v1. identity resolves the caller for
// every API request; guarded routes add RequireClub or RequireUser.
func SetupRoutes(router *gin.Engine, h Handlers, identity gin.HandlerFunc) {
	router.GET("/health", h.System.Health)
	router.GET("/files/:filename", h.System.File)

	api := router.Group("/api/v1", identity)
	clubOnly, userOnly := middleware.RequireClub(), middleware.RequireUser()

	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/logout", clubOnly, h.Auth.Logout)
		auth.GET("/me", clubOnly, h.Auth.Me)
		auth.GET("/sessions", clubOnly, h.Auth.Sessions)
		auth.DELETE("/user", userOnly, h.User.Delete)
	}

	user := api.Group("/auth/user")
	{
		user.POST("/register", h.User.Register)
		user.POST("/verify", h.User.Verify)
		user.POST("/login", h.User.Login)
		user.POST("/logout", userOnly, h.User.Logout)
		user.GET("/me", userOnly, h.User.GetCurrentUser)
		user.GET("/sessions", userOnly, h.User.GetActiveSessions)
	}

	clubs := api.Group("/clubs")
	{
		clubs.GET("", h.Club.List)
		clubs.PUT("", clubOnly, h.Club.Update)
		clubs.PUT("/description", clubOnly, h.Club.UpdateDescription)
		clubs.POST("/profile-picture", clubOnly, h.Club.UpdateProfilePicture)
		clubs.POST("/banner", clubOnly, h.Club.UpdateBanner)
		clubs.GET("/:id", h.Club.Get)
		clubs.GET("/:id/posts", h.Club.ListPosts)
		clubs.POST("/:id/membership", userOnly, h.Club.ToggleMembership)
		clubs.GET("/:id/members", h.Club.Members)
	}

	posts := api.Group("/posts")
	{
		posts.POST("", clubOnly, h.Post.Create)
		posts.GET("/:id", h.Post.Get)
		posts.PUT("/:id", clubOnly, h.Post.Update)
		posts.DELETE("/:id", clubOnly, h.Post.Delete)
	}

	api.GET("/announcements", h.Announcement.List)
}

// NewEngine returns a gin engine with recovery, access logging and all routes.
func NewEngine(logger *slog.Logger, h Handlers, identity gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.MaxMultipartMemory = 8 << 20
	router.Use(gin.Recovery(), middleware.RequestLogger(logger))
	SetupRoutes(router, h, identity)
	return router
}
