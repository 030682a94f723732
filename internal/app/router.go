package app

import (
	"study_buddy_backend/docs"
	"study_buddy_backend/internal/config"
	"study_buddy_backend/internal/middleware"
	"study_buddy_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 外部提供方登录
	a.registerOAuthRoutes(router, c)

	// 3. 需要授权的 AI 助手接口
	aiGroup := router.Group("/ai")
	aiGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerAgentRoutes(aiGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	router.GET("/", c.health.Status)
	router.GET("/api/health", c.health.Status)

	user := router.Group("/user")
	{
		user.POST("/signup", c.auth.Signup)
		user.POST("/login", c.auth.Login)
		user.POST("/request_reset", c.auth.RequestReset)
		user.POST("/reset_password", c.auth.ResetPassword)
		user.POST("/logout", middleware.AuthMiddleware(a.Config), c.auth.Logout)
	}
}

func (a *App) registerOAuthRoutes(router *gin.Engine, c *controllers) {
	auth := router.Group("/auth")
	{
		auth.GET("/:provider", c.oauth.Initiate)
		auth.GET("/:provider/callback", c.oauth.Callback)
	}
}

func (a *App) registerAgentRoutes(group *gin.RouterGroup, c *controllers) {
	group.POST("/quiz/:userId", c.quiz.Generate)

	search := group.Group("/search")
	{
		search.GET("/google", c.search.Google)
		search.GET("/bing", c.search.Bing)
		search.GET("/youtube", c.search.YouTube)
	}

	library := group.Group("/library")
	{
		library.GET("/openlibrary", c.library.OpenLibrary)
		library.GET("/gutendex", c.library.Gutendex)
	}

	group.POST("/suggestions", c.suggestion.Generate)

	group.POST("/documents", c.document.Generate)
	group.GET("/documents/download/:filename", c.document.Download)

	group.GET("/jobs", c.job.Listings)
}
