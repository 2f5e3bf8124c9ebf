package app

import (
	"debate_backend/docs"
	"debate_backend/internal/config"
	"debate_backend/internal/middleware"
	"debate_backend/internal/model"
	"debate_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/api/health", c.health.HealthCheck)

	adminOnly := []gin.HandlerFunc{middleware.AuthMiddleware(cfg), middleware.RequireKind(model.PrincipalAdmin)}

	// 1. 辩论内容（读公开，写需要管理员）
	a.registerDebateRoutes(router, c, cfg, adminOnly)

	// 2. 附件与证据链接
	a.registerFileRoutes(router, c, adminOnly)

	// 3. 管理后台
	a.registerAdminRoutes(router, c, adminOnly)

	// 4. 联系留言
	a.registerContactRoutes(router, c, adminOnly)

	// 5. 终端用户认证
	a.registerUserAuthRoutes(router, c, cfg)

	// 6. 实时投票推送
	router.GET("/ws/votes", c.live.Votes)
}

func (a *App) registerDebateRoutes(router *gin.Engine, c *controllers, cfg *config.Config, adminOnly []gin.HandlerFunc) {
	topics := router.Group("/topics")
	{
		topics.GET("", c.topic.ListTopics)
		topics.GET("/:id", c.topic.GetTopic)

		admin := topics.Group("", adminOnly...)
		admin.POST("", c.topic.CreateTopic)
		admin.PUT("/:id", c.topic.UpdateTopic)
		admin.DELETE("/:id", c.topic.DeleteTopic)
	}

	questions := router.Group("/questions")
	{
		questions.GET("/topic/:topicId", c.question.ListByTopic)
		questions.GET("/:id", c.question.GetQuestion)
		// 可匿名提问，登录后使用令牌身份作为默认作者
		questions.POST("", middleware.TryAuthMiddleware(cfg), c.question.CreateQuestion)
		questions.PUT("/:id/vote", c.question.Vote)

		admin := questions.Group("", adminOnly...)
		admin.PUT("/:id", c.question.UpdateQuestion)
		admin.DELETE("/:id", c.question.DeleteQuestion)
	}

	replies := router.Group("/replies")
	{
		replies.GET("/question/:questionId", c.reply.ListByQuestion)
		replies.GET("/:id", c.reply.GetReply)
		replies.POST("", middleware.TryAuthMiddleware(cfg), c.reply.CreateReply)
		replies.PUT("/:id/vote", c.reply.Vote)

		admin := replies.Group("", adminOnly...)
		admin.PUT("/:id", c.reply.UpdateReply)
		admin.DELETE("/:id", c.reply.DeleteReply)
	}
}

func (a *App) registerFileRoutes(router *gin.Engine, c *controllers, adminOnly []gin.HandlerFunc) {
	files := router.Group("/api/files")
	{
		files.POST("/upload", c.file.Upload)
		files.GET("/attachments", c.file.ListAttachments)
		files.POST("/evidence-url", c.file.AddEvidence)
		files.GET("/evidence-urls", c.file.ListEvidence)

		admin := files.Group("", adminOnly...)
		admin.DELETE("/attachments/:id", c.file.DeleteAttachment)
		admin.DELETE("/evidence-url/:id", c.file.DeleteEvidence)
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, adminOnly []gin.HandlerFunc) {
	admin := router.Group("/admin")
	{
		admin.POST("/login", c.admin.Login)
		admin.POST("/verify", c.admin.Verify)
		admin.GET("/guidelines", c.admin.Guidelines)
		admin.GET("/faq", c.admin.FAQ)

		authorized := admin.Group("", adminOnly...)
		authorized.GET("/guidelines/all", c.admin.AllGuidelines)
		authorized.POST("/guidelines", c.admin.CreateGuideline)
		authorized.PUT("/guidelines/:id", c.admin.UpdateGuideline)
		authorized.DELETE("/guidelines/:id", c.admin.DeleteGuideline)
	}
}

func (a *App) registerContactRoutes(router *gin.Engine, c *controllers, adminOnly []gin.HandlerFunc) {
	contact := router.Group("/contact")
	{
		contact.POST("", c.contact.Submit)

		messages := contact.Group("/messages", adminOnly...)
		messages.GET("", c.contact.ListMessages)
		messages.GET("/unread", c.contact.ListUnread)
		messages.PUT("/:id/read", c.contact.MarkRead)
		messages.PUT("/:id/unread", c.contact.MarkUnread)
		messages.DELETE("/:id", c.contact.DeleteMessage)
	}
}

func (a *App) registerUserAuthRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	auth := router.Group("/auth")
	{
		auth.POST("/google", c.userAuth.GoogleLogin)
		auth.GET("/validate", c.userAuth.Validate)
		auth.POST("/logout", c.userAuth.Logout)
		auth.GET("/me", middleware.AuthMiddleware(cfg), middleware.RequireKind(model.PrincipalUser), c.userAuth.Me)
	}
}
