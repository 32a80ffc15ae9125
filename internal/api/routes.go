package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quickpolls/internal/api/handlers"
	"quickpolls/internal/middleware"
	"quickpolls/internal/models"
	"quickpolls/internal/service"
)

func SetupRoutes(r *gin.Engine, services *service.Services) {
	// 初始化 handlers
	authHandler := handlers.NewAuthHandler(services.User)
	userHandler := handlers.NewUserHandler(services.User)
	pollHandler := handlers.NewPollHandler(services.Poll, services.Comment)
	commentHandler := handlers.NewCommentHandler(services.Comment)
	resultsHandler := handlers.NewResultsHandler(services.Results, services.Poll)

	// API 路由群組
	api := r.Group("/api")

	// 處理 404 錯誤
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": gin.H{"code": 40400, "message": "Not found"},
		})
	})

	// 公開路由
	{
		// 用戶認證相關
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)

		// 基本的健康檢查
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status": "ok",
			})
		})
	}

	// 需要驗證的路由
	authorized := api.Group("/")
	authorized.Use(middleware.Auth(services.User))
	{
		// 投票相關
		polls := authorized.Group("/polls")
		{
			polls.GET("", pollHandler.ListPolls)
			polls.POST("", pollHandler.CreatePoll)
			polls.GET("/:id", pollHandler.GetPoll)
			polls.PUT("/:id", pollHandler.UpdatePoll)
			polls.DELETE("/:id", pollHandler.DeletePoll)

			// 生命週期轉換
			polls.PUT("/:id/complete", pollHandler.CompletePoll)
			polls.PUT("/:id/resume", pollHandler.ResumePoll)

			// 投票與留言
			polls.POST("/vote/:optionId", pollHandler.Vote)
			polls.POST("/:id/comment", pollHandler.LeaveComment)

			// 即時結果訂閱（WebSocket 連接點）
			polls.GET("/:id/ws", resultsHandler.Subscribe)
		}

		// 留言相關
		comments := authorized.Group("/comments")
		{
			comments.GET("/:id", commentHandler.GetComment)
			comments.PUT("/:id", commentHandler.UpdateComment)
			comments.DELETE("/:id", commentHandler.DeleteComment)
		}

		// 用戶相關
		users := authorized.Group("/users")
		{
			users.GET("/:username", userHandler.GetUser)
			users.GET("/:username/polls", userHandler.GetUserPolls)

			// 本人或管理人員
			users.PUT("/:username/profile", userHandler.UpdateProfile)
			users.PUT("/:username/email", userHandler.UpdateEmail)
			users.PUT("/:username/change_password", userHandler.ChangePassword)

			// 需要 Moderator 以上
			moderators := users.Group("/")
			moderators.Use(middleware.RequireGroup(models.GroupModerator.ID))
			{
				moderators.PUT("/:username/verify", userHandler.Verify)
				moderators.PUT("/:username/cancel_verification", userHandler.CancelVerification)
				moderators.PUT("/:username/ban", userHandler.Ban)
				moderators.PUT("/:username/unban", userHandler.Unban)
				moderators.PUT("/:username/change_points", userHandler.ChangePoints)
			}

			// 需要 Admin 以上
			admins := users.Group("/")
			admins.Use(middleware.RequireGroup(models.GroupAdmin.ID))
			{
				admins.PUT("/:username/change_group", userHandler.ChangeGroup)
				admins.PUT("/:username", userHandler.UpdateUser)
				admins.DELETE("/:username", userHandler.DeleteUser)
			}
		}

		// 用戶列表與創建
		authorized.GET("/users", middleware.RequireGroup(models.GroupModerator.ID), userHandler.ListUsers)
		authorized.POST("/users", middleware.RequireGroup(models.GroupAdmin.ID), userHandler.CreateUser)
	}
}
