package router

import (
	"SkillSwap/internal/config"
	"SkillSwap/internal/handler"
	"SkillSwap/internal/middleware"
	"SkillSwap/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

func InitRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.MetricsMiddleware())

	notifier := service.NewNotificationService(db, cfg.SMTP)
	emailSvc := service.NewEmailService(cfg.SMTP)

	user := handler.NewUserHandler(service.NewUserService(db, emailSvc))
	email := handler.NewEmailHandler(emailSvc)
	skill := handler.NewSkillHandler(service.NewSkillService(db, notifier))
	request := handler.NewSkillRequestHandler(service.NewSkillRequestService(db, notifier))
	review := handler.NewReviewHandler(service.NewReviewService(db, notifier))
	message := handler.NewMessageHandler(service.NewMessageService(db, notifier))
	meeting := handler.NewMeetingHandler(service.NewMeetingService(db, notifier))
	notification := handler.NewNotificationHandler(notifier)
	admin := handler.NewAdminHandler(service.NewAdminService(db))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	emailGroup := r.Group("/api/email")
	{
		emailGroup.POST("/:scope/code", email.SendCode)
	}

	userGroup := r.Group("/api/user")
	{
		userGroup.POST("/register", user.Register)
		userGroup.POST("/login", user.Login)
		userGroup.POST("/reset", user.ResetPassword)
	}

	tokenGroup := r.Group("/api/token")
	{
		tokenGroup.POST("/refresh", user.TokenRefresh)
	}

	authGroup := r.Group("/api/auth")
	authGroup.Use(middleware.AuthMiddleware())
	{
		authGroup.POST("/logout", user.Logout)
		authGroup.POST("/change-password", user.ChangePassword)
		authGroup.GET("/me", user.Me)
		authGroup.PUT("/profile", user.UpdateProfile)
		authGroup.DELETE("/account", user.DeleteAccount)
	}

	userInfoGroup := r.Group("/api/users")
	userInfoGroup.Use(middleware.AuthMiddleware())
	{
		userInfoGroup.GET("/search", user.Search)
		userInfoGroup.GET("/:id", user.Profile)
	}

	skillGroup := r.Group("/api/skill")
	skillGroup.Use(middleware.AuthMiddleware())
	{
		skillGroup.POST("/create", skill.Create)
		skillGroup.GET("/list", skill.List)
		skillGroup.GET("/mine", skill.Mine)
		skillGroup.GET("/categories/popular", skill.PopularCategories)
		skillGroup.GET("/:id", skill.Detail)
		skillGroup.PUT("/:id", skill.Update)
		skillGroup.DELETE("/:id", skill.Delete)
		skillGroup.GET("/:id/reviews", review.ListBySkill)
	}

	requestGroup := r.Group("/api/request")
	requestGroup.Use(middleware.AuthMiddleware())
	{
		requestGroup.POST("/create", request.Create)
		requestGroup.GET("/mine", request.ListMine)
		requestGroup.GET("/incoming", request.ListIncoming)
		requestGroup.GET("/:id", request.Get)
		requestGroup.POST("/:id/approve", request.Approve)
		requestGroup.POST("/:id/reject", request.Reject)
		requestGroup.POST("/:id/start", request.Start)
		requestGroup.POST("/:id/complete", request.Complete)
	}

	reviewGroup := r.Group("/api/review")
	reviewGroup.Use(middleware.AuthMiddleware())
	{
		reviewGroup.POST("/create", review.Create)
		reviewGroup.PUT("/:id", review.Update)
		reviewGroup.DELETE("/:id", review.Delete)
	}

	messageGroup := r.Group("/api/message")
	messageGroup.Use(middleware.AuthMiddleware())
	{
		messageGroup.POST("/send", message.Send)
		messageGroup.GET("/conversations", message.Conversations)
		messageGroup.GET("/unread", message.UnreadTotal)
		messageGroup.GET("/history/:id", message.History)
		messageGroup.POST("/read/:id", message.MarkRead)
		messageGroup.GET("/requests", message.PendingRequests)
		messageGroup.POST("/requests/:id/accept", message.AcceptRequest)
		messageGroup.POST("/requests/:id/decline", message.DeclineRequest)
		messageGroup.POST("/block", message.Block)
		messageGroup.POST("/unblock", message.Unblock)
		messageGroup.GET("/blocked", message.BlockedUsers)
	}

	meetingGroup := r.Group("/api/meeting")
	meetingGroup.Use(middleware.AuthMiddleware())
	{
		meetingGroup.POST("/create", meeting.Create)
		meetingGroup.GET("/upcoming", meeting.Upcoming)
		meetingGroup.GET("/past", meeting.Past)
		meetingGroup.GET("/all", meeting.All)
		meetingGroup.GET("/calendar", meeting.Calendar)
		meetingGroup.GET("/:id", meeting.Detail)
		meetingGroup.PUT("/:id", meeting.Update)
		meetingGroup.POST("/:id/status", meeting.UpdateStatus)
		meetingGroup.DELETE("/:id", meeting.Delete)
	}

	notificationGroup := r.Group("/api/notification")
	notificationGroup.Use(middleware.AuthMiddleware())
	{
		notificationGroup.GET("/list", notification.List)
		notificationGroup.GET("/unread", notification.UnreadCount)
		notificationGroup.POST("/read/:id", notification.MarkRead)
		notificationGroup.POST("/read-all", notification.MarkAllRead)
	}

	reportGroup := r.Group("/api/report")
	reportGroup.Use(middleware.AuthMiddleware())
	{
		reportGroup.POST("/create", admin.Report)
	}

	adminGroup := r.Group("/api/admin")
	adminGroup.Use(middleware.AuthMiddleware(), middleware.RequireAdmin())
	{
		adminGroup.GET("/stats", admin.Stats)
		adminGroup.GET("/reports", admin.ListReports)
		adminGroup.POST("/reports/:id/resolve", admin.ResolveReport)
		adminGroup.DELETE("/skill/:id", admin.RemoveSkill)
		adminGroup.DELETE("/review/:id", admin.RemoveReview)
		adminGroup.DELETE("/user/:id", admin.RemoveUser)
		adminGroup.POST("/request/:id/status", admin.ForceRequestStatus)
	}

	return r
}
