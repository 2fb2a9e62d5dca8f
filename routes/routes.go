package routes

import (
	"Gin_postgres_redis_carnival_tool/app"
	"Gin_postgres_redis_carnival_tool/controllers"
	"time"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	// 控制器与依赖
	s := controllers.GetSrv(a)
	authCtl := controllers.GetAuthController(s)
	eventCtl := controllers.NewEventController(s)
	teamCtl := controllers.NewTeamController(s)
	inviteCtl := controllers.GetInviteController(s)
	notifCtl := controllers.NewNotificationController(s)
	chatCtl := controllers.NewChatController(s)
	uc := controllers.GetUserController(s)

	// 复用的中间件
	authMW := app.AuthRequired(s.AppSessions(), s.Repo)
	adminMW := app.AdminOnly()
	seenMW := app.TouchLastSeen(s.Repo, a.RDB, 5*time.Minute)

	// ------------------------------
	// 注册 / 登录（公开）
	// ------------------------------
	auth := r.Group("/auth")
	{
		auth.POST("/register", authCtl.Register)
		auth.POST("/login", authCtl.Login)
	}
	authed := auth.Group("", authMW, seenMW)
	{
		authed.POST("/logout", authCtl.Logout)
		authed.GET("/whoami", authCtl.WhoAmI)
	}

	// ------------------------------
	// 活动（浏览公开，报名要登录）
	// ------------------------------
	events := r.Group("/api/events")
	{
		events.GET("", eventCtl.ListEvents)
		events.GET("/:id", eventCtl.GetEvent)
	}
	eventsAuthed := events.Group("", authMW, seenMW)
	{
		eventsAuthed.POST("/:id/register", eventCtl.Register)
		eventsAuthed.GET("/registrations/mine", eventCtl.MyRegistrations)
	}

	// ------------------------------
	// 队伍 + 邀请流程
	// ------------------------------
	teams := r.Group("/api/teams", authMW, seenMW)
	{
		teams.POST("", teamCtl.CreateTeam)
		teams.GET("/mine", teamCtl.MyTeam)
		teams.GET("/:id/members", teamCtl.ListMembers)

		teams.POST("/invite", inviteCtl.CreateInvite)
		teams.POST("/invitation/:id/respond", inviteCtl.Respond)
		teams.POST("/invitation/withdraw", inviteCtl.Withdraw)
		teams.GET("/invitations", inviteCtl.MyInvitations)
		teams.GET("/:id/invitations", inviteCtl.TeamInvitations)
	}

	// ------------------------------
	// 通知 + 推送订阅
	// ------------------------------
	notifs := r.Group("/api/notifications", authMW, seenMW)
	{
		notifs.GET("", notifCtl.List)
		notifs.POST("/:id/read", notifCtl.MarkRead)
		notifs.POST("/read-all", notifCtl.MarkAllRead)
	}
	push := r.Group("/api/push", authMW)
	{
		push.POST("/subscribe", notifCtl.Subscribe)
		push.POST("/unsubscribe", notifCtl.Unsubscribe)
	}

	// ------------------------------
	// 小助手（公开）
	// ------------------------------
	r.GET("/api/chat", chatCtl.Ask)

	// ------------------------------
	// 管理（仅管理员）
	// ------------------------------
	admin := r.Group("/api", authMW, adminMW)
	{
		admin.GET("/users", uc.ListUsers)
		admin.GET("/users/:id", uc.GetUser)
		admin.POST("/users/:id/admin", uc.SetAdmin)
		admin.POST("/events", eventCtl.CreateEvent)
	}
}
