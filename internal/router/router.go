package router

import (
	"time"

	"github.com/aswathiir/worksyncpluspro/internal/handlers"
	"github.com/aswathiir/worksyncpluspro/internal/middleware"
	"github.com/aswathiir/worksyncpluspro/internal/types"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/health/db", handlers.DatabaseHealthCheck)
		api.GET("/ws/:channel_id", middleware.AuthMiddleware(), handlers.ChannelWebSocket)

		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.CreateUser)
			auth.POST("/login", handlers.LoginUser)
			auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
			auth.POST("/logout", middleware.AuthMiddleware(), handlers.LogoutUser)
		}

		collaboration := api.Group("/collaboration", middleware.AuthMiddleware())
		{
			organizations := collaboration.Group("/organizations")
			{
				organizations.POST("", handlers.CreateOrganization)
				organizations.GET("", handlers.ListOrganizations)
				organizations.GET("/:org_id", handlers.GetOrganization)
				organizations.PUT("/:org_id", handlers.UpdateOrganization)
				organizations.DELETE("/:org_id", handlers.DeleteOrganization)
				organizations.GET("/:org_id/dashboard-stats", handlers.GetOrganizationDashboardStats)
			}

			teams := collaboration.Group("/teams")
			{
				teams.POST("", handlers.CreateTeam)
				teams.GET("", handlers.ListTeams)
				teams.GET("/:team_id", handlers.GetTeam)
				teams.PUT("/:team_id", handlers.UpdateTeam)
				teams.DELETE("/:team_id", handlers.DeleteTeam)
				teams.POST("/:team_id/add-member", handlers.AddTeamMember)
				teams.GET("/:team_id/activity-summary", handlers.GetTeamActivitySummary)
			}

			tasks := collaboration.Group("/tasks")
			{
				tasks.POST("", handlers.CreateTask)
				tasks.GET("", handlers.ListTasks)
				tasks.GET("/:task_id", handlers.GetTask)
				tasks.PUT("/:task_id", handlers.UpdateTask)
				tasks.DELETE("/:task_id", handlers.DeleteTask)
				tasks.POST("/:task_id/start-work", handlers.StartWork)
				tasks.POST("/:task_id/stop-work", handlers.StopWork)
			}

			channels := collaboration.Group("/channels")
			{
				channels.POST("", handlers.CreateChannel)
				channels.GET("", handlers.ListChannels)
				channels.GET("/:channel_id", handlers.GetChannel)
				channels.PUT("/:channel_id", handlers.UpdateChannel)
				channels.DELETE("/:channel_id", handlers.DeleteChannel)
				channels.GET("/:channel_id/messages", handlers.GetChannelMessages)
				channels.POST("/:channel_id/send-message", handlers.SendMessage)
			}

			meetings := collaboration.Group("/meetings")
			{
				meetings.POST("", handlers.CreateMeeting)
				meetings.GET("", handlers.ListMeetings)
				meetings.GET("/:meeting_id", handlers.GetMeeting)
				meetings.PUT("/:meeting_id", handlers.UpdateMeeting)
				meetings.DELETE("/:meeting_id", handlers.DeleteMeeting)
				meetings.POST("/:meeting_id/join", handlers.JoinMeeting)
			}

			notifications := collaboration.Group("/notifications")
			{
				notifications.GET("", handlers.ListNotifications)
				notifications.GET("/:notification_id", handlers.GetNotification)
				notifications.POST("/:notification_id/mark-read", handlers.MarkNotificationRead)
				notifications.POST("/mark-all-read", handlers.MarkAllNotificationsRead)
				notifications.POST("/:notification_id/accept-invitation", handlers.AcceptInvitation)
			}

			metrics := collaboration.Group("/metrics")
			{
				metrics.GET("", handlers.ListActivityMetrics)
				metrics.GET("/dashboard-data", handlers.GetDashboardData)
			}

			integrations := collaboration.Group("/integrations")
			{
				integrations.POST("", handlers.CreateIntegration)
				integrations.GET("", handlers.ListIntegrations)
				integrations.GET("/:integration_id", handlers.GetIntegration)
				integrations.PUT("/:integration_id", handlers.UpdateIntegration)
				integrations.DELETE("/:integration_id", handlers.DeleteIntegration)
			}

			collaboration.GET("/audit-logs", handlers.ListAuditLogs)
		}

		projects := api.Group("/projects", middleware.AuthMiddleware())
		{
			projects.POST("", handlers.CreateProject)
			projects.GET("", handlers.ListProjects)
			projects.POST("/:project_id/invite", handlers.InviteToProject)
		}
	}

	return r
}
