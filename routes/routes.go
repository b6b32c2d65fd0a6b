package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/noyes-server/controllers"
	"github.com/vnkhanh/noyes-server/middleware"
)

func SetupRoutes(r *gin.Engine) {
	r.GET("/health", controllers.HealthCheck)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", controllers.Register)
			auth.POST("/login", controllers.Login)
			auth.POST("/google/login", controllers.GoogleLogin)
		}

		protected := api.Group("/")
		protected.Use(middleware.AuthJWT())
		{
			protected.GET("/me", controllers.Me)
			protected.GET("/sessions/completed", controllers.GetCompletedSessions)
		}

		// public landing list
		api.GET("/questionnaires/public", controllers.GetPublicQuestionnaires)

		qs := api.Group("/questionnaires")
		qs.Use(middleware.AuthJWT())
		{
			qs.POST("", middleware.RateLimitQuestionnaireCreate(), controllers.CreateQuestionnaire)
			qs.GET("/my", controllers.GetMyQuestionnaires)

			owned := qs.Group("/:slug")
			owned.Use(middleware.CheckQuestionnaireOwner())
			{
				owned.GET("", controllers.GetQuestionnaireDetail)
				owned.PUT("", controllers.UpdateQuestionnaire)
				owned.DELETE("", controllers.DeleteQuestionnaire)
				owned.GET("/validate", controllers.ValidateQuestionnaire)
				owned.POST("/activate", controllers.ActivateQuestionnaire)
				owned.POST("/deactivate", controllers.DeactivateQuestionnaire)

				owned.POST("/nodes", controllers.CreateNode)
				owned.PUT("/nodes/:node", controllers.UpdateNode)
				owned.DELETE("/nodes/:node", controllers.DeleteNode)
				owned.POST("/nodes/:node/start", controllers.SetStartNode)
				owned.POST("/nodes/:node/edges", controllers.CreateEdge)
				owned.DELETE("/nodes/:node/edges/:edgeID", controllers.DeleteEdge)

				owned.POST("/invites", controllers.CreateInvite)
				owned.GET("/invites", controllers.ListInvites)
				owned.DELETE("/invites/:inviteID", controllers.RevokeInvite)

				owned.POST("/export", controllers.CreateExport)
			}
		}
		api.GET("/exports/:job_id", middleware.AuthJWT(), controllers.GetExport)

		// player: works for both authenticated and anonymous respondents
		play := api.Group("/play")
		play.Use(middleware.OptionalAuth())
		{
			play.POST("/:slug/start", controllers.StartQuestionnaire)
			play.GET("/:slug/nodes/:node", controllers.GetPlayNode)
			play.POST("/:slug/nodes/:node/answer", controllers.AnswerNode)
			play.POST("/:slug/complete", controllers.CompleteQuestionnaire)
			play.GET("/:slug/history", controllers.GetPlayHistory)
		}
	}
}
