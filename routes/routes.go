package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/GechKibr/cmfs-feedback-server/controllers"
	"github.com/GechKibr/cmfs-feedback-server/middleware"
)

func SetupRoutes(r *gin.Engine) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/health", controllers.HealthCheck)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", controllers.Register)
			auth.POST("/login", controllers.Login)
			auth.POST("/google/login", controllers.GoogleLoginHandler)
		}
		api.GET("/me", middleware.AuthJWT(), controllers.Me)

		templates := api.Group("/feedback/templates")
		{
			// filler-facing listing, active templates only
			templates.GET("/available", controllers.ListAvailableTemplates)

			templates.GET("", middleware.AuthJWT(), middleware.RequireStaff(), controllers.ListMyTemplates)
			templates.POST("", middleware.AuthJWT(), middleware.RequireStaff(),
				middleware.RateLimitTemplateCreate(), controllers.CreateTemplate)
			templates.GET("/:id", middleware.AuthJWT(), controllers.GetTemplateDetail)

			// writes need editor rights: JWT owner or X-Template-Edit-Token
			templates.PUT("/:id", middleware.OptionalAuth(), middleware.CheckTemplateEditor(), controllers.UpdateTemplate)
			templates.POST("/:id/activate", middleware.OptionalAuth(), middleware.CheckTemplateEditor(), controllers.ActivateTemplate)
			templates.POST("/:id/deactivate", middleware.OptionalAuth(), middleware.CheckTemplateEditor(), controllers.DeactivateTemplate)
			templates.GET("/:id/settings", middleware.OptionalAuth(), middleware.CheckTemplateEditor(), controllers.GetTemplateSettings)
			templates.POST("/:id/fields", middleware.OptionalAuth(), middleware.CheckTemplateEditor(), controllers.AddField)
			templates.PUT("/:id/fields/reorder", middleware.OptionalAuth(), middleware.CheckTemplateEditor(), controllers.ReorderFields)
			templates.GET("/:id/analytics", middleware.OptionalAuth(), middleware.CheckTemplateEditor(), controllers.GetTemplateAnalytics)
			templates.GET("/:id/responses", middleware.OptionalAuth(), middleware.CheckTemplateEditor(), controllers.GetResponses)
			templates.GET("/:id/responses/:rid", middleware.OptionalAuth(), middleware.CheckTemplateEditor(), controllers.GetResponseDetail)
			templates.POST("/:id/export", middleware.OptionalAuth(), middleware.CheckTemplateEditor(), controllers.CreateExport)

			// strict ownership, an edit token must not unlock these
			templates.DELETE("/:id", middleware.AuthJWT(), middleware.CheckTemplateOwner(), controllers.DeleteTemplate)
			templates.POST("/:id/share", middleware.AuthJWT(), middleware.CheckTemplateOwner(), controllers.ShareTemplate)
		}

		api.PUT("/feedback/fields/:id", middleware.OptionalAuth(), middleware.CheckFieldEditor(), controllers.UpdateField)
		api.DELETE("/feedback/fields/:id", middleware.OptionalAuth(), middleware.CheckFieldEditor(), controllers.DeleteField)
		api.POST("/feedback/fields/:id/move", middleware.OptionalAuth(), middleware.CheckFieldEditor(), controllers.MoveField)

		api.POST("/feedback/responses", middleware.OptionalAuth(),
			middleware.RateLimitResponseSubmit(), controllers.SubmitResponse)

		api.GET("/exports/:job_id", middleware.AuthJWT(), controllers.GetExport)
	}
}
