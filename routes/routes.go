package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/surveybot/controllers"
	"github.com/vnkhanh/surveybot/middleware"
)

func SetupRoutes(r *gin.Engine) {
	r.GET("/", func(c *gin.Context) {
		c.String(200, "Survey server is running")
	})
	r.GET("/health", controllers.HealthCheck)

	admin := r.Group("/admin")
	{
		authLimit := middleware.RateLimitAuth()
		admin.POST("/login", authLimit, controllers.Login)
		admin.POST("/signup", authLimit, controllers.Signup)
		admin.POST("/google/login", authLimit, controllers.GoogleLogin)
		admin.POST("/logout", controllers.Logout)
	}

	api := r.Group("/api")
	{
		// Công khai: trang làm khảo sát
		api.GET("/surveys/slug/:slug", controllers.GetSurveyBySlug)
		// :id ở đây là slug (gin yêu cầu cùng tên tham số ở cùng vị trí)
		api.POST("/surveys/:id/responses", middleware.RateLimitResponses(), controllers.SubmitResponse)

		protected := api.Group("")
		protected.Use(middleware.RequireIssuer())
		{
			protected.GET("/me", controllers.Me)

			protected.GET("/surveys", controllers.ListSurveys)
			protected.POST("/surveys", controllers.CreateSurvey)

			owned := protected.Group("/surveys/:id")
			owned.Use(middleware.CheckSurveyOwner())
			{
				owned.GET("/stats", controllers.GetSurveyStats)
				owned.GET("/export", controllers.ExportSurvey)
				owned.POST("/exports", controllers.CreateExportJob)
			}

			protected.GET("/exports/:job_id", controllers.GetExportJob)

			protected.GET("/categories", controllers.ListCategories)
			protected.POST("/categories", controllers.CreateCategory)
			protected.GET("/categories/rollup", controllers.CategoryRollup)
		}
	}
}
