package routes

import (
	"article-review-api/controllers"
	"article-review-api/middleware"
	"article-review-api/models"
	"article-review-api/repository"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, store repository.Store) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/auth/register", controllers.Register)
			public.POST("/auth/login", controllers.Login)
			public.POST("/auth/forgot-password", controllers.ForgotPassword)
			public.POST("/auth/reset-password", controllers.ResetPassword)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Article Review API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(store))
		{
			// Account management
			protected.GET("/auth/profile", controllers.GetProfile)
			protected.PUT("/auth/profile", controllers.UpdateProfile)
			protected.PUT("/auth/change-password", controllers.ChangePassword)

			// Articles
			articles := protected.Group("/articles")
			{
				articles.GET("/my", middleware.RequireRole(models.RoleAuthor), controllers.GetMyArticles)
				articles.POST("", middleware.RequireRole(models.RoleAuthor), controllers.CreateArticle)
				articles.GET("/:id", controllers.GetArticle)
				articles.PUT("/:id/submit", middleware.RequireRole(models.RoleAuthor), controllers.SubmitArticle)
				articles.DELETE("/:id", controllers.DeleteArticle)
				articles.POST("/:id/upload", controllers.UploadManuscript)
				articles.GET("/:id/download", controllers.DownloadArticle)
				articles.GET("/:id/reviews", controllers.GetArticleReviews)
			}

			// Review requests (reviewer inbox)
			requests := protected.Group("/reviewrequests")
			requests.Use(middleware.RequireRole(models.RoleReviewer, models.RoleAdmin))
			{
				requests.GET("/new", controllers.GetNewRequests)
				requests.GET("/inprogress", controllers.GetInProgressRequests)
				requests.PUT("/:id/accept", controllers.AcceptReviewRequest)
				requests.PUT("/:id/decline", controllers.DeclineReviewRequest)
			}

			// Reviews
			reviews := protected.Group("/reviews")
			reviews.Use(middleware.RequireRole(models.RoleReviewer, models.RoleAdmin))
			{
				reviews.POST("", controllers.CreateReview)
				reviews.GET("/completed", controllers.GetCompletedReviews)
				reviews.GET("/:id", controllers.GetReview)
				reviews.PUT("/:id/submit", controllers.SubmitReview)
			}

			// User administration
			users := protected.Group("/users")
			users.Use(middleware.RequireRole(models.RoleAdmin))
			{
				users.GET("", controllers.GetUsers)
				users.POST("", controllers.CreateUser)
				users.DELETE("/:id", controllers.DeleteUser)
				users.PUT("/:id/block", controllers.BlockUser)
			}

			// Editorial administration
			admin := protected.Group("/admin")
			admin.Use(middleware.RequireRole(models.RoleAdmin))
			{
				admin.POST("/reviewrequests", controllers.CreateReviewRequest)
				admin.DELETE("/reviews/:id", controllers.AdminDeleteReview)
				admin.GET("/reviews/completed", controllers.GetAllCompletedReviews)
				admin.DELETE("/article/:id", controllers.AdminDeleteArticle)
				admin.GET("/articles", controllers.GetAllArticles)
			}
		}
	}
}
