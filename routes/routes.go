package routes

import (
	"derma-review-api/controllers"
	"derma-review-api/middleware"
	"derma-review-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			public.POST("/signup", controllers.Signup)
			public.GET("/verify-email", controllers.VerifyEmail)
			public.POST("/login", controllers.Login)
			public.POST("/forgot-password", controllers.ForgotPassword)
			public.POST("/reset-password", controllers.ResetPassword)

			// Support tickets may come from visitors without an account;
			// a valid token links the ticket to its submitter.
			public.POST("/support/tickets", middleware.OptionalAuthMiddleware(), controllers.CreateSupportTicket)

			// Care guidance shown next to prediction results
			public.GET("/treatment/suggestions", controllers.GetTreatmentSuggestions)
			public.GET("/treatment/suggestions/:condition", controllers.GetTreatmentSuggestion)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "DermaCare API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// User directory
			users := protected.Group("/users")
			{
				users.GET("/me", controllers.GetMe)
				users.GET("/dermatologists", middleware.RequireRole(models.RolePatient), controllers.ListDermatologists)
			}

			// Predictions (read-only; records are written by the inference pipeline)
			predictions := protected.Group("/predictions")
			{
				predictions.GET("", controllers.GetPredictions)
				predictions.GET("/:id", controllers.GetPrediction)
			}

			// Review requests
			reviewRequests := protected.Group("/review-requests")
			{
				reviewRequests.GET("", controllers.ListReviewRequests)
				reviewRequests.GET("/:id", controllers.GetReviewRequest)

				// Only patients create requests
				reviewRequests.POST("", middleware.RequireRole(models.RolePatient), controllers.CreateReviewRequest)

				// Only dermatologists submit reviews
				reviewRequests.POST("/:id/review", middleware.RequireRole(models.RoleDermatologist), controllers.SubmitReview)
			}

			// Notifications
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", controllers.GetNotifications)
				notifications.GET("/counter", controllers.GetNotificationCounter)
				notifications.PUT("/:id/read", controllers.MarkNotificationRead)
				notifications.PUT("/read-all", controllers.MarkAllNotificationsRead)
			}

			// Support tickets
			protected.GET("/support/tickets/my", controllers.GetMySupportTickets)

			// Admin
			admin := protected.Group("/admin")
			admin.Use(middleware.RequireRole(models.RoleAdmin))
			{
				admin.POST("/users/:id/suspend", controllers.SuspendUser)
				admin.POST("/users/:id/unsuspend", controllers.UnsuspendUser)

				admin.GET("/support/tickets", controllers.ListSupportTickets)
				admin.PUT("/support/tickets/:id", controllers.UpdateSupportTicket)
				admin.DELETE("/support/tickets/:id", controllers.DeleteSupportTicket)

				admin.POST("/treatment/suggestions", controllers.CreateTreatmentSuggestion)
				admin.PUT("/treatment/suggestions/:condition", controllers.UpdateTreatmentSuggestion)
				admin.DELETE("/treatment/suggestions/:condition", controllers.DeleteTreatmentSuggestion)
			}
		}
	}
}
