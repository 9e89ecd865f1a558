package routes

import (
	"contract-management-api/controllers"
	"contract-management-api/middleware"
	"contract-management-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/register", controllers.Register)
			public.POST("/login", controllers.Login)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Contract Management API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.GET("/me", controllers.Me)

			// Contracts
			contracts := protected.Group("/contracts")
			{
				contracts.GET("", controllers.GetContracts)
				contracts.GET("/:id", controllers.GetContract)
				contracts.POST("", controllers.CreateContract)
				contracts.PUT("/:id", controllers.UpdateContract)
				contracts.DELETE("/:id", controllers.DeleteContract)

				contracts.POST("/:id/terminate", controllers.TerminateContract)
				contracts.POST("/:id/reactivate", controllers.ReactivateContract)

				// Document upload -> draft contract fields
				contracts.POST("/ocr", controllers.ExtractContract)
			}

			// Organization reminder settings (admin only for writes)
			org := protected.Group("/org")
			{
				org.GET("/settings", controllers.GetReminderSettings)
				org.PUT("/settings", middleware.RequireRole(models.RoleAdmin), controllers.UpdateReminderSettings)
			}

			// In-app notifications
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", controllers.GetNotifications)
				notifications.PUT("/:id/read", controllers.MarkNotificationRead)
			}
		}
	}
}
