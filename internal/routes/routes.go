package routes

import (
	"context"
	"net/http"

	"github.com/koesnuj/portfolio-sub001/internal/config"
	"github.com/koesnuj/portfolio-sub001/internal/handlers"
	"github.com/koesnuj/portfolio-sub001/internal/middleware"
	"github.com/koesnuj/portfolio-sub001/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Setup wires services, handlers and middleware onto a new engine. ctx bounds
// background work started for the router, such as rate limiter cleanup.
func Setup(ctx context.Context, db *gorm.DB, cfg *config.Config) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.Server.AllowedOrigins))
	if cfg.Server.RateLimit > 0 {
		limiter := middleware.NewRateLimiter(cfg.Server.RateLimit)
		go limiter.Cleanup(ctx)
		router.Use(middleware.RateLimitMiddleware(limiter))
	}

	authService := services.NewAuthService(db)
	userService := services.NewUserService(db)
	folderService := services.NewFolderService(db)
	testCaseService := services.NewTestCaseService(db)
	planService := services.NewPlanService(db)
	dashboardService := services.NewDashboardService(db)

	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	adminHandler := handlers.NewAdminHandler(userService)
	folderHandler := handlers.NewFolderHandler(folderService)
	testCaseHandler := handlers.NewTestCaseHandler(testCaseService)
	planHandler := handlers.NewPlanHandler(planService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	api := router.Group("/api")

	public := api.Group("")
	{
		auth := public.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}
	}

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(db, cfg))
	{
		me := protected.Group("/auth")
		{
			me.GET("/me", authHandler.GetMe)
			me.POST("/logout", authHandler.Logout)
		}

		users := protected.Group("/users")
		{
			users.GET("/assignees", userHandler.GetAssignees)
			users.PATCH("/me", userHandler.UpdateProfile)
			users.PUT("/me/password", userHandler.ChangePassword)
		}

		folders := protected.Group("/folders")
		{
			folders.GET("", folderHandler.GetTree)
			folders.POST("", folderHandler.CreateFolder)
			folders.PUT("/reorder", folderHandler.ReorderFolders)
			folders.POST("/bulk-delete", folderHandler.BulkDeleteFolders)
			folders.PATCH("/:id", folderHandler.RenameFolder)
			folders.PATCH("/:id/move", folderHandler.MoveFolder)
			folders.DELETE("/:id", folderHandler.DeleteFolder)
		}

		testCases := protected.Group("/testcases")
		{
			testCases.GET("", testCaseHandler.GetTestCases)
			testCases.POST("", testCaseHandler.CreateTestCase)
			testCases.PUT("/reorder", testCaseHandler.ReorderTestCases)
			testCases.POST("/move", testCaseHandler.MoveTestCases)
			testCases.POST("/bulk-delete", testCaseHandler.BulkDeleteTestCases)
			testCases.GET("/:id", testCaseHandler.GetTestCase)
			testCases.PATCH("/:id", testCaseHandler.UpdateTestCase)
			testCases.DELETE("/:id", testCaseHandler.DeleteTestCase)
		}

		plans := protected.Group("/plans")
		{
			plans.GET("", planHandler.GetPlans)
			plans.POST("", planHandler.CreatePlan)
			plans.POST("/bulk-delete", planHandler.BulkDeletePlans)
			plans.PATCH("/items/:itemId", planHandler.UpdatePlanItem)
			plans.GET("/:id", planHandler.GetPlan)
			plans.PATCH("/:id", planHandler.UpdatePlan)
			plans.DELETE("/:id", planHandler.DeletePlan)
			plans.POST("/:id/archive", planHandler.ArchivePlan)
			plans.POST("/:id/unarchive", planHandler.UnarchivePlan)
			plans.PATCH("/:id/items/bulk", planHandler.BulkUpdatePlanItems)
		}

		dashboard := protected.Group("/dashboard")
		{
			dashboard.GET("/overview", dashboardHandler.GetOverview)
			dashboard.GET("/active-plans", dashboardHandler.GetActivePlans)
			dashboard.GET("/my-assignments", dashboardHandler.GetMyAssignments)
			dashboard.GET("/recent-activity", dashboardHandler.GetRecentActivity)
		}
	}

	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(db, cfg))
	admin.Use(middleware.AdminMiddleware())
	{
		admin.GET("/users", adminHandler.GetUsers)
		admin.POST("/users/:id/approve", adminHandler.ApproveUser)
		admin.POST("/users/:id/reject", adminHandler.RejectUser)
		admin.PATCH("/users/:id/role", adminHandler.UpdateUserRole)
	}

	router.GET("/health", func(c *gin.Context) {
		status, code := "ok", http.StatusOK
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			status, code = "degraded", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status": status,
		})
	})

	return router
}
