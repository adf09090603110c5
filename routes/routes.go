package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ngfenglong/JiakAIBot/controllers"
	"github.com/ngfenglong/JiakAIBot/middlewares"
	"github.com/ngfenglong/JiakAIBot/services"
)

func SetupRouter(
	flow *services.MealFlowService,
	meals *services.MealService,
	access *services.AccessService,
	hub *services.RealtimeHub,
) *gin.Engine {
	r := gin.Default()

	mealCtl := controllers.NewMealController(flow, meals)
	summaryCtl := controllers.NewSummaryController(meals)
	accessCtl := controllers.NewAccessController(access)
	realtimeCtl := controllers.NewRealtimeController(hub)

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/token", controllers.IssueToken)
	}

	// Access requests only need authentication, not approval.
	accessGrp := r.Group("/access")
	accessGrp.Use(middlewares.AuthMiddleware())
	{
		accessGrp.POST("/request", accessCtl.RequestAccess)
		accessGrp.POST("/reinstate", accessCtl.RequestReinstatement)
		accessGrp.GET("/status", accessCtl.GetStatus)
	}

	// Meal logging requires an approved user.
	mealsGrp := r.Group("/meals")
	mealsGrp.Use(middlewares.AuthMiddleware(), middlewares.AccessMiddleware(access))
	{
		mealsGrp.POST("/analyze/text", mealCtl.AnalyzeText)
		mealsGrp.POST("/analyze/photo", mealCtl.AnalyzePhoto)
		mealsGrp.GET("/pending/:key", mealCtl.GetPending)
		mealsGrp.POST("/pending/:key/portion", mealCtl.AdjustPortion)
		mealsGrp.POST("/pending/:key/nutrient", mealCtl.AdjustNutrient)
		mealsGrp.POST("/pending/:key/confirm", mealCtl.Confirm)
		mealsGrp.DELETE("/pending/:key", mealCtl.Cancel)

		mealsGrp.GET("", mealCtl.ListMeals)
		mealsGrp.PUT("/:id", mealCtl.EditMeal)
		mealsGrp.DELETE("/:id", mealCtl.DeleteMeal)
	}

	summaryGrp := r.Group("/summary")
	summaryGrp.Use(middlewares.AuthMiddleware(), middlewares.AccessMiddleware(access))
	{
		summaryGrp.GET("/daily", summaryCtl.GetDaily)
		summaryGrp.GET("/weekly", summaryCtl.GetWeekly)
		summaryGrp.GET("/recent", summaryCtl.GetRecent)
	}

	ws := r.Group("/ws")
	ws.Use(middlewares.AuthMiddleware(), middlewares.AccessMiddleware(access))
	{
		ws.GET("/events", realtimeCtl.EventsWS)
	}

	// Admin review of access requests.
	admin := r.Group("/admin/access")
	admin.Use(middlewares.AuthMiddleware(), middlewares.AdminMiddleware())
	{
		admin.GET("/requests", accessCtl.ListOpen)
		admin.GET("/approved", accessCtl.ListApproved)
		admin.POST("/:id/approve", accessCtl.Approve)
		admin.POST("/:id/deny", accessCtl.Deny)
		admin.POST("/:id/revoke", accessCtl.Revoke)
	}

	return r
}
