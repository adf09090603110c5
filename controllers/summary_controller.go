package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ngfenglong/JiakAIBot/services"
	"github.com/ngfenglong/JiakAIBot/utils"
)

type SummaryController struct {
	meals *services.MealService
}

func NewSummaryController(meals *services.MealService) *SummaryController {
	return &SummaryController{meals: meals}
}

func (sc *SummaryController) GetDaily(c *gin.Context) {
	day := time.Now()
	if d := c.Query("date"); d != "" {
		parsed, err := utils.ParseDate(d)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		day = parsed
	}

	summary, err := sc.meals.GetDailySummary(c.GetString("userID"), day)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (sc *SummaryController) GetWeekly(c *gin.Context) {
	trend, err := sc.meals.GetWeeklyTrend(c.GetString("userID"), time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, trend)
}

func (sc *SummaryController) GetRecent(c *gin.Context) {
	meals, err := sc.meals.ListRecentMeals(c.GetString("userID"), 5)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, meals)
}
