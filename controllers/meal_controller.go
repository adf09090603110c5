package controllers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ngfenglong/JiakAIBot/models"
	"github.com/ngfenglong/JiakAIBot/services"
	"github.com/ngfenglong/JiakAIBot/utils"
)

// MealController serves the logging flow and meal CRUD over REST. The same
// services back the Telegram transport.
type MealController struct {
	flow  *services.MealFlowService
	meals *services.MealService
}

func NewMealController(flow *services.MealFlowService, meals *services.MealService) *MealController {
	return &MealController{flow: flow, meals: meals}
}

func (mc *MealController) AnalyzeText(c *gin.Context) {
	var body struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := mc.flow.StartTextFlow(c.Request.Context(), c.GetString("userID"), body.Text)
	if err != nil {
		respondFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (mc *MealController) AnalyzePhoto(c *gin.Context) {
	file, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file required"})
		return
	}
	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable photo"})
		return
	}
	defer f.Close()

	image, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable photo"})
		return
	}

	view, err := mc.flow.StartPhotoFlow(c.Request.Context(), c.GetString("userID"), image)
	if err != nil {
		respondFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (mc *MealController) AdjustPortion(c *gin.Context) {
	var body struct {
		Multiplier float64 `json:"multiplier" binding:"required"`
		Preset     bool    `json:"preset"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := mc.flow.AdjustPortion(c.Request.Context(), c.GetString("userID"), c.Param("key"), body.Multiplier, body.Preset)
	if err != nil {
		respondFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (mc *MealController) AdjustNutrient(c *gin.Context) {
	var body struct {
		Field string  `json:"field" binding:"required"`
		Delta float64 `json:"delta" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := mc.flow.AdjustNutrient(c.GetString("userID"), c.Param("key"), body.Field, body.Delta)
	if err != nil {
		respondFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (mc *MealController) Confirm(c *gin.Context) {
	meal, err := mc.flow.Confirm(c.GetString("userID"), c.Param("key"))
	if err != nil {
		respondFlowError(c, err)
		return
	}
	c.JSON(http.StatusCreated, meal)
}

func (mc *MealController) Cancel(c *gin.Context) {
	mc.flow.Cancel(c.GetString("userID"), c.Param("key"))
	c.Status(http.StatusNoContent)
}

func (mc *MealController) GetPending(c *gin.Context) {
	view, err := mc.flow.View(c.GetString("userID"), c.Param("key"))
	if err != nil {
		respondFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (mc *MealController) ListMeals(c *gin.Context) {
	day := time.Now()
	if d := c.Query("date"); d != "" {
		parsed, err := utils.ParseDate(d)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		day = parsed
	}

	meals, err := mc.meals.ListMealsByDate(c.GetString("userID"), day)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, meals)
}

func (mc *MealController) DeleteMeal(c *gin.Context) {
	id, ok := parseMealID(c)
	if !ok {
		return
	}
	if err := mc.meals.Delete(c.GetString("userID"), id); err != nil {
		respondFlowError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (mc *MealController) EditMeal(c *gin.Context) {
	id, ok := parseMealID(c)
	if !ok {
		return
	}

	var body struct {
		Description string           `json:"description" binding:"required"`
		Nutrition   models.Nutrition `json:"nutrition"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	meal, err := mc.meals.Edit(c.GetString("userID"), id, body.Description, body.Nutrition)
	if err != nil {
		respondFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, meal)
}

func parseMealID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid meal id"})
		return 0, false
	}
	return uint(id), true
}

func respondFlowError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPendingNotFound),
		errors.Is(err, services.ErrMealNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidPortion),
		errors.Is(err, services.ErrInvalidNutrient):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		if code := services.AnalysisCode(err); code != "" {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "code": code})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
