package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ngfenglong/JiakAIBot/services"
)

type AccessController struct {
	access *services.AccessService
}

func NewAccessController(access *services.AccessService) *AccessController {
	return &AccessController{access: access}
}

func (ac *AccessController) RequestAccess(c *gin.Context) {
	var body struct {
		Username  string `json:"username"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req, err := ac.access.RequestAccess(services.UserProfile{
		UserID:    c.GetString("userID"),
		Username:  body.Username,
		FirstName: body.FirstName,
		LastName:  body.LastName,
	})
	if err != nil {
		respondAccessError(c, err)
		return
	}
	c.JSON(http.StatusCreated, req)
}

func (ac *AccessController) RequestReinstatement(c *gin.Context) {
	req, err := ac.access.RequestReinstatement(c.GetString("userID"))
	if err != nil {
		respondAccessError(c, err)
		return
	}
	c.JSON(http.StatusCreated, req)
}

func (ac *AccessController) GetStatus(c *gin.Context) {
	req, err := ac.access.Status(c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if req == nil {
		c.JSON(http.StatusOK, gin.H{"status": "none"})
		return
	}
	c.JSON(http.StatusOK, req)
}

// Admin endpoints.

func (ac *AccessController) ListOpen(c *gin.Context) {
	reqs, err := ac.access.ListOpenRequests()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, reqs)
}

func (ac *AccessController) ListApproved(c *gin.Context) {
	reqs, err := ac.access.ListApproved()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, reqs)
}

func (ac *AccessController) Approve(c *gin.Context) {
	var body struct {
		Username  string `json:"username"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	_ = c.ShouldBindJSON(&body)

	userID := c.Param("id")
	err := ac.access.Approve(userID, c.GetString("userID"), services.UserProfile{
		UserID:    userID,
		Username:  body.Username,
		FirstName: body.FirstName,
		LastName:  body.LastName,
	})
	if err != nil {
		respondAccessError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (ac *AccessController) Deny(c *gin.Context) {
	if err := ac.access.Deny(c.Param("id")); err != nil {
		respondAccessError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (ac *AccessController) Revoke(c *gin.Context) {
	if err := ac.access.Revoke(c.Param("id"), c.GetString("userID")); err != nil {
		respondAccessError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func respondAccessError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrAlreadyApproved),
		errors.Is(err, services.ErrRequestExists),
		errors.Is(err, services.ErrAccessRevoked),
		errors.Is(err, services.ErrNotRevoked):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNoRequest):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
