package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"authserver/internal/middleware"
	"authserver/internal/service"
)

type ProfileHandler interface {
	Protected(c *gin.Context)
	GetProfile(c *gin.Context)
	UpdateDescription(c *gin.Context)
}

type profileHandler struct {
	profileService service.ProfileService
	log            *zap.Logger
}

func NewProfileHandler(profileService service.ProfileService, log *zap.Logger) ProfileHandler {
	return &profileHandler{profileService: profileService, log: log}
}

// UpdateDescriptionRequest uses a pointer so an absent field and an empty
// string can be told apart: clearing the description is allowed.
type UpdateDescriptionRequest struct {
	Description *string `json:"description"`
}

// Protected echoes the verified identity back to the caller.
func (h *profileHandler) Protected(c *gin.Context) {
	userID := c.MustGet(middleware.CtxUserID).(int64)
	username := c.MustGet(middleware.CtxUsername).(string)

	c.JSON(http.StatusOK, gin.H{
		"message": "This is a protected route",
		"user": gin.H{
			"user_id":  userID,
			"username": username,
		},
	})
}

func (h *profileHandler) GetProfile(c *gin.Context) {
	userID := c.MustGet(middleware.CtxUserID).(int64)

	profile, err := h.profileService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.log.Error("Failed to get profile", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *profileHandler) UpdateDescription(c *gin.Context) {
	userID := c.MustGet(middleware.CtxUserID).(int64)

	var req UpdateDescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Description == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Description is required"})
		return
	}

	if err := h.profileService.UpdateDescription(c.Request.Context(), userID, *req.Description); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.log.Error("Failed to update description", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Description updated successfully", "description": *req.Description})
}
