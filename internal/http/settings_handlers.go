package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"vehicletrack/internal/domain"
	"vehicletrack/internal/service"
)

type settingsResponse struct {
	NotificationDays int `json:"notificationDays"`
	RedThreshold     int `json:"redThreshold"`
	OrangeThreshold  int `json:"orangeThreshold"`
}

func (h *Handler) getSettings(c *gin.Context) {
	settings, err := h.settings.Get(c.Request.Context(), userID(c))
	if err != nil {
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, settingsResponse{
		NotificationDays: settings.NotificationDays,
		RedThreshold:     settings.RedThreshold,
		OrangeThreshold:  settings.OrangeThreshold,
	})
}

type updateSettingsRequest struct {
	NotificationDays int `json:"notificationDays" binding:"required,gt=0"`
	RedThreshold     int `json:"redThreshold" binding:"required,gt=0"`
	OrangeThreshold  int `json:"orangeThreshold" binding:"required,gt=0"`
}

func (h *Handler) updateSettings(c *gin.Context) {
	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid settings data"})
		return
	}

	settings, err := h.settings.Update(c.Request.Context(), domain.UserSettings{
		UserID:           userID(c),
		NotificationDays: req.NotificationDays,
		RedThreshold:     req.RedThreshold,
		OrangeThreshold:  req.OrangeThreshold,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidThresholds) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid settings data"})
			return
		}
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, settingsResponse{
		NotificationDays: settings.NotificationDays,
		RedThreshold:     settings.RedThreshold,
		OrangeThreshold:  settings.OrangeThreshold,
	})
}
