package http

import (
	"errors"
	"net/http"
	"regexp"
	"strconv"

	"github.com/gin-gonic/gin"

	"vehicletrack/internal/repository"
	"vehicletrack/internal/service"
)

var shareTokenRegex = regexp.MustCompile(`^[a-f0-9]{16}$`)

type generateShareRequest struct {
	VehicleID      string `json:"vehicleId" binding:"required,uuid"`
	ExpiresInHours int    `json:"expiresInHours" binding:"required,gt=0"`
	Description    string `json:"description"`
}

func (h *Handler) generateShareLink(c *gin.Context) {
	var req generateShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid shared link data"})
		return
	}

	link, err := h.share.Generate(c.Request.Context(), userID(c), req.VehicleID, req.ExpiresInHours, req.Description)
	if err != nil {
		if errors.Is(err, service.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized access to vehicle"})
			return
		}
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token":     link.Token,
		"url":       link.URL,
		"expiresAt": link.ExpiresAt.Format(dateLayout),
	})
}

type shareLinkResponse struct {
	Token       string `json:"token"`
	URL         string `json:"url"`
	VehicleID   string `json:"vehicleId"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"createdAt"`
	ExpiresAt   string `json:"expiresAt"`
}

func shareLinkToResponse(link service.LinkView) shareLinkResponse {
	return shareLinkResponse{
		Token:       link.Token,
		URL:         link.URL,
		VehicleID:   link.VehicleID,
		Description: link.Description,
		CreatedAt:   link.CreatedAt.Format(dateLayout),
		ExpiresAt:   link.ExpiresAt.Format(dateLayout),
	}
}

func (h *Handler) listShareLinks(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	status := repository.LinkStatus(c.DefaultQuery("status", "active"))
	switch status {
	case repository.LinkStatusActive, repository.LinkStatusExpired, repository.LinkStatusAll:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
		return
	}

	result, err := h.share.List(c.Request.Context(), userID(c), service.ListLinksQuery{
		Page:   page,
		Limit:  limit,
		Status: status,
		Sort:   c.DefaultQuery("sort", "createdAt"),
		Order:  c.DefaultQuery("order", "desc"),
	})
	if err != nil {
		h.internalError(c, err)
		return
	}

	data := make([]shareLinkResponse, len(result.Links))
	for i := range result.Links {
		data[i] = shareLinkToResponse(result.Links[i])
	}
	c.JSON(http.StatusOK, gin.H{
		"data": data,
		"meta": gin.H{
			"total":   result.Total,
			"page":    result.Page,
			"limit":   result.Limit,
			"hasMore": result.HasMore,
		},
	})
}

func (h *Handler) resolveShareLink(c *gin.Context) {
	tokenValue := c.Param("token")
	if !shareTokenRegex.MatchString(tokenValue) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid token format"})
		return
	}

	resolved, err := h.share.Resolve(c.Request.Context(), tokenValue)
	if err != nil {
		if errors.Is(err, service.ErrLinkNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Shared link not found"})
			return
		}
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":       resolved.Token,
		"url":         resolved.URL,
		"description": resolved.Description,
		"createdAt":   resolved.CreatedAt.Format(dateLayout),
		"expiresAt":   resolved.ExpiresAt.Format(dateLayout),
		"isExpired":   resolved.IsExpired,
		"vehicle": gin.H{
			"id":            resolved.Vehicle.ID,
			"plateNumber":   resolved.Vehicle.PlateNumber,
			"type":          string(resolved.Vehicle.Type),
			"insuranceDue":  dateString(resolved.Vehicle.InsuranceDue),
			"taxDue":        dateString(resolved.Vehicle.TaxDue),
			"inspectionDue": dateString(resolved.Vehicle.InspectionDue),
		},
	})
}

func (h *Handler) revokeShareLink(c *gin.Context) {
	if err := h.share.Revoke(c.Request.Context(), userID(c), c.Param("token")); err != nil {
		if errors.Is(err, service.ErrLinkNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Shared link not found"})
			return
		}
		h.internalError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
